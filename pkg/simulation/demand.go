package simulation

import (
	"strings"
	"time"

	"github.com/pizzalog/eventgen/pkg/config"
)

// OrderLikelihood weights how likely an order is at the given hour. The
// Friday evening and Saturday boosts apply to the weekday passed in.
func OrderLikelihood(hour int, weekday time.Weekday) float64 {
	var likelihood float64
	switch {
	case hour >= 6 && hour < 9:
		likelihood = 0.3 + float64(hour-6)*0.2
	case hour >= 9 && hour < 11:
		likelihood = 0.7
	case isLunch(hour):
		likelihood = 2.0
	case hour >= 14 && hour < 17:
		likelihood = 0.5
	case isDinner(hour):
		likelihood = 1.8
	case hour >= 21 && hour < 23:
		likelihood = 0.6
	default:
		likelihood = 0.1
	}

	if weekday == time.Friday && hour >= 17 {
		likelihood *= 1.3
	}
	if weekday == time.Saturday {
		likelihood *= 1.4
	}

	return likelihood
}

// ItemLikelihood weights how popular an item is at the given hour
func ItemLikelihood(item config.MenuItem, hour int) float64 {
	likelihood := 1.0

	switch item.Category {
	case config.CategoryDrink:
		if isLunch(hour) {
			likelihood *= 1.5
		}
		if isDinner(hour) {
			likelihood *= 1.3
		}
	case config.CategoryPizza:
		name := strings.ToLower(item.Name)
		if strings.Contains(name, "margherita") {
			likelihood *= 1.2
		}
		if strings.Contains(name, "veg") && isLunch(hour) {
			likelihood *= 1.4
		}
		if item.Price > 15 && isDinner(hour) {
			likelihood *= 1.3
		}
	}

	return likelihood
}

// IsPeakHour reports whether arrivals at this hour cluster more densely
func IsPeakHour(hour int) bool {
	return (hour >= 11 && hour < 14) || (hour >= 18 && hour < 21)
}

func isLunch(hour int) bool  { return hour >= 11 && hour < 14 }
func isDinner(hour int) bool { return hour >= 17 && hour < 21 }

// Weighted pairs a candidate with its relative weight
type Weighted[T any] struct {
	Value  T
	Weight float64
}

// PickWeighted normalizes the weights, draws once and returns the first
// candidate whose cumulative weight reaches the draw. Rounding that leaves
// the cumulative sum just under the draw falls back to the first candidate.
func PickWeighted[T any](rng Source, options []Weighted[T]) T {
	var zero T
	if len(options) == 0 {
		return zero
	}

	total := 0.0
	for _, o := range options {
		total += o.Weight
	}
	if total <= 0 {
		return options[0].Value
	}

	draw := rng.Float64()
	cumulative := 0.0
	for _, o := range options {
		cumulative += o.Weight / total
		if draw <= cumulative {
			return o.Value
		}
	}

	return options[0].Value
}

// itemWeights builds the selection weights for one order
func itemWeights(items []config.MenuItem, hour int, weekday time.Weekday) []Weighted[config.MenuItem] {
	orderWeight := OrderLikelihood(hour, weekday)
	weights := make([]Weighted[config.MenuItem], len(items))
	for i, item := range items {
		weights[i] = Weighted[config.MenuItem]{
			Value:  item,
			Weight: ItemLikelihood(item, hour) * orderWeight,
		}
	}
	return weights
}
