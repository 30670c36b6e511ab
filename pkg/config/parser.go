package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps every precondition failure reported by Validate
var ErrInvalidConfig = errors.New("invalid configuration")

const dateLayout = "2006-01-02"

// Hard ceilings that keep a single run's allocations bounded
const (
	MaxNumberOfCases        = 1_000_000
	MaxAverageItemsPerOrder = 100
	MaxPeakHourMultiplier   = 100
)

// LoadConfig loads and parses the configuration file
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result
func Parse(data []byte) (*Config, error) {
	config := Default()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the configuration and resolves the simulation window
func (c *Config) Validate() error {
	if c.NumberOfCases <= 0 || c.NumberOfCases > MaxNumberOfCases {
		return invalid("numberOfCases must be between 1 and %d", MaxNumberOfCases)
	}

	// Negated comparisons so NaN fails them
	if !(c.AverageItemsPerOrder > 0 && c.AverageItemsPerOrder <= MaxAverageItemsPerOrder) {
		return invalid("averageItemsPerOrder must be greater than 0 and at most %d", MaxAverageItemsPerOrder)
	}

	if len(c.ActivePizzaChefs) == 0 {
		return invalid("at least one active pizza chef must be defined")
	}
	for i, chef := range c.ActivePizzaChefs {
		if chef == "" {
			return invalid("activePizzaChefs[%d]: name is required", i)
		}
	}

	if c.ActiveOvens <= 0 {
		return invalid("activeOvens must be greater than 0")
	}

	if c.ActiveDrivers <= 0 {
		return invalid("activeDrivers must be greater than 0")
	}

	if !(c.PeakHourMultiplier >= 1.0 && c.PeakHourMultiplier <= MaxPeakHourMultiplier) {
		return invalid("peakHourMultiplier must be between 1.0 and %d", MaxPeakHourMultiplier)
	}

	if !(c.ReworkRate >= 0 && c.ReworkRate <= 100) {
		return invalid("reworkRate must be between 0 and 100")
	}

	switch c.WeekendBasis {
	case "":
		c.WeekendBasis = WeekendBasisOrder
	case WeekendBasisOrder, WeekendBasisWallClock:
	default:
		return invalid("weekendBasis must be either 'order' or 'wallclock'")
	}

	loc := time.UTC
	if c.Timezone != "" {
		l, err := time.LoadLocation(c.Timezone)
		if err != nil {
			return invalid("timezone %q: %v", c.Timezone, err)
		}
		loc = l
	}

	start, err := parseDate(c.StartDate, loc)
	if err != nil {
		return invalid("startDate: %v", err)
	}
	end, err := parseDate(c.EndDate, loc)
	if err != nil {
		return invalid("endDate: %v", err)
	}
	if end.Before(start) {
		return invalid("endDate %s must not precede startDate %s", c.EndDate, c.StartDate)
	}
	c.Start, c.End = start, end

	if len(c.Menu) > 0 {
		if err := ValidateMenu(c.Menu); err != nil {
			return err
		}
	}

	return nil
}

// ValidateMenu checks every catalog entry, filling in missing ids from names
func ValidateMenu(items []MenuItem) error {
	if len(items) == 0 {
		return invalid("at least one menu item must be defined")
	}

	seen := make(map[string]bool, len(items))
	for i := range items {
		item := &items[i]
		if item.Name == "" {
			return invalid("menu item %d: name is required", i)
		}
		if item.ID == "" {
			item.ID = ItemID(item.Name)
		}
		if seen[item.ID] {
			return invalid("menu item %s: duplicate id", item.ID)
		}
		seen[item.ID] = true

		if !(item.Price >= 0) || math.IsInf(item.Price, 1) {
			return invalid("menu item %s: price must be a finite, non-negative amount", item.ID)
		}
		if item.PrepTime <= 0 {
			return invalid("menu item %s: prepTime must be greater than 0", item.ID)
		}
		if item.Category != CategoryPizza && item.Category != CategoryDrink {
			return invalid("menu item %s: category must be either 'pizza' or 'drink'", item.ID)
		}
	}

	return nil
}

func parseDate(value string, loc *time.Location) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("date is required")
	}
	if t, err := time.ParseInLocation(dateLayout, value, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is neither YYYY-MM-DD nor RFC3339", value)
	}
	return t.In(loc), nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
