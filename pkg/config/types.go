package config

import (
	"strings"
	"time"
)

// Config represents the entire configuration for an event log generation run
type Config struct {
	NumberOfCases        int          `yaml:"numberOfCases" json:"numberOfCases"`
	StartDate            string       `yaml:"startDate" json:"startDate"`
	EndDate              string       `yaml:"endDate" json:"endDate"`
	AverageItemsPerOrder float64      `yaml:"averageItemsPerOrder" json:"averageItemsPerOrder"`
	ActivePizzaChefs     []string     `yaml:"activePizzaChefs" json:"activePizzaChefs"`
	ActiveOvens          int          `yaml:"activeOvens" json:"activeOvens"`
	ActiveDrivers        int          `yaml:"activeDrivers" json:"activeDrivers"`
	PeakHourMultiplier   float64      `yaml:"peakHourMultiplier" json:"peakHourMultiplier"`
	QualityCheckEnabled  bool         `yaml:"qualityCheckEnabled" json:"qualityCheckEnabled"`
	ReworkRate           float64      `yaml:"reworkRate" json:"reworkRate"`
	Seed                 uint64       `yaml:"seed,omitempty" json:"seed,omitempty"`
	Timezone             string       `yaml:"timezone,omitempty" json:"timezone,omitempty"`
	WeekendBasis         WeekendBasis `yaml:"weekendBasis,omitempty" json:"weekendBasis,omitempty"`
	Menu                 []MenuItem   `yaml:"menu,omitempty" json:"menu,omitempty"`

	// Resolved by Validate from StartDate, EndDate and Timezone
	Start time.Time `yaml:"-" json:"-"`
	End   time.Time `yaml:"-" json:"-"`
}

// WeekendBasis selects which calendar day drives the Friday/Saturday demand boost
type WeekendBasis string

const (
	// WeekendBasisOrder uses the simulated order's own weekday
	WeekendBasisOrder WeekendBasis = "order"
	// WeekendBasisWallClock uses the weekday of the machine clock at generation time
	WeekendBasisWallClock WeekendBasis = "wallclock"
)

// Category is the kind of a menu item
type Category string

const (
	CategoryPizza Category = "pizza"
	CategoryDrink Category = "drink"
)

// MenuItem is a single orderable catalog entry
type MenuItem struct {
	ID       string   `yaml:"id,omitempty" json:"id"`
	Name     string   `yaml:"name" json:"name"`
	Price    float64  `yaml:"price" json:"price"`
	PrepTime int      `yaml:"prepTime" json:"prepTime"` // minutes
	Category Category `yaml:"category" json:"category"`
}

// ItemID derives a catalog identifier from a display name
func ItemID(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

// Default returns the configuration the generator ships with
func Default() Config {
	return Config{
		NumberOfCases:        1000,
		StartDate:            "2024-01-01",
		EndDate:              "2024-03-31",
		AverageItemsPerOrder: 2,
		ActivePizzaChefs:     []string{"Mario", "Luigi"},
		ActiveOvens:          2,
		ActiveDrivers:        3,
		PeakHourMultiplier:   2.5,
		QualityCheckEnabled:  true,
		ReworkRate:           15,
		Timezone:             "UTC",
		WeekendBasis:         WeekendBasisOrder,
	}
}
