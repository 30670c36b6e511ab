// Package menu holds the orderable catalog the generator samples from.
package menu

import (
	"fmt"
	"os"

	"github.com/pizzalog/eventgen/pkg/config"
	"gopkg.in/yaml.v3"
)

// Default returns a fresh copy of the built-in catalog
func Default() []config.MenuItem {
	return []config.MenuItem{
		{ID: "margherita", Name: "Margherita Pizza", Price: 12.99, PrepTime: 15, Category: config.CategoryPizza},
		{ID: "pepperoni", Name: "Pepperoni Pizza", Price: 14.99, PrepTime: 18, Category: config.CategoryPizza},
		{ID: "hawaiian", Name: "Hawaiian Pizza", Price: 15.99, PrepTime: 20, Category: config.CategoryPizza},
		{ID: "veggie", Name: "Vegetarian Pizza", Price: 13.99, PrepTime: 17, Category: config.CategoryPizza},
		{ID: "cola", Name: "Cola", Price: 2.99, PrepTime: 1, Category: config.CategoryDrink},
		{ID: "water", Name: "Mineral Water", Price: 1.99, PrepTime: 1, Category: config.CategoryDrink},
		{ID: "juice", Name: "Fresh Orange Juice", Price: 3.99, PrepTime: 3, Category: config.CategoryDrink},
	}
}

// catalogFile is the on-disk shape of a catalog
type catalogFile struct {
	Items []config.MenuItem `yaml:"items"`
}

// LoadCatalog reads and validates a YAML catalog file
func LoadCatalog(filename string) ([]config.MenuItem, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	if err := config.ValidateMenu(file.Items); err != nil {
		return nil, err
	}

	return file.Items, nil
}

// Resolve picks the catalog for a run: an explicit file wins over the
// config's inline menu, which wins over the built-in catalog.
func Resolve(cfg *config.Config, filename string) ([]config.MenuItem, error) {
	if filename != "" {
		return LoadCatalog(filename)
	}
	if len(cfg.Menu) > 0 {
		return cfg.Menu, nil
	}
	return Default(), nil
}

// ByCategory splits a catalog, keeping catalog order within each category
func ByCategory(items []config.MenuItem) map[config.Category][]config.MenuItem {
	out := make(map[config.Category][]config.MenuItem)
	for _, item := range items {
		out[item.Category] = append(out[item.Category], item)
	}
	return out
}
