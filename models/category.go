package models

// AllCategories selects every category in a product filter.
const AllCategories = "all"

type Category struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}
