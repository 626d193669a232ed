package model

// Category groups menu items on the storefront.
type Category string

const (
	CategoryMain      Category = "main"
	CategoryAppetizer Category = "appetizer"
	CategoryDessert   Category = "dessert"
	CategoryBeverage  Category = "beverage"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryMain, CategoryAppetizer, CategoryDessert, CategoryBeverage:
		return true
	}
	return false
}

// MenuItem represents an orderable dish in the catalogue.
// Price is kept as a decimal string with two fractional digits.
type MenuItem struct {
	ID          string   `json:"id" db:"id"`
	Name        string   `json:"name" db:"name"`
	Description string   `json:"description" db:"description"`
	Price       string   `json:"price" db:"price"`
	Image       string   `json:"image" db:"image"`
	Category    Category `json:"category" db:"category"`
	Available   bool     `json:"available" db:"available"`
}

// MenuItemInput holds the fields needed to create a menu item.
// Available defaults to true when nil.
type MenuItemInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       string   `json:"price"`
	Image       string   `json:"image"`
	Category    Category `json:"category"`
	Available   *bool    `json:"available,omitempty"`
}

// MaxQuantity is the largest quantity a single cart entry may hold.
const MaxQuantity = 99

// CartEntry is a menu item together with the quantity selected by the customer.
type CartEntry struct {
	MenuItem
	Quantity int `json:"quantity"`
}
