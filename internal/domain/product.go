package domain

import "time"

// MainCategory is the top-level catalog grouping shown as the primary filter tab.
type MainCategory string

const (
	MainFood  MainCategory = "Alimentaire"
	MainOther MainCategory = "Divers"
)

// MainCategories lists the enumerated top-level categories in display order.
var MainCategories = []MainCategory{MainFood, MainOther}

// Valid reports whether m is one of the enumerated top-level categories.
func (m MainCategory) Valid() bool {
	for _, c := range MainCategories {
		if m == c {
			return true
		}
	}
	return false
}

type Product struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	MainCategory MainCategory `json:"mainCategory"`
	Category     string       `json:"category"`
	Price        int64        `json:"price"`
	Description  string       `json:"description,omitempty"`
	Image        string       `json:"image,omitempty"`
	Images       []string     `json:"images"`
	InStock      bool         `json:"inStock"`
	Featured     bool         `json:"featured"`
	CreatedAt    time.Time    `json:"createdAt,omitzero"`
	UpdatedAt    time.Time    `json:"updatedAt,omitzero"`
}
