package entities

// Category represents a product category
type Category struct {
	ID           string `json:"id" db:"id"`
	Slug         string `json:"slug" db:"slug"`
	Name         string `json:"name" db:"name"`
	Icon         string `json:"icon,omitempty" db:"icon"`
	ImageURL     string `json:"imageUrl,omitempty" db:"image_url"`
	ProductCount int    `json:"productCount" db:"product_count"`
	DisplayOrder int    `json:"displayOrder" db:"display_order"`
}
