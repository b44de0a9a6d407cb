package entities

// StockStatus represents product stock availability
type StockStatus string

const (
	StockStatusInStock    StockStatus = "IN_STOCK"
	StockStatusLowStock   StockStatus = "LOW_STOCK"
	StockStatusOutOfStock StockStatus = "OUT_OF_STOCK"
	StockStatusOnDemand   StockStatus = "ON_DEMAND"
)

// Product represents a catalog item. JSON tags are camelCase because the
// storefront client consumes this shape directly.
type Product struct {
	ID              string      `json:"id" db:"id"`
	ExternalID      string      `json:"externalId" db:"external_id"`
	SKU             string      `json:"sku" db:"sku"`
	Name            string      `json:"name" db:"name"`
	Slug            string      `json:"slug" db:"slug"`
	Description     string      `json:"description" db:"description"`
	ShortDesc       string      `json:"shortDesc" db:"short_desc"`
	Price           float64     `json:"price" db:"price"`
	OriginalPrice   *float64    `json:"originalPrice,omitempty" db:"original_price"`
	DiscountPercent *int        `json:"discountPercent,omitempty" db:"discount_percent"`
	Currency        string      `json:"currency" db:"currency"`
	StockStatus     StockStatus `json:"stockStatus" db:"stock_status"`
	CategoryID      string      `json:"categoryId" db:"category_id"`
	Brand           string      `json:"brand,omitempty" db:"brand"`
	Images          []string    `json:"images" db:"images"`
	Thumbnail       string      `json:"thumbnail" db:"thumbnail"`
	Available       bool        `json:"available" db:"available"`
}
