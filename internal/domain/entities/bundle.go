package entities

// BundleDefinition is a curated themed kit: a keyword set resolved against
// the live catalog at request time, so bundles track stock automatically
type BundleDefinition struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Keywords    []string `json:"keywords"`
	MaxProducts int      `json:"maxProducts"`
}

// Bundle is a definition populated with the products currently matching it
type Bundle struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Products    []*Product `json:"products"`
	TotalPrice  float64    `json:"totalPrice"`
}
