package entities

// SearchPlan is the retrieval plan for one assistant turn: short search
// phrases to run against the catalog, optional category names to widen with,
// and an optional price ceiling in euros.
type SearchPlan struct {
	Queries    []string `json:"queries"`
	Categories []string `json:"categories,omitempty"`
	PriceMax   *float64 `json:"priceMax,omitempty"`
}
