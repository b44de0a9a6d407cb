package entities

// SuggestionType discriminates autocomplete suggestion entries
type SuggestionType string

const (
	SuggestionTypeCategory SuggestionType = "category"
	SuggestionTypeMarina   SuggestionType = "marina"
	SuggestionTypeProduct  SuggestionType = "product"
)

// Suggestion is a single autocomplete entry for the search box
type Suggestion struct {
	ID       string         `json:"id"`
	Type     SuggestionType `json:"type"`
	Label    string         `json:"label"`
	Subtitle string         `json:"subtitle,omitempty"`
	Icon     string         `json:"icon,omitempty"`
}
