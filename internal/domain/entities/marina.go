package entities

// Marina represents a marina or harbour a yacht can be provisioned at.
// Rows imported from OpenStreetMap carry an OSMID; manually created ones don't.
type Marina struct {
	ID      string   `json:"id" db:"id"`
	OSMID   *string  `json:"-" db:"osm_id"`
	Name    string   `json:"name" db:"name"`
	City    string   `json:"city,omitempty" db:"city"`
	Country string   `json:"country,omitempty" db:"country"`
	Lat     *float64 `json:"lat,omitempty" db:"lat"`
	Lng     *float64 `json:"lng,omitempty" db:"lng"`
}
