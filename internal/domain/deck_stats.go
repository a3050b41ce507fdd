package domain

// DeckStats is the aggregate count triplet shown for a collection.
// It is derived data and never the source of truth.
type DeckStats struct {
	Due   int `json:"due"`
	New   int `json:"new"`
	Total int `json:"total"`
}
