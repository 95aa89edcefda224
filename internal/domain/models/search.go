package models

// SearchResults holds the per-collection matches for one query. The three
// lists are independent: never merged, ranked, or deduplicated.
type SearchResults struct {
	Sectors   []Sector   `json:"sectors"`
	Folders   []Folder   `json:"folders"`
	Documents []Document `json:"documents"`
}

// Empty reports whether nothing matched.
func (r SearchResults) Empty() bool {
	return len(r.Sectors) == 0 && len(r.Folders) == 0 && len(r.Documents) == 0
}
