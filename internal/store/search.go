package store

import (
	"sort"
	"strings"

	"arquivo/internal/domain/models"
)

// Search matches case-insensitive substrings: sectors and folders by name,
// documents by name or description. The three result lists stay separate.
// An empty query matches everything; callers treat it as "no search
// active".
func (s *Store) Search(query string) models.SearchResults {
	q := strings.ToLower(query)

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := models.SearchResults{
		Sectors:   []models.Sector{},
		Folders:   []models.Folder{},
		Documents: []models.Document{},
	}

	for _, sec := range s.sectors {
		if strings.Contains(strings.ToLower(sec.Name), q) {
			results.Sectors = append(results.Sectors, *sec)
		}
	}
	for _, f := range s.folders {
		if strings.Contains(strings.ToLower(f.Name), q) {
			results.Folders = append(results.Folders, *f)
		}
	}
	for _, d := range s.documents {
		if strings.Contains(strings.ToLower(d.Name), q) {
			results.Documents = append(results.Documents, *d)
			continue
		}
		if d.Description != nil && strings.Contains(strings.ToLower(*d.Description), q) {
			results.Documents = append(results.Documents, *d)
		}
	}

	sort.Slice(results.Sectors, func(i, j int) bool { return results.Sectors[i].Name < results.Sectors[j].Name })
	sort.Slice(results.Folders, func(i, j int) bool { return results.Folders[i].Name < results.Folders[j].Name })
	sort.Slice(results.Documents, func(i, j int) bool { return results.Documents[i].Name < results.Documents[j].Name })
	return results
}
