package postgres

import (
	"fmt"
)

// TableNames holds environment-prefixed table names so dev/test/prod can
// share one database.
type TableNames struct {
	Sectors   string
	Folders   string
	Documents string
}

// NewTableNames creates table names with the given prefix.
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Sectors:   fmt.Sprintf("%ssectors", prefix),
		Folders:   fmt.Sprintf("%sfolders", prefix),
		Documents: fmt.Sprintf("%sdocuments", prefix),
	}
}
