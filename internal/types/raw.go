package types

import (
	"github.com/go-gota/gota/dataframe"
)

// RawTable is the dataset exactly as read from disk: named columns of mixed
// type with no ordering key.
type RawTable struct {
	Path  string
	Frame dataframe.DataFrame
}

// Rows returns the number of data rows
func (r *RawTable) Rows() int {
	return r.Frame.Nrow()
}

// HasColumn reports whether the header row contains name exactly
func (r *RawTable) HasColumn(name string) bool {
	for _, n := range r.Frame.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// Records returns the cells of the named column as strings. Missing cells
// come back as "NaN".
func (r *RawTable) Records(name string) ([]string, error) {
	if !r.HasColumn(name) {
		return nil, &ColumnNotFoundError{Name: name, Available: r.Frame.Names()}
	}
	return r.Frame.Col(name).Records(), nil
}
