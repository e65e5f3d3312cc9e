package excel

import "luxcheck/domain/core"

// Sheet is a tabular standards source: one header row, one record per data row.
// Empty cells are stored as null so numeric targets read as absent.
type Sheet struct {
	Name    string         // sheet name, empty for CSV
	Headers []string       // column headers after key mapping
	Rows    []*core.Fields // data rows keyed by header, in column order
}

// KeyMapper maps a header cell onto a record key
type KeyMapper interface {
	NormalizeKey(key string) string
}
