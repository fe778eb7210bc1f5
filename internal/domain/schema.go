package domain

import (
	"sort"
	"strings"
)

// Schema maps the metadata feed's unstable column names onto the fields the
// reconciler needs. An empty column name means the feed carries no usable
// column for that field and the documented default applies instead.
type Schema struct {
	Code       string
	Location   string
	Name       string
	Department string
	Province   string
	Region     string
}

// schemaHints are the case-insensitive substrings used to pick each column.
// Upstream renames columns between releases ("Ubicaci_in", "_Ubicaci_in",
// "ubicaci_in" have all been observed) so matching is deliberately fuzzy.
var schemaHints = []struct {
	field  func(*Schema) *string
	substr string
}{
	{func(s *Schema) *string { return &s.Code }, "codigo"},
	{func(s *Schema) *string { return &s.Location }, "ubicaci"},
	{func(s *Schema) *string { return &s.Name }, "nombre_del_pluviometro"},
	{func(s *Schema) *string { return &s.Department }, "departamento"},
	{func(s *Schema) *string { return &s.Province }, "provincia"},
	{func(s *Schema) *string { return &s.Region }, "region"},
}

// ResolveSchema selects, by case-insensitive substring match, which metadata
// column supplies each station field. It never fails: fields with no matching
// column resolve to empty and the caller substitutes defaults. Columns are
// scanned in sorted order so resolution is deterministic when several
// columns match the same hint.
func ResolveSchema(columns []string) Schema {
	sorted := make([]string, len(columns))
	copy(sorted, columns)
	sort.Strings(sorted)

	var s Schema
	for _, hint := range schemaHints {
		for _, col := range sorted {
			if strings.Contains(strings.ToLower(col), hint.substr) {
				*hint.field(&s) = col
				break
			}
		}
	}
	return s
}

// Columns returns the union of keys across rows, for schema resolution.
func Columns(rows []Row) []string {
	seen := make(map[string]struct{})
	for _, row := range rows {
		for k := range row {
			seen[k] = struct{}{}
		}
	}
	cols := make([]string, 0, len(seen))
	for k := range seen {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}
