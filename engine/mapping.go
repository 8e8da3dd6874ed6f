package engine

// =============================================================================
// FIELD MAPPING - Canonical name to uploaded column name
// =============================================================================

// FieldMapping maps canonical field names to uploaded column names, one
// table per dataset category. An absent or empty entry means the
// canonical name is used verbatim as the source column.
type FieldMapping map[string]string

// MapRows rewrites raw rows into canonical field names. Each output row
// starts as a shallow copy of the input row, so unmapped original
// columns survive unchanged; a mapped column is copied onto the
// canonical name only when it exists on the row. Missing source columns
// are silently skipped, leaving prior values on the canonical field.
//
// Mapping is a projection, not an accumulation: applying it twice with
// the same table yields the same rows as applying it once. Stored rows
// are never mutated; the mapping is applied read-only at consumption
// time.
func MapRows(rows []Record, mapping FieldMapping) []Record {
	if len(mapping) == 0 {
		return rows
	}
	out := make([]Record, len(rows))
	for i, r := range rows {
		mapped := r.Clone()
		for canonical, src := range mapping {
			if src == "" {
				continue
			}
			if v, ok := r[src]; ok {
				mapped[canonical] = v
			}
		}
		out[i] = mapped
	}
	return out
}
