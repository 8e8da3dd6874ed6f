/*
Package engine provides the core KPI aggregation engine.

PURPOSE:
  This package contains the dataset-agnostic building blocks of the
  reporting pipeline: raw uploaded records, the field-mapping projection,
  the period filter, and the override resolver. Calculators in the
  metrics package consume rows that have already been mapped and
  filtered here.

KEY CONCEPTS IN THIS FILE (record.go):
  - Record: One uploaded row, a mapping from header name to cell value
  - Category: Which upload a record belongs to (paid, lp, web, crm, ...)
  - Num/Str: Lossy coercion helpers matching spreadsheet semantics

DESIGN PRINCIPLES:
  1. No error paths: malformed cells coerce to zero values, never fail
  2. Immutability: stored rows are never mutated; mapping copies
  3. Full recomputation: derived values are pure functions of current
     inputs, recomputed from scratch on every change

SEE ALSO:
  - mapping.go: Field-mapping projection
  - period.go: Period selector and date filtering
  - resolve.go: Manual/uploaded/computed override precedence
  - storage.go: Persistence capability the engine depends on
*/
package engine

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// =============================================================================
// RECORD - One uploaded row
// =============================================================================

// Record is a single raw row: header name to cell value. Values are
// whatever ingestion produced (string, float64 or nil); consumers
// coerce through Num and Str. Records are immutable once ingested and
// replaced wholesale on re-upload.
type Record map[string]any

// Field reads a named cell as a string, "" when absent.
func (r Record) Field(name string) string { return Str(r[name]) }

// Num reads a named cell as a number, 0 when absent or malformed.
func (r Record) Num(name string) float64 { return Num(r[name]) }

// Has reports whether the column exists on the row at all.
func (r Record) Has(name string) bool { _, ok := r[name]; return ok }

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// =============================================================================
// DATASET CATEGORIES
// =============================================================================

// Category names one of the upload slots. Each category holds exactly
// one dataset at a time.
type Category string

const (
	CategoryPaid      Category = "paid"      // Paid ads rows
	CategoryLanding   Category = "lp"        // Landing page rows
	CategoryWeb       Category = "web"       // Website & e-commerce rows
	CategoryCRM       Category = "crm"       // CRM & sales lead rows
	CategoryBusiness  Category = "biz"       // Pre-aggregated business totals
	CategoryMktTotals Category = "mktTotals" // Pre-aggregated marketing totals
	CategoryMktDetail Category = "mktDetail" // Freeform funnel-table override
)

// Categories lists every upload slot in display order.
var Categories = []Category{
	CategoryPaid, CategoryLanding, CategoryWeb, CategoryCRM,
	CategoryBusiness, CategoryMktTotals, CategoryMktDetail,
}

// ValidCategory reports whether s names a known upload slot.
func ValidCategory(s string) bool {
	for _, c := range Categories {
		if string(c) == s {
			return true
		}
	}
	return false
}

// =============================================================================
// CELL COERCION
// =============================================================================

// Num coerces a cell value to a number. Empty, missing and malformed
// values count as zero; uploads are never rejected for bad cells.
func Num(v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return f
	case bool:
		if n {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// Str coerces a cell value to a string. Numbers keep their shortest
// decimal form so period values like "2025" survive a JSON round-trip.
func Str(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case json.Number:
		return s.String()
	case bool:
		return strconv.FormatBool(s)
	default:
		return fmt.Sprintf("%v", s)
	}
}
