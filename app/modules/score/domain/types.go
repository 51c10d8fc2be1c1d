// Package scoredomain holds the scoring template model and the pure score
// calculation rules.
package scoredomain

import (
	"errors"
	"sort"
	"strings"

	"github.com/placar-app/placar-backend/app/modules/score/domain/scorevalue"
	"github.com/placar-app/placar-backend/internal/sharedtypes"
)

// InputKind enumerates how a scoring field is captured on the judge form.
type InputKind string

const (
	InputNumber     InputKind = "number"
	InputInteger    InputKind = "integer"
	InputText       InputKind = "text"
	InputSelect     InputKind = "select"
	InputCalculated InputKind = "calculated"
)

// CalculationType selects the scope of a calculated (placement) field.
type CalculationType string

const (
	CalcHeatPlacement  CalculationType = "heat_placement"
	CalcFinalPlacement CalculationType = "final_placement"
)

// SortOrder controls which direction of main value wins a ranking.
type SortOrder string

const (
	SortAscending  SortOrder = "asc"  // lower value wins
	SortDescending SortOrder = "desc" // higher value wins
)

// FieldMetadata carries the per-field configuration authored by an admin.
type FieldMetadata struct {
	Format          scorevalue.Format `json:"format,omitempty"`
	Min             *float64          `json:"min,omitempty"`
	Max             *float64          `json:"max,omitempty"`
	Options         []string          `json:"options,omitempty"`
	CalculationType CalculationType   `json:"calculation_type,omitempty"`
	ReferenceField  string            `json:"reference_field,omitempty"`
	SortOrder       SortOrder         `json:"sort_order,omitempty"`
}

// ScoringField is one configurable field of a modality's scoring template.
// Authored by administrators, read-only to judges.
type ScoringField struct {
	TemplateID   sharedtypes.TemplateID
	Key          string
	Label        string
	InputKind    InputKind
	Required     bool
	DisplayOrder int
	Metadata     FieldMetadata
}

// Calculated reports whether the field's value is produced by a ranking run
// rather than judge input.
func (f ScoringField) Calculated() bool { return f.InputKind == InputCalculated }

// OrderFields returns a copy of fields sorted by display order.
func OrderFields(fields []ScoringField) []ScoringField {
	ordered := make([]ScoringField, len(fields))
	copy(ordered, fields)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].DisplayOrder < ordered[j].DisplayOrder
	})
	return ordered
}

// mainValueKeys are the field keys recognized as carrying the canonical score,
// checked case-insensitively and in this priority order.
var mainValueKeys = []string{"result", "time", "distance", "points", "score"}

// ErrNoScorableValue reports a submission in which no field yields a numeric
// main value. A genuine zero score is representable; absence is not zero.
var ErrNoScorableValue = errors.New("no scorable value in submitted fields")

// ComputeMainValue derives the canonical main score from a submitted form.
// It prefers recognized keys, resolving their declared format through the
// field definitions, and falls back to the first numeric-coercible entry in
// display order.
func ComputeMainValue(form map[string]string, fields []ScoringField) (float64, error) {
	byKey := make(map[string]ScoringField, len(fields))
	for _, f := range fields {
		byKey[strings.ToLower(f.Key)] = f
	}

	for _, want := range mainValueKeys {
		for key, raw := range form {
			if strings.ToLower(key) != want || strings.TrimSpace(raw) == "" {
				continue
			}
			format := scorevalue.FormatNone
			if f, ok := byKey[want]; ok {
				format = f.Metadata.Format
			}
			return scorevalue.Parse(raw, format)
		}
	}

	// No recognized key: first numeric-coercible field in display order.
	for _, f := range OrderFields(fields) {
		if f.Calculated() {
			continue
		}
		raw, ok := form[f.Key]
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		if value, err := scorevalue.Parse(raw, f.Metadata.Format); err == nil {
			return value, nil
		}
	}

	return 0, ErrNoScorableValue
}

// MissingRequired lists the keys of required non-calculated fields absent from
// the form. Used by the ranking precondition and form validation alike.
func MissingRequired(form map[string]string, fields []ScoringField) []string {
	var missing []string
	for _, f := range OrderFields(fields) {
		if !f.Required || f.Calculated() {
			continue
		}
		if raw, ok := form[f.Key]; !ok || strings.TrimSpace(raw) == "" {
			missing = append(missing, f.Key)
		}
	}
	return missing
}
