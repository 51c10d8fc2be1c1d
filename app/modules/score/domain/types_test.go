package scoredomain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placar-app/placar-backend/app/modules/score/domain/scorevalue"
)

func sprintFields() []ScoringField {
	return []ScoringField{
		{
			Key:          "time",
			Label:        "Time",
			InputKind:    InputNumber,
			Required:     true,
			DisplayOrder: 1,
			Metadata:     FieldMetadata{Format: scorevalue.FormatTime, SortOrder: SortAscending},
		},
		{
			Key:          "wind",
			Label:        "Wind",
			InputKind:    InputNumber,
			DisplayOrder: 2,
		},
		{
			Key:          "heat_rank",
			Label:        "Heat Placement",
			InputKind:    InputCalculated,
			DisplayOrder: 3,
			Metadata:     FieldMetadata{CalculationType: CalcHeatPlacement, ReferenceField: "time"},
		},
	}
}

func TestComputeMainValue(t *testing.T) {
	tests := []struct {
		name    string
		form    map[string]string
		fields  []ScoringField
		want    float64
		wantErr error
	}{
		{
			name:   "recognized key uses declared format",
			form:   map[string]string{"time": "01:05.250", "wind": "1.2"},
			fields: sprintFields(),
			want:   65250,
		},
		{
			name:   "recognized key is case insensitive",
			form:   map[string]string{"Time": "00:12.000"},
			fields: sprintFields(),
			want:   12000,
		},
		{
			name: "points beats score in priority order",
			form: map[string]string{"score": "50", "points": "9,5"},
			fields: []ScoringField{
				{Key: "points", InputKind: InputNumber, DisplayOrder: 1, Metadata: FieldMetadata{Format: scorevalue.FormatPoints}},
				{Key: "score", InputKind: InputNumber, DisplayOrder: 2},
			},
			want: 9.5,
		},
		{
			name: "fallback to first numeric field in display order",
			form: map[string]string{"laps": "4", "style": "freestyle"},
			fields: []ScoringField{
				{Key: "style", InputKind: InputText, DisplayOrder: 1},
				{Key: "laps", InputKind: InputInteger, DisplayOrder: 2},
			},
			want: 4,
		},
		{
			name: "calculated fields never supply the main value",
			form: map[string]string{"heat_rank": "1"},
			fields: []ScoringField{
				{Key: "heat_rank", InputKind: InputCalculated, DisplayOrder: 1},
			},
			wantErr: ErrNoScorableValue,
		},
		{
			name:    "empty form",
			form:    map[string]string{},
			fields:  sprintFields(),
			wantErr: ErrNoScorableValue,
		},
		{
			name:   "zero is a real value",
			form:   map[string]string{"points": "0"},
			fields: []ScoringField{{Key: "points", InputKind: InputNumber, DisplayOrder: 1}},
			want:   0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeMainValue(tt.form, tt.fields)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestMissingRequired(t *testing.T) {
	fields := sprintFields()

	assert.Equal(t, []string{"time"}, MissingRequired(map[string]string{}, fields))
	assert.Equal(t, []string{"time"}, MissingRequired(map[string]string{"time": "  "}, fields))
	assert.Empty(t, MissingRequired(map[string]string{"time": "01:05.250"}, fields))
}

func TestOrderFields(t *testing.T) {
	fields := []ScoringField{
		{Key: "b", DisplayOrder: 2},
		{Key: "a", DisplayOrder: 1},
		{Key: "c", DisplayOrder: 3},
	}
	ordered := OrderFields(fields)
	assert.Equal(t, "a", ordered[0].Key)
	assert.Equal(t, "b", ordered[1].Key)
	assert.Equal(t, "c", ordered[2].Key)
	// The input slice is untouched.
	assert.Equal(t, "b", fields[0].Key)
}
