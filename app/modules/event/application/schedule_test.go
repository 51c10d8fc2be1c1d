package eventservice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func TestScheduleParser_NaturalLanguage(t *testing.T) {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	parser := NewScheduleParser(fixedClock{now: base})

	t.Run("tomorrow with time", func(t *testing.T) {
		got, err := parser.Parse("tomorrow at 3pm")
		require.NoError(t, err)
		assert.Equal(t, 2026, got.Year())
		assert.Equal(t, time.March, got.Month())
		assert.Equal(t, 11, got.Day())
		assert.Equal(t, 15, got.Hour())
	})

	t.Run("relative day keeps moving with the clock", func(t *testing.T) {
		later := NewScheduleParser(fixedClock{now: base.AddDate(0, 0, 7)})
		got, err := later.Parse("tomorrow at 3pm")
		require.NoError(t, err)
		assert.Equal(t, 18, got.Day())
	})
}

func TestScheduleParser_ExplicitLayouts(t *testing.T) {
	parser := NewScheduleParser(fixedClock{now: time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)})

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{
			name:  "iso datetime",
			input: "2026-09-15 14:30",
			want:  time.Date(2026, 9, 15, 14, 30, 0, 0, time.Local),
		},
		{
			name:  "iso date",
			input: "2026-09-15",
			want:  time.Date(2026, 9, 15, 0, 0, 0, 0, time.Local),
		},
		{
			name:  "brazilian date",
			input: "15/09/2026",
			want:  time.Date(2026, 9, 15, 0, 0, 0, 0, time.Local),
		},
		{
			name:  "brazilian datetime",
			input: "15/09/2026 14:30",
			want:  time.Date(2026, 9, 15, 14, 30, 0, 0, time.Local),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parser.Parse(tt.input)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestScheduleParser_Errors(t *testing.T) {
	parser := NewScheduleParser(nil)

	_, err := parser.Parse("")
	require.Error(t, err)

	_, err = parser.Parse("not a date at all xyz")
	require.Error(t, err)
}
