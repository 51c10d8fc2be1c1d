package eventservice

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/br"
	"github.com/olebedev/when/rules/en"
)

// explicit layouts tried after natural-language parsing fails.
var scheduleLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04",
	"02/01/2006",
}

// Clock abstracts time.Now for deterministic tests.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// ScheduleParser turns operator-typed schedule text into timestamps. It
// accepts natural language ("amanhã às 14h", "next saturday 9am") and falls
// back to explicit layouts.
type ScheduleParser struct {
	w     *when.Parser
	clock Clock
}

// NewScheduleParser creates a parser with English and Brazilian Portuguese
// rules.
func NewScheduleParser(clock Clock) *ScheduleParser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(br.All...)
	if clock == nil {
		clock = RealClock{}
	}
	return &ScheduleParser{w: w, clock: clock}
}

// Parse resolves the input to a concrete time.
func (p *ScheduleParser) Parse(input string) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, fmt.Errorf("empty schedule input")
	}

	if r, err := p.w.Parse(input, p.clock.Now()); err == nil && r != nil {
		return r.Time, nil
	}

	for _, layout := range scheduleLayouts {
		if t, err := time.ParseInLocation(layout, input, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("could not recognize schedule format: %s", input)
}
