package leaderboardservice

import (
	"bytes"
	"context"
	"sort"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/placar-app/placar-backend/internal/sharedtypes"
)

// ScorePoint is one recorded main value over time, chart input.
type ScorePoint struct {
	RecordedAt time.Time
	Value      float64
}

// GenerateScoreEvolutionChart produces a PNG line chart of an athlete's main
// values across submissions.
func (s *LeaderboardService) GenerateScoreEvolutionChart(ctx context.Context, athleteID sharedtypes.AthleteID, history []ScorePoint) ([]byte, error) {
	if len(history) == 0 {
		return renderNoDataPlaceholder()
	}

	xValues := make([]time.Time, len(history))
	yValues := make([]float64, len(history))
	for i, point := range history {
		xValues[i] = point.RecordedAt
		yValues[i] = point.Value
	}

	mainSeries := chart.TimeSeries{
		Name:    "Score Evolution",
		XValues: xValues,
		YValues: yValues,
		Style: chart.Style{
			StrokeColor: drawing.ColorBlue,
			StrokeWidth: 2,
			DotWidth:    4,
			DotColor:    chart.ColorAlternateBlue,
		},
	}

	graph := chart.Chart{
		Width:  800,
		Height: 400,
		XAxis: chart.XAxis{
			Name:           "Date",
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01-02"),
		},
		YAxis: chart.YAxis{
			Name: "Main Value",
		},
		Series: []chart.Series{mainSeries},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ScoreHistory collects an athlete's recorded main values within a scope,
// ordered by submission time.
func (s *LeaderboardService) ScoreHistory(ctx context.Context, scope sharedtypes.ScoreScope, athleteID sharedtypes.AthleteID) ([]ScorePoint, error) {
	scores, err := s.store.ScoresForScope(ctx, scope)
	if err != nil {
		return nil, err
	}
	var history []ScorePoint
	for _, row := range scores {
		if row.AthleteID != athleteID {
			continue
		}
		history = append(history, ScorePoint{RecordedAt: row.RecordedAt, Value: row.MainValue})
	}
	sort.Slice(history, func(i, j int) bool {
		return history[i].RecordedAt.Before(history[j].RecordedAt)
	})
	return history, nil
}

func renderNoDataPlaceholder() ([]byte, error) {
	graph := chart.Chart{
		Width:  800,
		Height: 400,
		Series: []chart.Series{
			chart.ContinuousSeries{XValues: []float64{0, 1}, YValues: []float64{0, 0}},
		},
	}
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
