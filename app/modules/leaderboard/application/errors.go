package leaderboardservice

import (
	"fmt"
	"strings"

	"github.com/placar-app/placar-backend/internal/sharedtypes"
)

// InsufficientDataError reports a ranking run whose preconditions do not hold:
// fewer than two eligible participants, or eligible participants with missing
// required field values. The precondition lives here, not in the caller.
type InsufficientDataError struct {
	EligibleCount      int
	IncompleteAthletes []sharedtypes.AthleteID
}

func (e *InsufficientDataError) Error() string {
	if len(e.IncompleteAthletes) > 0 {
		ids := make([]string, len(e.IncompleteAthletes))
		for i, id := range e.IncompleteAthletes {
			ids[i] = id.String()
		}
		return fmt.Sprintf("ranking blocked: %d participant(s) have incomplete required fields: %s",
			len(e.IncompleteAthletes), strings.Join(ids, ", "))
	}
	return fmt.Sprintf("ranking requires at least 2 eligible participants, have %d", e.EligibleCount)
}

// ErrFieldNotCalculated reports an attempt to rank on a field that is not a
// calculated placement field.
type ErrFieldNotCalculated struct {
	FieldKey string
}

func (e *ErrFieldNotCalculated) Error() string {
	return fmt.Sprintf("field %q is not a calculated placement field", e.FieldKey)
}
