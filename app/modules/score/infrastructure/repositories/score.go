package scoredb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/placar-app/placar-backend/internal/sharedtypes"
)

// ScoreDBImpl implements Repository on bun.
type ScoreDBImpl struct {
	DB *bun.DB
}

func NewScoreDB(db *bun.DB) *ScoreDBImpl {
	return &ScoreDBImpl{DB: db}
}

func (r *ScoreDBImpl) idb(db bun.IDB) bun.IDB {
	if db != nil {
		return db
	}
	return r.DB
}

func (r *ScoreDBImpl) CreateTemplate(ctx context.Context, db bun.IDB, template *ScoringTemplate, fields []ScoringField) error {
	idb := r.idb(db)
	if template.ID == uuid.Nil {
		template.ID = newID()
	}
	if _, err := idb.NewInsert().Model(template).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert scoring template %q: %w", template.Name, err)
	}
	for i := range fields {
		if fields[i].ID == uuid.Nil {
			fields[i].ID = newID()
		}
		fields[i].TemplateID = template.ID
	}
	if len(fields) > 0 {
		if _, err := idb.NewInsert().Model(&fields).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert scoring fields for template %s: %w", template.ID, err)
		}
	}
	return nil
}

func (r *ScoreDBImpl) GetTemplate(ctx context.Context, db bun.IDB, templateID sharedtypes.TemplateID) (*ScoringTemplate, error) {
	var template ScoringTemplate
	err := r.idb(db).NewSelect().
		Model(&template).
		Where("id = ?", uuid.UUID(templateID)).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to fetch template %s: %w", templateID, err)
	}
	return &template, nil
}

func (r *ScoreDBImpl) GetFields(ctx context.Context, db bun.IDB, templateID sharedtypes.TemplateID) ([]ScoringField, error) {
	var fields []ScoringField
	err := r.idb(db).NewSelect().
		Model(&fields).
		Where("template_id = ?", uuid.UUID(templateID)).
		Order("display_order ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fields for template %s: %w", templateID, err)
	}
	return fields, nil
}

func applyScoreKey(q *bun.SelectQuery, key ScoreKey) *bun.SelectQuery {
	q = q.Where("athlete_id = ?", uuid.UUID(key.AthleteID)).
		Where("modality_id = ?", uuid.UUID(key.ModalityID)).
		Where("event_id = ?", uuid.UUID(key.EventID)).
		Where("judge_id = ?", uuid.UUID(key.JudgeID)).
		Where("template_id = ?", uuid.UUID(key.TemplateID))
	if key.HeatID != nil {
		q = q.Where("heat_id = ?", uuid.UUID(*key.HeatID))
	} else {
		q = q.Where("heat_id IS NULL")
	}
	return q
}

// FindScore returns the live score for the exact key, or nil when absent.
func (r *ScoreDBImpl) FindScore(ctx context.Context, db bun.IDB, key ScoreKey) (*Score, error) {
	var score Score
	err := applyScoreKey(r.idb(db).NewSelect().Model(&score), key).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up score: %w", err)
	}
	return &score, nil
}

func (r *ScoreDBImpl) InsertScore(ctx context.Context, db bun.IDB, score *Score) error {
	if score.ID == uuid.Nil {
		score.ID = newID()
	}
	if score.Version == 0 {
		score.Version = 1
	}
	if _, err := r.idb(db).NewInsert().Model(score).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert score for athlete %s: %w", score.AthleteID, err)
	}
	return nil
}

// UpdateScore writes the mutable fields of a score, guarded by the optimistic
// version counter. A mismatch means another judge wrote first.
func (r *ScoreDBImpl) UpdateScore(ctx context.Context, db bun.IDB, score *Score, expectedVersion int64) error {
	res, err := r.idb(db).NewUpdate().
		Model(score).
		Column("main_value", "notes", "lane", "form_data", "updated_at").
		Set("version = version + 1").
		Where("id = ?", score.ID).
		Where("version = ?", expectedVersion).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update score %s: %w", score.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result for score %s: %w", score.ID, err)
	}
	if affected == 0 {
		return ErrVersionConflict
	}
	score.Version = expectedVersion + 1
	return nil
}

func (r *ScoreDBImpl) GetScoreByID(ctx context.Context, db bun.IDB, scoreID sharedtypes.ScoreID) (*Score, error) {
	var score Score
	err := r.idb(db).NewSelect().
		Model(&score).
		Where("id = ?", uuid.UUID(scoreID)).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScoreNotFound
		}
		return nil, fmt.Errorf("failed to fetch score %s: %w", scoreID, err)
	}
	return &score, nil
}

func (r *ScoreDBImpl) GetScoresForScope(ctx context.Context, db bun.IDB, scope sharedtypes.ScoreScope) ([]Score, error) {
	var scores []Score
	q := r.idb(db).NewSelect().
		Model(&scores).
		Where("event_id = ?", uuid.UUID(scope.EventID)).
		Where("modality_id = ?", uuid.UUID(scope.ModalityID)).
		Where("template_id = ?", uuid.UUID(scope.TemplateID))
	if scope.HeatID != nil {
		q = q.Where("heat_id = ?", uuid.UUID(*scope.HeatID))
	} else {
		q = q.Where("heat_id IS NULL")
	}

	if err := q.Order("recorded_at ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to fetch scores for modality %s: %w", scope.ModalityID, err)
	}
	return scores, nil
}

func (r *ScoreDBImpl) FindTeamScores(ctx context.Context, db bun.IDB, eventID sharedtypes.EventID, modalityID sharedtypes.ModalityID, teamID sharedtypes.TeamID, heatID *sharedtypes.HeatID) ([]Score, error) {
	var scores []Score
	q := r.idb(db).NewSelect().
		Model(&scores).
		Where("event_id = ?", uuid.UUID(eventID)).
		Where("modality_id = ?", uuid.UUID(modalityID)).
		Where("team_id = ?", uuid.UUID(teamID))
	if heatID != nil {
		q = q.Where("heat_id = ?", uuid.UUID(*heatID))
	} else {
		q = q.Where("heat_id IS NULL")
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to fetch team scores for team %s: %w", teamID, err)
	}
	return scores, nil
}

// ReplaceAttempts swaps the full attempt set for a score. Callers run this
// inside the same transaction as the score write so a failure cannot strand a
// score without attempts.
func (r *ScoreDBImpl) ReplaceAttempts(ctx context.Context, db bun.IDB, scoreID sharedtypes.ScoreID, attempts []Attempt) error {
	idb := r.idb(db)

	if _, err := idb.NewDelete().
		Model((*Attempt)(nil)).
		Where("score_id = ?", uuid.UUID(scoreID)).
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete attempts for score %s: %w", scoreID, err)
	}

	if len(attempts) == 0 {
		return nil
	}
	for i := range attempts {
		if attempts[i].ID == uuid.Nil {
			attempts[i].ID = newID()
		}
		attempts[i].ScoreID = uuid.UUID(scoreID)
	}
	if _, err := idb.NewInsert().Model(&attempts).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert attempts for score %s: %w", scoreID, err)
	}
	return nil
}

func (r *ScoreDBImpl) GetAttempts(ctx context.Context, db bun.IDB, scoreIDs []sharedtypes.ScoreID) ([]Attempt, error) {
	if len(scoreIDs) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, len(scoreIDs))
	for i, id := range scoreIDs {
		ids[i] = uuid.UUID(id)
	}
	var attempts []Attempt
	err := r.idb(db).NewSelect().
		Model(&attempts).
		Where("score_id IN (?)", bun.In(ids)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch attempts: %w", err)
	}
	return attempts, nil
}

// UpsertAttempt writes a single attempt value, used by ranking runs to store
// the calculated placement without touching the judge-entered attempts.
func (r *ScoreDBImpl) UpsertAttempt(ctx context.Context, db bun.IDB, scoreID sharedtypes.ScoreID, fieldKey string, value float64, formatted string) error {
	attempt := Attempt{
		ID:             newID(),
		ScoreID:        uuid.UUID(scoreID),
		FieldKey:       fieldKey,
		Value:          value,
		FormattedValue: formatted,
	}
	_, err := r.idb(db).NewInsert().
		Model(&attempt).
		On("CONFLICT (score_id, field_key) DO UPDATE").
		Set("value = EXCLUDED.value, formatted_value = EXCLUDED.formatted_value").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert attempt %q for score %s: %w", fieldKey, scoreID, err)
	}
	return nil
}

func (r *ScoreDBImpl) SetParticipation(ctx context.Context, db bun.IDB, p *Participation) error {
	if p.ID == uuid.Nil {
		p.ID = newID()
	}
	q := r.idb(db).NewInsert().Model(p)
	if p.HeatID != nil {
		q = q.On("CONFLICT (athlete_id, modality_id, event_id, heat_id) WHERE heat_id IS NOT NULL DO UPDATE")
	} else {
		q = q.On("CONFLICT (athlete_id, modality_id, event_id) WHERE heat_id IS NULL DO UPDATE")
	}
	q = q.Set("participating = EXCLUDED.participating, updated_at = EXCLUDED.updated_at")
	if _, err := q.Exec(ctx); err != nil {
		return fmt.Errorf("failed to upsert participation for athlete %s: %w", p.AthleteID, err)
	}
	return nil
}

func (r *ScoreDBImpl) GetParticipations(ctx context.Context, db bun.IDB, eventID sharedtypes.EventID, modalityID sharedtypes.ModalityID, heatID *sharedtypes.HeatID) ([]Participation, error) {
	var participations []Participation
	q := r.idb(db).NewSelect().
		Model(&participations).
		Where("event_id = ?", uuid.UUID(eventID)).
		Where("modality_id = ?", uuid.UUID(modalityID))
	if heatID != nil {
		q = q.Where("heat_id = ?", uuid.UUID(*heatID))
	} else {
		q = q.Where("heat_id IS NULL")
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to fetch participations for modality %s: %w", modalityID, err)
	}
	return participations, nil
}
