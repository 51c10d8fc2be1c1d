package scoredb

import "errors"

var (
	// ErrVersionConflict reports an update whose expected version no longer
	// matches the stored row; the caller saw stale data.
	ErrVersionConflict = errors.New("score was modified by another writer")

	// ErrScoreNotFound reports a lookup by ID that matched nothing.
	ErrScoreNotFound = errors.New("score not found")

	// ErrTemplateNotFound reports a template lookup that matched nothing.
	ErrTemplateNotFound = errors.New("scoring template not found")
)
