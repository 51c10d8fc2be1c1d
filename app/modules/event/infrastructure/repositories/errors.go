package eventdb

import "errors"

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrModalityNotFound = errors.New("modality not found")
	ErrDuplicateSlug    = errors.New("event slug already in use")
)
