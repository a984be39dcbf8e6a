package wizard

import "errors"

var (
	ErrSessionNotFound = errors.New("wizard session not found")
	ErrSessionClosed   = errors.New("wizard session already completed")
)
