package setstore

import "github.com/pkg/errors"

// Sentinel errors. Callers match them with errors.Is; the store wraps them
// with the file or track they refer to.
var (
	ErrNotFound    = errors.New("not found")
	ErrExists      = errors.New("already exists")
	ErrExhausted   = errors.New("no free slot")
	ErrSameFile    = errors.New("source and destination are the same file")
	ErrSameTrack   = errors.New("source and target are the same track")
	ErrNoUndo      = errors.New("no undo data")
	ErrInvalidName = errors.New("invalid name")
	ErrOutOfRange  = errors.New("index out of range")
	ErrChanged     = errors.New("file changed since copy was planned")
)
