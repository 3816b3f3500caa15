package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMarkerNotFound reports that a page lacks the expected marker.
	ErrMarkerNotFound = errors.New("marker not found")
	// ErrNoEntries reports a feed document without entries.
	ErrNoEntries = errors.New("feed has no entries")
	// ErrIncompleteEntry reports a feed entry lacking one of the fields a record needs.
	ErrIncompleteEntry = errors.New("feed entry is incomplete")
	// ErrEmptyCollection is fatal: nothing to process.
	ErrEmptyCollection = errors.New("channel list is empty")
	// ErrInvalidSource is fatal: the channel list cannot be interpreted.
	ErrInvalidSource = errors.New("channel list is invalid")
)

// ExtractionError wraps a failure to derive an identifier from upstream markup.
type ExtractionError struct {
	Ref string
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract from %s: %v", e.Ref, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// FetchError wraps a failure to obtain the latest feed item of a channel.
type FetchError struct {
	ChannelID string
	Err       error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch feed %s: %v", e.ChannelID, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
