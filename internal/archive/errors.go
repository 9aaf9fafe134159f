package archive

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by engine operations. Handlers translate these
// into user-facing replies; they never cross the command boundary as-is.
var (
	// ErrEmptyArchive indicates the group has no archived records at all.
	ErrEmptyArchive = errors.New("archive is empty for this group")

	// ErrNotFound indicates no record matched the requested id in the group.
	ErrNotFound = errors.New("archived message not found")

	// ErrEmptyQuery indicates a search with neither keywords nor a tag.
	ErrEmptyQuery = errors.New("search requires keywords or a tag")
)

// InvalidPageError indicates a page number outside the valid range.
type InvalidPageError struct {
	Page       int
	TotalPages int
}

func (e *InvalidPageError) Error() string {
	return fmt.Sprintf("invalid page %d (total pages %d)", e.Page, e.TotalPages)
}

// ValidationError indicates invalid save input: a missing quote body or an
// unresolvable sender identity.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid save input: " + e.Reason
}
