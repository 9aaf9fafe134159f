// Package archive implements the chat-archive engine: saving quoted messages
// and the retrieval operations (random pick, id lookup, paged listing,
// filtered search) plus per-group and global purges. The engine is stateless
// between calls; all state lives in the record store.
package archive

import (
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"github.com/hayasedb/chatarchive/internal/database"
)

// Localizer rewrites remote image references in message content to locally
// stored copies. Implemented by the images package.
type Localizer interface {
	Localize(ctx context.Context, content string) string
}

// NameResolver resolves the display name of a sender inside a group, for
// example a group-specific nickname. An empty result means no name could be
// resolved and the caller-provided fallback is used.
type NameResolver func(ctx context.Context, groupID, senderID string) string

// SaveInput carries the fields of a save operation.
type SaveInput struct {
	GroupID    string
	SenderID   string
	SenderName string // fallback identity name from the quoted message
	Content    string
	Timestamp  time.Time // zero means "now"
	Tag        string
}

// Page is one page of a sorted listing or search result.
type Page struct {
	Records    []database.ArchivedMessage
	Page       int
	TotalPages int
	TotalCount int
}

// Engine orchestrates saves and retrievals against the record store.
type Engine struct {
	store     database.Store
	localizer Localizer
	pageSize  int
	logger    *slog.Logger

	// pick selects a uniform random index in [0, n); overridable in tests.
	pick func(n int) int
}

// NewEngine creates an archive engine. pageSize must be positive; localizer
// may be nil when image localization is disabled.
func NewEngine(store database.Store, localizer Localizer, pageSize int, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if pageSize < 1 {
		pageSize = 7
	}
	return &Engine{
		store:     store,
		localizer: localizer,
		pageSize:  pageSize,
		logger:    logger.With("component", "archive_engine"),
		pick:      rand.IntN,
	}
}

// Save validates and persists a quoted message. The tag is discarded when it
// equals the quoted content verbatim. Embedded remote images are localized
// before the record is stored; a record with a zero timestamp is stamped with
// the current time.
func (e *Engine) Save(ctx context.Context, in SaveInput, resolve NameResolver) (*database.ArchivedMessage, error) {
	if in.Content == "" {
		return nil, &ValidationError{Reason: "quoted message has no content"}
	}
	if in.SenderID == "" && in.SenderName == "" {
		return nil, &ValidationError{Reason: "sender identity cannot be resolved"}
	}

	tag := in.Tag
	if tag == in.Content {
		// A tag identical to the quoted text is discarded.
		tag = ""
	}

	senderName := in.SenderName
	if resolve != nil {
		if name := resolve(ctx, in.GroupID, in.SenderID); name != "" {
			senderName = name
		}
	}
	if senderName == "" {
		senderName = "Unknown"
	}

	content := in.Content
	if e.localizer != nil {
		content = e.localizer.Localize(ctx, content)
	}

	ts := in.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	record := &database.ArchivedMessage{
		Tag:        tag,
		GroupID:    in.GroupID,
		SenderID:   in.SenderID,
		SenderName: senderName,
		Content:    content,
		Timestamp:  ts,
	}
	if err := e.store.Insert(ctx, record); err != nil {
		return nil, err
	}

	e.logger.InfoContext(ctx, "Archived message saved",
		"group_id", in.GroupID, "id", record.ID, "tag", tag)
	return record, nil
}

// PickRandom returns one record chosen uniformly at random from the group.
func (e *Engine) PickRandom(ctx context.Context, groupID string) (*database.ArchivedMessage, error) {
	records, err := e.store.Query(ctx, database.Filter{GroupID: groupID})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrEmptyArchive
	}
	record := records[e.pick(len(records))]
	return &record, nil
}

// GetByID returns the record with the given id scoped to the group. The
// group's records are fetched and matched locally, so an id belonging to a
// different group never matches; an empty group reports ErrEmptyArchive
// before the id is considered. Store ids start at 1, so a zero id always
// reports ErrNotFound rather than acting as an unconstrained filter.
func (e *Engine) GetByID(ctx context.Context, groupID string, id uint64) (*database.ArchivedMessage, error) {
	records, err := e.store.Query(ctx, database.Filter{GroupID: groupID})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrEmptyArchive
	}
	if id == 0 {
		return nil, ErrNotFound
	}
	for i := range records {
		if records[i].ID == id {
			return &records[i], nil
		}
	}
	return nil, ErrNotFound
}

// ListPage returns one page of the group's records sorted by timestamp
// descending (ties keep insertion order). An empty archive reports
// ErrEmptyArchive before any page validation.
func (e *Engine) ListPage(ctx context.Context, groupID string, page int) (*Page, error) {
	records, err := e.store.Query(ctx, database.Filter{GroupID: groupID})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrEmptyArchive
	}
	return paginate(records, page, e.pageSize)
}

// Search returns one page of the group's records whose content contains every
// keyword case-insensitively, optionally restricted to an exact tag first.
// At least one of keywords and tag must be given.
func (e *Engine) Search(ctx context.Context, groupID string, keywords []string, tag string, page int) (*Page, error) {
	keywords = trimKeywords(keywords)
	if len(keywords) == 0 && tag == "" {
		return nil, ErrEmptyQuery
	}

	records, err := e.store.Query(ctx, database.Filter{GroupID: groupID, Tag: tag})
	if err != nil {
		return nil, err
	}

	if len(keywords) > 0 {
		filtered := records[:0]
		for _, r := range records {
			if containsAll(r.Content, keywords) {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	}

	if len(records) == 0 {
		return &Page{Page: page, TotalPages: 0, TotalCount: 0}, nil
	}
	return paginate(records, page, e.pageSize)
}

// DeleteOne removes the record with the given id from the group. Deleting an
// id that exists only in another group reports ErrNotFound, as does a zero id
// (which would otherwise read as an unconstrained filter).
func (e *Engine) DeleteOne(ctx context.Context, groupID string, id uint64) error {
	if id == 0 {
		return ErrNotFound
	}

	records, err := e.store.Query(ctx, database.Filter{GroupID: groupID, ID: id})
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return ErrNotFound
	}

	if _, err := e.store.DeleteMatching(ctx, database.Filter{GroupID: groupID, ID: id}); err != nil {
		return err
	}
	e.logger.InfoContext(ctx, "Archived message deleted", "group_id", groupID, "id", id)
	return nil
}

// ResetGroup removes all records of the group and returns the count removed.
func (e *Engine) ResetGroup(ctx context.Context, groupID string) (int64, error) {
	count, err := e.store.DeleteMatching(ctx, database.Filter{GroupID: groupID})
	if err != nil {
		return 0, err
	}
	e.logger.InfoContext(ctx, "Group archive reset", "group_id", groupID, "count", count)
	return count, nil
}

// ResetAll removes every record in the store and returns the count removed.
func (e *Engine) ResetAll(ctx context.Context) (int64, error) {
	count, err := e.store.DeleteMatching(ctx, database.Filter{})
	if err != nil {
		return 0, err
	}
	e.logger.InfoContext(ctx, "Full archive reset", "count", count)
	return count, nil
}

// paginate sorts records newest-first (stable, so equal timestamps keep
// insertion order) and slices out the requested page.
func paginate(records []database.ArchivedMessage, page, pageSize int) (*Page, error) {
	sorted := make([]database.ArchivedMessage, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})

	totalCount := len(sorted)
	totalPages := (totalCount + pageSize - 1) / pageSize

	if page < 1 || page > totalPages {
		return nil, &InvalidPageError{Page: page, TotalPages: totalPages}
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > totalCount {
		end = totalCount
	}

	return &Page{
		Records:    sorted[start:end],
		Page:       page,
		TotalPages: totalPages,
		TotalCount: totalCount,
	}, nil
}

func containsAll(content string, keywords []string) bool {
	lower := strings.ToLower(content)
	for _, kw := range keywords {
		if !strings.Contains(lower, strings.ToLower(kw)) {
			return false
		}
	}
	return true
}

func trimKeywords(keywords []string) []string {
	var out []string
	for _, kw := range keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}
