package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// Filter describes an exact-match conjunctive filter over archived messages.
// Zero-valued fields are unconstrained. An entirely zero Filter matches every
// record in the store.
type Filter struct {
	GroupID string
	ID      uint64
	Tag     string
}

// Store defines the persistence interface for archived messages.
// Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// Insert persists a new archived message and fills in its assigned ID.
	Insert(ctx context.Context, msg *ArchivedMessage) error

	// Query returns all records matching the filter, in insertion order.
	// An empty result is not an error.
	Query(ctx context.Context, f Filter) ([]ArchivedMessage, error)

	// DeleteMatching removes all records matching the filter and returns the
	// number removed. An empty filter removes everything.
	DeleteMatching(ctx context.Context, f Filter) (int64, error)

	// RunMaintenance performs database maintenance tasks like VACUUM.
	RunMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Insert persists a new archived message record and fills in its assigned ID.
func (s *sqlxStore) Insert(ctx context.Context, msg *ArchivedMessage) error {
	if msg == nil {
		return fmt.Errorf("cannot insert nil message")
	}
	if msg.GroupID == "" {
		return fmt.Errorf("message must have a non-empty group_id")
	}
	if msg.Content == "" {
		return fmt.Errorf("message must have non-empty content")
	}
	if msg.Timestamp.IsZero() {
		return fmt.Errorf("message must have a non-zero timestamp")
	}

	msg.CreatedAt = time.Now().UTC()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction for insert",
			"group_id", msg.GroupID, "error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				if !errors.Is(rollbackErr, sql.ErrTxDone) {
					s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
				}
			}
		}
	}()

	query := `
        INSERT INTO chat_archive (tag, group_id, sender_id, sender_name, content, timestamp, created_at)
        VALUES (:tag, :group_id, :sender_id, :sender_name, :content, :timestamp, :created_at);
    `

	result, err := tx.NamedExecContext(ctx, query, msg)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error inserting archived message",
			"group_id", msg.GroupID, "sender_id", msg.SenderID, "error", err)
		return fmt.Errorf("failed to insert archived message (group %s): %w", msg.GroupID, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		s.logger.WarnContext(ctx, "Could not retrieve last insert ID",
			"group_id", msg.GroupID, "error", err)
	} else {
		//nolint:gosec // sqlite rowids are non-negative
		msg.ID = uint64(id)
	}

	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit transaction",
			"group_id", msg.GroupID, "error", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil

	s.logger.DebugContext(ctx, "Archived message inserted",
		"group_id", msg.GroupID, "id", msg.ID)
	return nil
}

// Query returns all records matching the filter, ordered by insertion (id).
func (s *sqlxStore) Query(ctx context.Context, f Filter) ([]ArchivedMessage, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	where, args := buildFilter(f)
	query := `SELECT id, created_at, tag, group_id, sender_id, sender_name, content, timestamp
	          FROM chat_archive` + where + ` ORDER BY id ASC;`

	var records []ArchivedMessage
	err := s.db.SelectContext(ctx, &records, query, args...)

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		s.logger.WarnContext(ctx, "Context timeout or cancellation while querying archive",
			"group_id", f.GroupID, "error", err)
		return nil, err
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Error querying archive",
			"group_id", f.GroupID, "id", f.ID, "tag", f.Tag, "error", err)
		return nil, fmt.Errorf("failed to query archive: %w", err)
	}

	s.logger.DebugContext(ctx, "Queried archive", "group_id", f.GroupID, "count", len(records))
	return records, nil
}

// DeleteMatching removes all records matching the filter and returns the
// number of rows removed.
func (s *sqlxStore) DeleteMatching(ctx context.Context, f Filter) (int64, error) {
	where, args := buildFilter(f)
	query := `DELETE FROM chat_archive` + where + `;`

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting archived messages",
			"group_id", f.GroupID, "id", f.ID, "error", err)
		return 0, fmt.Errorf("failed to delete archived messages: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		s.logger.WarnContext(ctx, "Could not get affected row count after delete", "error", err)
		return 0, nil
	}

	s.logger.InfoContext(ctx, "Deleted archived messages",
		"group_id", f.GroupID, "id", f.ID, "count", count)
	return count, nil
}

// RunMaintenance executes a VACUUM command on the SQLite database.
func (s *sqlxStore) RunMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled or timed out before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")

	// VACUUM must run outside a transaction in SQLite.
	_, err := s.db.ExecContext(ctx, "VACUUM;")

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM operation timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)

	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)

	default:
		s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed successfully")
	}

	return nil
}

// buildFilter renders a Filter into a WHERE clause and its arguments.
// Zero-valued fields are omitted; an entirely zero filter yields no clause.
func buildFilter(f Filter) (string, []any) {
	var conds []string
	var args []any

	if f.GroupID != "" {
		conds = append(conds, "group_id = ?")
		args = append(args, f.GroupID)
	}
	if f.ID != 0 {
		conds = append(conds, "id = ?")
		args = append(args, f.ID)
	}
	if f.Tag != "" {
		conds = append(conds, "tag = ?")
		args = append(args, f.Tag)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
