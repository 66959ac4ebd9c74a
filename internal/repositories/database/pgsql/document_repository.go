package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/disposal_backoffice/internal/apperrors"
	"github.com/SscSPs/disposal_backoffice/internal/core/domain"
	portsrepo "github.com/SscSPs/disposal_backoffice/internal/core/ports/repositories"
	"github.com/SscSPs/disposal_backoffice/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// tableSpec describes where one record type is stored. The full record lives in the body
// column; id, number, status, version and audit columns are copies kept for querying.
type tableSpec struct {
	table        string
	sequence     string
	numberPrefix string
	// entityType is set for lifecycle records; it keys their rows in status_events.
	entityType domain.EntityType
	// filterable lists the body fields a listing may match on.
	filterable []string
}

func (t tableSpec) canFilter(key string) bool {
	for _, k := range t.filterable {
		if k == key {
			return true
		}
	}
	return false
}

// PgxDocumentRepository stores records of type T as JSONB documents.
type PgxDocumentRepository[T domain.Record] struct {
	BaseRepository
	tbl    tableSpec
	newDoc func() T
}

func newPgxDocumentRepository[T domain.Record](pool *pgxpool.Pool, tbl tableSpec, newDoc func() T) *PgxDocumentRepository[T] {
	return &PgxDocumentRepository[T]{
		BaseRepository: BaseRepository{Pool: pool},
		tbl:            tbl,
		newDoc:         newDoc,
	}
}

// statusOf returns the lifecycle status of doc, or nil for records without one.
func statusOf(doc any) *string {
	if l, ok := doc.(domain.Lifecycled); ok {
		s := string(l.CurrentStatus())
		return &s
	}
	return nil
}

func (r *PgxDocumentRepository[T]) decode(body []byte) (T, error) {
	doc := r.newDoc()
	if err := json.Unmarshal(body, doc); err != nil {
		var zero T
		return zero, apperrors.NewAppError(500, "failed to decode "+r.tbl.table+" row", err)
	}
	return doc, nil
}

// FindByID retrieves a record by its ID.
func (r *PgxDocumentRepository[T]) FindByID(ctx context.Context, id string) (T, error) {
	var zero T
	query := `SELECT body FROM ` + r.tbl.table + ` WHERE id = $1;`

	var body []byte
	err := r.Pool.QueryRow(ctx, query, id).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, fmt.Errorf("%s %s: %w", r.tbl.table, id, apperrors.ErrNotFound)
		}
		return zero, persistenceError("failed to find "+r.tbl.table+" "+id, err)
	}
	return r.decode(body)
}

// Create inserts a new record.
func (r *PgxDocumentRepository[T]) Create(ctx context.Context, doc T) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode "+r.tbl.table+" row", err)
	}
	audit := doc.GetAudit()
	query := `
		INSERT INTO ` + r.tbl.table + ` (id, number, status, body, version, created_at, created_by, updated_at, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err = r.Pool.Exec(ctx, query,
		doc.GetID(),
		doc.GetNumber(),
		statusOf(doc),
		body,
		audit.Version,
		audit.CreatedAt,
		audit.CreatedBy,
		audit.LastUpdatedAt,
		audit.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s %s: %w", r.tbl.table, doc.GetNumber(), apperrors.ErrDuplicate)
		}
		return persistenceError("failed to insert "+r.tbl.table+" "+doc.GetID(), err)
	}
	return nil
}

// Update overwrites the record if its stored version equals expectedVersion and appends
// events to the status history in the same transaction.
func (r *PgxDocumentRepository[T]) Update(ctx context.Context, doc T, expectedVersion int64, events []domain.StatusEvent) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode "+r.tbl.table+" row", err)
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Will be ignored if transaction is committed successfully

	audit := doc.GetAudit()
	query := `
		UPDATE ` + r.tbl.table + `
		SET status = $2, body = $3, version = $4, updated_at = $5, updated_by = $6
		WHERE id = $1 AND version = $7;
	`
	tag, err := tx.Exec(ctx, query,
		doc.GetID(),
		statusOf(doc),
		body,
		audit.Version,
		audit.LastUpdatedAt,
		audit.LastUpdatedBy,
		expectedVersion,
	)
	if err != nil {
		return persistenceError("failed to update "+r.tbl.table+" "+doc.GetID(), err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM `+r.tbl.table+` WHERE id = $1);`, doc.GetID()).Scan(&exists); err != nil {
			return persistenceError("failed to check "+r.tbl.table+" "+doc.GetID(), err)
		}
		if !exists {
			return fmt.Errorf("%s %s: %w", r.tbl.table, doc.GetID(), apperrors.ErrNotFound)
		}
		return fmt.Errorf("%s %s expected version %d: %w", r.tbl.table, doc.GetID(), expectedVersion, apperrors.ErrConflict)
	}

	if len(events) > 0 {
		batch := &pgx.Batch{}
		eventQuery := `
			INSERT INTO status_events (event_id, entity_type, document_id, from_status, to_status, reason, actor, occurred_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
		`
		for _, ev := range events {
			batch.Queue(eventQuery,
				ev.EventID,
				ev.EntityType,
				ev.DocumentID,
				ev.FromStatus,
				ev.ToStatus,
				ev.Reason,
				ev.Actor,
				ev.OccurredAt,
			)
		}
		// Close reports the first failed insert
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return persistenceError("failed to record status history of "+r.tbl.table+" "+doc.GetID(), err)
		}
	}

	return r.Commit(ctx, tx)
}

// Delete removes a record.
func (r *PgxDocumentRepository[T]) Delete(ctx context.Context, id string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM `+r.tbl.table+` WHERE id = $1;`, id)
	if err != nil {
		return persistenceError("failed to delete "+r.tbl.table+" "+id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %s: %w", r.tbl.table, id, apperrors.ErrNotFound)
	}
	return nil
}

// buildListQuery renders the keyset-paginated listing query for filter. It returns the page
// size the caller asked for; the query fetches one row more to detect a further page.
func (r *PgxDocumentRepository[T]) buildListQuery(filter portsrepo.ListFilter) (string, []any, int, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Status != "" {
		if r.tbl.entityType == "" {
			return "", nil, 0, fmt.Errorf("%w: %s have no status column", apperrors.ErrValidation, r.tbl.table)
		}
		conds = append(conds, "status = "+arg(filter.Status))
	}
	keys := make([]string, 0, len(filter.Match))
	for k := range filter.Match {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !r.tbl.canFilter(k) {
			return "", nil, 0, fmt.Errorf("%w: cannot filter %s by %q", apperrors.ErrValidation, r.tbl.table, k)
		}
		conds = append(conds, "body->>"+arg(k)+" = "+arg(filter.Match[k]))
	}
	if filter.NextToken != "" {
		lastCreatedAt, lastID, err := pagination.DecodeToken(filter.NextToken)
		if err != nil {
			return "", nil, 0, apperrors.NewAppError(400, "invalid nextToken", err)
		}
		conds = append(conds, "(created_at, id) < ("+arg(lastCreatedAt)+", "+arg(lastID)+")")
	}

	var b strings.Builder
	b.WriteString("SELECT id, created_at, body FROM ")
	b.WriteString(r.tbl.table)
	if len(conds) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conds, " AND "))
	}
	// Ordering must be stable; id breaks created_at ties.
	b.WriteString(" ORDER BY created_at DESC, id DESC LIMIT ")
	b.WriteString(arg(limit + 1))
	b.WriteString(";")
	return b.String(), args, limit, nil
}

// List retrieves a page of records, newest first, and the token for the next page.
func (r *PgxDocumentRepository[T]) List(ctx context.Context, filter portsrepo.ListFilter) ([]T, string, error) {
	query, args, limit, err := r.buildListQuery(filter)
	if err != nil {
		return nil, "", err
	}

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, "", persistenceError("failed to list "+r.tbl.table, err)
	}
	defer rows.Close()

	type row struct {
		id        string
		createdAt time.Time
		doc       T
	}
	page := make([]row, 0, limit+1)
	for rows.Next() {
		var (
			rw   row
			body []byte
		)
		if err := rows.Scan(&rw.id, &rw.createdAt, &body); err != nil {
			return nil, "", persistenceError("failed to scan "+r.tbl.table+" row", err)
		}
		if rw.doc, err = r.decode(body); err != nil {
			return nil, "", err
		}
		page = append(page, rw)
	}
	if err := rows.Err(); err != nil {
		return nil, "", persistenceError("error iterating "+r.tbl.table+" rows", err)
	}

	var nextToken string
	if len(page) > limit {
		page = page[:limit]
		last := page[len(page)-1]
		nextToken = pagination.EncodeToken(last.createdAt, last.id)
	}
	docs := make([]T, len(page))
	for i, rw := range page {
		docs[i] = rw.doc
	}
	return docs, nextToken, nil
}

// ListStatusEvents returns the status history of one record, oldest first.
func (r *PgxDocumentRepository[T]) ListStatusEvents(ctx context.Context, entityType domain.EntityType, documentID string) ([]domain.StatusEvent, error) {
	query := `
		SELECT event_id, entity_type, document_id, from_status, to_status, reason, actor, occurred_at
		FROM status_events
		WHERE entity_type = $1 AND document_id = $2
		ORDER BY occurred_at ASC, seq ASC;
	`
	rows, err := r.Pool.Query(ctx, query, entityType, documentID)
	if err != nil {
		return nil, persistenceError("failed to query status history of "+documentID, err)
	}
	defer rows.Close()

	events := make([]domain.StatusEvent, 0)
	for rows.Next() {
		var ev domain.StatusEvent
		if err := rows.Scan(&ev.EventID, &ev.EntityType, &ev.DocumentID, &ev.FromStatus, &ev.ToStatus, &ev.Reason, &ev.Actor, &ev.OccurredAt); err != nil {
			return nil, persistenceError("failed to scan status event", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, persistenceError("error iterating status events", err)
	}
	return events, nil
}

// NextNumber allocates the next human-readable number from the table's sequence.
func (r *PgxDocumentRepository[T]) NextNumber(ctx context.Context) (string, error) {
	var n int64
	if err := r.Pool.QueryRow(ctx, `SELECT nextval($1::regclass);`, r.tbl.sequence).Scan(&n); err != nil {
		return "", persistenceError("failed to allocate number from "+r.tbl.sequence, err)
	}
	return formatNumber(r.tbl.numberPrefix, n), nil
}

func formatNumber(prefix string, n int64) string {
	return fmt.Sprintf("%s-%06d", prefix, n)
}
