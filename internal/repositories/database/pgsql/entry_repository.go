package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	"github.com/finbooks/finbooks_backend/internal/models"
	"github.com/finbooks/finbooks_backend/internal/utils/accounting"
	"github.com/finbooks/finbooks_backend/internal/utils/mapping"
	"github.com/finbooks/finbooks_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const entryColumns = `entry_id, entry_number, entry_date, period_id, description, reference, source_type, source_id, status, posted_at, reversal_of_entry_id, reversed_by_entry_id, created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, entry_id, account_id, debit, credit, description, created_at, created_by, last_updated_at, last_updated_by`

type PgxEntryRepository struct {
	BaseRepository
}

// newPgxEntryRepository creates a new repository for journal entry data.
func newPgxEntryRepository(pool *pgxpool.Pool) portsrepo.EntryRepositoryFacade {
	return &PgxEntryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.EntryRepositoryFacade = (*PgxEntryRepository)(nil)

func scanEntry(row pgx.Row) (*domain.JournalEntry, error) {
	var m models.JournalEntry
	var entryNumber, reference, sourceID sql.NullString
	err := row.Scan(
		&m.EntryID,
		&entryNumber,
		&m.EntryDate,
		&m.PeriodID,
		&m.Description,
		&reference,
		&m.SourceType,
		&sourceID,
		&m.Status,
		&m.PostedAt,
		&m.ReversalOf,
		&m.ReversedBy,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	m.EntryNumber = entryNumber.String
	m.Reference = reference.String
	m.SourceID = sourceID.String
	entry := mapping.ToDomainEntry(m)
	return &entry, nil
}

// openPeriodForDateTx resolves the fiscal period covering a date and verifies
// it accepts postings, holding a shared lock on the row so a concurrent close
// cannot slip in before this transaction commits.
func openPeriodForDateTx(ctx context.Context, tx pgx.Tx, date time.Time) (string, error) {
	var periodID, name string
	var isClosed, isLocked bool
	err := tx.QueryRow(ctx, `
		SELECT period_id, name, is_closed, is_locked
		FROM fiscal_periods
		WHERE $1::date BETWEEN start_date AND end_date
		FOR SHARE;
	`, date).Scan(&periodID, &name, &isClosed, &isLocked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("%w: %s", apperrors.ErrPeriodNotFound, date.Format("2006-01-02"))
		}
		return "", fmt.Errorf("failed to resolve period for %s: %w", date.Format("2006-01-02"), err)
	}
	if isClosed || isLocked {
		return "", fmt.Errorf("%w: period %s", apperrors.ErrPeriodClosed, name)
	}
	return periodID, nil
}

// nextEntryNumber assigns the next sequential entry number. The sequence row
// update serializes concurrent posters, so the numbering has no gaps from
// rolled-back reads.
func nextEntryNumber(ctx context.Context, tx pgx.Tx) (string, error) {
	var lastValue int64
	err := tx.QueryRow(ctx, `
		INSERT INTO entry_sequences (scope, last_value)
		VALUES ('journal', 1)
		ON CONFLICT (scope) DO UPDATE SET last_value = entry_sequences.last_value + 1
		RETURNING last_value;
	`).Scan(&lastValue)
	if err != nil {
		return "", fmt.Errorf("failed to advance entry sequence: %w", err)
	}
	return fmt.Sprintf("JE-%06d", lastValue), nil
}

// insertEntryTx inserts one entry header row inside a transaction.
func insertEntryTx(ctx context.Context, tx pgx.Tx, m models.JournalEntry) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO journal_entries (`+entryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`,
		m.EntryID,
		nullIfEmpty(m.EntryNumber),
		m.EntryDate,
		m.PeriodID,
		m.Description,
		nullIfEmpty(m.Reference),
		m.SourceType,
		nullIfEmpty(m.SourceID),
		m.Status,
		m.PostedAt,
		m.ReversalOf,
		m.ReversedBy,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert entry %s: %w", m.EntryID, err)
	}
	return nil
}

// insertLinesTx batch-inserts line rows inside a transaction.
func insertLinesTx(ctx context.Context, tx pgx.Tx, lines []domain.JournalEntryLine) error {
	batch := &pgx.Batch{}
	for _, line := range lines {
		m := mapping.ToModelEntryLine(line)
		batch.Queue(`
			INSERT INTO journal_lines (`+lineColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
		`,
			m.LineID,
			m.EntryID,
			m.AccountID,
			m.Debit,
			m.Credit,
			nullIfEmpty(m.Description),
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert journal lines: %w", err)
	}
	return nil
}

// SaveDraft persists a new draft entry with its lines. The owning period is
// re-resolved under the transaction so the gate holds against concurrent locks.
func (r *PgxEntryRepository) SaveDraft(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	periodID, err := openPeriodForDateTx(ctx, tx, entry.EntryDate)
	if err != nil {
		return err
	}
	entry.PeriodID = periodID

	if err := insertEntryTx(ctx, tx, mapping.ToModelEntry(entry)); err != nil {
		return err
	}
	if err := insertLinesTx(ctx, tx, lines); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// PostEntry transitions a draft to posted. The entry row is locked, the
// balance and period invariants re-verified, and the entry number assigned,
// all inside one transaction.
func (r *PgxEntryRepository) PostEntry(ctx context.Context, entryID string, userID string, now time.Time) (*domain.JournalEntry, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	entry, err := scanEntry(tx.QueryRow(ctx,
		`SELECT `+entryColumns+` FROM journal_entries WHERE entry_id = $1 FOR UPDATE;`, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: entry %s", apperrors.ErrNotFound, entryID)
		}
		return nil, fmt.Errorf("failed to lock entry %s: %w", entryID, err)
	}
	if entry.IsPosted() {
		return nil, fmt.Errorf("%w: entry %s", apperrors.ErrAlreadyPosted, entryID)
	}

	lines, err := findLinesTx(ctx, tx, entryID)
	if err != nil {
		return nil, err
	}
	if err := accounting.ValidateBalanced(lines); err != nil {
		return nil, err
	}

	periodID, err := openPeriodForDateTx(ctx, tx, entry.EntryDate)
	if err != nil {
		return nil, err
	}

	number, err := nextEntryNumber(ctx, tx)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE journal_entries
		SET entry_number = $2, period_id = $3, status = $4, posted_at = $5,
		    last_updated_at = $5, last_updated_by = $6
		WHERE entry_id = $1;
	`, entryID, number, periodID, models.Posted, now, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to post entry %s: %w", entryID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	entry.EntryNumber = number
	entry.PeriodID = periodID
	entry.Status = domain.Posted
	entry.PostedAt = &now
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID
	entry.Lines = lines
	return entry, nil
}

// ReverseEntry atomically inserts the prepared reversal as posted and links
// the pair. The original is locked and its state re-verified.
func (r *PgxEntryRepository) ReverseEntry(ctx context.Context, originalID string, reversal domain.JournalEntry, lines []domain.JournalEntryLine) (*domain.JournalEntry, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	original, err := scanEntry(tx.QueryRow(ctx,
		`SELECT `+entryColumns+` FROM journal_entries WHERE entry_id = $1 FOR UPDATE;`, originalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: entry %s", apperrors.ErrNotFound, originalID)
		}
		return nil, fmt.Errorf("failed to lock entry %s: %w", originalID, err)
	}
	if !original.IsPosted() {
		return nil, fmt.Errorf("%w: entry %s", apperrors.ErrNotPosted, originalID)
	}
	if original.ReversedBy != nil {
		return nil, fmt.Errorf("%w: entry %s", apperrors.ErrAlreadyReversed, originalID)
	}

	periodID, err := openPeriodForDateTx(ctx, tx, reversal.EntryDate)
	if err != nil {
		return nil, err
	}
	reversal.PeriodID = periodID

	number, err := nextEntryNumber(ctx, tx)
	if err != nil {
		return nil, err
	}
	reversal.EntryNumber = number
	reversal.Status = domain.Posted
	postedAt := reversal.CreatedAt
	reversal.PostedAt = &postedAt

	if err := insertEntryTx(ctx, tx, mapping.ToModelEntry(reversal)); err != nil {
		return nil, err
	}
	if err := insertLinesTx(ctx, tx, lines); err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE journal_entries
		SET reversed_by_entry_id = $2, last_updated_at = $3, last_updated_by = $4
		WHERE entry_id = $1;
	`, originalID, reversal.EntryID, reversal.CreatedAt, reversal.CreatedBy)
	if err != nil {
		return nil, fmt.Errorf("failed to link reversal to entry %s: %w", originalID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	reversal.Lines = lines
	return &reversal, nil
}

// FindEntryByID retrieves a journal entry header by its ID.
func (r *PgxEntryRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := scanEntry(r.Pool.QueryRow(ctx,
		`SELECT `+entryColumns+` FROM journal_entries WHERE entry_id = $1;`, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: entry %s", apperrors.ErrNotFound, entryID)
		}
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	return entry, nil
}

func findLinesTx(ctx context.Context, q interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}, entryID string) ([]domain.JournalEntryLine, error) {
	rows, err := q.Query(ctx,
		`SELECT `+lineColumns+` FROM journal_lines WHERE entry_id = $1 ORDER BY line_id;`, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for entry %s: %w", entryID, err)
	}
	defer rows.Close()

	var lines []domain.JournalEntryLine
	for rows.Next() {
		var m models.JournalEntryLine
		var description sql.NullString
		err := rows.Scan(
			&m.LineID,
			&m.EntryID,
			&m.AccountID,
			&m.Debit,
			&m.Credit,
			&description,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line row: %w", err)
		}
		m.Description = description.String
		lines = append(lines, mapping.ToDomainEntryLine(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line rows: %w", err)
	}
	return lines, nil
}

// FindLinesByEntryID retrieves all lines belonging to an entry.
func (r *PgxEntryRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error) {
	return findLinesTx(ctx, r.Pool, entryID)
}

// FindEntryBySource retrieves the active posting entry of a business document:
// posted, not reversed, and not itself a reversal.
func (r *PgxEntryRepository) FindEntryBySource(ctx context.Context, sourceType domain.SourceType, sourceID string) (*domain.JournalEntry, error) {
	entry, err := scanEntry(r.Pool.QueryRow(ctx, `
		SELECT `+entryColumns+`
		FROM journal_entries
		WHERE source_type = $1 AND source_id = $2 AND status = $3
		  AND reversed_by_entry_id IS NULL AND reversal_of_entry_id IS NULL
		ORDER BY created_at DESC
		LIMIT 1;
	`, string(sourceType), sourceID, models.Posted))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no entry for %s %s", apperrors.ErrNotFound, sourceType, sourceID)
		}
		return nil, fmt.Errorf("failed to find entry for %s %s: %w", sourceType, sourceID, err)
	}
	return entry, nil
}

// ListEntries retrieves a token-paginated list of entry headers, newest first.
func (r *PgxEntryRepository) ListEntries(ctx context.Context, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries`
	args := []any{}
	if nextToken != nil && *nextToken != "" {
		entryDate, createdAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` WHERE (entry_date, created_at) < ($1, $2)`
		args = append(args, entryDate, createdAt)
	}
	query += fmt.Sprintf(` ORDER BY entry_date DESC, created_at DESC LIMIT $%d;`, len(args)+1)
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.JournalEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan entry row: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating entry rows: %w", err)
	}

	var token *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		t := pagination.EncodeToken(last.EntryDate, last.CreatedAt)
		token = &t
	}
	return entries, token, nil
}

// CountDraftsInRange counts draft entries dated within [from, to].
func (r *PgxEntryRepository) CountDraftsInRange(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM journal_entries
		WHERE status = $1 AND entry_date BETWEEN $2 AND $3;
	`, models.Draft, from, to).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count draft entries: %w", err)
	}
	return count, nil
}
