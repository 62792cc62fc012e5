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
	"github.com/finbooks/finbooks_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const periodColumns = `period_id, name, start_date, end_date, is_closed, is_locked, closing_entry_id, notes, created_at, created_by, last_updated_at, last_updated_by`

type PgxPeriodRepository struct {
	BaseRepository
}

// newPgxPeriodRepository creates a new repository for fiscal period data.
func newPgxPeriodRepository(pool *pgxpool.Pool) portsrepo.PeriodRepositoryFacade {
	return &PgxPeriodRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PeriodRepositoryFacade = (*PgxPeriodRepository)(nil)

func scanPeriod(row pgx.Row) (*domain.FiscalPeriod, error) {
	var m models.FiscalPeriod
	var notes sql.NullString
	err := row.Scan(
		&m.PeriodID,
		&m.Name,
		&m.StartDate,
		&m.EndDate,
		&m.IsClosed,
		&m.IsLocked,
		&m.ClosingEntryID,
		&notes,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	m.Notes = notes.String
	period := mapping.ToDomainPeriod(m)
	return &period, nil
}

// SavePeriod persists a new period. The exclusion constraint on the date range
// maps to ErrOverlappingPeriod.
func (r *PgxPeriodRepository) SavePeriod(ctx context.Context, period domain.FiscalPeriod) error {
	m := mapping.ToModelPeriod(period)
	query := `
		INSERT INTO fiscal_periods (` + periodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.PeriodID,
		m.Name,
		m.StartDate,
		m.EndDate,
		m.IsClosed,
		m.IsLocked,
		m.ClosingEntryID,
		nullIfEmpty(m.Notes),
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23P01": // exclusion violation
				return fmt.Errorf("%w: %s", apperrors.ErrOverlappingPeriod, m.Name)
			case "23505":
				return fmt.Errorf("%w: period %s", apperrors.ErrDuplicate, m.Name)
			}
		}
		return fmt.Errorf("failed to save period %s: %w", m.PeriodID, err)
	}
	return nil
}

// FindPeriodByID retrieves a fiscal period by its ID.
func (r *PgxPeriodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error) {
	period, err := scanPeriod(r.Pool.QueryRow(ctx,
		`SELECT `+periodColumns+` FROM fiscal_periods WHERE period_id = $1;`, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: period %s", apperrors.ErrNotFound, periodID)
		}
		return nil, fmt.Errorf("failed to find period %s: %w", periodID, err)
	}
	return period, nil
}

// FindPeriodByDate resolves the period covering the given date.
func (r *PgxPeriodRepository) FindPeriodByDate(ctx context.Context, date time.Time) (*domain.FiscalPeriod, error) {
	period, err := scanPeriod(r.Pool.QueryRow(ctx,
		`SELECT `+periodColumns+` FROM fiscal_periods WHERE $1::date BETWEEN start_date AND end_date;`, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrPeriodNotFound, date.Format("2006-01-02"))
		}
		return nil, fmt.Errorf("failed to resolve period for %s: %w", date.Format("2006-01-02"), err)
	}
	return period, nil
}

// ListPeriods retrieves all periods ordered by start date.
func (r *PgxPeriodRepository) ListPeriods(ctx context.Context) ([]domain.FiscalPeriod, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT `+periodColumns+` FROM fiscal_periods ORDER BY start_date;`)
	if err != nil {
		return nil, fmt.Errorf("failed to list periods: %w", err)
	}
	defer rows.Close()

	var periods []domain.FiscalPeriod
	for rows.Next() {
		period, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan period row: %w", err)
		}
		periods = append(periods, *period)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating period rows: %w", err)
	}
	return periods, nil
}

// SetPeriodLock flips the is_locked flag.
func (r *PgxPeriodRepository) SetPeriodLock(ctx context.Context, periodID string, locked bool, userID string, now time.Time) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE fiscal_periods
		SET is_locked = $2, last_updated_at = $3, last_updated_by = $4
		WHERE period_id = $1 AND is_closed = FALSE;
	`, periodID, locked, now, userID)
	if err != nil {
		return fmt.Errorf("failed to set lock on period %s: %w", periodID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: period %s is closed or missing", apperrors.ErrConflict, periodID)
	}
	return nil
}

// lockPeriodTx locks a period row for update and returns its current state.
func lockPeriodTx(ctx context.Context, tx pgx.Tx, periodID string) (*domain.FiscalPeriod, error) {
	period, err := scanPeriod(tx.QueryRow(ctx,
		`SELECT `+periodColumns+` FROM fiscal_periods WHERE period_id = $1 FOR UPDATE;`, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: period %s", apperrors.ErrNotFound, periodID)
		}
		return nil, fmt.Errorf("failed to lock period %s: %w", periodID, err)
	}
	return period, nil
}

// ClosePeriod atomically posts the prepared closing entry and marks the period
// closed and locked. The closing entry skips the period-open gate: closing a
// locked period is the normal flow, and the period row lock excludes races.
func (r *PgxPeriodRepository) ClosePeriod(ctx context.Context, periodID string, notes string, closing domain.JournalEntry, lines []domain.JournalEntryLine, userID string, now time.Time) (*domain.JournalEntry, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	period, err := lockPeriodTx(ctx, tx, periodID)
	if err != nil {
		return nil, err
	}
	if period.IsClosed {
		return nil, fmt.Errorf("%w: period %s is already closed", apperrors.ErrConflict, period.Name)
	}

	var closingID *string
	var posted *domain.JournalEntry
	if len(lines) > 0 {
		number, err := nextEntryNumber(ctx, tx)
		if err != nil {
			return nil, err
		}
		closing.EntryNumber = number
		closing.Status = domain.Posted
		closing.PostedAt = &now

		if err := insertEntryTx(ctx, tx, mapping.ToModelEntry(closing)); err != nil {
			return nil, err
		}
		if err := insertLinesTx(ctx, tx, lines); err != nil {
			return nil, err
		}
		closing.Lines = lines
		closingID = &closing.EntryID
		posted = &closing
	}

	_, err = tx.Exec(ctx, `
		UPDATE fiscal_periods
		SET is_closed = TRUE, is_locked = TRUE, closing_entry_id = $2, notes = $3,
		    last_updated_at = $4, last_updated_by = $5
		WHERE period_id = $1;
	`, periodID, closingID, nullIfEmpty(notes), now, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to close period %s: %w", periodID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return posted, nil
}

// ReopenPeriod atomically posts the prepared reversal of the closing entry,
// links the pair, and clears the period's closed and locked flags.
func (r *PgxPeriodRepository) ReopenPeriod(ctx context.Context, periodID string, reversal domain.JournalEntry, lines []domain.JournalEntryLine, userID string, now time.Time) (*domain.JournalEntry, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	period, err := lockPeriodTx(ctx, tx, periodID)
	if err != nil {
		return nil, err
	}
	if !period.IsClosed {
		return nil, fmt.Errorf("%w: period %s is not closed", apperrors.ErrConflict, period.Name)
	}

	var posted *domain.JournalEntry
	if reversal.EntryID != "" && reversal.ReversalOf != nil {
		number, err := nextEntryNumber(ctx, tx)
		if err != nil {
			return nil, err
		}
		reversal.EntryNumber = number
		reversal.Status = domain.Posted
		reversal.PostedAt = &now

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
		`, *reversal.ReversalOf, reversal.EntryID, now, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to link closing reversal: %w", err)
		}
		reversal.Lines = lines
		posted = &reversal
	}

	_, err = tx.Exec(ctx, `
		UPDATE fiscal_periods
		SET is_closed = FALSE, is_locked = FALSE, closing_entry_id = NULL,
		    last_updated_at = $2, last_updated_by = $3
		WHERE period_id = $1;
	`, periodID, now, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to reopen period %s: %w", periodID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return posted, nil
}
