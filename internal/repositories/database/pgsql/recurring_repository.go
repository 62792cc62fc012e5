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
	"github.com/jackc/pgx/v5/pgxpool"
)

const recurringColumns = `recurring_id, description, frequency, next_run_date, is_active, created_at, created_by, last_updated_at, last_updated_by`

type PgxRecurringRepository struct {
	BaseRepository
}

// newPgxRecurringRepository creates a new repository for recurring templates.
func newPgxRecurringRepository(pool *pgxpool.Pool) portsrepo.RecurringRepositoryFacade {
	return &PgxRecurringRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.RecurringRepositoryFacade = (*PgxRecurringRepository)(nil)

func scanRecurring(row pgx.Row) (*domain.RecurringEntry, error) {
	var m models.RecurringEntry
	err := row.Scan(
		&m.RecurringID,
		&m.Description,
		&m.Frequency,
		&m.NextRunDate,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	recurring := mapping.ToDomainRecurring(m)
	return &recurring, nil
}

// SaveRecurring persists a new template with its lines in one transaction.
func (r *PgxRecurringRepository) SaveRecurring(ctx context.Context, recurring domain.RecurringEntry, lines []domain.RecurringEntryLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelRecurring(recurring)
	_, err = tx.Exec(ctx, `
		INSERT INTO recurring_entries (`+recurringColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`,
		m.RecurringID,
		m.Description,
		m.Frequency,
		m.NextRunDate,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert recurring template %s: %w", m.RecurringID, err)
	}

	batch := &pgx.Batch{}
	for _, line := range lines {
		batch.Queue(`
			INSERT INTO recurring_lines (line_id, recurring_id, account_id, debit, credit, description)
			VALUES ($1, $2, $3, $4, $5, $6);
		`, line.LineID, line.RecurringID, line.AccountID, line.Debit, line.Credit, nullIfEmpty(line.Description))
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert recurring lines: %w", err)
	}
	return r.Commit(ctx, tx)
}

func (r *PgxRecurringRepository) findRecurringLines(ctx context.Context, recurringID string) ([]domain.RecurringEntryLine, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT line_id, recurring_id, account_id, debit, credit, description
		FROM recurring_lines WHERE recurring_id = $1 ORDER BY line_id;
	`, recurringID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recurring lines: %w", err)
	}
	defer rows.Close()

	var lines []domain.RecurringEntryLine
	for rows.Next() {
		var m models.RecurringEntryLine
		var description sql.NullString
		if err := rows.Scan(&m.LineID, &m.RecurringID, &m.AccountID, &m.Debit, &m.Credit, &description); err != nil {
			return nil, fmt.Errorf("failed to scan recurring line: %w", err)
		}
		m.Description = description.String
		lines = append(lines, mapping.ToDomainRecurringLine(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recurring lines: %w", err)
	}
	return lines, nil
}

// FindRecurringByID retrieves a template with its lines.
func (r *PgxRecurringRepository) FindRecurringByID(ctx context.Context, recurringID string) (*domain.RecurringEntry, error) {
	recurring, err := scanRecurring(r.Pool.QueryRow(ctx,
		`SELECT `+recurringColumns+` FROM recurring_entries WHERE recurring_id = $1;`, recurringID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: recurring template %s", apperrors.ErrNotFound, recurringID)
		}
		return nil, fmt.Errorf("failed to find recurring template %s: %w", recurringID, err)
	}
	lines, err := r.findRecurringLines(ctx, recurringID)
	if err != nil {
		return nil, err
	}
	recurring.Lines = lines
	return recurring, nil
}

// ListRecurring retrieves templates, headers only.
func (r *PgxRecurringRepository) ListRecurring(ctx context.Context, activeOnly bool) ([]domain.RecurringEntry, error) {
	query := `SELECT ` + recurringColumns + ` FROM recurring_entries`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY next_run_date;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring templates: %w", err)
	}
	defer rows.Close()

	var templates []domain.RecurringEntry
	for rows.Next() {
		recurring, err := scanRecurring(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recurring row: %w", err)
		}
		templates = append(templates, *recurring)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recurring rows: %w", err)
	}
	return templates, nil
}

// ListDueRecurring retrieves active templates with next_run_date <= asOf,
// lines included.
func (r *PgxRecurringRepository) ListDueRecurring(ctx context.Context, asOf time.Time) ([]domain.RecurringEntry, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT `+recurringColumns+` FROM recurring_entries
		WHERE is_active = TRUE AND next_run_date <= $1
		ORDER BY next_run_date;
	`, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list due templates: %w", err)
	}
	defer rows.Close()

	var due []domain.RecurringEntry
	for rows.Next() {
		recurring, err := scanRecurring(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recurring row: %w", err)
		}
		due = append(due, *recurring)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recurring rows: %w", err)
	}

	for i := range due {
		lines, err := r.findRecurringLines(ctx, due[i].RecurringID)
		if err != nil {
			return nil, err
		}
		due[i].Lines = lines
	}
	return due, nil
}

// AdvanceNextRun moves a template's next run date forward.
func (r *PgxRecurringRepository) AdvanceNextRun(ctx context.Context, recurringID string, nextRunDate time.Time, userID string, now time.Time) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE recurring_entries
		SET next_run_date = $2, last_updated_at = $3, last_updated_by = $4
		WHERE recurring_id = $1;
	`, recurringID, nextRunDate, now, userID)
	if err != nil {
		return fmt.Errorf("failed to advance recurring schedule %s: %w", recurringID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: recurring template %s", apperrors.ErrNotFound, recurringID)
	}
	return nil
}

// DeactivateRecurring disables a template.
func (r *PgxRecurringRepository) DeactivateRecurring(ctx context.Context, recurringID string, userID string, now time.Time) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE recurring_entries
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE recurring_id = $1;
	`, recurringID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to deactivate recurring template %s: %w", recurringID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: recurring template %s", apperrors.ErrNotFound, recurringID)
	}
	return nil
}
