package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/buildledger/construction_ledger/internal/apperrors"
	"github.com/buildledger/construction_ledger/internal/core/domain"
	portsrepo "github.com/buildledger/construction_ledger/internal/core/ports/repositories"
	"github.com/buildledger/construction_ledger/internal/models"
	"github.com/buildledger/construction_ledger/internal/utils/mapping"
)

type PgxJournalRepository struct {
	BaseRepository
	refChunkSize int
}

// newPgxJournalRepository creates a new repository for journal entry data.
func newPgxJournalRepository(pool *pgxpool.Pool, refChunkSize int) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}, refChunkSize: refChunkSize}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

const entryColumns = `entry_id, company_id, entry_number, entry_date, description, reference, status,
	created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, entry_id, account_id, debit, credit, description, project_id, property_id`

func scanEntry(row pgx.Row) (models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID, &m.CompanyID, &m.EntryNumber, &m.EntryDate,
		&m.Description, &m.Reference, &m.Status,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

// SaveEntry persists the entry and its lines in one transaction. The
// per-company entry number comes from an upsert on company_counters, so
// numbering survives concurrent posters. The partial unique index on
// (company_id, reference) for POSTED entries backstops idempotency; a
// violation surfaces as apperrors.ErrDuplicate.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) (*domain.JournalEntry, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	var nextNumber int64
	counterQuery := `
		INSERT INTO company_counters (company_id, next_entry_number)
		VALUES ($1, 2)
		ON CONFLICT (company_id)
		DO UPDATE SET next_entry_number = company_counters.next_entry_number + 1
		RETURNING next_entry_number - 1;
	`
	if err := tx.QueryRow(ctx, counterQuery, entry.CompanyID).Scan(&nextNumber); err != nil {
		return nil, apperrors.NewAppError(500, "failed to allocate entry number", err)
	}
	entry.EntryNumber = fmt.Sprintf("JE-%04d", nextNumber)

	m := mapping.ToModelEntry(entry)
	entryQuery := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	if _, err := tx.Exec(ctx, entryQuery,
		m.EntryID, m.CompanyID, m.EntryNumber, m.EntryDate,
		m.Description, m.Reference, m.Status,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperrors.NewAppError(409, "an entry for this reference is already posted", apperrors.ErrDuplicate)
		}
		return nil, apperrors.NewAppError(500, "failed to insert journal entry "+m.EntryID, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO journal_entry_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	for _, line := range entry.Lines {
		lm := mapping.ToModelLine(line)
		batch.Queue(lineQuery,
			lm.LineID, lm.EntryID, lm.AccountID, lm.Debit, lm.Credit,
			lm.Description, lm.ProjectID, lm.PropertyID,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to insert lines for entry "+m.EntryID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &entry, nil
}

// FindEntryByID retrieves an entry with its lines.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, companyID, entryID string) (*domain.JournalEntry, error) {
	entryQuery := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE company_id = $1 AND entry_id = $2;
	`
	m, err := scanEntry(r.Pool.QueryRow(ctx, entryQuery, companyID, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("journal entry " + entryID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to find journal entry", err)
	}
	entry := mapping.ToDomainEntry(m)

	lineQuery := `
		SELECT ` + lineColumns + `
		FROM journal_entry_lines
		WHERE entry_id = $1
		ORDER BY line_id;
	`
	rows, err := r.Pool.Query(ctx, lineQuery, entryID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list entry lines", err)
	}
	defer rows.Close()
	for rows.Next() {
		var lm models.JournalEntryLine
		if err := rows.Scan(&lm.LineID, &lm.EntryID, &lm.AccountID, &lm.Debit, &lm.Credit,
			&lm.Description, &lm.ProjectID, &lm.PropertyID); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan entry line", err)
		}
		entry.Lines = append(entry.Lines, mapping.ToDomainLine(lm))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed reading entry lines", err)
	}
	return &entry, nil
}

// FindPostedReferences returns the subset of refs that already have a POSTED
// entry, chunking the ANY-list to keep query parameters bounded.
func (r *PgxJournalRepository) FindPostedReferences(ctx context.Context, companyID string, refs []string) (map[string]struct{}, error) {
	out := make(map[string]struct{}, len(refs))
	query := `
		SELECT reference
		FROM journal_entries
		WHERE company_id = $1 AND status = 'POSTED' AND reference = ANY($2);
	`
	for _, chunk := range chunkStrings(refs, r.refChunkSize) {
		rows, err := r.Pool.Query(ctx, query, companyID, chunk)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to look up posted references", err)
		}
		for rows.Next() {
			var ref string
			if err := rows.Scan(&ref); err != nil {
				rows.Close()
				return nil, apperrors.NewAppError(500, "failed to scan posted reference", err)
			}
			out[ref] = struct{}{}
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, apperrors.NewAppError(500, "failed reading posted references", err)
		}
		rows.Close()
	}
	return out, nil
}

// FindPostedEntriesByReferences resolves refs to posted entry headers keyed by
// reference.
func (r *PgxJournalRepository) FindPostedEntriesByReferences(ctx context.Context, companyID string, refs []string) (map[string]domain.JournalEntry, error) {
	out := make(map[string]domain.JournalEntry, len(refs))
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE company_id = $1 AND status = 'POSTED' AND reference = ANY($2);
	`
	for _, chunk := range chunkStrings(refs, r.refChunkSize) {
		rows, err := r.Pool.Query(ctx, query, companyID, chunk)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to look up entries by reference", err)
		}
		for rows.Next() {
			m, err := scanEntry(rows)
			if err != nil {
				rows.Close()
				return nil, apperrors.NewAppError(500, "failed to scan entry row", err)
			}
			entry := mapping.ToDomainEntry(m)
			if entry.Reference != nil {
				out[*entry.Reference] = entry
			}
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, apperrors.NewAppError(500, "failed reading entry rows", err)
		}
		rows.Close()
	}
	return out, nil
}

// ListPostedLines retrieves posted lines joined with their entry headers,
// optionally narrowed to project- or property-linked lines.
func (r *PgxJournalRepository) ListPostedLines(ctx context.Context, companyID string, filter domain.LineLinkFilter) ([]domain.PostedLine, error) {
	query := `
		SELECT l.line_id, l.entry_id, l.account_id, l.debit, l.credit, l.description, l.project_id, l.property_id,
		       e.company_id, e.entry_number, e.entry_date, e.description, e.reference
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE e.company_id = $1 AND e.status = 'POSTED'
	`
	switch filter {
	case domain.ProjectLines:
		query += ` AND l.project_id IS NOT NULL`
	case domain.PropertyLines:
		query += ` AND l.property_id IS NOT NULL`
	}
	query += ` ORDER BY e.entry_date DESC, e.entry_number DESC, l.line_id;`

	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list posted lines", err)
	}
	defer rows.Close()

	var lines []domain.PostedLine
	for rows.Next() {
		var lm models.JournalEntryLine
		var pl domain.PostedLine
		if err := rows.Scan(
			&lm.LineID, &lm.EntryID, &lm.AccountID, &lm.Debit, &lm.Credit,
			&lm.Description, &lm.ProjectID, &lm.PropertyID,
			&pl.CompanyID, &pl.EntryNumber, &pl.EntryDate, &pl.EntryDesc, &pl.Reference,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan posted line", err)
		}
		pl.JournalEntryLine = mapping.ToDomainLine(lm)
		lines = append(lines, pl)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed reading posted lines", err)
	}
	return lines, nil
}
