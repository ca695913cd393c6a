package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/buildledger/construction_ledger/internal/apperrors"
	"github.com/buildledger/construction_ledger/internal/core/domain"
	portsrepo "github.com/buildledger/construction_ledger/internal/core/ports/repositories"
)

// PgxEventRepository reads the business-event tables the ledger engine derives
// entries from. Rows are scanned straight into domain snapshots; these tables
// are owned by the upstream ERP modules and this repository never writes them,
// except for the invoice journal_entry_id back-reference.
type PgxEventRepository struct {
	BaseRepository
}

// newPgxEventRepository creates a new repository over the business-event tables.
func newPgxEventRepository(pool *pgxpool.Pool) portsrepo.EventRepositoryFacade {
	return &PgxEventRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.EventRepositoryFacade = (*PgxEventRepository)(nil)

// ListInvoices retrieves every invoice for the tenant.
func (r *PgxEventRepository) ListInvoices(ctx context.Context, companyID string) ([]domain.Invoice, error) {
	query := `
		SELECT invoice_id, company_id, invoice_number, invoice_type, invoice_date,
		       amount, COALESCE(retainage_held, 0), COALESCE(description, ''), status,
		       project_id, property_id, journal_entry_id
		FROM invoices
		WHERE company_id = $1
		ORDER BY invoice_date DESC, invoice_id;
	`
	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list invoices", err)
	}
	defer rows.Close()

	var invoices []domain.Invoice
	for rows.Next() {
		var inv domain.Invoice
		if err := rows.Scan(
			&inv.InvoiceID, &inv.CompanyID, &inv.InvoiceNumber, &inv.InvoiceType, &inv.InvoiceDate,
			&inv.Amount, &inv.RetainageHeld, &inv.Description, &inv.Status,
			&inv.ProjectID, &inv.PropertyID, &inv.JournalEntryID,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan invoice row", err)
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed reading invoice rows", err)
	}
	return invoices, nil
}

// ListPayments retrieves payments with the parent invoice's type and links
// joined in, so generators can orient the cash movement without a second read.
func (r *PgxEventRepository) ListPayments(ctx context.Context, companyID string) ([]domain.Payment, error) {
	query := `
		SELECT p.payment_id, p.company_id, p.invoice_id, i.invoice_type,
		       p.payment_date, p.amount, COALESCE(p.method, ''),
		       i.project_id, i.property_id
		FROM payments p
		JOIN invoices i ON i.invoice_id = p.invoice_id
		WHERE p.company_id = $1
		ORDER BY p.payment_date DESC, p.payment_id;
	`
	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list payments", err)
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(
			&p.PaymentID, &p.CompanyID, &p.InvoiceID, &p.InvoiceType,
			&p.PaymentDate, &p.Amount, &p.Method,
			&p.ProjectID, &p.PropertyID,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan payment row", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed reading payment rows", err)
	}
	return payments, nil
}

// SetInvoiceJournalEntryID updates the display-only back-reference after an
// invoice entry posts.
func (r *PgxEventRepository) SetInvoiceJournalEntryID(ctx context.Context, companyID, invoiceID, entryID string) error {
	query := `
		UPDATE invoices
		SET journal_entry_id = $3
		WHERE company_id = $1 AND invoice_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query, companyID, invoiceID, entryID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update invoice back-reference", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("invoice " + invoiceID + " not found")
	}
	return nil
}
