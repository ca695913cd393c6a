package pgsql

import (
	"context"

	"github.com/buildledger/construction_ledger/internal/apperrors"
	"github.com/buildledger/construction_ledger/internal/core/domain"
)

// ListChangeOrders retrieves every change order for the tenant.
func (r *PgxEventRepository) ListChangeOrders(ctx context.Context, companyID string) ([]domain.ChangeOrder, error) {
	query := `
		SELECT change_order_id, company_id, project_id, number, COALESCE(description, ''), status, amount, order_date
		FROM change_orders
		WHERE company_id = $1
		ORDER BY order_date DESC, change_order_id;
	`
	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list change orders", err)
	}
	defer rows.Close()

	var orders []domain.ChangeOrder
	for rows.Next() {
		var co domain.ChangeOrder
		if err := rows.Scan(
			&co.ChangeOrderID, &co.CompanyID, &co.ProjectID, &co.Number,
			&co.Description, &co.Status, &co.Amount, &co.OrderDate,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan change order row", err)
		}
		orders = append(orders, co)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed reading change order rows", err)
	}
	return orders, nil
}

// ListContracts retrieves every contract for the tenant.
func (r *PgxEventRepository) ListContracts(ctx context.Context, companyID string) ([]domain.Contract, error) {
	query := `
		SELECT contract_id, company_id, number, COALESCE(title, ''), COALESCE(party_name, ''),
		       amount, status, project_id, start_date
		FROM contracts
		WHERE company_id = $1
		ORDER BY start_date DESC, contract_id;
	`
	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list contracts", err)
	}
	defer rows.Close()

	var contracts []domain.Contract
	for rows.Next() {
		var c domain.Contract
		if err := rows.Scan(
			&c.ContractID, &c.CompanyID, &c.Number, &c.Title, &c.PartyName,
			&c.Amount, &c.Status, &c.ProjectID, &c.StartDate,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan contract row", err)
		}
		contracts = append(contracts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed reading contract rows", err)
	}
	return contracts, nil
}

// ListRFIs retrieves every request for information for the tenant.
func (r *PgxEventRepository) ListRFIs(ctx context.Context, companyID string) ([]domain.RFI, error) {
	query := `
		SELECT rfi_id, company_id, project_id, number, COALESCE(subject, ''), status,
		       COALESCE(cost_impact, 0), raised_date
		FROM rfis
		WHERE company_id = $1
		ORDER BY raised_date DESC, rfi_id;
	`
	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list RFIs", err)
	}
	defer rows.Close()

	var rfis []domain.RFI
	for rows.Next() {
		var rfi domain.RFI
		if err := rows.Scan(
			&rfi.RFIID, &rfi.CompanyID, &rfi.ProjectID, &rfi.Number,
			&rfi.Subject, &rfi.Status, &rfi.CostImpact, &rfi.RaisedDate,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan RFI row", err)
		}
		rfis = append(rfis, rfi)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed reading RFI rows", err)
	}
	return rfis, nil
}
