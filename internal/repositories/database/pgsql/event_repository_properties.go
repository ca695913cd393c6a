package pgsql

import (
	"context"

	"github.com/buildledger/construction_ledger/internal/apperrors"
	"github.com/buildledger/construction_ledger/internal/core/domain"
)

// ListLeases retrieves every lease, with a has-schedule flag joined in so the
// aggregator can tell which leases are represented by schedule rows.
func (r *PgxEventRepository) ListLeases(ctx context.Context, companyID string) ([]domain.Lease, error) {
	query := `
		SELECT l.lease_id, l.company_id, l.property_id, COALESCE(l.tenant_name, ''),
		       l.monthly_rent, l.start_date, l.end_date, l.status,
		       EXISTS (SELECT 1 FROM lease_schedule_rows s WHERE s.lease_id = l.lease_id)
		FROM leases l
		WHERE l.company_id = $1
		ORDER BY l.start_date DESC, l.lease_id;
	`
	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list leases", err)
	}
	defer rows.Close()

	var leases []domain.Lease
	for rows.Next() {
		var l domain.Lease
		if err := rows.Scan(
			&l.LeaseID, &l.CompanyID, &l.PropertyID, &l.TenantName,
			&l.MonthlyRent, &l.StartDate, &l.EndDate, &l.Status,
			&l.HasSchedule,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan lease row", err)
		}
		leases = append(leases, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed reading lease rows", err)
	}
	return leases, nil
}

// ListLeaseScheduleRows retrieves every accrual and recognition schedule row,
// with the lease's property and tenant joined in.
func (r *PgxEventRepository) ListLeaseScheduleRows(ctx context.Context, companyID string) ([]domain.LeaseScheduleRow, error) {
	query := `
		SELECT s.row_id, s.company_id, s.lease_id, l.property_id, s.kind, s.period_date, s.amount,
		       COALESCE(l.tenant_name, '')
		FROM lease_schedule_rows s
		JOIN leases l ON l.lease_id = s.lease_id
		WHERE s.company_id = $1
		ORDER BY s.period_date DESC, s.row_id;
	`
	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list lease schedule rows", err)
	}
	defer rows.Close()

	var schedule []domain.LeaseScheduleRow
	for rows.Next() {
		var row domain.LeaseScheduleRow
		if err := rows.Scan(
			&row.RowID, &row.CompanyID, &row.LeaseID, &row.PropertyID,
			&row.Kind, &row.PeriodDate, &row.Amount, &row.TenantName,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan lease schedule row", err)
		}
		schedule = append(schedule, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed reading lease schedule rows", err)
	}
	return schedule, nil
}

// ListRentPayments retrieves tenant rent receipts with lease context joined in.
func (r *PgxEventRepository) ListRentPayments(ctx context.Context, companyID string) ([]domain.RentPayment, error) {
	query := `
		SELECT rp.rent_payment_id, rp.company_id, rp.lease_id, l.property_id,
		       rp.payment_date, rp.amount, COALESCE(l.tenant_name, '')
		FROM rent_payments rp
		JOIN leases l ON l.lease_id = rp.lease_id
		WHERE rp.company_id = $1
		ORDER BY rp.payment_date DESC, rp.rent_payment_id;
	`
	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list rent payments", err)
	}
	defer rows.Close()

	var payments []domain.RentPayment
	for rows.Next() {
		var rp domain.RentPayment
		if err := rows.Scan(
			&rp.RentPaymentID, &rp.CompanyID, &rp.LeaseID, &rp.PropertyID,
			&rp.PaymentDate, &rp.Amount, &rp.TenantName,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan rent payment row", err)
		}
		payments = append(payments, rp)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed reading rent payment rows", err)
	}
	return payments, nil
}

// ListMaintenanceRequests retrieves property maintenance requests.
func (r *PgxEventRepository) ListMaintenanceRequests(ctx context.Context, companyID string) ([]domain.MaintenanceRequest, error) {
	query := `
		SELECT request_id, company_id, property_id, request_date,
		       COALESCE(actual_cost, 0), COALESCE(description, ''), status
		FROM maintenance_requests
		WHERE company_id = $1
		ORDER BY request_date DESC, request_id;
	`
	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list maintenance requests", err)
	}
	defer rows.Close()

	var requests []domain.MaintenanceRequest
	for rows.Next() {
		var req domain.MaintenanceRequest
		if err := rows.Scan(
			&req.RequestID, &req.CompanyID, &req.PropertyID, &req.RequestDate,
			&req.ActualCost, &req.Description, &req.Status,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan maintenance request row", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed reading maintenance request rows", err)
	}
	return requests, nil
}
