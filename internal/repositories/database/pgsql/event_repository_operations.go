package pgsql

import (
	"context"

	"github.com/buildledger/construction_ledger/internal/apperrors"
	"github.com/buildledger/construction_ledger/internal/core/domain"
)

// ListEquipment retrieves every equipment asset. purchase_date is stored as a
// DATE and read back as its literal text so month arithmetic stays
// timezone-free.
func (r *PgxEventRepository) ListEquipment(ctx context.Context, companyID string) ([]domain.Equipment, error) {
	query := `
		SELECT equipment_id, company_id, COALESCE(name, ''), to_char(purchase_date, 'YYYY-MM-DD'),
		       purchase_price, COALESCE(useful_life_months, 0), status, project_id
		FROM equipment
		WHERE company_id = $1
		ORDER BY purchase_date DESC, equipment_id;
	`
	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list equipment", err)
	}
	defer rows.Close()

	var equipment []domain.Equipment
	for rows.Next() {
		var eq domain.Equipment
		if err := rows.Scan(
			&eq.EquipmentID, &eq.CompanyID, &eq.Name, &eq.PurchaseDate,
			&eq.PurchasePrice, &eq.UsefulLifeMonths, &eq.Status, &eq.ProjectID,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan equipment row", err)
		}
		equipment = append(equipment, eq)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed reading equipment rows", err)
	}
	return equipment, nil
}

// ListEquipmentMaintenanceLogs retrieves equipment service history.
func (r *PgxEventRepository) ListEquipmentMaintenanceLogs(ctx context.Context, companyID string) ([]domain.EquipmentMaintenanceLog, error) {
	query := `
		SELECT log_id, company_id, equipment_id, service_date, COALESCE(cost, 0), COALESCE(description, '')
		FROM equipment_maintenance_logs
		WHERE company_id = $1
		ORDER BY service_date DESC, log_id;
	`
	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list equipment maintenance logs", err)
	}
	defer rows.Close()

	var logs []domain.EquipmentMaintenanceLog
	for rows.Next() {
		var l domain.EquipmentMaintenanceLog
		if err := rows.Scan(
			&l.LogID, &l.CompanyID, &l.EquipmentID, &l.ServiceDate, &l.Cost, &l.Description,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan equipment maintenance log row", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed reading equipment maintenance log rows", err)
	}
	return logs, nil
}

// ListPayrollRuns retrieves payroll runs.
func (r *PgxEventRepository) ListPayrollRuns(ctx context.Context, companyID string) ([]domain.PayrollRun, error) {
	query := `
		SELECT payroll_run_id, company_id, period_start, period_end, pay_date,
		       gross_pay, COALESCE(tax_withheld, 0), COALESCE(net_pay, 0),
		       COALESCE(employee_count, 0), status
		FROM payroll_runs
		WHERE company_id = $1
		ORDER BY pay_date DESC, payroll_run_id;
	`
	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list payroll runs", err)
	}
	defer rows.Close()

	var runs []domain.PayrollRun
	for rows.Next() {
		var run domain.PayrollRun
		if err := rows.Scan(
			&run.PayrollRunID, &run.CompanyID, &run.PeriodStart, &run.PeriodEnd, &run.PayDate,
			&run.GrossPay, &run.TaxWithheld, &run.NetPay, &run.EmployeeCount, &run.Status,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan payroll run row", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed reading payroll run rows", err)
	}
	return runs, nil
}
