package models

import "time"

// Account is the chart_of_accounts row shape.
type Account struct {
	AccountID     string    `db:"account_id"`
	CompanyID     string    `db:"company_id"`
	AccountNumber string    `db:"account_number"`
	Name          string    `db:"name"`
	AccountType   string    `db:"account_type"`
	SubType       string    `db:"sub_type"`
	NormalBalance string    `db:"normal_balance"`
	IsActive      bool      `db:"is_active"`
	CreatedAt     time.Time `db:"created_at"`
	CreatedBy     string    `db:"created_by"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
	LastUpdatedBy string    `db:"last_updated_by"`
}
