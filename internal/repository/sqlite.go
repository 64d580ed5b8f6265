package repository

import (
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS loans (
	id TEXT PRIMARY KEY,
	loan_id TEXT NOT NULL UNIQUE,
	principal TEXT NOT NULL,
	current_balance TEXT NOT NULL,
	annual_rate TEXT NOT NULL,
	term_periods INTEGER NOT NULL,
	current_period INTEGER NOT NULL,
	frequency TEXT NOT NULL,
	custom_periods_per_year INTEGER NOT NULL DEFAULT 0,
	periodic_payment TEXT NOT NULL,
	status TEXT NOT NULL,
	start_date TIMESTAMP NOT NULL,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS schedule_rows (
	id TEXT PRIMARY KEY,
	loan_id TEXT NOT NULL,
	period_number INTEGER NOT NULL,
	payment_date TIMESTAMP NOT NULL,
	payment_amount TEXT NOT NULL,
	principal_portion TEXT NOT NULL,
	interest_portion TEXT NOT NULL,
	ending_balance TEXT NOT NULL,
	row_type TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	UNIQUE (loan_id, period_number)
);

CREATE INDEX IF NOT EXISTS idx_schedule_rows_loan_id ON schedule_rows (loan_id);
`

// OpenSQLite opens (or creates) an embedded sqlite database and ensures the
// schema exists. Used for standalone deployments without a postgres server.
func OpenSQLite(path string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, err
	}

	// sqlite serializes writers; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
