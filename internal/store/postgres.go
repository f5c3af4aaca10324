package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/oaitse/payportal/internal/config"
	"github.com/oaitse/payportal/internal/domain"
)

// uniqueViolation is the Postgres error code for unique constraint hits.
const uniqueViolation = "23505"

// Postgres implements Store on top of a pooled database/sql connection.
type Postgres struct {
	db *sql.DB
}

// NewPostgres opens a connection pool against cfg.URL, verifies
// connectivity, and ensures the schema exists.
func NewPostgres(ctx context.Context, cfg config.DatabaseConfig) (*Postgres, error) {
	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	p := &Postgres{db: db}
	if err := p.initTables(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("init tables: %w", err)
	}
	return p, nil
}

func (p *Postgres) initTables(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS customers (
			id BIGSERIAL PRIMARY KEY,
			full_name TEXT NOT NULL,
			id_number TEXT NOT NULL,
			account_number TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS employees (
			id BIGSERIAL PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL,
			role TEXT NOT NULL,
			password_hash TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id BIGSERIAL PRIMARY KEY,
			customer_id BIGINT REFERENCES customers(id),
			amount NUMERIC(18,2) NOT NULL,
			currency TEXT NOT NULL,
			provider TEXT NOT NULL,
			payee_account TEXT NOT NULL,
			payee_swift TEXT NOT NULL,
			status TEXT NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_status ON transactions(status)`,
	}

	for _, stmt := range statements {
		if _, err := p.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (p *Postgres) CreateCustomer(ctx context.Context, c domain.Customer) (int64, error) {
	var id int64
	err := p.db.QueryRowContext(ctx,
		`INSERT INTO customers (full_name, id_number, account_number, password_hash)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		c.FullName, c.IDNumber, c.AccountNumber, c.PasswordHash,
	).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return 0, domain.ErrDuplicateAccount
		}
		return 0, fmt.Errorf("insert customer: %w", err)
	}
	return id, nil
}

func (p *Postgres) CustomerByLogin(ctx context.Context, fullName, accountNumber string) (domain.Customer, error) {
	var c domain.Customer
	err := p.db.QueryRowContext(ctx,
		`SELECT id, full_name, id_number, account_number, password_hash, created_at
		   FROM customers
		  WHERE full_name = $1 AND account_number = $2`,
		fullName, accountNumber,
	).Scan(&c.ID, &c.FullName, &c.IDNumber, &c.AccountNumber, &c.PasswordHash, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Customer{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Customer{}, fmt.Errorf("query customer by login: %w", err)
	}
	return c, nil
}

func (p *Postgres) CustomerByID(ctx context.Context, id int64) (domain.Customer, error) {
	var c domain.Customer
	err := p.db.QueryRowContext(ctx,
		`SELECT id, full_name, id_number, account_number, password_hash, created_at
		   FROM customers
		  WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.FullName, &c.IDNumber, &c.AccountNumber, &c.PasswordHash, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Customer{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Customer{}, fmt.Errorf("query customer %d: %w", id, err)
	}
	return c, nil
}

func (p *Postgres) CreateEmployee(ctx context.Context, e domain.Employee) (int64, error) {
	var id int64
	err := p.db.QueryRowContext(ctx,
		`INSERT INTO employees (username, email, role, password_hash)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		e.Username, e.Email, e.Role, e.PasswordHash,
	).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return 0, domain.ErrDuplicateAccount
		}
		return 0, fmt.Errorf("insert employee: %w", err)
	}
	return id, nil
}

func (p *Postgres) EmployeeByUsername(ctx context.Context, username string) (domain.Employee, error) {
	var e domain.Employee
	err := p.db.QueryRowContext(ctx,
		`SELECT id, username, email, role, password_hash
		   FROM employees
		  WHERE username = $1`,
		username,
	).Scan(&e.ID, &e.Username, &e.Email, &e.Role, &e.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Employee{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Employee{}, fmt.Errorf("query employee %s: %w", username, err)
	}
	return e, nil
}

func (p *Postgres) CreatePayment(ctx context.Context, pay domain.Payment) (int64, error) {
	var customerID sql.NullInt64
	if pay.CustomerID != nil {
		customerID = sql.NullInt64{Int64: *pay.CustomerID, Valid: true}
	}

	var id int64
	err := p.db.QueryRowContext(ctx,
		`INSERT INTO transactions (customer_id, amount, currency, provider, payee_account, payee_swift, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		customerID, pay.Amount, pay.Currency, pay.Provider, pay.PayeeAccount, pay.PayeeSwift, domain.StatusPending,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert payment: %w", err)
	}
	return id, nil
}

func (p *Postgres) ListPayments(ctx context.Context, status string) ([]domain.PaymentRow, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT t.id,
		        COALESCE(c.full_name, '(unknown)') AS customer,
		        t.amount::text, t.currency, t.provider, t.status
		   FROM transactions t
		   LEFT JOIN customers c ON c.id = t.customer_id
		  WHERE ($1 = '' OR t.status = $1)
		  ORDER BY t.id DESC`,
		status,
	)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	var result []domain.PaymentRow
	for rows.Next() {
		var row domain.PaymentRow
		if err := rows.Scan(&row.ID, &row.Customer, &row.Amount, &row.Currency, &row.Provider, &row.Status); err != nil {
			return nil, fmt.Errorf("scan payment row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payment rows: %w", err)
	}
	return result, nil
}

func (p *Postgres) VerifyPayment(ctx context.Context, id int64) error {
	// Conditional on the current status so two concurrent verifies of
	// the same id cannot both succeed.
	res, err := p.db.ExecContext(ctx,
		`UPDATE transactions
		    SET status = $1
		  WHERE id = $2 AND status = $3`,
		domain.StatusVerified, id, domain.StatusPending,
	)
	if err != nil {
		return fmt.Errorf("verify payment %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("verify payment %d rows: %w", id, err)
	}
	if affected == 0 {
		return domain.ErrNothingToVerify
	}
	return nil
}

func (p *Postgres) SubmitVerified(ctx context.Context) (int64, error) {
	res, err := p.db.ExecContext(ctx,
		`UPDATE transactions
		    SET status = $1
		  WHERE status = $2`,
		domain.StatusSubmitted, domain.StatusVerified,
	)
	if err != nil {
		return 0, fmt.Errorf("submit verified payments: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("submit verified rows: %w", err)
	}
	return affected, nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *Postgres) Close() error {
	return p.db.Close()
}
