package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	domainErrors "github.com/wildfire-market/checkout/internal/domain/errors"
	"github.com/wildfire-market/checkout/internal/domain/model"
	"github.com/wildfire-market/checkout/internal/domain/repository"
)

// pgxPool is the subset of pgxpool.Pool the storage relies on, kept as an
// interface so tests can substitute a mock pool.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type sessionRepository struct {
	storage *Storage
}

type cartRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Sessions() repository.SessionRepository {
	return &sessionRepository{storage: s}
}

func (s *Storage) Carts() repository.CartRepository {
	return &cartRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
            id TEXT PRIMARY KEY,
            step INT NOT NULL DEFAULT 1,
            currency TEXT NOT NULL DEFAULT 'USDC',
            customer_name TEXT NOT NULL DEFAULT '',
            email TEXT NOT NULL DEFAULT '',
            wallet_address TEXT NOT NULL DEFAULT '',
            telegram TEXT NOT NULL DEFAULT '',
            x_handle TEXT NOT NULL DEFAULT '',
            discord TEXT NOT NULL DEFAULT '',
            order_number TEXT NOT NULL DEFAULT '',
            settlement TEXT NOT NULL DEFAULT 'IDLE',
            approved BOOLEAN NOT NULL DEFAULT FALSE,
            onramp_active BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS cart_lines (
            id SERIAL PRIMARY KEY,
            session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
            product_id TEXT NOT NULL,
            product_name TEXT NOT NULL,
            unit_price NUMERIC NOT NULL,
            quantity INT NOT NULL,
            added_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            UNIQUE (session_id, product_id)
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id SERIAL PRIMARY KEY,
            session_id TEXT NOT NULL,
            number TEXT UNIQUE NOT NULL,
            customer_name TEXT NOT NULL,
            email TEXT NOT NULL,
            wallet_address TEXT NOT NULL DEFAULT '',
            telegram TEXT NOT NULL DEFAULT '',
            x_handle TEXT NOT NULL DEFAULT '',
            discord TEXT NOT NULL DEFAULT '',
            total NUMERIC NOT NULL,
            currency TEXT NOT NULL,
            tx_hash TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_updated ON sessions(updated_at)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_session ON orders(session_id, created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

const sessionColumns = `id, step, currency, customer_name, email, wallet_address, telegram, x_handle, discord,
                        order_number, settlement, approved, onramp_active, created_at, updated_at`

func scanSession(row pgx.Row) (*model.CheckoutSession, error) {
	var s model.CheckoutSession
	err := row.Scan(
		&s.ID, &s.Step, &s.Currency,
		&s.Customer.Name, &s.Customer.Email, &s.Customer.WalletAddress,
		&s.Customer.Telegram, &s.Customer.XHandle, &s.Customer.Discord,
		&s.OrderNumber, &s.Settlement, &s.Approved, &s.OnrampActive,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// --- SessionRepository implementation ---

func (r *sessionRepository) GetOrCreate(ctx context.Context, id string) (*model.CheckoutSession, error) {
	const query = `INSERT INTO sessions (id) VALUES ($1)
                   ON CONFLICT (id) DO NOTHING
                   RETURNING ` + sessionColumns
	session, err := scanSession(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return r.Get(ctx, id)
		}
		return nil, err
	}
	return session, nil
}

func (r *sessionRepository) Get(ctx context.Context, id string) (*model.CheckoutSession, error) {
	const query = `SELECT ` + sessionColumns + ` FROM sessions WHERE id=$1`
	return scanSession(r.storage.pool.QueryRow(ctx, query, id))
}

func (r *sessionRepository) UpdateStep(ctx context.Context, id string, step model.CheckoutStep) error {
	const query = `UPDATE sessions SET step=$2, updated_at=NOW() WHERE id=$1`
	return r.exec(ctx, query, id, step)
}

func (r *sessionRepository) UpdateCurrency(ctx context.Context, id string, currency model.Currency) error {
	const query = `UPDATE sessions SET currency=$2, updated_at=NOW() WHERE id=$1`
	return r.exec(ctx, query, id, currency)
}

func (r *sessionRepository) UpdateCustomer(ctx context.Context, id string, info model.CustomerInfo, orderNumber string) error {
	const query = `UPDATE sessions
                   SET customer_name=$2, email=$3, wallet_address=$4, telegram=$5, x_handle=$6, discord=$7,
                       order_number=$8, updated_at=NOW()
                   WHERE id=$1`
	return r.exec(ctx, query, id, info.Name, info.Email, info.WalletAddress, info.Telegram, info.XHandle, info.Discord, orderNumber)
}

// TransitionSettlement is a compare-and-set update. An update that matches no
// row means the session is not in the expected settlement state, so a second
// concurrent attempt loses here without any explicit locking.
func (r *sessionRepository) TransitionSettlement(ctx context.Context, id string, from, to model.SettlementStatus) error {
	const query = `UPDATE sessions SET settlement=$3, updated_at=NOW() WHERE id=$1 AND settlement=$2`
	tag, err := r.storage.pool.Exec(ctx, query, id, from, to)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.Get(ctx, id); err != nil {
			return err
		}
		return domainErrors.ErrSettlementInProgress
	}
	return nil
}

func (r *sessionRepository) SetApproved(ctx context.Context, id string, approved bool) error {
	const query = `UPDATE sessions SET approved=$2, updated_at=NOW() WHERE id=$1`
	return r.exec(ctx, query, id, approved)
}

func (r *sessionRepository) SetOnrampActive(ctx context.Context, id string, active bool) error {
	const query = `UPDATE sessions SET onramp_active=$2, updated_at=NOW() WHERE id=$1`
	return r.exec(ctx, query, id, active)
}

func (r *sessionRepository) SelectExpiredBatch(ctx context.Context, cutoff time.Time, limit int) ([]model.CheckoutSession, error) {
	const query = `SELECT ` + sessionColumns + `
                   FROM sessions
                   WHERE updated_at < $1
                     AND step <> 4
                     AND settlement NOT IN ('APPROVING', 'SENDING')
                   ORDER BY updated_at
                   LIMIT $2`
	rows, err := r.storage.pool.Query(ctx, query, cutoff, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.CheckoutSession
	for rows.Next() {
		var s model.CheckoutSession
		if err := rows.Scan(
			&s.ID, &s.Step, &s.Currency,
			&s.Customer.Name, &s.Customer.Email, &s.Customer.WalletAddress,
			&s.Customer.Telegram, &s.Customer.XHandle, &s.Customer.Discord,
			&s.OrderNumber, &s.Settlement, &s.Approved, &s.OnrampActive,
			&s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM sessions WHERE id=$1`
	_, err := r.storage.pool.Exec(ctx, query, id)
	return err
}

func (r *sessionRepository) exec(ctx context.Context, query string, args ...any) error {
	tag, err := r.storage.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// --- CartRepository implementation ---

func (r *cartRepository) Upsert(ctx context.Context, sessionID, productID, name string, unitPrice decimal.Decimal, quantity int) (*model.CartLine, error) {
	const query = `INSERT INTO cart_lines (session_id, product_id, product_name, unit_price, quantity)
                   VALUES ($1, $2, $3, $4, $5)
                   ON CONFLICT (session_id, product_id)
                   DO UPDATE SET quantity = cart_lines.quantity + EXCLUDED.quantity
                   RETURNING id, quantity, added_at`
	line := model.CartLine{
		SessionID:   sessionID,
		ProductID:   productID,
		ProductName: name,
		UnitPrice:   unitPrice,
	}
	err := r.storage.pool.QueryRow(ctx, query, sessionID, productID, name, unitPrice, quantity).
		Scan(&line.ID, &line.Quantity, &line.AddedAt)
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *cartRepository) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) error {
	const query = `UPDATE cart_lines SET quantity=$3 WHERE session_id=$1 AND product_id=$2`
	tag, err := r.storage.pool.Exec(ctx, query, sessionID, productID, quantity)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *cartRepository) Remove(ctx context.Context, sessionID, productID string) error {
	const query = `DELETE FROM cart_lines WHERE session_id=$1 AND product_id=$2`
	tag, err := r.storage.pool.Exec(ctx, query, sessionID, productID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *cartRepository) ListBySession(ctx context.Context, sessionID string) ([]model.CartLine, error) {
	const query = `SELECT id, session_id, product_id, product_name, unit_price, quantity, added_at
                   FROM cart_lines WHERE session_id=$1 ORDER BY added_at`
	rows, err := r.storage.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.CartLine
	for rows.Next() {
		var l model.CartLine
		if err := rows.Scan(&l.ID, &l.SessionID, &l.ProductID, &l.ProductName, &l.UnitPrice, &l.Quantity, &l.AddedAt); err != nil {
			return nil, err
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *cartRepository) Clear(ctx context.Context, sessionID string) error {
	const query = `DELETE FROM cart_lines WHERE session_id=$1`
	_, err := r.storage.pool.Exec(ctx, query, sessionID)
	return err
}

// --- OrderRepository implementation ---

func (r *orderRepository) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	const query = `INSERT INTO orders (session_id, number, customer_name, email, wallet_address,
                                       telegram, x_handle, discord, total, currency, status)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
                   RETURNING id, created_at, updated_at`
	created := *order
	err := r.storage.pool.QueryRow(ctx, query,
		order.SessionID, order.Number, order.CustomerName, order.Email, order.WalletAddress,
		order.Telegram, order.XHandle, order.Discord, order.Total, order.Currency, order.Status,
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &created, nil
}

const orderColumns = `id, session_id, number, customer_name, email, wallet_address, telegram, x_handle, discord,
                      total, currency, tx_hash, status, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(
		&o.ID, &o.SessionID, &o.Number, &o.CustomerName, &o.Email, &o.WalletAddress,
		&o.Telegram, &o.XHandle, &o.Discord,
		&o.Total, &o.Currency, &o.TxHash, &o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) GetByNumber(ctx context.Context, number string) (*model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE number=$1`
	return scanOrder(r.storage.pool.QueryRow(ctx, query, number))
}

func (r *orderRepository) GetBySession(ctx context.Context, sessionID string) (*model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE session_id=$1 ORDER BY created_at DESC LIMIT 1`
	return scanOrder(r.storage.pool.QueryRow(ctx, query, sessionID))
}

func (r *orderRepository) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	const query = `UPDATE orders SET status=$2, updated_at=NOW() WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, orderID, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *orderRepository) Finalize(ctx context.Context, orderID int64, txHash string) error {
	const query = `UPDATE orders SET tx_hash=$2, status=$3, updated_at=NOW() WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, orderID, txHash, model.OrderStatusCompleted)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
