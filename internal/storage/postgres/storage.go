package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/merchkit/orderflow/internal/domain/errors"
	"github.com/merchkit/orderflow/internal/domain/model"
	"github.com/merchkit/orderflow/internal/domain/repository"
)

// Pool is the subset of pgxpool.Pool used by the storage; pgxmock satisfies
// it in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   Pool
	logger *slog.Logger
}

// newPgxPool is swapped in tests.
var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (Pool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

type userRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

type cartRepository struct {
	storage *Storage
}

type outboxRepository struct {
	storage *Storage
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
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Carts() repository.CartRepository {
	return &cartRepository{storage: s}
}

func (s *Storage) Outbox() repository.OutboxRepository {
	return &outboxRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id SERIAL PRIMARY KEY,
            login TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            is_admin BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id TEXT PRIMARY KEY,
            customer_id BIGINT,
            status TEXT NOT NULL,
            version BIGINT NOT NULL DEFAULT 1,
            items JSONB NOT NULL,
            packages JSONB,
            payments JSONB,
            returns JSONB,
            cancel_request JSONB,
            cancelled_at TIMESTAMPTZ,
            completed_at TIMESTAMPTZ,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS carts (
            id TEXT PRIMARY KEY,
            customer_id BIGINT,
            items JSONB NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS order_events (
            id TEXT PRIMARY KEY,
            order_id TEXT NOT NULL,
            kind TEXT NOT NULL,
            payload JSONB,
            status TEXT NOT NULL DEFAULT 'PENDING',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            delivered_at TIMESTAMPTZ
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_customer ON orders(customer_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_order_events_status ON order_events(status, created_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- UserRepository implementation ---

func (r *userRepository) Create(ctx context.Context, login, passwordHash string, admin bool) (*model.User, error) {
	const query = `INSERT INTO users (login, password_hash, is_admin) VALUES ($1, $2, $3) RETURNING id, created_at`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, login, passwordHash, admin).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	u.Login = login
	u.PasswordHash = passwordHash
	u.Admin = admin
	return &u, nil
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	const query = `SELECT id, login, password_hash, is_admin, created_at FROM users WHERE login=$1`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, login).Scan(&u.ID, &u.Login, &u.PasswordHash, &u.Admin, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const query = `SELECT id, login, password_hash, is_admin, created_at FROM users WHERE id=$1`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&u.ID, &u.Login, &u.PasswordHash, &u.Admin, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// --- OrderRepository implementation ---

const orderColumns = `id, customer_id, status, version, items, packages, payments, returns, cancel_request, cancelled_at, completed_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*model.Order, error) {
	var (
		o             model.Order
		items         []byte
		packages      []byte
		payments      []byte
		returns       []byte
		cancelRequest []byte
	)
	err := row.Scan(&o.ID, &o.CustomerID, &o.Status, &o.Version, &items, &packages, &payments,
		&returns, &cancelRequest, &o.CancelledAt, &o.CompletedAt, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := unmarshalInto(items, &o.Items); err != nil {
		return nil, err
	}
	if err := unmarshalInto(packages, &o.Packages); err != nil {
		return nil, err
	}
	if err := unmarshalInto(payments, &o.Payments); err != nil {
		return nil, err
	}
	if err := unmarshalInto(returns, &o.Returns); err != nil {
		return nil, err
	}
	if err := unmarshalInto(cancelRequest, &o.CancelRequest); err != nil {
		return nil, err
	}
	return &o, nil
}

func unmarshalInto(data []byte, dst any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dst)
}

func marshalOrderDocs(o *model.Order) (items, packages, payments, returns, cancelRequest []byte, err error) {
	if items, err = json.Marshal(o.Items); err != nil {
		return
	}
	if packages, err = json.Marshal(o.Packages); err != nil {
		return
	}
	if payments, err = json.Marshal(o.Payments); err != nil {
		return
	}
	if returns, err = json.Marshal(o.Returns); err != nil {
		return
	}
	if o.CancelRequest != nil {
		cancelRequest, err = json.Marshal(o.CancelRequest)
	}
	return
}

func (r *orderRepository) Get(ctx context.Context, id string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) Find(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	var (
		conditions []string
		args       []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		conditions = append(conditions, "status = ANY("+arg(statuses)+")")
	}
	if len(filter.ExcludeStatuses) > 0 {
		statuses := make([]string, 0, len(filter.ExcludeStatuses))
		for _, s := range filter.ExcludeStatuses {
			statuses = append(statuses, string(s))
		}
		conditions = append(conditions, "NOT (status = ANY("+arg(statuses)+"))")
	}
	if filter.CustomerID != nil {
		conditions = append(conditions, "customer_id = "+arg(*filter.CustomerID))
	}
	if filter.CreatedFrom != nil {
		conditions = append(conditions, "created_at >= "+arg(*filter.CreatedFrom))
	}
	if filter.CreatedTo != nil {
		conditions = append(conditions, "created_at <= "+arg(*filter.CreatedTo))
	}

	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT " + arg(filter.Limit)
	}

	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) Save(ctx context.Context, order *model.Order) (*model.Order, error) {
	items, packages, payments, returns, cancelRequest, err := marshalOrderDocs(order)
	if err != nil {
		return nil, err
	}

	const query = `INSERT INTO orders (id, customer_id, status, items, packages, payments, returns, cancel_request, cancelled_at, completed_at)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
                   ON CONFLICT (id) DO UPDATE SET
                       customer_id=EXCLUDED.customer_id,
                       status=EXCLUDED.status,
                       items=EXCLUDED.items,
                       packages=EXCLUDED.packages,
                       payments=EXCLUDED.payments,
                       returns=EXCLUDED.returns,
                       cancel_request=EXCLUDED.cancel_request,
                       cancelled_at=EXCLUDED.cancelled_at,
                       completed_at=EXCLUDED.completed_at,
                       version=orders.version + 1,
                       updated_at=NOW()
                   RETURNING version, created_at, updated_at`
	saved := *order
	err = r.storage.pool.QueryRow(ctx, query,
		order.ID, order.CustomerID, order.Status, items, packages, payments, returns, cancelRequest,
		order.CancelledAt, order.CompletedAt,
	).Scan(&saved.Version, &saved.CreatedAt, &saved.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *orderRepository) ConditionalUpdate(ctx context.Context, id string, expectedVersion int64, mut repository.Mutator) (*model.Order, error) {
	var updated *model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1 FOR UPDATE`
		order, err := scanOrder(tx.QueryRow(ctx, query, id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}
		if order.Version != expectedVersion {
			return domainErrors.ErrConflict
		}

		events, err := mut(order)
		if err != nil {
			return err
		}

		prevUpdated := order.UpdatedAt
		order.Version = expectedVersion + 1
		order.UpdatedAt = time.Now().UTC()
		if !order.UpdatedAt.After(prevUpdated) {
			order.UpdatedAt = prevUpdated.Add(time.Millisecond)
		}

		items, packages, payments, returns, cancelRequest, err := marshalOrderDocs(order)
		if err != nil {
			return err
		}

		const update = `UPDATE orders SET
                            customer_id=$1, status=$2, version=$3, items=$4, packages=$5, payments=$6,
                            returns=$7, cancel_request=$8, cancelled_at=$9, completed_at=$10, updated_at=$11
                        WHERE id=$12 AND version=$13`
		tag, err := tx.Exec(ctx, update,
			order.CustomerID, order.Status, order.Version, items, packages, payments,
			returns, cancelRequest, order.CancelledAt, order.CompletedAt, order.UpdatedAt,
			id, expectedVersion,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() != 1 {
			return domainErrors.ErrConflict
		}

		for _, event := range events {
			if err := insertEvent(ctx, tx, event); err != nil {
				return err
			}
		}

		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// --- CartRepository implementation ---

func (r *cartRepository) Save(ctx context.Context, cart *model.Cart) error {
	items, err := json.Marshal(cart.Items)
	if err != nil {
		return err
	}
	const query = `INSERT INTO carts (id, customer_id, items, created_at) VALUES ($1, $2, $3, $4)`
	_, err = r.storage.pool.Exec(ctx, query, cart.ID, cart.CustomerID, items, cart.CreatedAt)
	return err
}

// --- OutboxRepository implementation ---

type eventExecutor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

func insertEvent(ctx context.Context, exec eventExecutor, event model.Event) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}
	const query = `INSERT INTO order_events (id, order_id, kind, payload, created_at) VALUES ($1, $2, $3, $4, $5)`
	_, err = exec.Exec(ctx, query, event.ID, event.OrderID, event.Kind, payload, event.CreatedAt)
	return err
}

func (r *outboxRepository) Append(ctx context.Context, event model.Event) error {
	return insertEvent(ctx, r.storage.pool, event)
}

func (r *outboxRepository) SelectBatchForDispatch(ctx context.Context, limit int) ([]model.Event, error) {
	const selectQuery = `SELECT id, order_id, kind, payload, created_at
                         FROM order_events
                         WHERE status='PENDING'
                         ORDER BY created_at
                         LIMIT $1
                         FOR UPDATE SKIP LOCKED`

	var events []model.Event
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectQuery, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		var claimed []string
		for rows.Next() {
			var (
				e       model.Event
				payload []byte
			)
			if err := rows.Scan(&e.ID, &e.OrderID, &e.Kind, &payload, &e.CreatedAt); err != nil {
				return err
			}
			if err := unmarshalInto(payload, &e.Payload); err != nil {
				return err
			}
			events = append(events, e)
			claimed = append(claimed, e.ID)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		// The claim update must wait until the result set is drained: the
		// transaction owns a single connection.
		rows.Close()
		if len(claimed) == 0 {
			return nil
		}
		_, err = tx.Exec(ctx, `UPDATE order_events SET status='DISPATCHING' WHERE id=ANY($1)`, claimed)
		return err
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *outboxRepository) MarkDelivered(ctx context.Context, eventID string) error {
	const query = `UPDATE order_events SET status='DELIVERED', delivered_at=NOW() WHERE id=$1`
	_, err := r.storage.pool.Exec(ctx, query, eventID)
	return err
}

func (r *outboxRepository) MarkFailed(ctx context.Context, eventID string) error {
	const query = `UPDATE order_events SET status='PENDING' WHERE id=$1`
	_, err := r.storage.pool.Exec(ctx, query, eventID)
	return err
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
