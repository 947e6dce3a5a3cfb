package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"go.uber.org/zap"

	"github.com/TemirB/springbucks-customer/internal/config"
	"github.com/TemirB/springbucks-customer/internal/domain"
)

// Journal is an append-only record of what this customer placed and what
// happened when the barista notified it. Nothing reads it to make decisions
// except the waiting registry on startup.
type Journal interface {
	EnsureSchema(ctx context.Context) error
	RecordPlaced(ctx context.Context, o *domain.Order) error
	RecordPickup(ctx context.Context, id int64, observed domain.OrderState, outcome string, taken bool) error
	PendingOrders(ctx context.Context, limit int) ([]domain.Order, error)
}

var (
	_ Journal = (*Repo)(nil)
	_ Journal = Noop{}
)

type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type Repo struct {
	db     db
	tables config.Tables
	now    func() time.Time
}

func New(pool *pgxpool.Pool, t config.Tables) *Repo {
	return &Repo{db: pool, tables: t, now: time.Now}
}

// Connect opens a pool whose queries are logged through logger.
func Connect(ctx context.Context, dsn string, logger *zap.Logger) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("journal: parse dsn: %w", err)
	}
	level := tracelog.LogLevelWarn
	if logger.Core().Enabled(zap.DebugLevel) {
		level = tracelog.LogLevelDebug
	}
	cfg.ConnConfig.Tracer = &tracelog.TraceLog{
		Logger:   newZapTracer(logger),
		LogLevel: level,
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("journal: open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("journal: ping: %w", err)
	}
	return pool, nil
}

func (r *Repo) qt(tbl string) string { return fmt.Sprintf(`"%s"."%s"`, r.tables.Schema, tbl) }

func (r *Repo) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS "%s"`, r.tables.Schema),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
			  order_id   BIGINT PRIMARY KEY,
			  customer   TEXT NOT NULL,
			  items      TEXT[] NOT NULL DEFAULT '{}',
			  state      TEXT NOT NULL,
			  placed_at  TIMESTAMPTZ NOT NULL
			)`, r.qt(r.tables.Placed)),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
			  id             BIGSERIAL PRIMARY KEY,
			  order_id       BIGINT NOT NULL,
			  observed_state TEXT NOT NULL,
			  outcome        TEXT NOT NULL,
			  taken          BOOLEAN NOT NULL,
			  noted_at       TIMESTAMPTZ NOT NULL
			)`, r.qt(r.tables.Pickup)),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS "%s_order_id_idx" ON %s (order_id)`,
			r.tables.Pickup, r.qt(r.tables.Pickup)),
	}
	for _, s := range stmts {
		if _, err := r.db.Exec(ctx, s); err != nil {
			return fmt.Errorf("journal: ensure schema: %w", err)
		}
	}
	return nil
}

func (r *Repo) RecordPlaced(ctx context.Context, o *domain.Order) error {
	items := make([]string, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, it.Name)
	}
	placedAt := o.CreateTime
	if placedAt.IsZero() {
		placedAt = r.now()
	}

	_, err := r.db.Exec(ctx, fmt.Sprintf(`
		INSERT INTO %s (order_id, customer, items, state, placed_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (order_id) DO UPDATE SET state=EXCLUDED.state
	`, r.qt(r.tables.Placed)),
		o.ID, o.Customer, items, string(o.State), placedAt,
	)
	if err != nil {
		return fmt.Errorf("journal: record placed %d: %w", o.ID, err)
	}
	return nil
}

func (r *Repo) RecordPickup(ctx context.Context, id int64, observed domain.OrderState, outcome string, taken bool) error {
	_, err := r.db.Exec(ctx, fmt.Sprintf(`
		INSERT INTO %s (order_id, observed_state, outcome, taken, noted_at)
		VALUES ($1,$2,$3,$4,$5)
	`, r.qt(r.tables.Pickup)),
		id, string(observed), outcome, taken, r.now(),
	)
	if err != nil {
		return fmt.Errorf("journal: record pickup %d: %w", id, err)
	}
	return nil
}

// PendingOrders returns placed orders with no successful pickup, newest first.
func (r *Repo) PendingOrders(ctx context.Context, limit int) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, fmt.Sprintf(`
		SELECT p.order_id, p.customer, p.items, p.state, p.placed_at
		FROM %s p
		WHERE NOT EXISTS (
		  SELECT 1 FROM %s k WHERE k.order_id = p.order_id AND k.taken
		)
		ORDER BY p.placed_at DESC
		LIMIT $1
	`, r.qt(r.tables.Placed), r.qt(r.tables.Pickup)), limit)
	if err != nil {
		return nil, fmt.Errorf("journal: pending orders: %w", err)
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		var (
			o     domain.Order
			items []string
			state string
		)
		if err := rows.Scan(&o.ID, &o.Customer, &items, &state, &o.CreateTime); err != nil {
			return nil, fmt.Errorf("journal: scan pending order: %w", err)
		}
		o.State = domain.OrderState(state)
		for _, name := range items {
			o.Items = append(o.Items, domain.MenuItem{Name: name})
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
