package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is the full database schema. Every statement is idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            SERIAL PRIMARY KEY,
    username      TEXT NOT NULL UNIQUE,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    full_name     TEXT,
    phone         TEXT,
    address       TEXT,
    role          TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'admin')),
    status        TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'inactive')),
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS tools (
    id                  SERIAL PRIMARY KEY,
    owner_id            INTEGER NOT NULL REFERENCES users(id),
    name                TEXT NOT NULL,
    description         TEXT NOT NULL DEFAULT '',
    price_per_day_cents BIGINT NOT NULL CHECK (price_per_day_cents > 0),
    image_url           TEXT NOT NULL DEFAULT '',
    status              TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'inactive')),
    created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_tools_owner ON tools(owner_id);

CREATE TABLE IF NOT EXISTS orders (
    id               SERIAL PRIMARY KEY,
    user_id          INTEGER NOT NULL REFERENCES users(id),
    tool_id          INTEGER NOT NULL REFERENCES tools(id),
    start_date       TIMESTAMPTZ NOT NULL,
    end_date         TIMESTAMPTZ NOT NULL,
    status           TEXT NOT NULL CHECK (status IN ('pending', 'active', 'completed', 'cancelled')),
    delivery_type    TEXT NOT NULL CHECK (delivery_type IN ('pickup', 'delivery')),
    delivery_address TEXT,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CHECK (end_date > start_date),
    CHECK (delivery_type <> 'delivery' OR COALESCE(delivery_address, '') <> '')
);

CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id);

CREATE TABLE IF NOT EXISTS rentals (
    id                  SERIAL PRIMARY KEY,
    order_id            INTEGER NOT NULL UNIQUE REFERENCES orders(id),
    tool_id             INTEGER NOT NULL REFERENCES tools(id),
    renter_id           INTEGER NOT NULL REFERENCES users(id),
    start_date          TIMESTAMPTZ NOT NULL,
    end_date            TIMESTAMPTZ NOT NULL,
    status              TEXT NOT NULL CHECK (status IN ('pending', 'active', 'completed', 'cancelled')),
    price_per_day_cents BIGINT NOT NULL CHECK (price_per_day_cents > 0),
    total_price_cents   BIGINT NOT NULL CHECK (total_price_cents > 0),
    created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CHECK (end_date > start_date)
);

CREATE INDEX IF NOT EXISTS idx_rentals_renter ON rentals(renter_id);
CREATE INDEX IF NOT EXISTS idx_rentals_tool_status ON rentals(tool_id, status);

CREATE TABLE IF NOT EXISTS payments (
    id             SERIAL PRIMARY KEY,
    rental_id      INTEGER NOT NULL REFERENCES rentals(id),
    amount_cents   BIGINT NOT NULL CHECK (amount_cents > 0),
    payment_method TEXT NOT NULL,
    transaction_id TEXT UNIQUE,
    status         TEXT NOT NULL CHECK (status IN ('pending', 'completed', 'failed', 'declined', 'refunded')),
    failure_reason TEXT,
    payment_date   TIMESTAMPTZ,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_payments_one_completed
    ON payments(rental_id) WHERE status = 'completed';

CREATE TABLE IF NOT EXISTS history (
    id         SERIAL PRIMARY KEY,
    user_id    INTEGER NOT NULL REFERENCES users(id),
    order_id   INTEGER NOT NULL REFERENCES orders(id),
    detail     TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_history_order ON history(order_id);

CREATE TABLE IF NOT EXISTS support_requests (
    id         SERIAL PRIMARY KEY,
    user_id    INTEGER REFERENCES users(id),
    type       TEXT NOT NULL DEFAULT 'general',
    message    TEXT NOT NULL,
    status     TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'finished', 'rejected')),
    name       TEXT NOT NULL,
    email      TEXT NOT NULL,
    phone      TEXT,
    address    TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// EnsureSchema creates all tables and indexes that do not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}
