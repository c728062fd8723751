// Package sqlite persists gateway configs and payment requests. Values are
// stored as handed over; callers encrypt them first.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jcmexdev/ecommerce-promotions/internal/payment-service/domain"
	"github.com/jcmexdev/ecommerce-promotions/internal/pkg/sqlitedb"
)

const schema = `
CREATE TABLE IF NOT EXISTS gateway_configs (
    name         TEXT PRIMARY KEY,
    factory_name TEXT NOT NULL DEFAULT '',
    config       TEXT NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS payment_requests (
    id            TEXT PRIMARY KEY,
    order_number  TEXT    NOT NULL,
    gateway_name  TEXT    NOT NULL,
    action        TEXT    NOT NULL,
    state         TEXT    NOT NULL,
    amount        INTEGER NOT NULL DEFAULT 0,
    currency_code TEXT    NOT NULL DEFAULT '',
    payload       TEXT,
    response_data TEXT,
    created_at    TEXT    NOT NULL,
    updated_at    TEXT    NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_payment_requests_order ON payment_requests(order_number, created_at);
`

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sqlitedb.Open(path, schema)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) SaveGatewayConfig(ctx context.Context, cfg *domain.GatewayConfig) error {
	config, err := json.Marshal(cfg.Config)
	if err != nil {
		return fmt.Errorf("sqlite: encode gateway config %s: %w", cfg.Name, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO gateway_configs (name, factory_name, config) VALUES (?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET factory_name = excluded.factory_name, config = excluded.config`,
		cfg.Name, cfg.FactoryName, string(config),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save gateway config %s: %w", cfg.Name, err)
	}
	return nil
}

func (s *Store) GatewayConfig(ctx context.Context, name string) (*domain.GatewayConfig, error) {
	var (
		cfg    = domain.GatewayConfig{Name: name}
		config string
	)
	err := s.db.QueryRowContext(ctx, `SELECT factory_name, config FROM gateway_configs WHERE name = ?`, name).
		Scan(&cfg.FactoryName, &config)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("gateway config %s: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get gateway config %s: %w", name, err)
	}
	if err := json.Unmarshal([]byte(config), &cfg.Config); err != nil {
		return nil, fmt.Errorf("sqlite: decode gateway config %s: %w", name, err)
	}
	return &cfg, nil
}

func (s *Store) SavePaymentRequest(ctx context.Context, req *domain.PaymentRequest) error {
	payload, err := marshalNullable(req.Payload)
	if err != nil {
		return fmt.Errorf("sqlite: encode payment request %s payload: %w", req.ID, err)
	}
	var response any
	if req.ResponseData != nil {
		if response, err = marshalNullable(req.ResponseData); err != nil {
			return fmt.Errorf("sqlite: encode payment request %s response: %w", req.ID, err)
		}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO payment_requests
		    (id, order_number, gateway_name, action, state, amount, currency_code, payload, response_data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
		    state = excluded.state,
		    payload = excluded.payload,
		    response_data = excluded.response_data,
		    updated_at = excluded.updated_at`,
		req.ID, req.OrderNumber, req.GatewayName, string(req.Action), string(req.State),
		req.Amount, req.CurrencyCode, payload, response,
		sqlitedb.FormatTime(req.CreatedAt), sqlitedb.FormatTime(req.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save payment request %s: %w", req.ID, err)
	}
	return nil
}

const paymentRequestColumns = `id, order_number, gateway_name, action, state, amount, currency_code, payload, response_data, created_at, updated_at`

func (s *Store) PaymentRequest(ctx context.Context, id string) (*domain.PaymentRequest, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+paymentRequestColumns+` FROM payment_requests WHERE id = ?`, id)
	req, err := scanPaymentRequest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("payment request %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get payment request %s: %w", id, err)
	}
	return req, nil
}

// PaymentRequestsForOrder returns the requests of an order, oldest first.
func (s *Store) PaymentRequestsForOrder(ctx context.Context, orderNumber string) ([]*domain.PaymentRequest, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+paymentRequestColumns+` FROM payment_requests WHERE order_number = ? ORDER BY created_at, id`, orderNumber)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list payment requests for %s: %w", orderNumber, err)
	}
	defer rows.Close()

	var out []*domain.PaymentRequest
	for rows.Next() {
		req, err := scanPaymentRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scan payment request: %w", err)
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPaymentRequest(row scanner) (*domain.PaymentRequest, error) {
	var (
		req                  domain.PaymentRequest
		action, state        string
		payload, response    sql.NullString
		createdAt, updatedAt string
	)
	if err := row.Scan(&req.ID, &req.OrderNumber, &req.GatewayName, &action, &state,
		&req.Amount, &req.CurrencyCode, &payload, &response, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	req.Action = domain.PaymentRequestAction(action)
	req.State = domain.PaymentRequestState(state)

	if payload.Valid {
		if err := json.Unmarshal([]byte(payload.String), &req.Payload); err != nil {
			return nil, fmt.Errorf("decode payload: %w", err)
		}
	}
	if response.Valid {
		if err := json.Unmarshal([]byte(response.String), &req.ResponseData); err != nil {
			return nil, fmt.Errorf("decode response data: %w", err)
		}
	}

	var err error
	if req.CreatedAt, err = sqlitedb.ParseTime(createdAt); err != nil {
		return nil, err
	}
	if req.UpdatedAt, err = sqlitedb.ParseTime(updatedAt); err != nil {
		return nil, err
	}
	return &req, nil
}

func marshalNullable(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
