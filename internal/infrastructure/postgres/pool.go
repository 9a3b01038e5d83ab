package postgres

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/jackc/pgx/v5"
	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/margenes-api/pkg/config"
)

// NewPool crea el pool de conexiones PostgreSQL del motor. Usa DATABASE_URL si
// está definido y, si no, el DSN armado desde DB_HOST, DB_PORT, etc.
// Registra el codec de shopspring/decimal en cada conexión para que las
// columnas NUMERIC de costos y montos lleguen sin pérdida de precisión.
func NewPool(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	// Preferir IPv4 en el dial; en contenedores sin IPv6 el resolver puede
	// devolver solo AAAA y el dial por defecto falla.
	poolCfg.ConnConfig.DialFunc = dialPreferIPv4

	poolCfg.MaxConns = 25
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute
	poolCfg.HealthCheckPeriod = time.Minute

	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	return pool, nil
}

// dialPreferIPv4 intenta la conexión por tcp4 y, si el host no tiene IPv4,
// cae al dial normal.
func dialPreferIPv4(ctx context.Context, network, addr string) (net.Conn, error) {
	dialer := &net.Dialer{}
	if conn, err := dialer.DialContext(ctx, "tcp4", addr); err == nil {
		return conn, nil
	}
	return dialer.DialContext(ctx, network, addr)
}
