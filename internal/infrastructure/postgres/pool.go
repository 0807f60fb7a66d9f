package postgres

import (
	"context"
	"fmt"
	"net"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Pescaderia-api/pkg/config"
)

const applicationName = "pescaderia-api"

// NewPool abre el pool que comparten los repositorios y el TxRunner.
// Cada pedido retiene una conexión durante toda su transacción, así que MaxConns acota
// cuántos pedidos pueden estar bloqueando filas a la vez.
func NewPool(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}
	configurePool(poolConfig, cfg)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	return pool, nil
}

// configurePool ajusta límites, parámetros de sesión y codecs del pool.
func configurePool(pc *pgxpool.Config, cfg config.DBConfig) {
	maxConns := max(cfg.MaxConns, 1)
	pc.MaxConns = int32(min(maxConns, 1<<15))
	pc.MinConns = min(2, pc.MaxConns)
	pc.MaxConnLifetime = time.Hour
	pc.MaxConnIdleTime = 30 * time.Minute
	pc.HealthCheckPeriod = time.Minute

	pc.ConnConfig.RuntimeParams["application_name"] = applicationName
	// Un SELECT FOR UPDATE que espera más de lock_timeout falla con 55P03 y el TxRunner
	// repite el pedido completo.
	if cfg.LockTimeoutMS > 0 {
		pc.ConnConfig.RuntimeParams["lock_timeout"] = fmt.Sprintf("%dms", cfg.LockTimeoutMS)
	}
	pc.ConnConfig.DialFunc = dialPreferIPv4

	// product_variants.price y order_items usan NUMERIC -> decimal.Decimal.
	pc.AfterConnect = func(_ context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}
}

// dialPreferIPv4 conecta por IPv4 cuando el host tiene una; los contenedores sin red IPv6
// fallan si el resolver entrega primero la AAAA. El nombre original se conserva para TLS.
func dialPreferIPv4(ctx context.Context, network, addr string) (net.Conn, error) {
	d := &net.Dialer{Timeout: 10 * time.Second}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return d.DialContext(ctx, network, addr)
	}
	ip, err := lookupIPv4(ctx, host)
	if err != nil {
		return d.DialContext(ctx, network, addr)
	}
	return d.DialContext(ctx, "tcp4", net.JoinHostPort(ip, port))
}

func lookupIPv4(ctx context.Context, host string) (string, error) {
	if ip := net.ParseIP(host); ip != nil {
		if ip.To4() == nil {
			return "", fmt.Errorf("%s no es IPv4", host)
		}
		return host, nil
	}
	ips, err := net.DefaultResolver.LookupIP(ctx, "ip4", host)
	if err != nil {
		return "", err
	}
	if len(ips) == 0 {
		return "", fmt.Errorf("%s sin dirección IPv4", host)
	}
	return ips[0].String(), nil
}
