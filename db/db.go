package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/getAlby/satshop.go/lib/service"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
	sqltrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/database/sql"
)

// Open connects to the configured Postgres database and applies the pool
// limits from the service config. Invoice and token state both live here,
// there is no secondary store.
func Open(config *service.Config) (*bun.DB, error) {
	dsn := config.DatabaseUri
	switch {
	case strings.HasPrefix(dsn, "postgres://"),
		strings.HasPrefix(dsn, "postgresql://"),
		strings.HasPrefix(dsn, "unix://"):
	default:
		return nil, fmt.Errorf("unsupported database connection string %q, only (postgres|postgresql|unix):// works", dsn)
	}

	connector := pgdriver.NewConnector(
		pgdriver.WithDSN(dsn),
		pgdriver.WithApplicationName("satshop"),
	)

	var sqlDB *sql.DB
	if config.DatadogAgentUrl != "" {
		// when Datadog is configured, sql traces go there too
		sqltrace.Register("postgres", pgdriver.Driver{}, sqltrace.WithServiceName("satshop.go"))
		sqlDB = sqltrace.OpenDB(connector)
	} else {
		sqlDB = sql.OpenDB(connector)
	}

	bunDB := bun.NewDB(sqlDB, pgdialect.New())
	bunDB.SetMaxOpenConns(config.DatabaseMaxConns)
	bunDB.SetMaxIdleConns(config.DatabaseMaxIdleConns)
	bunDB.SetConnMaxLifetime(time.Duration(config.DatabaseConnMaxLifetime) * time.Second)

	// off by default, BUNDEBUG=1 logs failed queries, BUNDEBUG=2 logs all
	bunDB.AddQueryHook(bundebug.NewQueryHook(
		bundebug.WithEnabled(false),
		bundebug.FromEnv("BUNDEBUG"),
	))

	return bunDB, nil
}
