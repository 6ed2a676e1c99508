package main

import (
	"database/sql"
	"log"
	"os"

	"github.com/NordCoder/Pingwatch/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/pflag"
	_ "modernc.org/sqlite"
)

func main() {
	driver := pflag.String("driver", env("DB_DRIVER", "sqlite"), "postgres or sqlite")
	dsn := pflag.String("dsn", env("DB_DSN", "./data/pingwatch.db"), "postgres DSN or sqlite file path")
	pflag.Parse()

	var sqlDriver, dialect string
	switch *driver {
	case "postgres":
		sqlDriver, dialect = "pgx", migrations.DialectPostgres
	case "sqlite":
		sqlDriver, dialect = "sqlite", migrations.DialectSQLite
	default:
		log.Fatalf("unknown driver %q", *driver)
	}

	db, err := sql.Open(sqlDriver, *dsn)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := migrations.Up(db, dialect); err != nil {
		log.Fatalf("%v", err)
	}
	log.Println("migrations: up OK")
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
