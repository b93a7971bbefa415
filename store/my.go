package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"accessbench/bench"

	"github.com/go-sql-driver/mysql"
)

func MySQLDSN(c bench.ConnConfig) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&allowCleartextPasswords=true&timeout=30s",
		c.User, c.Password, c.Host, c.Port, c.Database)
}

// ConnectMySQL opens dsn with parseTime forced on, since rows carry
// DATETIME columns scanned into time.Time.
func ConnectMySQL(ctx context.Context, dsn string) (*sql.DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("mysql connector: %w", err)
	}
	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return db, nil
}
