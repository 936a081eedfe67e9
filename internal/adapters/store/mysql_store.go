package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

// MySQLStore is a MySQL implementation of the EventStore interface
type MySQLStore struct {
	*sqlStore
}

// NewMySQLStore creates a new MySQL event store
func NewMySQLStore(dsn string, logger *zap.Logger, retention, cleanupFreq time.Duration) (*MySQLStore, error) {
	mysqlCfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid MySQL DSN: %w", err)
	}
	if mysqlCfg.Timeout == 0 {
		mysqlCfg.Timeout = 10 * time.Second
	}

	connector, err := mysql.NewConnector(mysqlCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create MySQL connector: %w", err)
	}
	db := sql.OpenDB(connector)

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	// Create table if it doesn't exist
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS calendar_events (
			id CHAR(36) PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			event_date CHAR(10) NOT NULL,
			owner_email VARCHAR(255) NOT NULL,
			created_at BIGINT NOT NULL,
			INDEX idx_events_owner (owner_email),
			INDEX idx_events_date (event_date)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	logger.Info("Connected to MySQL event store",
		zap.String("addr", mysqlCfg.Addr),
		zap.String("database", mysqlCfg.DBName))

	return &MySQLStore{sqlStore: newSQLStore(db, "mysql", logger, retention, cleanupFreq)}, nil
}
