package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// InitSchema creates all necessary tables and indexes.
// Note: WAL mode is configured in db.go.
func InitSchema(db *sql.DB) error {
	if err := createDailyVisitsTable(db); err != nil {
		return err
	}
	if err := createHourlyVisitsTable(db); err != nil {
		return err
	}
	if err := createEndpointVisitsTable(db); err != nil {
		return err
	}
	if err := createSkillUsageTable(db); err != nil {
		return err
	}
	if err := createVisitorsTable(db); err != nil {
		return err
	}
	return createUserAgentsTable(db)
}

func createDailyVisitsTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS daily_visits (
		day TEXT PRIMARY KEY,
		count INTEGER NOT NULL DEFAULT 0
	);
	`
	if _, err := db.ExecContext(context.Background(), query); err != nil {
		return fmt.Errorf("failed to create daily_visits table: %w", err)
	}
	return nil
}

func createHourlyVisitsTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS hourly_visits (
		hour INTEGER PRIMARY KEY,
		count INTEGER NOT NULL DEFAULT 0
	);
	`
	if _, err := db.ExecContext(context.Background(), query); err != nil {
		return fmt.Errorf("failed to create hourly_visits table: %w", err)
	}
	return nil
}

func createEndpointVisitsTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS endpoint_visits (
		endpoint TEXT PRIMARY KEY,
		count INTEGER NOT NULL DEFAULT 0
	);
	`
	if _, err := db.ExecContext(context.Background(), query); err != nil {
		return fmt.Errorf("failed to create endpoint_visits table: %w", err)
	}
	return nil
}

func createSkillUsageTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS skill_usage (
		skill TEXT PRIMARY KEY,
		count INTEGER NOT NULL DEFAULT 0,
		last_confidence REAL NOT NULL DEFAULT 0
	);
	`
	if _, err := db.ExecContext(context.Background(), query); err != nil {
		return fmt.Errorf("failed to create skill_usage table: %w", err)
	}
	return nil
}

func createVisitorsTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS visitors (
		client_ip TEXT PRIMARY KEY,
		last_seen INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_visitors_last_seen ON visitors(last_seen);
	`
	if _, err := db.ExecContext(context.Background(), query); err != nil {
		return fmt.Errorf("failed to create visitors table: %w", err)
	}
	return nil
}

func createUserAgentsTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS user_agents (
		agent TEXT PRIMARY KEY,
		count INTEGER NOT NULL DEFAULT 0
	);
	`
	if _, err := db.ExecContext(context.Background(), query); err != nil {
		return fmt.Errorf("failed to create user_agents table: %w", err)
	}
	return nil
}
