// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog persists a record of completed conversions in a local
// SQLite database. The catalog is opt-in: conversion itself never touches it
// unless the caller opens a store and records the result.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Entry is one cataloged conversion, keyed by input path. Re-converting the
// same input replaces its entry.
type Entry struct {
	InputPath   string    `json:"input_path"`
	OutputPath  string    `json:"output_path"`
	Title       string    `json:"title"`
	Turns       int       `json:"turns"`
	ConvertedAt time.Time `json:"converted_at"`
}

// Store manages the catalog SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the catalog database at path, creating the schema
// and any missing parent directories.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating catalog directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating catalog schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS conversions (
		input_path   TEXT PRIMARY KEY,
		output_path  TEXT NOT NULL,
		title        TEXT,
		turns        INTEGER NOT NULL,
		converted_at TEXT NOT NULL
	)`)
	return err
}

// Record upserts one conversion entry.
func (s *Store) Record(ctx context.Context, e Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO conversions (input_path, output_path, title, turns, converted_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(input_path) DO UPDATE SET
		   output_path = excluded.output_path,
		   title       = excluded.title,
		   turns       = excluded.turns,
		   converted_at = excluded.converted_at`,
		e.InputPath, e.OutputPath, e.Title, e.Turns, e.ConvertedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("recording conversion for %s: %w", e.InputPath, err)
	}
	return nil
}

// List returns all cataloged conversions, most recent first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT input_path, output_path, title, turns, converted_at
		 FROM conversions ORDER BY converted_at DESC, input_path`)
	if err != nil {
		return nil, fmt.Errorf("listing conversions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var ts string
		if err := rows.Scan(&e.InputPath, &e.OutputPath, &e.Title, &e.Turns, &ts); err != nil {
			return nil, fmt.Errorf("scanning conversion row: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			e.ConvertedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
