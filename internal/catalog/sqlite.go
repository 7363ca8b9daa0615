package catalog

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteSource reads (and seeds) a catalog stored in SQLite.
//
// Rows come back in position order, which is the catalog order.
type SQLiteSource struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path and applies the schema.
// Use ":memory:" for an isolated in-memory database.
func OpenSQLite(path string) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeDatabase, Message: "open database", Path: path, Err: err}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &LoadError{Code: ErrCodeDatabase, Message: "connect to database", Path: path, Err: err}
	}

	// One connection keeps ":memory:" databases alive across calls.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, &LoadError{Code: ErrCodeDatabase, Message: "apply pragmas", Path: path, Err: err}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, &LoadError{Code: ErrCodeDatabase, Message: "apply schema", Path: path, Err: err}
	}

	return &SQLiteSource{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteSource) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Import replaces the stored catalog with props in a single transaction.
func (s *SQLiteSource) Import(ctx context.Context, props []Property) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &LoadError{Code: ErrCodeDatabase, Message: "begin import", Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM properties"); err != nil {
		return &LoadError{Code: ErrCodeDatabase, Message: "clear properties", Err: err}
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO properties (
			id, position, type, price, bedrooms, date_added, postcode,
			description, location, long_description, tenure, thumbnail,
			images, floor_plan, lat, lng
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return &LoadError{Code: ErrCodeDatabase, Message: "prepare insert", Err: err}
	}
	defer stmt.Close()

	for i, p := range props {
		images, err := json.Marshal(nonNilStrings(p.Images))
		if err != nil {
			return &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("encode images for %s", p.ID), Err: err}
		}

		var lat, lng sql.NullFloat64
		if p.Coordinates != nil {
			lat = sql.NullFloat64{Float64: p.Coordinates.Lat, Valid: true}
			lng = sql.NullFloat64{Float64: p.Coordinates.Lng, Valid: true}
		}

		if _, err := stmt.ExecContext(ctx,
			p.ID, i, p.Type, p.Price, p.Bedrooms, p.DateAdded, p.Postcode,
			p.Description, p.Location, p.LongDescription, p.Tenure, p.Thumbnail,
			string(images), p.FloorPlan, lat, lng,
		); err != nil {
			return &LoadError{Code: ErrCodeDatabase, Message: fmt.Sprintf("insert property %s", p.ID), Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &LoadError{Code: ErrCodeDatabase, Message: "commit import", Err: err}
	}
	return nil
}

// Properties reads the stored catalog in position order.
func (s *SQLiteSource) Properties(ctx context.Context) ([]Property, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, price, bedrooms, date_added, postcode,
		       description, location, long_description, tenure, thumbnail,
		       images, floor_plan, lat, lng
		FROM properties
		ORDER BY position, id`)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeDatabase, Message: "query properties", Err: err}
	}
	defer rows.Close()

	props := []Property{}
	for rows.Next() {
		var (
			p        Property
			images   string
			lat, lng sql.NullFloat64
		)
		if err := rows.Scan(
			&p.ID, &p.Type, &p.Price, &p.Bedrooms, &p.DateAdded, &p.Postcode,
			&p.Description, &p.Location, &p.LongDescription, &p.Tenure, &p.Thumbnail,
			&images, &p.FloorPlan, &lat, &lng,
		); err != nil {
			return nil, &LoadError{Code: ErrCodeDatabase, Message: "scan property", Err: err}
		}
		if images != "" && images != "[]" {
			if err := json.Unmarshal([]byte(images), &p.Images); err != nil {
				return nil, &LoadError{Code: ErrCodeDecode, Message: fmt.Sprintf("decode images for %s", p.ID), Err: err}
			}
		}
		if lat.Valid && lng.Valid {
			p.Coordinates = &Coordinates{Lat: lat.Float64, Lng: lng.Float64}
		}
		props = append(props, p)
	}
	if err := rows.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeDatabase, Message: "iterate properties", Err: err}
	}
	return props, nil
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
