// Package stations persists the fuel stop dataset and serves the
// bounding-box windows the planning pipeline consumes.
package stations

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/haulcost/fuelroute/core/model"
)

// Config locates the station database.
type Config struct {
	Path string `json:"path"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Path == "" {
		c.Path = "fuelstops.db"
	}
}

// Record is a full fuel stop row as ingested from the price feed.
// Coordinates may be absent until the geocoding pass fills them in.
type Record struct {
	OpisID  int64
	Name    string
	Address string
	City    string
	State   string
	RackID  int64
	Price   float64
	Lat     *float64
	Lon     *float64
}

// Address identifies one stop for the geocoding pass.
type Address struct {
	ID     int64
	Street string
	City   string
	State  string
}

// SQLiteStore persists fuel stops in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS fuel_stop (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        opis_id INTEGER NOT NULL,
        name TEXT NOT NULL,
        address TEXT NOT NULL,
        city TEXT NOT NULL,
        state TEXT NOT NULL,
        rack_id INTEGER NOT NULL,
        price REAL,
        lat REAL,
        lon REAL,
        UNIQUE(opis_id, address, city, state)
    );
    CREATE INDEX IF NOT EXISTS idx_fuel_stop_latlon ON fuel_stop(lat, lon);
    CREATE INDEX IF NOT EXISTS idx_fuel_stop_state_city ON fuel_stop(state, city);`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Upsert inserts the record or refreshes price and metadata of an
// existing stop, keyed on (opis_id, address, city, state). It reports
// whether a new row was created. Existing coordinates survive a price
// refresh that carries none.
func (s *SQLiteStore) Upsert(ctx context.Context, r Record) (bool, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM fuel_stop
        WHERE opis_id = ? AND address = ? AND city = ? AND state = ?`,
		r.OpisID, r.Address, r.City, r.State).Scan(&id)
	switch {
	case err == sql.ErrNoRows:
		_, err = s.db.ExecContext(ctx, `INSERT INTO fuel_stop
            (opis_id, name, address, city, state, rack_id, price, lat, lon)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.OpisID, r.Name, r.Address, r.City, r.State, r.RackID, r.Price, r.Lat, r.Lon)
		if err != nil {
			return false, fmt.Errorf("insert fuel stop %d: %w", r.OpisID, err)
		}
		return true, nil
	case err != nil:
		return false, err
	default:
		_, err = s.db.ExecContext(ctx, `UPDATE fuel_stop SET
            name = ?, rack_id = ?, price = ?,
            lat = COALESCE(?, lat), lon = COALESCE(?, lon)
            WHERE id = ?`,
			r.Name, r.RackID, r.Price, r.Lat, r.Lon, id)
		if err != nil {
			return false, fmt.Errorf("update fuel stop %d: %w", r.OpisID, err)
		}
		return false, nil
	}
}

// WithinBox returns geocoded, priced stations inside the bounding box,
// cheapest first, capped at limit.
func (s *SQLiteStore) WithinBox(ctx context.Context, latMin, latMax, lonMin, lonMax float64, limit int) ([]model.Station, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, city, state, lat, lon, price
        FROM fuel_stop
        WHERE lat IS NOT NULL AND lon IS NOT NULL AND price IS NOT NULL
          AND lat BETWEEN ? AND ? AND lon BETWEEN ? AND ?
        ORDER BY price ASC, id ASC
        LIMIT ?`, latMin, latMax, lonMin, lonMax, limit)
	if err != nil {
		return nil, fmt.Errorf("box query: %w", err)
	}
	defer rows.Close()

	var out []model.Station
	for rows.Next() {
		var st model.Station
		var price float64
		if err := rows.Scan(&st.ID, &st.Name, &st.City, &st.State, &st.Lat, &st.Lon, &price); err != nil {
			return nil, err
		}
		st.PricePerGallon = &price
		out = append(out, st)
	}
	return out, rows.Err()
}

// Ungeocoded returns stops that still lack coordinates, oldest rows
// first, capped at limit.
func (s *SQLiteStore) Ungeocoded(ctx context.Context, limit int) ([]Address, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, address, city, state
        FROM fuel_stop
        WHERE lat IS NULL OR lon IS NULL
        ORDER BY id ASC
        LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("ungeocoded query: %w", err)
	}
	defer rows.Close()

	var out []Address
	for rows.Next() {
		var a Address
		if err := rows.Scan(&a.ID, &a.Street, &a.City, &a.State); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// SetCoordinates stores the geocoded position of one stop.
func (s *SQLiteStore) SetCoordinates(ctx context.Context, id int64, lat, lon float64) error {
	_, err := s.db.ExecContext(ctx, `UPDATE fuel_stop SET lat = ?, lon = ? WHERE id = ?`, lat, lon, id)
	if err != nil {
		return fmt.Errorf("set coordinates for stop %d: %w", id, err)
	}
	return nil
}

// Count returns the number of stored fuel stops.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM fuel_stop`).Scan(&n)
	return n, err
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }
