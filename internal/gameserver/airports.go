package gameserver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type Airport struct {
	Ident     string  `json:"ident"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// AirportStore reads the playable airports: medium and large airports in
// Finland.
type AirportStore struct {
	db *sql.DB
}

func NewAirportStore(db *sql.DB) *AirportStore {
	return &AirportStore{db: db}
}

func (s *AirportStore) List(ctx context.Context) ([]Airport, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ident, name, latitude_deg, longitude_deg
		FROM airports
		WHERE iso_country = 'FI' AND type IN ('medium_airport', 'large_airport')
		ORDER BY ident
	`)
	if err != nil {
		return nil, fmt.Errorf("querying airports: %w", err)
	}
	defer rows.Close()

	var airports []Airport
	for rows.Next() {
		var a Airport
		if err := rows.Scan(&a.Ident, &a.Name, &a.Latitude, &a.Longitude); err != nil {
			return nil, fmt.Errorf("scanning airport: %w", err)
		}
		airports = append(airports, a)
	}
	return airports, rows.Err()
}

func (s *AirportStore) Get(ctx context.Context, ident string) (Airport, error) {
	var a Airport
	err := s.db.QueryRowContext(ctx, `
		SELECT ident, name, latitude_deg, longitude_deg
		FROM airports
		WHERE ident = ? AND iso_country = 'FI' AND type IN ('medium_airport', 'large_airport')
	`, ident).Scan(&a.Ident, &a.Name, &a.Latitude, &a.Longitude)
	if errors.Is(err, sql.ErrNoRows) {
		return a, ErrUnknownAirport
	}
	if err != nil {
		return a, fmt.Errorf("querying airport %s: %w", ident, err)
	}
	return a, nil
}
