package gameserver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type PlayerStats struct {
	Player           string  `json:"player"`
	Wins             int     `json:"wins"`
	Losses           int     `json:"losses"`
	DistanceTraveled float64 `json:"distance_traveled"`
	TimeUsed         string  `json:"time_used"`
}

type StatsStore struct {
	db *sql.DB
}

func NewStatsStore(db *sql.DB) *StatsStore {
	return &StatsStore{db: db}
}

// RecordWin counts a win and stores the time used by the winning game as H:MM.
func (s *StatsStore) RecordWin(ctx context.Context, player string, minutesUsed, distance float64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO player_stats (player_name, wins, distance_traveled, time_used)
		VALUES (?, 1, ?, ?)
		ON CONFLICT (player_name) DO UPDATE SET
			wins = wins + 1,
			distance_traveled = distance_traveled + excluded.distance_traveled,
			time_used = excluded.time_used,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
	`, player, distance, formatMinutes(minutesUsed))
	if err != nil {
		return fmt.Errorf("recording win for %s: %w", player, err)
	}
	return nil
}

func (s *StatsStore) RecordLoss(ctx context.Context, player string, distance float64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO player_stats (player_name, losses, distance_traveled)
		VALUES (?, 1, ?)
		ON CONFLICT (player_name) DO UPDATE SET
			losses = losses + 1,
			distance_traveled = distance_traveled + excluded.distance_traveled,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
	`, player, distance)
	if err != nil {
		return fmt.Errorf("recording loss for %s: %w", player, err)
	}
	return nil
}

func (s *StatsStore) Get(ctx context.Context, player string) (PlayerStats, error) {
	st := PlayerStats{Player: player}
	err := s.db.QueryRowContext(ctx, `
		SELECT wins, losses, distance_traveled, time_used
		FROM player_stats
		WHERE player_name = ?
	`, player).Scan(&st.Wins, &st.Losses, &st.DistanceTraveled, &st.TimeUsed)
	if errors.Is(err, sql.ErrNoRows) {
		return st, ErrNoStats
	}
	if err != nil {
		return st, fmt.Errorf("querying stats for %s: %w", player, err)
	}
	return st, nil
}

func formatMinutes(minutes float64) string {
	m := int(minutes)
	return fmt.Sprintf("%d:%02d", m/60, m%60)
}
