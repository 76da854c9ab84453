// Package storage provides SQLite-based persistence for crab feedings.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/crabmix/internal/games/crabmix"
)

// Store manages the SQLite database connection for feeding persistence.
type Store struct {
	db *sql.DB
}

// FeedingEntry is a single recorded meal.
type FeedingEntry struct {
	ID          string // UUID
	Player      string
	Session     string
	BlueprintID string
	Craving     string // "r,g,b"
	Fed         string // "r,g,b"
	Distance    float64
	Points      int
	Mood        string
	CreatedAt   time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS feedings (
			id TEXT PRIMARY KEY,
			player TEXT NOT NULL,
			session_id TEXT NOT NULL DEFAULT '',
			blueprint_id TEXT NOT NULL,
			craving TEXT NOT NULL,
			fed TEXT NOT NULL,
			distance REAL NOT NULL,
			points INTEGER NOT NULL,
			mood TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_feedings_blueprint ON feedings(blueprint_id);
		CREATE INDEX IF NOT EXISTS idx_feedings_top ON feedings(blueprint_id, points DESC);
		CREATE INDEX IF NOT EXISTS idx_feedings_player ON feedings(player);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// AddFeeding records a meal and returns its generated ID.
func (s *Store) AddFeeding(e FeedingEntry) (string, error) {
	if e.BlueprintID == "" {
		return "", errors.New("storage: feeding without blueprint id")
	}
	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO feedings
		 (id, player, session_id, blueprint_id, craving, fed, distance, points, mood)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, e.Player, e.Session, e.BlueprintID, e.Craving, e.Fed, e.Distance, e.Points, e.Mood,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save feeding: %w", err)
	}
	return id, nil
}

// SaveFeeding implements crabmix.FeedingSaver.
func (s *Store) SaveFeeding(rec crabmix.FeedingRecord) error {
	_, err := s.AddFeeding(FeedingEntry{
		Player:      rec.Player,
		Session:     rec.Session,
		BlueprintID: rec.BlueprintID,
		Craving:     rec.Craving.Triple(),
		Fed:         rec.Fed.Triple(),
		Distance:    rec.Distance,
		Points:      rec.Points,
		Mood:        rec.Mood,
	})
	return err
}

// Ensure Store implements FeedingSaver
var _ crabmix.FeedingSaver = (*Store)(nil)

const feedingColumns = `id, player, session_id, blueprint_id, craving, fed, distance, points, mood, created_at`

// TopFeedings retrieves the best N meals for a blueprint.
// Results are ordered by points descending, earliest first on ties.
func (s *Store) TopFeedings(blueprintID string, limit int) ([]FeedingEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT `+feedingColumns+`
		 FROM feedings
		 WHERE blueprint_id = ?
		 ORDER BY points DESC, rowid ASC
		 LIMIT ?`,
		blueprintID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query feedings: %w", err)
	}
	return scanFeedings(rows)
}

// RecentFeedings retrieves a player's latest meals across all blueprints.
func (s *Store) RecentFeedings(player string, limit int) ([]FeedingEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+feedingColumns+`
		 FROM feedings
		 WHERE player = ?
		 ORDER BY rowid DESC
		 LIMIT ?`,
		player, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query player feedings: %w", err)
	}
	return scanFeedings(rows)
}

// FeedingByID retrieves one meal. Returns nil if it does not exist.
func (s *Store) FeedingByID(id string) (*FeedingEntry, error) {
	rows, err := s.db.Query(`SELECT `+feedingColumns+` FROM feedings WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query feeding: %w", err)
	}
	entries, err := scanFeedings(rows)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

// ClearFeedings deletes all meals for the given blueprint.
func (s *Store) ClearFeedings(blueprintID string) error {
	_, err := s.db.Exec("DELETE FROM feedings WHERE blueprint_id = ?", blueprintID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear feedings: %w", err)
	}
	return nil
}

func scanFeedings(rows *sql.Rows) ([]FeedingEntry, error) {
	defer rows.Close()

	var entries []FeedingEntry
	for rows.Next() {
		var e FeedingEntry
		var createdAt any
		if err := rows.Scan(
			&e.ID,
			&e.Player,
			&e.Session,
			&e.BlueprintID,
			&e.Craving,
			&e.Fed,
			&e.Distance,
			&e.Points,
			&e.Mood,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// BlueprintStats contains aggregated statistics for a blueprint.
type BlueprintStats struct {
	BlueprintID string
	Feedings    int
	BestPoints  int
	AvgPoints   float64
	TotalPoints int64
	Delighted   int
	LastPlayed  time.Time
}

// GetBlueprintStats retrieves aggregated statistics for one blueprint.
func (s *Store) GetBlueprintStats(blueprintID string) (*BlueprintStats, error) {
	stats := &BlueprintStats{BlueprintID: blueprintID}

	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(points), 0), COALESCE(AVG(points), 0), COALESCE(SUM(points), 0),
		        COALESCE(SUM(CASE WHEN mood = 'delighted' THEN 1 ELSE 0 END), 0), MAX(created_at)
		 FROM feedings WHERE blueprint_id = ?`,
		blueprintID,
	).Scan(&stats.Feedings, &stats.BestPoints, &stats.AvgPoints, &stats.TotalPoints, &stats.Delighted, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get blueprint stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	return stats, nil
}

// GetAllBlueprintStats retrieves statistics for every blueprint played.
func (s *Store) GetAllBlueprintStats() (map[string]*BlueprintStats, error) {
	rows, err := s.db.Query(
		`SELECT blueprint_id, COUNT(*), MAX(points), AVG(points), SUM(points),
		        SUM(CASE WHEN mood = 'delighted' THEN 1 ELSE 0 END), MAX(created_at)
		 FROM feedings
		 GROUP BY blueprint_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all blueprint stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*BlueprintStats)
	for rows.Next() {
		var st BlueprintStats
		var lastPlayed any
		if err := rows.Scan(&st.BlueprintID, &st.Feedings, &st.BestPoints, &st.AvgPoints, &st.TotalPoints, &st.Delighted, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = parseTime(lastPlayed)
		stats[st.BlueprintID] = &st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}
