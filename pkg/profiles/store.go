// Package profiles is a sqlite-backed store of canonical candidate rows.
// It backs match-result enrichment and the stats endpoint; the vector
// indices stay the source of truth for search.
package profiles

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/crewmatchco/crewmatch/pkg/candidate"
)

// Store persists candidate profiles in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens (and migrates) a profile store. dbPath can be a file path
// or ":memory:".
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS profiles (
		employee_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		location TEXT NOT NULL,
		experience_years REAL NOT NULL,
		current_role TEXT NOT NULL,
		skills TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_profiles_location ON profiles(location);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Save upserts candidate rows keyed by employee ID.
func (s *Store) Save(ctx context.Context, records []*candidate.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO profiles (employee_id, name, location, experience_years, current_role, skills, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(employee_id) DO UPDATE SET
			name = excluded.name,
			location = excluded.location,
			experience_years = excluded.experience_years,
			current_role = excluded.current_role,
			skills = excluded.skills,
			updated_at = CURRENT_TIMESTAMP`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		_, err := stmt.ExecContext(ctx,
			rec.EmployeeID, rec.Name, rec.Location,
			rec.ExperienceYears, rec.CurrentRole, rec.SkillsText())
		if err != nil {
			return fmt.Errorf("upserting %s: %w", rec.EmployeeID, err)
		}
	}

	return tx.Commit()
}

// Lookup resolves employee IDs to candidate records. Unknown IDs are
// simply absent from the result map.
func (s *Store) Lookup(ctx context.Context, ids []string) (map[string]*candidate.Record, error) {
	if len(ids) == 0 {
		return map[string]*candidate.Record{}, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT employee_id, name, location, experience_years, current_role, skills
		 FROM profiles WHERE employee_id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying profiles: %w", err)
	}
	defer rows.Close()

	found := make(map[string]*candidate.Record, len(ids))
	for rows.Next() {
		var rec candidate.Record
		var skillsText string
		if err := rows.Scan(&rec.EmployeeID, &rec.Name, &rec.Location,
			&rec.ExperienceYears, &rec.CurrentRole, &skillsText); err != nil {
			return nil, fmt.Errorf("scanning profile: %w", err)
		}
		rec.Skills = candidate.ParseSkills(skillsText)
		found[rec.EmployeeID] = &rec
	}

	return found, rows.Err()
}

// Stats summarizes the stored profiles.
type Stats struct {
	TotalCandidates int            `json:"total_candidates"`
	ByLocation      map[string]int `json:"location_distribution"`
	ByExperience    map[string]int `json:"experience_distribution"`
	TopRoles        []RoleCount    `json:"top_roles"`
}

// RoleCount is one role's frequency.
type RoleCount struct {
	Role  string `json:"role"`
	Count int    `json:"count"`
}

// Stats computes the candidate database statistics served by the API.
// Experience bands mirror the search filter's junior/mid/senior cuts.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		ByLocation:   map[string]int{},
		ByExperience: map[string]int{},
	}

	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM profiles`).Scan(&stats.TotalCandidates); err != nil {
		return nil, fmt.Errorf("counting profiles: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT location, COUNT(*) FROM profiles GROUP BY location`)
	if err != nil {
		return nil, fmt.Errorf("querying locations: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var loc string
		var n int
		if err := rows.Scan(&loc, &n); err != nil {
			return nil, err
		}
		stats.ByLocation[loc] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	bandRows, err := s.db.QueryContext(ctx, `
		SELECT CASE
			WHEN experience_years <= 2 THEN 'junior'
			WHEN experience_years < 5 THEN 'mid'
			ELSE 'senior'
		END AS band, COUNT(*)
		FROM profiles GROUP BY band`)
	if err != nil {
		return nil, fmt.Errorf("querying experience bands: %w", err)
	}
	defer bandRows.Close()
	for bandRows.Next() {
		var band string
		var n int
		if err := bandRows.Scan(&band, &n); err != nil {
			return nil, err
		}
		stats.ByExperience[band] = n
	}
	if err := bandRows.Err(); err != nil {
		return nil, err
	}

	roleRows, err := s.db.QueryContext(ctx, `
		SELECT current_role, COUNT(*) AS n FROM profiles
		GROUP BY current_role ORDER BY n DESC, current_role ASC LIMIT 10`)
	if err != nil {
		return nil, fmt.Errorf("querying roles: %w", err)
	}
	defer roleRows.Close()
	for roleRows.Next() {
		var rc RoleCount
		if err := roleRows.Scan(&rc.Role, &rc.Count); err != nil {
			return nil, err
		}
		stats.TopRoles = append(stats.TopRoles, rc)
	}

	return stats, roleRows.Err()
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
