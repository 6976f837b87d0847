// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// It is opt-in: when storage_path is set in the config, the roster is
// mirrored into a single file on disk and reloaded on the next start.
//
// The blank import below registers the sqlite3 driver with database/sql.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aanand-mishra/trainer-roster/internal/config"
	"github.com/aanand-mishra/trainer-roster/internal/storage"
	"github.com/aanand-mishra/trainer-roster/internal/types"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the concrete implementation of storage.Storage.
// A single *sql.DB is safe for concurrent use by multiple goroutines.
type SQLite struct {
	Db *sql.DB
}

// New opens the SQLite database at cfg.StoragePath, creates the
// students table if it does not already exist, and returns a
// ready-to-use *SQLite.
func New(cfg *config.Config) (*SQLite, error) {
	db, err := sql.Open("sqlite3", cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// seq preserves insertion order, which is the roster's display order.
	// Timestamps are stored as unix nanoseconds in UTC.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS students (
			seq            INTEGER PRIMARY KEY AUTOINCREMENT,
			id             TEXT    NOT NULL UNIQUE,
			name           TEXT    NOT NULL,
			email          TEXT    NOT NULL,
			phone          TEXT    NOT NULL,
			avatar         TEXT    NOT NULL DEFAULT '',
			age            INTEGER NOT NULL,
			join_date      INTEGER NOT NULL,
			goal           TEXT    NOT NULL,
			current_weight REAL,
			target_weight  REAL,
			height         REAL,
			last_check_in  INTEGER,
			adherence_rate INTEGER NOT NULL,
			status         TEXT    NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// Close releases the underlying connection pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

// CreateStudent inserts a new row. The id comes from the roster.
func (s *SQLite) CreateStudent(ctx context.Context, st types.Student) error {
	stmt, err := s.Db.PrepareContext(ctx, `
		INSERT INTO students (
			id, name, email, phone, avatar, age, join_date, goal,
			current_weight, target_weight, height, last_check_in,
			adherence_rate, status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("CreateStudent: prepare: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx,
		st.ID, st.Name, st.Email, st.Phone, st.Avatar, st.Age,
		st.JoinDate.UTC().UnixNano(), st.Goal,
		nullFloat(st.CurrentWeight), nullFloat(st.TargetWeight), nullFloat(st.Height),
		nullTime(st.LastCheckIn), st.AdherenceRate, string(st.Status),
	)
	if err != nil {
		return fmt.Errorf("CreateStudent: exec: %w", err)
	}

	return nil
}

// UpdateStudent rewrites every mutable column of an existing row.
// id and join_date are never touched.
func (s *SQLite) UpdateStudent(ctx context.Context, st types.Student) error {
	stmt, err := s.Db.PrepareContext(ctx, `
		UPDATE students SET
			name = ?, email = ?, phone = ?, avatar = ?, age = ?, goal = ?,
			current_weight = ?, target_weight = ?, height = ?, last_check_in = ?,
			adherence_rate = ?, status = ?
		WHERE id = ?`,
	)
	if err != nil {
		return fmt.Errorf("UpdateStudent: prepare: %w", err)
	}
	defer stmt.Close()

	res, err := stmt.ExecContext(ctx,
		st.Name, st.Email, st.Phone, st.Avatar, st.Age, st.Goal,
		nullFloat(st.CurrentWeight), nullFloat(st.TargetWeight), nullFloat(st.Height),
		nullTime(st.LastCheckIn), st.AdherenceRate, string(st.Status),
		st.ID,
	)
	if err != nil {
		return fmt.Errorf("UpdateStudent: exec: %w", err)
	}

	return expectOneRow(res, "UpdateStudent", st.ID)
}

// DeleteStudent removes a student row by id.
func (s *SQLite) DeleteStudent(ctx context.Context, id string) error {
	stmt, err := s.Db.PrepareContext(ctx, "DELETE FROM students WHERE id = ?")
	if err != nil {
		return fmt.Errorf("DeleteStudent: prepare: %w", err)
	}
	defer stmt.Close()

	res, err := stmt.ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("DeleteStudent: exec: %w", err)
	}

	return expectOneRow(res, "DeleteStudent", id)
}

// GetStudents returns all rows in insertion order.
func (s *SQLite) GetStudents(ctx context.Context) ([]types.Student, error) {
	rows, err := s.Db.QueryContext(ctx, `
		SELECT id, name, email, phone, avatar, age, join_date, goal,
		       current_weight, target_weight, height, last_check_in,
		       adherence_rate, status
		FROM students
		ORDER BY seq`,
	)
	if err != nil {
		return nil, fmt.Errorf("GetStudents: query: %w", err)
	}
	defer rows.Close()

	students := make([]types.Student, 0)

	for rows.Next() {
		var (
			st                    types.Student
			joinDate              int64
			current, target, hght sql.NullFloat64
			lastCheckIn           sql.NullInt64
			status                string
		)

		if err := rows.Scan(
			&st.ID, &st.Name, &st.Email, &st.Phone, &st.Avatar, &st.Age,
			&joinDate, &st.Goal,
			&current, &target, &hght, &lastCheckIn,
			&st.AdherenceRate, &status,
		); err != nil {
			return nil, fmt.Errorf("GetStudents: scan row: %w", err)
		}

		st.JoinDate = time.Unix(0, joinDate).UTC()
		st.CurrentWeight = floatPtr(current)
		st.TargetWeight = floatPtr(target)
		st.Height = floatPtr(hght)
		if lastCheckIn.Valid {
			t := time.Unix(0, lastCheckIn.Int64).UTC()
			st.LastCheckIn = &t
		}
		st.Status = types.Status(status)

		students = append(students, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetStudents: rows iteration: %w", err)
	}

	return students, nil
}

func expectOneRow(res sql.Result, op, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %q: %w", op, id, storage.ErrNotFound)
	}
	return nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullTime(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UTC().UnixNano(), Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
