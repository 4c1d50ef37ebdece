package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

const recordColumns = "id, habit_id, completed_at, duration_min, note"

func scanRecord(row scanner) (models.HabitRecord, error) {
	var r models.HabitRecord
	if err := row.Scan(&r.ID, &r.HabitID, &r.CompletedAt, &r.DurationMin, &r.Note); err != nil {
		return models.HabitRecord{}, err
	}
	return r, nil
}

func (s *Store) AddRecord(record models.HabitRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO habit_records (`+recordColumns+`) VALUES ($1, $2, $3, $4, $5)`,
		record.ID, record.HabitID, record.CompletedAt.UTC(), record.DurationMin, record.Note)
	if pqCode(err) == codeForeignKeyViolation {
		return storage.NotFound("habit", record.HabitID)
	}
	return storage.Failure("adding record", err)
}

func (s *Store) GetRecord(id string) (models.HabitRecord, error) {
	row := s.db.QueryRow("SELECT "+recordColumns+" FROM habit_records WHERE id = $1", id)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.HabitRecord{}, storage.NotFound("record", id)
	}
	if err != nil {
		return models.HabitRecord{}, storage.Failure("reading record", err)
	}
	return r, nil
}

func (s *Store) UpdateRecord(record models.HabitRecord) error {
	res, err := s.db.Exec(`
		UPDATE habit_records SET completed_at = $1, duration_min = $2, note = $3
		WHERE id = $4`,
		record.CompletedAt.UTC(), record.DurationMin, record.Note, record.ID)
	if err != nil {
		return storage.Failure("updating record", err)
	}
	return requireRow(res, "record", record.ID)
}

func (s *Store) DeleteRecord(id string) error {
	res, err := s.db.Exec("DELETE FROM habit_records WHERE id = $1", id)
	if err != nil {
		return storage.Failure("deleting record", err)
	}
	return requireRow(res, "record", id)
}

func (s *Store) GetRecordsForHabit(habitID string, from, to time.Time) ([]models.HabitRecord, error) {
	return s.queryRecords(habitID, from, to)
}

func (s *Store) GetRecordsInRange(from, to time.Time) ([]models.HabitRecord, error) {
	return s.queryRecords("", from, to)
}

func (s *Store) GetAllRecords() ([]models.HabitRecord, error) {
	return s.queryRecords("", time.Time{}, time.Time{})
}

// queryRecords numbers its placeholders as clauses are added.
func (s *Store) queryRecords(habitID string, from, to time.Time) ([]models.HabitRecord, error) {
	var clauses []string
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		clauses = append(clauses, fmt.Sprintf(cond, len(args)))
	}
	if habitID != "" {
		add("habit_id = $%d", habitID)
	}
	if !from.IsZero() {
		add("completed_at >= $%d", from.UTC())
	}
	if !to.IsZero() {
		add("completed_at < $%d", to.UTC())
	}

	query := "SELECT " + recordColumns + " FROM habit_records"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY completed_at, id"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, storage.Failure("listing records", err)
	}
	defer rows.Close()

	var records []models.HabitRecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, storage.Failure("listing records", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.Failure("listing records", err)
	}
	return records, nil
}
