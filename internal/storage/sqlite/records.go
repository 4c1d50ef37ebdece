package sqlite

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

const recordColumns = "id, habit_id, completed_at, duration_min, note"

func scanRecord(row scanner) (models.HabitRecord, error) {
	var r models.HabitRecord
	var completedAt string
	if err := row.Scan(&r.ID, &r.HabitID, &completedAt, &r.DurationMin, &r.Note); err != nil {
		return models.HabitRecord{}, err
	}
	t, err := parseTime(completedAt, "completed_at")
	if err != nil {
		return models.HabitRecord{}, err
	}
	r.CompletedAt = t
	return r, nil
}

func (s *Store) AddRecord(record models.HabitRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO habit_records (`+recordColumns+`) VALUES (?, ?, ?, ?, ?)`,
		record.ID, record.HabitID, formatTime(record.CompletedAt), record.DurationMin, record.Note)
	if err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
		return storage.NotFound("habit", record.HabitID)
	}
	return storage.Failure("adding record", err)
}

func (s *Store) GetRecord(id string) (models.HabitRecord, error) {
	row := s.db.QueryRow("SELECT "+recordColumns+" FROM habit_records WHERE id = ?", id)
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
		UPDATE habit_records SET completed_at = ?, duration_min = ?, note = ?
		WHERE id = ?`,
		formatTime(record.CompletedAt), record.DurationMin, record.Note, record.ID)
	if err != nil {
		return storage.Failure("updating record", err)
	}
	return requireRow(res, "record", record.ID)
}

func (s *Store) DeleteRecord(id string) error {
	res, err := s.db.Exec("DELETE FROM habit_records WHERE id = ?", id)
	if err != nil {
		return storage.Failure("deleting record", err)
	}
	return requireRow(res, "record", id)
}

func (s *Store) GetRecordsForHabit(habitID string, from, to time.Time) ([]models.HabitRecord, error) {
	return s.queryRecords("habit_id = ?", []any{habitID}, from, to)
}

func (s *Store) GetRecordsInRange(from, to time.Time) ([]models.HabitRecord, error) {
	return s.queryRecords("", nil, from, to)
}

func (s *Store) GetAllRecords() ([]models.HabitRecord, error) {
	return s.queryRecords("", nil, time.Time{}, time.Time{})
}

func (s *Store) queryRecords(cond string, args []any, from, to time.Time) ([]models.HabitRecord, error) {
	var clauses []string
	if cond != "" {
		clauses = append(clauses, cond)
	}
	if !from.IsZero() {
		clauses = append(clauses, "completed_at >= ?")
		args = append(args, formatTime(from))
	}
	if !to.IsZero() {
		clauses = append(clauses, "completed_at < ?")
		args = append(args, formatTime(to))
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
