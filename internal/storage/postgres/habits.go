package postgres

import (
	"database/sql"
	"errors"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

const habitColumns = `id, title, category, created_at, recurrence_type,
	recurrence_interval_days, recurrence_weekdays, goal_minutes, archived_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanHabit(row scanner) (models.Habit, error) {
	var h models.Habit
	var category, recurrenceType, weekdays string
	var goal sql.NullInt64
	var archivedAt sql.NullTime

	err := row.Scan(&h.ID, &h.Title, &category, &h.CreatedAt, &recurrenceType,
		&h.Recurrence.IntervalDays, &weekdays, &goal, &archivedAt)
	if err != nil {
		return models.Habit{}, err
	}

	h.Category = models.Category(category)
	h.Recurrence.Type = constants.RecurrenceType(recurrenceType)
	if h.Recurrence.Weekdays, err = storage.DecodeWeekdays(weekdays); err != nil {
		return models.Habit{}, err
	}
	if goal.Valid {
		g := int(goal.Int64)
		h.GoalMinutes = &g
	}
	h.ArchivedAt = fromNullTime(archivedAt)
	return h, nil
}

func goalValue(goal *int) sql.NullInt64 {
	if goal == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*goal), Valid: true}
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func fromNullTime(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

func (s *Store) AddHabit(habit models.Habit) error {
	_, err := s.db.Exec(`
		INSERT INTO habits (`+habitColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		habit.ID, habit.Title, string(habit.Category), habit.CreatedAt.UTC(),
		string(habit.Recurrence.Type), habit.Recurrence.IntervalDays,
		storage.EncodeWeekdays(habit.Recurrence.Weekdays), goalValue(habit.GoalMinutes),
		toNullTime(habit.ArchivedAt))
	if pqCode(err) == codeUniqueViolation {
		return storage.Conflict("habit %q already exists", habit.Title)
	}
	return storage.Failure("adding habit", err)
}

func (s *Store) getHabitWhere(where string, arg any, key string) (models.Habit, error) {
	row := s.db.QueryRow("SELECT "+habitColumns+" FROM habits WHERE "+where, arg)
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, storage.NotFound("habit", key)
	}
	if err != nil {
		return models.Habit{}, storage.Failure("reading habit", err)
	}
	return h, nil
}

func (s *Store) GetHabit(id string) (models.Habit, error) {
	return s.getHabitWhere("id = $1", id, id)
}

func (s *Store) GetHabitByTitle(title string) (models.Habit, error) {
	return s.getHabitWhere("lower(title) = lower($1)", title, title)
}

func (s *Store) GetAllHabits(includeArchived bool) ([]models.Habit, error) {
	query := "SELECT " + habitColumns + " FROM habits"
	if !includeArchived {
		query += " WHERE archived_at IS NULL"
	}
	query += " ORDER BY created_at, title"

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, storage.Failure("listing habits", err)
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, storage.Failure("listing habits", err)
		}
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.Failure("listing habits", err)
	}
	return habits, nil
}

func (s *Store) UpdateHabit(habit models.Habit) error {
	res, err := s.db.Exec(`
		UPDATE habits SET title = $1, category = $2, recurrence_type = $3,
			recurrence_interval_days = $4, recurrence_weekdays = $5, goal_minutes = $6, archived_at = $7
		WHERE id = $8`,
		habit.Title, string(habit.Category), string(habit.Recurrence.Type),
		habit.Recurrence.IntervalDays, storage.EncodeWeekdays(habit.Recurrence.Weekdays),
		goalValue(habit.GoalMinutes), toNullTime(habit.ArchivedAt), habit.ID)
	if pqCode(err) == codeUniqueViolation {
		return storage.Conflict("habit %q already exists", habit.Title)
	}
	if err != nil {
		return storage.Failure("updating habit", err)
	}
	return requireRow(res, "habit", habit.ID)
}

func (s *Store) ArchiveHabit(id string) error {
	res, err := s.db.Exec("UPDATE habits SET archived_at = $1 WHERE id = $2", time.Now().UTC(), id)
	if err != nil {
		return storage.Failure("archiving habit", err)
	}
	return requireRow(res, "habit", id)
}

func (s *Store) UnarchiveHabit(id string) error {
	res, err := s.db.Exec("UPDATE habits SET archived_at = NULL WHERE id = $1", id)
	if err != nil {
		return storage.Failure("unarchiving habit", err)
	}
	return requireRow(res, "habit", id)
}

// DeleteHabit removes the notification, the records and the habit in one transaction.
func (s *Store) DeleteHabit(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return storage.Failure("deleting habit", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM habit_notifications WHERE habit_id = $1", id); err != nil {
		return storage.Failure("deleting habit notification", err)
	}
	if _, err := tx.Exec("DELETE FROM habit_records WHERE habit_id = $1", id); err != nil {
		return storage.Failure("deleting habit records", err)
	}
	res, err := tx.Exec("DELETE FROM habits WHERE id = $1", id)
	if err != nil {
		return storage.Failure("deleting habit", err)
	}
	if err := requireRow(res, "habit", id); err != nil {
		return err
	}
	return storage.Failure("deleting habit", tx.Commit())
}

func requireRow(res sql.Result, entity, key string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return storage.Failure("checking affected rows", err)
	}
	if n == 0 {
		return storage.NotFound(entity, key)
	}
	return nil
}
