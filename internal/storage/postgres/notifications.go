package postgres

import (
	"database/sql"
	"errors"
	"time"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

const notificationColumns = "id, habit_id, time, last_sent, created_at"

func scanNotification(row scanner) (models.HabitNotification, error) {
	var n models.HabitNotification
	var lastSent sql.NullTime
	if err := row.Scan(&n.ID, &n.HabitID, &n.Time, &lastSent, &n.CreatedAt); err != nil {
		return models.HabitNotification{}, err
	}
	n.LastSent = fromNullTime(lastSent)
	return n, nil
}

// SaveNotification inserts or replaces the reminder for the habit.
func (s *Store) SaveNotification(n models.HabitNotification) error {
	_, err := s.db.Exec(`
		INSERT INTO habit_notifications (`+notificationColumns+`)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (habit_id) DO UPDATE SET
			time = EXCLUDED.time,
			last_sent = EXCLUDED.last_sent`,
		n.ID, n.HabitID, n.Time, toNullTime(n.LastSent), n.CreatedAt.UTC())
	if pqCode(err) == codeForeignKeyViolation {
		return storage.NotFound("habit", n.HabitID)
	}
	return storage.Failure("saving notification", err)
}

func (s *Store) GetNotification(habitID string) (models.HabitNotification, error) {
	row := s.db.QueryRow("SELECT "+notificationColumns+" FROM habit_notifications WHERE habit_id = $1", habitID)
	n, err := scanNotification(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.HabitNotification{}, storage.NotFound("notification for habit", habitID)
	}
	if err != nil {
		return models.HabitNotification{}, storage.Failure("reading notification", err)
	}
	return n, nil
}

func (s *Store) GetAllNotifications() ([]models.HabitNotification, error) {
	rows, err := s.db.Query("SELECT " + notificationColumns + " FROM habit_notifications ORDER BY time, habit_id")
	if err != nil {
		return nil, storage.Failure("listing notifications", err)
	}
	defer rows.Close()

	var out []models.HabitNotification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, storage.Failure("listing notifications", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.Failure("listing notifications", err)
	}
	return out, nil
}

func (s *Store) DeleteNotification(habitID string) error {
	res, err := s.db.Exec("DELETE FROM habit_notifications WHERE habit_id = $1", habitID)
	if err != nil {
		return storage.Failure("deleting notification", err)
	}
	return requireRow(res, "notification for habit", habitID)
}

func (s *Store) MarkNotificationSent(habitID string, at time.Time) error {
	res, err := s.db.Exec("UPDATE habit_notifications SET last_sent = $1 WHERE habit_id = $2", at.UTC(), habitID)
	if err != nil {
		return storage.Failure("marking notification sent", err)
	}
	return requireRow(res, "notification for habit", habitID)
}
