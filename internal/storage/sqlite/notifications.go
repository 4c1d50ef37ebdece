package sqlite

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

const notificationColumns = "id, habit_id, time, last_sent, created_at"

func scanNotification(row scanner) (models.HabitNotification, error) {
	var n models.HabitNotification
	var lastSent sql.NullString
	var createdAt string
	if err := row.Scan(&n.ID, &n.HabitID, &n.Time, &lastSent, &createdAt); err != nil {
		return models.HabitNotification{}, err
	}
	var err error
	if n.LastSent, err = parseNullTime(lastSent, "last_sent"); err != nil {
		return models.HabitNotification{}, err
	}
	if n.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return models.HabitNotification{}, err
	}
	return n, nil
}

// SaveNotification inserts or replaces the reminder for the habit.
// The original id and creation time survive a replace.
func (s *Store) SaveNotification(n models.HabitNotification) error {
	_, err := s.db.Exec(`
		INSERT INTO habit_notifications (`+notificationColumns+`)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(habit_id) DO UPDATE SET
			time = excluded.time,
			last_sent = excluded.last_sent`,
		n.ID, n.HabitID, n.Time, nullTime(n.LastSent), formatTime(n.CreatedAt))
	if err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
		return storage.NotFound("habit", n.HabitID)
	}
	return storage.Failure("saving notification", err)
}

func (s *Store) GetNotification(habitID string) (models.HabitNotification, error) {
	row := s.db.QueryRow("SELECT "+notificationColumns+" FROM habit_notifications WHERE habit_id = ?", habitID)
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
	res, err := s.db.Exec("DELETE FROM habit_notifications WHERE habit_id = ?", habitID)
	if err != nil {
		return storage.Failure("deleting notification", err)
	}
	return requireRow(res, "notification for habit", habitID)
}

func (s *Store) MarkNotificationSent(habitID string, at time.Time) error {
	res, err := s.db.Exec("UPDATE habit_notifications SET last_sent = ? WHERE habit_id = ?", formatTime(at), habitID)
	if err != nil {
		return storage.Failure("marking notification sent", err)
	}
	return requireRow(res, "notification for habit", habitID)
}
