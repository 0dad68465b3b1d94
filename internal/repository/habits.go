package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rbessin/Momentm/internal/models"
)

type HabitFilter struct {
	Status     *models.HabitStatus
	CategoryID *string
	Tag        *string
	Search     string
}

type HabitRepository interface {
	FindByID(ctx context.Context, id string) (models.Habit, error)
	FindAll(ctx context.Context, filter HabitFilter) ([]models.Habit, error)
	Create(ctx context.Context, habit models.Habit) (models.Habit, error)
	Update(ctx context.Context, habit models.Habit) error
	SetStatus(ctx context.Context, id string, status models.HabitStatus) error
	Delete(ctx context.Context, id string) error
}

type SQLiteHabitRepository struct {
	database *sql.DB
}

func NewHabitRepository(database *sql.DB) *SQLiteHabitRepository {
	return &SQLiteHabitRepository{database: database}
}

const habitColumns = `id, name, description, category_id, color, tags, status,
	created_by_user_id, completion_type, target_count, recurrence,
	created_at, updated_at`

func (repository *SQLiteHabitRepository) FindByID(ctx context.Context, id string) (models.Habit, error) {
	row := repository.database.QueryRowContext(ctx,
		"SELECT "+habitColumns+" FROM habits WHERE id = ?", id,
	)
	habit, err := scanHabit(row.Scan)
	if err != nil {
		return models.Habit{}, fmt.Errorf("finding habit by id: %w", err)
	}
	return habit, nil
}

func (repository *SQLiteHabitRepository) FindAll(ctx context.Context, filter HabitFilter) ([]models.Habit, error) {
	query := "SELECT " + habitColumns + " FROM habits WHERE 1=1"
	var args []interface{}

	if filter.Status != nil {
		query += " AND status = ?"
		args = append(args, *filter.Status)
	}
	if filter.CategoryID != nil {
		query += " AND category_id = ?"
		args = append(args, *filter.CategoryID)
	}
	if filter.Tag != nil {
		// Tags are stored as a JSON array; match the quoted element.
		query += " AND tags LIKE ?"
		args = append(args, `%"`+*filter.Tag+`"%`)
	}
	if filter.Search != "" {
		query += " AND (name LIKE ? OR description LIKE ?)"
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern)
	}
	query += " ORDER BY name"

	rows, err := repository.database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("finding habits: %w", err)
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		habit, err := scanHabit(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning habit: %w", err)
		}
		habits = append(habits, habit)
	}
	return habits, rows.Err()
}

func (repository *SQLiteHabitRepository) Create(ctx context.Context, habit models.Habit) (models.Habit, error) {
	if habit.ID == "" {
		habit.ID = uuid.New().String()
	}
	if habit.Status == "" {
		habit.Status = models.HabitStatusActive
	}
	if habit.CompletionType == "" {
		habit.CompletionType = models.CompletionSimple
	}
	now := time.Now()
	if habit.CreatedAt.IsZero() {
		habit.CreatedAt = now
	}
	habit.UpdatedAt = now

	rule, err := models.EncodeRule(habit.Recurrence)
	if err != nil {
		return models.Habit{}, err
	}
	tags, err := encodeTags(habit.Tags)
	if err != nil {
		return models.Habit{}, err
	}

	_, err = repository.database.ExecContext(ctx,
		`INSERT INTO habits (id, name, description, category_id, color, tags, status,
			created_by_user_id, completion_type, target_count, recurrence, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		habit.ID, habit.Name, habit.Description, habit.CategoryID, habit.Color, tags, habit.Status,
		habit.CreatedByUserID, habit.CompletionType, habit.TargetCount, rule, habit.CreatedAt, habit.UpdatedAt,
	)
	if err != nil {
		return models.Habit{}, fmt.Errorf("creating habit: %w", err)
	}
	return habit, nil
}

// Update rewrites the habit's editable fields. A changed recurrence rule
// applies retroactively: the stored completion history is untouched and
// simply reinterpreted under the new rule.
func (repository *SQLiteHabitRepository) Update(ctx context.Context, habit models.Habit) error {
	rule, err := models.EncodeRule(habit.Recurrence)
	if err != nil {
		return err
	}
	tags, err := encodeTags(habit.Tags)
	if err != nil {
		return err
	}

	_, err = repository.database.ExecContext(ctx,
		`UPDATE habits SET name = ?, description = ?, category_id = ?, color = ?, tags = ?,
			completion_type = ?, target_count = ?, recurrence = ?, updated_at = ?
		WHERE id = ?`,
		habit.Name, habit.Description, habit.CategoryID, habit.Color, tags,
		habit.CompletionType, habit.TargetCount, rule, time.Now(), habit.ID,
	)
	if err != nil {
		return fmt.Errorf("updating habit: %w", err)
	}
	return nil
}

func (repository *SQLiteHabitRepository) SetStatus(ctx context.Context, id string, status models.HabitStatus) error {
	_, err := repository.database.ExecContext(ctx,
		"UPDATE habits SET status = ?, updated_at = ? WHERE id = ?",
		status, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("updating habit status: %w", err)
	}
	return nil
}

func (repository *SQLiteHabitRepository) Delete(ctx context.Context, id string) error {
	_, err := repository.database.ExecContext(ctx, "DELETE FROM habits WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting habit: %w", err)
	}
	return nil
}

func scanHabit(scan func(...interface{}) error) (models.Habit, error) {
	var habit models.Habit
	var tags, rule string

	err := scan(
		&habit.ID, &habit.Name, &habit.Description, &habit.CategoryID, &habit.Color, &tags, &habit.Status,
		&habit.CreatedByUserID, &habit.CompletionType, &habit.TargetCount, &rule,
		&habit.CreatedAt, &habit.UpdatedAt,
	)
	if err != nil {
		return models.Habit{}, err
	}

	if err := json.Unmarshal([]byte(tags), &habit.Tags); err != nil {
		return models.Habit{}, fmt.Errorf("decoding tags: %w", err)
	}

	// A rule that no longer parses (corrupted, or written by a newer
	// version) must not take the whole list down; the habit loads with a
	// nil rule, which the evaluator treats as never scheduled.
	parsed, err := models.ParseRule([]byte(rule))
	if err != nil {
		slog.Warn("unreadable recurrence rule", "habit_id", habit.ID, "error", err)
	} else {
		habit.Recurrence = parsed
	}
	return habit, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encoding tags: %w", err)
	}
	return string(data), nil
}
