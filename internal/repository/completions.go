package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rbessin/Momentm/internal/models"
)

type CompletionFilter struct {
	HabitID *string
	From    *time.Time
	To      *time.Time
}

type CompletionRepository interface {
	FindByID(ctx context.Context, id string) (models.Completion, error)
	FindAll(ctx context.Context, filter CompletionFilter) ([]models.Completion, error)
	Create(ctx context.Context, completion models.Completion) (models.Completion, error)
	Update(ctx context.Context, id string, count int, notes string) error
	Delete(ctx context.Context, id string) error
}

type SQLiteCompletionRepository struct {
	database *sql.DB
}

func NewCompletionRepository(database *sql.DB) *SQLiteCompletionRepository {
	return &SQLiteCompletionRepository{database: database}
}

const completionColumns = "id, habit_id, completed_date, count, notes, created_at, updated_at"

func (repository *SQLiteCompletionRepository) FindByID(ctx context.Context, id string) (models.Completion, error) {
	row := repository.database.QueryRowContext(ctx,
		"SELECT "+completionColumns+" FROM completions WHERE id = ?", id,
	)
	completion, err := scanCompletion(row.Scan)
	if err != nil {
		return models.Completion{}, fmt.Errorf("finding completion by id: %w", err)
	}
	return completion, nil
}

func (repository *SQLiteCompletionRepository) FindAll(ctx context.Context, filter CompletionFilter) ([]models.Completion, error) {
	query := "SELECT " + completionColumns + " FROM completions WHERE 1=1"
	var args []interface{}

	if filter.HabitID != nil {
		query += " AND habit_id = ?"
		args = append(args, *filter.HabitID)
	}
	if filter.From != nil {
		query += " AND completed_date >= ?"
		args = append(args, filter.From.Format(models.DateOnly))
	}
	if filter.To != nil {
		query += " AND completed_date <= ?"
		args = append(args, filter.To.Format(models.DateOnly))
	}
	query += " ORDER BY completed_date, created_at"

	rows, err := repository.database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("finding completions: %w", err)
	}
	defer rows.Close()

	var completions []models.Completion
	for rows.Next() {
		completion, err := scanCompletion(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning completion: %w", err)
		}
		completions = append(completions, completion)
	}
	return completions, rows.Err()
}

func (repository *SQLiteCompletionRepository) Create(ctx context.Context, completion models.Completion) (models.Completion, error) {
	if completion.ID == "" {
		completion.ID = uuid.New().String()
	}
	if completion.Count < 1 {
		completion.Count = 1
	}
	now := time.Now()
	completion.CreatedAt = now
	completion.UpdatedAt = now

	_, err := repository.database.ExecContext(ctx,
		`INSERT INTO completions (id, habit_id, completed_date, count, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		completion.ID, completion.HabitID, completion.CompletedDate.Format(models.DateOnly),
		completion.Count, completion.Notes, completion.CreatedAt, completion.UpdatedAt,
	)
	if err != nil {
		return models.Completion{}, fmt.Errorf("creating completion: %w", err)
	}
	return completion, nil
}

func (repository *SQLiteCompletionRepository) Update(ctx context.Context, id string, count int, notes string) error {
	if count < 1 {
		count = 1
	}
	_, err := repository.database.ExecContext(ctx,
		"UPDATE completions SET count = ?, notes = ?, updated_at = ? WHERE id = ?",
		count, notes, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("updating completion: %w", err)
	}
	return nil
}

func (repository *SQLiteCompletionRepository) Delete(ctx context.Context, id string) error {
	_, err := repository.database.ExecContext(ctx, "DELETE FROM completions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting completion: %w", err)
	}
	return nil
}

func scanCompletion(scan func(...interface{}) error) (models.Completion, error) {
	var completion models.Completion
	var completedDate string

	err := scan(
		&completion.ID, &completion.HabitID, &completedDate, &completion.Count,
		&completion.Notes, &completion.CreatedAt, &completion.UpdatedAt,
	)
	if err != nil {
		return models.Completion{}, err
	}

	completion.CompletedDate, err = time.Parse(models.DateOnly, completedDate)
	if err != nil {
		return models.Completion{}, fmt.Errorf("parsing completed date: %w", err)
	}
	return completion, nil
}
