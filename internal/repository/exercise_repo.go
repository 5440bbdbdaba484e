package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/P4t4m8n/buff-buddy-api/internal/models"
)

const exerciseColumns = `id, name, youtube_url, types, equipment, muscles, created_at, updated_at`

type ExerciseRepository struct {
	db DBTX
}

func NewExerciseRepository(db DBTX) *ExerciseRepository {
	return &ExerciseRepository{db: db}
}

func (r *ExerciseRepository) Create(ctx context.Context, input models.NewExercise) (*models.Exercise, error) {
	query := `
		INSERT INTO exercises (name, youtube_url, types, equipment, muscles)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + exerciseColumns
	return scanExercise(r.db.QueryRow(
		ctx,
		query,
		input.Name,
		input.YoutubeURL,
		input.Types,
		input.Equipment,
		input.Muscles,
	))
}

func (r *ExerciseRepository) GetByID(ctx context.Context, id string) (*models.Exercise, error) {
	query := `SELECT ` + exerciseColumns + ` FROM exercises WHERE id = $1`
	return scanExercise(r.db.QueryRow(ctx, query, id))
}

func (r *ExerciseRepository) Update(
	ctx context.Context,
	id string,
	patch models.ExercisePatch,
) (*models.Exercise, error) {
	query := `
		UPDATE exercises
		SET name = COALESCE($2, name),
			youtube_url = COALESCE($3, youtube_url),
			types = COALESCE($4, types),
			equipment = COALESCE($5, equipment),
			muscles = COALESCE($6, muscles),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + exerciseColumns
	return scanExercise(r.db.QueryRow(
		ctx,
		query,
		id,
		patch.Name,
		patch.YoutubeURL,
		nilIfEmpty(patch.Types),
		nilIfEmpty(patch.Equipment),
		nilIfEmpty(patch.Muscles),
	))
}

func (r *ExerciseRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM exercises WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ExerciseRepository) List(ctx context.Context, filter models.ExerciseFilter) ([]models.Exercise, error) {
	args := []any{}
	whereParts := []string{"TRUE"}

	if name := strings.TrimSpace(filter.Name); name != "" {
		args = append(args, likePattern(name))
		whereParts = append(whereParts, fmt.Sprintf("name ILIKE $%d ESCAPE '\\'", len(args)))
	}
	for _, tagFilter := range []struct {
		column string
		tags   []string
	}{
		{"types", filter.Types},
		{"equipment", filter.Equipment},
		{"muscles", filter.Muscles},
	} {
		if len(tagFilter.tags) == 0 {
			continue
		}
		args = append(args, tagFilter.tags)
		whereParts = append(whereParts, fmt.Sprintf("%s && $%d", tagFilter.column, len(args)))
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`
		SELECT %s
		FROM exercises
		WHERE %s
		ORDER BY name ASC, id ASC
		LIMIT $%d OFFSET $%d
	`, exerciseColumns, strings.Join(whereParts, " AND "), len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exercises := make([]models.Exercise, 0)
	for rows.Next() {
		exercise, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		exercises = append(exercises, *exercise)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return exercises, nil
}

func scanExercise(row pgx.Row) (*models.Exercise, error) {
	var exercise models.Exercise
	err := row.Scan(
		&exercise.ID,
		&exercise.Name,
		&exercise.YoutubeURL,
		&exercise.Types,
		&exercise.Equipment,
		&exercise.Muscles,
		&exercise.CreatedAt,
		&exercise.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &exercise, nil
}

// likePattern escapes LIKE wildcards so user input only ever matches literally.
func likePattern(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(value) + "%"
}

func nilIfEmpty(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	return values
}
