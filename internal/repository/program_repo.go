package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/P4t4m8n/buff-buddy-api/internal/models"
)

var ErrTxUnsupported = errors.New("database handle cannot begin a transaction")

const programColumns = `p.id, p.owner_id, p.name, p.notes, p.is_active, p.start_date, p.end_date, p.created_at, p.updated_at`

// ProgramStore persists program aggregates. Child rows are always addressed
// through their parent id so a stray id from another program never matches.
type ProgramStore interface {
	WithTx(ctx context.Context, fn func(ProgramStore) error) error

	CreateProgram(ctx context.Context, ownerID string, input models.NewProgram) (*models.Program, error)
	GetProgram(ctx context.Context, id string) (*models.Program, error)
	GetAggregate(ctx context.Context, id string) (*models.Program, error)
	ListPrograms(ctx context.Context, filter models.ProgramFilter) ([]models.Program, error)
	UpdateProgram(ctx context.Context, id string, patch models.ProgramPatch) error
	DeleteProgram(ctx context.Context, id string) error

	CreateProgramExercise(ctx context.Context, programID string, input models.NewProgramExercise) (string, error)
	UpdateProgramExercise(ctx context.Context, programID, id string, patch models.ProgramExercisePatch) error
	DeleteProgramExercise(ctx context.Context, programID, id string) error

	CreateCoreSet(ctx context.Context, programExerciseID string, input models.NewCoreSet) (string, error)
	UpdateCoreSet(ctx context.Context, programExerciseID, id string, patch models.CoreSetPatch) error
	DeleteCoreSet(ctx context.Context, programExerciseID, id string) error
}

type txStarter interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type ProgramRepository struct {
	db DBTX
}

func NewProgramRepository(db DBTX) *ProgramRepository {
	return &ProgramRepository{db: db}
}

var _ ProgramStore = (*ProgramRepository)(nil)

// WithTx runs fn against a repository bound to a new transaction, committing
// only when fn succeeds. Nested calls open a savepoint on the outer tx.
func (r *ProgramRepository) WithTx(ctx context.Context, fn func(ProgramStore) error) error {
	starter, ok := r.db.(txStarter)
	if !ok {
		return ErrTxUnsupported
	}

	tx, err := starter.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(NewProgramRepository(tx)); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *ProgramRepository) CreateProgram(
	ctx context.Context,
	ownerID string,
	input models.NewProgram,
) (*models.Program, error) {
	query := `
		INSERT INTO programs AS p (owner_id, name, notes, is_active, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + programColumns
	return scanProgram(r.db.QueryRow(
		ctx,
		query,
		ownerID,
		input.Name,
		input.Notes,
		input.IsActive,
		input.StartDate,
		input.EndDate,
	))
}

// GetProgram returns the program row without its children.
func (r *ProgramRepository) GetProgram(ctx context.Context, id string) (*models.Program, error) {
	query := `SELECT ` + programColumns + ` FROM programs p WHERE p.id = $1`
	return scanProgram(r.db.QueryRow(ctx, query, id))
}

func (r *ProgramRepository) GetAggregate(ctx context.Context, id string) (*models.Program, error) {
	program, err := r.GetProgram(ctx, id)
	if err != nil {
		return nil, err
	}
	programs := []models.Program{*program}
	if err := r.loadChildren(ctx, programs); err != nil {
		return nil, err
	}
	return &programs[0], nil
}

func (r *ProgramRepository) ListPrograms(
	ctx context.Context,
	filter models.ProgramFilter,
) ([]models.Program, error) {
	args := []any{}
	whereParts := []string{"TRUE"}

	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		whereParts = append(whereParts, fmt.Sprintf("p.owner_id = $%d", len(args)))
	}
	if name := strings.TrimSpace(filter.Name); name != "" {
		args = append(args, likePattern(name))
		whereParts = append(whereParts, fmt.Sprintf("p.name ILIKE $%d ESCAPE '\\'", len(args)))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		whereParts = append(whereParts, fmt.Sprintf("p.is_active = $%d", len(args)))
	}

	exists := func(predicate string) string {
		return `EXISTS (
			SELECT 1
			FROM program_exercises pe
			JOIN exercises e ON e.id = pe.exercise_id
			WHERE pe.program_id = p.id AND ` + predicate + `
		)`
	}
	if name := strings.TrimSpace(filter.ExerciseName); name != "" {
		args = append(args, likePattern(name))
		whereParts = append(whereParts, exists(fmt.Sprintf("e.name ILIKE $%d ESCAPE '\\'", len(args))))
	}
	for _, tagFilter := range []struct {
		column string
		tags   []string
	}{
		{"e.types", filter.ExerciseTypes},
		{"e.equipment", filter.ExerciseEquipment},
		{"e.muscles", filter.ExerciseMuscles},
	} {
		if len(tagFilter.tags) == 0 {
			continue
		}
		args = append(args, tagFilter.tags)
		whereParts = append(whereParts, exists(fmt.Sprintf("%s && $%d", tagFilter.column, len(args))))
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`
		SELECT %s
		FROM programs p
		WHERE %s
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $%d OFFSET $%d
	`, programColumns, strings.Join(whereParts, " AND "), len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	programs := make([]models.Program, 0)
	for rows.Next() {
		program, err := scanProgram(rows)
		if err != nil {
			return nil, err
		}
		programs = append(programs, *program)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadChildren(ctx, programs); err != nil {
		return nil, err
	}
	return programs, nil
}

func (r *ProgramRepository) UpdateProgram(ctx context.Context, id string, patch models.ProgramPatch) error {
	query := `
		UPDATE programs
		SET name = COALESCE($2, name),
			notes = COALESCE($3, notes),
			is_active = COALESCE($4, is_active),
			start_date = COALESCE($5, start_date),
			end_date = COALESCE($6, end_date),
			updated_at = NOW()
		WHERE id = $1
	`
	return execAffectingOne(r.db.Exec(
		ctx,
		query,
		id,
		patch.Name,
		patch.Notes,
		patch.IsActive,
		patch.StartDate,
		patch.EndDate,
	))
}

func (r *ProgramRepository) DeleteProgram(ctx context.Context, id string) error {
	return execAffectingOne(r.db.Exec(ctx, `DELETE FROM programs WHERE id = $1`, id))
}

func (r *ProgramRepository) CreateProgramExercise(
	ctx context.Context,
	programID string,
	input models.NewProgramExercise,
) (string, error) {
	query := `
		INSERT INTO program_exercises (program_id, exercise_id, "order", notes, is_active, days_of_week)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	var id string
	err := r.db.QueryRow(
		ctx,
		query,
		programID,
		input.ExerciseID,
		input.Order,
		input.Notes,
		input.IsActive,
		input.DaysOfWeek,
	).Scan(&id)
	return id, err
}

func (r *ProgramRepository) UpdateProgramExercise(
	ctx context.Context,
	programID, id string,
	patch models.ProgramExercisePatch,
) error {
	query := `
		UPDATE program_exercises
		SET exercise_id = COALESCE($3, exercise_id),
			"order" = COALESCE($4, "order"),
			notes = COALESCE($5, notes),
			is_active = COALESCE($6, is_active),
			days_of_week = COALESCE($7, days_of_week),
			updated_at = NOW()
		WHERE id = $1 AND program_id = $2
	`
	return execAffectingOne(r.db.Exec(
		ctx,
		query,
		id,
		programID,
		patch.ExerciseID,
		patch.Order,
		patch.Notes,
		patch.IsActive,
		nilIfEmpty(patch.DaysOfWeek),
	))
}

func (r *ProgramRepository) DeleteProgramExercise(ctx context.Context, programID, id string) error {
	return execAffectingOne(r.db.Exec(
		ctx,
		`DELETE FROM program_exercises WHERE id = $1 AND program_id = $2`,
		id,
		programID,
	))
}

func (r *ProgramRepository) CreateCoreSet(
	ctx context.Context,
	programExerciseID string,
	input models.NewCoreSet,
) (string, error) {
	query := `
		INSERT INTO core_sets (program_exercise_id, reps, weight, rest_time, "order", is_warmup, reps_in_reserve)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	var id string
	err := r.db.QueryRow(
		ctx,
		query,
		programExerciseID,
		input.Reps,
		input.Weight,
		input.RestTime,
		input.Order,
		input.IsWarmup,
		input.RepsInReserve,
	).Scan(&id)
	return id, err
}

func (r *ProgramRepository) UpdateCoreSet(
	ctx context.Context,
	programExerciseID, id string,
	patch models.CoreSetPatch,
) error {
	query := `
		UPDATE core_sets
		SET reps = COALESCE($3, reps),
			weight = COALESCE($4, weight),
			rest_time = COALESCE($5, rest_time),
			"order" = COALESCE($6, "order"),
			is_warmup = COALESCE($7, is_warmup),
			reps_in_reserve = COALESCE($8, reps_in_reserve),
			updated_at = NOW()
		WHERE id = $1 AND program_exercise_id = $2
	`
	return execAffectingOne(r.db.Exec(
		ctx,
		query,
		id,
		programExerciseID,
		patch.Reps,
		patch.Weight,
		patch.RestTime,
		patch.Order,
		patch.IsWarmup,
		patch.RepsInReserve,
	))
}

func (r *ProgramRepository) DeleteCoreSet(ctx context.Context, programExerciseID, id string) error {
	return execAffectingOne(r.db.Exec(
		ctx,
		`DELETE FROM core_sets WHERE id = $1 AND program_exercise_id = $2`,
		id,
		programExerciseID,
	))
}

// loadChildren fills ProgramExercises (with their exercise and sets) for
// every program in place, using one query per level.
func (r *ProgramRepository) loadChildren(ctx context.Context, programs []models.Program) error {
	if len(programs) == 0 {
		return nil
	}

	programIDs := make([]uuid.UUID, 0, len(programs))
	index := make(map[string]int, len(programs))
	for i := range programs {
		programs[i].ProgramExercises = make([]models.ProgramExercise, 0)
		if parsed, err := uuid.Parse(programs[i].ID); err == nil {
			programIDs = append(programIDs, parsed)
		}
		index[programs[i].ID] = i
	}

	children, err := r.listProgramExercises(ctx, programIDs)
	if err != nil {
		return err
	}

	childIDs := make([]uuid.UUID, 0, len(children))
	for _, child := range children {
		if parsed, err := uuid.Parse(child.ID); err == nil {
			childIDs = append(childIDs, parsed)
		}
	}
	sets, err := r.listCoreSets(ctx, childIDs)
	if err != nil {
		return err
	}

	for _, child := range children {
		child.CoreSets = sets[child.ID]
		if child.CoreSets == nil {
			child.CoreSets = make([]models.CoreSet, 0)
		}
		i, ok := index[child.ProgramID]
		if !ok {
			continue
		}
		programs[i].ProgramExercises = append(programs[i].ProgramExercises, child)
	}
	return nil
}

func (r *ProgramRepository) listProgramExercises(
	ctx context.Context,
	programIDs []uuid.UUID,
) ([]models.ProgramExercise, error) {
	query := `
		SELECT pe.id, pe.program_id, pe.exercise_id, pe."order", pe.notes, pe.is_active, pe.days_of_week,
			e.id, e.name, e.youtube_url, e.types, e.equipment, e.muscles, e.created_at, e.updated_at
		FROM program_exercises pe
		JOIN exercises e ON e.id = pe.exercise_id
		WHERE pe.program_id = ANY($1)
		ORDER BY pe."order" ASC, pe.created_at ASC, pe.id ASC
	`
	rows, err := r.db.Query(ctx, query, programIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	children := make([]models.ProgramExercise, 0)
	for rows.Next() {
		var child models.ProgramExercise
		var exercise models.Exercise
		if err := rows.Scan(
			&child.ID,
			&child.ProgramID,
			&child.ExerciseID,
			&child.Order,
			&child.Notes,
			&child.IsActive,
			&child.DaysOfWeek,
			&exercise.ID,
			&exercise.Name,
			&exercise.YoutubeURL,
			&exercise.Types,
			&exercise.Equipment,
			&exercise.Muscles,
			&exercise.CreatedAt,
			&exercise.UpdatedAt,
		); err != nil {
			return nil, err
		}
		child.Exercise = &exercise
		children = append(children, child)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return children, nil
}

func (r *ProgramRepository) listCoreSets(
	ctx context.Context,
	programExerciseIDs []uuid.UUID,
) (map[string][]models.CoreSet, error) {
	sets := make(map[string][]models.CoreSet)
	if len(programExerciseIDs) == 0 {
		return sets, nil
	}

	query := `
		SELECT id, program_exercise_id, reps, weight, rest_time, "order", is_warmup, reps_in_reserve
		FROM core_sets
		WHERE program_exercise_id = ANY($1)
		ORDER BY "order" ASC, created_at ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query, programExerciseIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var set models.CoreSet
		if err := rows.Scan(
			&set.ID,
			&set.ProgramExerciseID,
			&set.Reps,
			&set.Weight,
			&set.RestTime,
			&set.Order,
			&set.IsWarmup,
			&set.RepsInReserve,
		); err != nil {
			return nil, err
		}
		sets[set.ProgramExerciseID] = append(sets[set.ProgramExerciseID], set)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sets, nil
}

func scanProgram(row pgx.Row) (*models.Program, error) {
	var program models.Program
	err := row.Scan(
		&program.ID,
		&program.OwnerID,
		&program.Name,
		&program.Notes,
		&program.IsActive,
		&program.StartDate,
		&program.EndDate,
		&program.CreatedAt,
		&program.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &program, nil
}

func execAffectingOne(tag pgconn.CommandTag, err error) error {
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
