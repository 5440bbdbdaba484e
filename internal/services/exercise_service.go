package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/P4t4m8n/buff-buddy-api/internal/models"
)

type exerciseStore interface {
	Create(ctx context.Context, input models.NewExercise) (*models.Exercise, error)
	GetByID(ctx context.Context, id string) (*models.Exercise, error)
	Update(ctx context.Context, id string, patch models.ExercisePatch) (*models.Exercise, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter models.ExerciseFilter) ([]models.Exercise, error)
}

type ExerciseService struct {
	store exerciseStore
}

func NewExerciseService(store exerciseStore) *ExerciseService {
	return &ExerciseService{store: store}
}

func (s *ExerciseService) ListExercises(
	ctx context.Context,
	query models.ExerciseQuery,
) ([]models.Exercise, error) {
	filter := models.ExerciseFilter{
		Name:   query.Name,
		Offset: query.Page.Offset(),
		Limit:  models.PageSize,
	}

	var ok bool
	if filter.Types, ok = resolveTags(query.Types, models.ExerciseTypes); !ok {
		return []models.Exercise{}, nil
	}
	if filter.Equipment, ok = resolveTags(query.Equipment, models.ExerciseEquipment); !ok {
		return []models.Exercise{}, nil
	}
	if filter.Muscles, ok = resolveTags(query.Muscles, models.ExerciseMuscles); !ok {
		return []models.Exercise{}, nil
	}

	return s.store.List(ctx, filter)
}

func (s *ExerciseService) GetExercise(ctx context.Context, id string) (*models.Exercise, error) {
	exercise, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return exercise, nil
}

// CreateExercise and UpdateExercise are open to anonymous callers; the
// catalogue is shared. Only deletion is restricted to admins.
func (s *ExerciseService) CreateExercise(
	ctx context.Context,
	actor models.Actor,
	input models.NewExercise,
) (*models.Exercise, error) {
	exercise, err := s.store.Create(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("create exercise: %w", err)
	}
	return exercise, nil
}

func (s *ExerciseService) UpdateExercise(
	ctx context.Context,
	actor models.Actor,
	id string,
	patch models.ExercisePatch,
) (*models.Exercise, error) {
	if patch.IsEmpty() {
		return s.GetExercise(ctx, id)
	}
	exercise, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return nil, notFound(err)
	}
	return exercise, nil
}

func (s *ExerciseService) DeleteExercise(ctx context.Context, actor models.Actor, id string) error {
	if actor.UserID == "" {
		return ErrUnauthenticated
	}
	if !actor.IsAdmin {
		return ErrForbidden
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	return nil
}

// notFound normalizes a missing row into ErrNotFound and leaves every other
// error untouched.
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
