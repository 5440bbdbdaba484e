package services

import (
	"context"
	"fmt"

	"github.com/P4t4m8n/buff-buddy-api/internal/models"
	"github.com/P4t4m8n/buff-buddy-api/internal/repository"
	"github.com/P4t4m8n/buff-buddy-api/internal/validation"
)

type programEventPublisher interface {
	PublishProgramEvent(event models.ProgramEvent)
}

type reconcileRecorder interface {
	Reconciled(entity, operation string)
}

type ProgramService struct {
	store     repository.ProgramStore
	publisher programEventPublisher
	recorder  reconcileRecorder
}

// NewProgramService wires the aggregate store. publisher and recorder may be nil.
func NewProgramService(
	store repository.ProgramStore,
	publisher programEventPublisher,
	recorder reconcileRecorder,
) *ProgramService {
	return &ProgramService{store: store, publisher: publisher, recorder: recorder}
}

func (s *ProgramService) ListPrograms(
	ctx context.Context,
	actor models.Actor,
	query models.ProgramQuery,
) ([]models.Program, error) {
	if actor.UserID == "" {
		return nil, ErrUnauthenticated
	}

	filter := models.ProgramFilter{
		Name:         query.Name,
		IsActive:     query.IsActive,
		ExerciseName: query.ExerciseName,
		Offset:       query.Page.Offset(),
		Limit:        models.PageSize,
	}
	if !actor.IsAdmin {
		ownerID := actor.UserID
		filter.OwnerID = &ownerID
	}

	var ok bool
	if filter.ExerciseTypes, ok = resolveTags(query.ExerciseTypes, models.ExerciseTypes); !ok {
		return []models.Program{}, nil
	}
	if filter.ExerciseEquipment, ok = resolveTags(query.ExerciseEquipment, models.ExerciseEquipment); !ok {
		return []models.Program{}, nil
	}
	if filter.ExerciseMuscles, ok = resolveTags(query.ExerciseMuscles, models.ExerciseMuscles); !ok {
		return []models.Program{}, nil
	}

	return s.store.ListPrograms(ctx, filter)
}

func (s *ProgramService) GetProgram(
	ctx context.Context,
	actor models.Actor,
	id string,
) (*models.Program, error) {
	if actor.UserID == "" {
		return nil, ErrUnauthenticated
	}
	program, err := s.store.GetAggregate(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if !actor.CanAccess(program.OwnerID) {
		return nil, ErrForbidden
	}
	return program, nil
}

// CreateProgram writes the program, its children and their sets in one
// transaction, owned by the actor.
func (s *ProgramService) CreateProgram(
	ctx context.Context,
	actor models.Actor,
	input models.CreateProgramInput,
) (*models.Program, error) {
	if actor.UserID == "" {
		return nil, ErrUnauthenticated
	}
	if err := validation.DateRange(input.Program.StartDate, input.Program.EndDate); err != nil {
		return nil, err
	}

	var created *models.Program
	var tally reconcileTally
	err := s.store.WithTx(ctx, func(store repository.ProgramStore) error {
		program, err := store.CreateProgram(ctx, actor.UserID, input.Program)
		if err != nil {
			return fmt.Errorf("create program: %w", err)
		}
		for _, child := range input.ProgramExercises {
			if err := s.createProgramExercise(ctx, store, &tally, program.ID, child); err != nil {
				return err
			}
		}
		tally.add("program", "create")

		created, err = store.GetAggregate(ctx, program.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.record(tally)
	s.publish(models.ProgramCreated, created)
	return created, nil
}

// UpdateProgram applies a partial patch and the tagged child operations in one
// transaction. At each level creates and updates run before deletes. An
// update or delete whose id is not a child of this parent fails the whole
// write with ErrNotFound.
func (s *ProgramService) UpdateProgram(
	ctx context.Context,
	actor models.Actor,
	id string,
	input models.UpdateProgramInput,
) (*models.Program, error) {
	if actor.UserID == "" {
		return nil, ErrUnauthenticated
	}

	var updated *models.Program
	var tally reconcileTally
	err := s.store.WithTx(ctx, func(store repository.ProgramStore) error {
		current, err := store.GetProgram(ctx, id)
		if err != nil {
			return notFound(err)
		}
		if !actor.CanAccess(current.OwnerID) {
			return ErrForbidden
		}

		start, end := current.StartDate, current.EndDate
		if input.Program.StartDate != nil {
			start = *input.Program.StartDate
		}
		if input.Program.EndDate != nil {
			end = *input.Program.EndDate
		}
		if err := validation.DateRange(start, end); err != nil {
			return err
		}

		if err := store.UpdateProgram(ctx, id, input.Program); err != nil {
			return notFound(err)
		}
		tally.add("program", "update")

		if err := s.reconcileProgramExercises(ctx, store, &tally, id, input.ProgramExercises); err != nil {
			return err
		}

		updated, err = store.GetAggregate(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.record(tally)
	s.publish(models.ProgramUpdated, updated)
	return updated, nil
}

func (s *ProgramService) DeleteProgram(ctx context.Context, actor models.Actor, id string) error {
	if actor.UserID == "" {
		return ErrUnauthenticated
	}

	var ownerID string
	var tally reconcileTally
	err := s.store.WithTx(ctx, func(store repository.ProgramStore) error {
		current, err := store.GetProgram(ctx, id)
		if err != nil {
			return notFound(err)
		}
		if !actor.CanAccess(current.OwnerID) {
			return ErrForbidden
		}
		ownerID = current.OwnerID
		if err := store.DeleteProgram(ctx, id); err != nil {
			return notFound(err)
		}
		tally.add("program", "delete")
		return nil
	})
	if err != nil {
		return err
	}

	s.record(tally)
	if s.publisher != nil {
		s.publisher.PublishProgramEvent(models.ProgramEvent{
			Type:      models.ProgramDeleted,
			ProgramID: id,
			OwnerID:   ownerID,
		})
	}
	return nil
}

func (s *ProgramService) reconcileProgramExercises(
	ctx context.Context,
	store repository.ProgramStore,
	tally *reconcileTally,
	programID string,
	ops []models.ProgramExerciseOp,
) error {
	var deletes []models.DeleteProgramExercise
	for _, op := range ops {
		switch op := op.(type) {
		case models.CreateProgramExercise:
			if err := s.createProgramExercise(ctx, store, tally, programID, op); err != nil {
				return err
			}
		case models.UpdateProgramExercise:
			if err := store.UpdateProgramExercise(ctx, programID, op.ID, op.ProgramExercisePatch); err != nil {
				return fmt.Errorf("update program exercise %s: %w", op.ID, notFound(err))
			}
			tally.add("program_exercise", "update")
			if err := s.reconcileCoreSets(ctx, store, tally, op.ID, op.CoreSets); err != nil {
				return err
			}
		case models.DeleteProgramExercise:
			deletes = append(deletes, op)
		}
	}

	for _, op := range deletes {
		if err := store.DeleteProgramExercise(ctx, programID, op.ID); err != nil {
			return fmt.Errorf("delete program exercise %s: %w", op.ID, notFound(err))
		}
		tally.add("program_exercise", "delete")
	}
	return nil
}

func (s *ProgramService) reconcileCoreSets(
	ctx context.Context,
	store repository.ProgramStore,
	tally *reconcileTally,
	programExerciseID string,
	ops []models.CoreSetOp,
) error {
	var deletes []models.DeleteCoreSet
	for _, op := range ops {
		switch op := op.(type) {
		case models.CreateCoreSet:
			if _, err := store.CreateCoreSet(ctx, programExerciseID, op.NewCoreSet); err != nil {
				return fmt.Errorf("create core set: %w", err)
			}
			tally.add("core_set", "create")
		case models.UpdateCoreSet:
			if err := store.UpdateCoreSet(ctx, programExerciseID, op.ID, op.CoreSetPatch); err != nil {
				return fmt.Errorf("update core set %s: %w", op.ID, notFound(err))
			}
			tally.add("core_set", "update")
		case models.DeleteCoreSet:
			deletes = append(deletes, op)
		}
	}

	for _, op := range deletes {
		if err := store.DeleteCoreSet(ctx, programExerciseID, op.ID); err != nil {
			return fmt.Errorf("delete core set %s: %w", op.ID, notFound(err))
		}
		tally.add("core_set", "delete")
	}
	return nil
}

func (s *ProgramService) createProgramExercise(
	ctx context.Context,
	store repository.ProgramStore,
	tally *reconcileTally,
	programID string,
	input models.CreateProgramExercise,
) error {
	childID, err := store.CreateProgramExercise(ctx, programID, input.NewProgramExercise)
	if err != nil {
		return fmt.Errorf("create program exercise: %w", err)
	}
	tally.add("program_exercise", "create")

	for _, set := range input.CoreSets {
		if _, err := store.CreateCoreSet(ctx, childID, set.NewCoreSet); err != nil {
			return fmt.Errorf("create core set: %w", err)
		}
		tally.add("core_set", "create")
	}
	return nil
}

type reconcileStep struct {
	entity    string
	operation string
}

// reconcileTally holds the writes of one transaction until it commits.
type reconcileTally []reconcileStep

func (t *reconcileTally) add(entity, operation string) {
	*t = append(*t, reconcileStep{entity: entity, operation: operation})
}

func (s *ProgramService) record(tally reconcileTally) {
	if s.recorder == nil {
		return
	}
	for _, step := range tally {
		s.recorder.Reconciled(step.entity, step.operation)
	}
}

func (s *ProgramService) publish(eventType string, program *models.Program) {
	if s.publisher == nil || program == nil {
		return
	}
	s.publisher.PublishProgramEvent(models.ProgramEvent{
		Type:      eventType,
		ProgramID: program.ID,
		OwnerID:   program.OwnerID,
		Program:   program,
	})
}
