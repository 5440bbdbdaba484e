package models

import "time"

type NewProgram struct {
	Name      string
	Notes     *string
	IsActive  bool
	StartDate time.Time
	EndDate   time.Time
}

type ProgramPatch struct {
	Name      *string
	Notes     *string
	IsActive  *bool
	StartDate *time.Time
	EndDate   *time.Time
}

func (p ProgramPatch) IsEmpty() bool {
	return p.Name == nil && p.Notes == nil && p.IsActive == nil &&
		p.StartDate == nil && p.EndDate == nil
}

type CreateProgramInput struct {
	Program          NewProgram
	ProgramExercises []CreateProgramExercise
}

type UpdateProgramInput struct {
	Program          ProgramPatch
	ProgramExercises []ProgramExerciseOp
}

type NewProgramExercise struct {
	ExerciseID string
	Order      int
	Notes      *string
	IsActive   bool
	DaysOfWeek []string
}

type ProgramExercisePatch struct {
	ExerciseID *string
	Order      *int
	Notes      *string
	IsActive   *bool
	DaysOfWeek []string
}

func (p ProgramExercisePatch) IsEmpty() bool {
	return p.ExerciseID == nil && p.Order == nil && p.Notes == nil &&
		p.IsActive == nil && len(p.DaysOfWeek) == 0
}

type NewCoreSet struct {
	Reps          int
	Weight        float64
	RestTime      int
	Order         int
	IsWarmup      bool
	RepsInReserve *int
}

type CoreSetPatch struct {
	Reps          *int
	Weight        *float64
	RestTime      *int
	Order         *int
	IsWarmup      *bool
	RepsInReserve *int
}

func (p CoreSetPatch) IsEmpty() bool {
	return p.Reps == nil && p.Weight == nil && p.RestTime == nil &&
		p.Order == nil && p.IsWarmup == nil && p.RepsInReserve == nil
}

// ProgramExerciseOp is one reconciliation step for a program's children:
// CreateProgramExercise, UpdateProgramExercise or DeleteProgramExercise.
type ProgramExerciseOp interface {
	programExerciseOp()
}

type CreateProgramExercise struct {
	NewProgramExercise
	CoreSets []CreateCoreSet
}

// UpdateProgramExercise patches an existing child and reconciles its sets.
// An empty patch leaves the row untouched and only applies CoreSets.
type UpdateProgramExercise struct {
	ID string
	ProgramExercisePatch
	CoreSets []CoreSetOp
}

type DeleteProgramExercise struct {
	ID string
}

func (CreateProgramExercise) programExerciseOp() {}
func (UpdateProgramExercise) programExerciseOp() {}
func (DeleteProgramExercise) programExerciseOp() {}

// CoreSetOp is one reconciliation step for a program exercise's sets.
type CoreSetOp interface {
	coreSetOp()
}

type CreateCoreSet struct {
	NewCoreSet
}

type UpdateCoreSet struct {
	ID string
	CoreSetPatch
}

type DeleteCoreSet struct {
	ID string
}

func (CreateCoreSet) coreSetOp() {}
func (UpdateCoreSet) coreSetOp() {}
func (DeleteCoreSet) coreSetOp() {}
