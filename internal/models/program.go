package models

import "time"

var DaysOfWeek = []string{
	"monday",
	"tuesday",
	"wednesday",
	"thursday",
	"friday",
	"saturday",
	"sunday",
}

type Program struct {
	ID               string            `json:"id"`
	OwnerID          string            `json:"ownerId"`
	Name             string            `json:"name"`
	Notes            *string           `json:"notes"`
	IsActive         bool              `json:"isActive"`
	StartDate        time.Time         `json:"startDate"`
	EndDate          time.Time         `json:"endDate"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
	ProgramExercises []ProgramExercise `json:"programExercises"`
}

type ProgramExercise struct {
	ID         string    `json:"id"`
	ProgramID  string    `json:"programId"`
	ExerciseID string    `json:"exerciseId"`
	Order      int       `json:"order"`
	Notes      *string   `json:"notes"`
	IsActive   bool      `json:"isActive"`
	DaysOfWeek []string  `json:"daysOfWeek"`
	Exercise   *Exercise `json:"exercise,omitempty"`
	CoreSets   []CoreSet `json:"coreSets"`
}

type CoreSet struct {
	ID                string  `json:"id"`
	ProgramExerciseID string  `json:"programExerciseId"`
	Reps              int     `json:"reps"`
	Weight            float64 `json:"weight"`
	RestTime          int     `json:"restTime"`
	Order             int     `json:"order"`
	IsWarmup          bool    `json:"isWarmup"`
	RepsInReserve     *int    `json:"repsInReserve"`
}

// ProgramQuery is the raw listing request as received from the client.
type ProgramQuery struct {
	Name              string
	IsActive          *bool
	ExerciseName      string
	ExerciseTypes     string
	ExerciseEquipment string
	ExerciseMuscles   string
	Page              Page
}

type ProgramFilter struct {
	OwnerID           *string
	Name              string
	IsActive          *bool
	ExerciseName      string
	ExerciseTypes     []string
	ExerciseEquipment []string
	ExerciseMuscles   []string
	Offset            int
	Limit             int
}
