package models

import "time"

var ExerciseTypes = []string{"strength", "cardio", "flexibility", "balance"}

var ExerciseEquipment = []string{
	"barbell",
	"body_weight",
	"cable",
	"dumbbell",
	"kettlebell",
	"medicine_ball",
	"none",
	"resistance_band",
}

var ExerciseMuscles = []string{
	"abs",
	"back",
	"biceps",
	"calves",
	"chest",
	"core",
	"forearms",
	"glutes",
	"hamstrings",
	"hip_flexors",
	"lower_back",
	"neck",
	"obliques",
	"quads",
	"rear_delts",
	"shoulders",
	"shins",
	"traps",
	"triceps",
	"upper_back",
}

type Exercise struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	YoutubeURL string    `json:"youtubeUrl"`
	Types      []string  `json:"types"`
	Equipment  []string  `json:"equipment"`
	Muscles    []string  `json:"muscles"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type NewExercise struct {
	Name       string
	YoutubeURL string
	Types      []string
	Equipment  []string
	Muscles    []string
}

// ExercisePatch carries only the fields a partial update touches; nil fields
// are left as stored.
type ExercisePatch struct {
	Name       *string
	YoutubeURL *string
	Types      []string
	Equipment  []string
	Muscles    []string
}

func (p ExercisePatch) IsEmpty() bool {
	return p.Name == nil && p.YoutubeURL == nil &&
		len(p.Types) == 0 && len(p.Equipment) == 0 && len(p.Muscles) == 0
}

// ExerciseQuery is the raw listing request as received from the client.
type ExerciseQuery struct {
	Name      string
	Types     string
	Equipment string
	Muscles   string
	Page      Page
}

// ExerciseFilter is an ExerciseQuery whose tag filters were resolved against
// the known vocabulary.
type ExerciseFilter struct {
	Name      string
	Types     []string
	Equipment []string
	Muscles   []string
	Offset    int
	Limit     int
}
