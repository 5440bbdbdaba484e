package validation

import (
	"github.com/P4t4m8n/buff-buddy-api/internal/models"
)

// ExerciseQuery reads listing filters from query parameters.
func ExerciseQuery(params map[string]string) (models.ExerciseQuery, error) {
	errs := Errors{}
	o := newObject(queryObject(params), errs)

	query := models.ExerciseQuery{
		Name:      o.filterText("name"),
		Types:     o.filterText("types"),
		Equipment: o.filterText("equipment"),
		Muscles:   o.filterText("muscles"),
		Page:      o.page(),
	}

	if err := errs.Err(); err != nil {
		return models.ExerciseQuery{}, err
	}
	return query, nil
}

// ProgramQuery reads listing filters from query parameters.
func ProgramQuery(params map[string]string) (models.ProgramQuery, error) {
	errs := Errors{}
	o := newObject(queryObject(params), errs)

	query := models.ProgramQuery{
		Name:              o.filterText("name"),
		ExerciseName:      o.filterText("exerciseName"),
		ExerciseTypes:     o.filterText("exerciseTypes"),
		ExerciseEquipment: o.filterText("exerciseEquipment"),
		ExerciseMuscles:   o.filterText("exerciseMuscles"),
		Page:              o.page(),
	}
	if active, ok := o.boolean("isActive", "Is active"); ok {
		query.IsActive = &active
	}

	if err := errs.Err(); err != nil {
		return models.ProgramQuery{}, err
	}
	return query, nil
}

func queryObject(params map[string]string) map[string]any {
	data := make(map[string]any, len(params))
	for key, value := range params {
		if value == "" {
			continue
		}
		data[key] = value
	}
	return data
}

func (o *object) filterText(key string) string {
	value, _ := o.text(key, textRule{label: key, max: 200})
	return value
}

func (o *object) page() models.Page {
	var page models.Page
	if skip, ok := o.integer("skip", numberRule{
		label:  "Skip",
		min:    0,
		max:    1_000_000,
		minMsg: "Skip cannot be negative",
		maxMsg: "Skip is too large",
	}); ok {
		page.Skip = &skip
	}
	if number, ok := o.integer("page", numberRule{
		label:  "Page",
		min:    1,
		max:    1_000_000,
		minMsg: "Page must be at least 1",
		maxMsg: "Page is too large",
	}); ok {
		page.Number = &number
	}
	return page
}
