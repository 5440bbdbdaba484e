package validation

import (
	"time"

	"github.com/P4t4m8n/buff-buddy-api/internal/models"
)

// Operation is the per-node tag a client attaches to nested program children.
type Operation string

const (
	OpRead   Operation = "read"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// operationKeys lists the accepted tag keys; the misspelt one is still sent
// by older clients.
var operationKeys = []string{"crudOperation", "curdOperation"}

const endDateMessage = "End date must be after start date"

var (
	programNameRule  = textRule{label: "Program name", required: true, rawMax: 200, max: 100}
	programNotesRule = textRule{label: "Notes", max: 1000}

	programExercisesCreateRule = listRule{
		required: true,
		min:      1,
		max:      50,
		minMsg:   "At least one exercise is required",
		maxMsg:   "Maximum 50 exercises allowed per program",
	}

	exerciseNotesRule = textRule{label: "Notes", max: 500}
	daysOfWeekRule    = setRule{
		allowed:    models.DaysOfWeek,
		min:        1,
		max:        7,
		minMsg:     "At least one day of the week is required",
		maxMsg:     "Maximum 7 days allowed",
		invalidMsg: "Invalid day of the week",
	}
	coreSetsCreateRule = listRule{
		required: true,
		min:      1,
		max:      20,
		minMsg:   "At least one set is required",
		maxMsg:   "Maximum 20 sets allowed per exercise",
	}

	orderRule = numberRule{
		label:  "Order",
		min:    1,
		max:    100,
		minMsg: "Order must be at least 1",
		maxMsg: "Order cannot exceed 100",
	}
	repsRule = numberRule{
		label:  "Reps",
		min:    1,
		max:    1000,
		minMsg: "Reps must be at least 1",
		maxMsg: "Reps cannot exceed 1000",
	}
	weightRule = numberRule{
		label:  "Weight",
		min:    0,
		max:    10000,
		minMsg: "Weight cannot be negative",
		maxMsg: "Weight cannot exceed 10000",
	}
	restTimeRule = numberRule{
		label:  "Rest time",
		min:    0,
		max:    3600,
		minMsg: "Rest time cannot be negative",
		maxMsg: "Rest time cannot exceed 1 hour (3600 seconds)",
	}
	repsInReserveRule = numberRule{
		label:  "Reps in reserve",
		min:    0,
		max:    20,
		minMsg: "Reps in reserve cannot be negative",
		maxMsg: "Reps in reserve cannot exceed 20",
	}
)

// ProgramCreate validates a new program aggregate. Only children tagged
// "create" (and their "create" sets) end up in the result.
func ProgramCreate(payload map[string]any) (models.CreateProgramInput, error) {
	errs := Errors{}
	o := newObject(payload, errs)

	var input models.CreateProgramInput
	input.Program.Name, _ = o.text("name", programNameRule)
	if notes, ok := o.text("notes", programNotesRule); ok {
		input.Program.Notes = &notes
	}
	input.Program.IsActive = true
	if active, ok := o.boolean("isActive", "Is active"); ok {
		input.Program.IsActive = active
	}

	start, hasStart := o.date("startDate", "Start date", "Invalid start date", true)
	end, hasEnd := o.date("endDate", "End date", "Invalid end date", true)
	if hasStart && hasEnd && !end.After(start) {
		o.fail("endDate", endDateMessage)
	}
	input.Program.StartDate, input.Program.EndDate = start, end

	children, _ := o.objects("programExercises", programExercisesCreateRule)
	for _, child := range children {
		op, ok := child.operation()
		if !ok || op != OpCreate {
			continue
		}
		if created, ok := child.createProgramExercise(onlyTaggedSets); ok {
			input.ProgramExercises = append(input.ProgramExercises, created)
		}
	}

	if err := errs.Err(); err != nil {
		return models.CreateProgramInput{}, err
	}
	return input, nil
}

// ProgramUpdate validates a partial program write with tagged children.
// Untagged or "read" children that carry an id are treated as updates so
// their fields and nested sets still apply; without an id they are ignored.
func ProgramUpdate(payload map[string]any) (models.UpdateProgramInput, error) {
	errs := Errors{}
	o := newObject(payload, errs)

	var input models.UpdateProgramInput
	nameRule := programNameRule
	nameRule.required = false
	if name, ok := o.text("name", nameRule); ok {
		input.Program.Name = &name
	}
	if notes, ok := o.text("notes", programNotesRule); ok {
		input.Program.Notes = &notes
	}
	if active, ok := o.boolean("isActive", "Is active"); ok {
		input.Program.IsActive = &active
	}

	start, hasStart := o.date("startDate", "Start date", "Invalid start date", false)
	end, hasEnd := o.date("endDate", "End date", "Invalid end date", false)
	if hasStart {
		input.Program.StartDate = &start
	}
	if hasEnd {
		input.Program.EndDate = &end
	}
	if hasStart && hasEnd && !end.After(start) {
		o.fail("endDate", endDateMessage)
	}

	children, _ := o.objects("programExercises", listRule{
		max:    programExercisesCreateRule.max,
		maxMsg: programExercisesCreateRule.maxMsg,
	})
	for _, child := range children {
		op, ok := child.operation()
		if !ok {
			continue
		}
		if step := child.programExerciseOp(op); step != nil {
			input.ProgramExercises = append(input.ProgramExercises, step)
		}
	}

	if err := errs.Err(); err != nil {
		return models.UpdateProgramInput{}, err
	}
	return input, nil
}

// DateRange reports an endDate failure when end is not strictly after start.
func DateRange(start, end time.Time) error {
	if end.After(start) {
		return nil
	}
	return Errors{"endDate": endDateMessage}
}

func (o *object) operation() (Operation, bool) {
	for _, key := range operationKeys {
		raw, ok := o.value(key)
		if !ok {
			continue
		}
		tag, isString := raw.(string)
		switch op := Operation(Clean(tag)); {
		case !isString:
		case op == OpRead, op == OpCreate, op == OpUpdate, op == OpDelete:
			return op, true
		}
		o.fail(key, "Invalid operation")
		return "", false
	}
	return OpRead, true
}

func (o *object) programExerciseOp(op Operation) models.ProgramExerciseOp {
	switch op {
	case OpCreate:
		if created, ok := o.createProgramExercise(allLiveSets); ok {
			return created
		}
		return nil
	case OpDelete:
		if id, ok := o.id("id", "Program exercise ID", false); ok {
			return models.DeleteProgramExercise{ID: id}
		}
		return nil
	case OpUpdate:
		id, ok := o.id("id", "Program exercise ID", true)
		updated, valid := o.updateProgramExercise(id)
		if !ok || !valid {
			return nil
		}
		return updated
	default:
		if _, present := o.value("id"); !present {
			return nil
		}
		id, ok := o.id("id", "Program exercise ID", false)
		updated, valid := o.updateProgramExercise(id)
		if !ok || !valid {
			return nil
		}
		return updated
	}
}

// newSetFilter picks which sets of a newly created program exercise are
// inserted.
type newSetFilter func(op Operation) bool

// onlyTaggedSets keeps the sets explicitly tagged "create".
func onlyTaggedSets(op Operation) bool {
	return op == OpCreate
}

// allLiveSets keeps every set except those tagged "delete". A new child has
// no stored sets, so untagged and "update" sets are inserted too.
func allLiveSets(op Operation) bool {
	return op != OpDelete
}

func (o *object) createProgramExercise(keep newSetFilter) (models.CreateProgramExercise, bool) {
	before := len(o.errs)

	var created models.CreateProgramExercise
	order := orderRule
	order.required = true
	created.Order, _ = o.integer("order", order)
	if notes, ok := o.text("notes", exerciseNotesRule); ok {
		created.Notes = &notes
	}
	days := daysOfWeekRule
	days.required = true
	created.DaysOfWeek, _ = o.set("daysOfWeek", days)
	created.ExerciseID, _ = o.id("exerciseId", "Exercise ID", true)
	created.IsActive = true
	if active, ok := o.boolean("isActive", "Is active"); ok {
		created.IsActive = active
	}

	sets, _ := o.objects("coreSets", coreSetsCreateRule)
	for _, set := range sets {
		op, ok := set.operation()
		if !ok || !keep(op) {
			continue
		}
		if coreSet, ok := set.createCoreSet(); ok {
			created.CoreSets = append(created.CoreSets, coreSet)
		}
	}

	return created, len(o.errs) == before
}

func (o *object) updateProgramExercise(id string) (models.UpdateProgramExercise, bool) {
	before := len(o.errs)

	updated := models.UpdateProgramExercise{ID: id}
	if order, ok := o.integer("order", orderRule); ok {
		updated.Order = &order
	}
	if notes, ok := o.text("notes", exerciseNotesRule); ok {
		updated.Notes = &notes
	}
	updated.DaysOfWeek, _ = o.set("daysOfWeek", daysOfWeekRule)
	if exerciseID, ok := o.id("exerciseId", "Exercise ID", false); ok {
		updated.ExerciseID = &exerciseID
	}
	if active, ok := o.boolean("isActive", "Is active"); ok {
		updated.IsActive = &active
	}

	sets, _ := o.objects("coreSets", listRule{
		max:    coreSetsCreateRule.max,
		maxMsg: coreSetsCreateRule.maxMsg,
	})
	for _, set := range sets {
		op, ok := set.operation()
		if !ok {
			continue
		}
		if step := set.coreSetOp(op); step != nil {
			updated.CoreSets = append(updated.CoreSets, step)
		}
	}

	return updated, len(o.errs) == before
}

func (o *object) coreSetOp(op Operation) models.CoreSetOp {
	switch op {
	case OpCreate:
		if created, ok := o.createCoreSet(); ok {
			return created
		}
		return nil
	case OpDelete:
		if id, ok := o.id("id", "Core set ID", false); ok {
			return models.DeleteCoreSet{ID: id}
		}
		return nil
	case OpUpdate:
		id, ok := o.id("id", "Core set ID", true)
		updated, valid := o.updateCoreSet(id)
		if !ok || !valid {
			return nil
		}
		return updated
	default:
		if _, present := o.value("id"); !present {
			return nil
		}
		id, ok := o.id("id", "Core set ID", false)
		updated, valid := o.updateCoreSet(id)
		if !ok || !valid {
			return nil
		}
		return updated
	}
}

func (o *object) createCoreSet() (models.CreateCoreSet, bool) {
	before := len(o.errs)

	var created models.CreateCoreSet
	reps := repsRule
	reps.required = true
	created.Reps, _ = o.integer("reps", reps)

	weight := weightRule
	weight.required = true
	if value, ok := o.number("weight", weight); ok {
		created.Weight = roundTo2(value)
	}

	rest := restTimeRule
	rest.required = true
	created.RestTime, _ = o.integer("restTime", rest)

	order := orderRule
	order.required = true
	created.Order, _ = o.integer("order", order)

	if warmup, ok := o.boolean("isWarmup", "Is warmup"); ok {
		created.IsWarmup = warmup
	}

	switch {
	case o.isNull("repsInReserve"):
		created.RepsInReserve = nil
	default:
		created.RepsInReserve = ptr(0)
		if rir, ok := o.integer("repsInReserve", repsInReserveRule); ok {
			created.RepsInReserve = &rir
		}
	}

	return created, len(o.errs) == before
}

func (o *object) updateCoreSet(id string) (models.UpdateCoreSet, bool) {
	before := len(o.errs)

	updated := models.UpdateCoreSet{ID: id}
	if reps, ok := o.integer("reps", repsRule); ok {
		updated.Reps = &reps
	}
	if weight, ok := o.number("weight", weightRule); ok {
		updated.Weight = ptr(roundTo2(weight))
	}
	if rest, ok := o.integer("restTime", restTimeRule); ok {
		updated.RestTime = &rest
	}
	if order, ok := o.integer("order", orderRule); ok {
		updated.Order = &order
	}
	if warmup, ok := o.boolean("isWarmup", "Is warmup"); ok {
		updated.IsWarmup = &warmup
	}
	if rir, ok := o.integer("repsInReserve", repsInReserveRule); ok {
		updated.RepsInReserve = &rir
	}

	return updated, len(o.errs) == before
}
