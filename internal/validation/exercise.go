package validation

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/P4t4m8n/buff-buddy-api/internal/models"
)

var youtubeWatchPattern = regexp.MustCompile(`^https://www\.youtube\.com/watch\?v=[\w-]+`)

var (
	exerciseNameRule = textRule{label: "Exercise name", required: true, rawMax: 200, max: 100}

	exerciseTypesRule = setRule{
		allowed:    models.ExerciseTypes,
		min:        1,
		max:        4,
		minMsg:     "At least one exercise type is required",
		maxMsg:     "Maximum 4 exercise types allowed",
		invalidMsg: "Invalid exercise type",
	}
	exerciseEquipmentRule = setRule{
		allowed:    models.ExerciseEquipment,
		min:        1,
		max:        8,
		minMsg:     "At least one equipment type is required",
		maxMsg:     "Maximum 8 equipment types allowed",
		invalidMsg: "Invalid equipment type",
	}
	exerciseMusclesRule = setRule{
		allowed:    models.ExerciseMuscles,
		min:        1,
		max:        21,
		minMsg:     "At least one muscle group is required",
		maxMsg:     "Maximum 21 muscle groups allowed",
		invalidMsg: "Invalid muscle group",
	}
)

// ExerciseCreate validates a full exercise payload.
func ExerciseCreate(payload map[string]any) (models.NewExercise, error) {
	errs := Errors{}
	o := newObject(payload, errs)

	var input models.NewExercise
	input.Name, _ = o.text("name", exerciseNameRule)
	input.YoutubeURL, _ = o.youtubeURL("youtubeUrl", true)

	types := exerciseTypesRule
	types.required = true
	input.Types, _ = o.set("types", types)

	equipment := exerciseEquipmentRule
	equipment.required = true
	input.Equipment, _ = o.set("equipment", equipment)

	muscles := exerciseMusclesRule
	muscles.required = true
	input.Muscles, _ = o.set("muscles", muscles)

	if err := errs.Err(); err != nil {
		return models.NewExercise{}, err
	}
	return input, nil
}

// ExerciseUpdate validates a partial exercise payload. Fields that are absent
// or null are left out of the patch.
func ExerciseUpdate(payload map[string]any) (models.ExercisePatch, error) {
	errs := Errors{}
	o := newObject(payload, errs)

	var patch models.ExercisePatch
	nameRule := exerciseNameRule
	nameRule.required = false
	if name, ok := o.text("name", nameRule); ok {
		patch.Name = &name
	}
	if link, ok := o.youtubeURL("youtubeUrl", false); ok {
		patch.YoutubeURL = &link
	}
	patch.Types, _ = o.set("types", exerciseTypesRule)
	patch.Equipment, _ = o.set("equipment", exerciseEquipmentRule)
	patch.Muscles, _ = o.set("muscles", exerciseMusclesRule)

	if err := errs.Err(); err != nil {
		return models.ExercisePatch{}, err
	}
	return patch, nil
}

func (o *object) youtubeURL(key string, required bool) (string, bool) {
	value, ok := o.text(key, textRule{label: "YouTube URL", required: required, noCollapse: true})
	if !ok {
		return "", false
	}
	value = NormalizeYoutubeURL(value)

	parsed, err := url.Parse(value)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		o.fail(key, "Must be a valid URL")
		return "", false
	}
	if !youtubeWatchPattern.MatchString(value) {
		o.fail(key, "Must be a valid YouTube URL")
		return "", false
	}
	return value, true
}

// NormalizeYoutubeURL rewrites short links and scheme-less watch links into
// the canonical https://www.youtube.com/watch?v= form. Other values pass through.
func NormalizeYoutubeURL(link string) string {
	if _, rest, found := strings.Cut(link, "youtu.be/"); found {
		videoID, _, _ := strings.Cut(rest, "?")
		return "https://www.youtube.com/watch?v=" + videoID
	}
	if strings.Contains(link, "youtube.com/watch") {
		if !strings.HasPrefix(link, "http") {
			link = "https://" + link
		}
		if !strings.Contains(link, "www.") {
			link = strings.Replace(link, "youtube.com", "www.youtube.com", 1)
		}
	}
	return link
}
