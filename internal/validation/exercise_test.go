package validation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExerciseCreateNormalizesInput(t *testing.T) {
	payload := mustDecode(t, `{
		"name": " <b>Hammer</b>   curl ",
		"youtubeUrl": "https://youtu.be/abc-123?t=4",
		"types": ["strength", "Strength"],
		"equipment": ["dumbbell"],
		"muscles": ["biceps", "forearms", "biceps"]
	}`)

	input, err := ExerciseCreate(payload)
	require.NoError(t, err)
	require.Equal(t, "Hammer curl", input.Name)
	require.Equal(t, "https://www.youtube.com/watch?v=abc-123", input.YoutubeURL)
	require.Equal(t, []string{"strength"}, input.Types)
	require.Equal(t, []string{"biceps", "forearms"}, input.Muscles)
}

func TestExerciseCreateReportsAllFields(t *testing.T) {
	payload := mustDecode(t, `{
		"youtubeUrl": "https://vimeo.com/42",
		"types": [],
		"equipment": ["anvil"],
		"muscles": "biceps"
	}`)

	_, err := ExerciseCreate(payload)
	errs := requireErrors(t, err)
	require.Equal(t, "Exercise name is required", errs["name"])
	require.Equal(t, "Must be a valid YouTube URL", errs["youtubeUrl"])
	require.Equal(t, "At least one exercise type is required", errs["types"])
	require.Equal(t, "Invalid equipment type", errs["equipment.0"])
	require.Equal(t, "Expected an array", errs["muscles"])
}

func TestExerciseUpdateSkipsAbsentFields(t *testing.T) {
	patch, err := ExerciseUpdate(mustDecode(t, `{"name": "Row", "youtubeUrl": null}`))
	require.NoError(t, err)
	require.Equal(t, "Row", *patch.Name)
	require.Nil(t, patch.YoutubeURL)
	require.Nil(t, patch.Types)

	_, err = ExerciseUpdate(mustDecode(t, `{"name": "<p></p>"}`))
	require.NoError(t, err)
}

func TestNormalizeYoutubeURL(t *testing.T) {
	cases := map[string]string{
		"youtube.com/watch?v=abc":             "https://www.youtube.com/watch?v=abc",
		"https://youtube.com/watch?v=abc":     "https://www.youtube.com/watch?v=abc",
		"https://www.youtube.com/watch?v=abc": "https://www.youtube.com/watch?v=abc",
		"youtu.be/xyz":                        "https://www.youtube.com/watch?v=xyz",
		"https://example.com":                 "https://example.com",
	}
	for input, want := range cases {
		require.Equal(t, want, NormalizeYoutubeURL(input), "input %q", input)
	}
}

func TestDecodeRejectsNonObjects(t *testing.T) {
	_, err := Decode([]byte(`[1, 2]`))
	require.Equal(t, "Expected an object", requireErrors(t, err)["body"])

	_, err = Decode([]byte(`{"a": 1} {"b": 2}`))
	require.Equal(t, "Invalid JSON payload", requireErrors(t, err)["body"])

	payload, err := Decode(nil)
	require.NoError(t, err)
	require.Empty(t, payload)
}
