package validation

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/P4t4m8n/buff-buddy-api/internal/models"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	namePattern  = regexp.MustCompile(`^[a-zA-Z\s'-]+$`)

	lowerPattern   = regexp.MustCompile(`[a-z]`)
	upperPattern   = regexp.MustCompile(`[A-Z]`)
	digitPattern   = regexp.MustCompile(`\d`)
	specialPattern = regexp.MustCompile(`[@$!%*?&]`)
)

// SignUp validates a local account registration.
func SignUp(payload map[string]any) (models.SignUpInput, error) {
	errs := Errors{}
	o := newObject(payload, errs)

	var input models.SignUpInput
	input.Email, _ = o.email("email", true)
	password, hasPassword := o.password("password", "Password", true)
	confirm, hasConfirm := o.text("confirmPassword", textRule{
		label:     "Password confirmation",
		required:  true,
		stripOnly: true,
	})
	if hasPassword {
		input.Password = &password
	}
	if hasPassword && hasConfirm && password != confirm {
		o.fail("confirmPassword", "Passwords do not match")
	}
	input.FirstName = o.personName("firstName", "First name", true)
	input.LastName = o.personName("lastName", "Last name", true)
	if img, ok := o.text("imgUrl", textRule{label: "Image URL", noCollapse: true}); ok {
		input.ImgURL = &img
	}

	if err := errs.Err(); err != nil {
		return models.SignUpInput{}, err
	}
	return input, nil
}

// SignIn validates local credentials.
func SignIn(payload map[string]any) (models.SignInInput, error) {
	errs := Errors{}
	o := newObject(payload, errs)

	var input models.SignInInput
	input.Email, _ = o.email("email", true)
	if password, ok := o.text("password", textRule{
		label:     "Password",
		required:  true,
		rawMax:    128,
		stripOnly: true,
	}); ok {
		input.Password = &password
	}

	if err := errs.Err(); err != nil {
		return models.SignInInput{}, err
	}
	return input, nil
}

// ExternalIdentity validates the profile returned by an identity provider,
// keyed googleId, email, firstName, lastName and imgUrl.
func ExternalIdentity(payload map[string]any) (models.SignUpInput, error) {
	errs := Errors{}
	o := newObject(payload, errs)

	var input models.SignUpInput
	if id, ok := o.text("googleId", textRule{label: "Google ID", required: true, noCollapse: true}); ok {
		input.GoogleID = &id
	}
	input.Email, _ = o.email("email", true)
	input.FirstName = o.personName("firstName", "First name", false)
	input.LastName = o.personName("lastName", "Last name", false)
	if img, ok := o.text("imgUrl", textRule{label: "Image URL", noCollapse: true}); ok {
		input.ImgURL = &img
	}

	if err := errs.Err(); err != nil {
		return models.SignUpInput{}, err
	}
	return input, nil
}

func UpdateUser(payload map[string]any) (models.UpdateUserInput, error) {
	errs := Errors{}
	o := newObject(payload, errs)

	input := models.UpdateUserInput{
		FirstName: o.personName("firstName", "First name", false),
		LastName:  o.personName("lastName", "Last name", false),
	}

	if err := errs.Err(); err != nil {
		return models.UpdateUserInput{}, err
	}
	return input, nil
}

func ChangePassword(payload map[string]any) (models.ChangePasswordInput, error) {
	errs := Errors{}
	o := newObject(payload, errs)

	current, hasCurrent := o.text("currentPassword", textRule{
		label:     "Current password",
		required:  true,
		stripOnly: true,
	})
	next, hasNext := o.password("newPassword", "New password", true)
	confirm, hasConfirm := o.text("confirmNewPassword", textRule{
		label:     "Password confirmation",
		required:  true,
		stripOnly: true,
	})
	if hasNext && hasConfirm && next != confirm {
		o.fail("confirmNewPassword", "New passwords do not match")
	}
	if hasCurrent && hasNext && current == next {
		o.fail("newPassword", "New password must be different from current password")
	}

	if err := errs.Err(); err != nil {
		return models.ChangePasswordInput{}, err
	}
	return models.ChangePasswordInput{CurrentPassword: current, NewPassword: next}, nil
}

func (o *object) email(key string, required bool) (string, bool) {
	value, ok := o.text(key, textRule{
		label:      "Email",
		required:   required,
		rawMax:     255,
		lower:      true,
		noCollapse: true,
	})
	if !ok {
		return "", false
	}
	if !emailPattern.MatchString(value) {
		o.fail(key, "Must be a valid email address")
		return "", false
	}
	return value, true
}

// password applies the strength rules to a new secret. Length is measured on
// the raw input; markup is stripped but whitespace is kept.
func (o *object) password(key, label string, required bool) (string, bool) {
	raw, ok := o.value(key)
	if !ok {
		if required {
			o.fail(key, label+" is required")
		}
		return "", false
	}
	str, ok := raw.(string)
	if !ok {
		o.fail(key, label+" must be a string")
		return "", false
	}
	length := utf8.RuneCountInString(str)
	if length < 8 {
		o.fail(key, label+" must be at least 8 characters")
		return "", false
	}
	if length > 128 {
		o.fail(key, label+" must be less than 128 characters")
		return "", false
	}

	value := StripHTML(str)
	checks := []struct {
		pattern *regexp.Regexp
		what    string
	}{
		{lowerPattern, "one lowercase letter"},
		{upperPattern, "one uppercase letter"},
		{digitPattern, "one number"},
		{specialPattern, "one special character (@$!%*?&)"},
	}
	for _, check := range checks {
		if !check.pattern.MatchString(value) {
			o.fail(key, fmt.Sprintf("%s must contain at least %s", label, check.what))
			return "", false
		}
	}
	return value, true
}

// personName returns nil for absent or blank names.
func (o *object) personName(key, label string, lettersOnly bool) *string {
	value, ok := o.text(key, textRule{label: label, max: 50})
	if !ok {
		return nil
	}
	if lettersOnly && !namePattern.MatchString(value) {
		o.fail(key, label+" can only contain letters, spaces, hyphens, and apostrophes")
		return nil
	}
	return &value
}
