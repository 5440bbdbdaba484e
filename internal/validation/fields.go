package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// object reads one JSON object and records failures under its path prefix.
type object struct {
	data   map[string]any
	prefix string
	errs   Errors
}

func newObject(data map[string]any, errs Errors) *object {
	if data == nil {
		data = map[string]any{}
	}
	return &object{data: data, errs: errs}
}

func (o *object) child(key string, index int, data map[string]any) *object {
	return &object{
		data:   data,
		prefix: o.path(key) + "." + strconv.Itoa(index),
		errs:   o.errs,
	}
}

func (o *object) path(key string) string {
	if o.prefix == "" {
		return key
	}
	return o.prefix + "." + key
}

func (o *object) fail(key, message string) {
	o.errs.Add(o.path(key), message)
}

// value returns the raw value; null and missing are both reported as absent.
func (o *object) value(key string) (any, bool) {
	raw, ok := o.data[key]
	if !ok || raw == nil {
		return nil, false
	}
	return raw, true
}

func (o *object) isNull(key string) bool {
	raw, ok := o.data[key]
	return ok && raw == nil
}

type textRule struct {
	label    string
	required bool
	// rawMax bounds the unsanitized input, max the sanitized value.
	rawMax int
	max    int
	// maxMessage overrides the default "<label> must be less than N characters".
	maxMessage string
	lower      bool
	// stripOnly keeps surrounding and inner whitespace (passwords).
	stripOnly bool
	// noCollapse trims but keeps inner whitespace (urls, ids).
	noCollapse bool
}

func (o *object) text(key string, rule textRule) (string, bool) {
	raw, ok := o.value(key)
	if !ok {
		if rule.required {
			o.fail(key, rule.label+" is required")
		}
		return "", false
	}
	str, ok := raw.(string)
	if !ok {
		o.fail(key, rule.label+" must be a string")
		return "", false
	}
	if rule.required && str == "" {
		o.fail(key, rule.label+" is required")
		return "", false
	}
	if rule.rawMax > 0 && len([]rune(str)) > rule.rawMax {
		o.fail(key, fmt.Sprintf("%s must be less than %d characters", rule.label, rule.rawMax))
		return "", false
	}

	var value string
	switch {
	case rule.stripOnly:
		value = StripHTML(str)
	case rule.noCollapse:
		value = strings.TrimSpace(StripHTML(str))
	default:
		value = Clean(str)
	}
	if rule.lower {
		value = strings.ToLower(value)
	}

	if value == "" {
		if rule.required {
			o.fail(key, rule.label+" is required after sanitization")
		}
		return "", false
	}
	if rule.max > 0 && len([]rune(value)) > rule.max {
		message := rule.maxMessage
		if message == "" {
			message = fmt.Sprintf("%s must be less than %d characters", rule.label, rule.max)
		}
		o.fail(key, message)
		return "", false
	}
	return value, true
}

type numberRule struct {
	label    string
	required bool
	integer  bool
	min      float64
	max      float64
	minMsg   string
	maxMsg   string
}

func (o *object) number(key string, rule numberRule) (float64, bool) {
	raw, ok := o.value(key)
	if !ok {
		if rule.required {
			o.fail(key, rule.label+" is required")
		}
		return 0, false
	}
	value, ok := toNumber(raw)
	if !ok {
		o.fail(key, rule.label+" must be a number")
		return 0, false
	}
	if rule.integer && value != math.Trunc(value) {
		o.fail(key, rule.label+" must be a whole number")
		return 0, false
	}
	if value < rule.min {
		o.fail(key, rule.minMsg)
		return 0, false
	}
	if value > rule.max {
		o.fail(key, rule.maxMsg)
		return 0, false
	}
	return value, true
}

func (o *object) integer(key string, rule numberRule) (int, bool) {
	rule.integer = true
	value, ok := o.number(key, rule)
	return int(value), ok
}

func (o *object) boolean(key, label string) (bool, bool) {
	raw, ok := o.value(key)
	if !ok {
		return false, false
	}
	value, ok := toBool(raw)
	if !ok {
		o.fail(key, label+" must be a boolean")
		return false, false
	}
	return value, true
}

type setRule struct {
	required   bool
	allowed    []string
	min        int
	max        int
	minMsg     string
	maxMsg     string
	invalidMsg string
}

// set validates an array of enum members, deduplicating before the
// cardinality checks.
func (o *object) set(key string, rule setRule) ([]string, bool) {
	raw, ok := o.value(key)
	if !ok {
		if rule.required {
			o.fail(key, rule.minMsg)
		}
		return nil, false
	}
	items, ok := raw.([]any)
	if !ok {
		o.fail(key, "Expected an array")
		return nil, false
	}

	valid := true
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for i, item := range items {
		str, isString := item.(string)
		normalized := strings.ToLower(strings.TrimSpace(str))
		if !isString || !contains(rule.allowed, normalized) {
			o.errs.Add(o.path(key)+"."+strconv.Itoa(i), rule.invalidMsg)
			valid = false
			continue
		}
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	if !valid {
		return nil, false
	}
	if len(out) < rule.min {
		o.fail(key, rule.minMsg)
		return nil, false
	}
	if rule.max > 0 && len(out) > rule.max {
		o.fail(key, rule.maxMsg)
		return nil, false
	}
	return out, true
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func (o *object) date(key, label, invalidMsg string, required bool) (time.Time, bool) {
	raw, ok := o.value(key)
	if !ok {
		if required {
			o.fail(key, label+" is required")
		}
		return time.Time{}, false
	}
	str, ok := raw.(string)
	if !ok {
		o.fail(key, invalidMsg)
		return time.Time{}, false
	}
	str = strings.TrimSpace(str)
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, str); err == nil {
			return parsed.UTC(), true
		}
	}
	o.fail(key, invalidMsg)
	return time.Time{}, false
}

// id validates a resource identifier and returns it in canonical form.
func (o *object) id(key, label string, required bool) (string, bool) {
	value, ok := o.text(key, textRule{label: label, required: required, noCollapse: true})
	if !ok {
		return "", false
	}
	parsed, err := uuid.Parse(value)
	if err != nil {
		o.fail(key, label+" must be a valid id")
		return "", false
	}
	return parsed.String(), true
}

type listRule struct {
	required bool
	min      int
	max      int
	minMsg   string
	maxMsg   string
}

// objects returns one reader per element of an array of objects.
func (o *object) objects(key string, rule listRule) ([]*object, bool) {
	raw, ok := o.value(key)
	if !ok {
		if rule.required {
			o.fail(key, rule.minMsg)
		}
		return nil, false
	}
	items, ok := raw.([]any)
	if !ok {
		o.fail(key, "Expected an array")
		return nil, false
	}
	if len(items) < rule.min {
		o.fail(key, rule.minMsg)
		return nil, false
	}
	if rule.max > 0 && len(items) > rule.max {
		o.fail(key, rule.maxMsg)
		return nil, false
	}

	children := make([]*object, 0, len(items))
	valid := true
	for i, item := range items {
		data, isObject := item.(map[string]any)
		if !isObject {
			o.errs.Add(o.path(key)+"."+strconv.Itoa(i), "Expected an object")
			valid = false
			continue
		}
		children = append(children, o.child(key, i, data))
	}
	return children, valid
}

func toNumber(raw any) (float64, bool) {
	var value float64
	switch v := raw.(type) {
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		value = parsed
	case float64:
		value = v
	case int:
		value = float64(v)
	case int64:
		value = float64(v)
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, false
		}
		value = parsed
	case bool:
		if v {
			value = 1
		}
	default:
		return 0, false
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}

func toBool(raw any) (bool, bool) {
	switch v := raw.(type) {
	case bool:
		return v, true
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes", "on":
			return true, true
		case "false", "0", "no", "off", "":
			return false, true
		}
	case json.Number, float64, int, int64:
		number, ok := toNumber(v)
		return number != 0, ok
	}
	return false, false
}

func contains(values []string, candidate string) bool {
	for _, value := range values {
		if value == candidate {
			return true
		}
	}
	return false
}

// roundTo2 rounds half away from zero to two decimal places.
func roundTo2(value float64) float64 {
	return math.Round(value*100) / 100
}

func ptr[T any](value T) *T {
	return &value
}
