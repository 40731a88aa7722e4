package api

import (
	"fmt"
	"regexp"
)

// FieldType is the expected runtime type of a validated field
type FieldType string

// Valid field types
const (
	TypeString  FieldType = "string"
	TypeNumber  FieldType = "number"
	TypeBoolean FieldType = "boolean"
)

// Field is the declarative schema for one request field. Schemas are
// plain data declared statically per endpoint and never mutated.
type Field struct {
	Name     string
	Type     FieldType
	Required bool
	// String constraints
	MinLen  int
	MaxLen  int
	Enum    []string
	Pattern *regexp.Regexp
	// Number constraints (inclusive). Nil means unbounded.
	Min *float64
	Max *float64
}

// Schema is an ordered list of field declarations. Order matters:
// fields are checked in declaration order and the first failure is the
// one reported, so callers see deterministic error messages for
// multi-error inputs.
type Schema []Field

// ValidationResult is the outcome of validating one request body
type ValidationResult struct {
	Valid bool
	Data  map[string]any
	Error string
}

// Validate checks input against the schema. Fields present in input
// but not declared in the schema are dropped from Data (allow-list).
// Required fields that are absent, null, or empty-string fail
// immediately with an error naming the field.
func Validate(input map[string]any, schema Schema) ValidationResult {
	data := make(map[string]any, len(schema))

	for _, field := range schema {
		value, present := input[field.Name]

		if isMissing(value, present) {
			if field.Required {
				return fail(fmt.Sprintf("%s is required", field.Name))
			}
			continue
		}

		switch field.Type {
		case TypeString:
			s, ok := value.(string)
			if !ok {
				return fail(fmt.Sprintf("%s must be a string", field.Name))
			}
			if field.MinLen > 0 && len(s) < field.MinLen {
				return fail(fmt.Sprintf("%s must be at least %d characters", field.Name, field.MinLen))
			}
			if field.MaxLen > 0 && len(s) > field.MaxLen {
				return fail(fmt.Sprintf("%s must be at most %d characters", field.Name, field.MaxLen))
			}
			if field.Pattern != nil && !field.Pattern.MatchString(s) {
				return fail(fmt.Sprintf("%s has an invalid format", field.Name))
			}
			if len(field.Enum) > 0 && !contains(field.Enum, s) {
				return fail(fmt.Sprintf("%s must be one of: %s", field.Name, joinEnum(field.Enum)))
			}
			data[field.Name] = s

		case TypeNumber:
			// encoding/json decodes all JSON numbers as float64
			n, ok := value.(float64)
			if !ok {
				return fail(fmt.Sprintf("%s must be a number", field.Name))
			}
			if field.Min != nil && n < *field.Min {
				return fail(fmt.Sprintf("%s must be at least %v", field.Name, *field.Min))
			}
			if field.Max != nil && n > *field.Max {
				return fail(fmt.Sprintf("%s must be at most %v", field.Name, *field.Max))
			}
			data[field.Name] = n

		case TypeBoolean:
			b, ok := value.(bool)
			if !ok {
				return fail(fmt.Sprintf("%s must be a boolean", field.Name))
			}
			data[field.Name] = b

		default:
			return fail(fmt.Sprintf("%s has an unsupported schema type", field.Name))
		}
	}

	return ValidationResult{Valid: true, Data: data}
}

// isMissing treats absent, JSON null, and empty-string values as missing
func isMissing(value any, present bool) bool {
	if !present || value == nil {
		return true
	}
	if s, ok := value.(string); ok && s == "" {
		return true
	}
	return false
}

func fail(message string) ValidationResult {
	return ValidationResult{Valid: false, Error: message}
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func joinEnum(values []string) string {
	out := ""
	for i, v := range values {
		if i > 0 {
			out += ", "
		}
		out += v
	}
	return out
}

// Shared schema atoms for the billing endpoints
var (
	uuidV4Pattern     = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
	couponCodePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

func planKeyField(name string, required bool) Field {
	return Field{Name: name, Type: TypeString, Required: required, Enum: PlanKeys}
}

func billingIntervalField(name string, required bool) Field {
	return Field{Name: name, Type: TypeString, Required: required, Enum: BillingIntervals}
}

func couponCodeField() Field {
	return Field{Name: "coupon_code", Type: TypeString, MinLen: 3, MaxLen: 50, Pattern: couponCodePattern}
}

func trialDaysField() Field {
	min, max := 0.0, 365.0
	return Field{Name: "trial_days", Type: TypeNumber, Min: &min, Max: &max}
}
