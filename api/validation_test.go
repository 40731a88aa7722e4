package api

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	t.Run("valid input returns declared fields only", func(t *testing.T) {
		schema := Schema{
			{Name: "plan_key", Type: TypeString, Required: true, Enum: PlanKeys},
			{Name: "billing_interval", Type: TypeString, Required: true, Enum: BillingIntervals},
		}
		input := map[string]any{
			"plan_key":         "data_pro",
			"billing_interval": "monthly",
			"undeclared":       "dropped",
		}

		result := Validate(input, schema)
		require.True(t, result.Valid)
		assert.Equal(t, "data_pro", result.Data["plan_key"])
		assert.Equal(t, "monthly", result.Data["billing_interval"])
		assert.NotContains(t, result.Data, "undeclared")
	})

	t.Run("first missing required field in declaration order is reported", func(t *testing.T) {
		schema := Schema{
			{Name: "alpha", Type: TypeString, Required: true},
			{Name: "beta", Type: TypeString, Required: true},
		}

		result := Validate(map[string]any{}, schema)
		require.False(t, result.Valid)
		assert.Equal(t, "alpha is required", result.Error)
	})

	t.Run("null and empty string count as missing", func(t *testing.T) {
		schema := Schema{{Name: "name", Type: TypeString, Required: true}}

		result := Validate(map[string]any{"name": nil}, schema)
		assert.False(t, result.Valid)
		assert.Equal(t, "name is required", result.Error)

		result = Validate(map[string]any{"name": ""}, schema)
		assert.False(t, result.Valid)
	})

	t.Run("optional absent field is omitted from data", func(t *testing.T) {
		schema := Schema{
			{Name: "name", Type: TypeString, Required: true},
			{Name: "note", Type: TypeString},
		}

		result := Validate(map[string]any{"name": "x"}, schema)
		require.True(t, result.Valid)
		assert.NotContains(t, result.Data, "note")
	})

	t.Run("type mismatch names field and expected type", func(t *testing.T) {
		schema := Schema{{Name: "count", Type: TypeNumber, Required: true}}

		result := Validate(map[string]any{"count": "ten"}, schema)
		require.False(t, result.Valid)
		assert.Equal(t, "count must be a number", result.Error)

		schema = Schema{{Name: "flag", Type: TypeBoolean, Required: true}}
		result = Validate(map[string]any{"flag": 1.0}, schema)
		require.False(t, result.Valid)
		assert.Equal(t, "flag must be a boolean", result.Error)
	})

	t.Run("string length bounds", func(t *testing.T) {
		schema := Schema{{Name: "code", Type: TypeString, Required: true, MinLen: 3, MaxLen: 5}}

		result := Validate(map[string]any{"code": "ab"}, schema)
		assert.False(t, result.Valid)
		assert.Equal(t, "code must be at least 3 characters", result.Error)

		result = Validate(map[string]any{"code": "abcdef"}, schema)
		assert.False(t, result.Valid)
		assert.Equal(t, "code must be at most 5 characters", result.Error)

		result = Validate(map[string]any{"code": "abcd"}, schema)
		assert.True(t, result.Valid)
	})

	t.Run("pattern is anchored", func(t *testing.T) {
		schema := Schema{{Name: "id", Type: TypeString, Required: true, Pattern: uuidV4Pattern}}

		result := Validate(map[string]any{"id": "not-a-uuid"}, schema)
		assert.False(t, result.Valid)
		assert.Equal(t, "id has an invalid format", result.Error)

		result = Validate(map[string]any{"id": "123e4567-e89b-42d3-a456-426614174000"}, schema)
		assert.True(t, result.Valid)

		// Case-insensitive per the subscription id contract
		result = Validate(map[string]any{"id": "123E4567-E89B-42D3-A456-426614174000"}, schema)
		assert.True(t, result.Valid)
	})

	t.Run("enum membership", func(t *testing.T) {
		schema := Schema{{Name: "interval", Type: TypeString, Required: true, Enum: BillingIntervals}}

		result := Validate(map[string]any{"interval": "weekly"}, schema)
		require.False(t, result.Valid)
		assert.Equal(t, "interval must be one of: monthly, yearly", result.Error)
	})

	t.Run("number bounds", func(t *testing.T) {
		schema := Schema{trialDaysField()}

		result := Validate(map[string]any{"trial_days": -1.0}, schema)
		assert.False(t, result.Valid)

		result = Validate(map[string]any{"trial_days": 366.0}, schema)
		assert.False(t, result.Valid)

		result = Validate(map[string]any{"trial_days": 14.0}, schema)
		require.True(t, result.Valid)
		assert.Equal(t, 14.0, result.Data["trial_days"])
	})

	t.Run("first failure wins across multiple errors", func(t *testing.T) {
		schema := Schema{
			{Name: "a", Type: TypeNumber, Required: true},
			{Name: "b", Type: TypeString, Required: true, Pattern: regexp.MustCompile(`^x$`)},
		}
		input := map[string]any{"a": "wrong", "b": "also wrong"}

		result := Validate(input, schema)
		require.False(t, result.Valid)
		assert.Equal(t, "a must be a number", result.Error)
	})

	t.Run("coupon code atom", func(t *testing.T) {
		schema := Schema{couponCodeField()}

		result := Validate(map[string]any{"coupon_code": "SAVE_20"}, schema)
		assert.True(t, result.Valid)

		result = Validate(map[string]any{"coupon_code": "has spaces"}, schema)
		assert.False(t, result.Valid)

		result = Validate(map[string]any{"coupon_code": "ab"}, schema)
		assert.False(t, result.Valid)
	})
}
