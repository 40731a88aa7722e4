package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanString(t *testing.T) {
	t.Run("strips script tags entirely", func(t *testing.T) {
		out := CleanString(`<script>alert("xss")</script>hello`)
		assert.NotContains(t, out, "<")
		assert.NotContains(t, out, ">")
		assert.Contains(t, out, "hello")
	})

	t.Run("removes stray angle brackets", func(t *testing.T) {
		assert.Equal(t, "a  b", CleanString("a < b"))
		assert.NotContains(t, CleanString("1 > 0"), ">")
	})

	t.Run("removes javascript URI prefix case-insensitively", func(t *testing.T) {
		assert.Equal(t, "alert(1)", CleanString("JavaScript:alert(1)"))
		assert.Equal(t, "alert(1)", CleanString("javascript:alert(1)"))
	})

	t.Run("removes event handler attribute patterns", func(t *testing.T) {
		out := CleanString(`img src=x onerror=alert(1)`)
		assert.NotContains(t, out, "onerror=")

		out = CleanString("OnLoad=doEvil()")
		assert.NotContains(t, out, "OnLoad=")
	})

	t.Run("trims whitespace", func(t *testing.T) {
		assert.Equal(t, "hello", CleanString("  hello  "))
	})

	t.Run("empty string passes through", func(t *testing.T) {
		assert.Equal(t, "", CleanString(""))
	})
}

func TestSanitizeJSON(t *testing.T) {
	t.Run("non-string scalars pass through unchanged", func(t *testing.T) {
		assert.Equal(t, 42.0, SanitizeJSON(42.0))
		assert.Equal(t, true, SanitizeJSON(true))
		assert.Nil(t, SanitizeJSON(nil))
	})

	t.Run("sanitizes nested objects and arrays", func(t *testing.T) {
		input := map[string]any{
			"name": "<b>bold</b>",
			"tags": []any{"<script>x</script>", "safe", 1.0},
			"nested": map[string]any{
				"link": "javascript:void(0)",
			},
		}

		out, ok := SanitizeJSON(input).(map[string]any)
		assert.True(t, ok)
		assert.Equal(t, "bold", out["name"])

		tags, ok := out["tags"].([]any)
		assert.True(t, ok)
		assert.NotContains(t, tags[0].(string), "<")
		assert.Equal(t, "safe", tags[1])
		assert.Equal(t, 1.0, tags[2])

		nested := out["nested"].(map[string]any)
		assert.Equal(t, "void(0)", nested["link"])
	})

	t.Run("script content yields no angle brackets", func(t *testing.T) {
		out := SanitizeJSON("<script>document.cookie</script>").(string)
		assert.NotContains(t, out, "<")
		assert.NotContains(t, out, ">")
	})

	t.Run("does not mutate the input", func(t *testing.T) {
		input := map[string]any{"k": "<x>"}
		_ = SanitizeJSON(input)
		assert.Equal(t, "<x>", input["k"])
	})
}
