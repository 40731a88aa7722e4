package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculateProration(t *testing.T) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 30)

	t.Run("upgrade on day 15 of a 30 day period", func(t *testing.T) {
		now := start.AddDate(0, 0, 15)
		const p1, p2 = int64(79900), int64(149900)

		b := CalculateProration(start, end, p1, p2, now)

		assert.Equal(t, 15, b.DaysRemaining)
		assert.Equal(t, int64(39950), b.UnusedAmount) // round(15/30 * 79900)
		assert.Equal(t, p2, b.NewPrice)
		assert.Equal(t, p2-39950, b.ProratedAmount)
		assert.True(t, b.IsUpgrade)
	})

	t.Run("downgrade with credit floors prorated amount at zero", func(t *testing.T) {
		now := start.AddDate(0, 0, 3)
		// 27/30 of 249900 unused (224910) exceeds the 79900 new price
		b := CalculateProration(start, end, 249900, 79900, now)

		assert.Equal(t, 27, b.DaysRemaining)
		assert.Equal(t, int64(224910), b.UnusedAmount)
		assert.Equal(t, int64(0), b.ProratedAmount)
		assert.False(t, b.IsUpgrade)
	})

	t.Run("period already over", func(t *testing.T) {
		now := end.AddDate(0, 0, 2)
		b := CalculateProration(start, end, 79900, 149900, now)

		assert.Equal(t, 0, b.DaysRemaining)
		assert.Equal(t, int64(0), b.UnusedAmount)
		assert.Equal(t, int64(149900), b.ProratedAmount)
		assert.True(t, b.IsUpgrade)
	})

	t.Run("partial day remaining floors days", func(t *testing.T) {
		now := end.Add(-36 * time.Hour)
		b := CalculateProration(start, end, 79900, 149900, now)

		assert.Equal(t, 1, b.DaysRemaining)
	})

	t.Run("same price is not an upgrade", func(t *testing.T) {
		now := start.AddDate(0, 0, 10)
		b := CalculateProration(start, end, 79900, 79900, now)

		assert.False(t, b.IsUpgrade)
	})

	t.Run("full window remaining credits the whole current price", func(t *testing.T) {
		b := CalculateProration(start, end, 79900, 149900, start)

		assert.Equal(t, 30, b.DaysRemaining)
		assert.Equal(t, int64(79900), b.UnusedAmount)
		assert.Equal(t, int64(70000), b.ProratedAmount)
	})
}
