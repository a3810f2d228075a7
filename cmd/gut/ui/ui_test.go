package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gutcheck/internal/api"
)

func TestDailySummaryCard_EmptyState(t *testing.T) {
	t.Parallel()

	s := DefaultStyles()
	out := s.DailySummaryCard(nil, false)
	assert.Contains(t, out, "No summary yet")
}

func TestDailySummaryCard_RendersScoreAndStats(t *testing.T) {
	t.Parallel()

	s := DefaultStyles()
	out := s.DailySummaryCard(&api.DailySummary{
		Date:     "2024-05-01",
		GutScore: 82,
		Status:   "final",
		Stats:    api.DailySummaryStats{FiberGrams: 31, FiberScore: 88},
	}, false)

	assert.Contains(t, out, "82")
	assert.Contains(t, out, "final")
	assert.Contains(t, out, "Fiber")
	assert.Contains(t, out, "31g")
}

func TestEntryList_States(t *testing.T) {
	t.Parallel()

	s := DefaultStyles()

	assert.Contains(t, s.EntryList(nil, -1, true), "Loading")
	assert.Contains(t, s.EntryList(nil, -1, false), "No meals logged yet")

	entries := []api.FoodEntry{
		{ID: "e1", MealType: api.MealBreakfast, FoodText: "oats", Time: "08:00"},
		{ID: "e2", MealType: api.MealLunch, FoodText: "lentil soup"},
	}
	out := s.EntryList(entries, 1, false)
	assert.Contains(t, out, "2 entries")
	assert.Contains(t, out, "oats")
	assert.Contains(t, out, "lentil soup")
	assert.Contains(t, out, "▸")

	one := s.EntryList(entries[:1], -1, false)
	assert.Contains(t, one, "1 entry")
}

func TestTipsCard_States(t *testing.T) {
	t.Parallel()

	s := DefaultStyles()

	assert.Contains(t, s.TipsCard(nil, true, false), "Loading tips")
	assert.Contains(t, s.TipsCard(nil, false, true), "Generating tips")
	assert.Contains(t, s.TipsCard(nil, false, false), "No tips yet")

	out := s.TipsCard(&api.TipsLog{Date: "2024-05-01", Tips: []string{"Eat more fermented foods"}}, false, false)
	assert.Contains(t, out, "fermented")
}

func TestWeeklyChart(t *testing.T) {
	t.Parallel()

	s := DefaultStyles()

	assert.Contains(t, s.WeeklyChart(nil, false), "No data for this week")

	out := s.WeeklyChart(&api.WeeklySummary{
		DailyScores: []api.DayScore{
			{Date: "2024-04-29", GutScore: 65},
			{Date: "2024-04-30", GutScore: 0},
		},
	}, false)
	assert.Contains(t, out, "65")
	assert.Contains(t, out, "—")
}

func TestWeeklyChartToleratesOutOfRangeScores(t *testing.T) {
	t.Parallel()

	s := DefaultStyles()
	assert.NotPanics(t, func() {
		out := s.WeeklyChart(&api.WeeklySummary{
			DailyScores: []api.DayScore{
				{Date: "2024-04-29", GutScore: -5},
				{Date: "2024-04-30", GutScore: 140},
			},
		}, false)
		assert.Contains(t, out, "140")
	})
}

func TestWeeklyStatCards(t *testing.T) {
	t.Parallel()

	s := DefaultStyles()
	out := s.WeeklyStatCards(&api.WeeklySummary{
		AverageGutScore: 71.5,
		DailyScores: []api.DayScore{
			{Date: "2024-04-29", GutScore: 65},
			{Date: "2024-04-30", GutScore: 78},
			{Date: "2024-05-01", GutScore: 0},
		},
	})
	assert.Contains(t, out, "72") // rounded average
	assert.Contains(t, out, "78") // best day
	assert.Contains(t, out, "2/7")
}

func TestScoreStyleBuckets(t *testing.T) {
	t.Parallel()

	s := DefaultStyles()
	assert.Equal(t, s.Good.GetForeground(), s.ScoreStyle(85).GetForeground())
	assert.Equal(t, s.Warn.GetForeground(), s.ScoreStyle(45).GetForeground())
	assert.Equal(t, s.Bad.GetForeground(), s.ScoreStyle(10).GetForeground())
	assert.Equal(t, s.Muted.GetForeground(), s.ScoreStyle(0).GetForeground())
}
