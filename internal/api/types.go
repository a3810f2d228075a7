package api

// MealType classifies a food entry.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// MealTypes lists the valid meal classifications in display order.
var MealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealSnack}

// Valid reports whether m is one of the known meal types.
func (m MealType) Valid() bool {
	switch m {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return true
	}
	return false
}

// FoodEntry is a single logged meal as the backend returns it. The client
// holds only transient cached copies; the backend owns the records.
type FoodEntry struct {
	ID       string   `json:"id"`
	Time     string   `json:"time,omitempty"`
	MealType MealType `json:"meal_type"`
	FoodText string   `json:"food_text"`
}

// FoodEntryList is the response for a day's entries.
type FoodEntryList struct {
	Date    string      `json:"date"`
	Entries []FoodEntry `json:"entries"`
}

// NewEntryRequest creates a food entry.
type NewEntryRequest struct {
	Date     string   `json:"date"`
	Time     string   `json:"time,omitempty"`
	MealType MealType `json:"meal_type"`
	FoodText string   `json:"food_text"`
}

// AddEntryResult is the backend's acknowledgement of a created entry,
// including the recomputed day score.
type AddEntryResult struct {
	Message         string `json:"message"`
	EntryID         string `json:"entry_id"`
	UpdatedGutScore int    `json:"updated_gut_score"`
	Status          string `json:"status"`
}

// UpdateEntryResult acknowledges an entry update.
type UpdateEntryResult struct {
	Message         string `json:"message"`
	UpdatedGutScore int    `json:"updated_gut_score"`
}

// DailySummaryStats holds the backend-computed per-day component scores.
// Read-only from the client's perspective.
type DailySummaryStats struct {
	FiberGrams     int `json:"fiber_grams"`
	FiberScore     int `json:"fiber_score"`
	DiversityScore int `json:"diversity_score"`
	ProcessedScore int `json:"processed_score"`
	ProbioticScore int `json:"probiotic_score"`
	DigestiveScore int `json:"digestive_score"`
}

// DailySummary is one day's computed summary. GutScore is 0-100.
type DailySummary struct {
	Date     string            `json:"date"`
	GutScore int               `json:"gut_score"`
	Stats    DailySummaryStats `json:"stats"`
	Status   string            `json:"status"`
}

// Trend classifies a week-over-week direction.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

// DayScore pairs a day key with its gut score.
type DayScore struct {
	Date     string `json:"date"`
	GutScore int    `json:"gut_score"`
}

// WeeklySummary covers the seven days starting at StartDate.
type WeeklySummary struct {
	AverageGutScore float64    `json:"average_gut_score"`
	BestDay         string     `json:"best_day,omitempty"`
	WorstDay        string     `json:"worst_day,omitempty"`
	FiberTrend      Trend      `json:"fiber_trend"`
	ProcessedTrend  Trend      `json:"processed_trend"`
	StartDate       string     `json:"start_date"`
	EndDate         string     `json:"end_date"`
	Trend           Trend      `json:"trend"`
	DailyScores     []DayScore `json:"daily_scores"`
}

// CalendarSummary holds per-day scores for one calendar month.
type CalendarSummary struct {
	Month string     `json:"month"`
	Days  []DayScore `json:"days"`
}

// TipsLog holds the generated tips for one day.
type TipsLog struct {
	Date string   `json:"date"`
	Tips []string `json:"tips"`
}
