package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens string

func (s staticTokens) AccessToken() (string, error) {
	if s == "" {
		return "", ErrNotAuthenticated
	}
	return string(s), nil
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, staticTokens("tok-123"), nil)
}

func TestClient_AttachesBearerToken(t *testing.T) {
	t.Parallel()

	var gotAuth, gotReqID string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`{"date":"2024-05-01","entries":[]}`))
	})

	_, err := c.FoodEntries(context.Background(), "2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.NotEmpty(t, gotReqID)
}

func TestClient_FailsFastWithoutToken(t *testing.T) {
	t.Parallel()

	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, staticTokens(""), nil)

	_, err := c.FoodEntries(context.Background(), "2024-05-01")
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = c.AddFoodEntry(context.Background(), NewEntryRequest{})
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	assert.Zero(t, calls, "no request may be attempted without a token")
}

func TestFoodEntries_NotFoundIsEmptyList(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"no entries"}`, http.StatusNotFound)
	})

	got, err := c.FoodEntries(context.Background(), "2024-05-01")
	require.NoError(t, err)

	want := FoodEntryList{Date: "2024-05-01", Entries: []FoodEntry{}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("sentinel mismatch (-want +got):\n%s", diff)
	}
}

func TestFoodEntries_ServerErrorDegradesToEmpty(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	got, err := c.FoodEntries(context.Background(), "2024-05-01")
	require.NoError(t, err, "read path must not surface HTTP failures")
	assert.Empty(t, got.Entries)
	assert.Equal(t, "2024-05-01", got.Date)
}

func TestFoodEntries_NetworkFailureDegradesToEmpty(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(srv.URL, staticTokens("tok"), nil)

	got, err := c.FoodEntries(context.Background(), "2024-05-01")
	require.NoError(t, err)
	assert.Empty(t, got.Entries)
}

func TestFoodEntries_Success(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2024-05-01", r.URL.Query().Get("date"))
		w.Write([]byte(`{"date":"2024-05-01","entries":[
			{"id":"e1","meal_type":"breakfast","food_text":"oats"},
			{"id":"e2","time":"12:30","meal_type":"lunch","food_text":"lentil soup"}
		]}`))
	})

	got, err := c.FoodEntries(context.Background(), "2024-05-01")
	require.NoError(t, err)
	require.Len(t, got.Entries, 2)
	assert.Equal(t, MealLunch, got.Entries[1].MealType)
	assert.Equal(t, "12:30", got.Entries[1].Time)
}

func TestAddFoodEntry_ErrorCarriesBackendDetail(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":"food_text must not be empty"}`))
	})

	_, err := c.AddFoodEntry(context.Background(), NewEntryRequest{
		Date: "2024-05-01", MealType: MealSnack, FoodText: "",
	})
	require.Error(t, err)
	assert.Equal(t, "food_text must not be empty", err.Error())

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnprocessableEntity, se.StatusCode)
}

func TestAddFoodEntry_ErrorWithoutDetail(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.AddFoodEntry(context.Background(), NewEntryRequest{Date: "2024-05-01"})
	require.Error(t, err)
	assert.Equal(t, "request failed with status 502", err.Error())
}

func TestAddFoodEntry_Success(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"message":"Food entry added","entry_id":"e9","updated_gut_score":74,"status":"partial"}`))
	})

	got, err := c.AddFoodEntry(context.Background(), NewEntryRequest{
		Date: "2024-05-01", MealType: MealBreakfast, FoodText: "kefir and berries",
	})
	require.NoError(t, err)
	assert.Equal(t, "e9", got.EntryID)
	assert.Equal(t, 74, got.UpdatedGutScore)
}

func TestUpdateFoodEntry_SendsOnlyFoodText(t *testing.T) {
	t.Parallel()

	var body string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/food-entry/e1", r.URL.Path)
		buf, _ := io.ReadAll(r.Body)
		body = string(buf)
		w.Write([]byte(`{"message":"Food entry updated","updated_gut_score":61}`))
	})

	got, err := c.UpdateFoodEntry(context.Background(), "e1", "brown rice bowl")
	require.NoError(t, err)
	assert.Equal(t, 61, got.UpdatedGutScore)
	assert.JSONEq(t, `{"food_text":"brown rice bowl"}`, body)
}

func TestDeleteFoodEntry_WriteFailuresPropagate(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Entry not found"}`, http.StatusNotFound)
	})

	err := c.DeleteFoodEntry(context.Background(), "missing")
	require.Error(t, err, "write path must surface 404s")
	assert.Equal(t, "Entry not found", err.Error())
}

func TestDailySummary_NotFoundIsNil(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	got, err := c.DailySummary(context.Background(), "2024-05-01")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDailySummary_Success(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"date":"2024-05-01","gut_score":82,"status":"final",
			"stats":{"fiber_grams":31,"fiber_score":88,"diversity_score":75,
			"processed_score":90,"probiotic_score":60,"digestive_score":80}}`))
	})

	got, err := c.DailySummary(context.Background(), "2024-05-01")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 82, got.GutScore)
	assert.Equal(t, 31, got.Stats.FiberGrams)
}

func TestWeeklySummary_Success(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2024-04-29", r.URL.Query().Get("start"))
		w.Write([]byte(`{"average_gut_score":71.5,"best_day":"2024-05-01","worst_day":"2024-04-30",
			"fiber_trend":"improving","processed_trend":"stable","trend":"improving",
			"start_date":"2024-04-29","end_date":"2024-05-05",
			"daily_scores":[{"date":"2024-04-29","gut_score":65},{"date":"2024-04-30","gut_score":58}]}`))
	})

	got, err := c.WeeklySummary(context.Background(), "2024-04-29")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, TrendImproving, got.FiberTrend)
	assert.Len(t, got.DailyScores, 2)
}

func TestTips_NotFoundIsNil(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	got, err := c.Tips(context.Background(), "2024-05-01")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGenerateTips_FailurePropagates(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"tips service unavailable"}`, http.StatusServiceUnavailable)
	})

	_, err := c.GenerateTips(context.Background(), "2024-05-01")
	require.Error(t, err)
	assert.Equal(t, "tips service unavailable", err.Error())
}

func TestCalendarSummary_Success(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2024-05", r.URL.Query().Get("month"))
		w.Write([]byte(`{"month":"2024-05","days":[{"date":"2024-05-01","gut_score":82}]}`))
	})

	got, err := c.CalendarSummary(context.Background(), "2024-05")
	require.NoError(t, err)
	require.Len(t, got.Days, 1)
	assert.Equal(t, 82, got.Days[0].GutScore)
}

func TestMealType_Valid(t *testing.T) {
	t.Parallel()

	for _, m := range MealTypes {
		assert.True(t, m.Valid(), string(m))
	}
	assert.False(t, MealType("brunch").Valid())
}
