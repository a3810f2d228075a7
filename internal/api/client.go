// Package api is the REST client for the gut health backend. Every call
// attaches a bearer token obtained fresh from the session and fails fast
// when none is available.
//
// Reads and writes follow different failure contracts. Read endpoints never
// surface transport or HTTP failures to the caller: a 404 means the resource
// does not exist yet and maps to an empty sentinel, and any other failure is
// logged and degraded to the same sentinel so views render an empty state
// rather than an error. Write endpoints return every failure, carrying the
// backend's detail message when present, because mutations must not report
// success falsely.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenSource supplies the current session's bearer token. Implemented by
// identity.Manager.
type TokenSource interface {
	AccessToken() (string, error)
}

// Client talks to the backend at BaseURL.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     *zap.Logger
}

// NewClient builds a backend client. The logger may be nil.
func NewClient(baseURL string, tokens TokenSource, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{},
		tokens:  tokens,
		log:     log,
	}
}

// do performs one authenticated JSON round trip. Non-2xx responses come back
// as *StatusError with the backend detail decoded when present.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	token, err := c.tokens.AccessToken()
	if err != nil || token == "" {
		return ErrNotAuthenticated
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{StatusCode: resp.StatusCode}
		var eb errorBody
		if err := json.NewDecoder(resp.Body).Decode(&eb); err == nil {
			se.Detail = eb.Detail
		}
		return se
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// notFound reports whether err is an HTTP 404.
func notFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// FoodEntries lists the entries for an ISO day key. A missing day resolves to
// an empty list; the only returned error is ErrNotAuthenticated.
func (c *Client) FoodEntries(ctx context.Context, date string) (FoodEntryList, error) {
	empty := FoodEntryList{Date: date, Entries: []FoodEntry{}}

	var out FoodEntryList
	err := c.do(ctx, http.MethodGet, "/food-entry", url.Values{"date": {date}}, nil, &out)
	switch {
	case errors.Is(err, ErrNotAuthenticated):
		return empty, err
	case notFound(err):
		return empty, nil
	case err != nil:
		c.log.Warn("food entries fetch failed", zap.String("date", date), zap.Error(err))
		return empty, nil
	}
	if out.Entries == nil {
		out.Entries = []FoodEntry{}
	}
	return out, nil
}

// AddFoodEntry creates an entry and returns the backend acknowledgement with
// the recomputed score.
func (c *Client) AddFoodEntry(ctx context.Context, entry NewEntryRequest) (AddEntryResult, error) {
	var out AddEntryResult
	if err := c.do(ctx, http.MethodPost, "/food-entry", nil, entry, &out); err != nil {
		c.log.Warn("add food entry failed", zap.String("date", entry.Date), zap.Error(err))
		return AddEntryResult{}, err
	}
	return out, nil
}

// UpdateFoodEntry replaces an entry's food text. The meal type is not
// updatable.
func (c *Client) UpdateFoodEntry(ctx context.Context, entryID, foodText string) (UpdateEntryResult, error) {
	body := struct {
		FoodText string `json:"food_text"`
	}{FoodText: foodText}

	var out UpdateEntryResult
	if err := c.do(ctx, http.MethodPut, "/food-entry/"+entryID, nil, body, &out); err != nil {
		c.log.Warn("update food entry failed", zap.String("entry_id", entryID), zap.Error(err))
		return UpdateEntryResult{}, err
	}
	return out, nil
}

// DeleteFoodEntry removes an entry.
func (c *Client) DeleteFoodEntry(ctx context.Context, entryID string) error {
	if err := c.do(ctx, http.MethodDelete, "/food-entry/"+entryID, nil, nil, nil); err != nil {
		c.log.Warn("delete food entry failed", zap.String("entry_id", entryID), zap.Error(err))
		return err
	}
	return nil
}

// DailySummary fetches one day's computed summary. Nil means the backend has
// no summary for that day yet.
func (c *Client) DailySummary(ctx context.Context, date string) (*DailySummary, error) {
	var out DailySummary
	err := c.do(ctx, http.MethodGet, "/daily-summary", url.Values{"date": {date}}, nil, &out)
	switch {
	case errors.Is(err, ErrNotAuthenticated):
		return nil, err
	case notFound(err):
		return nil, nil
	case err != nil:
		c.log.Warn("daily summary fetch failed", zap.String("date", date), zap.Error(err))
		return nil, nil
	}
	return &out, nil
}

// WeeklySummary fetches the seven-day summary starting at the given day key.
// Nil means no data exists for that week.
func (c *Client) WeeklySummary(ctx context.Context, start string) (*WeeklySummary, error) {
	var out WeeklySummary
	err := c.do(ctx, http.MethodGet, "/weekly-summary", url.Values{"start": {start}}, nil, &out)
	switch {
	case errors.Is(err, ErrNotAuthenticated):
		return nil, err
	case notFound(err):
		return nil, nil
	case err != nil:
		c.log.Warn("weekly summary fetch failed", zap.String("start", start), zap.Error(err))
		return nil, nil
	}
	return &out, nil
}

// CalendarSummary fetches per-day scores for a "YYYY-MM" month key. A month
// with no data resolves to an empty day list.
func (c *Client) CalendarSummary(ctx context.Context, month string) (CalendarSummary, error) {
	empty := CalendarSummary{Month: month, Days: []DayScore{}}

	var out CalendarSummary
	err := c.do(ctx, http.MethodGet, "/calendar-summary", url.Values{"month": {month}}, nil, &out)
	switch {
	case errors.Is(err, ErrNotAuthenticated):
		return empty, err
	case notFound(err):
		return empty, nil
	case err != nil:
		c.log.Warn("calendar summary fetch failed", zap.String("month", month), zap.Error(err))
		return empty, nil
	}
	if out.Days == nil {
		out.Days = []DayScore{}
	}
	return out, nil
}

// Tips fetches the stored tips for a day. Nil means none have been generated.
func (c *Client) Tips(ctx context.Context, date string) (*TipsLog, error) {
	var out TipsLog
	err := c.do(ctx, http.MethodGet, "/tips", url.Values{"date": {date}}, nil, &out)
	switch {
	case errors.Is(err, ErrNotAuthenticated):
		return nil, err
	case notFound(err):
		return nil, nil
	case err != nil:
		c.log.Warn("tips fetch failed", zap.String("date", date), zap.Error(err))
		return nil, nil
	}
	return &out, nil
}

// GenerateTips asks the backend to produce fresh tips for a day.
func (c *Client) GenerateTips(ctx context.Context, date string) (TipsLog, error) {
	var out TipsLog
	if err := c.do(ctx, http.MethodPost, "/tips/generate", url.Values{"date": {date}}, nil, &out); err != nil {
		c.log.Warn("tips generation failed", zap.String("date", date), zap.Error(err))
		return TipsLog{}, err
	}
	return out, nil
}
