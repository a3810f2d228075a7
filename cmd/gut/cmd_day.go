package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"gutcheck/internal/api"
	"gutcheck/internal/dateutil"
)

var (
	dayDate string

	logMeal string
	logDate string
	logTime string
)

var dayCmd = &cobra.Command{
	Use:   "day",
	Short: "Print one day's entries, summary, and tips",
	Long: `Print a snapshot of one day: logged meals, the computed gut score
with its component stats, and any generated tips. Defaults to today.`,
	RunE: runDay,
}

var logCmd = &cobra.Command{
	Use:   "log <food text>",
	Short: "Log a meal without opening the dashboard",
	Long: `Log a meal directly from the shell:

  gut log "oatmeal with blueberries and kefir" --meal breakfast

The backend recomputes the day's gut score and the new score is printed.`,
	Args: cobra.ExactArgs(1),
	RunE: runLog,
}

func init() {
	dayCmd.Flags().StringVar(&dayDate, "date", "", "day to show as YYYY-MM-DD (default today)")

	logCmd.Flags().StringVar(&logMeal, "meal", string(api.MealSnack), "meal type: breakfast, lunch, dinner, or snack")
	logCmd.Flags().StringVar(&logDate, "date", "", "day to log against as YYYY-MM-DD (default today)")
	logCmd.Flags().StringVar(&logTime, "time", "", "time of the meal as HH:MM")
}

// resolveDate validates an explicit --date value or falls back to today.
func resolveDate(value string) (string, error) {
	if value == "" {
		return dateutil.Key(dateutil.Today()), nil
	}
	if _, err := dateutil.ParseKey(value); err != nil {
		return "", fmt.Errorf("invalid date %q: expected YYYY-MM-DD", value)
	}
	return value, nil
}

func runDay(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.requireSession(cmd); err != nil {
		return err
	}

	date, err := resolveDate(dayDate)
	if err != nil {
		return err
	}

	// The three reads are independent; fetch them concurrently the same
	// way the dashboard does.
	var (
		entries api.FoodEntryList
		summary *api.DailySummary
		tips    *api.TipsLog
	)
	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		var err error
		entries, err = a.client.FoodEntries(ctx, date)
		return err
	})
	g.Go(func() error {
		var err error
		summary, err = a.client.DailySummary(ctx, date)
		return err
	})
	g.Go(func() error {
		var err error
		tips, err = a.client.Tips(ctx, date)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	st := a.styles()
	fmt.Println(st.Title.Render(dateutil.DisplayLabel(date)))
	fmt.Println()
	fmt.Println(st.DailySummaryCard(summary, false))
	fmt.Println()
	fmt.Println(st.EntryList(entries.Entries, -1, false))
	if tips != nil {
		fmt.Println()
		fmt.Println(st.TipsCard(tips, false, false))
	}
	return nil
}

func runLog(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.requireSession(cmd); err != nil {
		return err
	}

	foodText := strings.TrimSpace(args[0])
	if foodText == "" {
		return fmt.Errorf("food text must not be empty")
	}

	meal := api.MealType(logMeal)
	if !meal.Valid() {
		return fmt.Errorf("invalid meal type %q: expected breakfast, lunch, dinner, or snack", logMeal)
	}

	date, err := resolveDate(logDate)
	if err != nil {
		return err
	}

	entryTime := logTime
	if entryTime == "" && date == dateutil.Key(dateutil.Today()) {
		entryTime = time.Now().Format("15:04")
	}

	result, err := a.client.AddFoodEntry(cmd.Context(), api.NewEntryRequest{
		Date:     date,
		Time:     entryTime,
		MealType: meal,
		FoodText: foodText,
	})
	if err != nil {
		return err
	}

	st := a.styles()
	fmt.Printf("Logged %s for %s.\n", meal, dateutil.DisplayLabel(date))
	fmt.Printf("Gut score: %s\n", st.ScoreStyle(result.UpdatedGutScore).Render(fmt.Sprintf("%d", result.UpdatedGutScore)))
	return nil
}
