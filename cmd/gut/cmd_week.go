package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"gutcheck/internal/dateutil"
)

var (
	weekStart  string
	monthValue string
)

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Print the weekly summary",
	Long: `Print the weekly summary: per-day score bars, the average, the best
day, and the week-over-week trends. Weeks start on Monday; --start
accepts any date inside the week of interest.`,
	RunE: runWeek,
}

var monthCmd = &cobra.Command{
	Use:   "month",
	Short: "Print per-day scores for a calendar month",
	RunE:  runMonth,
}

func init() {
	weekCmd.Flags().StringVar(&weekStart, "start", "", "any date inside the week as YYYY-MM-DD (default this week)")
	monthCmd.Flags().StringVar(&monthValue, "month", "", "month to show as YYYY-MM (default this month)")
}

func runWeek(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.requireSession(cmd); err != nil {
		return err
	}

	date, err := resolveDate(weekStart)
	if err != nil {
		return err
	}
	day, err := dateutil.ParseKey(date)
	if err != nil {
		return err
	}
	start := dateutil.Key(dateutil.WeekStart(day))

	summary, err := a.client.WeeklySummary(cmd.Context(), start)
	if err != nil {
		return err
	}

	st := a.styles()
	if summary == nil {
		fmt.Println(st.Help.Render("No data for the week of " + dateutil.DisplayLabel(start) + "."))
		return nil
	}

	fmt.Println(st.Title.Render(fmt.Sprintf("Week of %s", dateutil.DisplayLabel(summary.StartDate))))
	fmt.Println()
	fmt.Println(st.WeeklyChart(summary, false))
	fmt.Println()
	fmt.Println(st.WeeklyStatCards(summary))
	fmt.Println()
	fmt.Println(st.TrendLine(summary))
	return nil
}

func runMonth(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.requireSession(cmd); err != nil {
		return err
	}

	month := monthValue
	if month == "" {
		month = dateutil.MonthKey(dateutil.Today())
	} else if _, err := time.Parse("2006-01", month); err != nil {
		return fmt.Errorf("invalid month %q: expected YYYY-MM", month)
	}

	summary, err := a.client.CalendarSummary(cmd.Context(), month)
	if err != nil {
		return err
	}

	st := a.styles()
	if len(summary.Days) == 0 {
		fmt.Println(st.Help.Render("No data for " + month + "."))
		return nil
	}

	fmt.Println(st.Title.Render(month))
	for _, day := range summary.Days {
		score := st.ScoreStyle(day.GutScore).Render(fmt.Sprintf("%3d", day.GutScore))
		fmt.Printf("  %s  %s  %s\n", day.Date, score, st.Gauge(day.GutScore))
	}
	return nil
}
