package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	tipsDate     string
	tipsGenerate bool
)

var tipsCmd = &cobra.Command{
	Use:   "tips",
	Short: "Show or generate tips for a day",
	Long: `Show the tips generated for a day's logged meals. With --generate
the backend analyzes the day's entries and produces a fresh set, which
replaces any earlier one.`,
	RunE: runTips,
}

func init() {
	tipsCmd.Flags().StringVar(&tipsDate, "date", "", "day to show as YYYY-MM-DD (default today)")
	tipsCmd.Flags().BoolVar(&tipsGenerate, "generate", false, "generate fresh tips for the day")
}

func runTips(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.requireSession(cmd); err != nil {
		return err
	}

	date, err := resolveDate(tipsDate)
	if err != nil {
		return err
	}

	st := a.styles()

	if tipsGenerate {
		fmt.Println("Generating tips...")
		tips, err := a.client.GenerateTips(cmd.Context(), date)
		if err != nil {
			return err
		}
		fmt.Println(st.TipsCard(&tips, false, false))
		return nil
	}

	tips, err := a.client.Tips(cmd.Context(), date)
	if err != nil {
		return err
	}
	fmt.Println(st.TipsCard(tips, false, false))
	return nil
}
