package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mathlingo/mathlingo/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect LLM request events",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM events",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := context.Background()
		events, err := s.EventRepo().QueryLLMEvents(ctx, limit)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		if len(events) == 0 {
			fmt.Println("No LLM events found.")
			return nil
		}

		// Header.
		fmt.Printf("%-5s  %-19s  %-14s  %-28s  %-6s  %-6s  %-7s  %s\n",
			"ID", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK")
		fmt.Println(strings.Repeat("─", 100))

		for _, e := range events {
			if purpose != "" && e.Purpose != purpose {
				continue
			}
			ok := "✓"
			if !e.Success {
				ok = "✗"
			}
			model := e.Model
			if len(model) > 28 {
				model = model[:28]
			}
			fmt.Printf("%-5d  %-19s  %-14s  %-28s  %-6d  %-6d  %-7d  %s\n",
				e.ID,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Purpose,
				model,
				e.InputTokens,
				e.OutputTokens,
				e.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated token usage and estimated cost per purpose",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := context.Background()
		events, err := s.EventRepo().QueryLLMEvents(ctx, 0)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		if len(events) == 0 {
			fmt.Println("No LLM usage recorded yet.")
			return nil
		}

		type agg struct {
			calls, in, out int
			cost           float64
		}
		byPurpose := map[string]*agg{}
		var order []string
		for _, e := range events {
			a := byPurpose[e.Purpose]
			if a == nil {
				a = &agg{}
				byPurpose[e.Purpose] = a
				order = append(order, e.Purpose)
			}
			a.calls++
			a.in += e.InputTokens
			a.out += e.OutputTokens
			a.cost += e.EstimatedCost
		}

		fmt.Println("Usage by Purpose")
		fmt.Println(strings.Repeat("─", 72))
		fmt.Printf("%-16s  %6s  %10s  %10s  %10s  %10s\n",
			"Purpose", "Calls", "Input", "Output", "Total", "Cost $")
		fmt.Println(strings.Repeat("─", 72))

		var t agg
		for _, p := range order {
			a := byPurpose[p]
			fmt.Printf("%-16s  %6d  %10d  %10d  %10d  %10.4f\n",
				p, a.calls, a.in, a.out, a.in+a.out, a.cost)
			t.calls += a.calls
			t.in += a.in
			t.out += a.out
			t.cost += a.cost
		}

		fmt.Println(strings.Repeat("─", 72))
		fmt.Printf("%-16s  %6d  %10d  %10d  %10d  %10.4f\n",
			"TOTAL", t.calls, t.in, t.out, t.in+t.out, t.cost)
		return nil
	},
}

func init() {
	llmListCmd.Flags().Int("limit", 50, "Maximum number of events to show")
	llmListCmd.Flags().String("purpose", "", "Filter by purpose (problem-gen, grade-judge, solve, critique, vision-extract, topic-chat)")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
