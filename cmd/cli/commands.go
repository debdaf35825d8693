package main

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(gamesCmd)
	rootCmd.AddCommand(adjustmentsCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(announceCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(removeCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/health")
	},
}

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "List recorded games as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/api/games")
	},
}

var adjustmentsCmd = &cobra.Command{
	Use:   "adjustments",
	Short: "List manual point adjustments as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/api/adjustments")
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the overall and solo-only leaderboards",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/api/leaderboard")
	},
}

var announceCmd = &cobra.Command{
	Use:   "announce",
	Short: "Post the current leaderboard to the Slack channel",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/api/leaderboard/announce")
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show how often each chat command has been used",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/api/stats")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/metrics")
	},
}

var removeCmd = &cobra.Command{
	Use:       "remove [game|adjustment] <id>",
	Short:     "Remove a recorded game or adjustment",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"game", "adjustment"},
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil || id < 1 {
			return fmt.Errorf("invalid id %q", args[1])
		}
		switch args[0] {
		case "game":
			return performRequest(http.MethodDelete, fmt.Sprintf("/api/games/%d", id))
		case "adjustment", "adj":
			return performRequest(http.MethodDelete, fmt.Sprintf("/api/adjustments/%d", id))
		}
		return fmt.Errorf("unknown record kind %q, want game or adjustment", args[0])
	},
}

func performRequest(method, endpoint string) error {
	url := host + endpoint
	if dryRun {
		url += "?dry_run=true"
	}
	fmt.Printf("Making %s request to %s\n", method, url)

	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
