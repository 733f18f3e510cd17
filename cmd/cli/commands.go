package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(recoverCmd)
	rootCmd.AddCommand(finalizeCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(clearCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health", nil)
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List the persisted matches for the configured team",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/matches", nil)
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary <matchID>",
	Short: "Replay a match log and print the derived summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/summary", url.Values{"matchID": {args[0]}})
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <matchID>",
	Short: "Run the integrity checks over a match log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/validate", url.Values{"matchID": {args[0]}})
	},
}

var recoverCmd = &cobra.Command{
	Use:   "recover <matchID>",
	Short: "Rebuild a corrupted match log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/recover", url.Values{"matchID": {args[0]}})
	},
}

var finalizeCmd = &cobra.Command{
	Use:   "finalize <matchID>",
	Short: "Finalize a match and send its summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/finalize", url.Values{"matchID": {args[0]}})
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics", nil)
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear [matchID]",
	Short: "Clear one match, or the whole store",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params := url.Values{}
		if len(args) == 1 {
			params.Set("matchID", args[0])
		}
		return performPostRequest("/clear", params)
	},
}

func buildURL(endpoint string, params url.Values) string {
	if params == nil {
		params = url.Values{}
	}
	if dryRun {
		params.Set("dry_run", "true")
	}
	u := host + endpoint
	if encoded := params.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u
}

func performGetRequest(endpoint string, params url.Values) error {
	url := buildURL(endpoint, params)
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func performPostRequest(endpoint string, params url.Values) error {
	url := buildURL(endpoint, params)
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Post(url, "application/json", strings.NewReader(""))
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
