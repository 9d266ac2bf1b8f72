// Simulator streams historical transaction rows at a running paywatch backend
// and reports which ingests triggered alerts. Used for demos and load testing;
// it exercises the public API only.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/paywatch/paywatch-backend/internal/history"
	"github.com/paywatch/paywatch-backend/internal/models"
)

var (
	apiURL  string
	csvPath string
	records int
	delay   time.Duration
	shuffle bool
)

var rootCmd = &cobra.Command{
	Use:   "simulator",
	Short: "Replay historical transactions against a paywatch backend",
	Long: `Reads a transactions CSV (timestamp,status,count) and posts each row to the
ingest endpoint, printing the alert recommendation returned for every record.`,
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVar(&apiURL, "api-url", "http://localhost:8080", "Base URL of the paywatch backend")
	rootCmd.Flags().StringVar(&csvPath, "csv", "transactions.csv", "Path to the historical transactions CSV")
	rootCmd.Flags().IntVar(&records, "records", 100, "Number of records to stream")
	rootCmd.Flags().DurationVar(&delay, "delay", 100*time.Millisecond, "Delay between records")
	rootCmd.Flags().BoolVar(&shuffle, "shuffle", true, "Stream a random sample instead of file order")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type ingestResponse struct {
	ShouldAlert  bool           `json:"should_alert"`
	AnomalyScore float64        `json:"anomaly_score"`
	Alerts       []models.Alert `json:"alerts"`
	Message      string         `json:"message"`
}

func run(cmd *cobra.Command, args []string) error {
	observations, err := history.LoadCSV(csvPath)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Loaded %d historical transaction records\n", len(observations))

	if shuffle {
		rand.Shuffle(len(observations), func(i, j int) {
			observations[i], observations[j] = observations[j], observations[i]
		})
	}
	if records < len(observations) {
		observations = observations[:records]
	}

	client := &http.Client{Timeout: 5 * time.Second}
	alertsTriggered := 0

	for _, obs := range observations {
		resp, err := post(client, obs)
		if err != nil {
			return fmt.Errorf("backend not reachable (start with: paywatch-server): %w", err)
		}

		fmt.Printf("[%s] %-18s count: %3d ", obs.Timestamp.Format("2006-01-02 15:04:05"), obs.Status, obs.Count)
		if resp.ShouldAlert {
			alertsTriggered++
			fmt.Printf("🚨 ALERT! Score: %.1f\n", resp.AnomalyScore)
			for _, alert := range resp.Alerts {
				fmt.Printf("   → %s: %s\n", alert.Severity, alert.Message)
			}
		} else {
			fmt.Println("OK")
		}

		time.Sleep(delay)
	}

	fmt.Printf("\nSimulation complete: %d records streamed, %d alerts triggered\n", len(observations), alertsTriggered)
	return nil
}

func post(client *http.Client, obs models.Observation) (*ingestResponse, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"timestamp": obs.Timestamp.Format(time.RFC3339),
		"status":    obs.Status,
		"count":     obs.Count,
	})
	if err != nil {
		return nil, err
	}

	resp, err := client.Post(apiURL+"/api/v1/transactions", "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned %d", resp.StatusCode)
	}

	var out ingestResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}
