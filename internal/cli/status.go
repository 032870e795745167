package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/haskel/adcfox/internal/monitor"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Get adapter process status",
	Long:  `Query the running adcfox server for its process resource usage.`,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	client := NewClient()

	data, status, err := client.Get("/status")
	if err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}

	if status != http.StatusOK {
		return fmt.Errorf("server returned status %d: %s", status, string(data))
	}

	w := cmd.OutOrStdout()
	if jsonOut {
		fmt.Fprintln(w, string(data))
		return nil
	}

	var state monitor.ProcessState
	if err := json.Unmarshal(data, &state); err != nil {
		return err
	}

	renderBlock(w, "adcfox process", []row{
		{"pid", strconv.Itoa(int(state.PID))},
		{"uptime", (time.Duration(state.UptimeSeconds) * time.Second).String()},
		{"cpu", fmt.Sprintf("%.1f%%", state.CPUPercent)},
		{"rss", bytesHuman(state.RSSBytes)},
		{"vms", bytesHuman(state.VMSBytes)},
		{"threads", strconv.Itoa(int(state.Threads))},
		{"goroutines", strconv.Itoa(state.Goroutines)},
	})
	return nil
}
