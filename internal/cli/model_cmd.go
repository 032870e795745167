package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/haskel/adcfox/internal/charmodel"
	"github.com/haskel/adcfox/internal/logger"
)

var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Inspect the characterization model",
}

var modelInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show model file, entry count and load state",
	Long: `Load the characterization model the way the server does and report on it.
With --remote, report the model loaded by the running server instead.`,
	RunE: runModelInfo,
}

func init() {
	modelInfoCmd.Flags().BoolVar(&remote, "remote", false, "query a running server instead of loading locally")
	modelCmd.AddCommand(modelInfoCmd)
	rootCmd.AddCommand(modelCmd)
}

func runModelInfo(cmd *cobra.Command, args []string) error {
	var info charmodel.Info

	if remote {
		data, status, err := NewClient().Get("/model")
		if err != nil {
			return fmt.Errorf("failed to get model info: %w", err)
		}
		if status != http.StatusOK {
			return fmt.Errorf("server returned status %d: %s", status, string(data))
		}
		if err := json.Unmarshal(data, &info); err != nil {
			return err
		}
	} else {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		_, info = buildEstimator(cmd.Context(), cfg, logger.Discard())
	}

	return printModelInfo(cmd.OutOrStdout(), info)
}

func printModelInfo(w io.Writer, info charmodel.Info) error {
	if jsonOut {
		return json.NewEncoder(w).Encode(info)
	}

	rows := []row{
		{"path", info.Path},
		{"exists", flag(info.Exists, true)},
		{"entries", strconv.Itoa(info.Entries)},
		{"degraded", flag(info.Degraded, false)},
		{"generated", flag(info.Generated, false)},
	}
	if info.Exists {
		rows = append(rows,
			row{"size", bytesHuman(uint64(info.Size))},
			row{"updated", info.UpdatedAt.Format(time.RFC3339)},
		)
	}

	renderBlock(w, "Characterization model", rows)
	return nil
}
