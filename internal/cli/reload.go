package cli

import (
	"fmt"
	"syscall"

	"github.com/spf13/cobra"
)

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Reload the adcfox server configuration and model",
	Long:  `Reload the adcfox server configuration and characterization model by sending SIGHUP to the process.`,
	RunE:  runReload,
}

func init() {
	reloadCmd.Flags().StringVar(&pidFile, "pid-file", "", "PID file path (overrides config)")
	rootCmd.AddCommand(reloadCmd)
}

func runReload(cmd *cobra.Command, args []string) error {
	pid, err := signalServer(syscall.SIGHUP)
	if err != nil {
		return err
	}

	if !jsonOut {
		fmt.Fprintf(cmd.OutOrStdout(), "Sent SIGHUP to process %d (reload requested)\n", pid)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), `{"status":"reload_requested","pid":%d}`+"\n", pid)
	}

	return nil
}
