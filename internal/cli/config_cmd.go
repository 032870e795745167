package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/haskel/adcfox/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Long:  `Display the current configuration (loaded from file or defaults). Passwords are masked.`,
	RunE:  runConfig,
}

var validateOnly bool

func init() {
	configCmd.Flags().BoolVar(&validateOnly, "validate", false, "only validate config, don't print")
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg := config.LoadOrDefault(cfgFile)
	w := cmd.OutOrStdout()

	if err := cfg.Validate(); err != nil {
		if jsonOut {
			fmt.Fprintf(w, `{"valid":false,"error":%q}`+"\n", err.Error())
		} else {
			fmt.Fprintln(w, errorStyle.Render("Configuration invalid: "+err.Error()))
		}
		return err
	}

	if validateOnly {
		if jsonOut {
			fmt.Fprintln(w, `{"valid":true}`)
		} else {
			fmt.Fprintln(w, okStyle.Render("Configuration is valid"))
		}
		return nil
	}

	masked := *cfg
	if masked.Auth.Password != "" {
		masked.Auth.Password = "********"
	}

	if jsonOut {
		data, err := json.MarshalIndent(&masked, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))
	} else {
		data, err := yaml.Marshal(&masked)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))
	}

	return nil
}
