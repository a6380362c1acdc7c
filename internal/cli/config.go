package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/docintegrity/pdf-forensics-api/internal/analyzer"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage pdfscan configuration",
	Long: `Manage pdfscan configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (PDFSCAN_*)
3. Config file (~/.pdfscan/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective heuristics configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if configFile := viper.ConfigFileUsed(); configFile != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", configFile)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults)\n\n")
		}

		data, err := yaml.Marshal(heuristicsConfig())
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}

		fmt.Println(string(data))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

// heuristicsConfig builds the engine configuration from defaults plus
// any viper-provided overrides.
func heuristicsConfig() analyzer.Config {
	cfg := analyzer.DefaultConfig()

	if viper.IsSet("max_date_drift_days") {
		if v := viper.GetInt("max_date_drift_days"); v > 0 {
			cfg.MaxDateDriftDays = v
		}
	}
	if viper.IsSet("required_fields") {
		cfg.RequiredFields = viper.GetStringSlice("required_fields")
	}
	if viper.IsSet("trusted_software") {
		cfg.TrustedSoftware = viper.GetStringSlice("trusted_software")
	}
	if viper.IsSet("suspicious_software") {
		cfg.SuspiciousSoftware = viper.GetStringSlice("suspicious_software")
	}

	return cfg
}
