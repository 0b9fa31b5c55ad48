package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/hyperengineering/composer/internal/types"
	"github.com/hyperengineering/composer/internal/validation"
)

var validateJSONOutput bool

var validateCmd = &cobra.Command{
	Use:   "validate <config.json>",
	Short: "Validate a tenant configuration file",
	Long:  "Run every validation pass over a tenant-config JSON document without starting the server.",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateJSONOutput, "json", false,
		"Output in JSON format")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadTenantConfig(args[0])
	if err != nil {
		return err
	}

	result := validation.ValidateConfig(cfg)

	if validateJSONOutput {
		if err := printJSON(cmd.OutOrStdout(), result); err != nil {
			return err
		}
	} else {
		printResult(cmd.OutOrStdout(), result)
	}

	if !result.Valid {
		cmd.SilenceUsage = true
		return fmt.Errorf("configuration is invalid: %d error(s)", result.Summary.TotalErrors)
	}
	return nil
}

// printResult writes a human-readable validation summary.
func printResult(w io.Writer, result validation.ConfigResult) {
	if result.Valid {
		fmt.Fprintln(w, "Configuration is valid.")
	} else {
		fmt.Fprintf(w, "Configuration has %d error(s):\n", result.Summary.TotalErrors)
		for _, issue := range result.Errors {
			fmt.Fprintf(w, "  - [%s/%s] %s: %s\n", issue.EntityType, issue.EntityID, issue.Field, issue.Message)
		}
	}
	if len(result.Warnings) > 0 {
		fmt.Fprintf(w, "Warnings (%d):\n", len(result.Warnings))
		for _, issue := range result.Warnings {
			fmt.Fprintf(w, "  - [%s/%s] %s: %s\n", issue.EntityType, issue.EntityID, issue.Field, issue.Message)
		}
	}
}

// loadTenantConfig reads a tenant-config JSON document from disk.
func loadTenantConfig(path string) (*types.TenantConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := types.NewTenantConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	// Collections absent from the document stay allocated and empty.
	if cfg.Programs == nil {
		cfg.Programs = map[string]types.Program{}
	}
	if cfg.Forms == nil {
		cfg.Forms = map[string]types.Form{}
	}
	if cfg.CTAs == nil {
		cfg.CTAs = map[string]types.CTA{}
	}
	if cfg.Branches == nil {
		cfg.Branches = map[string]types.Branch{}
	}
	return cfg, nil
}

// printJSON marshals v to JSON and writes to the given writer.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
