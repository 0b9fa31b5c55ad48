package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hyperengineering/composer/internal/validation"
)

var checklistJSONOutput bool

var checklistCmd = &cobra.Command{
	Use:   "checklist <config.json>",
	Short: "Print the deployment checklist for a tenant configuration file",
	Long:  "Classify validation errors as deployment-blocking and summarize the configuration contents.",
	Args:  cobra.ExactArgs(1),
	RunE:  runChecklist,
}

func init() {
	checklistCmd.Flags().BoolVar(&checklistJSONOutput, "json", false,
		"Output in JSON format")
	rootCmd.AddCommand(checklistCmd)
}

func runChecklist(cmd *cobra.Command, args []string) error {
	cfg, err := loadTenantConfig(args[0])
	if err != nil {
		return err
	}

	checklist := validation.GenerateDeploymentChecklist(cfg)

	if checklistJSONOutput {
		if err := printJSON(cmd.OutOrStdout(), checklist); err != nil {
			return err
		}
	} else {
		fmt.Fprint(cmd.OutOrStdout(), checklist.Message)
	}

	if !checklist.Ready {
		cmd.SilenceUsage = true
		return fmt.Errorf("configuration is not ready to deploy: %d blocking error(s)", len(checklist.BlockingErrors))
	}
	return nil
}
