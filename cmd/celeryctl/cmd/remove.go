package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/celeryops/celeryctl/internal/deploy"
)

var removeLogDir string

var removeCmd = &cobra.Command{
	Use:   "remove <project>",
	Short: "Remove a deployed worker/beat service pair",
	Long: "Stop, disable, and remove the systemd units for a project, along with\n" +
		"its runtime directory and log files. Every step is best-effort: a\n" +
		"partially or wholly absent deployment is not an error.",
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	removeCmd.Flags().StringVar(&removeLogDir, "log-dir", "", "log directory (default "+deploy.DefaultLogDir+")")
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	if !deploy.NewRootChecker().IsRoot() {
		return errors.New("celeryctl remove: requires root privileges")
	}
	systemd := deploy.NewSystemdController()
	if !systemd.IsAvailable() {
		return errors.New("celeryctl remove: systemd is not available")
	}

	cfg := deploy.Config{Project: args[0], LogDir: removeLogDir}
	plan := deploy.NewCleanupPlan(cfg, systemd)
	skipped := plan.Execute(logger)

	if skipped > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%s removed (%d of %d steps skipped)\n", args[0], skipped, len(plan.Steps()))
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%s removed\n", args[0])
	}
	return nil
}
