package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/celeryops/celeryctl/internal/deploy"
)

var (
	statusLogDir        string
	statusTemplateUnits bool
)

var statusCmd = &cobra.Command{
	Use:   "status <project>",
	Short: "Show the state of a deployed service pair",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusLogDir, "log-dir", "", "log directory (default "+deploy.DefaultLogDir+")")
	statusCmd.Flags().BoolVar(&statusTemplateUnits, "template-units", false, "the project was deployed with template units")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg := deploy.Config{
		Project:       args[0],
		LogDir:        statusLogDir,
		TemplateUnits: statusTemplateUnits,
	}
	cfg.ApplyDefaults()

	systemd := deploy.NewSystemdController()
	w := cmd.OutOrStdout()

	active := color.New(color.FgGreen).SprintFunc()
	inactive := color.New(color.FgRed).SprintFunc()

	units := deploy.RenderUnits(cfg)
	for _, unit := range units {
		state := inactive("inactive")
		if systemd.IsActive(unit.StartName) {
			state = active("active")
		}
		fmt.Fprintf(w, "%s (%s): %s\n", unit.StartName, unit.Kind, state)
		fmt.Fprintf(w, "  log file: %s\n", deploy.LogFilePath(cfg.LogDir, cfg.Project, unit.Kind, cfg.Style()))
		fmt.Fprintf(w, "  pid file: %s\n", deploy.PIDFilePath(cfg.RunDirRoot, cfg.Project, unit.Kind, cfg.Style()))
		fmt.Fprintf(w, "  follow:   %s\n", deploy.TailCommand(deploy.LogFilePath(cfg.LogDir, cfg.Project, unit.Kind, cfg.Style())))
	}
	return nil
}
