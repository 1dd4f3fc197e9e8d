package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/celeryops/celeryctl/internal/deploy"
	"github.com/celeryops/celeryctl/internal/fsutil"
	"github.com/celeryops/celeryctl/internal/wizard"
)

var (
	renderCfg         deploy.Config
	renderAnswersFile string
	renderOutDir      string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the unit files without touching the system",
	Long: "Resolve the configuration and print both unit documents to stdout, or\n" +
		"write them under --out-dir. No systemctl call is made.",
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVar(&renderCfg.Project, "project", "", "Celery application name")
	renderCmd.Flags().StringVar(&renderCfg.User, "user", "", "Linux account the services run as")
	renderCmd.Flags().StringVar(&renderCfg.ProjectDir, "project-dir", "", "absolute path of the project checkout")
	renderCmd.Flags().StringVar(&renderCfg.VenvPath, "venv", "", "virtualenv root (auto-detected when empty)")
	renderCmd.Flags().StringVar(&renderCfg.SettingsModule, "settings", "", "settings module (default <project>.settings)")
	renderCmd.Flags().StringVar(&renderCfg.Broker, "broker", "", "message broker: rabbitmq or redis")
	renderCmd.Flags().StringVar(&renderCfg.LogDir, "log-dir", "", "log directory (default "+deploy.DefaultLogDir+")")
	renderCmd.Flags().BoolVar(&renderCfg.TemplateUnits, "template-units", false, "generate systemd template units with %i instance expansion")
	renderCmd.Flags().StringVar(&renderAnswersFile, "answers", "", "YAML answers file")
	renderCmd.Flags().StringVar(&renderOutDir, "out-dir", "", "write unit files here instead of stdout")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	cfg := renderCfg
	if renderAnswersFile != "" {
		if err := wizard.LoadAnswers(renderAnswersFile, &cfg); err != nil {
			return fmt.Errorf("celeryctl render: %w", err)
		}
	}

	if err := cfg.Resolve(deploy.NewUserLookup()); err != nil {
		return fmt.Errorf("celeryctl render: %w", err)
	}
	units := deploy.RenderUnits(cfg)

	if renderOutDir == "" {
		printRendered(cmd.OutOrStdout(), units)
		return nil
	}

	for _, unit := range units {
		if err := fsutil.WriteFileAtomic(renderOutDir, unit.FileName, []byte(unit.Content), 0o644); err != nil {
			return fmt.Errorf("celeryctl render: write %s: %w", unit.FileName, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s/%s\n", renderOutDir, unit.FileName)
	}
	return nil
}
