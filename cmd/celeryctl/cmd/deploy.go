package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/celeryops/celeryctl/internal/deploy"
	"github.com/celeryops/celeryctl/internal/wizard"
)

var (
	deployCfg            deploy.Config
	deployAnswersFile    string
	deployNonInteractive bool
	deployDryRun         bool
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy a Celery worker/beat service pair",
	Long: "Deploy a Celery application as systemd services. Without --non-interactive\n" +
		"or --answers, an interactive wizard collects the deployment parameters,\n" +
		"prefilled from any flags given.",
	RunE: runDeploy,
}

func init() {
	deployCmd.Flags().StringVar(&deployCfg.Project, "project", "", "Celery application name")
	deployCmd.Flags().StringVar(&deployCfg.User, "user", "", "Linux account the services run as")
	deployCmd.Flags().StringVar(&deployCfg.ProjectDir, "project-dir", "", "absolute path of the project checkout")
	deployCmd.Flags().StringVar(&deployCfg.VenvPath, "venv", "", "virtualenv root (auto-detected when empty)")
	deployCmd.Flags().StringVar(&deployCfg.SettingsModule, "settings", "", "settings module (default <project>.settings)")
	deployCmd.Flags().StringVar(&deployCfg.Broker, "broker", "", "message broker: rabbitmq or redis")
	deployCmd.Flags().StringVar(&deployCfg.LogDir, "log-dir", "", "log directory (default "+deploy.DefaultLogDir+")")
	deployCmd.Flags().BoolVar(&deployCfg.StartNow, "start", false, "restart the services immediately after enabling")
	deployCmd.Flags().BoolVar(&deployCfg.TemplateUnits, "template-units", false, "generate systemd template units with %i instance expansion")
	deployCmd.Flags().BoolVar(&deployCfg.InstallRequirements, "install-requirements", false, "pip install requirements.txt into the virtualenv first")
	deployCmd.Flags().StringVar(&deployAnswersFile, "answers", "", "YAML answers file (skips the wizard)")
	deployCmd.Flags().BoolVar(&deployNonInteractive, "non-interactive", false, "never prompt; fail on incomplete configuration")
	deployCmd.Flags().BoolVar(&deployDryRun, "dry-run", false, "resolve and render only, no side effects")
	rootCmd.AddCommand(deployCmd)
}

func runDeploy(cmd *cobra.Command, _ []string) error {
	logger := newLogger()
	cfg := deployCfg

	if deployAnswersFile != "" {
		if err := wizard.LoadAnswers(deployAnswersFile, &cfg); err != nil {
			return fmt.Errorf("celeryctl deploy: %w", err)
		}
	} else if !deployNonInteractive {
		if err := wizard.Collect(&cfg); err != nil {
			return fmt.Errorf("celeryctl deploy: %w", err)
		}
	}

	deployer := deploy.NewDeployer(cfg,
		deploy.NewSystemdController(),
		deploy.NewRootChecker(),
		deploy.NewUserLookup(),
		deploy.NewCommandRunner(),
		logger,
		deployDryRun,
	)

	units, err := deployer.Deploy()
	if err != nil {
		return fmt.Errorf("celeryctl deploy: %w", err)
	}

	w := cmd.OutOrStdout()
	if deployDryRun {
		printRendered(w, units)
		return nil
	}

	printDeploySummary(w, deployer.Config(), units)
	return nil
}

func printRendered(w io.Writer, units []deploy.RenderedUnit) {
	for _, unit := range units {
		fmt.Fprintf(w, "# %s\n%s\n", unit.Path, unit.Content)
	}
}

func printDeploySummary(w io.Writer, cfg deploy.Config, units []deploy.RenderedUnit) {
	color.New(color.FgGreen, color.Bold).Fprintf(w, "Deployed %s\n", cfg.Project)
	for _, unit := range units {
		fmt.Fprintf(w, "\n%s (%s)\n", unit.StartName, unit.Kind)
		fmt.Fprintf(w, "  unit file: %s\n", unit.Path)
		fmt.Fprintf(w, "  log file:  %s\n", deploy.LogFilePath(cfg.LogDir, cfg.Project, unit.Kind, cfg.Style()))
		fmt.Fprintf(w, "  pid file:  %s\n", deploy.PIDFilePath(cfg.RunDirRoot, cfg.Project, unit.Kind, cfg.Style()))
		fmt.Fprintf(w, "  status:    %s\n", deploy.StatusCommand(unit.StartName))
		fmt.Fprintf(w, "  logs:      %s\n", deploy.JournalCommand(unit.StartName))
	}
	if !cfg.StartNow {
		fmt.Fprintf(w, "\nServices enabled but not started. Start them with:\n")
		for _, unit := range units {
			fmt.Fprintf(w, "  systemctl start %s\n", unit.StartName)
		}
	}
}
