// Package wizard collects a deployment configuration interactively. Each
// form field carries its prompt, default, and inline validator; full
// validation against the live system happens later in the resolver.
package wizard

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/huh"

	"github.com/celeryops/celeryctl/internal/deploy"
)

// Collect runs the interactive form, prefilled from cfg, and writes the
// answers back into cfg.
func Collect(cfg *deploy.Config) error {
	if cfg.LogDir == "" {
		cfg.LogDir = deploy.DefaultLogDir
	}
	if cfg.Broker == "" {
		cfg.Broker = deploy.Brokers()[0]
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Project name").
				Description("Celery application name, used in service and log names").
				Value(&cfg.Project).
				Validate(NotEmpty("project name")),
			huh.NewInput().
				Title("Linux user").
				Description("Existing account the services run as").
				Value(&cfg.User).
				Validate(NotEmpty("linux user")),
			huh.NewInput().
				Title("Project directory").
				Value(&cfg.ProjectDir).
				Validate(AbsolutePath("project directory")),
			huh.NewInput().
				Title("Virtualenv path").
				Description("Leave blank to auto-detect under the project directory").
				Value(&cfg.VenvPath).
				Validate(OptionalAbsolutePath("virtualenv path")),
			huh.NewInput().
				Title("Settings module").
				Description("Leave blank for <project>.settings").
				Value(&cfg.SettingsModule),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Message broker").
				Options(huh.NewOptions(deploy.Brokers()...)...).
				Value(&cfg.Broker),
			huh.NewInput().
				Title("Log directory").
				Value(&cfg.LogDir).
				Validate(AbsolutePath("log directory")),
			huh.NewConfirm().
				Title("Start services now?").
				Value(&cfg.StartNow),
		),
	)

	if err := form.Run(); err != nil {
		return fmt.Errorf("wizard: %w", err)
	}
	return nil
}

// NotEmpty validates that a required field is not blank.
func NotEmpty(field string) func(string) error {
	return func(value string) error {
		if value == "" {
			return fmt.Errorf("%s must not be empty", field)
		}
		return nil
	}
}

// AbsolutePath validates that a required field holds an absolute path.
func AbsolutePath(field string) func(string) error {
	return func(value string) error {
		if value == "" {
			return fmt.Errorf("%s must not be empty", field)
		}
		if !filepath.IsAbs(value) {
			return fmt.Errorf("%s must be an absolute path", field)
		}
		return nil
	}
}

// OptionalAbsolutePath validates that a field is blank or an absolute path.
func OptionalAbsolutePath(field string) func(string) error {
	return func(value string) error {
		if value == "" {
			return nil
		}
		if !filepath.IsAbs(value) {
			return fmt.Errorf("%s must be an absolute path", field)
		}
		return nil
	}
}
