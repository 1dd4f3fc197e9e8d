package deploy

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/celeryops/celeryctl/internal/fsutil"
)

// Deployer renders and installs the worker/beat service pair for one
// deployment. Side effects run strictly in order: cleanup, log directory
// preparation, requirements install, unit file writes, daemon-reload,
// enable, then restart. Cleanup failures are tolerated; everything after
// is fatal, since a half-written unit or failed enable leaves the system in
// a state the operator must inspect.
type Deployer struct {
	cfg     Config
	systemd SystemdController
	root    RootChecker
	users   UserLookup
	runner  CommandRunner
	logger  *slog.Logger
	dryRun  bool
}

// NewDeployer creates a Deployer. With dryRun set, Deploy resolves and
// renders but performs no side effects.
func NewDeployer(cfg Config, systemd SystemdController, root RootChecker, users UserLookup, runner CommandRunner, logger *slog.Logger, dryRun bool) *Deployer {
	return &Deployer{
		cfg:     cfg,
		systemd: systemd,
		root:    root,
		users:   users,
		runner:  runner,
		logger:  logger.With("component", "deploy"),
		dryRun:  dryRun,
	}
}

// Config returns the deployer's config, resolved if Deploy has run.
func (d *Deployer) Config() Config {
	return d.cfg
}

// Deploy runs the full pipeline and returns the rendered units.
func (d *Deployer) Deploy() ([]RenderedUnit, error) {
	// 1. Resolve and render. Config errors surface here, before any
	// privilege or systemd check, so dry runs need neither.
	if err := d.cfg.Resolve(d.users); err != nil {
		return nil, err
	}
	units := RenderUnits(d.cfg)

	if d.dryRun {
		d.logger.Info("dry run, skipping all side effects", "project", d.cfg.Project)
		return units, nil
	}

	// 2. Check root.
	if !d.root.IsRoot() {
		return nil, errors.New("deploy: requires root privileges")
	}

	// 3. Check systemd.
	if !d.systemd.IsAvailable() {
		return nil, errors.New("deploy: systemd is not available")
	}

	// 4. Remove any prior deployment of this project. Best-effort; the
	// plan ends with a daemon-reload so stale units are forgotten before
	// the new files land.
	plan := NewCleanupPlan(d.cfg, d.systemd)
	if failed := plan.Execute(d.logger); failed > 0 {
		d.logger.Info("cleanup finished with skipped steps", "skipped", failed)
	}

	// 5. Prepare the log directory, owned by the deploy user.
	if err := d.prepareLogDir(); err != nil {
		return nil, err
	}

	// 6. Install requirements into the virtualenv if requested.
	if d.cfg.InstallRequirements {
		if err := d.installRequirements(); err != nil {
			return nil, err
		}
	}

	// 7. Write unit files atomically.
	for _, unit := range units {
		if err := fsutil.WriteFileAtomic(d.cfg.UnitDir, unit.FileName, []byte(unit.Content), 0o644); err != nil {
			return nil, fmt.Errorf("deploy: write unit file %s: %w", unit.Path, err)
		}
		d.logger.Info("unit file written", "path", unit.Path)
	}

	// 8. Restore SELinux contexts when restorecon exists. Non-fatal.
	d.restoreContexts(units)

	// 9. Daemon reload.
	if err := d.systemd.DaemonReload(); err != nil {
		return nil, fmt.Errorf("deploy: daemon-reload: %w", err)
	}
	d.logger.Info("systemd daemon reloaded")

	// 10. Enable both units.
	for _, unit := range units {
		if err := d.systemd.Enable(unit.StartName); err != nil {
			return nil, fmt.Errorf("deploy: enable %s: %w", unit.StartName, err)
		}
		d.logger.Info("unit enabled", "unit", unit.StartName)
	}

	// 11. Restart now if confirmed.
	if d.cfg.StartNow {
		for _, unit := range units {
			if err := d.systemd.Restart(unit.StartName); err != nil {
				return nil, fmt.Errorf("deploy: restart %s: %w", unit.StartName, err)
			}
			d.logger.Info("unit started", "unit", unit.StartName)
		}
	}

	return units, nil
}

func (d *Deployer) prepareLogDir() error {
	account, err := d.users.Lookup(d.cfg.User)
	if err != nil {
		return newConfigError(ErrUserNotFound, "user", d.cfg.User)
	}
	if err := os.MkdirAll(d.cfg.LogDir, 0o755); err != nil {
		return fmt.Errorf("deploy: create log directory %s: %w", d.cfg.LogDir, err)
	}
	if err := os.Chown(d.cfg.LogDir, account.UID, account.GID); err != nil {
		return fmt.Errorf("deploy: chown log directory %s: %w", d.cfg.LogDir, err)
	}
	d.logger.Info("log directory ready", "path", d.cfg.LogDir, "owner", d.cfg.User)
	return nil
}

func (d *Deployer) installRequirements() error {
	reqPath := filepath.Join(d.cfg.ProjectDir, "requirements.txt")
	if _, err := os.Stat(reqPath); errors.Is(err, os.ErrNotExist) {
		d.logger.Info("no requirements.txt, skipping install", "path", reqPath)
		return nil
	} else if err != nil {
		return fmt.Errorf("deploy: stat %s: %w", reqPath, err)
	}

	pip := filepath.Join(d.cfg.VenvBin, "pip")
	output, err := d.runner.Run(pip, "install", "-r", reqPath)
	if err != nil {
		return fmt.Errorf("deploy: pip install: %s: %w", strings.TrimSpace(string(output)), err)
	}
	d.logger.Info("requirements installed", "file", reqPath)
	return nil
}

func (d *Deployer) restoreContexts(units []RenderedUnit) {
	restorecon, err := d.runner.LookPath("restorecon")
	if err != nil {
		return
	}
	for _, unit := range units {
		if output, err := d.runner.Run(restorecon, unit.Path); err != nil {
			d.logger.Info("restorecon failed, continuing", "path", unit.Path,
				"output", strings.TrimSpace(string(output)), "error", err)
		}
	}
}
