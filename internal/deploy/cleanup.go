package deploy

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// CleanupStep is one advisory side effect in a cleanup plan.
type CleanupStep struct {
	// Description is the operator-facing summary of the step.
	Description string

	run func() error
}

// Run executes the step.
func (s CleanupStep) Run() error {
	return s.run()
}

// CleanupPlan is the ordered set of side effects that remove a prior
// deployment of a project. Every step is best-effort: the prior deployment
// may be partially or wholly absent, so a failing step never aborts the
// remaining ones.
type CleanupPlan struct {
	steps []CleanupStep
}

// Steps returns the plan's steps in execution order.
func (p *CleanupPlan) Steps() []CleanupStep {
	return p.steps
}

// NewCleanupPlan computes the removal plan for cfg.Project: stop, disable,
// and remove the unit file for both service kinds (covering both naming
// styles), remove the runtime PID directory, remove matching log files, then
// reload systemd. ApplyDefaults is called on a copy of cfg to fill the path
// roots.
func NewCleanupPlan(cfg Config, systemd SystemdController) *CleanupPlan {
	cfg.ApplyDefaults()

	plan := &CleanupPlan{}
	for _, kind := range ServiceKinds {
		for _, style := range []UnitStyle{StyleSingle, StyleTemplated} {
			fileName := UnitFileName(cfg.Project, kind, style)
			unit := startName(fileName, style)
			unitPath := filepath.Join(cfg.UnitDir, fileName)

			plan.add(fmt.Sprintf("stop %s", unit), func() error {
				return systemd.Stop(unit)
			})
			plan.add(fmt.Sprintf("disable %s", unit), func() error {
				return systemd.Disable(unit)
			})
			plan.add(fmt.Sprintf("remove %s", unitPath), func() error {
				return removeIfPresent(unitPath)
			})
		}
	}

	runDir := filepath.Join(cfg.RunDirRoot, RuntimeDirName(cfg.Project))
	plan.add(fmt.Sprintf("remove %s", runDir), func() error {
		return os.RemoveAll(runDir)
	})

	for _, stem := range []string{"worker", "beat"} {
		pattern := filepath.Join(cfg.LogDir, cfg.Project+"-"+stem+"*.log")
		plan.add(fmt.Sprintf("remove logs %s", pattern), func() error {
			return removeGlob(pattern)
		})
	}

	plan.add("reload systemd", systemd.DaemonReload)

	return plan
}

func (p *CleanupPlan) add(description string, run func() error) {
	p.steps = append(p.steps, CleanupStep{Description: description, run: run})
}

// Execute runs every step in order. Failures are logged and swallowed; the
// corresponding prior state may legitimately not exist. Returns the number
// of steps that failed.
func (p *CleanupPlan) Execute(logger *slog.Logger) int {
	failed := 0
	for _, step := range p.steps {
		if err := step.Run(); err != nil {
			logger.Info("cleanup step failed, continuing", "step", step.Description, "error", err)
			failed++
			continue
		}
		logger.Debug("cleanup step done", "step", step.Description)
	}
	return failed
}

func removeIfPresent(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func removeGlob(pattern string) error {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return err
	}
	for _, match := range matches {
		if err := removeIfPresent(match); err != nil {
			return err
		}
	}
	return nil
}
