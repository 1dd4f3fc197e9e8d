package deploy

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// realSystemdController implements SystemdController using os/exec to call systemctl.
type realSystemdController struct{}

// NewSystemdController returns a SystemdController that calls the real systemctl binary.
func NewSystemdController() SystemdController {
	return &realSystemdController{}
}

func (c *realSystemdController) IsAvailable() bool {
	_, err := exec.LookPath("systemctl")
	return err == nil
}

func (c *realSystemdController) DaemonReload() error {
	return c.run("daemon-reload")
}

func (c *realSystemdController) Enable(unit string) error {
	return c.run("enable", unit)
}

func (c *realSystemdController) Disable(unit string) error {
	return c.run("disable", unit)
}

func (c *realSystemdController) Stop(unit string) error {
	return c.run("stop", unit)
}

func (c *realSystemdController) Restart(unit string) error {
	return c.run("restart", unit)
}

func (c *realSystemdController) IsActive(unit string) bool {
	err := exec.Command("systemctl", "is-active", "--quiet", unit).Run()
	return err == nil
}

func (c *realSystemdController) run(args ...string) error {
	cmd := exec.Command("systemctl", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("deploy: systemctl %s: %s: %w", args[0], strings.TrimSpace(string(output)), err)
	}
	return nil
}

// realRootChecker implements RootChecker using os.Getuid.
type realRootChecker struct{}

// NewRootChecker returns a RootChecker that checks the real process UID.
func NewRootChecker() RootChecker {
	return &realRootChecker{}
}

func (c *realRootChecker) IsRoot() bool {
	return os.Getuid() == 0
}
