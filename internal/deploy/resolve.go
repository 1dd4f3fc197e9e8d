package deploy

import (
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sys/unix"
)

// binDirName is the binary subdirectory of a virtualenv root.
const binDirName = "bin"

// venvCandidates are probed in priority order before falling back to the
// remaining immediate subdirectories of the project directory.
var venvCandidates = []string{".venv", "venv", "env"}

// interpreterNames are probed in order inside a candidate bin directory.
var interpreterNames = []string{"python", "python3"}

// brokerUnits maps each supported broker to its systemd unit name. The map
// is closed: any selection outside it is rejected.
var brokerUnits = map[string]string{
	"rabbitmq": "rabbitmq-server.service",
	"redis":    "redis.service",
}

// Brokers returns the supported broker selections in stable order.
func Brokers() []string {
	names := make([]string, 0, len(brokerUnits))
	for name := range brokerUnits {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveBroker maps a broker selection to its systemd unit name.
func ResolveBroker(selection string) (string, error) {
	unit, ok := brokerUnits[selection]
	if !ok {
		return "", newConfigError(ErrInvalidBroker, "broker", selection)
	}
	return unit, nil
}

// ResolveSettingsModule returns the explicit settings module when given,
// otherwise "<project>.settings".
func ResolveSettingsModule(project, explicit string) string {
	if explicit != "" {
		return explicit
	}
	return project + ".settings"
}

// ResolveVenv locates the virtualenv binary directory for a project. An
// explicit virtualenv root is used unconditionally (no existence check);
// otherwise the candidate subdirectories of projectDir are probed in
// priority order for one containing an executable interpreter.
func ResolveVenv(projectDir, explicit string) (string, error) {
	if explicit != "" {
		return filepath.Join(explicit, binDirName), nil
	}

	seen := make(map[string]bool, len(venvCandidates))
	for _, name := range venvCandidates {
		seen[name] = true
		binDir := filepath.Join(projectDir, name, binDirName)
		if findInterpreter(binDir) != "" {
			return binDir, nil
		}
	}

	entries, err := os.ReadDir(projectDir)
	if err != nil {
		return "", newConfigError(ErrVenvNotFound, "venv", err.Error())
	}
	for _, entry := range entries {
		if !entry.IsDir() || seen[entry.Name()] {
			continue
		}
		binDir := filepath.Join(projectDir, entry.Name(), binDirName)
		if findInterpreter(binDir) != "" {
			return binDir, nil
		}
	}

	return "", newConfigError(ErrVenvNotFound, "venv", "no virtualenv with an executable interpreter under "+projectDir)
}

// findInterpreter returns the first executable interpreter in binDir, or ""
// when none exists.
func findInterpreter(binDir string) string {
	for _, name := range interpreterNames {
		path := filepath.Join(binDir, name)
		if isExecutable(path) {
			return path
		}
	}
	return ""
}

// isExecutable reports whether path is a regular file the current process
// may execute.
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	return unix.Access(path, unix.X_OK) == nil
}

// resolveRunCommand returns the ExecStart command prefix: the celery binary
// from the virtualenv when it is executable, otherwise an interpreter
// invoking the celery module.
func resolveRunCommand(venvBin string) string {
	celery := filepath.Join(venvBin, "celery")
	if isExecutable(celery) {
		return celery
	}
	if interp := findInterpreter(venvBin); interp != "" {
		return interp + " -m celery"
	}
	return filepath.Join(venvBin, "python") + " -m celery"
}

// Validate checks the required fields in order: blank fields first, then the
// project directory, then the deploy user. It performs no virtualenv
// probing; that happens in Resolve once validation has passed.
func (c *Config) Validate(users UserLookup) error {
	if c.Project == "" {
		return newConfigError(ErrEmptyField, "project", "")
	}
	if c.User == "" {
		return newConfigError(ErrEmptyField, "user", "")
	}
	if c.ProjectDir == "" {
		return newConfigError(ErrEmptyField, "project_dir", "")
	}
	info, err := os.Stat(c.ProjectDir)
	if err != nil || !info.IsDir() {
		return newConfigError(ErrDirectoryNotFound, "project_dir", c.ProjectDir)
	}
	if _, err := users.Lookup(c.User); err != nil {
		return newConfigError(ErrUserNotFound, "user", c.User)
	}
	return nil
}

// Resolve completes the config: defaults, validation, broker unit lookup,
// virtualenv and run-command resolution, settings-module default. After a
// nil return every field needed by the renderer is set and the config is
// treated as immutable.
func (c *Config) Resolve(users UserLookup) error {
	c.ApplyDefaults()
	if err := c.Validate(users); err != nil {
		return err
	}

	unit, err := ResolveBroker(c.Broker)
	if err != nil {
		return err
	}
	c.BrokerUnit = unit

	venvBin, err := ResolveVenv(c.ProjectDir, c.VenvPath)
	if err != nil {
		return err
	}
	c.VenvBin = venvBin
	c.RunCommand = resolveRunCommand(venvBin)
	c.SettingsModule = ResolveSettingsModule(c.Project, c.SettingsModule)

	return nil
}
