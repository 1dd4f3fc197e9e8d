// Package deploy implements the configuration resolver, systemd unit
// renderer, and cleanup planner for deploying a Celery application as a
// worker/beat service pair.
package deploy

// ServiceKind identifies one of the two services a deployment produces.
type ServiceKind string

const (
	// KindWorker is the task-executing service.
	KindWorker ServiceKind = "worker"

	// KindBeat is the periodic scheduler service.
	KindBeat ServiceKind = "beat"
)

// ServiceKinds lists the kinds in deployment order.
var ServiceKinds = []ServiceKind{KindWorker, KindBeat}

// Label returns the capitalized form used in unit descriptions.
func (k ServiceKind) Label() string {
	switch k {
	case KindWorker:
		return "Worker"
	case KindBeat:
		return "Beat"
	}
	return string(k)
}

// UnitStyle selects the renderer's unit naming strategy.
type UnitStyle int

const (
	// StyleSingle produces one fixed unit per service kind
	// (celery-<project>.service).
	StyleSingle UnitStyle = iota

	// StyleTemplated produces systemd template units with %i instance
	// expansion (celery-<project>@.service).
	StyleTemplated
)

// DefaultLogDir is the default directory for worker and beat log files.
const DefaultLogDir = "/var/log/celery"

// DefaultUnitDir is the default directory for generated unit files.
const DefaultUnitDir = "/etc/systemd/system"

// DefaultRunDirRoot is the root under which the per-project runtime
// directory is created by systemd.
const DefaultRunDirRoot = "/run"

// Config holds the configuration for one deployment. It is populated from
// the interactive wizard, an answers file, or CLI flags, then completed by
// Resolve before any unit is rendered.
type Config struct {
	// Project is the Celery application name. Used verbatim in service
	// names, the settings-module default, and log filenames.
	Project string `yaml:"project"`

	// User is the Linux account the services run as. Must name an
	// existing system account.
	User string `yaml:"user"`

	// ProjectDir is the absolute path of the project checkout. Must exist
	// as a directory.
	ProjectDir string `yaml:"project_dir"`

	// VenvPath is the virtualenv root. When empty the resolver probes
	// ProjectDir for one.
	VenvPath string `yaml:"venv"`

	// SettingsModule is the Django settings module exposed to both
	// services. Default: "<project>.settings".
	SettingsModule string `yaml:"settings_module"`

	// Broker selects the message broker: "rabbitmq" or "redis".
	Broker string `yaml:"broker"`

	// LogDir is the directory for service log files.
	// Default: /var/log/celery
	LogDir string `yaml:"log_dir"`

	// StartNow restarts both services immediately after enabling them.
	StartNow bool `yaml:"start"`

	// TemplateUnits switches the renderer to systemd template units with
	// %i instance expansion.
	TemplateUnits bool `yaml:"template_units"`

	// InstallRequirements runs pip install -r requirements.txt into the
	// resolved virtualenv before units are written, when the file exists.
	InstallRequirements bool `yaml:"install_requirements"`

	// UnitDir is the directory unit files are written to.
	// Default: /etc/systemd/system
	UnitDir string `yaml:"-"`

	// RunDirRoot is the root of the runtime directory tree.
	// Default: /run
	RunDirRoot string `yaml:"-"`

	// VenvBin is the virtualenv binary directory. Set by Resolve.
	VenvBin string `yaml:"-"`

	// RunCommand is the ExecStart command prefix (the celery binary, or an
	// interpreter -m celery fallback). Set by Resolve.
	RunCommand string `yaml:"-"`

	// BrokerUnit is the systemd unit name of the selected broker. Set by
	// Resolve.
	BrokerUnit string `yaml:"-"`
}

// Style returns the unit naming strategy selected by the config.
func (c *Config) Style() UnitStyle {
	if c.TemplateUnits {
		return StyleTemplated
	}
	return StyleSingle
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.LogDir == "" {
		c.LogDir = DefaultLogDir
	}
	if c.UnitDir == "" {
		c.UnitDir = DefaultUnitDir
	}
	if c.RunDirRoot == "" {
		c.RunDirRoot = DefaultRunDirRoot
	}
}
