package deploy

import (
	"fmt"
	"path/filepath"
	"strings"
)

// workerNOFILE is the open-file-descriptor limit for the worker service.
const workerNOFILE = 65536

// verbosityFlag is the fixed log-level flag passed to both services.
const verbosityFlag = "--loglevel=INFO"

// RenderedUnit is one generated unit document plus the paths and names the
// surrounding system needs to install and manage it. Never mutated once
// produced.
type RenderedUnit struct {
	// Kind is the service kind this unit runs.
	Kind ServiceKind

	// FileName is the unit file name (celery-<project>.service).
	FileName string

	// Path is the destination under the unit directory.
	Path string

	// StartName is the unit name passed to systemctl enable/restart. For
	// template units this is the file name with a default instance.
	StartName string

	// Content is the complete unit document.
	Content string
}

// RuntimeDirName returns the transient runtime directory name for a
// project, created by systemd under the run root for the services' PID
// files.
func RuntimeDirName(project string) string {
	return "celery-" + project
}

// UnitFileName returns the unit file name for a service kind.
func UnitFileName(project string, kind ServiceKind, style UnitStyle) string {
	prefix := "celery-"
	if kind == KindBeat {
		prefix = "celerybeat-"
	}
	if style == StyleTemplated {
		return prefix + project + "@.service"
	}
	return prefix + project + ".service"
}

// LogFilePath returns the absolute log file path for a service kind.
func LogFilePath(logDir, project string, kind ServiceKind, style UnitStyle) string {
	return filepath.Join(logDir, project+"-"+logStem(kind, style)+".log")
}

// PIDFilePath returns the absolute PID file path for a service kind.
func PIDFilePath(runDirRoot, project string, kind ServiceKind, style UnitStyle) string {
	return filepath.Join(runDirRoot, RuntimeDirName(project), logStem(kind, style)+".pid")
}

// logStem is the per-kind file stem, with a %i instance suffix for template
// units.
func logStem(kind ServiceKind, style UnitStyle) string {
	if style == StyleTemplated {
		return string(kind) + "-%i"
	}
	return string(kind)
}

// startName returns the unit name used for enable/restart. Template units
// are addressed through a default instance since a bare template cannot be
// started.
func startName(fileName string, style UnitStyle) string {
	if style == StyleTemplated {
		return strings.Replace(fileName, "@.service", "@1.service", 1)
	}
	return fileName
}

// RenderUnit renders the unit document for one service kind. The config
// must be resolved. Rendering is a pure function of the config: the same
// config always yields byte-identical output.
func RenderUnit(cfg Config, kind ServiceKind) RenderedUnit {
	style := cfg.Style()

	description := fmt.Sprintf("Celery %s for %s", kind.Label(), cfg.Project)
	if style == StyleTemplated {
		description += " (%i)"
	}

	exec := fmt.Sprintf("%s -A %s %s %s --logfile=%s --pidfile=%s",
		cfg.RunCommand,
		cfg.Project,
		kind,
		verbosityFlag,
		LogFilePath(cfg.LogDir, cfg.Project, kind, style),
		PIDFilePath(cfg.RunDirRoot, cfg.Project, kind, style),
	)
	if style == StyleTemplated && kind == KindWorker {
		exec += fmt.Sprintf(" -n %s-%%i", cfg.Project)
	}

	limit := ""
	if kind == KindWorker {
		limit = fmt.Sprintf("LimitNOFILE=%d\n", workerNOFILE)
	}

	content := fmt.Sprintf(`[Unit]
Description=%s
After=network.target %s
Requires=%s

[Service]
Type=simple
User=%s
Group=%s
WorkingDirectory=%s
RuntimeDirectory=%s
Environment=DJANGO_SETTINGS_MODULE=%s
ExecStart=%s
Restart=always
RestartSec=5s
%s
[Install]
WantedBy=multi-user.target
`,
		description,
		cfg.BrokerUnit,
		cfg.BrokerUnit,
		cfg.User,
		cfg.User,
		cfg.ProjectDir,
		RuntimeDirName(cfg.Project),
		cfg.SettingsModule,
		exec,
		limit,
	)

	fileName := UnitFileName(cfg.Project, kind, style)
	return RenderedUnit{
		Kind:      kind,
		FileName:  fileName,
		Path:      filepath.Join(cfg.UnitDir, fileName),
		StartName: startName(fileName, style),
		Content:   content,
	}
}

// RenderUnits renders the worker and beat unit documents in deployment
// order.
func RenderUnits(cfg Config) []RenderedUnit {
	units := make([]RenderedUnit, 0, len(ServiceKinds))
	for _, kind := range ServiceKinds {
		units = append(units, RenderUnit(cfg, kind))
	}
	return units
}
