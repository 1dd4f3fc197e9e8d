package deploy

import (
	"strings"
	"testing"
)

func resolvedConfig() Config {
	cfg := Config{
		Project:        "acme",
		User:           "deploy",
		ProjectDir:     "/srv/acme",
		SettingsModule: "acme.settings",
		Broker:         "rabbitmq",
		BrokerUnit:     "rabbitmq-server.service",
		VenvBin:        "/srv/acme/.venv/bin",
		RunCommand:     "/srv/acme/.venv/bin/celery",
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestRenderUnit_Deterministic(t *testing.T) {
	cfg := resolvedConfig()
	for _, kind := range ServiceKinds {
		first := RenderUnit(cfg, kind)
		second := RenderUnit(cfg, kind)
		if first.Content != second.Content {
			t.Errorf("RenderUnit(%s) output differs between runs", kind)
		}
		if first.Path != second.Path {
			t.Errorf("RenderUnit(%s) path differs between runs", kind)
		}
	}
}

func TestRenderUnit_Sections(t *testing.T) {
	output := RenderUnit(resolvedConfig(), KindWorker).Content

	for _, section := range []string{"[Unit]", "[Service]", "[Install]"} {
		if !strings.Contains(output, section) {
			t.Errorf("output missing %s section", section)
		}
	}
	if !strings.Contains(output, "Description=Celery Worker for acme") {
		t.Error("output missing worker description")
	}
	if !strings.Contains(output, "After=network.target rabbitmq-server.service") {
		t.Error("output missing After= with broker unit")
	}
	if !strings.Contains(output, "Requires=rabbitmq-server.service") {
		t.Error("output missing Requires= broker unit")
	}
	if !strings.Contains(output, "User=deploy") || !strings.Contains(output, "Group=deploy") {
		t.Error("output missing User=/Group=deploy")
	}
	if !strings.Contains(output, "WorkingDirectory=/srv/acme") {
		t.Error("output missing WorkingDirectory")
	}
	if !strings.Contains(output, "RuntimeDirectory=celery-acme") {
		t.Error("output missing RuntimeDirectory=celery-acme")
	}
	if !strings.Contains(output, "Environment=DJANGO_SETTINGS_MODULE=acme.settings") {
		t.Error("output missing settings module environment variable")
	}
	if !strings.Contains(output, "Restart=always") {
		t.Error("output missing Restart=always")
	}
	if !strings.Contains(output, "WantedBy=multi-user.target") {
		t.Error("output missing WantedBy=multi-user.target")
	}
}

func TestRenderUnit_WorkerExecStart(t *testing.T) {
	output := RenderUnit(resolvedConfig(), KindWorker).Content

	want := "ExecStart=/srv/acme/.venv/bin/celery -A acme worker --loglevel=INFO" +
		" --logfile=/var/log/celery/acme-worker.log --pidfile=/run/celery-acme/worker.pid"
	if !strings.Contains(output, want) {
		t.Errorf("output missing worker ExecStart, got:\n%s", output)
	}
}

func TestRenderUnit_FileDescriptorLimitWorkerOnly(t *testing.T) {
	cfg := resolvedConfig()
	worker := RenderUnit(cfg, KindWorker).Content
	beat := RenderUnit(cfg, KindBeat).Content

	if !strings.Contains(worker, "LimitNOFILE=65536") {
		t.Error("worker unit missing LimitNOFILE=65536")
	}
	if strings.Contains(beat, "LimitNOFILE") {
		t.Error("beat unit must not carry LimitNOFILE")
	}
}

func TestRenderUnit_Names(t *testing.T) {
	cfg := resolvedConfig()
	worker := RenderUnit(cfg, KindWorker)
	beat := RenderUnit(cfg, KindBeat)

	if worker.FileName != "celery-acme.service" {
		t.Errorf("worker file name = %q, want celery-acme.service", worker.FileName)
	}
	if beat.FileName != "celerybeat-acme.service" {
		t.Errorf("beat file name = %q, want celerybeat-acme.service", beat.FileName)
	}
	if worker.Path != "/etc/systemd/system/celery-acme.service" {
		t.Errorf("worker path = %q, want /etc/systemd/system/celery-acme.service", worker.Path)
	}
	if worker.StartName != worker.FileName {
		t.Errorf("worker start name = %q, want file name for single-instance units", worker.StartName)
	}
}

func TestRenderUnit_DerivedPaths(t *testing.T) {
	if got := LogFilePath("/var/log/celery", "acme", KindWorker, StyleSingle); got != "/var/log/celery/acme-worker.log" {
		t.Errorf("LogFilePath = %q, want /var/log/celery/acme-worker.log", got)
	}
	if got := PIDFilePath("/run", "acme", KindWorker, StyleSingle); got != "/run/celery-acme/worker.pid" {
		t.Errorf("PIDFilePath = %q, want /run/celery-acme/worker.pid", got)
	}
	if got := RuntimeDirName("acme"); got != "celery-acme" {
		t.Errorf("RuntimeDirName = %q, want celery-acme", got)
	}
}

func TestRenderUnit_TemplatedStyle(t *testing.T) {
	cfg := resolvedConfig()
	cfg.TemplateUnits = true

	worker := RenderUnit(cfg, KindWorker)
	beat := RenderUnit(cfg, KindBeat)

	if worker.FileName != "celery-acme@.service" {
		t.Errorf("worker file name = %q, want celery-acme@.service", worker.FileName)
	}
	if beat.FileName != "celerybeat-acme@.service" {
		t.Errorf("beat file name = %q, want celerybeat-acme@.service", beat.FileName)
	}
	if worker.StartName != "celery-acme@1.service" {
		t.Errorf("worker start name = %q, want celery-acme@1.service", worker.StartName)
	}
	if !strings.Contains(worker.Content, "--logfile=/var/log/celery/acme-worker-%i.log") {
		t.Errorf("templated worker missing %%i log file, got:\n%s", worker.Content)
	}
	if !strings.Contains(worker.Content, "--pidfile=/run/celery-acme/worker-%i.pid") {
		t.Errorf("templated worker missing %%i pid file, got:\n%s", worker.Content)
	}
	if !strings.Contains(worker.Content, "-n acme-%i") {
		t.Errorf("templated worker missing instance node name, got:\n%s", worker.Content)
	}
	if strings.Contains(beat.Content, "-n acme") {
		t.Error("beat unit must not carry a worker node name")
	}
}
