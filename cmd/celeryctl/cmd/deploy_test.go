package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/celeryops/celeryctl/internal/deploy"
)

func summaryConfig() deploy.Config {
	cfg := deploy.Config{
		Project:    "acme",
		User:       "deploy",
		ProjectDir: "/srv/acme",
		Broker:     "redis",
		BrokerUnit: "redis.service",
		VenvBin:    "/srv/acme/.venv/bin",
		RunCommand: "/srv/acme/.venv/bin/celery",
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestPrintRendered(t *testing.T) {
	cfg := summaryConfig()
	units := deploy.RenderUnits(cfg)

	buf := new(bytes.Buffer)
	printRendered(buf, units)

	output := buf.String()
	if !strings.Contains(output, "# /etc/systemd/system/celery-acme.service") {
		t.Errorf("output missing worker unit header, got: %s", output)
	}
	if !strings.Contains(output, "# /etc/systemd/system/celerybeat-acme.service") {
		t.Errorf("output missing beat unit header, got: %s", output)
	}
	if !strings.Contains(output, "[Service]") {
		t.Errorf("output missing unit content, got: %s", output)
	}
}

func TestPrintDeploySummary(t *testing.T) {
	color.NoColor = true
	cfg := summaryConfig()
	units := deploy.RenderUnits(cfg)

	buf := new(bytes.Buffer)
	printDeploySummary(buf, cfg, units)

	output := buf.String()
	if !strings.Contains(output, "Deployed acme") {
		t.Errorf("summary missing header, got: %s", output)
	}
	if !strings.Contains(output, "/var/log/celery/acme-worker.log") {
		t.Errorf("summary missing worker log path, got: %s", output)
	}
	if !strings.Contains(output, "journalctl -u celery-acme.service -f") {
		t.Errorf("summary missing journal command, got: %s", output)
	}
	// StartNow unset: the summary tells the operator how to start.
	if !strings.Contains(output, "systemctl start celery-acme.service") {
		t.Errorf("summary missing start hint, got: %s", output)
	}
}
