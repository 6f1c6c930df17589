package main

import (
	"strings"
	"testing"
)

func TestServerConfigDefaults(t *testing.T) {
	cfg := serverConfig{}
	cfg.Server.Fixtures = "fixtures.yml"
	cfg.ApplyDefaults()

	if cfg.Name != serviceName {
		t.Errorf("Name = %q", cfg.Name)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d", cfg.Server.Port)
	}
	if cfg.Tracing.ServiceName != serviceName || cfg.Tracing.Environment != "development" {
		t.Errorf("tracing = %+v", cfg.Tracing)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestServerConfigRequiresFixtures(t *testing.T) {
	cfg := serverConfig{}
	cfg.ApplyDefaults()
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "fixtures") {
		t.Errorf("expected fixtures error, got %v", err)
	}
}

func TestRunRejectsUnknownFlag(t *testing.T) {
	if err := run([]string{"--no-such-flag"}); err == nil {
		t.Error("expected flag error")
	}
}

func TestRunMissingFixtureFile(t *testing.T) {
	err := run([]string{"--config", "testdata/none.yml", "--fixtures", t.TempDir() + "/missing.yml"})
	if err == nil || !strings.Contains(err.Error(), "missing.yml") {
		t.Errorf("expected fixture read error, got %v", err)
	}
}

func TestRunVersion(t *testing.T) {
	if err := run([]string{"--version"}); err != nil {
		t.Errorf("--version: %v", err)
	}
}
