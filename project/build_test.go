package project_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/uxnkit/taltools/project"
)

func writeProject(t *testing.T, config string, sources map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, text := range sources {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(text), 0644); err != nil {
			t.Fatalf("Could not write source file: %v", err)
		}
	}
	configPath := filepath.Join(dir, "project.json")
	if err := os.WriteFile(configPath, []byte(config), 0644); err != nil {
		t.Fatalf("Could not write project file: %v", err)
	}
	return configPath
}

func TestBuildWritesROMAndSymbols(t *testing.T) {
	configPath := writeProject(t, `{
		"name": "demo",
		"sources": ["macros.tal", "main.tal"],
		"output": "demo.rom",
		"symbols": "demo.sym",
		"report": "report.json"
	}`, map[string]string{
		"macros.tal": "%emit { #2a }",
		"main.tal":   "|0100 @main emit BRK",
	})

	result, err := project.Build(configPath)
	if err != nil {
		t.Fatalf("Expected the build to succeed, got %v", err)
	}
	if result == nil {
		t.Fatalf("Expected a result from the build")
	}

	dir := filepath.Dir(configPath)
	rom, e := os.ReadFile(filepath.Join(dir, "demo.rom"))
	if e != nil {
		t.Fatalf("Expected a ROM file: %v", e)
	}
	expected := []byte{0x80, 0x2a, 0x00}
	if len(rom) != len(expected) {
		t.Fatalf("Expected ROM of %d bytes, got %d (% x)", len(expected), len(rom), rom)
	}
	for i, b := range expected {
		if rom[i] != b {
			t.Errorf("Expected ROM byte %d to be 0x%02x, got 0x%02x", i, b, rom[i])
		}
	}

	symbols, e := os.ReadFile(filepath.Join(dir, "demo.sym"))
	if e != nil {
		t.Fatalf("Expected a symbol listing: %v", e)
	}
	if !strings.Contains(string(symbols), "0100 main") {
		t.Errorf("Expected the listing to contain main at 0100, got %q", string(symbols))
	}

	reportBytes, e := os.ReadFile(filepath.Join(dir, "report.json"))
	if e != nil {
		t.Fatalf("Expected a build report: %v", e)
	}
	report := project.BuildReport{}
	if e = json.Unmarshal(reportBytes, &report); e != nil {
		t.Fatalf("Expected a parsable report: %v", e)
	}
	if !report.Success || report.ROMSize != len(expected) {
		t.Errorf("Expected a successful report of %d bytes, got %+v", len(expected), report)
	}
}

func TestBuildReportsAssemblyError(t *testing.T) {
	configPath := writeProject(t, `{
		"sources": ["main.tal"],
		"output": "demo.rom",
		"report": "report.json"
	}`, map[string]string{
		"main.tal": "|0100 #zz",
	})

	_, err := project.Build(configPath)
	if err == nil {
		t.Fatalf("Expected the build to fail")
	}

	reportBytes, e := os.ReadFile(filepath.Join(filepath.Dir(configPath), "report.json"))
	if e != nil {
		t.Fatalf("Expected a build report even on failure: %v", e)
	}
	report := project.BuildReport{}
	if e = json.Unmarshal(reportBytes, &report); e != nil {
		t.Fatalf("Expected a parsable report: %v", e)
	}
	if report.Success || len(report.Diagnostics) != 1 {
		t.Errorf("Expected a failed report with one diagnostic, got %+v", report)
	}
}

func TestConfigValidation(t *testing.T) {
	configPath := writeProject(t, `{"sources": [], "output": "x.rom"}`, nil)
	if _, err := project.Build(configPath); err == nil {
		t.Errorf("Expected an error for a project without sources")
	}

	configPath = writeProject(t, `{"sources": ["a.tal"]}`, map[string]string{"a.tal": "BRK"})
	if _, err := project.Build(configPath); err == nil {
		t.Errorf("Expected an error for a project without an output path")
	}
}

func TestRuntimeLimitNotations(t *testing.T) {
	cases := []struct {
		text     string
		expected uint64
	}{
		{"", 0},
		{"1000", 1000},
		{"0x100", 256},
	}
	for _, c := range cases {
		conf := project.Config{RuntimeLimit: c.text}
		v, err := conf.ParsedRuntimeLimit()
		if err != nil {
			t.Errorf("Expected %q to parse, got %v", c.text, err)
			continue
		}
		if v != c.expected {
			t.Errorf("Expected %q to parse to %d, got %d", c.text, c.expected, v)
		}
	}

	conf := project.Config{RuntimeLimit: "not-a-number"}
	if _, err := conf.ParsedRuntimeLimit(); err == nil {
		t.Errorf("Expected an error for a malformed limit")
	}
}
