package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/uxnkit/taltools/assembler"
	"github.com/uxnkit/taltools/emulator"
)

// BuildReport is the machine-readable summary written next to the build
// outputs when the config asks for one.
type BuildReport struct {
	Name        string                 `json:"name"`
	Output      string                 `json:"output"`
	ROMSize     int                    `json:"romSize"`
	Success     bool                   `json:"success"`
	Diagnostics []assembler.Diagnostic `json:"diagnostics"`
}

func (r *BuildReport) save(path string) error {
	b, e := json.Marshal(r)
	if e != nil {
		return e
	}
	return os.WriteFile(path, b, 0644)
}

// Build assembles the project at configPath and writes the ROM, the symbol
// listing and the report as configured.
func Build(configPath string) (*assembler.Result, error) {
	conf, e := LoadConfig(configPath)
	if e != nil {
		return nil, e
	}
	return buildConfig(conf)
}

func buildConfig(conf *Config) (*assembler.Result, error) {
	files := make([]assembler.SourceFile, 0, len(conf.Sources))
	for _, src := range conf.Sources {
		b, e := os.ReadFile(conf.resolve(src))
		if e != nil {
			return nil, e
		}
		files = append(files, assembler.SourceFile{Name: filepath.Base(src), Text: string(b)})
	}

	report := BuildReport{
		Name:        conf.Name,
		Output:      conf.Output,
		Diagnostics: make([]assembler.Diagnostic, 0),
	}

	result, asmErr := assembler.AssembleFiles(files)
	if asmErr != nil {
		report.Diagnostics = append(report.Diagnostics, asmErr.Diagnostic())
		if conf.Report != "" {
			if e := report.save(conf.resolve(conf.Report)); e != nil {
				return nil, e
			}
		}
		return nil, fmt.Errorf("%s", asmErr.Error())
	}

	if e := os.WriteFile(conf.resolve(conf.Output), result.ROM, 0644); e != nil {
		return nil, e
	}
	if conf.Symbols != "" {
		if e := os.WriteFile(conf.resolve(conf.Symbols), []byte(SymbolListing(result)), 0644); e != nil {
			return nil, e
		}
	}

	report.ROMSize = len(result.ROM)
	report.Success = true
	report.Diagnostics = append(report.Diagnostics, result.Warnings...)
	if conf.Report != "" {
		if e := report.save(conf.resolve(conf.Report)); e != nil {
			return nil, e
		}
	}
	return result, nil
}

// SymbolListing renders labels and sublabels as "address name" lines in
// definition order.
func SymbolListing(result *assembler.Result) string {
	var sb strings.Builder
	for _, label := range result.Symbols.Labels() {
		fmt.Fprintf(&sb, "%04x %s\n", label.Address, label.Name)
		for _, sub := range label.SublabelsInOrder() {
			fmt.Fprintf(&sb, "%04x %s/%s\n", sub.Address, label.Name, sub.Name)
		}
	}
	return sb.String()
}

// Run builds the project and executes the resulting ROM headless, streaming
// console output to stdout.
func Run(configPath string) error {
	conf, e := LoadConfig(configPath)
	if e != nil {
		return e
	}
	result, e := buildConfig(conf)
	if e != nil {
		return e
	}
	limit, e := conf.ParsedRuntimeLimit()
	if e != nil {
		return e
	}

	var runtimeErr error
	em := emulator.NewEmulator(emulator.EmulatorConfig{
		StdOutCallback: func(b byte) {
			os.Stdout.Write([]byte{b})
		},
		RuntimeErrorCallback: func(ex emulator.RuntimeException) {
			runtimeErr = fmt.Errorf("runtime exception at 0x%04x: %s", ex.PC(), ex.Message())
		},
		RuntimeLimit: limit,
	})
	em.LoadROM(result.ROM)
	em.Emulate(emulator.CodeOrigin)
	return runtimeErr
}
