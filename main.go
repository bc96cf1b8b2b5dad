package main

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/japanoise/numparse"

	"github.com/uxnkit/taltools/assembler"
	"github.com/uxnkit/taltools/emulator"
	"github.com/uxnkit/taltools/languageServer"
	"github.com/uxnkit/taltools/project"
	"github.com/uxnkit/taltools/util"
)

func main() {
	if len(os.Args) >= 2 && os.Args[1] == "languageServer" {
		if len(os.Args) >= 3 && os.Args[2] == "debug" {
			util.LoggingEnabled = true
		}
		languageServer.ListenAndServe()
		return
	} else if len(os.Args) >= 2 && os.Args[1] == "languageServerWeb" {
		addr := ":5170"
		if len(os.Args) >= 3 {
			addr = os.Args[2]
		}
		languageServer.ListenAndServeWebSocket(addr)
	} else if len(os.Args) >= 3 && os.Args[1] == "assemble" {
		assembleFiles(os.Args[2:])
	} else if len(os.Args) == 3 && os.Args[1] == "build" {
		if _, e := project.Build(os.Args[2]); e != nil {
			log.Fatalln(e)
		}
	} else if len(os.Args) == 3 && os.Args[1] == "exec" {
		if e := project.Run(os.Args[2]); e != nil {
			log.Fatalln(e)
		}
	} else if len(os.Args) >= 3 && os.Args[1] == "run" {
		runROM(os.Args[2], os.Args[3:])
	} else if len(os.Args) >= 3 && os.Args[1] == "web" {
		addr := ":7070"
		if len(os.Args) >= 4 {
			addr = os.Args[3]
		}
		emulator.RunStandaloneWebserver(os.Args[2], addr)
	} else if len(os.Args) == 1 {
		// run as language server but in tcp mode so it can be remotely debugged
		languageServer.ListenAndServeTCP(":5170")
	} else {
		log.Fatalln("Invalid arguments:", os.Args)
	}
}

// assembleFiles assembles one or more sources into a ROM next to the first
// source, plus a symbol listing.
func assembleFiles(paths []string) {
	files := make([]assembler.SourceFile, 0, len(paths))
	for _, path := range paths {
		b, e := os.ReadFile(path)
		if e != nil {
			log.Fatalf("Could not read file %s: %v", path, e)
		}
		files = append(files, assembler.SourceFile{Name: filepath.Base(path), Text: string(b)})
	}

	result, err := assembler.AssembleFiles(files)
	if err != nil {
		log.Fatalln(err.Error())
	}
	for _, warning := range result.Warnings {
		log.Printf("warning: %d:%d: %s\n", warning.Range.Start.Line+1, warning.Range.Start.Char+1, warning.Message)
	}

	base := strings.TrimSuffix(paths[0], filepath.Ext(paths[0]))
	if e := os.WriteFile(base+".rom", result.ROM, 0644); e != nil {
		log.Fatalf("Could not write ROM: %v", e)
	}
	if e := os.WriteFile(base+".sym", []byte(project.SymbolListing(result)), 0644); e != nil {
		log.Fatalf("Could not write symbol listing: %v", e)
	}
	log.Printf("Assembled %s (%d bytes)\n", base+".rom", len(result.ROM))
}

// runROM executes an assembled ROM headless. An optional instruction limit
// accepts decimal or prefixed notations.
func runROM(path string, args []string) {
	rom, e := os.ReadFile(path)
	if e != nil {
		log.Fatalf("Could not read ROM file %s: %v", path, e)
	}

	limit := uint64(0)
	if len(args) >= 1 {
		v, err := numparse.UNumParse(args[0])
		if err != nil {
			log.Fatalf("Invalid instruction limit %q: %v", args[0], err)
		}
		limit = uint64(v)
	}

	em := emulator.NewEmulator(emulator.EmulatorConfig{
		StdOutCallback: func(b byte) {
			os.Stdout.Write([]byte{b})
		},
		RuntimeErrorCallback: func(ex emulator.RuntimeException) {
			log.Fatalf("Runtime exception at 0x%04x: %s", ex.PC(), ex.Message())
		},
		RuntimeLimit: limit,
	})
	em.LoadROM(rom)
	em.Emulate(emulator.CodeOrigin)
	os.Exit(em.GetExitCode())
}
