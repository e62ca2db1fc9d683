// main.go - masm: assembles machine assembly source into a flat binary

// License: GPLv3 or later

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pipelined-machine/machine/assembler"
)

func main() {
	outFile := flag.String("o", "", "Output file (default: input.bin)")
	entryFlag := flag.String("entry", "", "Entry file name for .include resolution (default: the input file's base name)")
	includeDirs := flagStringList{}
	flag.Var(&includeDirs, "I", "Additional directory to search for .include sources (repeatable)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: masm [options] input.asm\n\nAssembles machine assembly source into a flat binary image.\n\nOptions:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	inputPath := flag.Arg(0)

	sources, entry, err := loadSources(inputPath, includeDirs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if *entryFlag != "" {
		entry = *entryFlag
	}

	res, err := assembler.AssembleFiles(sources, entry)
	if len(res.Diagnostics) > 0 {
		fmt.Fprint(os.Stderr, assembler.FormatDiagnostics(res.Diagnostics))
	}
	if err != nil {
		os.Exit(1)
	}

	outputPath := *outFile
	if outputPath == "" {
		outputPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".bin"
	}
	if err := os.WriteFile(outputPath, res.Image, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", outputPath, err)
		os.Exit(1)
	}
	fmt.Printf("%s: %d bytes, load address 0x%04X\n", outputPath, len(res.Image), res.LoadAddr)
}

// loadSources reads inputPath and every .asm file in its directory and any
// -I directory into a name->source map, so AssembleFiles can resolve
// `.include` without touching the filesystem itself.
func loadSources(inputPath string, includeDirs flagStringList) (map[string]string, string, error) {
	sources := map[string]string{}
	dirs := append([]string{filepath.Dir(inputPath)}, includeDirs...)
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() || filepath.Ext(e.Name()) != ".asm" {
				continue
			}
			data, err := os.ReadFile(filepath.Join(dir, e.Name()))
			if err != nil {
				continue
			}
			sources[e.Name()] = string(data)
		}
	}
	entry := filepath.Base(inputPath)
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, "", err
	}
	sources[entry] = string(data)
	return sources, entry, nil
}

// flagStringList collects repeated -I flags.
type flagStringList []string

func (l *flagStringList) String() string { return strings.Join(*l, ",") }
func (l *flagStringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}
