// Package main has the entry point for the address parser CLI.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/addrstat/addrstat/internal/logger"
	"github.com/addrstat/addrstat/internal/utils"
	"github.com/addrstat/addrstat/pkg/addrparse"
	"github.com/addrstat/addrstat/pkg/config"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var labelStyle = lipgloss.NewStyle().Bold(true).
	Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})

// main parses its positional arguments as a single address string and
// prints the predicted component/label pairs. It does not download
// models, run interactively, or talk to the network.
func main() {
	defaultConfig := config.DefaultConfig()

	dataDir := flag.String("data", defaultConfig.CLI.DefaultModelDir, "Directory containing the parser model files")
	verbose := flag.Bool("v", defaultConfig.CLI.Verbose, "Enable debug logging")
	flag.Parse()

	if *verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}
	lg := logger.Default("addrparse")

	address := strings.Join(flag.Args(), " ")
	if strings.TrimSpace(address) == "" {
		fmt.Fprintln(os.Stderr, "usage: addrparse [-data dir] [-v] <address string>")
		os.Exit(1)
	}

	resolvedDir := *dataDir
	if pathResolver, err := utils.NewPathResolver(); err != nil {
		lg.Warnf("path resolver unavailable, using %q as-is: %v", *dataDir, err)
	} else if dir, err := pathResolver.GetDataDir(*dataDir); err == nil {
		resolvedDir = dir
	}

	lg.Debugf("loading model from %s", resolvedDir)
	model, err := addrparse.LoadFromDirectory(resolvedDir)
	if err != nil {
		lg.Fatalf("failed to load model: %v", err)
	}

	resp := model.Parse(address)
	for i, component := range resp.Components {
		fmt.Printf("%s\t%s\n", component, labelStyle.Render(resp.Labels[i]))
	}
}
