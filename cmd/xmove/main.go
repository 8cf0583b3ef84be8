package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/1broseidon/xmove/internal/config"
	"github.com/1broseidon/xmove/internal/probe"
	"github.com/1broseidon/xmove/internal/x11"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func printUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Usage: xmove [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Create a test window and move it with the keyboard:")
	fmt.Fprintln(w, "  -        move up and left")
	fmt.Fprintln(w, "  + or =   move down and right")
	fmt.Fprintln(w, "  Esc      quit")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("xmove", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Path to config file (default ~/.config/xmove/config.yaml)")
	display := fs.String("display", "", "X display to connect to (overrides config and $DISPLAY)")
	verbose := fs.Bool("v", false, "Log connection and window diagnostics")
	printConfig := fs.Bool("print-config", false, "Print the effective configuration and exit")
	fs.Usage = func() { printUsage(stderr, fs) }

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(stderr, "xmove takes no arguments")
		fs.Usage()
		return 2
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	var overrides config.RawConfig
	if *display != "" {
		overrides.Display = display
	}
	cfg, err := loadConfig(*configPath, overrides)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	if *printConfig {
		data, err := cfg.Marshal()
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		if _, err := stdout.Write(data); err != nil {
			fmt.Fprintf(stderr, "Failed to write configuration: %v\n", err)
			return 1
		}
		return 0
	}

	if cfg.XAuthority != "" {
		// xgb reads the cookie location from the environment.
		os.Setenv("XAUTHORITY", cfg.XAuthority)
	}

	out := log.New(stderr, "", 0)
	p, err := probe.Start(x11.Dialer(cfg.Display, logger), probeConfig(cfg, out, logger))
	if err != nil {
		out.Println(startupDiagnostic(err))
		logger.Debug("startup failed", "error", err)
		return 1
	}
	v := p.Visual()
	logger.Debug("probe started",
		"visual", fmt.Sprintf("0x%x", v.ID), "depth", v.Depth, "screen", v.Screen,
		"x", p.Position().X, "y", p.Position().Y)

	outcome, err := p.Run()
	p.Close()
	if err != nil {
		out.Printf("Lost connection to display: %v", err)
		return 1
	}
	return outcome.Code()
}

func loadConfig(path string, overrides config.RawConfig) (*config.Config, error) {
	if path == "" {
		return config.Load(overrides)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	res, err := config.LoadFromPath(path, overrides)
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

func probeConfig(cfg *config.Config, out *log.Logger, logger *slog.Logger) probe.Config {
	return probe.Config{
		Geometry: probe.Geometry{
			X:           cfg.Window.X,
			Y:           cfg.Window.Y,
			Width:       cfg.Window.Width,
			Height:      cfg.Window.Height,
			BorderWidth: cfg.Window.BorderWidth,
		},
		Depth:  cfg.Visual.Depth,
		Step:   cfg.Step,
		Output: out,
		Logger: logger,
	}
}

func startupDiagnostic(err error) string {
	switch {
	case errors.Is(err, probe.ErrNoDisplay):
		return "Could not open display"
	case errors.Is(err, probe.ErrNoVisual):
		return "No conforming visual exists"
	default:
		return err.Error()
	}
}
