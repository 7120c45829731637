// Command envmon watches temperature, humidity and ambient light in a
// cupboard. It colours a 16x2 RGB display by how far the temperature is from
// a target, powers the display only while the cupboard is open, and appends
// every changed reading to a CSV log.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/luki/envmon/internal/config"
	"github.com/luki/envmon/internal/dashboard"
	"github.com/luki/envmon/internal/display"
	"github.com/luki/envmon/internal/monitor"
	"github.com/luki/envmon/internal/store"
)

func main() {
	if len(os.Args) < 2 {
		printHelp(os.Stderr)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "run":
		err = runDaemon(os.Args[2:])
	case "watch":
		err = runWatch(os.Args[2:])
	case "help", "-h", "--help":
		printHelp(os.Stdout)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		printHelp(os.Stderr)
		os.Exit(2)
	}

	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "Usage: envmon <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run     monitor forever, status lines on stderr")
	fmt.Fprintln(w, "  watch   monitor with a live terminal dashboard")
	fmt.Fprintln(w, "  help    show this help")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'envmon run -h' for the flags; every flag has an ENVMON_* environment default.")
}

// runDaemon is the headless monitor. It only stops when the process is
// killed; records are flushed as they are written so nothing is lost.
func runDaemon(args []string) error {
	cfg, err := config.Parse("run", args, os.Stderr)
	if err != nil {
		return err
	}
	logger, err := config.NewLogger(cfg.LogLevel, os.Stderr)
	if err != nil {
		return err
	}

	hw, err := openHardware(cfg, os.Stdout)
	if err != nil {
		return err
	}
	defer hw.Close()

	logger.WithField("event", monitor.EventStartup).Infof("opening file '%s' for writing...", cfg.LogPath)
	logFile, err := store.Open(cfg.LogPath)
	if err != nil {
		return err
	}
	defer logFile.Close()

	loop := monitor.New(cfg, hw.sensors, hw.display, logFile, logger)
	return loop.Run(context.Background())
}

// runWatch drives the same loop from the dashboard. Operator events go to the
// dashboard's event list instead of stderr.
func runWatch(args []string) error {
	cfg, err := config.Parse("watch", args, os.Stderr)
	if err != nil {
		return err
	}
	logger, err := config.NewLogger(cfg.LogLevel, io.Discard)
	if err != nil {
		return err
	}
	feed := dashboard.NewFeed(50, logger.GetLevel())
	logger.AddHook(feed)

	// the dashboard is the terminal display here
	if cfg.Display == config.DisplayTerminal {
		cfg.Display = config.DisplayNone
	}
	hw, err := openHardware(cfg, io.Discard)
	if err != nil {
		return err
	}
	defer hw.Close()

	logFile, err := store.Open(cfg.LogPath)
	if err != nil {
		return err
	}
	defer logFile.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	panel := &display.Recorder{}
	loop := monitor.New(cfg, hw.sensors, display.Tee{panel, hw.display}, logFile, logger)
	return dashboard.Run(dashboard.New(ctx, cfg, loop, panel, feed))
}
