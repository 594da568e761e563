// Command prompter plays a scripted session against an interactive program.
//
// Usage:
//
//	prompter -script demo.yaml [flags] -- command [args...]
//
// The command runs under a pseudo-terminal and the script's steps drive it:
// call steps type command lines, type steps inject keys, assert steps check
// the program's output.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"prompter"
	"prompter/internal/capture"
	"prompter/internal/ptyhost"
	"prompter/internal/report"
)

const (
	ExitSuccess = 0
	ExitFailed  = 1
	ExitError   = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	scriptPath := flag.String("script", "", "path to YAML script file (required)")
	quiet := flag.Bool("quiet", false, "suppress host output, trace and summary")
	rateFlag := flag.Int("rate", 0, "pace injected input at N bytes/sec (0 = unpaced)")
	capturePattern := flag.String("capture", "", "frame file pattern with a %d placeholder")
	captureTool := flag.String("capture-tool", "", "external capture command (required with -capture)")
	timeout := flag.Duration("timeout", 2*time.Minute, "abort if the session runs longer than this")
	flag.Parse()

	if *scriptPath == "" {
		fmt.Fprintln(os.Stderr, "error: -script is required")
		flag.Usage()
		return ExitError
	}
	argv := flag.Args()
	if len(argv) == 0 {
		fmt.Fprintln(os.Stderr, "error: host command is required after --")
		flag.Usage()
		return ExitError
	}

	cfg, err := prompter.LoadScript(*scriptPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return ExitError
	}

	// Mirror host output live only when a human is watching.
	var echo io.Writer
	if !*quiet && term.IsTerminal(int(os.Stdout.Fd())) {
		echo = os.Stdout
	}

	host, err := ptyhost.Start(argv, ptyhost.Options{
		BytesPerSec: *rateFlag,
		Echo:        echo,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return ExitError
	}
	defer host.Close()

	rec := report.NewRecorder()
	reporters := multiReporter{rec}

	if *capturePattern != "" {
		if *captureTool == "" {
			fmt.Fprintln(os.Stderr, "error: -capture requires -capture-tool")
			return ExitError
		}
		capt, err := capture.New(*captureTool, *capturePattern)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return ExitError
		}
		reporters = append(reporters, frameReporter{capt})
	}

	cfg.Host = host
	cfg.Reporter = reporters

	sess, err := prompter.Run(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return ExitError
	}

	select {
	case <-sess.Done():
	case <-time.After(*timeout):
		fmt.Fprintf(os.Stderr, "error: session did not finish within %v\n", *timeout)
		return ExitError
	}
	rec.Close()

	if !*quiet {
		if cfg.LogTarget.Kind == prompter.LogBuffer {
			fmt.Println()
			fmt.Print(prompter.LogContents(cfg.LogTarget.Name))
			fmt.Println()
		}
		report.WriteSummary(os.Stdout, rec, sess.Err())
	}

	if sess.Err() != nil {
		return ExitFailed
	}
	return ExitSuccess
}

// multiReporter fans each event out to several reporters.
type multiReporter []prompter.Reporter

func (m multiReporter) Report(e prompter.Event) {
	for _, r := range m {
		r.Report(e)
	}
}

// frameReporter captures one frame per dispatched step.
type frameReporter struct {
	c *capture.Capturer
}

func (f frameReporter) Report(e prompter.Event) {
	if err := f.c.Shoot(e.Seq); err != nil {
		fmt.Fprintf(os.Stderr, "capture: %v\n", err)
	}
}
