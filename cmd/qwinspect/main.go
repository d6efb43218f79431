package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/probonopd/qwlroots/iface"
	"github.com/probonopd/qwlroots/qw"
)

func main() {
	var (
		list        = flag.Bool("list", false, "List declared types and their plans and exit")
		demo        = flag.Bool("demo", false, "Run the buffer/texture lifecycle demo")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		logLevel    = flag.String("log", "", "Log level (debug, info, warn, error); off when empty")
		renderer    = flag.String("renderer", "pixman", "Renderer backend for the demo")
	)
	flag.Parse()

	if *logLevel != "" {
		log, err := newLogger(*logLevel)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = log.Sync() }()
		iface.SetLogger(log.Named("iface"))
		qw.SetLogger(log.Named("qw"))
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(*renderer); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if !*list && !*demo {
		fmt.Fprintln(os.Stderr, "Usage: qwinspect -list")
		fmt.Fprintln(os.Stderr, "       qwinspect -demo [-renderer name] [-log level]")
		fmt.Fprintln(os.Stderr, "       qwinspect -i  (interactive mode)")
		os.Exit(1)
	}

	if *list {
		printCatalog(os.Stdout, iface.Catalog())
	}
	if *demo {
		if err := runDemo(os.Stdout, *renderer); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

func printCatalog(w io.Writer, types []iface.TypeInfo) {
	for i, t := range types {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "Type: %s\n", t.Name)
		fmt.Fprintf(w, "  handle: %s (impl field %s)\n", t.Handle, t.ImplField)
		fmt.Fprintf(w, "  impl:   %s\n", t.Impl)
		if t.Init != "" {
			fmt.Fprintf(w, "  init:   %s\n", t.Init)
		}
		if t.Finish != "" {
			fmt.Fprintf(w, "  finish: %s\n", t.Finish)
		}
		fmt.Fprintf(w, "  live:   %d\n", t.Live)

		fmt.Fprintf(w, "  slots:\n")
		for _, s := range t.Slots {
			mark := ""
			if s.Destroy {
				mark = " [destroy]"
			}
			fmt.Fprintf(w, "    %s %s%s\n", s.Name, s.Signature, mark)
		}
		if len(t.Signals) > 0 {
			fmt.Fprintf(w, "  signals: %s\n", strings.Join(t.Signals, ", "))
		}
		for _, p := range t.Plans {
			fmt.Fprintf(w, "  plan %s:\n", p.Capability)
			for _, op := range p.Ops {
				fmt.Fprintf(w, "    %-20s %s\n", op.Name, op.Binding)
			}
		}
	}
}
