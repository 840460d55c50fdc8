package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/chidiwilliams/loxi/lox"
	"github.com/chidiwilliams/loxi/report"
)

const (
	exitUsage   = 64
	exitStatic  = 65
	exitRuntime = 70
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run parses the command line and runs the given script, or starts the
// REPL when there is none. It returns the process exit code.
func run(args []string, stdOut, stdErr io.Writer) int {
	flags := flag.NewFlagSet("loxi", flag.ContinueOnError)
	flags.SetOutput(stdErr)
	flags.Usage = func() {
		_, _ = fmt.Fprintln(stdErr, "Usage: loxi [flags] [script]")
		flags.PrintDefaults()
	}

	configPath := flags.String("config", "", "path to the YAML config file (default ~/"+defaultConfigFile+")")
	printAST := flags.Bool("ast", false, "print the syntax tree of parsed code to stderr")
	debug := flags.Bool("debug", false, "log scanner, parser and interpreter phases to stderr")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return exitUsage
	}
	if flags.NArg() > 1 {
		flags.Usage()
		return exitUsage
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		_, _ = fmt.Fprintln(stdErr, err)
		return exitUsage
	}
	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "ast":
			cfg.PrintAST = *printAST
		case "debug":
			cfg.Debug = *debug
		}
	})

	logger := newLogger(stdErr, cfg.Debug)
	logger.Debug("loaded config", slog.String("path", *configPath), slog.Bool("print_ast", cfg.PrintAST))

	session := lox.NewSession(stdOut, report.NewStream(stdErr), logger)
	if cfg.PrintAST {
		session.PrintAST(stdErr)
	}

	if flags.NArg() == 1 {
		return runFile(session, flags.Arg(0), stdErr)
	}
	return runPrompt(session, cfg, stdOut, logger)
}

func runFile(session *lox.Session, path string, stdErr io.Writer) int {
	source, err := os.ReadFile(path)
	if err != nil {
		_, _ = fmt.Fprintln(stdErr, err)
		return exitUsage
	}

	_ = session.Run(string(source))
	if session.Reporter().HadStaticError() {
		return exitStatic
	}
	if session.Reporter().HadRuntimeError() {
		return exitRuntime
	}
	return 0
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
