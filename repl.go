package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/chidiwilliams/loxi/lox"
	"github.com/peterh/liner"
)

// runPrompt reads lines from the terminal until EOF and runs each one in
// the same session. Expression values are printed after each line.
func runPrompt(session *lox.Session, cfg config, stdOut io.Writer, logger *slog.Logger) int {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	historyPath := ""
	if cfg.HistoryFile != "" {
		historyPath = expandHome(cfg.HistoryFile)
		if f, err := os.Open(historyPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}
	defer func() {
		if historyPath == "" {
			return
		}
		f, err := os.Create(historyPath)
		if err != nil {
			logger.Debug("write history", slog.String("path", historyPath), slog.Any("error", err))
			return
		}
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}()

	for {
		line, err := ln.Prompt(cfg.Prompt)
		if errors.Is(err, io.EOF) {
			_, _ = fmt.Fprintln(stdOut)
			return 0
		}
		if err != nil {
			// Ctrl-C drops the current line
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)

		if value, ok := session.RunLine(line); ok {
			_, _ = fmt.Fprintln(stdOut, value)
		}
	}
}
