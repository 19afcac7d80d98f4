package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/GriffinCanCode/webos/internal/shell"
)

// REPL is the interactive command loop.
type REPL struct {
	env   *env
	sh    *shell.Interpreter
	liner *liner.State
	out   io.Writer
}

func newREPL(e *env) *REPL {
	r := &REPL{env: e, out: os.Stdout}
	r.sh = e.interpreter(shell.WithEditor(&externalEditor{store: e.store}))
	return r
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".vsh_history")
}

// Run starts the REPL loop.
func (r *REPL) Run() error {
	r.liner = liner.NewLiner()
	defer r.liner.Close()

	r.liner.SetCtrlCAborts(true)
	r.liner.SetCompleter(completer)

	if f, err := os.Open(historyFile()); err == nil {
		_, _ = r.liner.ReadHistory(f)
		f.Close()
	}
	defer r.saveHistory()

	banner := color.New(color.FgGreen, color.Bold)
	banner.Fprintf(r.out, "%s %s (%s)\n", r.sh.Profile().OS, r.sh.Profile().Kernel, r.env.cfg.Storage.Backend)
	fmt.Fprintln(r.out, "Type 'help' for available commands, 'exit' to leave.")

	for {
		line, err := r.liner.Prompt(r.sh.Prompt())
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out)
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r.liner.AppendHistory(line)

		switch strings.ToLower(line) {
		case "exit", "quit", "logout":
			return nil
		}

		if out := r.sh.Execute(line); out != "" {
			fmt.Fprintln(r.out, strings.TrimSuffix(out, "\n"))
		}
	}
}

func (r *REPL) saveHistory() {
	if path := historyFile(); path != "" {
		if f, err := os.Create(path); err == nil {
			_, _ = r.liner.WriteHistory(f)
			f.Close()
		}
	}
}

// completer completes the verb, then paths are left to the user
func completer(line string) []string {
	if strings.Contains(line, " ") {
		return nil
	}

	verbs := append(shell.Commands(), "exit", "quit")
	lower := strings.ToLower(line)

	var completions []string
	for _, verb := range verbs {
		if strings.HasPrefix(verb, lower) {
			completions = append(completions, verb)
		}
	}
	return completions
}
