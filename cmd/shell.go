package cmd

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/hotel-reservations/internal/engine"
)

const shellHelp = `Commands (same flags as the CLI):
  rooms list | rooms add | rooms set-available ROOM true|false
  search --from D --to D [--category C]
  book --room R --guest "Name" --from D --to D
  pay --id ID --amount 0.00
  cancel --id ID | show --id ID
  reservations list | export --from D --to D [-o file]
  flush | help | exit`

func newShellCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive session against one open store",
		RunE: func(cmd *cobra.Command, args []string) error {
			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
			defer cancel()

			a, err := openApp(ctx, opts)
			if err != nil {
				return err
			}
			a.sessionPassword = opts.adminPassword

			var wg sync.WaitGroup
			fctx, stopFlusher := context.WithCancel(ctx)
			if a.engine.Policy() == engine.PolicyDeferred {
				f := &engine.Flusher{Engine: a.engine, Interval: a.cfg.PersistInterval, Log: a.log}
				wg.Add(1)
				go func() {
					defer wg.Done()
					_ = f.Run(fctx)
				}()
			}

			err = runShell(context.WithValue(ctx, appKey{}, a), a, cmd.InOrStdin(), cmd.OutOrStdout())
			stopFlusher()
			wg.Wait()
			return errors.Join(err, a.close(context.Background()))
		},
	}
}

// runShell returns on exit, EOF or when ctx is cancelled. A cancelled
// session leaves the reader goroutine blocked on in until the process ends.
func runShell(ctx context.Context, a *app, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "Welcome to the Hotel Reservation System. Type 'help' for commands.")

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- sc.Err()
	}()

	for {
		fmt.Fprint(out, "> ")
		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return nil
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(out)
				select {
				case err := <-readErr:
					return err
				default:
					return nil
				}
			}
			line = l
		}
		args, err := splitLine(line)
		if err != nil {
			fmt.Fprintln(out, "Error:", err)
			continue
		}
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "exit", "quit":
			fmt.Fprintln(out, "Goodbye.")
			return nil
		case "help":
			fmt.Fprintln(out, shellHelp)
			continue
		case "flush":
			if err := a.engine.Flush(ctx); err != nil {
				fmt.Fprintln(out, "Error:", err)
			} else {
				fmt.Fprintln(out, "Saved.")
			}
			continue
		case "shell", "migrate":
			fmt.Fprintf(out, "Error: %s is not available inside the shell\n", args[0])
			continue
		}

		root := NewRootCmd()
		root.SetArgs(args)
		root.SetIn(strings.NewReader(""))
		root.SetOut(out)
		root.SetErr(out)
		if err := root.ExecuteContext(ctx); err != nil {
			a.log.Debug("shell command failed", zap.Strings("args", args), zap.Error(err))
			fmt.Fprintln(out, "Error:", err)
		}
	}
}

// splitLine splits on spaces; double quotes group words.
func splitLine(line string) ([]string, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, nil
	}
	r := csv.NewReader(strings.NewReader(line))
	r.Comma = ' '
	r.LazyQuotes = true
	fields, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("could not parse %q: %w", line, err)
	}
	out := fields[:0]
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return out, nil
}
