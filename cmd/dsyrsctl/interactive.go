package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/shlex"
)

func prompt(slave uint8) string {
	return fmt.Sprintf("dsyrs[%d]> ", slave)
}

// runShell reads commands until EOF, quit or ctx is done.
func runShell(ctx context.Context, a *app) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt(a.slave),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	a.out = rl.Stdout()
	printHelp(a.out)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			fmt.Fprintln(a.out, "Exiting...")
			return nil
		}
		if quit := shellLine(ctx, a, line); quit {
			fmt.Fprintln(a.out, "Exiting...")
			return nil
		}
		rl.SetPrompt(prompt(a.slave))
	}
}

// shellLine executes one line of shell input and reports whether the
// shell should exit.
func shellLine(ctx context.Context, a *app, line string) bool {
	parts, err := shlex.Split(strings.TrimSpace(line))
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return false
	}
	if len(parts) == 0 {
		return false
	}

	switch strings.ToLower(parts[0]) {
	case "quit", "exit", "q":
		return true
	case "help", "?":
		printHelp(a.out)
		return false
	}

	if err := a.run(ctx, parts); err != nil {
		if errors.Is(err, errUnknownCommand) {
			fmt.Fprintf(a.out, "Unknown command: %s (type 'help' for commands)\n", parts[0])
			return false
		}
		fmt.Fprintf(a.out, "Error: %v\n", err)
	}
	return false
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "Commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-12s %-36s %s\n", c.name, c.args, c.help)
	}
	fmt.Fprintf(w, "  %-12s %-36s %s\n", "help", "", "Show this help")
	fmt.Fprintf(w, "  %-12s %-36s %s\n", "quit", "", "Leave the shell")
}
