// Command flightgame plays the flight game in a terminal against the game
// API at GAME_API_URL.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/playperu/flightgame/internal/config"
	"github.com/playperu/flightgame/internal/gameapi"
	"github.com/playperu/flightgame/internal/session"
	"github.com/playperu/flightgame/internal/view"
)

const help = `Commands:
  fly <ICAO>   fly to an airport (also: f)
  refresh      reload the game (also: r)
  quit         leave (also: q, :q)

At the name prompt, :q leaves.
`

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	api, err := gameapi.New(cfg.GameAPIURL,
		gameapi.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		gameapi.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("configuring game api: %w", err)
	}

	return play(ctx, api, logger, cfg.StartLoc, stdin, stdout)
}

// play runs the prompt loop until stdin ends, the player quits or ctx is
// cancelled.
func play(ctx context.Context, api session.API, logger *slog.Logger, origin string, in io.Reader, out io.Writer) error {
	ctrl := session.New(api, logger,
		session.WithOrigin(origin),
		session.WithRenderer(func(s session.State) {
			view.WriteText(out, view.Render(s))
		}),
		session.WithAlerter(func(err error) {
			fmt.Fprintf(out, "! %v\n", err)
		}),
	)

	view.WriteText(out, view.Render(ctrl.State()))

	lines := make(chan string)
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
	}()

	for {
		fmt.Fprint(out, prompt(ctrl.State()))

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return nil
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(out)
				return nil
			}
			line = l
		}

		if quit := handleLine(ctx, ctrl, line, out); quit {
			return nil
		}
	}
}

func prompt(s session.State) string {
	if s.Phase == session.NamePrompt {
		return "name> "
	}
	return s.Player + "> "
}

// handleLine applies one line of input and reports whether the player quit.
// API failures are already shown by the alerter.
func handleLine(ctx context.Context, ctrl *session.Controller, line string, out io.Writer) bool {
	fields := strings.Fields(line)

	if ctrl.State().Phase == session.NamePrompt {
		// Any other text is a name, including "q" or "quit".
		if strings.TrimSpace(line) == quitCommand {
			return true
		}
		if err := ctrl.SubmitName(ctx, line); errors.Is(err, session.ErrEmptyName) {
			fmt.Fprintln(out, "Please enter a name.")
		}
		return false
	}

	if len(fields) == 0 {
		return false
	}

	var err error
	switch cmd := strings.ToLower(fields[0]); {
	case isQuit(cmd):
		return true
	case cmd == "fly" || cmd == "f":
		if len(fields) < 2 {
			fmt.Fprintln(out, "Usage: fly <ICAO>")
			return false
		}
		err = ctrl.Fly(ctx, strings.ToUpper(fields[1]))
	case cmd == "refresh" || cmd == "r":
		err = ctrl.Refresh(ctx)
	default:
		fmt.Fprint(out, help)
	}

	if errors.Is(err, session.ErrNotPlaying) {
		fmt.Fprintln(out, "No game in progress.")
	}
	return false
}

// quitCommand leaves the game from any prompt.
const quitCommand = ":q"

func isQuit(s string) bool {
	s = strings.ToLower(s)
	return s == quitCommand || s == "quit" || s == "q" || s == "exit"
}
