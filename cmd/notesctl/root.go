package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"time"

	"thinkboard/client"

	"github.com/spf13/cobra"
)

const (
	rateLimitedMessage = "Slow down! You're making requests too fast. Try again in a moment."
	notFoundMessage    = "Note not found."
)

type app struct {
	out     io.Writer
	server  string
	timeout time.Duration
	verbose bool
}

func (a *app) client() *client.Client {
	return client.New(a.server, nil)
}

func (a *app) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), a.timeout)
}

// failure turns an API error into the message shown to the user.
func (a *app) failure(generic string, err error) error {
	slog.Debug("request failed", "error", err)
	switch {
	case errors.Is(err, client.ErrRateLimited):
		return errors.New(rateLimitedMessage)
	case errors.Is(err, client.ErrNotFound):
		return errors.New(notFoundMessage)
	default:
		return errors.New(generic)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	cmd := &cobra.Command{
		Use:   "notesctl",
		Short: "Command line client for the ThinkBoard notes API",
		Long: `notesctl lists, creates, shows, edits and deletes notes held by a ThinkBoard server.
The server address defaults to $NOTES_API_URL or http://localhost:5001.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if a.verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)
		},
	}
	cmd.SetOut(out)

	server := os.Getenv("NOTES_API_URL")
	if server == "" {
		server = "http://localhost:5001"
	}
	cmd.PersistentFlags().StringVarP(&a.server, "server", "s", server, "Notes API base URL")
	cmd.PersistentFlags().DurationVar(&a.timeout, "timeout", 10*time.Second, "Request timeout")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(
		newListCmd(a),
		newCreateCmd(a),
		newShowCmd(a),
		newEditCmd(a),
		newDeleteCmd(a),
	)
	return cmd
}
