package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"wspace-be/pkg/chatclient"
	"wspace-be/pkg/events"
	"wspace-be/pkg/i18n"
	"wspace-be/pkg/nats"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type options struct {
	baseURL  string
	token    string
	language string
}

func (o *options) client() *chatclient.Client {
	return chatclient.NewClient(o.baseURL).SetToken(o.token).SetLanguage(o.language)
}

func (o *options) translator() (*i18n.Translator, error) {
	return i18n.New(o.language, "en")
}

func main() {
	opts := &options{}

	root := &cobra.Command{
		Use:          "chat-cli",
		Short:        "Terminal client for the Wspace chat API",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.baseURL, "url", envOr("WSPACE_URL", "http://localhost:3000"), "API base URL")
	root.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("WSPACE_TOKEN"), "bearer token (see the login command)")
	root.PersistentFlags().StringVar(&opts.language, "lang", envOr("WSPACE_LANG", "en"), "preferred language")

	root.AddCommand(loginCommand(opts), sessionsCommand(opts), chatCommand(opts), renameCommand(opts), deleteCommand(opts), watchCommand())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func loginCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "login <email> <password>",
		Short: "Log in and print a token for WSPACE_TOKEN",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := opts.client().Login(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			color.Green("Logged in as %s", res.User.FullName)
			fmt.Println(res.Token)
			return nil
		},
	}
}

func sessionsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List your chat sessions, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, err := opts.client().ListSessions(cmd.Context())
			if err != nil {
				return err
			}
			for _, s := range sessions {
				fmt.Printf("%s  %-24s  %s  (%d messages)\n", s.Id, s.Title, s.UpdatedAt.Local().Format("2006-01-02 15:04"), len(s.Messages))
			}
			return nil
		},
	}
}

func renameCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <session-id> <title>",
		Short: "Rename a session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid session id: %w", err)
			}
			return opts.client().RenameSession(cmd.Context(), id, args[1])
		},
	}
}

func deleteCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Delete a session and its messages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid session id: %w", err)
			}
			return opts.client().DeleteSession(cmd.Context(), id)
		},
	}
}

func chatCommand(opts *options) *cobra.Command {
	var sessionArg string
	var webSearch bool

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Open an interactive chat, in a new session unless --session is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			translator, err := opts.translator()
			if err != nil {
				return err
			}

			printed := 0
			render := func(s chatclient.Snapshot) {
				if printed > len(s.Messages) {
					printed = 0
				}
				for _, m := range s.Messages[printed:] {
					switch msg := m.(type) {
					case *chatclient.PendingMessage:
						// Already on screen as typed input.
					case *chatclient.ConfirmedMessage:
						if msg.Role() == "assistant" {
							color.Cyan("ares> %s", msg.Text())
						}
					case *chatclient.ErrorNotice:
						color.Red("ares> %s", msg.Text())
					}
				}
				printed = len(s.Messages)
			}

			r := chatclient.NewReconciler(opts.client(), translator, chatclient.WithWebSearch(webSearch))
			ctx := cmd.Context()

			if sessionArg != "" {
				id, err := uuid.Parse(sessionArg)
				if err != nil {
					return fmt.Errorf("invalid session id: %w", err)
				}
				if err := r.SelectSession(ctx, id); err != nil {
					return err
				}
				for _, m := range r.Snapshot().Messages {
					if m.Role() == "user" {
						fmt.Printf("you > %s\n", m.Text())
					} else {
						color.Cyan("ares> %s", m.Text())
					}
				}
				printed = len(r.Snapshot().Messages)
			}

			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("you > ")
				if !scanner.Scan() {
					return scanner.Err()
				}
				line := strings.TrimSpace(scanner.Text())
				switch line {
				case "":
					continue
				case "/quit", "/exit":
					return nil
				case "/new":
					r.StartNewSession()
					printed = 0
					continue
				}

				err := r.Submit(ctx, line)
				switch {
				case errors.Is(err, chatclient.ErrLoginRequired):
					color.Yellow("%s", translator.T(i18n.MsgLoginRequired))
					return err
				case errors.Is(err, chatclient.ErrTurnInFlight):
					continue
				}
				render(r.Snapshot())
			}
		},
	}
	cmd.Flags().StringVar(&sessionArg, "session", "", "continue an existing session")
	cmd.Flags().BoolVar(&webSearch, "web", false, "allow web search for each turn")
	return cmd
}

func watchCommand() *cobra.Command {
	var natsURL, durable string

	cmd := &cobra.Command{
		Use:   "watch [event-type]",
		Short: "Stream domain events from NATS",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			subject := "events.>"
			if len(args) == 1 {
				subject = nats.Subject(args[0])
			}

			sub, err := nats.NewSubscriber(natsURL)
			if err != nil {
				return err
			}
			defer sub.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			stopConsuming, err := sub.Subscribe(ctx, subject, durable, func(ctx context.Context, event events.Event) error {
				color.New(color.FgMagenta).Printf("%s ", event.Timestamp().Local().Format("15:04:05"))
				fmt.Printf("%-22s %v\n", event.EventType(), event.Payload())
				return nil
			})
			if err != nil {
				return err
			}
			defer stopConsuming()

			color.Green("Watching %s, Ctrl+C to stop", subject)
			<-ctx.Done()
			return nil
		},
	}
	cmd.Flags().StringVar(&natsURL, "nats", envOr("NATS_URL", "nats://localhost:4222"), "NATS server URL")
	cmd.Flags().StringVar(&durable, "durable", "", "durable consumer name; empty only shows new events")
	return cmd
}
