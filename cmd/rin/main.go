// Package main is the entry point for the Rin CLI, a voice-first personal
// assistant that routes natural-language queries to local handlers for
// time, lists, reminders, web search, and email drafts, with an LLM
// fallback for everything else.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/PSkinnerTech/rin-v0-extended/internal/assistant"
	"github.com/PSkinnerTech/rin-v0-extended/internal/config"
	"github.com/PSkinnerTech/rin-v0-extended/internal/data"
	"github.com/PSkinnerTech/rin-v0-extended/internal/email"
	"github.com/PSkinnerTech/rin-v0-extended/internal/llm"
	"github.com/PSkinnerTech/rin-v0-extended/internal/logging"
	"github.com/PSkinnerTech/rin-v0-extended/internal/router"
	"github.com/PSkinnerTech/rin-v0-extended/internal/scheduler"
	"github.com/PSkinnerTech/rin-v0-extended/internal/search"
	"github.com/PSkinnerTech/rin-v0-extended/internal/voice"
)

var (
	version = "0.1.0"
	cfgPath string
	verbose bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rin",
		Short: "Rin - voice-first personal assistant",
		Long: `Rin is a personal assistant that understands natural language.

Ask anything:            rin ask "what time is it"
Voice interaction:       rin listen
Manage lists:            rin list create groceries
Set reminders:           rin reminder timer 5 minutes
Draft emails:            rin email draft bob@example.com "Friday standup"
Search the web:          rin search "weather in tokyo"`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file path (default ~/.rin/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(
		askCmd(),
		listenCmd(),
		rememberCmd(),
		speakCmd(),
		listCmd(),
		reminderCmd(),
		emailCmd(),
		searchCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		// Single generic error line at the outermost boundary.
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// ═══════════════════════════════════════════════════════════════════════════════
// APPLICATION WIRING
// ═══════════════════════════════════════════════════════════════════════════════

// app holds the wired component graph for one command invocation.
type app struct {
	cfg       *config.Config
	logger    zerolog.Logger
	store     *data.Store
	sched     *scheduler.Scheduler
	summarize *search.Summarizer
	drafter   *email.Drafter
	speaker   *voice.Speaker
	assistant *assistant.Assistant
}

// newApp loads configuration and wires every component. The scheduler is
// started before this returns, so past-due reminders are reconciled before
// any command runs.
func newApp(ctx context.Context) (*app, error) {
	// Optional .env for API keys; absence is not an error.
	_ = godotenv.Load()

	var cfg *config.Config
	var err error
	if cfgPath != "" {
		cfg, err = config.LoadFromPath(cfgPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	if verbose {
		cfg.Logging.Level = "debug"
	}
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initializing logging: %w", err)
	}

	store, err := data.Open(cfg.Data.DBPath())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	provider, err := llm.New(cfg.LLM, logger)
	if err != nil {
		store.Close()
		return nil, err
	}

	synth, err := voice.NewSynthesizer(cfg.Voice, logger)
	if err != nil {
		store.Close()
		return nil, err
	}
	recorder := voice.NewRecorder(logger)
	transcriber, err := voice.NewTranscriber(cfg.Voice, recorder, logger)
	if err != nil {
		store.Close()
		return nil, err
	}
	speaker := voice.NewSpeaker(synth, voice.NewPlayer(logger))

	console := scheduler.NewConsoleNotifier(logger, scheduler.WithSpeaker(speaker))
	sched := scheduler.New(store, scheduler.NewDesktopNotifier(console, logger), logger)
	if err := sched.Start(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("starting scheduler: %w", err)
	}

	searcher := search.New(cfg.Search, logger)
	summarizer := search.NewSummarizer(searcher, provider, logger)
	drafter := email.New(store, provider, logger)

	rtr := router.New(store, sched, summarizer, drafter, provider, logger,
		router.WithMaxResults(cfg.Search.MaxResults))

	return &app{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		sched:     sched,
		summarize: summarizer,
		drafter:   drafter,
		speaker:   speaker,
		assistant: assistant.New(rtr, store, speaker, transcriber, logger),
	}, nil
}

func (a *app) close() {
	a.sched.Stop()
	if err := a.store.Close(); err != nil {
		a.logger.Error().Err(err).Msg("closing database")
	}
}

// runWithApp wires the application, runs fn, and tears everything down.
func runWithApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()
	return fn(ctx, a)
}

// ═══════════════════════════════════════════════════════════════════════════════
// CORE COMMANDS
// ═══════════════════════════════════════════════════════════════════════════════

func askCmd() *cobra.Command {
	var withVoice bool
	cmd := &cobra.Command{
		Use:   "ask <query>",
		Short: "Ask Rin a question or give it a command",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(ctx context.Context, a *app) error {
				res := a.assistant.Process(ctx, strings.Join(args, " "), withVoice)
				fmt.Println(res.Text)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&withVoice, "voice", false, "speak the response")
	return cmd
}

func listenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listen",
		Short: "Record a voice query from the microphone and respond",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(ctx context.Context, a *app) error {
				fmt.Println("Listening...")
				res, err := a.assistant.ListenAndRespond(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("You said: %s\n", res.Query)
				fmt.Println(res.Text)
				return nil
			})
		},
	}
}

func rememberCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "remember",
		Short: "Show recent interaction history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(ctx context.Context, a *app) error {
				history, err := a.assistant.History(ctx, limit)
				if err != nil {
					return err
				}
				if len(history) == 0 {
					fmt.Println("No interactions yet.")
					return nil
				}
				for _, h := range history {
					fmt.Printf("[%s]\n  You: %s\n  Rin: %s\n",
						h.Timestamp.Local().Format("Jan 2 3:04 PM"), h.Query, h.Response)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "number of interactions to show")
	return cmd
}

func speakCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "speak <text>",
		Short: "Speak the given text with the configured TTS engine",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(ctx context.Context, a *app) error {
				return a.speaker.Speak(ctx, strings.Join(args, " "))
			})
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Rin v%s\n", version)
		},
	}
}

// ═══════════════════════════════════════════════════════════════════════════════
// LIST COMMANDS
// ═══════════════════════════════════════════════════════════════════════════════

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Manage named lists",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show-all",
		Short: "Show the names of all lists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(ctx context.Context, a *app) error {
				names, err := a.store.ListNames(ctx)
				if err != nil {
					return err
				}
				if len(names) == 0 {
					fmt.Println("You don't have any lists yet.")
					return nil
				}
				for _, name := range names {
					fmt.Println(name)
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <name>",
		Short: "Show a list's items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(ctx context.Context, a *app) error {
				list, err := a.store.GetList(ctx, args[0])
				if err != nil {
					return err
				}
				if len(list.Items) == 0 {
					fmt.Printf("The '%s' list is empty.\n", list.Name)
					return nil
				}
				for i, item := range list.Items {
					fmt.Printf("%d. %s\n", i+1, item)
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "create <name> [items...]",
		Short: "Create a new list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(ctx context.Context, a *app) error {
				if err := a.store.CreateList(ctx, args[0], args[1:]); err != nil {
					return err
				}
				fmt.Printf("Created list '%s'.\n", args[0])
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name> <item>",
		Short: "Add an item to a list",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(ctx context.Context, a *app) error {
				item := strings.Join(args[1:], " ")
				if err := a.store.AddItem(ctx, args[0], item); err != nil {
					return err
				}
				fmt.Printf("Added '%s' to '%s'.\n", item, args[0])
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <name> <number>",
		Short: "Remove an item from a list by its 1-based number",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(ctx context.Context, a *app) error {
				n, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("item number must be an integer: %q", args[1])
				}
				removed, err := a.store.RemoveItem(ctx, args[0], n-1)
				if err != nil {
					return err
				}
				if !removed {
					fmt.Printf("The '%s' list doesn't have an item %d.\n", args[0], n)
					return nil
				}
				fmt.Printf("Removed item %d from '%s'.\n", n, args[0])
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(ctx context.Context, a *app) error {
				if err := a.store.DeleteList(ctx, args[0]); err != nil {
					return err
				}
				fmt.Printf("Deleted list '%s'.\n", args[0])
				return nil
			})
		},
	})

	return cmd
}

// ═══════════════════════════════════════════════════════════════════════════════
// REMINDER COMMANDS
// ═══════════════════════════════════════════════════════════════════════════════

func reminderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reminder",
		Short: "Manage reminders and timers",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "timer <seconds> [description...]",
		Short: "Start a countdown timer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(ctx context.Context, a *app) error {
				seconds, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil || seconds <= 0 {
					return fmt.Errorf("duration must be a positive number of seconds: %q", args[0])
				}
				description := strings.Join(args[1:], " ")
				if description == "" {
					description = fmt.Sprintf("%d seconds", seconds)
				}
				r, err := a.sched.SetTimer(ctx, seconds, description)
				if err != nil {
					return err
				}
				fmt.Printf("Timer set: %s (ID: %s)\n", r.Description, r.ID)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <time> <description...>",
		Short: "Set a reminder for a clock time, e.g. 'rin reminder set 15:04 call mom'",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(ctx context.Context, a *app) error {
				dueAt, err := parseClockTime(args[0])
				if err != nil {
					return err
				}
				r, err := a.sched.SetReminder(ctx, dueAt, strings.Join(args[1:], " "))
				if err != nil {
					return err
				}
				fmt.Printf("Reminder set: %s at %s (ID: %s)\n",
					r.Description, r.DueAt.Local().Format("3:04 PM"), r.ID)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show active reminders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(ctx context.Context, a *app) error {
				active, err := a.sched.Active(ctx)
				if err != nil {
					return err
				}
				if len(active) == 0 {
					fmt.Println("You don't have any active reminders.")
					return nil
				}
				for i, r := range active {
					fmt.Printf("%d. %s at %s (ID: %s)\n",
						i+1, r.Description, r.DueAt.Local().Format("3:04 PM on Monday, January 2"), r.ID)
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel an active reminder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(ctx context.Context, a *app) error {
				cancelled, err := a.sched.Cancel(ctx, args[0])
				if err != nil {
					return err
				}
				if !cancelled {
					fmt.Printf("No active reminder with ID %s.\n", args[0])
					return nil
				}
				fmt.Printf("Cancelled reminder %s.\n", args[0])
				return nil
			})
		},
	})

	return cmd
}

// ═══════════════════════════════════════════════════════════════════════════════
// EMAIL COMMANDS
// ═══════════════════════════════════════════════════════════════════════════════

func emailCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "email",
		Short: "Manage email drafts",
	}

	var tone string
	draftCmd := &cobra.Command{
		Use:   "draft <recipient> <subject> [details...]",
		Short: "Generate an email draft",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(ctx context.Context, a *app) error {
				details := strings.Join(args[2:], " ")
				if details == "" {
					details = args[1]
				}
				draft, err := a.drafter.CreateDraft(ctx, args[0], args[1], details, tone)
				if err != nil {
					return err
				}
				fmt.Printf("To: %s\nSubject: %s\n\n%s\n\nSaved with ID %s.\n",
					draft.Recipient, draft.Subject, draft.Content, draft.ID)
				return nil
			})
		},
	}
	draftCmd.Flags().StringVar(&tone, "tone", email.DefaultTone, "tone of the email")
	cmd.AddCommand(draftCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show saved drafts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(ctx context.Context, a *app) error {
				drafts, err := a.drafter.Drafts(ctx)
				if err != nil {
					return err
				}
				if len(drafts) == 0 {
					fmt.Println("No saved drafts.")
					return nil
				}
				for _, d := range drafts {
					fmt.Printf("%s  to %s: %s (%s)\n",
						d.ID, d.Recipient, d.Subject, d.CreatedAt.Local().Format("Jan 2"))
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show a saved draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(ctx context.Context, a *app) error {
				d, err := a.drafter.GetDraft(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Printf("To: %s\nSubject: %s\nTone: %s\n\n%s\n", d.Recipient, d.Subject, d.Tone, d.Content)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(ctx context.Context, a *app) error {
				if err := a.drafter.DeleteDraft(ctx, args[0]); err != nil {
					return err
				}
				fmt.Printf("Deleted draft %s.\n", args[0])
				return nil
			})
		},
	})

	return cmd
}

// ═══════════════════════════════════════════════════════════════════════════════
// SEARCH COMMAND
// ═══════════════════════════════════════════════════════════════════════════════

func searchCmd() *cobra.Command {
	var summarize bool
	var numResults int
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the web",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, func(ctx context.Context, a *app) error {
				query := strings.Join(args, " ")
				if !summarize {
					results, err := a.summarize.RawSearch(ctx, query, numResults)
					if err != nil {
						return err
					}
					fmt.Print(search.FormatResults(results))
					return nil
				}
				summary, err := a.summarize.SearchAndSummarize(ctx, query, numResults)
				if err != nil {
					return err
				}
				fmt.Println(summary.Summary)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&summarize, "summary", true, "summarize results with the LLM")
	cmd.Flags().IntVar(&numResults, "num-results", 5, "number of results to request")
	return cmd
}

// parseClockTime interprets HH:MM (24-hour) as the next occurrence of that
// wall-clock time, rolling to tomorrow if it already passed today.
func parseClockTime(s string) (t time.Time, err error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return t, fmt.Errorf("time must be HH:MM, got %q", s)
	}
	hour, herr := strconv.Atoi(parts[0])
	minute, merr := strconv.Atoi(parts[1])
	if herr != nil || merr != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return t, fmt.Errorf("time must be HH:MM, got %q", s)
	}
	now := time.Now()
	t = time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !t.After(now) {
		t = t.AddDate(0, 0, 1)
	}
	return t, nil
}
