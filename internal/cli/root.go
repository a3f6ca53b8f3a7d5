// Package cli implements the studynotes CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/studynotes/internal/ai"
	"github.com/rcliao/studynotes/internal/apperr"
	"github.com/rcliao/studynotes/internal/chat"
	"github.com/rcliao/studynotes/internal/config"
	"github.com/rcliao/studynotes/internal/courses"
	"github.com/rcliao/studynotes/internal/logger"
	"github.com/rcliao/studynotes/internal/notes"
	"github.com/rcliao/studynotes/internal/quiz"
	"github.com/rcliao/studynotes/internal/store"
)

var (
	dbPath     string
	configPath string
	formatFlag string
	verbose    bool
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "studynotes",
	Short: "Study notes with AI summaries, chat and quizzes",
	Long: "Keep course notes in a local SQLite file. Analyze them, ask questions about them " +
		"and quiz yourself, using a Gemini or OpenAI-compatible model.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $STUDYNOTES_DB_PATH or ~/.studynotes/notes.db)")
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: ~/.studynotes/config.yaml)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging to stderr")
}

// app holds everything a command needs. The generator is built once here and
// handed to every manager.
type app struct {
	cfg     config.Config
	log     *logger.Logger
	store   *store.SQLiteStore
	gen     ai.Generator
	notes   *notes.Manager
	courses *courses.Manager
	chat    *chat.Manager
	quiz    *quiz.Manager
}

func loadConfig() config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		exitErr("load config", err)
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	return cfg
}

func openApp(cmd *cobra.Command) *app {
	cfg := loadConfig()

	log, err := logger.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		exitErr("init logger", err)
	}

	s, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		exitErr("open store", err)
	}

	gen, err := ai.NewFromConfig(cfg.AI, log)
	if gen == nil {
		s.Close()
		exitErr("configure ai", err)
	}
	if err != nil {
		log.Debug("ai disabled", "provider", cfg.AI.Provider, "error", err)
	}

	a := &app{
		cfg:     cfg,
		log:     log,
		store:   s,
		gen:     gen,
		notes:   notes.New(s, gen, log),
		courses: courses.New(s, log),
		chat:    chat.New(s, gen, log),
		quiz:    quiz.New(s, gen, log),
	}
	a.onboardingHint(cmd)
	return a
}

func (a *app) Close() {
	a.store.Close()
	a.log.Sync()
}

// onboardingHint prints a welcome line on stderr until `onboard` has run.
func (a *app) onboardingHint(cmd *cobra.Command) {
	if cmd.Name() == "onboard" {
		return
	}
	done, ok, err := a.store.GetSetting(cmd.Context(), store.SettingOnboardingComplete)
	if err != nil {
		a.log.Warn("read onboarding flag", "error", err)
		return
	}
	if !ok || done != "true" {
		fmt.Fprintln(os.Stderr, "Welcome to studynotes! Run `studynotes onboard` for a quick tour.")
	}
}

func textFormat() bool {
	return formatFlag == "text"
}

func printJSON(v interface{}) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %s\n", msg, apperr.Message(err))
	os.Exit(1)
}

// readContent returns the positional args joined, or stdin when it is piped.
func readContent(args []string) string {
	if len(args) > 0 {
		return strings.Join(args, " ")
	}
	stat, _ := os.Stdin.Stat()
	if (stat.Mode() & os.ModeCharDevice) == 0 {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			exitErr("read stdin", err)
		}
		return string(b)
	}
	return ""
}
