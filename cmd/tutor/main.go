// Command tutor is the LogicTutor CLI. Run without arguments for the
// interactive chat interface, or use `tutor ask` for a one-shot
// exchange.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"logictutor/cmd/tutor/chat"
	"logictutor/internal/config"
	"logictutor/internal/logging"
	"logictutor/internal/perception"
	"logictutor/internal/tutor"
)

const version = "0.3.0"

var (
	verbose bool
	model   string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tutor",
	Short: "LogicTutor - a chat mentor that never hands over the answer",
	Long: `LogicTutor is a tutoring chat client for a remote LLM service.

It enforces a pedagogical contract: no complete solutions, problems are
decomposed into logic steps and diagrams, and the mentor tracks whether
you derived the logic yourself.

Run without arguments to start the interactive chat interface.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The interactive UI has its own category logger.
		if cmd.Use == "tutor" && cmd.CalledAs() == "tutor" {
			return nil
		}

		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractiveChat()
	},
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Run a single gated exchange and print the reply",
	Long: `Sends one question through the full pipeline (gate, directive,
completion, extraction) and prints the tutor's reply to stdout. Diagram
sources, if any, are printed after the reply.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tutor %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&model, "model", "", "override the completion model")
	rootCmd.AddCommand(askCmd, versionCmd)
}

// newSession loads config, verifies the credential, and wires a session.
// A missing API key is fatal here, before any conversation attempt.
func newSession() (*tutor.Session, config.Config, error) {
	workspace, err := os.Getwd()
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("failed to resolve workspace: %w", err)
	}

	cfg, err := config.Load(workspace)
	if err != nil {
		return nil, config.Config{}, err
	}
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, config.Config{}, fmt.Errorf("%w (export it and retry)", err)
	}
	if model != "" {
		cfg.Model = model
	}

	if err := logging.Initialize(workspace); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}
	logging.Boot("tutor %s starting, model=%s", version, cfg.Model)

	directives, err := tutor.LoadDirectives()
	if err != nil {
		return nil, config.Config{}, err
	}

	clientCfg := perception.DefaultGeminiConfig(cfg.APIKey)
	clientCfg.Model = cfg.Model
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.MaxOutputTokens > 0 {
		clientCfg.MaxOutputTokens = cfg.MaxOutputTokens
	}
	client := perception.NewGeminiClientWithConfig(clientCfg)

	session := tutor.NewSession(client, directives, tutor.NewRegexGate())
	if level, ok := tutor.ParseKnowledgeLevel(cfg.DefaultLevel); ok {
		session.SetLevel(level)
	}
	return session, cfg, nil
}

func runInteractiveChat() error {
	session, _, err := newSession()
	if err != nil {
		return err
	}
	defer logging.Close()

	p := tea.NewProgram(chat.InitialModel(session), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat interface failed: %w", err)
	}
	return nil
}

func runAsk(cmd *cobra.Command, args []string) error {
	session, cfg, err := newSession()
	if err != nil {
		return err
	}
	defer logging.Close()

	question := strings.Join(args, " ")

	logger.Info("ask", zap.String("model", cfg.Model), zap.Int("question_len", len(question)))

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	result, err := session.Send(ctx, question)
	if err != nil {
		if errors.Is(err, tutor.ErrGateBlocked) {
			fmt.Println("That looks like a request for the full solution. Ask about the logic instead.")
			return nil
		}
		logger.Error("ask failed", zap.Error(err))
		return err
	}

	fmt.Println(result.Reply)
	for i, d := range result.Diagrams {
		fmt.Printf("\n--- diagram %d ---\n%s\n", i+1, d.Source)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
