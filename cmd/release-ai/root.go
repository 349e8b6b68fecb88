package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/release-ai/release-ai/internal/ai"
	"github.com/release-ai/release-ai/internal/config"
	"github.com/release-ai/release-ai/internal/git"
	"github.com/release-ai/release-ai/internal/log"
	"github.com/release-ai/release-ai/internal/output"
)

var (
	// Global flags
	verbose bool
	quiet   bool

	// Shared state injected into commands
	cfg      *config.Config
	repoRoot string
)

// Command group IDs for organizing help output
const (
	GroupRelease = "release"
	GroupAI      = "ai"
	GroupUtility = "utility"
	GroupConfig  = "config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "release-ai",
	Short: "Release automation with AI-generated notes and version suggestions",
	Long: `release-ai drives a release from the terminal: it manages release
branches and tags, updates the version in all configured files with
backup/rollback safety, and can ask an AI for release notes and
version-bump suggestions.

One invocation performs one release action. Set RELEASE_AI_NO_AI=1 to
disable all AI features.`,
	SilenceUsage:               true,
	SilenceErrors:              true,
	SuggestionsMinimumDistance: 2, // Enable typo suggestions
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip setup for completion and help commands
		if cmd.Name() == "completion" || cmd.Name() == "__complete" || cmd.Name() == "help" {
			return nil
		}

		// Validate mutually exclusive flags
		if verbose && quiet {
			return fmt.Errorf("--verbose and --quiet are mutually exclusive")
		}

		// Check git is available
		if err := git.CheckGit(); err != nil {
			return err
		}

		// Create logger (stderr for diagnostics) and output printer
		// (stdout for primary data), carried through the context.
		ctx := cmd.Context()
		ctx = log.WithLogger(ctx, log.New(os.Stderr, verbose, quiet))
		ctx = output.WithPrinter(ctx, os.Stdout)
		cmd.SetContext(ctx)

		// Resolve the project root: the enclosing repository, or the
		// working directory for commands that run outside one (init).
		workDir, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		repoRoot = workDir
		if root, err := git.RepoRoot(ctx, workDir); err == nil {
			repoRoot = root
		}

		loaded, err := config.Load(repoRoot)
		if err != nil {
			return err
		}
		cfg = &loaded
		return nil
	},
	// Run is not set - shows help when no subcommand provided
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	// Create context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rootCmd.SetContext(ctx)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Run 'release-ai -h' for help")
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show external commands being executed")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all log output")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	// Version flag
	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Add command groups for organized help output
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupRelease, Title: "Release Commands:"},
		&cobra.Group{ID: GroupAI, Title: "AI Commands:"},
		&cobra.Group{ID: GroupUtility, Title: "Utility Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	// Release commands
	rootCmd.AddCommand(newStartCmd())
	rootCmd.AddCommand(newMergeCmd())
	rootCmd.AddCommand(newFinalizeCmd())
	rootCmd.AddCommand(newRollbackCmd())

	// AI commands
	rootCmd.AddCommand(newSuggestCmd())
	rootCmd.AddCommand(newNotesCmd())
	rootCmd.AddCommand(newAssistCmd())

	// Utility commands
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newVersionCmd())

	// Config commands
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newConfigCmd())
}

// aiEnabled reports whether AI features may be used for this invocation.
func aiEnabled() bool {
	return cfg != nil && !cfg.NoAI
}

// newAIClient builds an AI client from the effective configuration.
func newAIClient() *ai.Client {
	return ai.New(cfg.AIModel, cfg.AIMaxTokens)
}
