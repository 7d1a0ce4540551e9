// Package main provides the entry point for the spellbee-audio CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/spellbee-audio/internal/config"
	"github.com/dgnsrekt/spellbee-audio/internal/pipeline"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const appName = "spellbee-audio"

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	verbose    bool
	watchMode  bool
	voiceIDs   []string

	rootCmd = &cobra.Command{
		Use:   appName,
		Short: "Generate pronunciation audio for a spelling bee study app",
		Long: paragraph(
			fmt.Sprintf("\nGenerate one audio file per %s pair with neural voices. Files that already exist are skipped, so re-running %s where it stopped.", keyword("voice × item"), keyword("picks up")),
		),
		Example: paragraph("spellbee-audio words\nspellbee-audio sentences --voice dalia,jorge\nspellbee-audio all --engine gtts --concurrency 3"),
		SilenceErrors:    true,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.NoArgs,
		PersistentPreRun: func(*cobra.Command, []string) {
			if verbose {
				log.SetLevel(log.DebugLevel)
			}
			if configFile != "" {
				viper.SetConfigFile(configFile)
				if err := viper.ReadInConfig(); err != nil {
					log.Warn("Could not parse configuration file", "path", configFile, "error", err)
				}
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
)

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = rootCmd.ExecuteContext(ctx)
	stop()
	_ = closer()
	os.Exit(exitCode(err))
}

// exitCode maps the result of a command to the process status: 2 when some
// files failed and a re-run is advised, 1 for any other error.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, pipeline.ErrIncomplete):
		return 2
	default:
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	defaults := config.Default()
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	flags.BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")
	flags.StringSliceVar(&voiceIDs, "voice", nil, "only generate these voice IDs (comma separated)")
	flags.StringP("out", "o", defaults.OutputDir, "output directory")
	flags.StringP("engine", "e", defaults.Engine, "synthesis engine (edge, gtts or mock)")
	flags.IntP("concurrency", "c", defaults.Concurrency, "maximum simultaneous synthesis requests")
	flags.Int("attempts", defaults.MaxAttempts, "attempts per file before giving up")
	flags.Duration("retry-delay", defaults.RetryDelay, "base delay between attempts, multiplied by the attempt number")
	flags.Int("rpm", defaults.RequestsPerMinute, "limit synthesis requests per minute (0 for no limit)")
	flags.String("cache-dir", defaults.Cache.Dir, "cache synthesized audio in this directory")
	flags.BoolVarP(&watchMode, "watch", "w", false, "keep running and regenerate when data files change")

	// Config bindings
	_ = viper.BindPFlag("output_dir", flags.Lookup("out"))
	_ = viper.BindPFlag("engine", flags.Lookup("engine"))
	_ = viper.BindPFlag("concurrency", flags.Lookup("concurrency"))
	_ = viper.BindPFlag("max_attempts", flags.Lookup("attempts"))
	_ = viper.BindPFlag("retry_delay", flags.Lookup("retry-delay"))
	_ = viper.BindPFlag("requests_per_minute", flags.Lookup("rpm"))
	_ = viper.BindPFlag("cache.dir", flags.Lookup("cache-dir"))

	rootCmd.AddCommand(
		datasetCmd("words", "Generate audio for every word"),
		datasetCmd("sentences", "Generate audio for every example sentence"),
		allCmd,
		planCmd,
		itemsCmd,
		voicesCmd,
		configCmd,
		manCmd,
	)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, appName)
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, appName)}, dirs...)
	}

	if c := os.Getenv("SPELLBEE_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}
	viper.AddConfigPath(".")

	viper.SetConfigName(appName)
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("spellbee")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "error", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", used)
		return
	}

	configFile = filepath.Join(dirs[0], appName+".yml")
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
		return
	}
	if err := viper.ReadInConfig(); err != nil {
		log.Warn("Could not read default configuration", "path", configFile, "error", err)
	}
	configFile = ""
}
