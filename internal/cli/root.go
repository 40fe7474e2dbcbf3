package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Keerthi292/Emotion-Recognition-system/internal/model"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "emorec",
	Short: "Emorec - Multimodal emotion recognition",
	Long: `Emorec estimates a subject's emotional state from up to three
independent inputs: free text, a WAV audio clip, and a face image.

Each modality is scored on its own, then the distributions are fused
with fixed weights (text 0.4, audio 0.3, visual 0.3) into a ranked
summary and a short advisory insight.

Analyses run on local heuristics by default; a remote model backend can
be configured instead, with automatic fallback to the local analyzers
when the backend is unreachable.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of the emorec analysis engine.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("emorec v%s\n", model.Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.emorec/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.emorec")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match EMOREC_*; nested keys use
	// underscores, e.g. EMOREC_WEIGHTS_TEXT overrides weights.text.
	viper.SetEnvPrefix("EMOREC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig layers the resolved viper state (config file and environment)
// over the built-in defaults. Flag overrides happen per command afterwards.
func loadConfig() model.Config {
	cfg := model.DefaultConfig()

	setFloat := func(key string, dst *float64) {
		if viper.IsSet(key) {
			*dst = viper.GetFloat64(key)
		}
	}
	setString := func(key string, dst *string) {
		if viper.IsSet(key) {
			*dst = viper.GetString(key)
		}
	}
	setBool := func(key string, dst *bool) {
		if viper.IsSet(key) {
			*dst = viper.GetBool(key)
		}
	}
	setInt := func(key string, dst *int) {
		if viper.IsSet(key) {
			*dst = viper.GetInt(key)
		}
	}

	setFloat("weights.text", &cfg.Weights.Text)
	setFloat("weights.audio", &cfg.Weights.Audio)
	setFloat("weights.visual", &cfg.Weights.Visual)
	setInt("fusion.top_k", &cfg.Fusion.TopK)
	setBool("fusion.renormalize_weights", &cfg.Fusion.RenormalizeWeights)

	setString("analyzers.text_provider", &cfg.Analyzers.TextProvider)
	if viper.IsSet("analyzers.seed") {
		cfg.Analyzers.Seed = viper.GetInt64("analyzers.seed")
	}
	setString("analyzers.openai.api_key", &cfg.Analyzers.OpenAI.APIKey)
	setString("analyzers.openai.base_url", &cfg.Analyzers.OpenAI.BaseURL)
	setString("analyzers.openai.model", &cfg.Analyzers.OpenAI.Model)

	if viper.IsSet("remote.mode") {
		cfg.Remote.Mode = model.TransportMode(viper.GetString("remote.mode"))
	}
	setString("remote.base_url", &cfg.Remote.BaseURL)
	if viper.IsSet("remote.timeout") {
		cfg.Remote.Timeout = viper.GetDuration("remote.timeout")
	}

	setBool("cache.enabled", &cfg.Cache.Enabled)
	setString("cache.backend", &cfg.Cache.Backend)
	setString("cache.dir", &cfg.Cache.Dir)
	if viper.IsSet("cache.ttl") {
		cfg.Cache.TTL = viper.GetDuration("cache.ttl")
	}

	setString("server.host", &cfg.Server.Host)
	setInt("server.port", &cfg.Server.Port)
	setInt("concurrency.workers", &cfg.Concurrency.Workers)
	setString("output.format", &cfg.Output.Format)

	// API keys are usually provided through the conventional variable
	if cfg.Analyzers.OpenAI.APIKey == "" {
		cfg.Analyzers.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	cfg.Output.Verbose = verbose
	return cfg
}

// newLogger builds the process logger. Verbose enables debug records.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
