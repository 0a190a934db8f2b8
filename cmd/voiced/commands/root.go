package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/clerviq/voiced/pkg/client"
	"github.com/clerviq/voiced/pkg/cliutil"
	"github.com/clerviq/voiced/pkg/clone"
	"github.com/clerviq/voiced/pkg/kv"
	"github.com/clerviq/voiced/pkg/tts"
	"github.com/clerviq/voiced/pkg/tts/fallbacktts"
	"github.com/clerviq/voiced/pkg/tts/xttsrunner"
	"github.com/clerviq/voiced/pkg/voiceprint"
)

var (
	cfgFile    string
	outputJSON bool
	verbose    bool

	globalConfig *cliutil.Config
)

var rootCmd = &cobra.Command{
	Use:   "voiced",
	Short: "Voice cloning and speech synthesis",
	Long: `voiced - clone client voices and synthesize speech with them.

Voice profiles are cloned from a sample recording and stored per
client; synthesis runs through the full multilingual model when its
runner is available and degrades to a built-in backend when not.

Examples:
  # Register a client and clone a voice for it
  voiced client add dental-01 --name "Front Desk" --company "Smile Dental"
  voiced client upload-voice dental-01 receptionist --audio sample.wav --gender female

  # Synthesize with a preset or a cloned voice
  voiced synthesize "Thank you for calling." --preset friendly_receptionist -o hello.wav
  voiced synthesize "Thank you for calling." --voice-dir ~/voices/dental-01/receptionist -o hello.wav
`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.clerviq/voiced/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output as JSON (for piping)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	rootCmd.AddCommand(synthesizeCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(cloneCmd)
	rootCmd.AddCommand(clientCmd)
	rootCmd.AddCommand(voiceCmd)
	rootCmd.AddCommand(demoCmd)
}

func initConfig() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	var err error
	if cfgFile != "" {
		globalConfig, err = cliutil.LoadConfigFile(cfgFile)
	} else {
		globalConfig, err = cliutil.LoadConfig()
	}
	if err != nil {
		cliutil.PrintError("load config: %v", err)
		os.Exit(1)
	}
}

func outputFormat() cliutil.OutputFormat {
	if outputJSON {
		return cliutil.FormatJSON
	}
	return cliutil.FormatYAML
}

// newEngine builds the synthesis engine from the global config. The
// returned cleanup closes the engine and the cache store.
func newEngine() (*tts.Engine, func(), error) {
	factories := []tts.Factory{
		xttsrunner.Factory(xttsrunner.Config{
			Binary:    globalConfig.Runner.Binary,
			ModelPath: globalConfig.Runner.ModelPath,
		}),
		fallbacktts.Factory,
	}

	var opts []tts.Option
	var store kv.Store
	if globalConfig.CacheDir != "" {
		var err error
		store, err = kv.NewBadger(kv.BadgerOptions{Dir: globalConfig.CacheDir})
		if err != nil {
			slog.Warn("utterance cache unavailable", "dir", globalConfig.CacheDir, "err", err)
		} else {
			opts = append(opts, tts.WithCache(tts.NewCache(store)))
		}
	}

	engine := tts.New(factories, opts...)
	cleanup := func() {
		engine.Close()
		if store != nil {
			store.Close()
		}
	}
	return engine, cleanup, nil
}

func newCloner() *clone.Engine {
	return clone.New(voiceprint.NewSpectralExtractor())
}

func newManager() (*client.Manager, error) {
	return client.NewManager(globalConfig.VoicesDir, newCloner())
}
