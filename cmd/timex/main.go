// Command timex extracts dates and times from text. It runs an interactive
// loop, evaluates JSONL acceptance files and prebuilds lexicon caches.
package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/wbrown/timex"
	"github.com/wbrown/timex/resolve"
)

var cfg = viper.New()

var rootCmd = &cobra.Command{
	Use:   "timex",
	Short: "Extract dates and times from English and Chinese text",
	Long: "timex finds temporal expressions in English and Chinese text and " +
		"resolves them to ISO-8601 instants and intervals against a base " +
		"time.\n\nEvery flag may also be set as TIMEX_<FLAG> in the " +
		"environment or in the file given by --config.",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringP("lang", "l", "en", "language: en or zh")
	flags.String("config", "", "config file (yaml, toml or json)")
	flags.String("cache-dir", "", "directory of persisted lexicon caches")
	flags.String("data-dir", "", "directory overriding the embedded grammar data")
	flags.Bool("bare-hours", false, "resolve bare numbers after 'at' as hours")
	flags.Bool("infer-pm", false, "read bare hours before 7 as afternoon")
	flags.Bool("sentences", false, "split text into sentences before tagging")
	flags.BoolP("verbose", "v", false, "log debug output")
	rootCmd.AddCommand(replCmd, batchCmd, cacheCmd, runsCmd)
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	cfg.SetEnvPrefix("TIMEX")
	cfg.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	cfg.AutomaticEnv()
	if err := cfg.BindPFlags(cmd.Flags()); err != nil {
		return errors.Wrap(err, "bind flags")
	}
	if path := cfg.GetString("config"); path != "" {
		cfg.SetConfigFile(path)
		if err := cfg.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "read config %s", path)
		}
	}
	return nil
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if cfg.GetBool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr,
		&slog.HandlerOptions{Level: level}))
}

func extractorOptions(logger *slog.Logger) *timex.Options {
	return &timex.Options{
		CacheDir: cfg.GetString("cache-dir"),
		DataDir:  cfg.GetString("data-dir"),
		Logger:   logger,
		Policy: resolve.Policy{
			BareHours: cfg.GetBool("bare-hours"),
			InferPM:   cfg.GetBool("infer-pm"),
		},
		Sentences: cfg.GetBool("sentences"),
	}
}

func newExtractor(logger *slog.Logger) (*timex.Extractor, error) {
	lang := cfg.GetString("lang")
	extractor, err := timex.NewExtractor(lang, extractorOptions(logger))
	if err != nil {
		return nil, errors.Wrapf(err, "build %s extractor", lang)
	}
	return extractor, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
