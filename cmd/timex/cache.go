package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/wbrown/timex"
	"github.com/wbrown/timex/resources"
)

var cacheCmd = &cobra.Command{
	Use:   "cache [lang...]",
	Short: "Prebuild the lexicon cache",
	Long: "cache builds the lexicon of each language (en and zh by default) " +
		"and writes it under --cache-dir.",
	RunE: func(cmd *cobra.Command, langs []string) error {
		cacheDir := cfg.GetString("cache-dir")
		if cacheDir == "" {
			return errors.New("--cache-dir is required")
		}
		if len(langs) == 0 {
			langs = []string{"en", "zh"}
		}
		overwrite, _ := cmd.Flags().GetBool("overwrite")
		logger := newLogger()
		for _, lang := range langs {
			opts := extractorOptions(logger)
			opts.Overwrite = overwrite
			if _, err := timex.NewExtractor(lang, opts); err != nil {
				return errors.Wrapf(err, "build %s lexicon", lang)
			}
			path := resources.CachePath(cacheDir, lang)
			info, err := os.Stat(path)
			if err != nil {
				return errors.Wrapf(err, "stat %s", path)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n",
				resources.NormalizeLang(lang), path,
				humanize.Bytes(uint64(info.Size())))
		}
		return nil
	},
}

func init() {
	cacheCmd.Flags().Bool("overwrite", false, "rebuild existing caches")
}
