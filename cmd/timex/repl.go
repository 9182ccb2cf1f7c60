package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/wbrown/timex"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Extract interactively, one line at a time",
	Long: "repl reads lines from standard input and prints the markup, the " +
		"tokens and the resolved results of each. A line of the form " +
		"':base <time>' changes the base time.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		base := time.Now().UTC()
		if value, _ := cmd.Flags().GetString("base"); value != "" {
			var err error
			if base, err = timex.ParseBase(value); err != nil {
				return err
			}
		}
		extractor, err := newExtractor(newLogger())
		if err != nil {
			return err
		}
		return repl(extractor, base, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	replCmd.Flags().String("base", "", "base time (default now)")
}

func repl(extractor *timex.Extractor, base time.Time, in io.Reader,
	out io.Writer) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprintf(out, "base: %s\n> ", base.Format(time.RFC3339))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
		case strings.HasPrefix(line, ":base "):
			if parsed, err := timex.ParseBase(
				strings.TrimSpace(line[len(":base "):])); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			} else {
				base = parsed
				fmt.Fprintf(out, "base: %s\n", base.Format(time.RFC3339))
			}
		default:
			results, tokens := extractor.Extract(line, base)
			fmt.Fprintf(out, "markup: %s\n", extractor.Markup(line))
			for _, tok := range tokens {
				fmt.Fprintf(out, "token:  %s\n", tok)
			}
			if len(results) == 0 {
				fmt.Fprintln(out, "no results")
			}
			for _, result := range results {
				fmt.Fprintf(out, "result: %s\n",
					strings.Join(result.Strings(), " .. "))
			}
		}
		fmt.Fprint(out, "> ")
	}
	fmt.Fprintln(out)
	return scanner.Err()
}
