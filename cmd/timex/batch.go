package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/wbrown/timex"
	"github.com/wbrown/timex/internal/report"
	"github.com/wbrown/timex/types"
	"github.com/yargevad/filepathx"
	"golang.org/x/sync/errgroup"
)

var batchCmd = &cobra.Command{
	Use:   "batch path...",
	Short: "Evaluate JSONL acceptance files",
	Long: "batch reads records {\"query\", \"metadata\", \"datetime_result\"} " +
		"from the given files, or from every *.jsonl below the given " +
		"directories, and compares the extracted results with the expected " +
		"ones. It exits with status 1 when any record fails.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, paths []string) error {
		logger := newLogger()
		extractor, err := newExtractor(logger)
		if err != nil {
			return err
		}
		workers := cfg.GetInt("workers")
		var store *report.Store
		if dbPath := cfg.GetString("report-db"); dbPath != "" {
			if store, err = report.Open(dbPath); err != nil {
				return err
			}
			defer store.Close()
		}
		summary, err := runBatch(cmd.Context(), extractor, paths, workers,
			store, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		if summary.Passed != summary.Total {
			return errors.Errorf("%d of %d records failed",
				summary.Total-summary.Passed, summary.Total)
		}
		return nil
	},
}

func init() {
	flags := batchCmd.Flags()
	flags.IntP("workers", "w", runtime.NumCPU(), "concurrent extractions")
	flags.String("report-db", "", "store the run in this SQLite database")
}

// record is one line of an acceptance file.
type record struct {
	Query    string          `json:"query"`
	Metadata json.RawMessage `json:"metadata"`
	Expected [][]string      `json:"datetime_result"`
}

// baseTime reads metadata that is either a time string or an object with a
// base_time field.
func (r record) baseTime() (time.Time, error) {
	var value string
	if err := json.Unmarshal(r.Metadata, &value); err != nil {
		var meta struct {
			BaseTime string `json:"base_time"`
		}
		if err := json.Unmarshal(r.Metadata, &meta); err != nil {
			return time.Time{}, errors.Wrap(err, "metadata")
		}
		value = meta.BaseTime
	}
	if value == "" {
		return time.Time{}, errors.New("metadata has no base time")
	}
	return timex.ParseBase(value)
}

type batchCase struct {
	source string
	line   int
	rec    record
	err    error
}

type outcome struct {
	markup string
	got    [][]string
	passed bool
	err    error
}

type batchSummary struct {
	Total   int
	Passed  int
	RunID   string
	Elapsed time.Duration
}

// collectFiles expands directories into the JSONL files below them.
func collectFiles(paths []string) ([]string, error) {
	files := make([]string, 0, len(paths))
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, errors.Wrapf(err, "stat %s", path)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		matches, err := filepathx.Glob(path + "/**/*.jsonl")
		if err != nil {
			return nil, errors.Wrapf(err, "glob %s", path)
		}
		sort.Strings(matches)
		files = append(files, matches...)
	}
	return files, nil
}

// readCases reads every non-blank line of a file. Lines that do not decode
// become failing cases.
func readCases(path string) ([]batchCase, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	cases := make([]batchCase, 0)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Bytes()
		if len(bytes.TrimSpace(text)) == 0 {
			continue
		}
		c := batchCase{source: path, line: line}
		if err := json.Unmarshal(text, &c.rec); err != nil {
			c.err = errors.Wrap(err, "decode record")
		}
		cases = append(cases, c)
	}
	return cases, errors.Wrapf(scanner.Err(), "read %s", path)
}

func evaluate(extractor *timex.Extractor, c batchCase) outcome {
	if c.err != nil {
		return outcome{err: c.err}
	}
	base, err := c.rec.baseTime()
	if err != nil {
		return outcome{err: err}
	}
	results, _ := extractor.Extract(c.rec.Query, base)
	return outcome{
		markup: extractor.Markup(c.rec.Query),
		got:    types.ResultStrings(results),
		passed: timex.SameResults(results, c.rec.Expected),
	}
}

func compact(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// runBatch evaluates every record of paths on a bounded pool of workers and
// prints the failures in input order followed by a summary.
func runBatch(ctx context.Context, extractor *timex.Extractor,
	paths []string, workers int, store *report.Store,
	out io.Writer) (batchSummary, error) {
	var summary batchSummary
	if ctx == nil {
		ctx = context.Background()
	}
	files, err := collectFiles(paths)
	if err != nil {
		return summary, err
	}
	cases := make([]batchCase, 0)
	for _, file := range files {
		fileCases, err := readCases(file)
		if err != nil {
			return summary, err
		}
		cases = append(cases, fileCases...)
	}

	start := time.Now()
	outcomes := make([]outcome, len(cases))
	group, gctx := errgroup.WithContext(ctx)
	if workers < 1 {
		workers = 1
	}
	group.SetLimit(workers)
	for idx := range cases {
		idx := idx
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[idx] = evaluate(extractor, cases[idx])
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return summary, err
	}
	summary.Elapsed = time.Since(start)

	var run *report.Run
	if store != nil {
		if run, err = store.StartRun(ctx, extractor.Lang); err != nil {
			return summary, err
		}
		summary.RunID = run.ID
	}
	for idx, c := range cases {
		o := outcomes[idx]
		summary.Total++
		if o.passed {
			summary.Passed++
		} else {
			fmt.Fprintf(out, "FAIL %s:%d\n", c.source, c.line)
			if o.err != nil {
				fmt.Fprintf(out, "  error:    %v\n", o.err)
			} else {
				fmt.Fprintf(out, "  query:    %s\n", c.rec.Query)
				fmt.Fprintf(out, "  markup:   %s\n", o.markup)
				fmt.Fprintf(out, "  expected: %s\n", compact(c.rec.Expected))
				fmt.Fprintf(out, "  got:      %s\n", compact(o.got))
			}
		}
		if run == nil {
			continue
		}
		got := compact(o.got)
		if o.err != nil {
			got = o.err.Error()
		}
		if err := store.AddCase(ctx, report.Case{
			RunID:    run.ID,
			Source:   c.source,
			Line:     c.line,
			Query:    c.rec.Query,
			Base:     string(c.rec.Metadata),
			Markup:   o.markup,
			Expected: compact(c.rec.Expected),
			Got:      got,
			Passed:   o.passed,
		}); err != nil {
			return summary, err
		}
	}
	if run != nil {
		run.Total, run.Passed = summary.Total, summary.Passed
		if err := store.FinishRun(ctx, run); err != nil {
			return summary, err
		}
	}

	rate := 0.0
	if summary.Elapsed > 0 {
		rate = float64(summary.Total) / summary.Elapsed.Seconds()
	}
	percent := 100.0
	if summary.Total > 0 {
		percent = 100 * float64(summary.Passed) / float64(summary.Total)
	}
	fmt.Fprintf(out, "%s/%s passed (%.1f%%) in %s, %s records/sec\n",
		humanize.Comma(int64(summary.Passed)),
		humanize.Comma(int64(summary.Total)), percent,
		summary.Elapsed.Round(time.Millisecond),
		humanize.CommafWithDigits(rate, 1))
	if run != nil {
		fmt.Fprintf(out, "run %s\n", run.ID)
	}
	return summary, nil
}
