package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"seqgen/internal/diag"
	"seqgen/internal/diagfmt"
	"seqgen/internal/driver"
	"seqgen/internal/observ"
	"seqgen/internal/source"
)

var expandCmd = &cobra.Command{
	Use:   "expand [flags] <file.seq|directory>...",
	Short: "Expand sequence templates",
	Long: `Expand lexes each template, repeats its sections (or its whole body) once
per value of the range and prints the result. Directories are searched
recursively for template files.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExpand,
}

func init() {
	expandCmd.Flags().String("format", "text", "output format (text|json)")
	expandCmd.Flags().StringP("output", "o", "", "write the expansion to this file (single template only)")
	expandCmd.Flags().String("out-dir", "", "write each expansion to <out-dir>/<name>.out")
	expandCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	expandCmd.Flags().Bool("no-cache", false, "do not read or write the disk cache")
	expandCmd.Flags().Bool("keep-comments", false, "keep template comments in the output")
	expandCmd.Flags().String("ext", driver.DefaultExtension, "template extension used when walking directories")
	expandCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	expandCmd.Flags().Bool("with-notes", true, "print diagnostic notes")
	expandCmd.Flags().String("path-mode", "auto", "diagnostic file paths (auto|absolute|relative|basename)")
	expandCmd.Flags().String("diag-format", "pretty", "text-mode diagnostics (pretty|short|sarif)")
}

type expandFlags struct {
	format       string
	output       string
	outDir       string
	jobs         int
	noCache      bool
	keepComments bool
	ext          string
	ui           uiMode
	withNotes    bool
	pathMode     diagfmt.PathMode
	diagFormat   string

	color          bool
	quiet          bool
	timings        bool
	maxDiagnostics int
}

func readExpandFlags(cmd *cobra.Command) (expandFlags, error) {
	var (
		f   expandFlags
		err error
	)
	flags := cmd.Flags()
	if f.format, err = flags.GetString("format"); err != nil {
		return f, fmt.Errorf("failed to get format flag: %w", err)
	}
	if f.output, err = flags.GetString("output"); err != nil {
		return f, fmt.Errorf("failed to get output flag: %w", err)
	}
	if f.outDir, err = flags.GetString("out-dir"); err != nil {
		return f, fmt.Errorf("failed to get out-dir flag: %w", err)
	}
	if f.jobs, err = flags.GetInt("jobs"); err != nil {
		return f, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if f.noCache, err = flags.GetBool("no-cache"); err != nil {
		return f, fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	if f.keepComments, err = flags.GetBool("keep-comments"); err != nil {
		return f, fmt.Errorf("failed to get keep-comments flag: %w", err)
	}
	if f.ext, err = flags.GetString("ext"); err != nil {
		return f, fmt.Errorf("failed to get ext flag: %w", err)
	}
	if f.withNotes, err = flags.GetBool("with-notes"); err != nil {
		return f, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	pathStr, err := flags.GetString("path-mode")
	if err != nil {
		return f, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	var known bool
	if f.pathMode, known = diagfmt.ParsePathMode(pathStr); !known {
		return f, fmt.Errorf("invalid --path-mode value %q", pathStr)
	}
	if f.diagFormat, err = flags.GetString("diag-format"); err != nil {
		return f, fmt.Errorf("failed to get diag-format flag: %w", err)
	}
	uiStr, err := flags.GetString("ui")
	if err != nil {
		return f, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if f.ui, err = readUIMode(uiStr); err != nil {
		return f, err
	}

	root := cmd.Root().PersistentFlags()
	colorStr, err := root.GetString("color")
	if err != nil {
		return f, fmt.Errorf("failed to get color flag: %w", err)
	}
	if f.color, err = readColorMode(colorStr, os.Stderr); err != nil {
		return f, err
	}
	if f.quiet, err = root.GetBool("quiet"); err != nil {
		return f, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if f.timings, err = root.GetBool("timings"); err != nil {
		return f, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if f.maxDiagnostics, err = root.GetInt("max-diagnostics"); err != nil {
		return f, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	switch f.format {
	case "text", "json":
	default:
		return f, fmt.Errorf("unknown format: %s (expected text|json)", f.format)
	}
	switch f.diagFormat {
	case "pretty", "short", "sarif":
	default:
		return f, fmt.Errorf("unknown diag format: %s (expected pretty|short|sarif)", f.diagFormat)
	}
	if f.output != "" && f.outDir != "" {
		return f, fmt.Errorf("--output and --out-dir cannot be used together")
	}
	if f.format == "json" && (f.output != "" || f.outDir != "") {
		return f, fmt.Errorf("--format json always writes to stdout")
	}
	return f, nil
}

func runExpand(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	f, err := readExpandFlags(cmd)
	if err != nil {
		return err
	}

	files, err := driver.CollectFiles(args, f.ext)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no %s templates found", f.ext)
	}
	if f.output != "" && len(files) != 1 {
		return fmt.Errorf("--output needs exactly one template, got %d", len(files))
	}

	opts := driver.Options{
		MaxDiagnostics: f.maxDiagnostics,
		Jobs:           f.jobs,
		KeepComments:   f.keepComments,
		Extension:      f.ext,
	}
	if f.timings {
		opts.Timer = observ.NewTimer()
	}
	if !f.noCache {
		cache, err := driver.OpenDiskCache("seqgen")
		if err != nil {
			// без кеша работаем дальше
			if !f.quiet {
				fmt.Fprintf(os.Stderr, "warning: disk cache disabled: %v\n", err)
			}
		} else {
			opts.Cache = cache
		}
	}

	var (
		fs      *source.FileSet
		results []driver.ExpandResult
	)
	writesFiles := f.output != "" || f.outDir != ""
	if f.format == "text" && !f.quiet && shouldUseTUI(f.ui, writesFiles, len(files)) {
		fs, results, err = runExpandWithUI(cmd.Context(), "expanding", files, opts)
	} else {
		fs, results, err = driver.ExpandPaths(cmd.Context(), files, opts)
	}
	if err != nil {
		return err
	}

	failed := 0
	for i := range results {
		if !results[i].OK() {
			failed++
		}
	}

	switch f.format {
	case "json":
		if err := writeExpandJSON(cmd.OutOrStdout(), results, fs, f); err != nil {
			return err
		}
	default:
		printResultDiagnostics(os.Stderr, results, fs, f)
		if err := writeExpandText(cmd.OutOrStdout(), results, f); err != nil {
			return err
		}
	}

	if opts.Timer != nil {
		fmt.Fprint(os.Stderr, opts.Timer.Summary())
		printStageTimings(os.Stderr, results)
	}
	if failed > 0 {
		if !f.quiet && f.format == "text" {
			fmt.Fprintf(os.Stderr, "%d of %d template(s) failed\n", failed, len(results))
		}
		return errTemplatesFailed
	}
	return nil
}

func printResultDiagnostics(w io.Writer, results []driver.ExpandResult, fs *source.FileSet, f expandFlags) {
	switch f.diagFormat {
	case "short":
		if short := diag.FormatShort(collectDiagnostics(results), fs, f.withNotes); short != "" {
			fmt.Fprintln(w, short)
		}
		return
	case "sarif":
		meta := diagfmt.SarifRunMeta{ToolName: "seqgen", ToolVersion: currentVersion()}
		if err := diagfmt.Sarif(w, collectDiagnostics(results), fs, meta); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write SARIF: %v\n", err)
		}
		return
	}

	opts := diagfmt.PrettyOpts{
		Color:     f.color,
		Context:   1,
		PathMode:  f.pathMode,
		ShowNotes: f.withNotes,
		Max:       f.maxDiagnostics,
	}
	for i := range results {
		bag := results[i].Bag
		if bag == nil || bag.Len() == 0 {
			continue
		}
		diagfmt.Pretty(w, bag, fs, opts)
	}
}

func collectDiagnostics(results []driver.ExpandResult) []diag.Diagnostic {
	var all []diag.Diagnostic
	for i := range results {
		if results[i].Bag != nil {
			all = append(all, results[i].Bag.Items()...)
		}
	}
	return all
}

func writeExpandText(w io.Writer, results []driver.ExpandResult, f expandFlags) error {
	if f.output != "" {
		if !results[0].OK() {
			return nil
		}
		return writeOutputFile(f.output, results[0].Output)
	}
	if f.outDir != "" {
		names, err := outputNames(results, f.ext)
		if err != nil {
			return err
		}
		for i := range results {
			if !results[i].OK() {
				continue
			}
			if err := writeOutputFile(filepath.Join(f.outDir, names[i]), results[i].Output); err != nil {
				return err
			}
		}
		return nil
	}

	multi := len(results) > 1
	for i := range results {
		res := &results[i]
		if !res.OK() {
			continue
		}
		if multi && !f.quiet {
			if _, err := fmt.Fprintf(w, "// %s\n", res.Path); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, withTrailingNewline(res.Output)); err != nil {
			return err
		}
	}
	return nil
}

// outputNames maps every template to <base>.out; two templates with the
// same base name are an error.
func outputNames(results []driver.ExpandResult, ext string) ([]string, error) {
	names := make([]string, len(results))
	owner := make(map[string]string, len(results))
	for i := range results {
		base := strings.TrimSuffix(filepath.Base(results[i].Path), ext) + ".out"
		if prev, dup := owner[base]; dup {
			return nil, fmt.Errorf("%s and %s both map to %s", prev, results[i].Path, base)
		}
		owner[base] = results[i].Path
		names[i] = base
	}
	return names, nil
}

func writeOutputFile(path, content string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %q: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(withTrailingNewline(content)), 0o644); err != nil { // #nosec G306 -- generated source is meant to be shared
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	return nil
}

func withTrailingNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

type expandResultJSON struct {
	Path        string           `json:"path"`
	OK          bool             `json:"ok"`
	Mode        string           `json:"mode,omitempty"`
	Sections    int              `json:"sections"`
	Iterations  int              `json:"iterations"`
	Cached      bool             `json:"cached"`
	Output      string           `json:"output,omitempty"`
	Diagnostics []diagfmt.Record `json:"diagnostics,omitempty"`
}

type expandOutputJSON struct {
	Results []expandResultJSON `json:"results"`
	Count   int                `json:"count"`
	Failed  int                `json:"failed"`
}

func buildExpandJSON(results []driver.ExpandResult, fs *source.FileSet, f expandFlags) expandOutputJSON {
	doc := expandOutputJSON{Results: make([]expandResultJSON, 0, len(results)), Count: len(results)}
	for i := range results {
		res := &results[i]
		entry := expandResultJSON{
			Path:       res.Path,
			OK:         res.OK(),
			Sections:   res.Sections,
			Iterations: res.Iterations,
			Cached:     res.Cached,
			Output:     res.Output,
		}
		if entry.OK {
			entry.Mode = res.Mode.String()
		} else {
			doc.Failed++
		}
		if res.Bag != nil && res.Bag.Len() > 0 {
			out := diagfmt.BuildReport(res.Bag, fs, diagfmt.JSONOpts{
				IncludePositions: true,
				PathMode:         f.pathMode,
				IncludeNotes:     f.withNotes,
				Max:              f.maxDiagnostics,
			})
			entry.Diagnostics = out.Diagnostics
		}
		doc.Results = append(doc.Results, entry)
	}
	return doc
}

func writeExpandJSON(w io.Writer, results []driver.ExpandResult, fs *source.FileSet, f expandFlags) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(buildExpandJSON(results, fs, f))
}
