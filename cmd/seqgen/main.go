package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"seqgen/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "seqgen",
	Short: "Sequence template expander",
	Long: `seqgen expands seq!-style templates: a loop variable, an integer range and
a body whose #( ... )* sections (or the whole body) are repeated once per value.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: prepareRun,
}

// errTemplatesFailed is returned when diagnostics were already printed and
// only the exit status is left to report.
var errTemplatesFailed = errors.New("some templates failed to expand")

// main регистрирует команды и глобальные флаги и запускает root. Любая
// ошибка даёт код выхода 1.
func main() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	// Добавляем команды
	rootCmd.AddCommand(expandCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().String("config", "", "path to seqgen.toml (default: search upwards from the working directory)")

	// Трассировка
	rootCmd.PersistentFlags().String("trace", "", "trace output path (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace storage (stream|ring|both)")
	rootCmd.PersistentFlags().String("trace-format", "auto", "trace format (auto|text|ndjson)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 4096, "ring buffer size for ring/both modes")
	rootCmd.PersistentFlags().Duration("trace-heartbeat", 0, "heartbeat interval (0 disables)")

	// Профилирование
	rootCmd.PersistentFlags().String("cpu-profile", "", "write CPU profile to file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write heap profile to file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write Go runtime trace to file")

	err := rootCmd.Execute()
	// PostRun не вызывается при ошибке RunE, поэтому закрываем трассу здесь.
	finishRun()
	if err == nil {
		return
	}
	if !errors.Is(err, errTemplatesFailed) {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	os.Exit(1)
}

// prepareRun применяет seqgen.toml к флагам и поднимает трассировку и
// профилировщики.
func prepareRun(cmd *cobra.Command, _ []string) error {
	if err := applyProjectConfig(cmd); err != nil {
		return err
	}
	if err := setupProfiling(cmd); err != nil {
		return err
	}
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	traceCleanup = cleanup
	return nil
}

func finishRun() {
	if traceCleanup != nil {
		traceCleanup()
		traceCleanup = nil
	}
	if err := profSession.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write profile: %v\n", err)
	}
	profSession = nil
}

var traceCleanup func()

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
