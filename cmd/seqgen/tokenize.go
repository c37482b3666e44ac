package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"seqgen/internal/diag"
	"seqgen/internal/diagfmt"
	"seqgen/internal/driver"
	"seqgen/internal/source"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.seq",
	Short: "Tokenize a template file",
	Long:  `Tokenize prints the tokens of a template together with their leading trivia`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

var treeCmd = &cobra.Command{
	Use:   "tree [flags] file.seq",
	Short: "Print the token tree of a template",
	Long:  `Tree groups the tokens of a template by their delimiters and prints the result`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTree,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	treeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, maxDiagnostics, err := dumpFlags(cmd)
	if err != nil {
		return err
	}

	result, err := driver.Tokenize(args[0], maxDiagnostics)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}
	printDumpDiagnostics(cmd, result.Bag, result.FileSet)

	switch format {
	case "pretty":
		return diagfmt.FormatTokensPretty(cmd.OutOrStdout(), result.Tokens, result.FileSet)
	case "json":
		return diagfmt.FormatTokensJSON(cmd.OutOrStdout(), result.Tokens, result.FileSet)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func runTree(cmd *cobra.Command, args []string) error {
	format, maxDiagnostics, err := dumpFlags(cmd)
	if err != nil {
		return err
	}

	result, err := driver.BuildTree(args[0], maxDiagnostics)
	if err != nil {
		return fmt.Errorf("tree building failed: %w", err)
	}
	printDumpDiagnostics(cmd, result.Bag, result.FileSet)

	switch format {
	case "pretty":
		return diagfmt.FormatTreePretty(cmd.OutOrStdout(), result.Tree, result.FileSet)
	case "json":
		return diagfmt.FormatTreeJSON(cmd.OutOrStdout(), result.Tree)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func dumpFlags(cmd *cobra.Command) (format string, maxDiagnostics int, err error) {
	format, err = cmd.Flags().GetString("format")
	if err != nil {
		return "", 0, fmt.Errorf("failed to get format flag: %w", err)
	}
	maxDiagnostics, err = cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return "", 0, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	return format, maxDiagnostics, nil
}

// printDumpDiagnostics выводит диагностику в stderr, если есть; сам дамп
// печатается в любом случае.
func printDumpDiagnostics(cmd *cobra.Command, bag *diag.Bag, fs *source.FileSet) {
	if bag.Len() == 0 {
		return
	}
	colorFlag, _ := cmd.Root().PersistentFlags().GetString("color")
	useColor, err := readColorMode(colorFlag, os.Stderr)
	if err != nil {
		useColor = false
	}
	diagfmt.Pretty(os.Stderr, bag, fs, diagfmt.PrettyOpts{
		Color:     useColor,
		Context:   2,
		ShowNotes: true,
	})
}
