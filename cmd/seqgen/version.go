package main

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"seqgen/internal/version"
)

const versionTagline = "one body, many copies"

// buildField is one optional line of `seqgen version`.
type buildField struct {
	flag  string // --hash, --message, --date
	label string
	key   string // JSON key
	value string
}

type versionOptions struct {
	format string
	color  bool
	show   map[string]bool
}

func (o versionOptions) any() bool {
	for _, on := range o.show {
		if on {
			return true
		}
	}
	return false
}

func init() {
	versionCmd.Flags().Bool("hash", false, "include git commit hash")
	versionCmd.Flags().Bool("message", false, "include git commit message")
	versionCmd.Flags().Bool("date", false, "include build timestamp")
	versionCmd.Flags().Bool("full", false, "show every recorded bit of build metadata")
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show seqgen build metadata",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func runVersion(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	format, _ := flags.GetString("format")
	opts := versionOptions{format: strings.ToLower(format), show: map[string]bool{}}
	if opts.format != "pretty" && opts.format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}

	full, _ := flags.GetBool("full")
	for _, name := range []string{"hash", "message", "date"} {
		on, _ := flags.GetBool(name)
		opts.show[name] = on || full
	}

	colorFlag, _ := cmd.Root().PersistentFlags().GetString("color")
	var err error
	if opts.color, err = readColorMode(colorFlag, os.Stdout); err != nil {
		return err
	}

	if opts.format == "json" {
		return renderVersionJSON(cmd.OutOrStdout(), opts)
	}
	renderVersionPretty(cmd.OutOrStdout(), opts)
	return nil
}

func currentVersion() string {
	return cmp.Or(strings.TrimSpace(version.Version), "dev")
}

func buildFields() []buildField {
	return []buildField{
		{flag: "hash", label: "commit", key: "git_commit", value: version.GitCommit},
		{flag: "message", label: "message", key: "git_message", value: version.GitMessage},
		{flag: "date", label: "built", key: "build_date", value: version.BuildDate},
	}
}

func renderVersionPretty(out io.Writer, opts versionOptions) {
	v := currentVersion()
	if opts.color {
		v = version.Colored(v)
	}
	fmt.Fprintf(out, "seqgen %s: %s\n", v, versionTagline)
	for _, f := range buildFields() {
		if opts.show[f.flag] {
			fmt.Fprintf(out, "%-8s %s\n", f.label+":", fieldValue(f))
		}
	}
	if !opts.any() {
		fmt.Fprintln(out, "set --hash, --message, --date, or --full for more build trivia")
	}
}

type versionPayload struct {
	Tool       string `json:"tool"`
	Version    string `json:"version"`
	Tagline    string `json:"tagline"`
	GitCommit  string `json:"git_commit,omitempty"`
	GitMessage string `json:"git_message,omitempty"`
	BuildDate  string `json:"build_date,omitempty"`
}

func renderVersionJSON(out io.Writer, opts versionOptions) error {
	payload := versionPayload{Tool: "seqgen", Version: currentVersion(), Tagline: versionTagline}
	slots := map[string]*string{
		"git_commit":  &payload.GitCommit,
		"git_message": &payload.GitMessage,
		"build_date":  &payload.BuildDate,
	}
	for _, f := range buildFields() {
		if opts.show[f.flag] {
			*slots[f.key] = fieldValue(f)
		}
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func fieldValue(f buildField) string {
	return cmp.Or(strings.TrimSpace(f.value), "unknown")
}
