package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const projectConfigName = "seqgen.toml"

type projectConfig struct {
	Expand      expandConfig      `toml:"expand"`
	Diagnostics diagnosticsConfig `toml:"diagnostics"`
	Trace       traceConfig       `toml:"trace"`
}

type expandConfig struct {
	Format       string `toml:"format"`
	Jobs         int    `toml:"jobs"`
	Cache        bool   `toml:"cache"`
	KeepComments bool   `toml:"keep_comments"`
	Extension    string `toml:"extension"`
	OutDir       string `toml:"out_dir"`
	UI           string `toml:"ui"`
}

type diagnosticsConfig struct {
	Color  string `toml:"color"`
	Max    int    `toml:"max"`
	Format string `toml:"format"`
}

type traceConfig struct {
	Level  string `toml:"level"`
	Output string `toml:"output"`
	Mode   string `toml:"mode"`
}

// loadedConfig keeps the decoded file together with the keys it defines.
type loadedConfig struct {
	Path   string
	Config projectConfig
	meta   toml.MetaData
}

func findProjectConfig(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, projectConfigName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadProjectConfig(path string) (*loadedConfig, error) {
	var cfg projectConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("expand", "jobs") && cfg.Expand.Jobs < 0 {
		return nil, fmt.Errorf("%s: [expand].jobs must be >= 0", path)
	}
	if meta.IsDefined("expand", "extension") && !strings.HasPrefix(cfg.Expand.Extension, ".") {
		return nil, fmt.Errorf("%s: [expand].extension must start with '.'", path)
	}
	return &loadedConfig{Path: path, Config: cfg, meta: meta}, nil
}

// configBinding maps a TOML key to the flag it presets.
type configBinding struct {
	key   []string
	flag  string
	value func(c *projectConfig) string
}

var configBindings = []configBinding{
	{[]string{"expand", "format"}, "format", func(c *projectConfig) string { return c.Expand.Format }},
	{[]string{"expand", "jobs"}, "jobs", func(c *projectConfig) string { return strconv.Itoa(c.Expand.Jobs) }},
	{[]string{"expand", "cache"}, "no-cache", func(c *projectConfig) string { return strconv.FormatBool(!c.Expand.Cache) }},
	{[]string{"expand", "keep_comments"}, "keep-comments", func(c *projectConfig) string { return strconv.FormatBool(c.Expand.KeepComments) }},
	{[]string{"expand", "extension"}, "ext", func(c *projectConfig) string { return c.Expand.Extension }},
	{[]string{"expand", "out_dir"}, "out-dir", func(c *projectConfig) string { return c.Expand.OutDir }},
	{[]string{"expand", "ui"}, "ui", func(c *projectConfig) string { return c.Expand.UI }},
	{[]string{"diagnostics", "color"}, "color", func(c *projectConfig) string { return c.Diagnostics.Color }},
	{[]string{"diagnostics", "max"}, "max-diagnostics", func(c *projectConfig) string { return strconv.Itoa(c.Diagnostics.Max) }},
	{[]string{"diagnostics", "format"}, "diag-format", func(c *projectConfig) string { return c.Diagnostics.Format }},
	{[]string{"trace", "level"}, "trace-level", func(c *projectConfig) string { return c.Trace.Level }},
	{[]string{"trace", "output"}, "trace", func(c *projectConfig) string { return c.Trace.Output }},
	{[]string{"trace", "mode"}, "trace-mode", func(c *projectConfig) string { return c.Trace.Mode }},
}

// apply presets every flag the file defines unless the user set it on the
// command line. Flags the command does not have are skipped.
func (lc *loadedConfig) apply(flags *pflag.FlagSet) error {
	for _, b := range configBindings {
		if !lc.meta.IsDefined(b.key...) {
			continue
		}
		f := flags.Lookup(b.flag)
		if f == nil || f.Changed {
			continue
		}
		if err := f.Value.Set(b.value(&lc.Config)); err != nil {
			return fmt.Errorf("%s: [%s]: %w", lc.Path, strings.Join(b.key, "."), err)
		}
	}
	return nil
}

func applyProjectConfig(cmd *cobra.Command) error {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	if path == "" {
		found, ok, err := findProjectConfig(".")
		if err != nil || !ok {
			return err
		}
		path = found
	}
	lc, err := loadProjectConfig(path)
	if err != nil {
		return err
	}
	return lc.apply(cmd.Flags())
}
