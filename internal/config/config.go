package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dshills/gitrange/internal/gitctx"
)

// PluginName is the key of the plugin entry in mkdocs.yml.
const PluginName = "git-range"

// DefaultFile is the config file looked up when none is given.
const DefaultFile = "mkdocs.yml"

// Formats lists the accepted report formats.
var Formats = []string{"text", "json", "markdown"}

// Config is the effective configuration of one build.
type Config struct {
	// Path is the absolute path of the loaded config file.
	Path     string       `yaml:"-"`
	SiteName string       `yaml:"site_name,omitempty"`
	DocsDir  string       `yaml:"docs_dir"`
	SiteDir  string       `yaml:"site_dir"`
	Format   string       `yaml:"-"`
	Plugin   PluginConfig `yaml:"plugin"`
	// Listed reports whether the config file declares the plugin.
	Listed bool `yaml:"-"`
}

// PluginConfig holds the options of the git-range plugin entry.
type PluginConfig struct {
	From        string   `yaml:"from,omitempty"`
	To          string   `yaml:"to,omitempty"`
	Filter      bool     `yaml:"filter"`
	Include     []string `yaml:"include,omitempty"`
	// ChangeTypes entries are status names ("modified") or git diff-filter
	// letters. Letters follow git: upper case selects, lower case excludes,
	// so [d] and [dux] both start from every status.
	ChangeTypes []string `yaml:"change_types,omitempty"`
	// Timeout is the git timeout in seconds.
	Timeout int `yaml:"timeout,omitempty"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		DocsDir: "docs",
		SiteDir: "site",
		Format:  "text",
		Plugin: PluginConfig{
			Timeout: int(gitctx.DefaultTimeout / time.Second),
		},
	}
}

// BaseDir is the directory relative paths in the config resolve against.
func (c Config) BaseDir() string {
	if c.Path == "" {
		return "."
	}
	return filepath.Dir(c.Path)
}

// DocsPath returns the docs directory as an absolute path.
func (c Config) DocsPath() string {
	return c.resolve(c.DocsDir)
}

// SitePath returns the site output directory as an absolute path.
func (c Config) SitePath() string {
	return c.resolve(c.SiteDir)
}

func (c Config) resolve(p string) string {
	if !filepath.IsAbs(p) {
		p = filepath.Join(c.BaseDir(), p)
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

// ChangeTypes returns the configured change-type policy, or the default
// policy when none is configured.
func (c Config) ChangeTypes() (gitctx.ChangeTypes, error) {
	if len(c.Plugin.ChangeTypes) == 0 {
		return gitctx.DefaultChangeTypes, nil
	}
	ct, err := gitctx.ParseChangeTypes(c.Plugin.ChangeTypes)
	if err != nil {
		return nil, err
	}
	if ct == nil {
		return gitctx.DefaultChangeTypes, nil
	}
	return ct, nil
}

// Timeout returns the git timeout as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.Plugin.Timeout) * time.Second
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DocsDir) == "" {
		return errors.New("docs_dir is required")
	}
	if strings.TrimSpace(c.SiteDir) == "" {
		return errors.New("site_dir is required")
	}
	if c.Plugin.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %d", c.Plugin.Timeout)
	}
	if _, err := c.ChangeTypes(); err != nil {
		return fmt.Errorf("change_types: %w", err)
	}
	for _, f := range Formats {
		if c.Format == f {
			return nil
		}
	}
	return fmt.Errorf("unknown format %q (want one of %s)", c.Format, strings.Join(Formats, ", "))
}

// FileConfig is what the config file contributes.
type FileConfig struct {
	SiteName string
	DocsDir  string
	SiteDir  string
	Plugin   PluginConfig
	Listed   bool
}

// LoadFile reads an mkdocs.yml. Only site_name, docs_dir, site_dir and the
// git-range plugin entry are decoded; other keys, including ones carrying
// custom tags, are ignored. A missing file yields a zero result and no error.
func LoadFile(path string) (FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("reading config file: %w", err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return FileConfig{}, fmt.Errorf("parsing config file: %w", err)
	}
	root := documentRoot(&doc)
	if root == nil {
		return FileConfig{}, nil
	}
	if root.Kind != yaml.MappingNode {
		return FileConfig{}, fmt.Errorf("parsing config file: top level must be a mapping")
	}

	var fc FileConfig
	fc.SiteName = scalarValue(root, "site_name")
	fc.DocsDir = scalarValue(root, "docs_dir")
	fc.SiteDir = scalarValue(root, "site_dir")

	entry, listed := findPlugin(mappingValue(root, "plugins"))
	fc.Listed = listed
	if entry != nil && entry.Kind == yaml.MappingNode {
		if err := entry.Decode(&fc.Plugin); err != nil {
			return FileConfig{}, fmt.Errorf("parsing %s options: %w", PluginName, err)
		}
	}
	return fc, nil
}

// Load builds the effective config by merging:
// defaults <- config file <- environment <- overrides.
// A .env file next to the config file is loaded into the environment first
// without replacing variables that are already set.
func Load(path string, overrides map[string]string) (Config, error) {
	if path == "" {
		path = DefaultFile
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return Config{}, fmt.Errorf("resolving config path: %w", err)
	}

	cfg := Default()
	cfg.Path = abs

	if err := loadDotEnv(filepath.Join(filepath.Dir(abs), ".env")); err != nil {
		return Config{}, err
	}

	fileCfg, err := LoadFile(abs)
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, fileCfg)
	if err := mergeEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := mergeOverrides(&cfg, overrides); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadSaved builds defaults <- config file only. Use it before Save so that
// environment values are not written back to the file.
func LoadSaved(path string) (Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Config{}, fmt.Errorf("resolving config path: %w", err)
	}
	cfg := Default()
	cfg.Path = abs
	fileCfg, err := LoadFile(abs)
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, fileCfg)
	return cfg, nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func mergeFile(dst *Config, src FileConfig) {
	if src.SiteName != "" {
		dst.SiteName = src.SiteName
	}
	if src.DocsDir != "" {
		dst.DocsDir = src.DocsDir
	}
	if src.SiteDir != "" {
		dst.SiteDir = src.SiteDir
	}
	dst.Listed = src.Listed
	if src.Plugin.From != "" {
		dst.Plugin.From = src.Plugin.From
	}
	if src.Plugin.To != "" {
		dst.Plugin.To = src.Plugin.To
	}
	// The default for filter is false, so the file value always wins.
	dst.Plugin.Filter = src.Plugin.Filter
	if len(src.Plugin.Include) > 0 {
		dst.Plugin.Include = src.Plugin.Include
	}
	if len(src.Plugin.ChangeTypes) > 0 {
		dst.Plugin.ChangeTypes = src.Plugin.ChangeTypes
	}
	if src.Plugin.Timeout > 0 {
		dst.Plugin.Timeout = src.Plugin.Timeout
	}
}

func mergeEnv(cfg *Config) error {
	if v := os.Getenv("GITRANGE_FROM"); v != "" {
		cfg.Plugin.From = v
	}
	if v := os.Getenv("GITRANGE_TO"); v != "" {
		cfg.Plugin.To = v
	}
	if v := os.Getenv("GITRANGE_FILTER"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("GITRANGE_FILTER must be a boolean: %w", err)
		}
		cfg.Plugin.Filter = b
	}
	if v := os.Getenv("GITRANGE_INCLUDE"); v != "" {
		cfg.Plugin.Include = splitList(v)
	}
	if v := os.Getenv("GITRANGE_CHANGE_TYPES"); v != "" {
		cfg.Plugin.ChangeTypes = splitList(v)
	}
	if v := os.Getenv("GITRANGE_TIMEOUT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("GITRANGE_TIMEOUT must be an integer: %w", err)
		}
		cfg.Plugin.Timeout = n
	}
	if v := os.Getenv("GITRANGE_FORMAT"); v != "" {
		cfg.Format = v
	}
	return nil
}

func mergeOverrides(cfg *Config, overrides map[string]string) error {
	if overrides == nil {
		return nil
	}
	if v, ok := overrides["docsDir"]; ok && v != "" {
		cfg.DocsDir = v
	}
	if v, ok := overrides["siteDir"]; ok && v != "" {
		cfg.SiteDir = v
	}
	if v, ok := overrides["format"]; ok && v != "" {
		cfg.Format = v
	}
	for _, key := range []string{"from", "to", "filter", "include", "change_types", "timeout"} {
		if v, ok := overrides[key]; ok && v != "" {
			if err := SetField(cfg, key, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// SetField sets a single plugin option by key name. Returns error if key is
// unknown or the value does not parse.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "from":
		cfg.Plugin.From = value
	case "to":
		cfg.Plugin.To = value
	case "filter":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("filter must be a boolean: %w", err)
		}
		cfg.Plugin.Filter = b
	case "include":
		cfg.Plugin.Include = splitList(value)
	case "change_types":
		items := splitList(value)
		if _, err := gitctx.ParseChangeTypes(items); err != nil {
			return fmt.Errorf("change_types: %w", err)
		}
		cfg.Plugin.ChangeTypes = items
	case "timeout":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("timeout must be an integer: %w", err)
		}
		if n <= 0 {
			return fmt.Errorf("timeout must be positive, got %d", n)
		}
		cfg.Plugin.Timeout = n
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

// Save writes cfg's plugin options into the config file at cfg.Path,
// replacing the existing git-range entry or appending one. The rest of the
// file is kept.
func Save(cfg Config) error {
	if cfg.Path == "" {
		return errors.New("config path is empty")
	}
	data, err := os.ReadFile(cfg.Path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	root := documentRoot(&doc)
	if root == nil {
		root = &yaml.Node{Kind: yaml.MappingNode}
		doc = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}
	}
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("parsing config file: top level must be a mapping")
	}
	if err := setPlugin(root, cfg.Plugin); err != nil {
		return err
	}
	return writeYAML(cfg.Path, &doc)
}

// Init writes a starter mkdocs.yml with the plugin enabled. It refuses to
// overwrite an existing file.
func Init(path, siteName string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if siteName == "" {
		siteName = "My Docs"
	}
	def := Default()
	starter := struct {
		SiteName string `yaml:"site_name"`
		DocsDir  string `yaml:"docs_dir"`
		SiteDir  string `yaml:"site_dir"`
		Plugins  []map[string]PluginConfig
	}{
		SiteName: siteName,
		DocsDir:  def.DocsDir,
		SiteDir:  def.SiteDir,
		Plugins:  []map[string]PluginConfig{{PluginName: def.Plugin}},
	}
	var doc yaml.Node
	if err := doc.Encode(starter); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return writeYAML(path, &doc)
}

// Marshal renders the effective configuration as YAML.
func Marshal(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeYAML(path string, node *yaml.Node) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
