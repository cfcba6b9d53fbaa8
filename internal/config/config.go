package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/jacoelho/enumpath/internal/document"
	"github.com/jacoelho/enumpath/internal/exit"
	"github.com/jacoelho/enumpath/internal/formatter"
)

const (
	EngineEnumpath = "enumpath"
	EngineRFC9535  = "rfc9535"

	ResultValue = "value"
	ResultPath  = "path"

	// Stdin is the file name that reads the document from standard input.
	Stdin = "-"
)

var (
	ErrNoArguments   = errors.New("no arguments provided")
	ErrNoPath        = errors.New("no path expression specified")
	ErrTooManyArgs   = errors.New("too many arguments")
	ErrInvalidEngine = errors.New("engine must be enumpath or rfc9535")
	ErrInvalidResult = errors.New("result must be value or path")
	ErrEngineResult  = errors.New("rfc9535 engine only supports value results")
	ErrNegative      = errors.New("value cannot be negative")
)

// Config represents the complete configuration for the enumpath tool.
type Config struct {
	Path   string
	File   string
	Format document.Format

	Result string
	Output formatter.Kind
	Engine string

	Verbose   bool
	LogRate   float64 // Diagnostic entries per second (0 = unlimited)
	CacheSize int     // Normalization cache bound (0 = unbounded)
	MaxDepth  int     // Trace depth bound (0 = unlimited)

	ConfigFile string
}

// fileConfig is the shape of a -config YAML file. Absent keys keep the
// built-in defaults.
type fileConfig struct {
	Format    *string  `yaml:"format"`
	Result    *string  `yaml:"result"`
	Output    *string  `yaml:"output"`
	Engine    *string  `yaml:"engine"`
	Verbose   *bool    `yaml:"verbose"`
	LogRate   *float64 `yaml:"log-rate"`
	CacheSize *int     `yaml:"cache-size"`
	MaxDepth  *int     `yaml:"max-depth"`
}

func defaults() *Config {
	return &Config{
		File:   Stdin,
		Format: document.FormatAuto,
		Result: ResultValue,
		Output: formatter.KindJSON,
		Engine: EngineEnumpath,
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Path) == "" {
		return ErrNoPath
	}
	if c.Engine != EngineEnumpath && c.Engine != EngineRFC9535 {
		return fmt.Errorf("%w, got: %s", ErrInvalidEngine, c.Engine)
	}
	if c.Result != ResultValue && c.Result != ResultPath {
		return fmt.Errorf("%w, got: %s", ErrInvalidResult, c.Result)
	}
	if c.Engine == EngineRFC9535 && c.Result == ResultPath {
		return ErrEngineResult
	}
	if _, err := document.ParseFormat(string(c.Format)); err != nil {
		return err
	}
	if _, err := formatter.ParseKind(string(c.Output)); err != nil {
		return err
	}
	if c.LogRate < 0 {
		return fmt.Errorf("log-rate: %w", ErrNegative)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache-size: %w", ErrNegative)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max-depth: %w", ErrNegative)
	}
	if c.File != Stdin {
		if _, err := os.Stat(c.File); err != nil {
			return fmt.Errorf("input file %s not found: %w", c.File, err)
		}
	}
	return nil
}

// Open returns the input document reader.
func (c *Config) Open() (io.ReadCloser, error) {
	if c.File == Stdin {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(c.File)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", c.File, err)
	}
	return f, nil
}

// Parse parses command-line arguments and returns a validated Config.
// If parsing fails or help is requested, returns nil config and exit result.
func Parse(args []string) (*Config, *exit.Result) {
	if len(args) == 0 {
		return nil, exit.Usagef("Error: %v\n\n%s", ErrNoArguments, Usage())
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)

	// Suppress the default usage output since we handle it ourselves
	fs.Usage = func() {}
	// Suppress error output since we handle it ourselves
	fs.SetOutput(io.Discard)

	cfg := defaults()
	var format, output string

	fs.StringVar(&cfg.File, "file", cfg.File, "Input document file (- for stdin)")
	fs.StringVar(&format, "format", string(cfg.Format), "Input format: auto, json, yaml or bson")
	fs.StringVar(&cfg.Result, "result", cfg.Result, "Result type: value or path")
	fs.StringVar(&output, "output", string(cfg.Output), "Output format: json, yaml or lines")
	fs.StringVar(&cfg.Engine, "engine", cfg.Engine, "Evaluation engine: enumpath or rfc9535")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Write the evaluation trace to stderr")
	fs.Float64Var(&cfg.LogRate, "log-rate", cfg.LogRate, "Trace entries per second (0 for unlimited)")
	fs.IntVar(&cfg.CacheSize, "cache-size", cfg.CacheSize, "Normalization cache bound (0 for unbounded)")
	fs.IntVar(&cfg.MaxDepth, "max-depth", cfg.MaxDepth, "Trace depth bound (0 for unlimited)")
	fs.StringVar(&cfg.ConfigFile, "config", "", "YAML file with default option values")

	if err := fs.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			return nil, exit.Success(Usage())
		}
		return nil, exit.Usagef("Error: failed to parse arguments: %v\n\n%s", err, Usage())
	}

	// Config file values apply first; explicitly set flags take precedence.
	if cfg.ConfigFile != "" {
		loaded, err := loadConfigFile(cfg.ConfigFile)
		if err != nil {
			return nil, exit.Errorf("Error: failed to load config file: %v\n", err)
		}
		explicit := make(map[string]bool)
		fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
		loaded.apply(cfg, &format, &output, explicit)
	}
	cfg.Format = document.Format(format)
	cfg.Output = formatter.Kind(output)

	positional := fs.Args()
	switch len(positional) {
	case 0:
		return nil, exit.Usagef("Error: %v\n\n%s", ErrNoPath, Usage())
	case 1:
		cfg.Path = positional[0]
	case 2:
		cfg.Path = positional[0]
		cfg.File = positional[1]
	default:
		return nil, exit.Usagef("Error: %v: %s\n\n%s", ErrTooManyArgs, strings.Join(positional[2:], " "), Usage())
	}

	if err := cfg.Validate(); err != nil {
		return nil, exit.Usagef("Error: %v\n\n%s", err, Usage())
	}

	return cfg, nil
}

func loadConfigFile(filename string) (*fileConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var fc fileConfig
	if err := yaml.UnmarshalWithOptions(data, &fc, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", filename, err)
	}
	return &fc, nil
}

func (fc *fileConfig) apply(cfg *Config, format, output *string, explicit map[string]bool) {
	if fc.Format != nil && !explicit["format"] {
		*format = *fc.Format
	}
	if fc.Output != nil && !explicit["output"] {
		*output = *fc.Output
	}
	if fc.Result != nil && !explicit["result"] {
		cfg.Result = *fc.Result
	}
	if fc.Engine != nil && !explicit["engine"] {
		cfg.Engine = *fc.Engine
	}
	if fc.Verbose != nil && !explicit["verbose"] {
		cfg.Verbose = *fc.Verbose
	}
	if fc.LogRate != nil && !explicit["log-rate"] {
		cfg.LogRate = *fc.LogRate
	}
	if fc.CacheSize != nil && !explicit["cache-size"] {
		cfg.CacheSize = *fc.CacheSize
	}
	if fc.MaxDepth != nil && !explicit["max-depth"] {
		cfg.MaxDepth = *fc.MaxDepth
	}
}

// Usage returns a usage string for the CLI tool.
func Usage() string {
	return `enumpath - evaluate path expressions against JSON, YAML and BSON documents

Usage: enumpath [options] <path> [file]

Options:
  --file FILE             Input document (default: stdin)
  --format FORMAT         Input format: auto, json, yaml, bson (default: auto)
  --result TYPE           Result type: value, path (default: value)
  --output FORMAT         Output format: json, yaml, lines (default: json)
  --engine NAME           Evaluation engine: enumpath, rfc9535 (default: enumpath)
  --verbose               Write the evaluation trace to stderr
  --log-rate N            Trace entries per second (0 for unlimited)
  --cache-size N          Normalization cache bound (0 for unbounded)
  --max-depth N           Trace depth bound (0 for unlimited)
  --config FILE           YAML file with default option values
  -h, --help              Show this help message

Examples:
  enumpath '$.store.book[0].title' store.json
  enumpath -result path '$..book[?(@.price < 10)]' store.json
  enumpath -output lines '$..author' < store.yaml
  enumpath -engine rfc9535 '$..book[?@.price < 10]' store.json`
}
