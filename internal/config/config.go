// internal/config/config.go
// Package: config
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mwiater/spmvsweep/internal/harness"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// SPMVSWEEP_PROGRAM_TIMEOUT=30s.
const EnvPrefix = "SPMVSWEEP"

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the resolved configuration of one invocation.
type Config struct {
	Sizes         []int     `mapstructure:"sizes" yaml:"sizes" validate:"required,min=1,unique,dive,gt=0"`
	Sparsities    []float64 `mapstructure:"sparsities" yaml:"sparsities" validate:"required,min=1,unique,dive,gte=0,lt=1"`
	Iterations    int       `mapstructure:"iterations" yaml:"iterations" validate:"gt=0"`
	ProcessCounts []int     `mapstructure:"process_counts" yaml:"process_counts" validate:"required,min=1,unique,dive,gt=0"`
	Repeats       int       `mapstructure:"repeats" yaml:"repeats" validate:"gt=0"`

	Program ProgramConfig `mapstructure:"program" yaml:"program"`
	Build   BuildConfig   `mapstructure:"build" yaml:"build"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	UI      UIConfig      `mapstructure:"ui" yaml:"ui"`
}

// ProgramConfig describes how the measured program is launched.
type ProgramConfig struct {
	Artifact       string        `mapstructure:"artifact" yaml:"artifact" validate:"required"`
	Launcher       string        `mapstructure:"launcher" yaml:"launcher" validate:"required"`
	ProcessFlag    string        `mapstructure:"process_flag" yaml:"process_flag" validate:"required"`
	LauncherArgs   []string      `mapstructure:"launcher_args" yaml:"launcher_args"`
	WorkDir        string        `mapstructure:"work_dir" yaml:"work_dir"`
	Timeout        time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"gte=0s"`
	MaxOutputBytes int           `mapstructure:"max_output_bytes" yaml:"max_output_bytes" validate:"gt=0"`
}

// BuildConfig describes the build step run before a sweep.
type BuildConfig struct {
	Skip    bool     `mapstructure:"skip" yaml:"skip"`
	Dir     string   `mapstructure:"dir" yaml:"dir"`
	Clean   []string `mapstructure:"clean" yaml:"clean"`
	Command []string `mapstructure:"command" yaml:"command" validate:"required_unless=Skip true"`
}

// OutputConfig selects presenters and exporters. Empty paths disable them.
type OutputConfig struct {
	Table         bool         `mapstructure:"table" yaml:"table"`
	ChartsDir     string       `mapstructure:"charts_dir" yaml:"charts_dir"`
	ChartSparsity float64      `mapstructure:"chart_sparsity" yaml:"chart_sparsity" validate:"gte=0,lt=1"`
	JSONFile      string       `mapstructure:"json_file" yaml:"json_file"`
	YAMLFile      string       `mapstructure:"yaml_file" yaml:"yaml_file"`
	MetricsFile   string       `mapstructure:"metrics_file" yaml:"metrics_file"`
	Influx        InfluxConfig `mapstructure:"influx" yaml:"influx"`
}

// InfluxConfig enables the InfluxDB export when URL is set.
type InfluxConfig struct {
	URL    string `mapstructure:"url" yaml:"url" validate:"omitempty,url"`
	Token  string `mapstructure:"token" yaml:"token"`
	Org    string `mapstructure:"org" yaml:"org" validate:"required_with=URL"`
	Bucket string `mapstructure:"bucket" yaml:"bucket" validate:"required_with=URL"`
}

// LogConfig configures internal/logging.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn warning error"`
	Dir   string `mapstructure:"dir" yaml:"dir"`
	JSON  bool   `mapstructure:"json" yaml:"json"`
}

// UIConfig controls the interactive progress view.
type UIConfig struct {
	TUI bool `mapstructure:"tui" yaml:"tui"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Sizes:         []int{1024, 2048, 4096},
		Sparsities:    []float64{0.50, 0.95, 0.99},
		Iterations:    10,
		ProcessCounts: []int{1, 2, 4, 8},
		Repeats:       3,
		Program: ProgramConfig{
			Artifact:       "./mpi_spmv",
			Launcher:       "mpirun",
			ProcessFlag:    "-np",
			LauncherArgs:   []string{},
			Timeout:        10 * time.Minute,
			MaxOutputBytes: 1 << 20,
		},
		Build: BuildConfig{
			Dir:     ".",
			Clean:   []string{"make", "clean"},
			Command: []string{"make"},
		},
		Output: OutputConfig{
			Table:         true,
			ChartSparsity: 0.95,
		},
		Log: LogConfig{Level: "info"},
		UI:  UIConfig{TUI: true},
	}
}

// SetDefaults registers every key of Defaults on v, so env and flag
// overrides are seen by Unmarshal.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("sizes", d.Sizes)
	v.SetDefault("sparsities", d.Sparsities)
	v.SetDefault("iterations", d.Iterations)
	v.SetDefault("process_counts", d.ProcessCounts)
	v.SetDefault("repeats", d.Repeats)

	v.SetDefault("program.artifact", d.Program.Artifact)
	v.SetDefault("program.launcher", d.Program.Launcher)
	v.SetDefault("program.process_flag", d.Program.ProcessFlag)
	v.SetDefault("program.launcher_args", d.Program.LauncherArgs)
	v.SetDefault("program.work_dir", d.Program.WorkDir)
	v.SetDefault("program.timeout", d.Program.Timeout)
	v.SetDefault("program.max_output_bytes", d.Program.MaxOutputBytes)

	v.SetDefault("build.skip", d.Build.Skip)
	v.SetDefault("build.dir", d.Build.Dir)
	v.SetDefault("build.clean", d.Build.Clean)
	v.SetDefault("build.command", d.Build.Command)

	v.SetDefault("output.table", d.Output.Table)
	v.SetDefault("output.charts_dir", d.Output.ChartsDir)
	v.SetDefault("output.chart_sparsity", d.Output.ChartSparsity)
	v.SetDefault("output.json_file", d.Output.JSONFile)
	v.SetDefault("output.yaml_file", d.Output.YAMLFile)
	v.SetDefault("output.metrics_file", d.Output.MetricsFile)
	v.SetDefault("output.influx.url", d.Output.Influx.URL)
	v.SetDefault("output.influx.token", d.Output.Influx.Token)
	v.SetDefault("output.influx.org", d.Output.Influx.Org)
	v.SetDefault("output.influx.bucket", d.Output.Influx.Bucket)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.dir", d.Log.Dir)
	v.SetDefault("log.json", d.Log.JSON)

	v.SetDefault("ui.tui", d.UI.TUI)
}

// New returns a viper instance with defaults and environment overrides
// installed.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file named by the "config" key, decodes
// all layers and validates the result.
func Load(v *viper.Viper) (Config, error) {
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
}

// Validate checks every field rule and reports all violations at once.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

// describe turns a field error into "program.timeout must be >= 0s".
func describe(fe validator.FieldError) string {
	key := fe.Namespace()
	if _, rest, ok := strings.Cut(key, "."); ok {
		key = rest
	}
	switch fe.Tag() {
	case "required":
		return key + " is required"
	case "required_unless":
		return key + " is required unless build.skip is set"
	case "required_with":
		return key + " is required when output.influx.url is set"
	case "min":
		return fmt.Sprintf("%s needs at least %s item(s)", key, fe.Param())
	case "unique":
		return key + " must not contain duplicates"
	case "gt":
		return fmt.Sprintf("%s must be > %s (got %v)", key, fe.Param(), fe.Value())
	case "gte":
		return fmt.Sprintf("%s must be >= %s (got %v)", key, fe.Param(), fe.Value())
	case "lt":
		return fmt.Sprintf("%s must be < %s (got %v)", key, fe.Param(), fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s] (got %v)", key, fe.Param(), fe.Value())
	case "url":
		return fmt.Sprintf("%s is not a valid URL (got %v)", key, fe.Value())
	default:
		return fmt.Sprintf("%s failed %s", key, fe.Tag())
	}
}

// SweepConfig returns the grid part of the configuration.
func (c Config) SweepConfig() harness.SweepConfig {
	return harness.SweepConfig{
		Sizes:         c.Sizes,
		Sparsities:    c.Sparsities,
		ProcessCounts: c.ProcessCounts,
		Iterations:    c.Iterations,
		Repeats:       c.Repeats,
	}
}

// ArtifactPath resolves program.artifact against build.dir, where the build
// step leaves it, and returns an absolute path so the build check and the
// launcher agree regardless of program.work_dir.
func (c Config) ArtifactPath() string {
	path := c.Program.Artifact
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	path = filepath.Join(c.Build.Dir, path)
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// ProgramDir is the working directory of each run: program.work_dir, or
// build.dir when unset.
func (c Config) ProgramDir() string {
	if c.Program.WorkDir != "" {
		return c.Program.WorkDir
	}
	return c.Build.Dir
}
