package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults for the probing knobs.
const (
	DefaultPort     = 80
	DefaultCount    = 4
	DefaultInterval = 1.0 // seconds
	DefaultTimeout  = 2.0 // seconds
	DefaultLogDir   = "logs"
)

// Config is the validated run configuration. Built once, read-only afterwards.
type Config struct {
	Target   string
	Port     int
	Count    int
	Interval time.Duration
	Timeout  time.Duration
	LogDir   string
	Quiet    bool
}

// fileConfig mirrors the optional YAML defaults file. Pointer fields so an
// absent key is distinguishable from an explicit zero.
type fileConfig struct {
	Port     *int     `yaml:"port"`
	Count    *int     `yaml:"count"`
	Interval *float64 `yaml:"interval"`
	Timeout  *float64 `yaml:"timeout"`
	LogDir   *string  `yaml:"log_dir"`
}

// Parse builds a Config from CLI arguments (without the program name).
// Precedence: explicit flag > config file value > built-in default.
// Usage and parse errors go to errOut.
func Parse(args []string, errOut io.Writer) (Config, error) {
	fs := flag.NewFlagSet("tcpping", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.Usage = func() {
		fmt.Fprintf(errOut, "Usage: tcpping [flags] <host>\n\n")
		fmt.Fprintf(errOut, "Measures TCP connect latency to every IP the host resolves to.\n\n")
		fs.PrintDefaults()
	}

	// Probing knobs take both the short and the long spelling.
	port := fs.Int("p", DefaultPort, "target port")
	fs.IntVar(port, "port", DefaultPort, "target port")
	count := fs.Int("c", DefaultCount, "probes to send per IP")
	fs.IntVar(count, "count", DefaultCount, "probes to send per IP")
	interval := fs.Float64("i", DefaultInterval, "seconds between probes per IP")
	fs.Float64Var(interval, "interval", DefaultInterval, "seconds between probes per IP")
	timeout := fs.Float64("t", DefaultTimeout, "per-probe connect timeout in seconds")
	fs.Float64Var(timeout, "timeout", DefaultTimeout, "per-probe connect timeout in seconds")

	file := fs.String("f", "", "YAML file with defaults for port/count/interval/timeout")
	logDir := fs.String("log-dir", DefaultLogDir, "directory for the structured run log")
	quiet := fs.Bool("q", false, "suppress live probe lines, print summary only")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *file != "" {
		set := map[string]bool{}
		fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
		flagged := func(names ...string) bool {
			for _, n := range names {
				if set[n] {
					return true
				}
			}
			return false
		}

		fc, err := loadFile(*file)
		if err != nil {
			return Config{}, err
		}
		if !flagged("p", "port") && fc.Port != nil {
			*port = *fc.Port
		}
		if !flagged("c", "count") && fc.Count != nil {
			*count = *fc.Count
		}
		if !flagged("i", "interval") && fc.Interval != nil {
			*interval = *fc.Interval
		}
		if !flagged("t", "timeout") && fc.Timeout != nil {
			*timeout = *fc.Timeout
		}
		if !flagged("log-dir") && fc.LogDir != nil {
			*logDir = *fc.LogDir
		}
	}

	cfg := Config{
		Target:   fs.Arg(0),
		Port:     *port,
		Count:    *count,
		Interval: time.Duration(*interval * float64(time.Second)),
		Timeout:  time.Duration(*timeout * float64(time.Second)),
		LogDir:   *logDir,
		Quiet:    *quiet,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Target == "" {
		return errors.New("target hostname or IP is required")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range 1-65535", c.Port)
	}
	if c.Count < 1 {
		return fmt.Errorf("count must be >= 1, got %d", c.Count)
	}
	if c.Interval < 0 {
		return errors.New("interval must be >= 0")
	}
	if c.Timeout <= 0 {
		return errors.New("timeout must be > 0")
	}
	return nil
}

func loadFile(path string) (fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fileConfig{}, fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fileConfig{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return fc, nil
}
