package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]string{"example.com"}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, "example.com", cfg.Target)
	assert.Equal(t, 80, cfg.Port)
	assert.Equal(t, 4, cfg.Count)
	assert.Equal(t, time.Second, cfg.Interval)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, "logs", cfg.LogDir)
	assert.False(t, cfg.Quiet)
}

func TestParse_Flags(t *testing.T) {
	cfg, err := Parse([]string{"-p", "443", "-c", "10", "-i", "0.5", "-t", "0.25", "-q", "10.0.0.1"}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.1", cfg.Target)
	assert.Equal(t, 443, cfg.Port)
	assert.Equal(t, 10, cfg.Count)
	assert.Equal(t, 500*time.Millisecond, cfg.Interval)
	assert.Equal(t, 250*time.Millisecond, cfg.Timeout)
	assert.True(t, cfg.Quiet)
}

func TestParse_LongFlags(t *testing.T) {
	cfg, err := Parse([]string{"--port", "443", "--count", "10", "--interval", "0.5", "--timeout", "0.25", "10.0.0.1"}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, 443, cfg.Port)
	assert.Equal(t, 10, cfg.Count)
	assert.Equal(t, 500*time.Millisecond, cfg.Interval)
	assert.Equal(t, 250*time.Millisecond, cfg.Timeout)
}

func TestParse_ShortAndLongShareOneValue(t *testing.T) {
	// Last one parsed wins, both names feed the same setting.
	cfg, err := Parse([]string{"-p", "80", "--port", "8080", "example.com"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
}

func TestParse_ZeroIntervalIsValid(t *testing.T) {
	cfg, err := Parse([]string{"-i", "0", "example.com"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), cfg.Interval)
}

func TestParse_Invalid(t *testing.T) {
	cases := []struct {
		name string
		args []string
	}{
		{"missing_target", []string{}},
		{"port_zero", []string{"-p", "0", "example.com"}},
		{"port_too_big", []string{"-p", "65536", "example.com"}},
		{"count_zero", []string{"-c", "0", "example.com"}},
		{"negative_interval", []string{"-i", "-1", "example.com"}},
		{"zero_timeout", []string{"-t", "0", "example.com"}},
		{"negative_timeout", []string{"-t", "-2", "example.com"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.args, io.Discard)
			assert.Error(t, err)
		})
	}
}

func TestParse_FileProvidesDefaultsFlagsWin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tcpping.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 8080\ncount: 7\ntimeout: 5\n"), 0o644))

	// --port on the command line beats the file; count/timeout come from the
	// file; interval stays the built-in default.
	cfg, err := Parse([]string{"-f", path, "--port", "9090", "example.com"}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 7, cfg.Count)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, time.Second, cfg.Interval)
}

func TestParse_FileValuesAreValidated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 700000\n"), 0o644))

	_, err := Parse([]string{"-f", path, "example.com"}, io.Discard)
	assert.Error(t, err)
}

func TestParse_MissingFileErrors(t *testing.T) {
	_, err := Parse([]string{"-f", "/nonexistent/tcpping.yaml", "example.com"}, io.Discard)
	assert.Error(t, err)
}
