package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pqedit/fileio"
)

// isolate points the default config location at an empty directory.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return dir
}

func writeYAML(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("log-level", "", "")
	fs.String("compression", "", "")
	fs.Int64("row-group-size", 0, "")
	fs.Float64("window-width", 0, "")
	return fs
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadPrecedence(t *testing.T) {
	dir := isolate(t)
	writeYAML(t, filepath.Join(dir, "pqedit", "config.yaml"), `
log_level: debug
compression: zstd
row_group_size: 100
window:
  width: 800
  height: 600
`)
	t.Setenv("PQEDIT_COMPRESSION", "gzip")
	t.Setenv("PQEDIT_WINDOW_HEIGHT", "500")

	flags := testFlags()
	require.NoError(t, flags.Parse([]string{"--row-group-size", "7", "--window-width", "640"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "pqedit", "config.yaml"), cfg.File)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "gzip", cfg.Compression)
	assert.Equal(t, int64(7), cfg.RowGroupSize)
	assert.Equal(t, 640.0, cfg.Window.Width)
	assert.Equal(t, 500.0, cfg.Window.Height)
}

func TestUnsetFlagsDoNotOverride(t *testing.T) {
	isolate(t)
	t.Setenv("PQEDIT_LOG_LEVEL", "warn")

	flags := testFlags()
	require.NoError(t, flags.Parse(nil))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, DefaultCompression, cfg.Compression)
}

func TestLoadExplicitFile(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "custom.yaml")
	writeYAML(t, path, "log_format: json\nwatch: false\n")
	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.False(t, cfg.Watch)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"log level", "PQEDIT_LOG_LEVEL", "loud"},
		{"log format", "PQEDIT_LOG_FORMAT", "xml"},
		{"compression", "PQEDIT_COMPRESSION", "rar"},
		{"row group size", "PQEDIT_ROW_GROUP_SIZE", "0"},
		{"parallelism", "PQEDIT_REPAIR_PARALLELISM", "-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.key, tt.val)
			_, err := Load("", nil)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestFileOptions(t *testing.T) {
	cfg := Default()
	cfg.Compression = "zstd"
	cfg.RepairParallelism = 3

	opts, err := cfg.FileOptions(nil)
	require.NoError(t, err)
	assert.Equal(t, compress.Codecs.Zstd, opts.Compression)
	assert.Equal(t, int64(fileio.DefaultRowGroupSize), opts.RowGroupSize)
	assert.Equal(t, 3, opts.Parallelism)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "warn", "json")
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "k", 1)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	_, err = NewLogger(&buf, "info", "xml")
	assert.Error(t, err)
	_, err = NewLogger(&buf, "chatty", "text")
	assert.Error(t, err)
}

func TestLoggerContext(t *testing.T) {
	ctx := context.Background()
	assert.NotNil(t, GetLogger(ctx))

	logger, err := NewLogger(&bytes.Buffer{}, "info", "text")
	require.NoError(t, err)
	assert.Same(t, logger, GetLogger(WithLogger(ctx, logger)))
}
