package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pqedit/clip"
	"pqedit/config"
	"pqedit/datatable"
	"pqedit/fileio"
)

func writeSample(t *testing.T) string {
	t.Helper()
	tbl, err := datatable.NewTable([]datatable.Column{
		{Name: "id", Type: datatable.TypeInt, Values: []datatable.Value{datatable.Int(1), datatable.Int(2), datatable.Int(3)}},
		{Name: "city", Type: datatable.TypeString, Values: []datatable.Value{datatable.Text("Oslo"), datatable.Text("Lund"), datatable.Null()}},
	})
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "cities.parquet")
	require.NoError(t, fileio.WriteParquet(context.Background(), path, tbl, fileio.DefaultOptions()))
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestVersionCommand(t *testing.T) {
	tests := []struct {
		name    string
		version string
		wantOut []string
	}{
		{name: "default version", version: "0.1.0", wantOut: []string{"pqedit v0.1.0", "commit"}},
		{name: "dev version", version: "dev", wantOut: []string{"pqedit vdev"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewVersionCommand(tt.version)
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)

			require.NoError(t, cmd.Execute())
			for _, want := range tt.wantOut {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestRootLaunchesWindow(t *testing.T) {
	var gotPath string
	var gotCfg *config.Config
	orig := runWindow
	runWindow = func(_ context.Context, cfg *config.Config, path string) error {
		gotPath, gotCfg = path, cfg
		return nil
	}
	t.Cleanup(func() { runWindow = orig })

	_, _, err := run(t, "--window-width", "640", "data.parquet")
	require.NoError(t, err)
	assert.Equal(t, "data.parquet", gotPath)
	require.NotNil(t, gotCfg)
	assert.Equal(t, 640.0, gotCfg.Window.Width)

	_, _, err = run(t, "a.parquet", "b.parquet")
	assert.Error(t, err)
}

func TestInfoCommand(t *testing.T) {
	path := writeSample(t)

	out, _, err := run(t, "info", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Rows:       3")
	assert.Contains(t, out, "Columns:    2")
	assert.Contains(t, out, "Repaired:   false")
	assert.Contains(t, out, "city")
	assert.Contains(t, out, "Int")
}

func TestShowCommand(t *testing.T) {
	path := writeSample(t)

	out, _, err := run(t, "show", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Oslo")
	assert.Contains(t, out, "Lund")

	out, _, err = run(t, "show", "--limit", "1", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Oslo")
	assert.NotContains(t, out, "Lund")
	assert.Contains(t, out, "(1 of 3 rows)")
}

func TestSetCommand(t *testing.T) {
	path := writeSample(t)
	dest := filepath.Join(t.TempDir(), "edited.parquet")

	_, _, err := run(t, "set", path, "2", "city", "Bergen", "--out", dest)
	require.NoError(t, err)

	out, _, err := run(t, "export", dest, "--format", "csv")
	require.NoError(t, err)
	assert.Equal(t, "id,city\n1,Oslo\n2,Lund\n3,Bergen\n", out)

	// source is untouched when --out is given
	out, _, err = run(t, "export", path)
	require.NoError(t, err)
	assert.Equal(t, "id,city\n1,Oslo\n2,Lund\n3,\n", out)
}

func TestSetCommandInPlace(t *testing.T) {
	path := writeSample(t)

	_, _, err := run(t, "set", path, "0", "0", "10")
	require.NoError(t, err)

	out, _, err := run(t, "export", path, "-f", "json")
	require.NoError(t, err)
	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	assert.Equal(t, float64(10), rows[0]["id"])
}

func TestSetCommandSameValueStillSaves(t *testing.T) {
	path := writeSample(t)
	dest := filepath.Join(t.TempDir(), "same.parquet")

	out, _, err := run(t, "set", path, "0", "city", "Oslo", "--out", dest)
	require.NoError(t, err)
	assert.Equal(t, "saved "+dest+"\n", out)

	out, _, err = run(t, "export", dest)
	require.NoError(t, err)
	assert.Equal(t, "id,city\n1,Oslo\n2,Lund\n3,\n", out)
}

func TestSetCommandRejectsBadAddress(t *testing.T) {
	path := writeSample(t)

	_, _, err := run(t, "set", path, "9", "0", "x")
	assert.ErrorIs(t, err, datatable.ErrInvalidRow)
	_, _, err = run(t, "set", path, "0", "missing", "x")
	assert.ErrorIs(t, err, datatable.ErrColumnNotFound)
	_, _, err = run(t, "set", path, "0", "5", "x")
	assert.ErrorIs(t, err, datatable.ErrInvalidColumn)
}

func TestCopyCommand(t *testing.T) {
	path := writeSample(t)
	var copied []string
	orig := clipboard
	clipboard = clip.Func(func(text string) error {
		copied = append(copied, text)
		return nil
	})
	t.Cleanup(func() { clipboard = orig })

	_, _, err := run(t, "copy", path, "--col", "city")
	require.NoError(t, err)
	_, _, err = run(t, "copy", path, "--col", "0", "--row", "1")
	require.NoError(t, err)

	assert.Equal(t, []string{"Oslo\nLund\n", "2"}, copied)

	_, _, err = run(t, "copy", path)
	assert.Error(t, err)
}

func TestRepairCommand(t *testing.T) {
	path := writeSample(t)
	dest := filepath.Join(t.TempDir(), "clean.parquet")

	out, _, err := run(t, "repair", path, "--out", dest)
	require.NoError(t, err)
	assert.Contains(t, out, "was readable")
	assert.FileExists(t, dest)

	garbage := filepath.Join(t.TempDir(), "garbage.parquet")
	require.NoError(t, os.WriteFile(garbage, []byte(strings.Repeat("x", 256)), 0o644))
	_, _, err = run(t, "repair", garbage)
	assert.Error(t, err)
}

func TestExportCommandToFile(t *testing.T) {
	path := writeSample(t)
	dest := filepath.Join(t.TempDir(), "cities.json")

	_, stderr, err := run(t, "export", path, "--out", dest)
	require.NoError(t, err)
	assert.Contains(t, stderr, "exported 3 rows")

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))

	_, _, err = run(t, "export", path, "--format", "xlsx")
	assert.ErrorIs(t, err, fileio.ErrUnsupportedFormat)
}

func TestExportFormat(t *testing.T) {
	tests := []struct {
		format, out string
		want        fileio.Format
	}{
		{"", "", fileio.FormatCSV},
		{"json", "", fileio.FormatJSON},
		{"", "x.json", fileio.FormatJSON},
		{"", "x.txt", fileio.FormatCSV},
		{"csv", "x.json", fileio.FormatCSV},
	}
	for _, tt := range tests {
		got, err := exportFormat(tt.format, tt.out)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
