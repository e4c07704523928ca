package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tabledist/cell"
)

func newTestCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	AddCommonFlags(cmd, cell.Signed)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestLoadCommon_Defaults(t *testing.T) {
	cmd := newTestCommand(t)
	v, err := NewViper(cmd, "CLITEST")
	require.NoError(t, err)

	c, err := LoadCommon(v)
	require.NoError(t, err)
	assert.Equal(t, cell.Signed, c.Mode)
	assert.Equal(t, "\t", c.Table.Separator)
	assert.Equal(t, "-", c.Input)
	assert.Equal(t, "-", c.Output)
	assert.Equal(t, slog.LevelWarn, c.LogLevel)
	assert.Equal(t, "text", c.LogFormat)
	assert.Zero(t, c.MaxMemory)
	assert.True(t, c.Storage.MinIOSecure)
}

func TestLoadCommon_FlagsAndEnv(t *testing.T) {
	t.Setenv("CLITEST_MINIO_ENDPOINT", "localhost:9000")
	t.Setenv("CLITEST_SKIP_COLS", "3")

	cmd := newTestCommand(t, "-r", "2", "-c", "1", "--max-memory", "1KiB", "--io-limit", "2MB", "--mode", "float", "--log-level", "DEBUG")
	v, err := NewViper(cmd, "CLITEST")
	require.NoError(t, err)

	c, err := LoadCommon(v)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Table.SkipRows)
	assert.Equal(t, 1, c.Table.SkipCols, "flags win over the environment")
	assert.Equal(t, int64(1024), c.MaxMemory)
	assert.Equal(t, int64(2_000_000), c.IOLimit)
	assert.Equal(t, cell.Float, c.Mode)
	assert.Equal(t, slog.LevelDebug, c.LogLevel)
	assert.Equal(t, "localhost:9000", c.Storage.MinIOEndpoint)
}

func TestLoadCommon_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"negative skip", []string{"-r", "-1"}},
		{"empty separator", []string{"-s", ""}},
		{"log format", []string{"--log-format", "xml"}},
		{"io limit", []string{"--io-limit", "fast"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newTestCommand(t, tt.args...)
			v, err := NewViper(cmd, "CLITEST")
			require.NoError(t, err)
			_, err = LoadCommon(v)
			assert.ErrorIs(t, err, ErrInvalidFlag)
		})
	}
}

func TestEnv_Stream(t *testing.T) {
	dir := t.TempDir()
	cmd := newTestCommand(t)
	cmd.SetIn(strings.NewReader("hello"))
	var stderr bytes.Buffer
	cmd.SetErr(&stderr)

	env := NewEnv(cmd, Common{LogFormat: "json", LogLevel: slog.LevelDebug})

	out := filepath.Join(dir, "out.txt")
	err := env.Stream(context.Background(), "-", out, func(r io.Reader, w io.Writer) error {
		_, err := io.Copy(w, r)
		return err
	})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	assert.Contains(t, stderr.String(), `"msg":"run metrics"`)

	// A failing run leaves no output behind.
	failed := filepath.Join(dir, "failed.txt")
	boom := errors.New("boom")
	err = env.Stream(context.Background(), "-", failed, func(_ io.Reader, w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return boom
	})
	require.ErrorIs(t, err, boom)
	_, err = os.Stat(failed)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExecute(t *testing.T) {
	ran := false
	cmd := &cobra.Command{
		Use: "tool",
		RunE: func(*cobra.Command, []string) error {
			ran = true
			return errors.New("broken")
		},
	}
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	assert.Equal(t, 0, Execute(cmd, nil))
	assert.False(t, ran)
	assert.Contains(t, out.String(), "Usage:")

	out.Reset()
	assert.Equal(t, 1, Execute(cmd, []string{"x"}))
	assert.True(t, ran)
	assert.Equal(t, "tool: broken\n", out.String())
}

func TestExecute_UsageOnStdout(t *testing.T) {
	cmd := &cobra.Command{Use: "tool", RunE: func(*cobra.Command, []string) error { return nil }}
	var errOut bytes.Buffer
	cmd.SetErr(&errOut)

	r, w, err := os.Pipe()
	require.NoError(t, err)
	stdout := os.Stdout
	os.Stdout = w
	code := Execute(cmd, nil)
	os.Stdout = stdout
	require.NoError(t, w.Close())

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())

	assert.Equal(t, 0, code)
	assert.Contains(t, string(got), "Usage:")
	assert.Empty(t, errOut.String())
}
