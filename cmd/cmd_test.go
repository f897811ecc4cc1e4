package cmd

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studydeck/internal/demoserver"
)

// isolate points every default path at a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("STUDYDECK_CONFIG", filepath.Join(dir, "config.yaml"))
	t.Setenv("STUDYDECK_DB", filepath.Join(dir, "journal.db"))
	t.Setenv("STUDYDECK_LOG_FILE", filepath.Join(dir, "studydeck.log"))
	t.Setenv("STUDYDECK_SERVER", "")
	return dir
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestExportDeleteAndStats(t *testing.T) {
	dir := isolate(t)
	srv := httptest.NewServer(demoserver.New(nil, demoserver.SampleSession()))
	defer srv.Close()

	target := filepath.Join(dir, "demo.md")
	_, err := execute(t, "", "export", "demo", "--server", srv.URL, "--output", target)
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# Session: Price elasticity (demo)\n"))

	out, err := execute(t, "", "delete", "demo", "--server", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted demo")

	_, err = execute(t, "", "delete", "demo", "--server", srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")

	out, err = execute(t, "", "stats", "--limit", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "OPERATION")
	assert.Contains(t, out, "export")
	assert.Contains(t, out, "delete")

	out, err = execute(t, "n\n", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Aborted.")

	out, err = execute(t, "", "reset", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 3 entries.")

	out, err = execute(t, "", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "No requests recorded yet.")
}

func TestStartRequiresName(t *testing.T) {
	isolate(t)
	_, err := execute(t, "", "start", "--name", "", "notes.md")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--name is required")
}

func TestStartPrintsSessionID(t *testing.T) {
	dir := isolate(t)
	srv := httptest.NewServer(demoserver.New(nil))
	defer srv.Close()

	notes := filepath.Join(dir, "notes.md")
	require.NoError(t, os.WriteFile(notes, []byte("# Supply\n- curves shift\n"), 0o644))

	out, err := execute(t, "", "start", "--server", srv.URL, "--name", "Micro", "--minutes", "30", notes)
	require.NoError(t, err)
	assert.Len(t, strings.TrimSpace(out), 12)
}

func TestInvalidServerURL(t *testing.T) {
	isolate(t)
	_, err := execute(t, "", "delete", "demo", "--server", "not a url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "studydeck (devel)\n", out)
}
