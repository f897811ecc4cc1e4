package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetFor(t *testing.T) {
	tests := []struct {
		goos, goarch string
		want         string
		binary       string
	}{
		{"darwin", "amd64", "studydeck_Darwin_all.tar.gz", "studydeck"},
		{"darwin", "arm64", "studydeck_Darwin_all.tar.gz", "studydeck"},
		{"linux", "amd64", "studydeck_Linux_x86_64.tar.gz", "studydeck"},
		{"linux", "arm64", "studydeck_Linux_arm64.tar.gz", "studydeck"},
		{"linux", "386", "studydeck_Linux_i386.tar.gz", "studydeck"},
		{"windows", "amd64", "studydeck_Windows_x86_64.zip", "studydeck.exe"},
	}
	for _, tt := range tests {
		t.Run(tt.goos+"/"+tt.goarch, func(t *testing.T) {
			a, err := AssetFor("studydeck", tt.goos, tt.goarch)
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.Name)
			assert.Equal(t, tt.binary, a.Binary)
		})
	}

	_, err := AssetFor("studydeck", "freebsd", "amd64")
	assert.ErrorContains(t, err, "operating system")
	_, err = AssetFor("studydeck", "linux", "mips")
	assert.ErrorContains(t, err, "architecture")
}

func TestParseChecksums(t *testing.T) {
	got := parseChecksums([]byte("ABC123  a.tar.gz\nbadline\n\nfoo bar baz\ndef456 *b.zip\n"))
	assert.Equal(t, map[string]string{"a.tar.gz": "abc123", "b.zip": "def456"}, got)
	assert.Empty(t, parseChecksums(nil))
}

func TestVerifyChecksum(t *testing.T) {
	data := []byte("hello world")
	assert.NoError(t, verifyChecksum(data, hexSum(data)))
	assert.ErrorIs(t, verifyChecksum(data, hexSum([]byte("other"))), ErrChecksum)
}

func TestAssetExtract(t *testing.T) {
	bin := []byte("#!/bin/sh\necho studydeck")

	tgz, _ := AssetFor("studydeck", "linux", "amd64")
	got, err := tgz.extract(buildTarGz(t, "dist/studydeck", bin))
	require.NoError(t, err)
	assert.Equal(t, bin, got)

	zipped, _ := AssetFor("studydeck", "windows", "amd64")
	got, err = zipped.extract(buildZip(t, "studydeck.exe", bin))
	require.NoError(t, err)
	assert.Equal(t, bin, got)

	_, err = tgz.extract(buildTarGz(t, "README.md", bin))
	assert.ErrorContains(t, err, "not found")
	_, err = tgz.extract([]byte("not gzip"))
	assert.ErrorContains(t, err, "open gzip")
}

func TestReplaceExecutable(t *testing.T) {
	target := filepath.Join(t.TempDir(), "studydeck")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0o755))

	require.NoError(t, replaceExecutable(target, []byte("new-binary")))

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, []byte("new-binary"), got)
	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(target))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should not be left behind")
}

// releaseFixture serves one linux/amd64 release of studydeck at tag.
type releaseFixture struct {
	tag       string
	archive   []byte
	checksums string
}

func (rs releaseFixture) start(t *testing.T) *httptest.Server {
	t.Helper()
	const dl = "/abhisek/studydeck/releases/download/"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/abhisek/studydeck/releases/latest":
			_, _ = w.Write([]byte(`{"tag_name":"` + rs.tag + `","html_url":"https://example.com/` + rs.tag + `"}`))
		case dl + rs.tag + "/studydeck_Linux_x86_64.tar.gz":
			if rs.archive == nil {
				http.NotFound(w, r)
				return
			}
			_, _ = w.Write(rs.archive)
		case dl + rs.tag + "/checksums.txt":
			_, _ = w.Write([]byte(rs.checksums))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestChecker(srv *httptest.Server, execPath string, progress ProgressFunc) *Checker {
	return NewChecker(
		WithBaseURL(srv.URL),
		WithDownloadBaseURL(srv.URL),
		WithPlatform("linux", "amd64"),
		WithProgress(progress),
		withExecPath(func() (string, error) { return execPath, nil }),
	)
}

func TestUpdate(t *testing.T) {
	bin := []byte("new-studydeck-binary")
	archive := buildTarGz(t, "studydeck", bin)
	good := releaseFixture{
		tag:       "v2.0.0",
		archive:   archive,
		checksums: hexSum(archive) + "  studydeck_Linux_x86_64.tar.gz\n",
	}

	t.Run("latest release", func(t *testing.T) {
		execPath := filepath.Join(t.TempDir(), "studydeck")
		require.NoError(t, os.WriteFile(execPath, []byte("old"), 0o755))

		var stages []Stage
		c := newTestChecker(good.start(t), execPath, func(s Stage, _ string) { stages = append(stages, s) })
		tag, err := c.Update(context.Background(), "v1.0.0", "")
		require.NoError(t, err)
		assert.Equal(t, "v2.0.0", tag)

		got, err := os.ReadFile(execPath)
		require.NoError(t, err)
		assert.Equal(t, bin, got)
		assert.Equal(t, []Stage{StageCheck, StageDownload, StageVerify, StageExtract, StageApply, StageDone}, stages)
	})

	t.Run("explicit target skips the check", func(t *testing.T) {
		execPath := filepath.Join(t.TempDir(), "studydeck")
		require.NoError(t, os.WriteFile(execPath, []byte("old"), 0o755))

		var stages []Stage
		c := newTestChecker(good.start(t), execPath, func(s Stage, _ string) { stages = append(stages, s) })
		_, err := c.Update(context.Background(), "v3.0.0", "v2.0.0")
		require.NoError(t, err)
		assert.Equal(t, StageDownload, stages[0])
	})

	t.Run("dev build", func(t *testing.T) {
		_, err := NewChecker().Update(context.Background(), "(devel)", "")
		assert.ErrorIs(t, err, ErrDevBuild)
	})

	t.Run("already latest", func(t *testing.T) {
		srv := releaseFixture{tag: "v1.0.0"}.start(t)
		_, err := newTestChecker(srv, "", nil).Update(context.Background(), "v1.0.0", "")
		assert.ErrorIs(t, err, ErrAlreadyLatest)
	})

	t.Run("checksum mismatch", func(t *testing.T) {
		bad := good
		bad.checksums = hexSum([]byte("tampered")) + "  studydeck_Linux_x86_64.tar.gz\n"
		_, err := newTestChecker(bad.start(t), "", nil).Update(context.Background(), "v1.0.0", "")
		assert.ErrorIs(t, err, ErrChecksum)
	})

	t.Run("checksum missing", func(t *testing.T) {
		bad := good
		bad.checksums = hexSum(archive) + "  other.tar.gz\n"
		_, err := newTestChecker(bad.start(t), "", nil).Update(context.Background(), "v1.0.0", "")
		assert.ErrorContains(t, err, "no checksum found")
	})

	t.Run("download failure", func(t *testing.T) {
		srv := releaseFixture{tag: "v2.0.0"}.start(t)
		_, err := newTestChecker(srv, "", nil).Update(context.Background(), "v1.0.0", "")
		assert.ErrorContains(t, err, "download archive")
	})
}

func hexSum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func buildTarGz(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: name, Size: int64(len(content)), Mode: 0o755, Typeflag: tar.TypeReg}))
	_, err := tw.Write(content)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
	return buf.Bytes()
}

func buildZip(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(name)
	require.NoError(t, err)
	_, err = w.Write(content)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}
