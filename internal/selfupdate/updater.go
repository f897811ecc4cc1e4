package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrDevBuild      = errors.New("cannot update a development build")
	ErrAlreadyLatest = errors.New("already running the latest version")
	ErrChecksum      = errors.New("checksum verification failed")
)

// Stage names a step of an update.
type Stage string

const (
	StageCheck    Stage = "check"
	StageDownload Stage = "download"
	StageVerify   Stage = "verify"
	StageExtract  Stage = "extract"
	StageApply    Stage = "apply"
	StageDone     Stage = "done"
)

// ProgressFunc receives each stage as an update reaches it.
type ProgressFunc func(stage Stage, message string)

// releaseArch maps GOARCH to the architecture suffix used in release assets.
var releaseArch = map[string]string{
	"amd64": "x86_64",
	"arm64": "arm64",
	"386":   "i386",
}

// Asset is the release archive for one platform.
type Asset struct {
	Name   string
	Binary string // file name of the executable inside the archive
	zipped bool
}

// AssetFor names the release archive of binary for goos/goarch. macOS
// builds are universal, so their name carries no architecture.
func AssetFor(binary, goos, goarch string) (Asset, error) {
	if goos == "darwin" {
		return Asset{Name: binary + "_Darwin_all.tar.gz", Binary: binary}, nil
	}
	arch, ok := releaseArch[goarch]
	if !ok {
		return Asset{}, fmt.Errorf("unsupported architecture: %s", goarch)
	}
	switch goos {
	case "linux":
		return Asset{Name: fmt.Sprintf("%s_Linux_%s.tar.gz", binary, arch), Binary: binary}, nil
	case "windows":
		return Asset{Name: fmt.Sprintf("%s_Windows_%s.zip", binary, arch), Binary: binary + ".exe", zipped: true}, nil
	}
	return Asset{}, fmt.Errorf("unsupported operating system: %s", goos)
}

// Update installs a release over the running executable and returns the
// installed tag. An empty target means the latest release.
func (c *Checker) Update(ctx context.Context, current, target string) (string, error) {
	if current == "(devel)" {
		return "", ErrDevBuild
	}

	tag := target
	if tag == "" {
		c.report(StageCheck, "Checking for latest version...")
		res, err := c.Check(ctx, &CheckInput{Version: current})
		if err != nil {
			return "", fmt.Errorf("check for updates: %w", err)
		}
		if !res.UpdateAvailable {
			return "", ErrAlreadyLatest
		}
		tag = res.LatestVersion
	}

	asset, err := AssetFor(c.binary, c.goos, c.goarch)
	if err != nil {
		return "", err
	}

	c.report(StageDownload, fmt.Sprintf("Downloading %s...", tag))
	archive, err := c.fetch(ctx, c.releaseURL(tag, asset.Name))
	if err != nil {
		return "", fmt.Errorf("download archive: %w", err)
	}

	c.report(StageVerify, "Verifying checksum...")
	sums, err := c.fetch(ctx, c.releaseURL(tag, "checksums.txt"))
	if err != nil {
		return "", fmt.Errorf("download checksums: %w", err)
	}
	want, ok := parseChecksums(sums)[asset.Name]
	if !ok {
		return "", fmt.Errorf("no checksum found for %s in checksums.txt", asset.Name)
	}
	if err := verifyChecksum(archive, want); err != nil {
		return "", err
	}

	c.report(StageExtract, "Extracting binary...")
	bin, err := asset.extract(archive)
	if err != nil {
		return "", fmt.Errorf("extract binary: %w", err)
	}

	c.report(StageApply, "Applying update...")
	path, err := c.execPath()
	if err != nil {
		return "", fmt.Errorf("resolve executable path: %w", err)
	}
	if err := replaceExecutable(path, bin); err != nil {
		return "", fmt.Errorf("apply update: %w", err)
	}

	c.report(StageDone, fmt.Sprintf("Updated to %s", tag))
	return tag, nil
}

func (c *Checker) report(stage Stage, msg string) {
	if c.progress != nil {
		c.progress(stage, msg)
	}
}

func (c *Checker) releaseURL(tag, file string) string {
	return fmt.Sprintf("%s/%s/%s/releases/download/%s/%s", c.downloadBaseURL, c.owner, c.repo, tag, file)
}

func (c *Checker) fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/octet-stream").
		Get(url)
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode(), url)
	}
	return resp.Body(), nil
}

// parseChecksums reads sha256sum output. Names written in binary mode
// carry a leading '*'.
func parseChecksums(data []byte) map[string]string {
	sums := make(map[string]string)
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) != 2 {
			continue
		}
		sums[strings.TrimPrefix(fields[1], "*")] = strings.ToLower(fields[0])
	}
	return sums
}

func verifyChecksum(data []byte, wantHex string) error {
	sum := sha256.Sum256(data)
	if got := hex.EncodeToString(sum[:]); got != wantHex {
		return fmt.Errorf("%w: expected %s, got %s", ErrChecksum, wantHex, got)
	}
	return nil
}

func (a Asset) extract(archive []byte) ([]byte, error) {
	var (
		data  []byte
		found bool
		err   error
	)
	if a.zipped {
		data, found, err = fromZip(archive, a.Binary)
	} else {
		data, found, err = fromTarGz(archive, a.Binary)
	}
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("binary %q not found in archive", a.Binary)
	}
	return data, nil
}

func fromTarGz(archive []byte, name string) ([]byte, bool, error) {
	gz, err := gzip.NewReader(bytes.NewReader(archive))
	if err != nil {
		return nil, false, fmt.Errorf("open gzip: %w", err)
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil, false, nil
		}
		if err != nil {
			return nil, false, fmt.Errorf("read tar: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg || filepath.Base(hdr.Name) != name {
			continue
		}
		data, err := io.ReadAll(tr)
		return data, true, err
	}
}

func fromZip(archive []byte, name string) ([]byte, bool, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, false, fmt.Errorf("open zip: %w", err)
	}
	for _, f := range zr.File {
		if filepath.Base(f.Name) != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, false, err
		}
		data, err := io.ReadAll(rc)
		_ = rc.Close()
		return data, true, err
	}
	return nil, false, nil
}

// replaceExecutable writes bin next to path, checks what landed on disk and
// renames it over path, keeping path's mode.
func replaceExecutable(path string, bin []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat target: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-update-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(bin); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	written, err := os.ReadFile(tmpPath)
	if err != nil {
		return fmt.Errorf("re-read temp file: %w", err)
	}
	if sha256.Sum256(written) != sha256.Sum256(bin) {
		return fmt.Errorf("%w: temp file changed after write", ErrChecksum)
	}

	if err := os.Chmod(tmpPath, info.Mode()); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
