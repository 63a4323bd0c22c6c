// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// ATOMIC WRITE TESTS
// =============================================================================

func TestAtomicWriteFile_Basic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.txt")
	require.NoError(t, AtomicWriteFile(path, []byte("hello, world!"), 0644))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello, world!", string(content))
}

func TestAtomicWriteFile_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "deep", "test.txt")
	require.NoError(t, AtomicWriteFile(path, []byte("test data"), 0644))
	assert.FileExists(t, path)
}

func TestAtomicWriteFile_OverwritesAndLeavesNoTemp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.txt")

	require.NoError(t, AtomicWriteFile(path, []byte("initial"), 0644))
	require.NoError(t, AtomicWriteFile(path, []byte("updated"), 0644))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "updated", string(content))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestAtomicWriteFile_EmptyData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, AtomicWriteFile(path, nil, 0644))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestAtomicWriteFile_Permissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced on Windows")
	}
	path := filepath.Join(t.TempDir(), "secret.toml")
	require.NoError(t, AtomicWriteFile(path, []byte("x"), 0600))
	assert.Equal(t, os.FileMode(0600), FileMode(path, 0644))
}

func TestAtomicWriteFileWithDir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced on Windows")
	}
	dir := filepath.Join(t.TempDir(), "private")
	path := filepath.Join(dir, "f.txt")
	require.NoError(t, AtomicWriteFileWithDir(path, []byte("x"), 0600, 0700))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
}

func TestAtomicWrite_FillErrorKeepsOriginal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.docx")
	require.NoError(t, os.WriteFile(path, []byte("original"), 0644))

	boom := errors.New("boom")
	err := AtomicWrite(path, 0644, 0755, func(w io.Writer) error {
		fmt.Fprint(w, "partial")
		return boom
	})
	require.ErrorIs(t, err, boom)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "original", string(content))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestFileMode_Missing(t *testing.T) {
	assert.Equal(t, os.FileMode(0640), FileMode(filepath.Join(t.TempDir(), "nope"), 0640))
}

// =============================================================================
// DISPLAY WIDTH TESTS
// =============================================================================

func TestTruncateWidth(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"Secret", 10, "Secret"},
		{"Top Secret", 10, "Top Secret"},
		{"Top Secret", 7, "Top ..."},
		{"Top Secret", 3, "Top"},
		{"Top Secret", 0, ""},
		{"日本語テキスト", 8, "日本..."},
	}
	for _, tt := range tests {
		got := TruncateWidth(tt.in, tt.width)
		assert.Equal(t, tt.want, got, "%q/%d", tt.in, tt.width)
		assert.LessOrEqual(t, StringWidth(got), tt.width)
	}
}

func TestTruncateLeft(t *testing.T) {
	assert.Equal(t, "/a/b.txt", TruncateLeft("/a/b.txt", 20))
	assert.Equal(t, "...b/report.docx", TruncateLeft("/home/b/report.docx", 16))
	assert.Equal(t, "ocx", TruncateLeft("report.docx", 3))
	assert.Equal(t, "", TruncateLeft("report.docx", 0))

	got := TruncateLeft("/文書/報告書.txt", 10)
	assert.True(t, strings.HasPrefix(got, "..."))
	assert.LessOrEqual(t, StringWidth(got), 10)
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "Public    ", PadRight("Public", 10))
	assert.Equal(t, 10, StringWidth(PadRight("سري للغاية", 10)))
	assert.Equal(t, "日本  ", PadRight("日本", 6))
	assert.Equal(t, "Top ...", PadRight("Top Secret", 7))
}
