package logger

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suite-reporter.log")
	require.NoError(t, Init(Options{Path: path}))
	defer Close()

	Info("rendered %d files", 3)
	Debug("hidden at info level")
	WithFields(logrus.Fields{"suite": "A"}).Warn("unbalanced")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "rendered 3 files")
	assert.NotContains(t, out, "hidden at info level")
	assert.Contains(t, out, "suite=A")
	assert.Contains(t, out, "level=warning")
}

func TestInit_VerboseConsole(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Options{Console: &buf, Verbose: true}))
	defer Close()

	Debug("debug %s", "visible")
	Error("failed: %v", "boom")

	assert.Contains(t, buf.String(), "debug visible")
	assert.Contains(t, buf.String(), "failed: boom")
}

func TestGetWriter_FollowsSink(t *testing.T) {
	w := GetWriter()

	path := filepath.Join(t.TempDir(), "suite-reporter.log")
	require.NoError(t, Init(Options{Path: path}))
	_, err := io.WriteString(w, "http: accept error\n")
	require.NoError(t, err)
	Close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "http: accept error")

	n, err := io.WriteString(w, "after close\n")
	assert.NoError(t, err)
	assert.Equal(t, len("after close\n"), n)
}

func TestInit_BadPath(t *testing.T) {
	err := Init(Options{Path: filepath.Join(t.TempDir(), "missing", "x.log")})
	assert.Error(t, err)
}

func TestClose_DiscardsOutput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Options{Console: &buf}))
	Close()

	Info("after close")
	assert.Empty(t, buf.String())
}
