package output

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/devicelab-dev/suite-reporter/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenTarget(t *testing.T) {
	dir := t.TempDir()

	target, err := OpenTarget(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean(dir), target.Dir())
}

func TestOpenTarget_Missing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")

	_, err := OpenTarget(missing)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrOutputTargetMissing))
	assert.Contains(t, err.Error(), missing)

	_, statErr := os.Stat(missing)
	assert.True(t, os.IsNotExist(statErr), "target must not be created")
}

func TestOpenTarget_Empty(t *testing.T) {
	_, err := OpenTarget("")
	assert.True(t, errors.Is(err, core.ErrOutputTargetMissing))
}

func TestOpenTarget_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := OpenTarget(path)
	assert.True(t, errors.Is(err, core.ErrOutputTargetNotDir))
}

func TestTarget_WriteFiles(t *testing.T) {
	target, err := OpenTarget(t.TempDir())
	require.NoError(t, err)

	err = target.WriteFiles([]File{
		{Name: "report.xml", Data: []byte("<x/>")},
		{Name: "allure-results/a-result.json", Data: []byte("{}")},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(target.Path("report.xml"))
	require.NoError(t, err)
	assert.Equal(t, "<x/>", string(data))

	data, err = os.ReadFile(target.Path("allure-results/a-result.json"))
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	// No temp files left behind.
	entries, err := os.ReadDir(target.Dir())
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp-")
	}
}

func TestTarget_WriteFileOverwrites(t *testing.T) {
	target, err := OpenTarget(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, target.WriteFile("report.json", []byte("first")))
	require.NoError(t, target.WriteFile("report.json", []byte("second")))

	data, err := os.ReadFile(target.Path("report.json"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestTarget_WriteFileRejectsEscape(t *testing.T) {
	target, err := OpenTarget(t.TempDir())
	require.NoError(t, err)

	err = target.WriteFile("../outside.xml", []byte("x"))
	assert.True(t, errors.Is(err, core.ErrWriteFailed))
}
