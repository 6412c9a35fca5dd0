// Package output writes report renderings into an existing output target.
package output

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/devicelab-dev/suite-reporter/pkg/core"
)

// File is a named rendering relative to the target directory.
type File struct {
	Name string
	Data []byte
}

// Target is an existing directory that receives report files.
type Target struct {
	dir string
}

// OpenTarget checks that dir exists and is a directory. The target is never
// created: a missing target is a configuration error.
func OpenTarget(dir string) (*Target, error) {
	if dir == "" {
		return nil, core.ErrOutputTargetMissing.WithMessage("no output target configured")
	}

	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, core.ErrOutputTargetMissing.
			WithMessage(fmt.Sprintf("output target %s does not exist, create it first", dir)).
			WithDetails(map[string]interface{}{"path": dir})
	}
	if err != nil {
		return nil, core.ErrOutputTargetMissing.WithCause(err)
	}
	if !info.IsDir() {
		return nil, core.ErrOutputTargetNotDir.
			WithMessage(fmt.Sprintf("output target %s is not a directory", dir)).
			WithDetails(map[string]interface{}{"path": dir})
	}

	return &Target{dir: filepath.Clean(dir)}, nil
}

// Dir returns the target directory.
func (t *Target) Dir() string {
	return t.dir
}

// Path returns the absolute location of name inside the target.
func (t *Target) Path(name string) string {
	return filepath.Join(t.dir, filepath.FromSlash(name))
}

// WriteFile writes data to name atomically. Subdirectories inside the target
// are created as needed.
func (t *Target) WriteFile(name string, data []byte) error {
	path := t.Path(name)
	rel, err := filepath.Rel(t.dir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return core.ErrWriteFailed.WithMessage(fmt.Sprintf("%s escapes the output target", name))
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return core.ErrWriteFailed.WithMessage(fmt.Sprintf("create dir for %s", name)).WithCause(err)
	}
	if err := atomicWrite(path, data); err != nil {
		return core.ErrWriteFailed.WithMessage(fmt.Sprintf("write %s", name)).WithCause(err)
	}
	return nil
}

// WriteFiles writes every file, stopping at the first error.
func (t *Target) WriteFiles(files []File) error {
	for _, f := range files {
		if err := t.WriteFile(f.Name, f.Data); err != nil {
			return err
		}
	}
	return nil
}

// atomicWrite writes to a temp file in the same directory and renames it
// over path, so live readers never see a partial file.
func atomicWrite(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
