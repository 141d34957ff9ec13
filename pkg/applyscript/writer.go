package applyscript

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlsrv/pkg/apperr"
	"github.com/pseudomuto/sqlsrv/pkg/consts"
)

// Writer persists a rendered apply script and reports where it went.
type Writer interface {
	Write(script string) (string, error)
}

// FileWriter writes scripts to disk, or to Stdout when Path is "-".
//
// The function fields default to the os package and time.Now; tests replace them.
type FileWriter struct {
	// Path is the destination. Empty selects DefaultPath(Now()).
	Path string

	Stdout    io.Writer
	Now       func() time.Time
	MkdirAll  func(string, os.FileMode) error
	WriteFile func(string, []byte, os.FileMode) error
}

// NewFileWriter returns a FileWriter for path using the real filesystem.
func NewFileWriter(path string) *FileWriter {
	return &FileWriter{Path: path}
}

// DefaultPath returns the file name used when no path is given,
// e.g. db-apply-diff-20250314-093000.sql.
func DefaultPath(now time.Time) string {
	return consts.ApplyScriptPrefix + now.Format(consts.ApplyScriptTimeFormat) + ".sql"
}

// Write stores script and returns the path it was written to ("-" for stdout).
// Missing parent directories are created. Failures are reported as apperr.IO.
func (w *FileWriter) Write(script string) (string, error) {
	if w.Path == consts.StdoutPath {
		if _, err := fmt.Fprintln(w.stdout(), script); err != nil {
			return "", apperr.Wrap(apperr.IO, err, "failed to write apply script to stdout")
		}
		return consts.StdoutPath, nil
	}

	path := w.Path
	if path == "" {
		path = DefaultPath(w.now())
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := w.mkdirAll()(dir, consts.ModeDir); err != nil {
			return "", apperr.Wrap(apperr.IO, errors.Wrapf(err, "failed to create directory %s", dir), "")
		}
	}

	if err := w.writeFile()(path, []byte(script), consts.ModeFile); err != nil {
		return "", apperr.Wrap(apperr.IO, errors.Wrapf(err, "failed to write %s", path), "")
	}

	return path, nil
}

func (w *FileWriter) stdout() io.Writer {
	if w.Stdout != nil {
		return w.Stdout
	}
	return os.Stdout
}

func (w *FileWriter) now() time.Time {
	if w.Now != nil {
		return w.Now()
	}
	return time.Now()
}

func (w *FileWriter) mkdirAll() func(string, os.FileMode) error {
	if w.MkdirAll != nil {
		return w.MkdirAll
	}
	return os.MkdirAll
}

func (w *FileWriter) writeFile() func(string, []byte, os.FileMode) error {
	if w.WriteFile != nil {
		return w.WriteFile
	}
	return os.WriteFile
}
