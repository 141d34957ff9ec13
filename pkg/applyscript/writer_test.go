package applyscript_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlsrv/pkg/apperr"
	. "github.com/pseudomuto/sqlsrv/pkg/applyscript"
	"github.com/pseudomuto/sqlsrv/pkg/consts"
	"github.com/stretchr/testify/require"
)

func TestDefaultPath(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	require.Equal(t, "db-apply-diff-20250314-093000.sql", DefaultPath(now))
}

func TestFileWriter_Stdout(t *testing.T) {
	var out bytes.Buffer
	w := &FileWriter{Path: "-", Stdout: &out}

	path, err := w.Write("SELECT 1")
	require.NoError(t, err)
	require.Equal(t, "-", path)
	require.Equal(t, "SELECT 1\n", out.String())
}

func TestFileWriter_CreatesParentDirectories(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "nested", "deeper", "apply.sql")

	path, err := NewFileWriter(target).Write("-- script")
	require.NoError(t, err)
	require.Equal(t, target, path)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Equal(t, "-- script", string(data))
}

func TestFileWriter_DefaultName(t *testing.T) {
	var written string
	w := &FileWriter{
		Now: func() time.Time { return time.Date(2024, 12, 1, 23, 5, 9, 0, time.Local) },
		MkdirAll: func(string, os.FileMode) error {
			t.Fatal("no directory should be created for a bare file name")
			return nil
		},
		WriteFile: func(name string, data []byte, mode os.FileMode) error {
			written = name
			require.Equal(t, consts.ModeFile, mode)
			return nil
		},
	}

	path, err := w.Write("x")
	require.NoError(t, err)
	require.Equal(t, "db-apply-diff-20241201-230509.sql", path)
	require.Equal(t, path, written)
}

func TestFileWriter_Errors(t *testing.T) {
	tests := []struct {
		name   string
		writer *FileWriter
		msg    string
	}{
		{
			name: "mkdir fails",
			writer: &FileWriter{
				Path:     "out/apply.sql",
				MkdirAll: func(string, os.FileMode) error { return errors.New("permission denied") },
			},
			msg: "failed to create directory out",
		},
		{
			name: "write fails",
			writer: &FileWriter{
				Path:      "apply.sql",
				WriteFile: func(string, []byte, os.FileMode) error { return errors.New("disk full") },
			},
			msg: "failed to write apply.sql",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.writer.Write("x")
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.msg)
			require.Equal(t, apperr.IO, apperr.KindOf(err))
		})
	}
}
