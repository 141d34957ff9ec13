package consts

import (
	"os"
	"time"
)

const (
	// ModeDir is the standard file mode for creating directories
	ModeDir = os.FileMode(0o755)

	// ModeFile is the standard file mode for creating files
	ModeFile = os.FileMode(0o644)
)

// Process exit codes returned by commands.
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitDrift    = 3
	ExitNotFound = 4
)

const (
	// DefaultPort is the SQL Server listener port used when none is configured.
	DefaultPort = 1433

	// DefaultServer is the host used when neither a profile nor the environment names one.
	DefaultServer = "localhost"

	// DefaultDatabase is the database used when none is configured.
	DefaultDatabase = "master"

	// DefaultTimeout is the connect timeout used when none is configured.
	DefaultTimeout = 30 * time.Second

	// DefaultContextRadius is the number of unchanged lines shown around each hunk in object diffs.
	DefaultContextRadius = 5

	// ApplyScriptTimeFormat names generated apply scripts, e.g. db-apply-diff-20250101-120000.sql.
	ApplyScriptTimeFormat = "20060102-150405"

	// ApplyScriptPrefix is the file name prefix for generated apply scripts.
	ApplyScriptPrefix = "db-apply-diff-"

	// StdoutPath is the special output path meaning "write to standard output".
	StdoutPath = "-"
)

// DefaultSchemas returns the schemas compared when neither flags nor profiles name any.
func DefaultSchemas() []string {
	return []string{"dbo", "web", "rbac", "notification"}
}
