package compare_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlsrv/pkg/applyscript"
	"github.com/pseudomuto/sqlsrv/pkg/apperr"
	. "github.com/pseudomuto/sqlsrv/pkg/compare"
	"github.com/pseudomuto/sqlsrv/pkg/config"
	"github.com/pseudomuto/sqlsrv/pkg/consts"
	"github.com/pseudomuto/sqlsrv/pkg/format"
	"github.com/pseudomuto/sqlsrv/pkg/snapshot"
	"github.com/stretchr/testify/require"
)

const testConfig = `
defaultProfile: staging
profiles:
  staging:
    server: staging.db
    database: app
    defaultSchemas: [dbo, web]
  prod:
    server: prod.db
    database: app
  qa:
    server: qa.db
`

type fakeFetcher struct {
	mu        sync.Mutex
	snapshots map[string]*snapshot.Snapshot
	errs      map[string]error
	conns     map[string]config.Connection
	schemas   [][]string
}

func (f *fakeFetcher) Fetch(_ context.Context, name string, conn config.Connection, schemas []string) (*snapshot.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.conns == nil {
		f.conns = make(map[string]config.Connection)
	}
	f.conns[name] = conn
	f.schemas = append(f.schemas, schemas)

	if err := f.errs[name]; err != nil {
		return nil, err
	}
	if snap, ok := f.snapshots[name]; ok {
		return snap, nil
	}
	return &snapshot.Snapshot{Name: name}, nil
}

// cancelFetcher fails the fetch for one profile and holds every other fetch open
// until its context is done, reporting the context error it saw.
type cancelFetcher struct {
	fail string
	seen chan error
}

func (f *cancelFetcher) Fetch(ctx context.Context, name string, _ config.Connection, _ []string) (*snapshot.Snapshot, error) {
	if name == f.fail {
		return nil, apperr.Wrap(apperr.Connection, errors.New("login failed"), "")
	}

	select {
	case <-ctx.Done():
		f.seen <- ctx.Err()
		return nil, ctx.Err()
	case <-time.After(5 * time.Second):
		f.seen <- nil
		return &snapshot.Snapshot{Name: name}, nil
	}
}

func proc(schema, name, def string) snapshot.ModuleRow {
	return snapshot.ModuleRow{Schema: schema, Name: name, Type: snapshot.Procedure, Definition: def}
}

func setup(t *testing.T, fetcher *fakeFetcher) (*Runner, *bytes.Buffer, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), consts.ModeFile))

	loader := &config.Loader{Env: config.MapEnv(nil), WorkDir: dir, HomeDir: dir}
	runner := NewRunner(loader, fetcher)

	out := new(bytes.Buffer)
	runner.Out = out
	return runner, out, path
}

func driftedFetcher() *fakeFetcher {
	return &fakeFetcher{
		snapshots: map[string]*snapshot.Snapshot{
			"staging": {
				Name: "staging",
				Modules: []snapshot.ModuleRow{
					proc("dbo", "GetTotal", "CREATE PROCEDURE dbo.GetTotal\nAS SELECT 1"),
					proc("dbo", "Shared", "CREATE PROCEDURE dbo.Shared AS SELECT 1"),
				},
			},
			"prod": {
				Name: "prod",
				Modules: []snapshot.ModuleRow{
					proc("dbo", "Shared", "CREATE PROCEDURE dbo.Shared AS SELECT 1"),
				},
			},
		},
	}
}

func TestResolveSchemas(t *testing.T) {
	withSchemas := func(s ...string) config.Connection {
		return config.Connection{DefaultSchemas: s}
	}

	tests := []struct {
		name     string
		override string
		source   config.Connection
		target   config.Connection
		expected []string
	}{
		{
			name:     "override wins",
			override: " sales , ,hr ",
			source:   withSchemas("dbo"),
			expected: []string{"sales", "hr"},
		},
		{
			name:     "blank override falls through to source",
			override: " , ",
			source:   withSchemas("dbo", "web"),
			target:   withSchemas("rbac"),
			expected: []string{"dbo", "web"},
		},
		{
			name:     "target defaults",
			target:   withSchemas("rbac"),
			expected: []string{"rbac"},
		},
		{
			name:     "built in defaults",
			expected: []string{"dbo", "web", "rbac", "notification"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, ResolveSchemas(tt.override, tt.source, tt.target))
		})
	}
}

func TestStyle(t *testing.T) {
	require.Equal(t, format.StyleTable, Style(Options{}))
	require.Equal(t, format.StyleCompact, Style(Options{Compact: true}))
	require.Equal(t, format.StyleMarkdown, Style(Options{Compact: true, Markdown: true}))
	require.Equal(t, format.StyleJSON, Style(Options{JSON: true, Markdown: true}))
}

func TestRun_RequiresTarget(t *testing.T) {
	fetcher := &fakeFetcher{}
	runner, _, path := setup(t, fetcher)

	code, err := runner.Run(context.Background(), Options{ConfigPath: path})
	require.Error(t, err)
	require.Equal(t, consts.ExitFailure, code)
	require.True(t, apperr.Is(err, apperr.Config))
	require.Empty(t, fetcher.conns)
}

func TestRun_UnknownProfile(t *testing.T) {
	fetcher := &fakeFetcher{}
	runner, _, path := setup(t, fetcher)

	code, err := runner.Run(context.Background(), Options{ConfigPath: path, Target: "nope"})
	require.Equal(t, consts.ExitFailure, code)
	require.ErrorIs(t, err, config.ErrProfileNotFound)
	require.Contains(t, err.Error(), "target")
}

func TestRun_ResolvesProfiles(t *testing.T) {
	t.Run("source defaults to the config default profile", func(t *testing.T) {
		fetcher := &fakeFetcher{}
		runner, _, path := setup(t, fetcher)

		code, err := runner.Run(context.Background(), Options{ConfigPath: path, Target: "prod"})
		require.NoError(t, err)
		require.Equal(t, consts.ExitOK, code)

		require.Equal(t, "staging.db", fetcher.conns["staging"].Server)
		require.Equal(t, "prod.db", fetcher.conns["prod"].Server)
		require.Equal(t, [][]string{{"dbo", "web"}, {"dbo", "web"}}, fetcher.schemas)
	})

	t.Run("global profile and connection override", func(t *testing.T) {
		fetcher := &fakeFetcher{}
		runner, _, path := setup(t, fetcher)

		_, err := runner.Run(context.Background(), Options{
			ConfigPath:       path,
			Profile:          "qa",
			Target:           "prod",
			TargetConnection: "Server=override.db,1444;Database=other;User Id=sa;Password=x",
			Schemas:          "sales",
		})
		require.NoError(t, err)

		require.Equal(t, "qa.db", fetcher.conns["qa"].Server)
		target := fetcher.conns["prod"]
		require.Equal(t, "override.db", target.Server)
		require.Equal(t, 1444, target.Port)
		require.Equal(t, "other", target.Database)
		require.Equal(t, [][]string{{"sales"}, {"sales"}}, fetcher.schemas)
	})

	t.Run("explicit source wins over global profile", func(t *testing.T) {
		fetcher := &fakeFetcher{}
		runner, _, path := setup(t, fetcher)

		_, err := runner.Run(context.Background(), Options{ConfigPath: path, Profile: "qa", Source: "staging", Target: "prod"})
		require.NoError(t, err)
		require.Contains(t, fetcher.conns, "staging")
		require.NotContains(t, fetcher.conns, "qa")
	})
}

func TestRun_FetchFailure(t *testing.T) {
	fetcher := &fakeFetcher{errs: map[string]error{
		"prod": apperr.Wrap(apperr.Connection, errors.New("login failed"), ""),
	}}
	runner, out, path := setup(t, fetcher)

	code, err := runner.Run(context.Background(), Options{ConfigPath: path, Target: "prod"})
	require.Equal(t, consts.ExitFailure, code)
	require.True(t, apperr.Is(err, apperr.Connection))
	require.Contains(t, err.Error(), "failed to fetch target prod")
	require.Empty(t, out.String(), "nothing should be written on failure")
}

func TestRun_FetchFailureCancelsSibling(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), consts.ModeFile))

	fetcher := &cancelFetcher{fail: "prod", seen: make(chan error, 1)}
	runner := NewRunner(&config.Loader{Env: config.MapEnv(nil), WorkDir: dir, HomeDir: dir}, fetcher)
	out := new(bytes.Buffer)
	runner.Out = out

	start := time.Now()
	code, err := runner.Run(context.Background(), Options{ConfigPath: path, Source: "staging", Target: "prod"})
	require.Equal(t, consts.ExitFailure, code)
	require.Contains(t, err.Error(), "failed to fetch target prod")
	require.Less(t, time.Since(start), 2*time.Second)

	require.ErrorIs(t, <-fetcher.seen, context.Canceled)
	require.Empty(t, out.String())
}

func TestRun_Summary(t *testing.T) {
	t.Run("drift exits 3", func(t *testing.T) {
		runner, out, path := setup(t, driftedFetcher())

		code, err := runner.Run(context.Background(), Options{ConfigPath: path, Target: "prod", JSON: true})
		require.NoError(t, err)
		require.Equal(t, consts.ExitDrift, code)

		var doc map[string]map[string][]string
		require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
		require.Equal(t, []string{"dbo.Procedure.GetTotal"}, doc["modules"]["missingInLeft"])
		require.Empty(t, doc["modules"]["missingInRight"])
		require.Empty(t, doc["modules"]["changed"])
	})

	t.Run("no drift exits 0", func(t *testing.T) {
		runner, out, path := setup(t, &fakeFetcher{})

		code, err := runner.Run(context.Background(), Options{ConfigPath: path, Target: "prod", Compact: true})
		require.NoError(t, err)
		require.Equal(t, consts.ExitOK, code)
		require.NotEmpty(t, out.String())
	})
}

func TestRun_ObjectDiff(t *testing.T) {
	tests := []struct {
		name     string
		object   string
		code     int
		expected string
	}{
		{
			name:     "source only",
			object:   "dbo.GetTotal",
			code:     consts.ExitDrift,
			expected: "Left: dbo.GetTotal\nCREATE PROCEDURE dbo.GetTotal\nAS SELECT 1\n---\nRight: missing\n\n",
		},
		{
			name:     "same on both sides",
			object:   "Shared",
			code:     consts.ExitOK,
			expected: "No substantive drift for Shared (whitespace/comments ignored).\n",
		},
		{
			name:     "not found",
			object:   "dbo.Nope",
			code:     consts.ExitNotFound,
			expected: "Object 'dbo.Nope' not found in either side.\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner, out, path := setup(t, driftedFetcher())

			code, err := runner.Run(context.Background(), Options{
				ConfigPath:  path,
				Target:      "prod",
				Object:      tt.object,
				ApplyScript: true, // object diff takes precedence
			})
			require.NoError(t, err)
			require.Equal(t, tt.code, code)
			require.Equal(t, tt.expected, out.String())
		})
	}
}

func TestRun_ApplyScript(t *testing.T) {
	t.Run("stdout", func(t *testing.T) {
		runner, out, path := setup(t, driftedFetcher())

		code, err := runner.Run(context.Background(), Options{
			ConfigPath:  path,
			Target:      "prod",
			ApplyScript: true,
			ApplyPath:   consts.StdoutPath,
		})
		require.NoError(t, err)
		require.Equal(t, consts.ExitOK, code, "apply script generation doesn't report drift")
		require.Contains(t, out.String(), "-- CREATE: dbo.GetTotal (PROCEDURE)")
		require.Contains(t, out.String(), "CREATE OR ALTER PROCEDURE dbo.GetTotal")
		require.NotContains(t, out.String(), "Wrote apply script")
	})

	t.Run("file", func(t *testing.T) {
		runner, out, path := setup(t, &fakeFetcher{})
		dest := filepath.Join(t.TempDir(), "scripts", "apply.sql")

		code, err := runner.Run(context.Background(), Options{
			ConfigPath:  path,
			Target:      "prod",
			ApplyScript: true,
			ApplyPath:   dest,
		})
		require.NoError(t, err)
		require.Equal(t, consts.ExitOK, code)
		require.Equal(t, "Wrote apply script to "+dest+"\n", out.String())

		data, err := os.ReadFile(dest)
		require.NoError(t, err)
		require.Equal(t, applyscript.NothingToApply, string(data))
	})
}

func TestRun_Snapshots(t *testing.T) {
	runner, out, path := setup(t, driftedFetcher())

	code, err := runner.Run(context.Background(), Options{ConfigPath: path, Target: "prod", Snapshots: true, Pretty: true})
	require.NoError(t, err)
	require.Equal(t, consts.ExitOK, code)

	var doc struct {
		Source snapshot.Snapshot `json:"source"`
		Target snapshot.Snapshot `json:"target"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	require.Equal(t, "staging", doc.Source.Name)
	require.Len(t, doc.Source.Modules, 2)
	require.Equal(t, "prod", doc.Target.Name)
}
