package sqlserver

import (
	"context"
	"log/slog"

	"github.com/pseudomuto/sqlsrv/pkg/config"
	"github.com/pseudomuto/sqlsrv/pkg/snapshot"
)

type (
	// Fetcher captures a catalog snapshot from a server.
	Fetcher interface {
		Fetch(ctx context.Context, name string, conn config.Connection, schemas []string) (*snapshot.Snapshot, error)
	}

	// CatalogFetcher is the Fetcher backed by a live SQL Server connection.
	CatalogFetcher struct{}
)

// NewFetcher returns the default catalog fetcher.
func NewFetcher() *CatalogFetcher {
	return &CatalogFetcher{}
}

// Fetch connects using conn, reads the catalog for the given schemas and closes the
// connection before returning. The snapshot is labelled with name.
//
// Example:
//
//	snap, err := sqlserver.NewFetcher().Fetch(ctx, "staging", conn, []string{"dbo"})
//	if err != nil {
//		return err
//	}
//	fmt.Printf("%d modules\n", len(snap.Modules))
func (f *CatalogFetcher) Fetch(ctx context.Context, name string, conn config.Connection, schemas []string) (*snapshot.Snapshot, error) {
	slog.Debug("Connecting", "snapshot", name, "server", conn.String())

	client, err := Open(ctx, conn)
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Close() }()

	return ReadSnapshot(ctx, client, name, schemas)
}

// ReadSnapshot runs the five catalog queries in order on q and assembles the snapshot.
// No rows for a category yields an empty slice, never an error.
func ReadSnapshot(ctx context.Context, q Querier, name string, schemas []string) (*snapshot.Snapshot, error) {
	queries := BuildQueries(schemas)
	snap := &snapshot.Snapshot{Name: name}

	var err error
	if snap.Modules, err = fetchModules(ctx, q, queries.Modules); err != nil {
		return nil, err
	}
	if snap.Indexes, err = fetchIndexes(ctx, q, queries.Indexes); err != nil {
		return nil, err
	}
	if snap.Constraints, err = fetchConstraints(ctx, q, queries.Constraints); err != nil {
		return nil, err
	}
	if snap.Tables, err = fetchTables(ctx, q, queries.Tables); err != nil {
		return nil, err
	}
	if snap.TableColumns, err = fetchTableColumns(ctx, q, queries.TableColumns); err != nil {
		return nil, err
	}

	slog.Debug("Fetched snapshot",
		"snapshot", name,
		"modules", len(snap.Modules),
		"indexes", len(snap.Indexes),
		"constraints", len(snap.Constraints),
		"tables", len(snap.Tables),
		"columns", len(snap.TableColumns),
	)

	return snap, nil
}
