// Package docker runs disposable SQL Server instances for integration testing.
//
// Containers are managed through testcontainers-go and expose a ready-to-use
// config.Connection, so tests can exercise the real catalog queries without any
// local setup beyond a running Docker daemon.
//
// # Usage Example
//
//	container := docker.NewWithOptions(docker.DockerOptions{Version: "2022-latest"})
//	if err := container.Start(ctx); err != nil {
//		log.Fatal(err)
//	}
//	defer container.Stop(ctx)
//
//	conn, err := container.Connection(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	snap, err := sqlserver.NewFetcher().Fetch(ctx, "docker", conn, []string{"dbo"})
package docker
