package docker

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlsrv/pkg/config"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mssql"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultImage is the SQL Server image used when no version is configured.
	DefaultImage = "mcr.microsoft.com/mssql/server"

	// DefaultVersion is the image tag used when no version is configured.
	DefaultVersion = "2022-latest"

	// DefaultPassword is the sa password set on new containers. It satisfies the
	// server's password complexity policy.
	DefaultPassword = "Sqlsrv!Passw0rd"

	sqlServerPort = "1433/tcp"
)

type (
	// DockerOptions represents options for running SQL Server in Docker
	DockerOptions struct {
		// Version is the image tag to run (default: 2022-latest)
		Version string

		// Password is the sa password (default: DefaultPassword)
		Password string
	}

	// Container manages a disposable SQL Server instance for integration tests
	Container struct {
		options   DockerOptions
		container *mssql.MSSQLServerContainer
	}
)

// New creates a new container with default options
//
// Example:
//
//	container := docker.New()
//	if err := container.Start(ctx); err != nil {
//		log.Fatal(err)
//	}
//	defer container.Stop(ctx)
func New() *Container {
	return NewWithOptions(DockerOptions{})
}

// NewWithOptions creates a new container with custom options
func NewWithOptions(opts DockerOptions) *Container {
	if opts.Version == "" {
		opts.Version = DefaultVersion
	}
	if opts.Password == "" {
		opts.Password = DefaultPassword
	}

	return &Container{options: opts}
}

// Image returns the fully qualified image reference.
func (c *Container) Image() string {
	return DefaultImage + ":" + c.options.Version
}

// Start starts the SQL Server container and waits for it to accept connections
func (c *Container) Start(ctx context.Context) error {
	if c.container != nil {
		return errors.New("container is already running")
	}

	container, err := mssql.Run(ctx,
		c.Image(),
		mssql.WithAcceptEULA(),
		mssql.WithPassword(c.options.Password),
		testcontainers.WithWaitStrategyAndDeadline(
			5*time.Minute,
			wait.ForLog("Recovery is complete."),
			wait.ForListeningPort(sqlServerPort),
		),
	)
	if err != nil {
		return errors.Wrap(err, "failed to start SQL Server container")
	}

	c.container = container
	return nil
}

// Stop stops and removes the container
func (c *Container) Stop(ctx context.Context) error {
	if c.container == nil {
		return nil // Already stopped
	}

	err := c.container.Terminate(ctx)
	c.container = nil

	if err != nil {
		return errors.Wrap(err, "failed to stop SQL Server container")
	}

	return nil
}

// Connection returns settings for connecting to the container as sa. The server
// uses a self-signed certificate, so the certificate is trusted.
func (c *Container) Connection(ctx context.Context) (config.Connection, error) {
	if c.container == nil {
		return config.Connection{}, errors.New("container is not running")
	}

	host, err := c.container.Host(ctx)
	if err != nil {
		return config.Connection{}, errors.Wrap(err, "failed to get container host")
	}

	port, err := c.container.MappedPort(ctx, sqlServerPort)
	if err != nil {
		return config.Connection{}, errors.Wrap(err, "failed to get container port")
	}

	conn := config.DefaultConnection()
	conn.Profile = "docker"
	conn.Server = host
	conn.Port = port.Int()
	conn.User = "sa"
	conn.Password = c.options.Password
	conn.Encrypt = true
	conn.TrustCert = true
	return conn, nil
}

// IsRunning returns true if the container is currently running
func (c *Container) IsRunning() bool {
	return c.container != nil
}
