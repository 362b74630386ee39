// Package testinfra starts disposable infrastructure containers for
// integration tests.
package testinfra

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Redis starts a redis:7-alpine container and returns a connected client.
// The caller terminates the container.
func Redis(ctx context.Context) (testcontainers.Container, *goredis.Client, error) {
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForLog("Ready to accept connections").
				WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, nil, err
	}

	addr, err := container.Endpoint(ctx, "")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, nil, err
	}

	rdb := goredis.NewClient(&goredis.Options{Addr: addr, DialTimeout: 5 * time.Second})
	if err = rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		_ = container.Terminate(ctx)
		return nil, nil, err
	}
	return container, rdb, nil
}
