//go:build integration
// +build integration

package mongostore

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/junaidrashid-git/storefront/store"
	"github.com/junaidrashid-git/storefront/store/storetest"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestMongoStore(t *testing.T) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForListeningPort("27017/tcp"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	uri, err := container.Endpoint(ctx, "mongodb")
	require.NoError(t, err)

	storetest.Run(t, func(t *testing.T) store.Store {
		// A fresh database per run keeps the subtests independent.
		s, err := Open(ctx, uri, "storefront_"+uuid.NewString()[:8])
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}
