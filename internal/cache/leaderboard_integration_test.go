//go:build integration

package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/AERESAL/VolunteerHub-Backend/internal/domain"
)

func TestRedisLeaderboardRoundTrip(t *testing.T) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client, err := Connect(ctx, fmt.Sprintf("redis://%s:%s/0", host, port.Port()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	lb := NewRedisLeaderboard(client, time.Minute)

	_, ok, err := lb.Get(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	entries := []domain.LeaderboardEntry{
		{Username: "b", DisplayName: "Bea", ApprovedHours: 7.25},
		{Username: "a", DisplayName: "a", ApprovedHours: 5, UnapprovedHours: 1.5},
	}
	generation, err := lb.Generation(ctx)
	require.NoError(t, err)
	require.NoError(t, lb.Set(ctx, generation, entries))

	got, ok, err := lb.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, entries, got)

	require.NoError(t, lb.Invalidate(ctx))
	_, ok, err = lb.Get(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	// A ranking computed before the invalidation must not be stored.
	require.NoError(t, lb.Set(ctx, generation, entries))
	_, ok, err = lb.Get(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	current, err := lb.Generation(ctx)
	require.NoError(t, err)
	require.Equal(t, generation+1, current)
	require.NoError(t, lb.Set(ctx, current, entries))
	_, ok, err = lb.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
}
