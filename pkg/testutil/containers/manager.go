//go:build integration

package containers

import (
	"sync"
	"testing"
)

// Manager hands out one shared container per backend for the whole test
// binary. Suites call the Get helpers instead of starting their own
// containers; Ryuk reaps everything when the run ends.
var (
	pgOnce sync.Once
	pg     *PostgresContainer

	redisOnce sync.Once
	rd        *RedisContainer

	redpandaOnce sync.Once
	rp           *RedpandaContainer
)

// GetPostgres returns the shared PostgreSQL container, starting it on first use.
func GetPostgres(t *testing.T) *PostgresContainer {
	t.Helper()
	pgOnce.Do(func() { pg = NewPostgresContainer(t) })
	if pg == nil {
		t.Fatal("postgres container failed to start earlier in this run")
	}
	return pg
}

// GetRedis returns the shared Redis container, starting it on first use.
func GetRedis(t *testing.T) *RedisContainer {
	t.Helper()
	redisOnce.Do(func() { rd = NewRedisContainer(t) })
	if rd == nil {
		t.Fatal("redis container failed to start earlier in this run")
	}
	return rd
}

// GetRedpanda returns the shared Redpanda container, starting it on first use.
func GetRedpanda(t *testing.T) *RedpandaContainer {
	t.Helper()
	redpandaOnce.Do(func() { rp = NewRedpandaContainer(t) })
	if rp == nil {
		t.Fatal("redpanda container failed to start earlier in this run")
	}
	return rp
}
