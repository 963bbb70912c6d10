package store

import (
	"context"
	"testing"

	"github.com/ikkim/storefront/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_UnsupportedDriver(t *testing.T) {
	repos, err := Open(context.Background(), &config.DatabaseConfig{Driver: "cassandra"})
	require.Error(t, err)
	assert.Nil(t, repos)
	assert.Contains(t, err.Error(), "cassandra")
}
