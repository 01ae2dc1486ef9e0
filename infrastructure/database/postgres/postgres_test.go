package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/adlibrary-tracker/internal/config"
)

func TestNewConnectionRequiresDSN(t *testing.T) {
	_, err := NewConnection(context.Background(), config.Database{})
	assert.ErrorContains(t, err, "empty database dsn")
}

func TestMigrationsAreIdempotent(t *testing.T) {
	for _, stmt := range migrations {
		assert.Contains(t, stmt, "IF NOT EXISTS")
	}
}
