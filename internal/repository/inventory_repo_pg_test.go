package repository

import (
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
)

func TestNewInventoryRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewInventoryRepository(pool)
	assert.NotNil(t, repo)
}
