package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectRequiresURL(t *testing.T) {
	client, err := Connect(context.Background(), Config{})
	assert.Nil(t, client)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestConnectRejectsBadURL(t *testing.T) {
	_, err := Connect(context.Background(), Config{URL: "://nope"})
	assert.ErrorContains(t, err, "invalid URL")
}
