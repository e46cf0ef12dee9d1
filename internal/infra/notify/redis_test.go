package notify

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/ereshiii/pet-connect/internal/domain/appointment"
)

func TestNewRedisClientRejectsBadURL(t *testing.T) {
	_, err := NewRedisClient("http://localhost:6379")
	assert.Error(t, err)

	c, err := NewRedisClient("redis://localhost:6379/2")
	require.NoError(t, err)
	assert.Equal(t, 2, c.Options().DB)
	_ = c.Close()
}

func TestRedisNotifierSurfacesPublishErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	n := NewRedisNotifier(client, "petconnect:notifications")
	err := n.Notify(context.Background(), domain.Event{Kind: domain.EventOverdue, AppointmentID: 9})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "appointmentOverdue")
}
