package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExpirer struct {
	expired int64
	err     error
	calls   int
}

func (f *fakeExpirer) ExpireStale(_ context.Context, _ time.Time) (int64, error) {
	f.calls++
	return f.expired, f.err
}

func TestExpiryService_Run(t *testing.T) {
	flights := &fakeExpirer{expired: 3}
	pickups := &fakeExpirer{expired: 1}

	svc := NewExpiryService(flights, pickups)
	require.NoError(t, svc.Run(context.Background()))

	assert.Equal(t, 1, flights.calls)
	assert.Equal(t, 1, pickups.calls)
}

func TestExpiryService_OneSideFailingDoesNotStopTheOther(t *testing.T) {
	flights := &fakeExpirer{err: errors.New("db down")}
	pickups := &fakeExpirer{expired: 2}

	svc := NewExpiryService(flights, pickups)
	err := svc.Run(context.Background())

	assert.Error(t, err)
	assert.Equal(t, 1, pickups.calls)
}
