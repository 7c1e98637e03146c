// Package service implements the Connect RPC handlers declared in
// pkg/api/apiconnect on top of storage, the settlement engine and auth.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/expensegenie/internal/auth"
	"github.com/mmynk/expensegenie/internal/middleware"
	"github.com/mmynk/expensegenie/internal/models"
	"github.com/mmynk/expensegenie/internal/storage"
)

// connectError maps storage and validation failures onto Connect codes.
func connectError(err error) *connect.Error {
	switch {
	case errors.Is(err, models.ErrValidation):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrAlreadyExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// requireUser returns the caller's user ID or an Unauthenticated error.
func requireUser(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}

// updateClock hands out strictly increasing millisecond timestamps, so two
// writes in the same millisecond still move a user's sync marker.
type updateClock struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

var timestamps = &updateClock{now: time.Now}

func (c *updateClock) next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now().UnixMilli()
	if t <= c.last {
		t = c.last + 1
	}
	c.last = t
	return t
}

// nextUpdate returns a write timestamp later than both the clock and prev.
func nextUpdate(prev int64) int64 {
	t := timestamps.next()
	if t <= prev {
		t = prev + 1
	}
	return t
}
