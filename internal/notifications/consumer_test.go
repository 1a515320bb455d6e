package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"bookmate/pkg/logger"
)

type flakyDeliverer struct {
	failures int
	calls    int
}

func (d *flakyDeliverer) Deliver(ctx context.Context, msg *BookingConfirmation) error {
	d.calls++
	if d.calls <= d.failures {
		return assert.AnError
	}
	return nil
}

func newTestHandler(d Deliverer) *groupHandler {
	return &groupHandler{
		deliverer: d,
		backoff:   time.Millisecond,
		log:       logger.GetDefault(),
	}
}

func TestDeliverWithRetry_EventualSuccess(t *testing.T) {
	d := &flakyDeliverer{failures: 2}
	h := newTestHandler(d)

	err := h.deliverWithRetry(context.Background(), &BookingConfirmation{UserID: 1})

	assert.NoError(t, err)
	assert.Equal(t, 3, d.calls)
}

func TestDeliverWithRetry_GivesUpAfterMaxRetries(t *testing.T) {
	d := &flakyDeliverer{failures: 100}
	h := newTestHandler(d)

	err := h.deliverWithRetry(context.Background(), &BookingConfirmation{UserID: 1})

	assert.Error(t, err)
	assert.Equal(t, deliveryMaxRetries+1, d.calls)
}

func TestDeliverWithRetry_StopsOnCancelledContext(t *testing.T) {
	d := &flakyDeliverer{failures: 100}
	h := newTestHandler(d)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := h.deliverWithRetry(ctx, &BookingConfirmation{UserID: 1})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, d.calls)
}

func TestBookingConfirmation_PartitionKey(t *testing.T) {
	msg := &BookingConfirmation{UserID: 42}
	assert.Equal(t, "42", msg.PartitionKey())
}
