package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_FanOut(t *testing.T) {
	hub := NewHub()
	ch1, cancel1 := hub.Subscribe()
	ch2, cancel2 := hub.Subscribe()
	defer cancel1()
	defer cancel2()

	hub.Publish("first")

	assert.Equal(t, "first", <-ch1)
	assert.Equal(t, "first", <-ch2)
}

func TestHub_PublishWithoutSubscribersDoesNotBlock(t *testing.T) {
	hub := NewHub()

	hub.Publish("into the void")

	assert.Equal(t, 0, hub.Subscribers())
}

func TestHub_SlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe()
	defer cancel()

	// Overfill the buffer; the excess must be dropped, not block.
	for i := 0; i < subscriberBuffer+5; i++ {
		hub.Publish("msg")
	}

	received := 0
	for len(ch) > 0 {
		<-ch
		received++
	}
	assert.Equal(t, subscriberBuffer, received)
}

func TestHub_CancelRemovesSubscriberAndClosesChannel(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe()
	require.Equal(t, 1, hub.Subscribers())

	cancel()

	assert.Equal(t, 0, hub.Subscribers())
	_, open := <-ch
	assert.False(t, open)
}

func TestHub_CancelIsIdempotent(t *testing.T) {
	hub := NewHub()
	_, cancel := hub.Subscribe()

	cancel()
	assert.NotPanics(t, func() { cancel() })
}

func TestHub_CanceledSubscriberStopsReceiving(t *testing.T) {
	hub := NewHub()
	_, cancel := hub.Subscribe()
	keep, keepCancel := hub.Subscribe()
	defer keepCancel()

	cancel()
	hub.Publish("after cancel")

	assert.Equal(t, "after cancel", <-keep)
	assert.Equal(t, 1, hub.Subscribers())
}
