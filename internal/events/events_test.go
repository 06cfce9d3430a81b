package events

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHubDeliversToAllSubscribers(t *testing.T) {
	hub := NewHub()
	a := hub.Subscribe(4)
	b := hub.Subscribe(4)

	hub.Publish(BalanceChanged{Total: 1000, Available: 900})

	require.Equal(t, BalanceChanged{Total: 1000, Available: 900}, <-a)
	require.Equal(t, BalanceChanged{Total: 1000, Available: 900}, <-b)
}

func TestHubPublishDoesNotBlockOnFullSubscriber(t *testing.T) {
	hub := NewHub()
	full := hub.Subscribe(1)
	hub.Publish(Message{Text: "first"})

	// Subscriber buffer is full; these must not block the publisher.
	hub.Publish(Message{Text: "second"})
	hub.Publish(VenueAdded{ID: 1001, Host: "localhost", Port: 9200})

	require.Equal(t, Message{Text: "first"}, <-full)
}

func TestHubClose(t *testing.T) {
	hub := NewHub()
	ch := hub.Subscribe(1)
	hub.Close()

	_, open := <-ch
	require.False(t, open)
}

func TestHubPublishSafeAgainstConcurrentClose(t *testing.T) {
	hub := NewHub()
	hub.Subscribe(1)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 10000; i++ {
			hub.Publish(Message{Text: "tick"})
		}
	}()
	hub.Close()
	wg.Wait()

	// Publish and Subscribe after Close are no-ops, never panics.
	hub.Publish(Message{Text: "late"})
	late := hub.Subscribe(1)
	_, open := <-late
	require.False(t, open)
	hub.Close()
}
