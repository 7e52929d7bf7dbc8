package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubPublishReachesSubscriber(t *testing.T) {
	hub := NewHub()
	topic := Topic("comp-1", "JAN-2026")

	events, cancel := hub.Subscribe(topic)
	defer cancel()

	hub.Publish(Event{
		Topic: topic,
		Name:  "payroll_progress",
		Data:  RunProgress{LogID: "log-1", Period: "JAN-2026", Status: "IN_PROGRESS", Processed: 5, Total: 20},
	})

	select {
	case e := <-events:
		require.Equal(t, "payroll_progress", e.Name)
		progress, ok := e.Data.(RunProgress)
		require.True(t, ok)
		assert.Equal(t, 5, progress.Processed)
	default:
		t.Fatal("expected a buffered event")
	}
}

func TestHubTopicsAreIsolated(t *testing.T) {
	hub := NewHub()

	events, cancel := hub.Subscribe(Topic("comp-1", "JAN-2026"))
	defer cancel()

	hub.Publish(Event{Topic: Topic("comp-2", "JAN-2026"), Name: "payroll_progress"})

	assert.Empty(t, events)
}

func TestHubUnsubscribeStopsDelivery(t *testing.T) {
	hub := NewHub()
	topic := Topic("comp-1", "FEB-2026")

	_, cancel := hub.Subscribe(topic)
	assert.Equal(t, 1, hub.SubscriberCount(topic))

	cancel()
	assert.Equal(t, 0, hub.SubscriberCount(topic))

	// Publishing to a topic with no subscribers must not panic.
	hub.Publish(Event{Topic: topic, Name: "payroll_progress"})
}

func TestHubDropsWhenSubscriberFull(t *testing.T) {
	hub := NewHub()
	topic := Topic("comp-1", "MAR-2026")

	events, cancel := hub.Subscribe(topic)
	defer cancel()

	for i := 0; i < cap(events)+10; i++ {
		hub.Publish(Event{Topic: topic, Name: "payroll_progress", Data: RunProgress{Processed: i}})
	}

	assert.Len(t, events, cap(events))
}
