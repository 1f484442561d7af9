package broker_test

import (
	"testing"

	"github.com/myrjola/avalanchemystery/internal/broker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type jobEvent struct {
	Status string
	CaseID string
}

func newBroker(t *testing.T) *broker.ChannelBroker[string, jobEvent] {
	t.Helper()
	b := broker.NewChannelBroker[string, jobEvent]()
	go b.Start()
	t.Cleanup(b.Stop)
	return b
}

func TestChannelBrokerStreamsJobEvents(t *testing.T) {
	b := newBroker(t)
	events := make(chan jobEvent)
	b.Publish("job-1", events)
	go func() {
		events <- jobEvent{Status: "generating", CaseID: ""}
		events <- jobEvent{Status: "accepted", CaseID: "defi_heist_1"}
		close(events)
		b.Unpublish("job-1")
	}()

	stream, ok := <-b.Subscribe("job-1")
	require.True(t, ok, "first subscriber should get the event stream")
	var got []jobEvent
	for ev := range stream {
		got = append(got, ev)
	}
	assert.Equal(t, []jobEvent{
		{Status: "generating", CaseID: ""},
		{Status: "accepted", CaseID: "defi_heist_1"},
	}, got)
}

func TestChannelBrokerUnknownJob(t *testing.T) {
	b := newBroker(t)

	stream, ok := <-b.Subscribe("missing")
	assert.Nil(t, stream)
	assert.False(t, ok, "subscription to an unpublished job should be closed")
}

func TestChannelBrokerReconnectWaitsForJob(t *testing.T) {
	b := newBroker(t)
	events := make(chan jobEvent)
	b.Publish("job-2", events)

	stream := <-b.Subscribe("job-2")
	reconnect := b.Subscribe("job-2")

	finished := make(chan struct{})
	go func() {
		events <- jobEvent{Status: "failed", CaseID: ""}
		close(events)
		close(finished)
		b.Unpublish("job-2")
	}()
	assert.Equal(t, "failed", (<-stream).Status)

	second, ok := <-reconnect
	assert.Nil(t, second, "only the first subscriber gets the stream")
	assert.False(t, ok)
	select {
	case <-finished:
	default:
		t.Fatal("reconnect unblocked before the job finished")
	}

	_, ok = <-b.Subscribe("job-2")
	assert.False(t, ok, "finished job should no longer be subscribable")
}
