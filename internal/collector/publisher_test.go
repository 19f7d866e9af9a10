package collector

import (
	"encoding/json"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runMockNATSServer(t *testing.T) *natsserver.Server {
	t.Helper()

	opts := &natsserver.Options{
		Host: "127.0.0.1",
		Port: -1, // Use random port
	}

	server, err := natsserver.NewServer(opts)
	require.NoError(t, err)

	go server.Start()

	if !server.ReadyForConnections(5 * time.Second) {
		t.Fatal("NATS server not ready")
	}
	t.Cleanup(server.Shutdown)

	return server
}

func TestNewPublisherConnectError(t *testing.T) {
	_, err := NewPublisher("invalid://url", "healthcare.repositories", discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to NATS")
}

func TestPublisherPublish(t *testing.T) {
	server := runMockNATSServer(t)
	subject := "healthcare.repositories"

	publisher, err := NewPublisher(server.ClientURL(), subject, discardLogger())
	require.NoError(t, err)
	defer publisher.Close()

	sub, err := nats.Connect(server.ClientURL())
	require.NoError(t, err)
	defer sub.Close()

	messages := make(chan *nats.Msg, 10)
	s, err := sub.ChanSubscribe(subject, messages)
	require.NoError(t, err)
	defer func() { _ = s.Unsubscribe() }()
	require.NoError(t, sub.Flush())

	records := []Record{
		{FullName: "org/simrs", Name: "simrs", Category: CategorySIMRS, Stars: 12, Topics: []string{"his"}},
		{FullName: "org/obat", Name: "obat", Category: CategoryObat, Topics: []string{}},
	}

	published, err := publisher.Publish(records)
	require.NoError(t, err)
	assert.Equal(t, 2, published)

	var received []Record
	timeout := time.After(5 * time.Second)
	for len(received) < len(records) {
		select {
		case msg := <-messages:
			var r Record
			require.NoError(t, json.Unmarshal(msg.Data, &r))
			received = append(received, r)
		case <-timeout:
			t.Fatalf("Timeout waiting for messages, got %d", len(received))
		}
	}

	assert.Equal(t, records, received)
}

func TestPublisherClose(t *testing.T) {
	server := runMockNATSServer(t)

	publisher, err := NewPublisher(server.ClientURL(), "healthcare.repositories", discardLogger())
	require.NoError(t, err)
	assert.False(t, publisher.nc.IsClosed())

	publisher.Close()
	assert.True(t, publisher.nc.IsClosed())

	_, err = publisher.Publish([]Record{{FullName: "org/repo"}})
	assert.Error(t, err)
}
