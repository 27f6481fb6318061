package router_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/robustmpc/pkg/party"
	"github.com/luxfi/robustmpc/pkg/router"
)

func TestSimpleRouterSendRecv(t *testing.T) {
	ids := []party.ID{"p0", "p1"}
	net := router.NewNetwork(ids, 4)

	r0, err := net.Router(0, "p0")
	require.NoError(t, err)
	r1, err := net.Router(0, "p1")
	require.NoError(t, err)

	require.NoError(t, r0.Send("p1", []byte("hello")))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	from, payload, err := r1.Recv(ctx)
	require.NoError(t, err)
	assert.Equal(t, party.ID("p0"), from)
	assert.Equal(t, []byte("hello"), payload)
}

func TestSimpleRouterUnknownDestination(t *testing.T) {
	net := router.NewNetwork([]party.ID{"p0"}, 1)
	r0, err := net.Router(0, "p0")
	require.NoError(t, err)
	assert.Error(t, r0.Send("p99", []byte("x")))
}

func TestSimpleRouterRecvCancel(t *testing.T) {
	net := router.NewNetwork([]party.ID{"p0"}, 1)
	r0, err := net.Router(0, "p0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = r0.Recv(ctx)
	assert.Error(t, err)
}

func TestSimpleRouterIsolatesProgramsByPID(t *testing.T) {
	ids := []party.ID{"p0", "p1"}
	net := router.NewNetwork(ids, 4)

	sendA, err := net.Router(1, "p0")
	require.NoError(t, err)
	recvA, err := net.Router(1, "p1")
	require.NoError(t, err)
	sendB, err := net.Router(2, "p0")
	require.NoError(t, err)
	recvB, err := net.Router(2, "p1")
	require.NoError(t, err)

	require.NoError(t, sendA.Send("p1", []byte("for-a")))
	require.NoError(t, sendB.Send("p1", []byte("for-b")))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, payloadA, err := recvA.Recv(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("for-a"), payloadA)

	_, payloadB, err := recvB.Recv(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("for-b"), payloadB)
}
