// Package router defines the point-to-point messaging surface a program's
// context depends on, and an in-memory implementation for tests and
// single-process simulation (spec.md §5, §6).
package router

import (
	"context"
	"fmt"
	"sync"

	"github.com/luxfi/robustmpc/pkg/party"
)

// Router sends and receives raw framed messages between one party and the
// rest of the network. A Context never depends on a concrete transport: it
// only ever calls through this interface, so a deployment can swap in a
// TLS-backed network Router without touching protocol code.
type Router interface {
	// Send delivers payload to dest. It may return before dest has
	// actually processed the message.
	Send(dest party.ID, payload []byte) error
	// Recv blocks until a message addressed to this party's Router arrives,
	// or ctx is cancelled.
	Recv(ctx context.Context) (src party.ID, payload []byte, err error)
}

// SimpleRouter is an in-memory Router backed by per-peer FIFO channels. It
// is wired together with other SimpleRouters that share the same Network,
// and is intended for tests and local multi-goroutine simulation rather
// than for crossing process boundaries (spec.md §5's ProgramRunner).
type SimpleRouter struct {
	self party.ID
	pid  int64
	net  *Network
}

// Network is a shared in-memory switchboard for a fixed set of parties.
// Inboxes are keyed by (pid, party), not just party: a deployment that
// runs more than one program over the same Network concurrently (two
// ProgramRunner.Add calls sharing one Network, spec.md §3's pid) gets an
// isolated inbox per program instead of two Contexts racing to drain one
// shared channel. It is the thing program_runner-style test harnesses
// construct once and hand one SimpleRouter view of to each simulated
// party, per program instance.
type Network struct {
	mu         sync.Mutex
	inboxDepth int
	known      map[party.ID]bool
	boxes      map[boxKey]chan message
}

type boxKey struct {
	pid int64
	id  party.ID
}

type message struct {
	from    party.ID
	payload []byte
}

// NewNetwork builds a Network connecting every party in ids, with every
// program's inbox buffered to the given depth.
func NewNetwork(ids []party.ID, inboxDepth int) *Network {
	known := make(map[party.ID]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}
	return &Network{inboxDepth: inboxDepth, known: known, boxes: make(map[boxKey]chan message)}
}

// Router returns the SimpleRouter view of the network for the given party
// under the given program id. Two calls with the same party but different
// pid get disjoint inboxes; two calls with the same (pid, party) share one.
func (n *Network) Router(pid int64, self party.ID) (*SimpleRouter, error) {
	if !n.known[self] {
		return nil, fmt.Errorf("router: unknown party %q", self)
	}
	return &SimpleRouter{self: self, pid: pid, net: n}, nil
}

func (n *Network) box(key boxKey) chan message {
	n.mu.Lock()
	defer n.mu.Unlock()
	b, ok := n.boxes[key]
	if !ok {
		b = make(chan message, n.inboxDepth)
		n.boxes[key] = b
	}
	return b
}

// Send implements Router.
func (r *SimpleRouter) Send(dest party.ID, payload []byte) error {
	if !r.net.known[dest] {
		return fmt.Errorf("router: unknown destination %q", dest)
	}
	box := r.net.box(boxKey{pid: r.pid, id: dest})
	cp := append([]byte(nil), payload...)
	box <- message{from: r.self, payload: cp}
	return nil
}

// Recv implements Router.
func (r *SimpleRouter) Recv(ctx context.Context) (party.ID, []byte, error) {
	box := r.net.box(boxKey{pid: r.pid, id: r.self})

	select {
	case m := <-box:
		return m.from, m.payload, nil
	case <-ctx.Done():
		return "", nil, ctx.Err()
	}
}
