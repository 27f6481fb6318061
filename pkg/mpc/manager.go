package mpc

import (
	"context"
	"errors"
	"sync"

	"github.com/luxfi/robustmpc/internal/wire"
	"github.com/luxfi/robustmpc/pkg/field"
	"github.com/luxfi/robustmpc/pkg/party"
	"github.com/luxfi/robustmpc/pkg/router"
)

// errBadVectorLength is returned when a received batch payload is not an
// exact multiple of the 32-byte field element width.
var errBadVectorLength = errors.New("mpc: batch payload is not a whole number of field elements")

// shareManager owns share-id allocation and the single background
// goroutine that drains a Context's Router, filing each arriving message
// under the open it answers. It mirrors the recvloop/tag-dispatch design
// of the program this runtime generalizes (spec.md §4.2), but keys
// directly off the numeric share id embedded in the wire envelope instead
// of a free-form string tag.
type shareManager struct {
	self    party.ID
	parties party.IDSlice
	r       router.Router

	mu      sync.Mutex
	cond    *sync.Cond
	nextID  int64
	single  map[int64]map[party.ID]field.F
	r1      map[int64]map[party.ID][]field.F
	tags    map[int64]wire.Tag
	exitErr error

	runCtx context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func newShareManager(parent context.Context, r router.Router, self party.ID, parties party.IDSlice) *shareManager {
	runCtx, cancel := context.WithCancel(parent)
	m := &shareManager{
		self:    self,
		parties: parties,
		r:       r,
		single:  make(map[int64]map[party.ID]field.F),
		r1:      make(map[int64]map[party.ID][]field.F),
		tags:    make(map[int64]wire.Tag),
		runCtx:  runCtx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	m.cond = sync.NewCond(&m.mu)
	return m
}

func (m *shareManager) start() {
	go m.recvLoop()
}

func (m *shareManager) stop() {
	m.cancel()
	<-m.done
}

func (m *shareManager) allocateID() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	return id
}

func (m *shareManager) recvLoop() {
	defer close(m.done)
	for {
		_, payload, err := m.r.Recv(m.runCtx)
		if err != nil {
			m.mu.Lock()
			m.exitErr = err
			m.cond.Broadcast()
			m.mu.Unlock()
			return
		}
		env, err := wire.Unmarshal(payload)
		if err != nil {
			continue
		}
		// The envelope's own From field is authoritative: a Router may not
		// itself know which peer a message came from (TCPRouter's frames
		// are anonymous at the transport level), so every message
		// identifies its sender at the application layer instead.
		m.deliver(env.From, env)
	}
}

func (m *shareManager) deliver(from party.ID, env wire.Envelope) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if want, ok := m.tags[env.ShareID]; ok && want != env.Tag {
		return
	}
	m.tags[env.ShareID] = env.Tag

	switch env.Tag {
	case wire.TagShare:
		var f field.F
		if err := f.UnmarshalBinary(env.Payload); err != nil {
			return
		}
		bucket, ok := m.single[env.ShareID]
		if !ok {
			bucket = make(map[party.ID]field.F)
			m.single[env.ShareID] = bucket
		}
		if _, dup := bucket[from]; dup {
			return
		}
		bucket[from] = f
	case wire.TagBatchRoundOne:
		vec, err := decodeVector(env.Payload)
		if err != nil {
			return
		}
		bucket, ok := m.r1[env.ShareID]
		if !ok {
			bucket = make(map[party.ID][]field.F)
			m.r1[env.ShareID] = bucket
		}
		if _, dup := bucket[from]; dup {
			return
		}
		bucket[from] = vec
	}
	m.cond.Broadcast()
}

// waitForSingle blocks until at least need shares have arrived for id, or
// the receive loop exits.
func (m *shareManager) waitForSingle(id int64, need int) (map[party.ID]field.F, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for len(m.single[id]) < need {
		if m.exitErr != nil {
			return nil, &BackgroundLoopExitedError{Cause: m.exitErr}
		}
		m.cond.Wait()
	}
	out := make(map[party.ID]field.F, len(m.single[id]))
	for k, v := range m.single[id] {
		out[k] = v
	}
	return out, nil
}

func (m *shareManager) waitForR1(id int64, need int) (map[party.ID][]field.F, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for len(m.r1[id]) < need {
		if m.exitErr != nil {
			return nil, &BackgroundLoopExitedError{Cause: m.exitErr}
		}
		m.cond.Wait()
	}
	out := make(map[party.ID][]field.F, len(m.r1[id]))
	for k, v := range m.r1[id] {
		out[k] = v
	}
	return out, nil
}

func (m *shareManager) broadcast(id int64, tag wire.Tag, payload []byte) error {
	env := wire.Envelope{Tag: tag, ShareID: id, From: m.self, Payload: payload}
	raw, err := wire.Marshal(env)
	if err != nil {
		return err
	}
	for _, p := range m.parties {
		if err := m.r.Send(p, raw); err != nil {
			return err
		}
	}
	return nil
}

func decodeVector(payload []byte) ([]field.F, error) {
	if len(payload)%32 != 0 {
		return nil, errBadVectorLength
	}
	n := len(payload) / 32
	out := make([]field.F, n)
	for i := 0; i < n; i++ {
		out[i] = field.FromBytes(payload[i*32 : (i+1)*32])
	}
	return out, nil
}

func encodeVector(vs []field.F) []byte {
	out := make([]byte, 0, len(vs)*32)
	for _, v := range vs {
		out = append(out, v.Bytes()...)
	}
	return out
}
