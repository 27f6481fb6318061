package router

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/luxfi/robustmpc/pkg/party"
)

// TCPRouter is a length-prefixed TCP Router: one listener accepts
// connections from every peer, and one dialed connection per peer carries
// outbound sends. No transport library appears anywhere in this runtime's
// retrieval corpus, so this frames messages directly over net.Conn rather
// than reaching for an unrelated dependency; see DESIGN.md.
type TCPRouter struct {
	self party.ID

	mu    sync.Mutex
	conns map[party.ID]net.Conn

	inbox chan inboundMsg
	ln    net.Listener
}

type inboundMsg struct {
	from    party.ID
	payload []byte
	err     error
}

// Addresses maps every party to the host:port its TCPRouter listens on.
type Addresses map[party.ID]string

// NewTCPRouter listens on listenAddr for self. It dials no peer on its own:
// the caller connects each peer with Dial before sending to it, and must
// call Accept in a background goroutine to admit inbound peer connections.
func NewTCPRouter(self party.ID, listenAddr string) (*TCPRouter, error) {
	ln, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return nil, fmt.Errorf("router: listen on %s: %w", listenAddr, err)
	}
	return &TCPRouter{
		self:  self,
		conns: make(map[party.ID]net.Conn),
		inbox: make(chan inboundMsg, 256),
		ln:    ln,
	}, nil
}

// Accept runs the listener loop, reading every frame a connecting peer
// sends and delivering it to Recv. It returns when the listener is closed.
func (t *TCPRouter) Accept() error {
	for {
		conn, err := t.ln.Accept()
		if err != nil {
			return err
		}
		go t.readLoop(conn)
	}
}

// Dial connects to a peer ahead of the first Send, so a deployment can
// fail fast on misconfiguration rather than on the first message.
func (t *TCPRouter) Dial(peer party.ID, addr string) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("router: dial %s at %s: %w", peer, addr, err)
	}
	t.mu.Lock()
	t.conns[peer] = conn
	t.mu.Unlock()
	return nil
}

// Close shuts down the listener and every outbound connection.
func (t *TCPRouter) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, c := range t.conns {
		c.Close()
	}
	return t.ln.Close()
}

func (t *TCPRouter) readLoop(conn net.Conn) {
	defer conn.Close()
	for {
		payload, err := readFrame(conn)
		if err != nil {
			if err != io.EOF {
				t.inbox <- inboundMsg{err: fmt.Errorf("router: read frame: %w", err)}
			}
			return
		}
		// The sender identifies itself inside the envelope (wire.Envelope.From);
		// the transport layer does not need to know who dialed it.
		t.inbox <- inboundMsg{payload: payload}
	}
}

// Send implements router.Router.
func (t *TCPRouter) Send(dest party.ID, payload []byte) error {
	t.mu.Lock()
	conn, ok := t.conns[dest]
	t.mu.Unlock()
	if !ok {
		return fmt.Errorf("router: no connection to %q; call Dial first", dest)
	}
	return writeFrame(conn, payload)
}

// Recv implements router.Router.
func (t *TCPRouter) Recv(ctx context.Context) (party.ID, []byte, error) {
	select {
	case m := <-t.inbox:
		if m.err != nil {
			return "", nil, m.err
		}
		return "", m.payload, nil
	case <-ctx.Done():
		return "", nil, ctx.Err()
	}
}

func writeFrame(w io.Writer, payload []byte) error {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

func readFrame(r io.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}
