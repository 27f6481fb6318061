// Package wire defines the on-the-wire envelope parties exchange during a
// program's execution, and its cbor encoding (spec.md §6). It deliberately
// mirrors the teacher's round-message framing: a small fixed header plus
// an opaque content payload handed to the caller.
package wire

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/luxfi/robustmpc/pkg/party"
)

// Tag identifies which phase of a sub-protocol an Envelope belongs to.
// Shares are tagged 'S'; batch reconstruction's broadcast round is tagged
// 'R1' (spec.md §4.2, §4.4).
type Tag uint8

const (
	// TagShare marks a single opened share, sent during OpenSingle.
	TagShare Tag = 0x01
	// TagBatchRoundOne marks batch reconstruction's only round: every party
	// broadcasts its packed share vector to every other party, each
	// decoding the result independently rather than trusting a relay.
	TagBatchRoundOne Tag = 0x02
	// TagBatchRoundTwo is reserved and currently unused: an earlier
	// single-combiner batch reconstruction relayed decoded values back out
	// under this tag, but the symmetric protocol above has no second round.
	TagBatchRoundTwo Tag = 0x03
)

func (t Tag) String() string {
	switch t {
	case TagShare:
		return "S"
	case TagBatchRoundOne:
		return "R1"
	case TagBatchRoundTwo:
		return "R2"
	default:
		return fmt.Sprintf("Tag(%d)", uint8(t))
	}
}

// Envelope is the unit exchanged between two parties' receive loops.
// ShareID ties the message to the specific deferred operation it answers,
// letting a party's background loop route it without any further
// negotiation (spec.md §3's deterministic share-id assignment).
type Envelope struct {
	Tag     Tag     `cbor:"1,keyasint"`
	ShareID int64   `cbor:"2,keyasint"`
	From    party.ID `cbor:"3,keyasint"`
	Payload []byte  `cbor:"4,keyasint"`
}

// Marshal encodes an Envelope for transmission over a Router.
func Marshal(env Envelope) ([]byte, error) {
	b, err := cbor.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("wire: marshal envelope: %w", err)
	}
	return b, nil
}

// Unmarshal decodes an Envelope received from a Router.
func Unmarshal(data []byte) (Envelope, error) {
	var env Envelope
	if err := cbor.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("wire: unmarshal envelope: %w", err)
	}
	return env, nil
}
