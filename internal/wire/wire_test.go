package wire_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/robustmpc/internal/wire"
	"github.com/luxfi/robustmpc/pkg/party"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	env := wire.Envelope{
		Tag:     wire.TagShare,
		ShareID: 17,
		From:    party.ID("p0"),
		Payload: []byte{1, 2, 3, 4},
	}

	raw, err := wire.Marshal(env)
	require.NoError(t, err)

	got, err := wire.Unmarshal(raw)
	require.NoError(t, err)
	assert.Equal(t, env, got)
}

func TestTagString(t *testing.T) {
	assert.Equal(t, "S", wire.TagShare.String())
	assert.Equal(t, "R1", wire.TagBatchRoundOne.String())
	assert.Equal(t, "R2", wire.TagBatchRoundTwo.String())
}
