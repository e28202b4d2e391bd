package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamenight/schnapsen-client/internal/game/card"
)

func TestMessageRoundTrip(t *testing.T) {
	msg, err := NewMessage(CmdPlayCard, card.Card{Suit: card.Hearts, Value: card.Ten})
	require.NoError(t, err)

	data, err := msg.Encode()
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, string(CmdPlayCard), decoded.Event)
	assert.JSONEq(t, `{"suit":"Hearts","value":"Ten"}`, string(decoded.Data))
}

func TestNewMessageNilPayload(t *testing.T) {
	msg, err := NewMessage(CmdCloseTalon, nil)
	require.NoError(t, err)
	assert.Nil(t, msg.Data)

	data, err := msg.Encode()
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"close_talon"}`, string(data))
}

func TestDecodeServerFrame(t *testing.T) {
	frame := `{"event":"trick","data":{"user_id":"u1","cards":[{"suit":"Hearts","value":"Ten"},{"suit":"Spades","value":"Ace"}]},"timestamp":1712000000}`

	msg, err := Decode([]byte(frame))
	require.NoError(t, err)
	assert.Equal(t, string(EventTrick), msg.Event)
	assert.EqualValues(t, 1712000000, msg.Timestamp)

	var payload TrickPayload
	require.NoError(t, json.Unmarshal(msg.Data, &payload))
	assert.Equal(t, "u1", payload.UserID)
	assert.Equal(t, card.Card{Suit: card.Spades, Value: card.Ace}, payload.Cards[1])
}

func TestDecodeMalformed(t *testing.T) {
	_, err := Decode([]byte(`{`))
	assert.Error(t, err)
}

func TestMustNewMessagePanics(t *testing.T) {
	assert.Panics(t, func() {
		MustNewMessage(CmdPlayCard, make(chan int))
	})
}
