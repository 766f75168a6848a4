package chat

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplyJSONShape(t *testing.T) {
	reply := NewReply("user-1", "hello",
		Btn("Schedule appointment", "/schedule_appointment"),
	)

	data, err := json.Marshal(reply)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "user-1", decoded["recipient_id"])
	assert.Equal(t, "hello", decoded["text"])

	buttons, ok := decoded["buttons"].([]any)
	require.True(t, ok)
	require.Len(t, buttons, 1)
	button := buttons[0].(map[string]any)
	assert.Equal(t, "Schedule appointment", button["title"])
	assert.Equal(t, "/schedule_appointment", button["payload"])
}

func TestReplyOmitsEmptyButtons(t *testing.T) {
	reply := NewReply("user-1", "plain text")

	data, err := json.Marshal(reply)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	_, hasButtons := decoded["buttons"]
	assert.False(t, hasButtons, "buttons should be omitted when empty")
}

func TestInboundDecoding(t *testing.T) {
	var inbound Inbound
	require.NoError(t, json.Unmarshal([]byte(`{"sender":"abc","message":"I have a fever"}`), &inbound))
	assert.Equal(t, "abc", inbound.Sender)
	assert.Equal(t, "I have a fever", inbound.Message)

	var empty Inbound
	require.NoError(t, json.Unmarshal([]byte(`{}`), &empty))
	assert.Empty(t, empty.Sender)
	assert.Empty(t, empty.Message)
}
