package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	ex := Exchange{
		DisplayPrompt: "Client reported improved sleep.\nFormat: SOAP",
		FinalResponse: "S: Client reported improved sleep...",
		Reasoning:     "weighing SOAP vs narrative structure",
		FormatUsed:    "SOAP",
	}

	data, err := Encode(ex)
	assert.NoError(t, err)

	got := Decode(data)
	assert.Equal(t, ex.DisplayPrompt, got.DisplayPrompt)
	assert.Equal(t, ex.FinalResponse, got.FinalResponse)
	assert.Equal(t, ex.Reasoning, got.Reasoning)
	assert.Equal(t, ex.FormatUsed, got.FormatUsed)
	assert.False(t, got.Legacy)
}

func TestEncodeKeepsReasoningOutOfFinalResponse(t *testing.T) {
	data, err := Encode(Exchange{
		DisplayPrompt: "Client discussed work anxiety.",
		FinalResponse: "S: Client reported work anxiety.",
		Reasoning:     "differential: adjustment vs GAD",
	})
	assert.NoError(t, err)

	got := Decode(data)
	assert.Equal(t, "differential: adjustment vs GAD", got.Reasoning)
	assert.NotContains(t, got.FinalResponse, "differential")
}

func TestDecodeLegacyRecords(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "plain text", raw: "An old note written before structured records."},
		{name: "plain text with braces", raw: "Progress was {mixed} today."},
		{name: "invalid json", raw: `{"schema": "exchange.v1", "display_prompt": `},
		{name: "json without schema", raw: `{"display_prompt": "x", "final_response": "y"}`},
		{name: "json with foreign schema", raw: `{"schema": "note.v1", "body": "z"}`},
		{name: "empty", raw: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decode([]byte(tt.raw))
			assert.True(t, got.Legacy)
			assert.Equal(t, tt.raw, got.FinalResponse)
			assert.Empty(t, got.DisplayPrompt)
			assert.Empty(t, got.Reasoning)
		})
	}
}

func TestDecodeAcceptsNewerSchemaRevisions(t *testing.T) {
	raw := []byte(`{"schema":"exchange.v2","display_prompt":"p","final_response":"r","format_used":"DAP"}`)
	got := Decode(raw)
	assert.False(t, got.Legacy)
	assert.Equal(t, "p", got.DisplayPrompt)
	assert.Equal(t, "r", got.FinalResponse)
	assert.Equal(t, "DAP", got.FormatUsed)
}
