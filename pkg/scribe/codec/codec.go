package codec

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SchemaExchangeV1 tags the canonical persisted record layout.
const SchemaExchangeV1 = "exchange.v1"

// Exchange is the single clean request-response pair persisted per activity:
// the display prompt the clinician supplied and the final streamed response.
// Reasoning carries the model's thinking segments in their own tagged field
// so the UI can render them collapsed; it stays out of FinalResponse.
// Analysis output never appears here.
type Exchange struct {
	DisplayPrompt string
	FinalResponse string
	Reasoning     string
	FormatUsed    string

	// Legacy marks a record recovered from the pre-schema plain-text format.
	Legacy bool
}

type persistedExchange struct {
	Schema        string `json:"schema"`
	DisplayPrompt string `json:"display_prompt"`
	FinalResponse string `json:"final_response"`
	Reasoning     string `json:"reasoning,omitempty"`
	FormatUsed    string `json:"format_used,omitempty"`
}

// Encode serializes an exchange into the canonical structured record.
func Encode(ex Exchange) ([]byte, error) {
	data, err := json.Marshal(persistedExchange{
		Schema:        SchemaExchangeV1,
		DisplayPrompt: ex.DisplayPrompt,
		FinalResponse: ex.FinalResponse,
		Reasoning:     ex.Reasoning,
		FormatUsed:    ex.FormatUsed,
	})
	if err != nil {
		return nil, fmt.Errorf("encode exchange: %w", err)
	}
	return data, nil
}

// Decode reads a persisted record back. It accepts the canonical structured
// form and otherwise treats the entire blob as a legacy plain-text response
// with an empty display prompt. It never fails: loss of a note must never
// look like a crash to the clinician.
func Decode(raw []byte) Exchange {
	var p persistedExchange
	if err := json.Unmarshal(raw, &p); err == nil && strings.HasPrefix(p.Schema, "exchange.") {
		return Exchange{
			DisplayPrompt: p.DisplayPrompt,
			FinalResponse: p.FinalResponse,
			Reasoning:     p.Reasoning,
			FormatUsed:    p.FormatUsed,
		}
	}

	return Exchange{
		FinalResponse: string(raw),
		Legacy:        true,
	}
}
