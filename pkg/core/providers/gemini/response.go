package gemini

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Response is the parsed first candidate of a generateContent reply.
type Response struct {
	Text          string
	FunctionCalls []FunctionCall
	FinishReason  string
}

// HasFunctionCalls reports whether the model requested tool invocations.
// Recent Gemini models return finish reason STOP even when calls are
// pending, so presence of calls is detected by content, not by the reason.
func (r *Response) HasFunctionCalls() bool {
	return len(r.FunctionCalls) > 0
}

type wireResponse struct {
	Candidates []struct {
		Content      Content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
}

func parseResponse(body []byte) (*Response, error) {
	var wire wireResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("gemini: decode response: %w", err)
	}
	if len(wire.Candidates) == 0 {
		return nil, &Error{Type: ErrAPI, Message: "no candidates in response"}
	}

	cand := wire.Candidates[0]
	resp := &Response{FinishReason: cand.FinishReason}

	var texts []string
	for _, part := range cand.Content.Parts {
		if part.Text != "" {
			texts = append(texts, part.Text)
		}
		if part.FunctionCall != nil {
			resp.FunctionCalls = append(resp.FunctionCalls, *part.FunctionCall)
		}
	}
	resp.Text = strings.Join(texts, "")
	return resp, nil
}
