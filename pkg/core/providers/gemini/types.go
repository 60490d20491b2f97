package gemini

import "encoding/json"

// Request is one generateContent call.
type Request struct {
	Model             string
	SystemInstruction string
	Contents          []Content
	Tools             []Tool
	Temperature       *float64
}

// Content is one conversation entry. Role is "user", "model" or "function"
// (for tool results).
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Part is one piece of a content entry.
type Part struct {
	Text             string            `json:"text,omitempty"`
	InlineData       *Blob             `json:"inlineData,omitempty"`
	FunctionCall     *FunctionCall     `json:"functionCall,omitempty"`
	FunctionResponse *FunctionResponse `json:"functionResponse,omitempty"`
}

// Blob is inline binary media, base64 encoded. Used to attach images to
// a vision-capable model.
type Blob struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

// FunctionCall is a pending tool invocation requested by the model.
type FunctionCall struct {
	Name string          `json:"name"`
	Args json.RawMessage `json:"args,omitempty"`
}

// FunctionResponse carries a tool result back to the model.
type FunctionResponse struct {
	Name     string `json:"name"`
	Response any    `json:"response"`
}

// Tool declares capabilities the model may invoke. Exactly one field
// should be set per Tool entry.
type Tool struct {
	FunctionDeclarations []FunctionDeclaration `json:"functionDeclarations,omitempty"`
	GoogleSearch         *GoogleSearch         `json:"googleSearch,omitempty"`
}

// FunctionDeclaration describes one callable function. Parameters is a raw
// JSON schema object.
type FunctionDeclaration struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

// GoogleSearch enables web grounding.
type GoogleSearch struct{}

// TextContent builds a single-part text content entry.
func TextContent(role, text string) Content {
	return Content{Role: role, Parts: []Part{{Text: text}}}
}

// FunctionResponseContent builds the function-role entry for a tool result.
func FunctionResponseContent(name string, result any) Content {
	return Content{
		Role: "function",
		Parts: []Part{{
			FunctionResponse: &FunctionResponse{Name: name, Response: result},
		}},
	}
}

type wireRequest struct {
	SystemInstruction *Content       `json:"systemInstruction,omitempty"`
	Contents          []Content      `json:"contents"`
	Tools             []Tool         `json:"tools,omitempty"`
	GenerationConfig  *wireGenConfig `json:"generationConfig,omitempty"`
}

type wireGenConfig struct {
	Temperature *float64 `json:"temperature,omitempty"`
}

func (r *Request) wire() *wireRequest {
	w := &wireRequest{Contents: r.Contents, Tools: r.Tools}
	if r.SystemInstruction != "" {
		w.SystemInstruction = &Content{Parts: []Part{{Text: r.SystemInstruction}}}
	}
	if r.Temperature != nil {
		w.GenerationConfig = &wireGenConfig{Temperature: r.Temperature}
	}
	return w
}
