package server

import "strings"

// Tool is the discovery shape served by the HTTP transport.
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

type CallRequest struct {
	Name string                 `json:"name"`
	Args map[string]interface{} `json:"arguments"`
}

// Content is a single text block of a result.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ResultEnvelope is returned for every invocation. Failures carry a single
// text block starting with "Error: ".
type ResultEnvelope struct {
	Content []Content `json:"content"`
}

// Text joins the text of all content blocks.
func (e ResultEnvelope) Text() string {
	parts := make([]string, 0, len(e.Content))
	for _, c := range e.Content {
		parts = append(parts, c.Text)
	}
	return strings.Join(parts, "\n")
}

func textResult(text string) ResultEnvelope {
	return ResultEnvelope{Content: []Content{{Type: "text", Text: text}}}
}

func errorResult(err error) ResultEnvelope {
	return textResult("Error: " + err.Error())
}
