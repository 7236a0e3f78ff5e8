// Package alexa holds the typed request and response envelope for the Alexa
// webhook contract.
//
// See https://developer.amazon.com/en-US/docs/alexa/custom-skills/request-and-response-json-reference.html
package alexa

// Request is the inbound webhook body.
type Request struct {
	Version string      `json:"version"`
	Session Session     `json:"session"`
	Request RequestBody `json:"request"`
}

type Session struct {
	New         bool                   `json:"new"`
	SessionID   string                 `json:"sessionId"`
	Attributes  map[string]interface{} `json:"attributes"`
	Application Application            `json:"application"`
}

type Application struct {
	ApplicationID string `json:"applicationId"`
}

type RequestBody struct {
	Type      string `json:"type"`
	RequestID string `json:"requestId"`
	Intent    Intent `json:"intent"`
	Reason    string `json:"reason,omitempty"`
}

type Intent struct {
	Name  string          `json:"name"`
	Slots map[string]Slot `json:"slots"`
}

type Slot struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Envelope is the outbound webhook body. The transport contract requires it
// to be well-formed for every call, including failed ones.
type Envelope struct {
	Version           string                 `json:"version"`
	SessionAttributes map[string]interface{} `json:"sessionAttributes"`
	Response          ResponseBody           `json:"response"`
}

type ResponseBody struct {
	OutputSpeech     OutputSpeech `json:"outputSpeech"`
	ShouldEndSession bool         `json:"shouldEndSession"`
}

type OutputSpeech struct {
	Type string `json:"type"`
	Text string `json:"text"`
}
