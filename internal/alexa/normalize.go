package alexa

// Kind is the normalized request kind derived once per call.
type Kind string

const (
	KindLaunch       Kind = "launch"
	KindIntent       Kind = "intent"
	KindSessionEnded Kind = "session_ended"
	KindUnrecognized Kind = "unrecognized"
)

// Platform request-type tags.
const (
	requestTypeLaunch       = "LaunchRequest"
	requestTypeIntent       = "IntentRequest"
	requestTypeSessionEnded = "SessionEndedRequest"
)

// Utterance sentinels for request kinds that carry no spoken text.
const (
	utteranceLaunch       = "launch skill"
	utteranceSessionEnded = "end session"
	utteranceUnrecognized = "unknown request"
)

// querySlot is the slot the skill's interaction model maps free-form speech to.
const querySlot = "query"

// Normalize derives the (kind, utterance, session attributes) triple from an
// inbound request. It never fails: any shape it does not recognize maps to
// KindUnrecognized, and missing session attributes default to an empty map.
func Normalize(req *Request) (Kind, string, map[string]interface{}) {
	attrs := req.Session.Attributes
	if attrs == nil {
		attrs = map[string]interface{}{}
	}

	switch req.Request.Type {
	case requestTypeLaunch:
		return KindLaunch, utteranceLaunch, attrs

	case requestTypeIntent:
		intentName := req.Request.Intent.Name
		if intentName == "" {
			intentName = "Unknown"
		}

		if slot, ok := req.Request.Intent.Slots[querySlot]; ok && slot.Value != "" {
			return KindIntent, slot.Value, attrs
		}
		return KindIntent, "Intent: " + intentName, attrs

	case requestTypeSessionEnded:
		return KindSessionEnded, utteranceSessionEnded, attrs

	default:
		return KindUnrecognized, utteranceUnrecognized, attrs
	}
}
