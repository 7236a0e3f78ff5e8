package alexa

const envelopeVersion = "1.0"

// Fixed speech for request kinds that never reach a provider.
const (
	WelcomeText = "Welcome to the Strands Alexa Agent! How can I help you today?"
	GoodbyeText = "Goodbye!"
)

// Build wraps answer text and session state into the outbound envelope. The
// session ends exactly when the platform told us it already did.
func Build(text string, kind Kind, attrs map[string]interface{}) *Envelope {
	return newEnvelope(text, kind == KindSessionEnded, attrs)
}

// BuildTerminal builds an envelope that closes the session, used when a call
// is unrecoverable.
func BuildTerminal(text string, attrs map[string]interface{}) *Envelope {
	return newEnvelope(text, true, attrs)
}

func newEnvelope(text string, endSession bool, attrs map[string]interface{}) *Envelope {
	if attrs == nil {
		attrs = map[string]interface{}{}
	}
	return &Envelope{
		Version:           envelopeVersion,
		SessionAttributes: attrs,
		Response: ResponseBody{
			OutputSpeech: OutputSpeech{
				Type: "PlainText",
				Text: text,
			},
			ShouldEndSession: endSession,
		},
	}
}
