// Package orchestrator wires the normalizer, classifier, and answer
// providers into a single pipeline. Its contract is simple: Handle always
// returns a well-formed Alexa envelope, no matter what fails underneath.
package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"alexa-skill-backend/internal/alexa"
	"alexa-skill-backend/internal/cache"
	"alexa-skill-backend/internal/classify"
	"alexa-skill-backend/internal/common/logger"
	"alexa-skill-backend/internal/common/metrics"
	"alexa-skill-backend/internal/provider"
	"alexa-skill-backend/internal/transcript"
)

// transcriptTimeout bounds each background transcript write.
const transcriptTimeout = 5 * time.Second

// Spoken fallback texts. Each degraded path has its own phrasing so that a
// transcript reveals which failure the user actually hit.
const (
	UnconfiguredText = "I'm not fully set up to answer that yet. Please tell my developer to check my configuration."
	UnreachableText  = "I couldn't reach my answer service just now. Please try again in a moment."
	MalformedText    = "I got a reply I couldn't understand from my answer service. Please try again."
	ApologyText      = "Sorry, I'm having trouble right now. Please try again later."
)

// Orchestrator routes a normalized request to the right provider and shapes
// the reply into an envelope.
type Orchestrator struct {
	classifier     classify.Classifier
	conversational provider.Provider
	liveLookup     provider.Provider
	answerCache    *cache.AnswerCache
	transcripts    transcript.Sink
	logger         logger.Logger
}

func New(classifier classify.Classifier, conversational, liveLookup provider.Provider, log logger.Logger) *Orchestrator {
	return &Orchestrator{
		classifier:     classifier,
		conversational: conversational,
		liveLookup:     liveLookup,
		logger:         log,
	}
}

// WithCache enables the Redis answer cache.
func (o *Orchestrator) WithCache(c *cache.AnswerCache) *Orchestrator {
	o.answerCache = c
	return o
}

// WithTranscripts enables transcript recording.
func (o *Orchestrator) WithTranscripts(sink transcript.Sink) *Orchestrator {
	o.transcripts = sink
	return o
}

// Handle runs the full pipeline for one inbound request. It never returns
// nil and never returns an error: every failure downgrades to a spoken
// fallback inside a valid envelope.
func (o *Orchestrator) Handle(ctx context.Context, req *alexa.Request) *alexa.Envelope {
	requestID := uuid.New().String()
	kind, utterance, attrs := alexa.Normalize(req)

	metrics.WebhookRequestsTotal.WithLabelValues(string(kind)).Inc()

	log := o.logger.With(map[string]interface{}{
		"requestId": requestID,
		"kind":      string(kind),
	})

	switch kind {
	case alexa.KindLaunch:
		o.record(log, &transcript.Entry{
			RequestID: requestID,
			Kind:      string(kind),
			Utterance: utterance,
			Answer:    alexa.WelcomeText,
		})
		return alexa.Build(alexa.WelcomeText, kind, attrs)
	case alexa.KindSessionEnded:
		o.record(log, &transcript.Entry{
			RequestID: requestID,
			Kind:      string(kind),
			Utterance: utterance,
			Answer:    alexa.GoodbyeText,
		})
		return alexa.Build(alexa.GoodbyeText, kind, attrs)
	}

	selected := o.selectProvider(utterance)
	log = log.With(map[string]interface{}{"provider": selected.Name()})

	answer, err := o.answer(ctx, selected, utterance)
	if err != nil {
		text := fallbackText(err)
		log.WithError(err).Warn("provider call failed, returning fallback", map[string]interface{}{
			"fallback": text,
		})
		o.record(log, &transcript.Entry{
			RequestID: requestID,
			Kind:      string(kind),
			Utterance: utterance,
			Provider:  selected.Name(),
			Answer:    text,
			Fallback:  true,
		})
		return alexa.Build(text, kind, attrs)
	}

	log.Info("answered utterance", map[string]interface{}{
		"answerLength": len(answer),
	})
	o.record(log, &transcript.Entry{
		RequestID: requestID,
		Kind:      string(kind),
		Utterance: utterance,
		Provider:  selected.Name(),
		Answer:    answer,
	})
	return alexa.Build(answer, kind, attrs)
}

// Apology builds the terminal envelope returned alongside a 500 when the
// inbound body could not be parsed at all.
func (o *Orchestrator) Apology() *alexa.Envelope {
	metrics.FallbacksTotal.WithLabelValues("MALFORMED_INBOUND_BODY").Inc()
	return alexa.BuildTerminal(ApologyText, nil)
}

func (o *Orchestrator) selectProvider(utterance string) provider.Provider {
	if o.classifier.Classify(utterance) == classify.LiveLookup {
		return o.liveLookup
	}
	return o.conversational
}

func (o *Orchestrator) answer(ctx context.Context, p provider.Provider, utterance string) (string, error) {
	if o.answerCache != nil {
		if answer, ok := o.answerCache.Get(ctx, p.Name(), utterance); ok {
			metrics.CacheHitsTotal.WithLabelValues(p.Name()).Inc()
			return answer, nil
		}
	}

	start := time.Now()
	answer, err := p.Answer(ctx, utterance)
	metrics.ProviderCallDuration.WithLabelValues(p.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProviderCallsTotal.WithLabelValues(p.Name(), "error").Inc()
		metrics.FallbacksTotal.WithLabelValues(codeOf(err)).Inc()
		return "", err
	}
	metrics.ProviderCallsTotal.WithLabelValues(p.Name(), "success").Inc()

	if o.answerCache != nil {
		o.answerCache.Set(ctx, p.Name(), utterance, answer)
	}
	return answer, nil
}

// record dispatches the entry off the reply path. The sink gets its own
// bounded context: the voice reply must never wait on transcript storage.
func (o *Orchestrator) record(log logger.Logger, entry *transcript.Entry) {
	if o.transcripts == nil {
		return
	}
	entry.Timestamp = time.Now().UTC()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), transcriptTimeout)
		defer cancel()
		if err := o.transcripts.Record(ctx, entry); err != nil {
			log.WithError(err).Warn("failed to record transcript entry", nil)
		}
	}()
}

func fallbackText(err error) string {
	switch {
	case errors.Is(err, provider.ErrUnconfigured):
		return UnconfiguredText
	case errors.Is(err, provider.ErrMalformedResponse):
		return MalformedText
	default:
		return UnreachableText
	}
}

func codeOf(err error) string {
	switch {
	case errors.Is(err, provider.ErrUnconfigured):
		return "PROVIDER_UNCONFIGURED"
	case errors.Is(err, provider.ErrMalformedResponse):
		return "PROVIDER_MALFORMED_RESPONSE"
	default:
		return "PROVIDER_UNREACHABLE"
	}
}
