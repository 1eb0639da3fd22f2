package analysis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"

	lru "github.com/hashicorp/golang-lru/v2"

	"threatvisor/internal/llm"
)

// ErrServiceBusy is the single synthesized error for the case where the
// primary reported transient overload and the fallback attempt failed
// too. The raw secondary error is deliberately not propagated so the
// user-facing message stays stable.
var ErrServiceBusy = errors.New(
	"the analysis service is currently experiencing high demand and both primary and fallback services were unavailable; please try again in a few minutes")

const cacheSize = 128

// Orchestrator drives one analysis call against the primary model with
// exactly one fallback hop on transient overload. Beyond the network call
// it has no side effects: same request plus same collaborator responses,
// same outcome.
type Orchestrator struct {
	primary  llm.Client
	fallback llm.Client
	prompt   string
	cache    *lru.Cache[string, *Result]
}

// New builds an orchestrator. fallback may be nil, in which case an
// overloaded primary resolves straight to ErrServiceBusy.
func New(primary, fallback llm.Client) *Orchestrator {
	cache, _ := lru.New[string, *Result](cacheSize)
	return &Orchestrator{
		primary:  primary,
		fallback: fallback,
		prompt:   buildPrompt(),
		cache:    cache,
	}
}

// Analyze runs the request to completion. The request text is a snapshot;
// nothing the orchestrator does reads shared editor state.
//
// Failure contract: transient overload from the primary triggers exactly
// one fallback attempt; a fallback that fails for any reason collapses to
// ErrServiceBusy. Every other primary failure is fatal immediately, with
// auth/config failures kept typed so callers can show an actionable
// message. An unparseable or empty payload is ErrInvalidResponse, never
// an empty success.
func (o *Orchestrator) Analyze(ctx context.Context, req Request) (*Result, error) {
	key := requestKey(req)
	if res, ok := o.cache.Get(key); ok {
		return res, nil
	}

	input := promptInput{
		ArchitectureDescription:   req.DefinitionText,
		ThreatModelingMethodology: req.Methodology,
	}

	raw, err := o.primary.GenerateJSON(ctx, o.prompt, input)
	if err != nil {
		if !llm.IsOverloaded(err) {
			return nil, err
		}
		log.Printf("analysis: primary %s overloaded, trying fallback", o.primary.Name())
		if o.fallback == nil {
			return nil, ErrServiceBusy
		}
		raw, err = o.fallback.GenerateJSON(ctx, o.prompt, input)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			log.Printf("analysis: fallback %s failed: %v", o.fallback.Name(), err)
			return nil, ErrServiceBusy
		}
	}

	res, err := decodeResult(raw)
	if err != nil {
		return nil, err
	}
	o.cache.Add(key, res)
	return res, nil
}

func requestKey(req Request) string {
	h := sha256.New()
	h.Write([]byte(req.Methodology))
	h.Write([]byte{0})
	h.Write([]byte(req.DefinitionText))
	return hex.EncodeToString(h.Sum(nil))
}
