package pipeline

import (
	"context"
	"sync"

	"tfsmith/internal/logging"
	"tfsmith/internal/prompt"
)

// generationResult is one artifact's raw outcome.
type generationResult struct {
	Kind prompt.Kind
	Raw  string
	Err  error
}

// generateAll dispatches the payloads to the backend concurrently and waits
// for all of them. The requests are deliberately independent — no shared
// conversation state, no ordering — which shifts the burden of
// cross-artifact agreement onto the literal instructions and the post-hoc
// consistency check. Partial results from failed requests never leave this
// function as successes.
func (p *Pipeline) generateAll(ctx context.Context, payloads []prompt.Payload) []generationResult {
	results := make([]generationResult, len(payloads))

	var wg sync.WaitGroup
	for i, payload := range payloads {
		wg.Add(1)
		go func(i int, payload prompt.Payload) {
			defer wg.Done()
			logging.GenerationDebug("dispatching %s payload to %s", payload.Kind, p.client.Name())
			raw, err := p.client.CompleteWithSystem(ctx, payload.System, payload.UserPrompt())
			if err != nil {
				results[i] = generationResult{Kind: payload.Kind, Err: &BackendError{Kind: payload.Kind, Err: err}}
				return
			}
			results[i] = generationResult{Kind: payload.Kind, Raw: raw}
		}(i, payload)
	}
	wg.Wait()

	return results
}
