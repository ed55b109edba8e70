// Package pipeline coordinates one linear run per resource type: extract the
// schema summary, render the shared context, compose three instruction
// payloads, dispatch them to the generation backend, sanitize and
// cross-check the results, and write the module directory. Runs are fully
// self-contained; callers may execute runs for distinct resource types in
// parallel.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	multierror "github.com/hashicorp/go-multierror"

	"tfsmith/internal/config"
	"tfsmith/internal/llm"
	"tfsmith/internal/logging"
	"tfsmith/internal/naming"
	"tfsmith/internal/prompt"
	"tfsmith/internal/sanitize"
	"tfsmith/internal/schema"
	"tfsmith/internal/validate"
	"tfsmith/internal/writer"
)

// BackendError reports a generation request that could not be completed.
// It may be retried by the caller with backoff; the pipeline itself does
// not retry.
type BackendError struct {
	Kind prompt.Kind
	Err  error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("generation backend failed for %s: %v", e.Kind, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// DocFetcher supplies reference documentation text for a resource type.
// Empty text means no documentation is available.
type DocFetcher interface {
	Fetch(ctx context.Context, supplier, providerName, version, resourceType string) string
}

// Pipeline holds the collaborators shared by all runs. It carries no
// per-run mutable state.
type Pipeline struct {
	provider config.ProviderConfig
	doc      *schema.Document
	client   llm.Client
	docs     DocFetcher // optional
	writer   *writer.Writer
}

// New assembles a pipeline. docs may be nil when documentation fetching is
// disabled.
func New(doc *schema.Document, provider config.ProviderConfig, client llm.Client, docs DocFetcher, w *writer.Writer) *Pipeline {
	return &Pipeline{
		provider: provider,
		doc:      doc,
		client:   client,
		docs:     docs,
		writer:   w,
	}
}

// Run executes the full pipeline for one resource type and returns the
// module directory written. On failure the returned error names every
// failed stage and artifact; extraction and consistency failures abort
// before anything is written.
func (p *Pipeline) Run(ctx context.Context, resourceType string) (string, error) {
	runID := uuid.NewString()[:8]
	logging.Pipeline("[%s] starting run for %s", runID, resourceType)

	summary, err := schema.Extract(p.doc, p.provider.Address(), resourceType)
	if err != nil {
		return "", err
	}
	rendered := schema.Render(resourceType, summary)

	token, known := naming.Resolve(resourceType, p.provider.Name)
	if !known {
		logging.PipelineWarn("[%s] no CAF abbreviation for %s, derived token %q", runID, resourceType, token)
	}

	var docText string
	if p.docs != nil {
		docText = p.docs.Fetch(ctx, p.provider.Supplier, p.provider.Name, p.provider.Version, resourceType)
	}

	in := prompt.ComposeInput{
		ResourceType:    resourceType,
		ResourceDisplay: naming.DisplayName(resourceType, p.provider.Name),
		Context:         rendered,
		NamingToken:     token,
		DocText:         docText,
	}
	payloads := []prompt.Payload{
		prompt.Compose(prompt.KindInputs, in),
		prompt.Compose(prompt.KindBody, in),
		prompt.Compose(prompt.KindOutputs, in),
	}

	// All three generation attempts run to completion before any failure
	// surfaces, for the most complete diagnostic picture.
	results := p.generateAll(ctx, payloads)

	var errs *multierror.Error
	clean := make(map[prompt.Kind]string, len(results))
	for _, res := range results {
		if res.Err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", resourceType, res.Err))
			continue
		}
		text, err := sanitize.Clean(res.Raw)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: artifact %s: %w", resourceType, res.Kind, err))
			continue
		}
		clean[res.Kind] = text
	}

	// Partial results never reach the consistency check; a failing check
	// blocks the module write entirely.
	body, haveBody := clean[prompt.KindBody]
	outputs, haveOutputs := clean[prompt.KindOutputs]
	if haveBody && haveOutputs {
		if err := validate.CheckModule(body, outputs, resourceType); err != nil {
			return "", multierror.Append(errs, err).ErrorOrNil()
		}
	}

	if len(clean) == 0 {
		return "", errs.ErrorOrNil()
	}

	pin, err := writer.VersionPin(p.provider.Supplier, p.provider.Name, p.provider.Version)
	if err != nil {
		return "", multierror.Append(errs, fmt.Errorf("%s: %w", resourceType, err)).ErrorOrNil()
	}

	files := []writer.File{
		{Name: prompt.KindInputs.FileName(), Content: clean[prompt.KindInputs]},
		{Name: prompt.KindBody.FileName(), Content: body},
		{Name: prompt.KindOutputs.FileName(), Content: outputs},
		{Name: "terraform.tf", Content: pin},
	}
	dir, err := p.writer.Write(resourceType, files)
	if err != nil {
		return "", multierror.Append(errs, fmt.Errorf("%s: %w", resourceType, err)).ErrorOrNil()
	}

	if err := errs.ErrorOrNil(); err != nil {
		logging.PipelineError("[%s] run for %s failed: %v", runID, resourceType, err)
		return dir, err
	}
	logging.Pipeline("[%s] run for %s complete: %s", runID, resourceType, dir)
	return dir, nil
}
