package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"go.uber.org/goleak"

	"tfsmith/internal/config"
	"tfsmith/internal/prompt"
	"tfsmith/internal/sanitize"
	"tfsmith/internal/schema"
	"tfsmith/internal/validate"
	"tfsmith/internal/writer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

const pipelineSchemaDoc = `{
	"format_version": "1.0",
	"provider_schemas": {
		"registry.terraform.io/hashicorp/azurerm": {
			"resource_schemas": {
				"azurerm_storage_account": {
					"block": {
						"attributes": {
							"name": {"type": "string", "required": true},
							"resource_group_name": {"type": "string", "required": true},
							"location": {"type": "string", "required": true},
							"account_tier": {"type": "string", "required": true},
							"account_replication_type": {"type": "string", "required": true},
							"tags": {"type": ["map", "string"], "optional": true},
							"id": {"type": "string", "computed": true}
						}
					}
				}
			}
		}
	}
}`

var testProvider = config.ProviderConfig{Supplier: "hashicorp", Name: "azurerm", Version: "4.8.0"}

// mockClient routes each payload to a per-artifact response function.
type mockClient struct {
	CompleteWithSystemFunc func(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

func (m *mockClient) Complete(ctx context.Context, p string) (string, error) {
	return m.CompleteWithSystemFunc(ctx, "", p)
}

func (m *mockClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return m.CompleteWithSystemFunc(ctx, systemPrompt, userPrompt)
}

func (m *mockClient) Name() string { return "mock" }

// kindOf recognizes which artifact a task prompt requests.
func kindOf(userPrompt string) prompt.Kind {
	switch {
	case strings.Contains(userPrompt, "Instructions for generating variables.tf"):
		return prompt.KindInputs
	case strings.Contains(userPrompt, "Instructions for generating main.tf"):
		return prompt.KindBody
	case strings.Contains(userPrompt, "Instructions for generating outputs.tf"):
		return prompt.KindOutputs
	}
	return ""
}

func respondingClient(t *testing.T, responses map[prompt.Kind]string, fail map[prompt.Kind]error) *mockClient {
	t.Helper()
	return &mockClient{
		CompleteWithSystemFunc: func(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
			kind := kindOf(userPrompt)
			if kind == "" {
				t.Errorf("Unrecognized payload: %.80s", userPrompt)
				return "", errors.New("unrecognized payload")
			}
			if err, ok := fail[kind]; ok {
				return "", err
			}
			return responses[kind], nil
		},
	}
}

const (
	mockVariables = `variable "name" {
  type        = string
  description = "The name of the Storage Account."
}`
	mockBody = `resource "azurerm_storage_account" "st" {
  name                     = var.name
  resource_group_name      = var.resource_group_name
  location                 = var.location
  account_tier             = var.account_tier
  account_replication_type = var.account_replication_type
}`
	mockOutputs = `output "id" {
  description = "The ID of the Storage Account"
  value       = azurerm_storage_account.st.id
}`
)

func newTestPipeline(t *testing.T, client *mockClient) (*Pipeline, afero.Fs) {
	t.Helper()
	doc, err := schema.ParseDocument([]byte(pipelineSchemaDoc))
	if err != nil {
		t.Fatalf("Failed to parse schema document: %v", err)
	}
	fs := afero.NewMemMapFs()
	return New(doc, testProvider, client, nil, writer.NewWithFs(fs, "modules")), fs
}

func TestRunSuccess(t *testing.T) {
	client := respondingClient(t, map[prompt.Kind]string{
		prompt.KindInputs:  mockVariables,
		prompt.KindBody:    mockBody,
		prompt.KindOutputs: mockOutputs,
	}, nil)
	p, fs := newTestPipeline(t, client)

	dir, err := p.Run(context.Background(), "azurerm_storage_account")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if dir != filepath.Join("modules", "azurerm_storage_account") {
		t.Errorf("Unexpected module dir: %q", dir)
	}

	for _, name := range []string{"variables.tf", "main.tf", "outputs.tf", "terraform.tf"} {
		data, err := afero.ReadFile(fs, filepath.Join(dir, name))
		if err != nil {
			t.Errorf("%s not written: %v", name, err)
			continue
		}
		if len(data) == 0 {
			t.Errorf("%s is empty", name)
		}
	}

	pin, _ := afero.ReadFile(fs, filepath.Join(dir, "terraform.tf"))
	if !strings.Contains(string(pin), "hashicorp/azurerm") || !strings.Contains(string(pin), "~> 4.8.0") {
		t.Errorf("Version pin incomplete:\n%s", pin)
	}
}

func TestRunSendsExpectedOutputToBackend(t *testing.T) {
	// Each backend request must carry its artifact's expected-output
	// description, not just the task rules.
	var mu sync.Mutex
	requests := make(map[prompt.Kind]string)

	client := &mockClient{
		CompleteWithSystemFunc: func(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
			mu.Lock()
			requests[kindOf(userPrompt)] = userPrompt
			mu.Unlock()
			switch kindOf(userPrompt) {
			case prompt.KindInputs:
				return mockVariables, nil
			case prompt.KindBody:
				return mockBody, nil
			default:
				return mockOutputs, nil
			}
		},
	}
	p, _ := newTestPipeline(t, client)

	if _, err := p.Run(context.Background(), "azurerm_storage_account"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	expected := map[prompt.Kind]string{
		prompt.KindInputs:  "Clean variables.tf with exact schema and literal description match.",
		prompt.KindBody:    "Valid main.tf file only.",
		prompt.KindOutputs: "Terraform outputs.tf only.",
	}
	for kind, want := range expected {
		req, ok := requests[kind]
		if !ok {
			t.Errorf("No backend request recorded for %s", kind)
			continue
		}
		if !strings.Contains(req, "EXPECTED OUTPUT: "+want) {
			t.Errorf("%s request missing expected-output description %q", kind, want)
		}
	}
}

func TestRunSanitizesFencedOutput(t *testing.T) {
	// The backend wraps artifacts in markdown fences; the pipeline must
	// strip them before validation and writing.
	client := respondingClient(t, map[prompt.Kind]string{
		prompt.KindInputs:  "```hcl\n" + mockVariables + "\n```",
		prompt.KindBody:    "```hcl\n" + mockBody + "\n```",
		prompt.KindOutputs: "```\n" + mockOutputs + "\n```",
	}, nil)
	p, fs := newTestPipeline(t, client)

	dir, err := p.Run(context.Background(), "azurerm_storage_account")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	data, err := afero.ReadFile(fs, filepath.Join(dir, "main.tf"))
	if err != nil {
		t.Fatalf("main.tf not written: %v", err)
	}
	if strings.Contains(string(data), "```") {
		t.Errorf("Fences survived sanitization:\n%s", data)
	}
	if !strings.HasPrefix(string(data), `resource "azurerm_storage_account" "st"`) {
		t.Errorf("Unexpected main.tf content:\n%s", data)
	}
}

func TestRunNamingMismatchBlocksAllWrites(t *testing.T) {
	mismatched := strings.ReplaceAll(mockOutputs, ".st.", ".stacct.")
	client := respondingClient(t, map[prompt.Kind]string{
		prompt.KindInputs:  mockVariables,
		prompt.KindBody:    mockBody,
		prompt.KindOutputs: mismatched,
	}, nil)
	p, fs := newTestPipeline(t, client)

	dir, err := p.Run(context.Background(), "azurerm_storage_account")
	if err == nil {
		t.Fatal("Expected naming mismatch error")
	}
	var mismatch *validate.NamingMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("Expected NamingMismatchError, got %T: %v", err, err)
	}
	if dir != "" {
		t.Errorf("Expected no module dir on mismatch, got %q", dir)
	}

	// Nothing may be written, not even the artifacts that looked fine.
	exists, _ := afero.DirExists(fs, filepath.Join("modules", "azurerm_storage_account"))
	if exists {
		t.Error("Module dir must not exist after a failed consistency check")
	}
}

func TestRunPartialBackendFailure(t *testing.T) {
	// One artifact fails; the other two still complete, pass the
	// consistency check, and get written. The run still reports failure.
	client := respondingClient(t, map[prompt.Kind]string{
		prompt.KindBody:    mockBody,
		prompt.KindOutputs: mockOutputs,
	}, map[prompt.Kind]error{
		prompt.KindInputs: errors.New("backend timeout"),
	})
	p, fs := newTestPipeline(t, client)

	dir, err := p.Run(context.Background(), "azurerm_storage_account")
	if err == nil {
		t.Fatal("Expected run to report the failed artifact")
	}
	var backendErr *BackendError
	if !errors.As(err, &backendErr) {
		t.Fatalf("Expected BackendError, got %T: %v", err, err)
	}
	if backendErr.Kind != prompt.KindInputs {
		t.Errorf("Expected inputs failure, got %s", backendErr.Kind)
	}

	if ok, _ := afero.Exists(fs, filepath.Join(dir, "main.tf")); !ok {
		t.Error("main.tf must be written despite the inputs failure")
	}
	if ok, _ := afero.Exists(fs, filepath.Join(dir, "outputs.tf")); !ok {
		t.Error("outputs.tf must be written despite the inputs failure")
	}
	if ok, _ := afero.Exists(fs, filepath.Join(dir, "variables.tf")); ok {
		t.Error("variables.tf must not exist for the failed artifact")
	}
}

func TestRunAllBackendCallsFail(t *testing.T) {
	client := &mockClient{
		CompleteWithSystemFunc: func(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
			return "", errors.New("backend down")
		},
	}
	p, fs := newTestPipeline(t, client)

	dir, err := p.Run(context.Background(), "azurerm_storage_account")
	if err == nil {
		t.Fatal("Expected error when every backend call fails")
	}
	if dir != "" {
		t.Errorf("Expected no module dir, got %q", dir)
	}
	if exists, _ := afero.DirExists(fs, filepath.Join("modules", "azurerm_storage_account")); exists {
		t.Error("Module dir must not exist when no artifact was produced")
	}
}

func TestRunUnusableArtifact(t *testing.T) {
	// An artifact that sanitizes down to nothing counts as failed.
	client := respondingClient(t, map[prompt.Kind]string{
		prompt.KindInputs:  "```\n```",
		prompt.KindBody:    mockBody,
		prompt.KindOutputs: mockOutputs,
	}, nil)
	p, _ := newTestPipeline(t, client)

	_, err := p.Run(context.Background(), "azurerm_storage_account")
	if err == nil {
		t.Fatal("Expected error for unusable artifact")
	}
	var encErr *sanitize.EncodingError
	if !errors.As(err, &encErr) {
		t.Fatalf("Expected EncodingError, got %T: %v", err, err)
	}
}

func TestRunUnknownResourceType(t *testing.T) {
	client := respondingClient(t, nil, nil)
	p, _ := newTestPipeline(t, client)

	_, err := p.Run(context.Background(), "azurerm_nonexistent")
	var notFound *schema.ResourceNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Expected ResourceNotFoundError, got %T: %v", err, err)
	}
}

// staticDocs returns fixed documentation text.
type staticDocs struct{ text string }

func (d staticDocs) Fetch(ctx context.Context, supplier, providerName, version, resourceType string) string {
	return d.text
}

func TestRunPassesDocsToInputsPayload(t *testing.T) {
	var sawDocs bool
	client := &mockClient{
		CompleteWithSystemFunc: func(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
			if kindOf(userPrompt) == prompt.KindInputs && strings.Contains(userPrompt, "Manages a Storage Account") {
				sawDocs = true
			}
			switch kindOf(userPrompt) {
			case prompt.KindInputs:
				return mockVariables, nil
			case prompt.KindBody:
				return mockBody, nil
			default:
				return mockOutputs, nil
			}
		},
	}

	doc, err := schema.ParseDocument([]byte(pipelineSchemaDoc))
	if err != nil {
		t.Fatalf("Failed to parse schema document: %v", err)
	}
	fs := afero.NewMemMapFs()
	p := New(doc, testProvider, client, staticDocs{text: "Manages a Storage Account."},
		writer.NewWithFs(fs, "modules"))

	if _, err := p.Run(context.Background(), "azurerm_storage_account"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !sawDocs {
		t.Error("Documentation text never reached the inputs payload")
	}
}
