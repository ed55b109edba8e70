package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"tfsmith/internal/config"
)

func TestNewClientFactory(t *testing.T) {
	// 1. Missing API key.
	if _, err := NewClient(config.LLMConfig{Provider: "openai"}); err == nil {
		t.Error("Expected error for missing API key")
	}

	// 2. OpenAI.
	client, err := NewClient(config.LLMConfig{Provider: "openai", APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("Failed to create openai client: %v", err)
	}
	if _, ok := client.(*OpenAIClient); !ok {
		t.Errorf("Expected *OpenAIClient, got %T", client)
	}

	// 3. Unknown backend.
	if _, err := NewClient(config.LLMConfig{Provider: "mystery", APIKey: "k"}); err == nil {
		t.Error("Expected error for unknown backend")
	}
}

func TestOpenAIClientComplete(t *testing.T) {
	var gotAuth string
	var gotReq openAIRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "output \"id\" {}\n"}},
			},
		})
	}))
	defer srv.Close()

	c := NewOpenAIClient(config.LLMConfig{
		Provider: "openai",
		APIKey:   "sk-test",
		Model:    "gpt-4o",
		BaseURL:  srv.URL,
	})

	got, err := c.CompleteWithSystem(context.Background(), "You generate Terraform.", "Generate outputs.tf")
	if err != nil {
		t.Fatalf("CompleteWithSystem failed: %v", err)
	}
	if got != `output "id" {}` {
		t.Errorf("Unexpected completion: %q", got)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("Unexpected auth header: %q", gotAuth)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" || gotReq.Messages[1].Role != "user" {
		t.Errorf("Unexpected message layout: %+v", gotReq.Messages)
	}
	if gotReq.Temperature != 0.2 {
		t.Errorf("Expected temperature 0.2, got %v", gotReq.Temperature)
	}
}

func TestOpenAIClientCompleteNoSystem(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req openAIRequest
		json.NewDecoder(r.Body).Decode(&req)
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" {
			t.Errorf("Expected single user message, got %+v", req.Messages)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "ok"}},
			},
		})
	}))
	defer srv.Close()

	c := NewOpenAIClient(config.LLMConfig{APIKey: "k", BaseURL: srv.URL})
	if _, err := c.Complete(context.Background(), "hello"); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
}

func TestOpenAIClientAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "model overloaded"},
		})
	}))
	defer srv.Close()

	c := NewOpenAIClient(config.LLMConfig{APIKey: "k", BaseURL: srv.URL})
	_, err := c.Complete(context.Background(), "hello")
	if err == nil {
		t.Fatal("Expected API error to surface")
	}
}

func TestOpenAIClientEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer srv.Close()

	c := NewOpenAIClient(config.LLMConfig{APIKey: "k", BaseURL: srv.URL})
	if _, err := c.Complete(context.Background(), "hello"); err == nil {
		t.Fatal("Expected error for empty choices")
	}
}
