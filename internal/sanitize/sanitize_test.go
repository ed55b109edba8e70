package sanitize

import (
	"errors"
	"strings"
	"testing"
)

const fence = "```"

func TestCleanPassthrough(t *testing.T) {
	in := "resource \"azurerm_storage_account\" \"st\" {\n  name = var.name\n}"
	got, err := Clean(in)
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if got != in {
		t.Errorf("Clean text must pass through unchanged.\nGot: %q", got)
	}
}

func TestCleanStripsFences(t *testing.T) {
	body := "resource \"azurerm_storage_account\" \"st\" {\n  name = var.name\n}"

	cases := map[string]string{
		"bare fence":      fence + "\n" + body + fence,
		"language tag":    fence + "hcl\n" + body + fence,
		"terraform tag":   fence + "terraform\n" + body + fence,
		"leading chatter": "Here is your file:\n" + fence + "hcl\n" + body + fence,
	}
	for name, in := range cases {
		got, err := Clean(in)
		if err != nil {
			t.Fatalf("%s: Clean failed: %v", name, err)
		}
		if !strings.Contains(got, "name = var.name") {
			t.Errorf("%s: fence content lost: %q", name, got)
		}
		if strings.Contains(got, "`") {
			t.Errorf("%s: backticks survived: %q", name, got)
		}
	}
}

func TestCleanStripsMultipleFences(t *testing.T) {
	in := fence + "hcl\nvariable \"a\" {}\n" + fence + "\nand also:\n" + fence + "\nvariable \"b\" {}\n" + fence
	got, err := Clean(in)
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if !strings.Contains(got, `variable "a"`) || !strings.Contains(got, `variable "b"`) {
		t.Errorf("Both fenced sections must unwrap: %q", got)
	}
}

func TestCleanStripsBlockComments(t *testing.T) {
	in := "/** This file was generated for you. */\nvariable \"name\" {\n  type = string\n}"
	got, err := Clean(in)
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if strings.Contains(got, "generated for you") {
		t.Errorf("Block comment survived: %q", got)
	}
	if !strings.HasPrefix(got, `variable "name"`) {
		t.Errorf("Expected text to start at the variable block: %q", got)
	}
}

func TestCleanStripsInvisibleRunes(t *testing.T) {
	// ZWSP after "variable", BOM after "string", NBSP before the brace.
	in := "variable\u200B \"name\"\u00A0{\n  type = string\uFEFF\n}"
	got, err := Clean(in)
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	for _, r := range []rune{'\u200B', '\u200C', '\u200D', '\uFEFF', '\u00A0'} {
		if strings.ContainsRune(got, r) {
			t.Errorf("Invisible rune %U survived: %q", r, got)
		}
	}
}

func TestCleanIdempotent(t *testing.T) {
	inputs := []string{
		fence + "hcl\nvariable \"a\" { type = string }\n" + fence,
		"/** hi */\noutput \"id\" { value = azurerm_lb.lbi.id }",
		"plain text with\u200B artifacts\u00A0here",
	}
	for _, in := range inputs {
		once, err := Clean(in)
		if err != nil {
			t.Fatalf("Clean failed: %v", err)
		}
		twice, err := Clean(once)
		if err != nil {
			t.Fatalf("Second Clean failed: %v", err)
		}
		if once != twice {
			t.Errorf("Clean is not idempotent:\nonce:  %q\ntwice: %q", once, twice)
		}
	}
}

func TestCleanNothingUsable(t *testing.T) {
	// Non-empty input that reduces to nothing is an error, not silent
	// success.
	_, err := Clean(fence + "\n" + fence)
	if err == nil {
		t.Fatal("Expected error when nothing usable remains")
	}
	var encErr *EncodingError
	if !errors.As(err, &encErr) {
		t.Fatalf("Expected EncodingError, got %T: %v", err, err)
	}
}

func TestCleanEmptyInput(t *testing.T) {
	got, err := Clean("")
	if err != nil {
		t.Fatalf("Empty input must not error: %v", err)
	}
	if got != "" {
		t.Errorf("Expected empty output, got %q", got)
	}
}
