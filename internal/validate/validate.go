// Package validate enforces structural and naming consistency across the
// generated artifacts. The three artifacts are synthesized by independent
// backend calls, so agreement between them is checked here rather than
// assumed: the resource's local naming token must be textually identical in
// the body and outputs artifacts, and each artifact must contain exactly the
// structure the module contract requires.
package validate

import (
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"

	"tfsmith/internal/logging"
)

// NamingMismatchError reports disagreeing naming tokens between the body and
// outputs artifacts, or a token that could not be located.
type NamingMismatchError struct {
	ResourceType string
	BodyToken    string
	OutputsToken string
}

func (e *NamingMismatchError) Error() string {
	if e.OutputsToken == "" {
		return fmt.Sprintf("%s: naming token could not be located in outputs (body uses %q)",
			e.ResourceType, e.BodyToken)
	}
	return fmt.Sprintf("%s: naming token mismatch: body uses %q, outputs references %q",
		e.ResourceType, e.BodyToken, e.OutputsToken)
}

// StructuralError reports a missing or duplicated required element.
type StructuralError struct {
	ResourceType string
	Detail       string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s: %s", e.ResourceType, e.Detail)
}

// CheckModule verifies that bodyText contains exactly one resource block of
// the expected type, that outputsText contains exactly one output named
// "id", and that both reference the same naming token. A failing check must
// block writing the module.
func CheckModule(bodyText, outputsText, resourceType string) error {
	bodyToken, err := bodyNamingToken(bodyText, resourceType)
	if err != nil {
		return err
	}
	outputsToken, err := outputsNamingToken(outputsText, resourceType)
	if err != nil {
		var mismatch *NamingMismatchError
		if errors.As(err, &mismatch) {
			mismatch.BodyToken = bodyToken
		}
		return err
	}
	if bodyToken != outputsToken {
		logging.ValidateError("%s: body token %q != outputs token %q", resourceType, bodyToken, outputsToken)
		return &NamingMismatchError{
			ResourceType: resourceType,
			BodyToken:    bodyToken,
			OutputsToken: outputsToken,
		}
	}
	logging.ValidateDebug("%s: artifacts agree on naming token %q", resourceType, bodyToken)
	return nil
}

// bodyNamingToken parses the body artifact and returns the local identifier
// of the single resource block of the expected type.
func bodyNamingToken(bodyText, resourceType string) (string, error) {
	body, err := parse(bodyText, "main.tf", resourceType)
	if err != nil {
		return "", err
	}

	var tokens []string
	for _, block := range body.Blocks {
		if block.Type != "resource" {
			continue
		}
		if len(block.Labels) != 2 {
			return "", &StructuralError{
				ResourceType: resourceType,
				Detail:       fmt.Sprintf("resource block has %d labels, want 2", len(block.Labels)),
			}
		}
		if block.Labels[0] != resourceType {
			return "", &StructuralError{
				ResourceType: resourceType,
				Detail:       fmt.Sprintf("unexpected resource type %q in body", block.Labels[0]),
			}
		}
		tokens = append(tokens, block.Labels[1])
	}
	if len(tokens) != 1 {
		return "", &StructuralError{
			ResourceType: resourceType,
			Detail:       fmt.Sprintf("body contains %d resource blocks of type %s, want exactly 1", len(tokens), resourceType),
		}
	}
	return tokens[0], nil
}

// outputsNamingToken parses the outputs artifact and returns the naming
// token referenced by the single "id" output's value traversal
// <resourceType>.<token>.id.
func outputsNamingToken(outputsText, resourceType string) (string, error) {
	body, err := parse(outputsText, "outputs.tf", resourceType)
	if err != nil {
		return "", err
	}

	var idOutputs []*hclsyntax.Block
	for _, block := range body.Blocks {
		if block.Type != "output" {
			continue
		}
		if len(block.Labels) == 1 && block.Labels[0] == "id" {
			idOutputs = append(idOutputs, block)
		}
	}
	if len(idOutputs) != 1 {
		return "", &StructuralError{
			ResourceType: resourceType,
			Detail:       fmt.Sprintf("outputs contains %d outputs named id, want exactly 1", len(idOutputs)),
		}
	}

	valueAttr, ok := idOutputs[0].Body.Attributes["value"]
	if !ok {
		return "", &StructuralError{ResourceType: resourceType, Detail: "id output has no value"}
	}
	// A value that is not a <type>.<name>.id traversal means the naming
	// token cannot be located at all.
	traversal, ok := valueAttr.Expr.(*hclsyntax.ScopeTraversalExpr)
	if !ok || len(traversal.Traversal) != 3 {
		return "", &NamingMismatchError{ResourceType: resourceType}
	}

	root, ok := traversal.Traversal[0].(hcl.TraverseRoot)
	if !ok || root.Name != resourceType {
		return "", &StructuralError{
			ResourceType: resourceType,
			Detail:       fmt.Sprintf("id output does not reference resource type %s", resourceType),
		}
	}
	tokenStep, ok := traversal.Traversal[1].(hcl.TraverseAttr)
	if !ok {
		return "", &NamingMismatchError{ResourceType: resourceType}
	}
	attrStep, ok := traversal.Traversal[2].(hcl.TraverseAttr)
	if !ok || attrStep.Name != "id" {
		return "", &StructuralError{ResourceType: resourceType, Detail: "id output does not reference the id attribute"}
	}
	return tokenStep.Name, nil
}

func parse(src, filename, resourceType string) (*hclsyntax.Body, error) {
	file, diags := hclsyntax.ParseConfig([]byte(src), filename, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, &StructuralError{
			ResourceType: resourceType,
			Detail:       fmt.Sprintf("%s is not valid HCL: %s", filename, diags.Error()),
		}
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, &StructuralError{ResourceType: resourceType, Detail: filename + ": unexpected body type"}
	}
	return body, nil
}
