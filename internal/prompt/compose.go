// Package prompt builds the instruction payloads sent to the generation
// backend. Each artifact kind gets a fully-specified, literal rule set: the
// backend is non-deterministic, so nothing — typing, defaults, naming,
// structure, formatting — is left for it to decide. The three payloads share
// one rendered schema context verbatim, and the naming token is resolved
// in-process and injected into both the body and outputs payloads so the
// backend never performs the lookup itself.
package prompt

import (
	"fmt"
	"strings"

	"tfsmith/internal/logging"
)

// Kind identifies one generated artifact.
type Kind string

const (
	KindInputs  Kind = "inputs"  // variables.tf
	KindBody    Kind = "body"    // main.tf
	KindOutputs Kind = "outputs" // outputs.tf
)

// FileName returns the artifact's file name inside the module directory.
func (k Kind) FileName() string {
	switch k {
	case KindInputs:
		return "variables.tf"
	case KindBody:
		return "main.tf"
	case KindOutputs:
		return "outputs.tf"
	}
	return string(k)
}

// Payload is one fully-built instruction payload. Immutable once built.
type Payload struct {
	Kind           Kind
	System         string
	Task           string
	ExpectedOutput string
}

// UserPrompt returns the complete request text sent to the backend: the task
// followed by the expected-output description.
func (p Payload) UserPrompt() string {
	if p.ExpectedOutput == "" {
		return p.Task
	}
	return p.Task + "\n\nEXPECTED OUTPUT: " + p.ExpectedOutput
}

// ComposeInput carries everything a payload needs: the resource identity,
// the shared rendered schema context, the resolved naming token, and the
// optional documentation text.
type ComposeInput struct {
	ResourceType    string
	ResourceDisplay string // human-readable name, e.g. "Route Server"
	Context         string // rendered schema summary, shared by all kinds
	NamingToken     string
	DocText         string // reference documentation; may be empty
}

// Compose builds the payload for one artifact kind.
func Compose(kind Kind, in ComposeInput) Payload {
	var p Payload
	switch kind {
	case KindInputs:
		p = composeInputs(in)
	case KindBody:
		p = composeBody(in)
	case KindOutputs:
		p = composeOutputs(in)
	}
	logging.PromptDebug("composed %s payload for %s: task_len=%d", kind, in.ResourceType, len(p.Task))
	return p
}

// outputContract is appended to every payload: formatting and raw-output
// rules the backend must obey so artifacts can be written to .tf files
// directly.
const outputContract = `OUTPUT REQUIREMENTS:
- Output ONLY raw Terraform HCL code
- Use consistent indentation (2 spaces per level)
- Do NOT include any comments in the code
- Do NOT wrap the output in markdown code fences and do NOT use backtick characters
- Do NOT include any commentary, explanations, or extra text
- The output must be ready to write directly to a .tf file`

func composeInputs(in ComposeInput) Payload {
	var b strings.Builder
	b.WriteString(in.Context)
	b.WriteString("\n\n")

	if in.DocText != "" {
		b.WriteString("Use the markdown below to extract the exact description text for each argument and block.\n")
		b.WriteString("\n--- START MARKDOWN ---\n")
		b.WriteString(in.DocText)
		b.WriteString("\n--- END MARKDOWN ---\n\n")
	}

	b.WriteString(`Instructions for generating variables.tf:

1. VARIABLE INCLUSION:
   - Generate a valid variables.tf file
   - Include ALL variables from the schema, both required and optional
   - Do NOT include the Timeouts block as a variable

2. VARIABLE TYPES:
   - Use the correct Terraform type for each variable based on the schema
   - For simple types: use string, number, bool
   - For nested structures: use object({...}) or list(object({...})) mirroring the block tree's nesting exactly
   - For maps: use map(string), map(object({...})), etc.
   - For lists: use list(string), list(object({...})), etc.

3. DEFAULT VALUES:
   - All optional variables MUST have a default value
   - Required variables must NOT have a default value
   - Default values by type:
     * Optional string variables: default = null
     * Optional number variables: default = null
     * Optional bool variables: default = null
     * Optional object variables: default = {}
     * Optional map variables: default = {}
     * Optional list variables: default = []

4. OBJECT AND MAP DEFINITIONS:
   - When defining object() types, wrap each property with optional() if that property does not require input
   - Example: object({name = string, location = optional(string), tags = optional(map(string))})
   - For nested objects, apply optional() consistently at each nesting level

5. DESCRIPTIONS:
   - Every variable MUST have a description property
   - Copy the description text EXACTLY from the markdown documentation when available
   - The description property MUST be the LAST property in each variable block
   - For simple variables (string, number, bool, simple lists): use single-line or standard multi-line descriptions
   - For complex variables (objects, maps with multiple properties): use extensive descriptions with the format:
     description = <<DESCRIPTION
     [Main description from markdown]
     Properties:
     - property_name: description of this property
     - nested_property: description of nested property
     DESCRIPTION
   - The markers <<DESCRIPTION and DESCRIPTION are LITERAL text to be used

6. FORMATTING:
   - Place each variable in a separate variable block
   - Order variables logically: required variables first, then optional variables

`)
	b.WriteString(outputContract)

	return Payload{
		Kind:           KindInputs,
		System:         "You generate clean, accurate Terraform variable definitions based on schema structure and exact markdown documentation.",
		Task:           b.String(),
		ExpectedOutput: "Clean variables.tf with exact schema and literal description match.",
	}
}

func composeBody(in ComposeInput) Payload {
	var b strings.Builder
	b.WriteString(in.Context)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Generate a valid Terraform main.tf file that creates the resource %s.\n\n", in.ResourceType)

	fmt.Fprintf(&b, `Instructions for generating main.tf:

1. RESOURCE DEFINITION:
   - Create a single resource block for the resource type
   - Do NOT include a provider block or provider configuration
   - Do NOT include the Timeouts block

2. RESOURCE NAMING:
   - The resource label (local identifier after the resource type) MUST be exactly %[2]q
   - This label follows the Cloud Adoption Framework abbreviation for this resource type
   - Example: resource %[1]q %[2]q { ... }

3. VARIABLE REFERENCES:
   - Reference all simple arguments (strings, numbers, bools, simple lists) using var.variable_name
   - For required arguments: directly use var.variable_name
   - For optional arguments with defaults: use var.variable_name (Terraform will use the default if not provided)

4. DYNAMIC BLOCKS:
   - Use dynamic blocks ONLY for properties listed in the Nested Block Tree
   - Do NOT use dynamic blocks for simple arguments
   - Each dynamic block must use the exact block name from the schema

5. DYNAMIC BLOCK SYNTAX:
   - Use for_each with implicit iterators
   - The iterator name MUST match the block name (implicit iterator pattern)
   - Do NOT create custom iterator names
   - Access values using block_name.value syntax
   - Example:
     dynamic "identity" {
       for_each = var.identity != null ? [var.identity] : []
       content {
         type         = identity.value.type
         identity_ids = identity.value.identity_ids
       }
     }

6. NESTED DYNAMIC BLOCKS:
   - When nesting dynamic blocks, each level accesses its parent via parent_block_name.value
   - Do NOT use var.* to access variables inside nested content blocks
   - Access parent dynamic block properties only via the iterator value reference
   - Example:
     dynamic "site_config" {
       for_each = var.site_config != null ? [var.site_config] : []
       content {
         dynamic "cors" {
           for_each = site_config.value.cors != null ? [site_config.value.cors] : []
           content {
             allowed_origins = cors.value.allowed_origins
           }
         }
       }
     }

7. CONTENT BLOCKS:
   - Do NOT use content {} blocks at the root resource level
   - Content blocks should ONLY appear inside dynamic blocks
   - The content block defines the structure of each iteration in a dynamic block

8. CONDITIONAL LOGIC:
   - For optional object-shaped blocks, use conditional expressions in for_each:
     for_each = var.block_name != null ? [var.block_name] : []
   - For optional lists that may be empty:
     for_each = var.block_list != null ? var.block_list : []
   - This ensures the block is only created when the variable is provided
   - IMPORTANT: Do NOT combine both != null AND length() > 0 checks - choose ONE based on the default value

9. FORMATTING:
   - Place simple arguments before dynamic blocks
   - Order arguments alphabetically within each section for consistency

`, in.ResourceType, in.NamingToken)
	b.WriteString(outputContract)

	return Payload{
		Kind:           KindBody,
		System:         "You create a valid main.tf file referencing declared variables correctly.",
		Task:           b.String(),
		ExpectedOutput: "Valid main.tf file only.",
	}
}

func composeOutputs(in ComposeInput) Payload {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate an outputs.tf file for the resource %s.\n\n", in.ResourceType)

	fmt.Fprintf(&b, `Instructions for generating outputs.tf:

1. OUTPUT CONTENT:
   - Create a SINGLE output that exposes the resource ID
   - The output name must be: id
   - The output value must reference: %[1]s.%[2]s.id

2. RESOURCE REFERENCE:
   - The resource reference MUST use the local identifier %[2]q
   - This identifier matches the one used in main.tf exactly

3. OUTPUT STRUCTURE:
   - Include a description property in the output block
   - The description must be: "The ID of the %[3]s"
   - Example:
     output "id" {
       description = "The ID of the %[3]s"
       value       = %[1]s.%[2]s.id
     }

4. FORMATTING:
   - Align the description and value properties for readability

`, in.ResourceType, in.NamingToken, in.ResourceDisplay)
	b.WriteString(outputContract)

	return Payload{
		Kind:           KindOutputs,
		System:         "You generate helpful Terraform outputs for users to use in other modules.",
		Task:           b.String(),
		ExpectedOutput: "Terraform outputs.tf only.",
	}
}
