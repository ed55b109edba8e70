// Package schema models the provider schema document produced by
// `terraform providers schema -json`, flattens a resource's nested block
// definition into a canonical argument/block-tree summary, and renders that
// summary as the shared textual context for generation.
package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Document is the top-level provider schema document.
type Document struct {
	FormatVersion   string                     `json:"format_version"`
	ProviderSchemas map[string]*ProviderSchema `json:"provider_schemas"`
}

// ProviderSchema holds all schemas exported for one provider address.
type ProviderSchema struct {
	ResourceSchemas map[string]*ResourceSchema `json:"resource_schemas"`
}

// ResourceSchema is one resource type's schema.
type ResourceSchema struct {
	Version int64  `json:"version"`
	Block   *Block `json:"block"`
}

// Block is one nestable block definition. Attribute and block-type order
// follows the document's own enumeration order; no re-sorting happens here.
type Block struct {
	Attributes []NamedAttribute
	BlockTypes []NamedBlockType
}

// AttributeDef is one attribute's schema flags.
type AttributeDef struct {
	Type        json.RawMessage `json:"type"`
	Description string          `json:"description"`
	Required    bool            `json:"required"`
	Optional    bool            `json:"optional"`
	Computed    bool            `json:"computed"`
}

// BlockTypeDef is one nested block type.
type BlockTypeDef struct {
	NestingMode string `json:"nesting_mode"`
	Block       *Block `json:"block"`
	MinItems    int    `json:"min_items"`
	MaxItems    int    `json:"max_items"`
}

// NamedAttribute pairs an attribute name with its definition, preserving
// document order.
type NamedAttribute struct {
	Name string
	Def  AttributeDef
}

// NamedBlockType pairs a block type name with its definition, preserving
// document order.
type NamedBlockType struct {
	Name string
	Def  BlockTypeDef
}

// UnmarshalJSON decodes a block while keeping the enumeration order of its
// "attributes" and "block_types" objects. encoding/json maps would lose it,
// so the two objects are walked token by token.
func (b *Block) UnmarshalJSON(data []byte) error {
	var raw struct {
		Attributes json.RawMessage `json:"attributes"`
		BlockTypes json.RawMessage `json:"block_types"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if len(raw.Attributes) > 0 {
		if err := decodeOrdered(raw.Attributes, func(name string, value json.RawMessage) error {
			var def AttributeDef
			if err := json.Unmarshal(value, &def); err != nil {
				return fmt.Errorf("attribute %q: %w", name, err)
			}
			b.Attributes = append(b.Attributes, NamedAttribute{Name: name, Def: def})
			return nil
		}); err != nil {
			return err
		}
	}

	if len(raw.BlockTypes) > 0 {
		if err := decodeOrdered(raw.BlockTypes, func(name string, value json.RawMessage) error {
			var def BlockTypeDef
			if err := json.Unmarshal(value, &def); err != nil {
				return fmt.Errorf("block type %q: %w", name, err)
			}
			b.BlockTypes = append(b.BlockTypes, NamedBlockType{Name: name, Def: def})
			return nil
		}); err != nil {
			return err
		}
	}
	return nil
}

// decodeOrdered walks a JSON object and calls fn for each key in document
// order, handing it the key's raw value.
func decodeOrdered(data json.RawMessage, fn func(name string, value json.RawMessage) error) error {
	dec := json.NewDecoder(strings.NewReader(string(data)))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", keyTok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("value for key %q: %w", key, err)
		}
		if err := fn(key, value); err != nil {
			return err
		}
	}
	_, err = dec.Token() // closing brace
	return err
}

// LoadDocument reads and decodes a schema document from disk.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema document %s: %w", path, err)
	}
	return ParseDocument(data)
}

// ParseDocument decodes a schema document from raw JSON.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode schema document: %w", err)
	}
	return &doc, nil
}

// resourcesFor returns the resource catalog for a provider address. The full
// registry address is tried first, then a suffix match so documents exported
// with a different registry host still resolve.
func (d *Document) resourcesFor(providerAddr string) map[string]*ResourceSchema {
	if ps, ok := d.ProviderSchemas[providerAddr]; ok {
		return ps.ResourceSchemas
	}
	suffix := providerAddr
	if i := strings.Index(providerAddr, "/"); i >= 0 {
		suffix = providerAddr[i:]
	}
	for addr, ps := range d.ProviderSchemas {
		if strings.HasSuffix(addr, suffix) {
			return ps.ResourceSchemas
		}
	}
	return nil
}
