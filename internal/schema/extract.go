package schema

import (
	"fmt"

	"tfsmith/internal/logging"
)

// Attribute is one schema field surfaced as a module variable.
type Attribute struct {
	Name     string `json:"name"`
	Required bool   `json:"required"`
}

// BlockNode is one nestable configuration block in the flattened tree.
type BlockNode struct {
	Name       string      `json:"name"`
	MinItems   int         `json:"min_items"`
	Attributes []Attribute `json:"attributes"`
	Blocks     []BlockNode `json:"blocks"`
}

// Summary is the full normalized representation of one resource type:
// top-level arguments plus the nested block tree. It is produced once per
// run and never mutated afterward.
type Summary struct {
	Arguments []Attribute `json:"arguments"`
	BlockTree []BlockNode `json:"block_tree"`
}

// ResourceNotFoundError reports a schema lookup miss.
type ResourceNotFoundError struct {
	ProviderAddr string
	ResourceType string
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("resource type %q not found in schema for provider %s", e.ResourceType, e.ProviderAddr)
}

// Extract flattens a resource's nested block definition into a Summary.
// Attributes are included iff required or not computed; computed-only fields
// are server-assigned and never become variables. Attribute and block order
// follows the document's enumeration order.
func Extract(doc *Document, providerAddr, resourceType string) (*Summary, error) {
	resources := doc.resourcesFor(providerAddr)
	res, ok := resources[resourceType]
	if !ok || res.Block == nil {
		return nil, &ResourceNotFoundError{ProviderAddr: providerAddr, ResourceType: resourceType}
	}

	args, blocks := flattenBlock(res.Block)
	logging.SchemaDebug("extracted %s: %d arguments, %d top-level blocks",
		resourceType, len(args), len(blocks))
	return &Summary{Arguments: args, BlockTree: blocks}, nil
}

// flattenBlock is the depth-first recursive descent over one block.
func flattenBlock(block *Block) ([]Attribute, []BlockNode) {
	var attrs []Attribute
	for _, a := range block.Attributes {
		if !a.Def.Required && a.Def.Computed {
			continue
		}
		attrs = append(attrs, Attribute{Name: a.Name, Required: a.Def.Required})
	}

	var blocks []BlockNode
	for _, bt := range block.BlockTypes {
		var childAttrs []Attribute
		var childBlocks []BlockNode
		if bt.Def.Block != nil {
			childAttrs, childBlocks = flattenBlock(bt.Def.Block)
		}
		blocks = append(blocks, BlockNode{
			Name:       bt.Name,
			MinItems:   bt.Def.MinItems,
			Attributes: childAttrs,
			Blocks:     childBlocks,
		})
	}
	return attrs, blocks
}
