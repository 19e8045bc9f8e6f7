package entities

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"
)

// MethodNode is one node of a bill of materials / routing tree. Quantity is
// always per one unit of the immediate parent, never per root.
type MethodNode struct {
	ItemID         string        `json:"itemId" yaml:"itemId"`
	ItemReadableID string        `json:"itemReadableId" yaml:"itemReadableId"`
	Description    string        `json:"description,omitempty" yaml:"description,omitempty"`
	Quantity       float64       `json:"quantity" yaml:"quantity"`
	UnitOfMeasure  string        `json:"unitOfMeasureCode,omitempty" yaml:"unitOfMeasureCode,omitempty"`
	UnitCost       float64       `json:"unitCost" yaml:"unitCost"`
	MethodType     MethodType    `json:"methodType" yaml:"methodType"`
	ItemType       ItemType      `json:"itemType" yaml:"itemType"`
	MakeMethodID   string        `json:"makeMethodId,omitempty" yaml:"makeMethodId,omitempty"`
	Version        string        `json:"version,omitempty" yaml:"version,omitempty"`
	Children       []*MethodNode `json:"children,omitempty" yaml:"children,omitempty"`

	// missing lists required numeric fields absent from a decoded document
	missing []string
}

// plainMethodNode has MethodNode's fields without its decode methods
type plainMethodNode MethodNode

// requiredFields records which required numeric fields a document carried.
// An explicit null counts as absent.
type requiredFields struct {
	Quantity *float64 `yaml:"quantity"`
	UnitCost *float64 `yaml:"unitCost"`
}

func (r requiredFields) missing() []string {
	var names []string
	if r.Quantity == nil {
		names = append(names, "quantity")
	}
	if r.UnitCost == nil {
		names = append(names, "unitCost")
	}
	return names
}

// UnmarshalJSON decodes a node and remembers absent required fields so that
// Validate rejects them instead of treating them as zero.
func (n *MethodNode) UnmarshalJSON(data []byte) error {
	// the outer fields shadow the embedded node's quantity and unit cost
	var doc struct {
		*plainMethodNode
		Quantity *float64 `json:"quantity"`
		UnitCost *float64 `json:"unitCost"`
	}
	doc.plainMethodNode = (*plainMethodNode)(n)
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	n.applyRequired(requiredFields{Quantity: doc.Quantity, UnitCost: doc.UnitCost})
	return nil
}

// UnmarshalYAML is the YAML counterpart of UnmarshalJSON
func (n *MethodNode) UnmarshalYAML(value *yaml.Node) error {
	if err := value.Decode((*plainMethodNode)(n)); err != nil {
		return err
	}
	var fields requiredFields
	if err := value.Decode(&fields); err != nil {
		return err
	}
	n.applyRequired(fields)
	return nil
}

func (n *MethodNode) applyRequired(fields requiredFields) {
	if fields.Quantity != nil {
		n.Quantity = *fields.Quantity
	}
	if fields.UnitCost != nil {
		n.UnitCost = *fields.UnitCost
	}
	n.missing = fields.missing()
}

// NewMethodNode creates a validated leaf MethodNode
func NewMethodNode(itemID, readableID string, quantity, unitCost float64, methodType MethodType, itemType ItemType) (*MethodNode, error) {
	node := &MethodNode{
		ItemID:         itemID,
		ItemReadableID: readableID,
		Quantity:       quantity,
		UnitCost:       unitCost,
		MethodType:     methodType,
		ItemType:       itemType,
	}
	if err := node.Validate(); err != nil {
		return nil, err
	}
	return node, nil
}

// AddChild appends a child node and returns the receiver for chaining
func (n *MethodNode) AddChild(children ...*MethodNode) *MethodNode {
	n.Children = append(n.Children, children...)
	return n
}

// Label returns the readable id when present, falling back to the item id
func (n *MethodNode) Label() string {
	if n.ItemReadableID != "" {
		return n.ItemReadableID
	}
	return n.ItemID
}

// Validate checks the node's own fields; children are not visited
func (n *MethodNode) Validate() error {
	if n.ItemID == "" {
		return fmt.Errorf("%w: item id cannot be empty", ErrInvalidNode)
	}
	if n.isMissing("quantity") {
		return fmt.Errorf("%w: quantity is required for %s", ErrInvalidNode, n.Label())
	}
	if math.IsNaN(n.Quantity) || math.IsInf(n.Quantity, 0) {
		return fmt.Errorf("%w: quantity must be finite for %s, got %v", ErrInvalidNode, n.Label(), n.Quantity)
	}
	if n.Quantity < 0 {
		return fmt.Errorf("%w: quantity cannot be negative for %s, got %v", ErrInvalidNode, n.Label(), n.Quantity)
	}
	if n.isMissing("unitCost") {
		return fmt.Errorf("%w: unit cost is required for %s", ErrInvalidNode, n.Label())
	}
	if math.IsNaN(n.UnitCost) || math.IsInf(n.UnitCost, 0) {
		return fmt.Errorf("%w: unit cost must be finite for %s, got %v", ErrInvalidNode, n.Label(), n.UnitCost)
	}
	if n.UnitCost < 0 {
		return fmt.Errorf("%w: unit cost cannot be negative for %s, got %v", ErrInvalidNode, n.Label(), n.UnitCost)
	}
	if n.MethodType == "" {
		return fmt.Errorf("%w: method type cannot be empty for %s", ErrInvalidNode, n.Label())
	}
	return nil
}

func (n *MethodNode) isMissing(field string) bool {
	for _, name := range n.missing {
		if strings.EqualFold(name, field) {
			return true
		}
	}
	return false
}

// FlatTreeItem is the pre-order projection of a MethodNode
type FlatTreeItem struct {
	Node        *MethodNode
	Index       int
	Level       int
	ParentIndex int // -1 for the root
}

// IsRoot reports whether the item has no parent
func (f FlatTreeItem) IsRoot() bool {
	return f.ParentIndex < 0
}

// HasChildren reports whether the underlying node has any children
func (f FlatTreeItem) HasChildren() bool {
	return f.Node != nil && len(f.Node.Children) > 0
}
