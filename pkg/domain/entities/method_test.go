package entities

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestMethodNode_Validation(t *testing.T) {
	validNode, err := NewMethodNode("item-1", "ASSY-100", 2, 12.5, MethodTypeMake, ItemTypePart)
	if err != nil {
		t.Fatalf("Expected valid node creation to succeed: %v", err)
	}
	if validNode.Quantity != 2 {
		t.Errorf("Expected quantity 2, got %v", validNode.Quantity)
	}

	testCases := []struct {
		name        string
		itemID      string
		quantity    float64
		unitCost    float64
		methodType  MethodType
		expectError string
	}{
		{"empty item id", "", 1, 0, MethodTypeBuy, "invalid method node: item id cannot be empty"},
		{"negative quantity", "X", -1, 0, MethodTypeBuy, "invalid method node: quantity cannot be negative for X, got -1"},
		{"NaN quantity", "X", math.NaN(), 0, MethodTypeBuy, "invalid method node: quantity must be finite for X, got NaN"},
		{"infinite quantity", "X", math.Inf(1), 0, MethodTypeBuy, "invalid method node: quantity must be finite for X, got +Inf"},
		{"negative cost", "X", 1, -0.5, MethodTypeBuy, "invalid method node: unit cost cannot be negative for X, got -0.5"},
		{"empty method type", "X", 1, 1, "", "invalid method node: method type cannot be empty for X"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewMethodNode(tc.itemID, "", tc.quantity, tc.unitCost, tc.methodType, ItemTypePart)
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if !errors.Is(err, ErrInvalidNode) {
				t.Errorf("Expected error to wrap ErrInvalidNode, got %v", err)
			}
			if err.Error() != tc.expectError {
				t.Errorf("Expected error '%s', got '%s'", tc.expectError, err.Error())
			}
		})
	}
}

func TestMethodNode_ZeroQuantityIsAllowed(t *testing.T) {
	if _, err := NewMethodNode("X", "", 0, 0, MethodTypeBuy, ItemTypeMaterial); err != nil {
		t.Errorf("Expected zero quantity to be accepted, got %v", err)
	}
}

func TestMethodNode_Label(t *testing.T) {
	node := &MethodNode{ItemID: "uuid-1"}
	if node.Label() != "uuid-1" {
		t.Errorf("Expected label to fall back to item id, got %s", node.Label())
	}
	node.ItemReadableID = "BRKT-1"
	if node.Label() != "BRKT-1" {
		t.Errorf("Expected readable id label, got %s", node.Label())
	}
}

func TestMethodNode_AddChild(t *testing.T) {
	root := &MethodNode{ItemID: "A"}
	root.AddChild(&MethodNode{ItemID: "B"}, &MethodNode{ItemID: "C"})
	if len(root.Children) != 2 {
		t.Fatalf("Expected 2 children, got %d", len(root.Children))
	}
	if root.Children[1].ItemID != "C" {
		t.Errorf("Expected sibling order to be preserved, got %s", root.Children[1].ItemID)
	}
}

func TestMethodNode_DecodeRequiresNumericFields(t *testing.T) {
	tests := []struct {
		name    string
		decode  func(doc string, node *MethodNode) error
		doc     string
		wantErr string
	}{
		{
			name:    "json missing quantity",
			decode:  decodeJSON,
			doc:     `{"itemId": "B", "methodType": "Buy", "unitCost": 5}`,
			wantErr: "quantity is required for B",
		},
		{
			name:    "json null quantity",
			decode:  decodeJSON,
			doc:     `{"itemId": "B", "methodType": "Buy", "quantity": null, "unitCost": 5}`,
			wantErr: "quantity is required for B",
		},
		{
			name:    "json missing unit cost",
			decode:  decodeJSON,
			doc:     `{"itemId": "B", "methodType": "Buy", "quantity": 2}`,
			wantErr: "unit cost is required for B",
		},
		{
			name:    "yaml missing quantity",
			decode:  decodeYAML,
			doc:     "itemId: B\nmethodType: Buy\nunitCost: 5\n",
			wantErr: "quantity is required for B",
		},
		{
			name:    "yaml missing unit cost",
			decode:  decodeYAML,
			doc:     "itemId: B\nmethodType: Buy\nquantity: 2\n",
			wantErr: "unit cost is required for B",
		},
		{
			name:   "json explicit zero",
			decode: decodeJSON,
			doc:    `{"itemId": "B", "methodType": "Buy", "quantity": 0, "unitCost": 0}`,
		},
		{
			name:   "yaml complete",
			decode: decodeYAML,
			doc:    "itemId: B\nmethodType: Buy\nquantity: 2.5\nunitCost: 5\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var node MethodNode
			if err := tt.decode(tt.doc, &node); err != nil {
				t.Fatalf("Expected document to decode: %v", err)
			}

			err := node.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Expected node to validate, got %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidNode) {
				t.Fatalf("Expected ErrInvalidNode, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error to contain %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}

func TestMethodNode_DecodeKeepsValuesAndChildren(t *testing.T) {
	doc := `{"itemId": "A", "methodType": "Make", "quantity": 1, "unitCost": 10,
		"children": [{"itemId": "B", "methodType": "Buy", "quantity": 2.5, "unitCost": 3}]}`

	var root MethodNode
	if err := json.Unmarshal([]byte(doc), &root); err != nil {
		t.Fatalf("Expected document to decode: %v", err)
	}
	if root.Quantity != 1 || root.UnitCost != 10 {
		t.Errorf("Expected quantity 1 and unit cost 10, got %v and %v", root.Quantity, root.UnitCost)
	}
	if len(root.Children) != 1 || root.Children[0].Quantity != 2.5 || root.Children[0].UnitCost != 3 {
		t.Fatalf("Expected child B with quantity 2.5 and unit cost 3, got %+v", root.Children)
	}
	if err := root.Children[0].Validate(); err != nil {
		t.Errorf("Expected decoded child to validate, got %v", err)
	}
}

func decodeJSON(doc string, node *MethodNode) error {
	return json.Unmarshal([]byte(doc), node)
}

func decodeYAML(doc string, node *MethodNode) error {
	return yaml.Unmarshal([]byte(doc), node)
}
