package entities

// MethodType tells how an item is sourced within its parent's method
type MethodType string

const (
	MethodTypeBuy  MethodType = "Buy"
	MethodTypeMake MethodType = "Make"
	MethodTypePick MethodType = "Pick"
)

// String method for MethodType
func (m MethodType) String() string {
	return string(m)
}

// IsMake reports whether the item is manufactured from its own make method
func (m MethodType) IsMake() bool {
	return m == MethodTypeMake
}

// ItemType classifies the item behind a method node
type ItemType string

const (
	ItemTypePart       ItemType = "Part"
	ItemTypeMaterial   ItemType = "Material"
	ItemTypeTool       ItemType = "Tool"
	ItemTypeConsumable ItemType = "Consumable"
	ItemTypeFixture    ItemType = "Fixture"
)

// String method for ItemType
func (i ItemType) String() string {
	return string(i)
}
