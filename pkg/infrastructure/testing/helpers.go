package testing

import (
	"context"

	"github.com/vsinha/bomview/pkg/domain/entities"
	"github.com/vsinha/bomview/pkg/infrastructure/repositories/memory"
)

// BuildSimpleTree builds A(1) with children B(2) and C(3), where B has child D(4).
// Pre-order is A, B, D, C.
func BuildSimpleTree() *entities.MethodNode {
	d := &entities.MethodNode{ItemID: "D", ItemReadableID: "D", Quantity: 4, UnitCost: 0.5, MethodType: entities.MethodTypeBuy, ItemType: entities.ItemTypeMaterial}
	b := &entities.MethodNode{ItemID: "B", ItemReadableID: "B", Quantity: 2, UnitCost: 3, MethodType: entities.MethodTypeMake, ItemType: entities.ItemTypePart, MakeMethodID: "mm-B"}
	c := &entities.MethodNode{ItemID: "C", ItemReadableID: "C", Quantity: 3, UnitCost: 1.25, MethodType: entities.MethodTypeBuy, ItemType: entities.ItemTypePart}
	a := &entities.MethodNode{ItemID: "A", ItemReadableID: "A", Quantity: 1, UnitCost: 10, MethodType: entities.MethodTypeMake, ItemType: entities.ItemTypePart, MakeMethodID: "mm-A"}

	b.AddChild(d)
	a.AddChild(b, c)
	return a
}

// BuildSimpleOperations returns routing steps for the make methods of BuildSimpleTree
func BuildSimpleOperations() []entities.OperationRecord {
	return []entities.OperationRecord{
		{
			MakeMethodID:  "mm-A",
			Order:         10,
			Description:   "Final assembly",
			Process:       "Assembly",
			WorkCenter:    "ASSY-01",
			OperationType: entities.OperationInside,
			SetupTime:     30,
			SetupUnit:     entities.TotalMinutes,
			LaborTime:     2,
			LaborUnit:     entities.MinutesPerPiece,
			MachineTime:   1,
			MachineUnit:   entities.MinutesPerPiece,
		},
		{
			MakeMethodID:  "mm-B",
			Order:         10,
			Description:   "Laser cut",
			Process:       "Laser",
			OperationType: entities.OperationInside,
			SetupTime:     0.5,
			SetupUnit:     entities.TotalHours,
			MachineTime:   30,
			MachineUnit:   entities.SecondsPerPiece,
		},
		{
			MakeMethodID:  "mm-B",
			Order:         20,
			Description:   "Powder coat",
			Process:       "Coating",
			OperationType: entities.OperationOutside,
		},
	}
}

// BuildBracketAssembly builds a deeper tree where the same fastener appears
// under two different parents with different per-parent quantities.
func BuildBracketAssembly() *entities.MethodNode {
	screw := func(qty float64) *entities.MethodNode {
		return &entities.MethodNode{
			ItemID:         "item-screw",
			ItemReadableID: "SCR-M4",
			Description:    "M4x10 socket head screw",
			Quantity:       qty,
			UnitOfMeasure:  "EA",
			UnitCost:       0.08,
			MethodType:     entities.MethodTypeBuy,
			ItemType:       entities.ItemTypePart,
		}
	}

	sheet := &entities.MethodNode{
		ItemID:         "item-sheet",
		ItemReadableID: "AL-5052-2MM",
		Description:    "Aluminium sheet 2mm",
		Quantity:       0.25,
		UnitOfMeasure:  "M2",
		UnitCost:       42,
		MethodType:     entities.MethodTypeBuy,
		ItemType:       entities.ItemTypeMaterial,
	}
	bracket := &entities.MethodNode{
		ItemID:         "item-bracket",
		ItemReadableID: "BRKT-200",
		Description:    "Formed bracket",
		Quantity:       2,
		UnitOfMeasure:  "EA",
		UnitCost:       6.5,
		MethodType:     entities.MethodTypeMake,
		ItemType:       entities.ItemTypePart,
		MakeMethodID:   "mm-bracket",
		Version:        "B",
	}
	bracket.AddChild(sheet, screw(2))

	plate := &entities.MethodNode{
		ItemID:         "item-plate",
		ItemReadableID: "PLT-10",
		Description:    "Base plate",
		Quantity:       1,
		UnitOfMeasure:  "EA",
		UnitCost:       11,
		MethodType:     entities.MethodTypePick,
		ItemType:       entities.ItemTypePart,
	}

	root := &entities.MethodNode{
		ItemID:         "item-mount",
		ItemReadableID: "MNT-1000",
		Description:    "Sensor mount assembly",
		Quantity:       1,
		UnitOfMeasure:  "EA",
		UnitCost:       0,
		MethodType:     entities.MethodTypeMake,
		ItemType:       entities.ItemTypePart,
		MakeMethodID:   "mm-mount",
		Version:        "A",
	}
	root.AddChild(bracket, plate, screw(6))
	return root
}

// BuildTestRepositories loads both sample trees and their operations
func BuildTestRepositories() (*memory.MethodRepository, *memory.OperationRepository) {
	methodRepo := memory.NewMethodRepository(2)
	opRepo := memory.NewOperationRepository(8)

	for _, root := range []*entities.MethodNode{BuildSimpleTree(), BuildBracketAssembly()} {
		if err := methodRepo.SaveMethodTree(context.Background(), root); err != nil {
			panic(err)
		}
	}

	ops := BuildSimpleOperations()
	ops = append(ops,
		entities.OperationRecord{
			MakeMethodID:  "mm-bracket",
			Order:         10,
			Description:   "Press brake",
			Process:       "Forming",
			WorkCenter:    "BRAKE-2",
			OperationType: entities.OperationInside,
			SetupTime:     15,
			SetupUnit:     entities.TotalMinutes,
			LaborTime:     120,
			LaborUnit:     entities.PiecesPerHour,
		},
		entities.OperationRecord{
			MakeMethodID:  "mm-mount",
			Order:         10,
			Description:   "Assemble mount",
			Process:       "Assembly",
			OperationType: entities.OperationInside,
			LaborTime:     5,
			LaborUnit:     entities.MinutesPerPiece,
		},
	)
	if err := opRepo.LoadOperations(ops); err != nil {
		panic(err)
	}

	return methodRepo, opRepo
}
