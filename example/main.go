package main

import (
	"context"
	"fmt"
	"os"

	"github.com/vsinha/bomview/pkg/application/services"
	"github.com/vsinha/bomview/pkg/domain/entities"
	"github.com/vsinha/bomview/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/bomview/pkg/interfaces/cli/output"
)

func main() {
	ctx := context.Background()

	// Create repositories
	methodRepo := memory.NewMethodRepository(1)
	opRepo := memory.NewOperationRepository(4)

	// Set up a small rocket engine method tree
	if err := setupRocketEngine(ctx, methodRepo, opRepo); err != nil {
		fmt.Printf("❌ Setup failed: %v\n", err)
		os.Exit(1)
	}

	service := services.NewBOMService(methodRepo, opRepo, nil, nil)

	fmt.Println("🚀 Exploding rocket engine for a 9 engine first stage...")
	fmt.Println()

	result, err := service.ExplodeItem(ctx, "item-engine", services.ExplodeOptions{
		IncludeOperations: true,
		Quantities:        []float64{1, 9},
	})
	if err != nil {
		fmt.Printf("❌ Explosion failed: %v\n", err)
		os.Exit(1)
	}

	if err := output.WriteText(os.Stdout, result, 2); err != nil {
		fmt.Printf("❌ Output failed: %v\n", err)
		os.Exit(1)
	}
}

func setupRocketEngine(ctx context.Context, methodRepo *memory.MethodRepository, opRepo *memory.OperationRepository) error {
	engine := &entities.MethodNode{
		ItemID:         "item-engine",
		ItemReadableID: "ENG-001",
		Description:    "Rocket engine",
		Quantity:       1,
		UnitOfMeasure:  "EA",
		MethodType:     entities.MethodTypeMake,
		ItemType:       entities.ItemTypePart,
		MakeMethodID:   "mm-engine",
		Version:        "C",
	}

	turbopump := &entities.MethodNode{
		ItemID:         "item-turbopump",
		ItemReadableID: "TP-100",
		Description:    "Turbopump assembly",
		Quantity:       1,
		UnitOfMeasure:  "EA",
		MethodType:     entities.MethodTypeMake,
		ItemType:       entities.ItemTypePart,
		MakeMethodID:   "mm-turbopump",
	}
	turbopump.AddChild(
		&entities.MethodNode{ItemID: "item-impeller", ItemReadableID: "IMP-7", Description: "Inducer impeller", Quantity: 2, UnitOfMeasure: "EA", UnitCost: 4200, MethodType: entities.MethodTypeBuy, ItemType: entities.ItemTypePart},
		&entities.MethodNode{ItemID: "item-bolt", ItemReadableID: "BLT-M8", Description: "M8 bolt", Quantity: 24, UnitOfMeasure: "EA", UnitCost: 1.15, MethodType: entities.MethodTypeBuy, ItemType: entities.ItemTypePart},
	)

	engine.AddChild(
		turbopump,
		&entities.MethodNode{ItemID: "item-chamber", ItemReadableID: "CC-200", Description: "Combustion chamber", Quantity: 1, UnitOfMeasure: "EA", UnitCost: 85000, MethodType: entities.MethodTypeBuy, ItemType: entities.ItemTypePart},
		&entities.MethodNode{ItemID: "item-bolt", ItemReadableID: "BLT-M8", Description: "M8 bolt", Quantity: 48, UnitOfMeasure: "EA", UnitCost: 1.15, MethodType: entities.MethodTypeBuy, ItemType: entities.ItemTypePart},
	)

	if err := methodRepo.SaveMethodTree(ctx, engine); err != nil {
		return err
	}

	return opRepo.LoadOperations([]entities.OperationRecord{
		{MakeMethodID: "mm-turbopump", Order: 10, Description: "Balance rotor", Process: "Balancing", WorkCenter: "BAL-01", OperationType: entities.OperationInside, SetupTime: 2, SetupUnit: entities.TotalHours, LaborTime: 45, LaborUnit: entities.MinutesPerPiece},
		{MakeMethodID: "mm-engine", Order: 10, Description: "Integrate engine", Process: "Assembly", WorkCenter: "ASSY-01", OperationType: entities.OperationInside, LaborTime: 16, LaborUnit: entities.HoursPerPiece},
		{MakeMethodID: "mm-engine", Order: 20, Description: "Hot fire test", Process: "Test", OperationType: entities.OperationOutside, SetupTime: 1, SetupUnit: entities.TotalHours, MachineTime: 90, MachineUnit: entities.SecondsPerPiece},
	})
}
