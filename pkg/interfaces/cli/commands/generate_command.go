package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vsinha/bomview/pkg/domain/entities"
	bomcsv "github.com/vsinha/bomview/pkg/infrastructure/repositories/csv"
)

// GenerateFormats lists the file formats generate can write
var GenerateFormats = []string{"yaml", "json", "csv"}

// GenerateConfig holds configuration for data directory generation
type GenerateConfig struct {
	Roots     int    // Number of top-level assemblies
	Items     int    // Approximate number of nodes per assembly
	MaxDepth  int    // Maximum depth of each tree
	Breadth   int    // Maximum children per subassembly
	Format    string // File format: yaml, json or csv
	OutputDir string // Data directory to write methods/ and operations/ into
	Seed      int64  // Random seed for reproducible generation
	Verbose   bool   // Verbose output
}

// GenerateCommand writes synthetic method trees and operations in the data
// directory layout read by serve.
type GenerateCommand struct {
	config GenerateConfig
	rand   *rand.Rand
	pool   []*entities.MethodNode
	serial int
}

// NewGenerateCommand creates a new generate command
func NewGenerateCommand(config GenerateConfig) *GenerateCommand {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if config.Roots <= 0 {
		config.Roots = 1
	}
	if config.Breadth < 2 {
		config.Breadth = 6
	}
	if config.Format == "" {
		config.Format = "yaml"
	}

	return &GenerateCommand{
		config: config,
		rand:   rand.New(rand.NewSource(seed)),
	}
}

// Execute generates the trees and writes them under config.OutputDir
func (cmd *GenerateCommand) Execute(ctx context.Context, w io.Writer) error {
	if err := cmd.validateInputs(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if cmd.config.Verbose {
		fmt.Fprintf(w, "🔧 Generating %d assemblies with ~%d items, max depth %d\n",
			cmd.config.Roots, cmd.config.Items, cmd.config.MaxDepth)
		fmt.Fprintf(w, "📁 Output directory: %s\n", cmd.config.OutputDir)
	}

	roots, ops := cmd.generate()

	methodsDir := filepath.Join(cmd.config.OutputDir, "methods")
	if err := os.MkdirAll(methodsDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			return err
		}
		filename := filepath.Join(methodsDir, root.ItemReadableID+"."+cmd.config.Format)
		if err := cmd.writeFile(filename, func(buf *bytes.Buffer) error {
			return encodeTree(buf, root, cmd.config.Format)
		}); err != nil {
			return err
		}
	}

	opsDir := filepath.Join(cmd.config.OutputDir, "operations")
	if err := os.MkdirAll(opsDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	opsFile := filepath.Join(opsDir, "operations."+cmd.config.Format)
	if err := cmd.writeFile(opsFile, func(buf *bytes.Buffer) error {
		return encodeOperations(buf, ops, cmd.config.Format)
	}); err != nil {
		return err
	}

	if cmd.config.Verbose {
		fmt.Fprintf(w, "✅ Wrote %d trees and %d operations to %s\n", len(roots), len(ops), cmd.config.OutputDir)
	}
	return nil
}

func (cmd *GenerateCommand) validateInputs() error {
	if cmd.config.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	if cmd.config.Items < 1 {
		return fmt.Errorf("items must be at least 1, got %d", cmd.config.Items)
	}
	if cmd.config.MaxDepth < 1 {
		return fmt.Errorf("max depth must be at least 1, got %d", cmd.config.MaxDepth)
	}
	for _, f := range GenerateFormats {
		if f == cmd.config.Format {
			return nil
		}
	}
	return fmt.Errorf("unsupported format %q (expected one of %v)", cmd.config.Format, GenerateFormats)
}

func (cmd *GenerateCommand) writeFile(filename string, encode func(*bytes.Buffer) error) error {
	var buf bytes.Buffer
	if err := encode(&buf); err != nil {
		return fmt.Errorf("failed to encode %s: %w", filename, err)
	}
	if err := os.WriteFile(filename, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}

// generate builds every assembly level by level. Purchased components are
// drawn from a shared pool so the same item recurs under different parents.
func (cmd *GenerateCommand) generate() ([]*entities.MethodNode, []entities.OperationRecord) {
	var roots []*entities.MethodNode
	var ops []entities.OperationRecord

	for i := 0; i < cmd.config.Roots; i++ {
		root := cmd.newMake(fmt.Sprintf("ASM-%03d", i+1), 1, "Complete assembly")
		root.Version = "A"
		ops = append(ops, cmd.generateOperations(root)...)

		itemsGenerated := 1
		currentLevel := []*entities.MethodNode{root}

		for level := 1; level <= cmd.config.MaxDepth && itemsGenerated < cmd.config.Items; level++ {
			var nextLevel []*entities.MethodNode

			for _, parent := range currentLevel {
				numChildren := 2 + cmd.rand.Intn(cmd.config.Breadth-1)

				for child := 0; child < numChildren && itemsGenerated < cmd.config.Items; child++ {
					var node *entities.MethodNode
					if level < cmd.config.MaxDepth && cmd.rand.Float64() < 0.35 {
						node = cmd.newMake(fmt.Sprintf("SUB-L%d-%04d", level, cmd.nextSerial()), cmd.quantity(level), "Subassembly")
						ops = append(ops, cmd.generateOperations(node)...)
						nextLevel = append(nextLevel, node)
					} else {
						node = cmd.component(level)
					}
					parent.AddChild(node)
					itemsGenerated++
				}
			}

			if len(nextLevel) == 0 {
				break
			}
			currentLevel = nextLevel
		}

		roots = append(roots, root)
	}

	return roots, ops
}

func (cmd *GenerateCommand) nextSerial() int {
	cmd.serial++
	return cmd.serial
}

// quantity is 1-5, up to 10 below level 2
func (cmd *GenerateCommand) quantity(level int) float64 {
	qty := 1 + cmd.rand.Intn(5)
	if level > 2 {
		qty += cmd.rand.Intn(5)
	}
	return float64(qty)
}

func (cmd *GenerateCommand) newMake(readableID string, quantity float64, description string) *entities.MethodNode {
	return &entities.MethodNode{
		ItemID:         itemIDFor(readableID),
		ItemReadableID: readableID,
		Description:    fmt.Sprintf("%s %s", readableID, description),
		Quantity:       quantity,
		UnitOfMeasure:  "EA",
		UnitCost:       float64(cmd.rand.Intn(5000)) / 100,
		MethodType:     entities.MethodTypeMake,
		ItemType:       entities.ItemTypePart,
		MakeMethodID:   "mm-" + strings.ToLower(readableID),
	}
}

// component returns a purchased leaf, reusing a pooled item 20% of the time
func (cmd *GenerateCommand) component(level int) *entities.MethodNode {
	if len(cmd.pool) > 0 && cmd.rand.Float64() < 0.2 {
		shared := *cmd.pool[cmd.rand.Intn(len(cmd.pool))]
		shared.Quantity = cmd.quantity(level)
		return &shared
	}

	componentTypes := []struct {
		prefix   string
		itemType entities.ItemType
		uom      string
	}{
		{"CMP", entities.ItemTypePart, "EA"},
		{"FST", entities.ItemTypePart, "EA"},
		{"MAT", entities.ItemTypeMaterial, "KG"},
		{"CON", entities.ItemTypeConsumable, "EA"},
	}
	kind := componentTypes[cmd.rand.Intn(len(componentTypes))]
	readableID := fmt.Sprintf("%s-%04d", kind.prefix, cmd.nextSerial())

	methodType := entities.MethodTypeBuy
	if cmd.rand.Float64() < 0.1 {
		methodType = entities.MethodTypePick
	}

	node := &entities.MethodNode{
		ItemID:         itemIDFor(readableID),
		ItemReadableID: readableID,
		Description:    fmt.Sprintf("%s %s", readableID, strings.ToLower(kind.itemType.String())),
		Quantity:       cmd.quantity(level),
		UnitOfMeasure:  kind.uom,
		UnitCost:       float64(1+cmd.rand.Intn(2000)) / 100,
		MethodType:     methodType,
		ItemType:       kind.itemType,
	}
	cmd.pool = append(cmd.pool, node)

	copied := *node
	return &copied
}

var generatedProcesses = []struct {
	process    string
	workCenter string
	unit       entities.TimeUnit
	outside    bool
}{
	{"Laser", "LASER-01", entities.SecondsPerPiece, false},
	{"Forming", "BRAKE-02", entities.PiecesPerHour, false},
	{"Machining", "CNC-03", entities.MinutesPerPiece, false},
	{"Welding", "WELD-01", entities.HoursPer100Pieces, false},
	{"Assembly", "ASSY-01", entities.MinutesPerPiece, false},
	{"Coating", "", entities.HoursPer1000Pieces, true},
}

func (cmd *GenerateCommand) generateOperations(node *entities.MethodNode) []entities.OperationRecord {
	count := 1 + cmd.rand.Intn(3)
	ops := make([]entities.OperationRecord, 0, count)

	for i := 0; i < count; i++ {
		p := generatedProcesses[cmd.rand.Intn(len(generatedProcesses))]
		op := entities.OperationRecord{
			MakeMethodID:  node.MakeMethodID,
			Order:         (i + 1) * 10,
			Description:   fmt.Sprintf("%s %s", p.process, node.ItemReadableID),
			Process:       p.process,
			WorkCenter:    p.workCenter,
			OperationType: entities.OperationInside,
		}
		if p.outside {
			op.OperationType = entities.OperationOutside
		} else {
			op.SetupTime = float64(5 * (1 + cmd.rand.Intn(12)))
			op.SetupUnit = entities.TotalMinutes
		}
		op.LaborTime = float64(1 + cmd.rand.Intn(60))
		op.LaborUnit = p.unit
		if !p.outside && cmd.rand.Float64() < 0.5 {
			op.MachineTime = op.LaborTime
			op.MachineUnit = p.unit
		}
		ops = append(ops, op)
	}
	return ops
}

func itemIDFor(readableID string) string {
	return "item-" + strings.ToLower(readableID)
}

func encodeTree(w io.Writer, root *entities.MethodNode, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(root)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(root); err != nil {
			return err
		}
		return enc.Close()
	case "csv":
		return bomcsv.WriteMethodTree(w, root)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

func encodeOperations(w io.Writer, ops []entities.OperationRecord, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(ops)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(ops); err != nil {
			return err
		}
		return enc.Close()
	case "csv":
		return bomcsv.WriteOperations(w, ops)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}
