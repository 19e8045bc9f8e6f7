package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vsinha/bomview/pkg/domain/entities"
	"github.com/vsinha/bomview/pkg/domain/repositories"
	bomcsv "github.com/vsinha/bomview/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/bomview/pkg/infrastructure/repositories/xlsx"
)

// Loader reads method trees and operations, choosing the decoder by file
// extension: .json, .yaml/.yml, .csv (indented rows) and .xlsx.
type Loader struct {
	csv  *bomcsv.Loader
	xlsx *xlsx.Loader
}

// NewLoader creates a new file loader
func NewLoader() *Loader {
	return &Loader{
		csv:  bomcsv.NewLoader(),
		xlsx: xlsx.NewLoader(),
	}
}

// LoadMethodTree loads one tree from filename
func (l *Loader) LoadMethodTree(filename string) (*entities.MethodNode, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		return l.csv.LoadMethodTree(filename)
	case ".xlsx":
		return l.xlsx.LoadMethodTree(filename)
	case ".json", ".yaml", ".yml":
		file, err := os.Open(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to open BOM file %s: %w", filename, err)
		}
		defer file.Close()

		root, err := DecodeMethodTree(file, ext)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		return root, nil
	default:
		return nil, fmt.Errorf("unsupported BOM file type %q: %s", ext, filename)
	}
}

// DecodeMethodTree decodes a nested tree in JSON or YAML. An empty document
// decodes to a nil tree.
func DecodeMethodTree(r io.Reader, ext string) (*entities.MethodNode, error) {
	var root *entities.MethodNode
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.NewDecoder(r).Decode(&root); err != nil && err != io.EOF {
			return nil, fmt.Errorf("failed to decode JSON tree: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.NewDecoder(r).Decode(&root); err != nil && err != io.EOF {
			return nil, fmt.Errorf("failed to decode YAML tree: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported tree encoding %q", ext)
	}
	return root, nil
}

// LoadOperations loads a list of operations from filename
func (l *Loader) LoadOperations(filename string) ([]entities.OperationRecord, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == ".csv" {
		return l.csv.LoadOperations(filename)
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open operations file %s: %w", filename, err)
	}
	defer file.Close()

	var ops []entities.OperationRecord
	switch ext {
	case ".json":
		err = json.NewDecoder(file).Decode(&ops)
	case ".yaml", ".yml":
		err = yaml.NewDecoder(file).Decode(&ops)
	default:
		return nil, fmt.Errorf("unsupported operations file type %q: %s", ext, filename)
	}
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode operations %s: %w", filename, err)
	}
	return ops, nil
}

// DirStats reports what LoadDir read
type DirStats struct {
	Trees      int
	Operations int
}

// LoadDir loads every tree under dir/methods and every operation list under
// dir/operations into the repositories. Missing subdirectories are skipped.
// Files are read in name order.
func (l *Loader) LoadDir(
	ctx context.Context,
	dir string,
	methodRepo repositories.MethodRepository,
	opRepo repositories.OperationRepository,
) (DirStats, error) {
	var stats DirStats

	methodFiles, err := listFiles(filepath.Join(dir, "methods"))
	if err != nil {
		return stats, err
	}
	for _, name := range methodFiles {
		root, err := l.LoadMethodTree(name)
		if err != nil {
			return stats, err
		}
		if root == nil {
			continue
		}
		if err := methodRepo.SaveMethodTree(ctx, root); err != nil {
			return stats, fmt.Errorf("failed to store tree from %s: %w", name, err)
		}
		stats.Trees++
	}

	opFiles, err := listFiles(filepath.Join(dir, "operations"))
	if err != nil {
		return stats, err
	}
	for _, name := range opFiles {
		ops, err := l.LoadOperations(name)
		if err != nil {
			return stats, err
		}
		if err := opRepo.LoadOperations(ops); err != nil {
			return stats, fmt.Errorf("failed to store operations from %s: %w", name, err)
		}
		stats.Operations += len(ops)
	}

	return stats, nil
}

func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}
