package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/bomview/pkg/application/dto"
)

const treeJSON = `{
  "itemId": "A", "itemReadableId": "A", "quantity": 1, "unitCost": 10,
  "methodType": "Make", "itemType": "Part",
  "children": [
    {"itemId": "B", "itemReadableId": "B", "quantity": 2, "unitCost": 0.125, "methodType": "Buy", "itemType": "Part"}
  ]
}`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCmd_ExplodeJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.json")
	require.NoError(t, os.WriteFile(path, []byte(treeJSON), 0o644))

	out, err := run(t, "explode", path, "--format", "json", "--precision", "2")
	require.NoError(t, err)

	var result dto.BOMResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Lines, 2)
	assert.Equal(t, "1.1", result.Lines[1].ID)
	assert.Equal(t, 0.13, result.Lines[1].UnitCost)
	assert.Equal(t, 0.25, result.Lines[1].TotalCost)
}

func TestRootCmd_InvalidConfigFromFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.json")
	require.NoError(t, os.WriteFile(path, []byte(treeJSON), 0o644))

	_, err := run(t, "explode", path, "--max-depth", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "limits.max_depth must be positive")
}

func TestRootCmd_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tree.json")
	require.NoError(t, os.WriteFile(path, []byte(treeJSON), 0o644))
	configPath := filepath.Join(dir, "bomview.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("limits:\n  max_nodes: 1\n"), 0o644))

	_, err := run(t, "--config", configPath, "explode", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}

func TestRootCmd_GenerateThenExplode(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, "generate", "--output", dir, "--items", "20", "--depth", "3", "--seed", "1", "--format", "json")
	require.NoError(t, err)

	tree := filepath.Join(dir, "methods", "ASM-001.json")
	ops := filepath.Join(dir, "operations", "operations.json")
	out, err := run(t, "explode", tree, "--operations", ops, "--format", "csv")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "id,level,item_id"))
	assert.Contains(t, out, "\n1,0,ASM-001,")
}

func TestRootCmd_GenerateRequiresOutput(t *testing.T) {
	_, err := run(t, "generate")
	require.Error(t, err)
}
