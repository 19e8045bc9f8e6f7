package output

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/vsinha/bomview/pkg/application/dto"
	"github.com/vsinha/bomview/pkg/application/services"
	testhelpers "github.com/vsinha/bomview/pkg/infrastructure/testing"
)

func explodeSimple(t *testing.T, withOperations bool) *dto.BOMResult {
	t.Helper()
	methodRepo, opRepo := testhelpers.BuildTestRepositories()
	service := services.NewBOMService(methodRepo, opRepo, nil, nil)

	result, err := service.ExplodeItem(context.Background(), "A", services.ExplodeOptions{
		IncludeOperations: withOperations,
	})
	require.NoError(t, err)
	return result
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		value  float64
		places int32
		want   string
	}{
		{33, 4, "33"},
		{2.345, 2, "2.35"},
		{-2.345, 2, "-2.35"},
		{1.23456, 4, "1.2346"},
		{0.1 + 0.2, 4, "0.3"},
		{0, 2, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatNumber(tt.value, tt.places))
		})
	}
}

func TestRound_NonFiniteValues(t *testing.T) {
	assert.Equal(t, "+Inf", FormatNumber(math.Inf(1), 2))
	assert.Equal(t, "-Inf", FormatNumber(math.Inf(-1), 2))
	assert.Equal(t, "NaN", FormatNumber(math.NaN(), 2))
	assert.True(t, math.IsInf(RoundNumber(math.Inf(1), 2), 1))
	assert.True(t, math.IsNaN(RoundNumber(math.NaN(), 2)))

	result := &dto.BOMResult{Lines: []dto.BomLineView{{ID: "1", Total: math.Inf(1), TotalCost: 1.23456}}}
	assert.NotPanics(t, func() {
		rounded := RoundResult(result, 2)
		assert.True(t, math.IsInf(rounded.Lines[0].Total, 1))
		assert.Equal(t, 1.23, rounded.Lines[0].TotalCost)
	})
}

func TestRoundResult_DoesNotModifyInput(t *testing.T) {
	result := &dto.BOMResult{
		Lines: []dto.BomLineView{{ID: "1", Quantity: 1.23456, Total: 1.23456}},
		Summary: dto.BOMSummary{
			MaterialCost: 9.87654,
			Durations:    []dto.DurationAtVolume{{Quantity: 10, Total: 1.55555}},
		},
	}

	rounded := RoundResult(result, 2)

	assert.Equal(t, 1.23, rounded.Lines[0].Quantity)
	assert.Equal(t, 9.88, rounded.Summary.MaterialCost)
	assert.Equal(t, 1.56, rounded.Summary.Durations[0].Total)
	assert.Equal(t, 1.23456, result.Lines[0].Quantity)
	assert.Equal(t, 9.87654, result.Summary.MaterialCost)
	assert.Equal(t, 1.55555, result.Summary.Durations[0].Total)
	assert.Nil(t, RoundResult(nil, 2))
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, explodeSimple(t, true), 4))

	out := buf.String()
	assert.Contains(t, out, "Bill of Materials: A")
	assert.Contains(t, out, "1.1.1")
	assert.Contains(t, out, "    D")
	assert.Contains(t, out, "Laser cut [Laser] x1=31 x100=130 x1000=1030 min")
	assert.Contains(t, out, "Material Cost: 7.75")
	assert.Contains(t, out, "Operations: 3")
}

func TestWriteText_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, &dto.BOMResult{}, 4))
	assert.Contains(t, buf.String(), "(empty)")
}

func TestWriteLinesCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLinesCSV(&buf, explodeSimple(t, false), 4))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)

	assert.Equal(t, LinesHeader, records[0])
	assert.Equal(t, []string{"1.1", "1", "B", "", "2", "2", "", "3", "6", "Make", "Part", ""}, records[2])
	assert.Equal(t, "1.1.1", records[3][0])
	assert.Equal(t, "8", records[3][5])
}

func TestWriteOperationsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOperationsCSV(&buf, explodeSimple(t, true), 4))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, OperationsHeader, records[0])
	assert.Equal(t, "1", records[1][0])
	assert.Equal(t, "Final assembly", records[1][2])
	assert.Equal(t, "ASSY-01", records[1][4])
	assert.Equal(t, "33", records[1][12])
	assert.Equal(t, "1.1", records[2][0])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, explodeSimple(t, true), 4))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("BOM")
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, "id", rows[0][0])
	assert.Equal(t, "1.1.1", rows[3][0])
	assert.Equal(t, "Total", rows[5][0])
	assert.Equal(t, "7.75", rows[5][8])

	opRows, err := f.GetRows("Operations")
	require.NoError(t, err)
	assert.Len(t, opRows, 4)
}

func TestWriteXLSX_WithoutOperations(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, explodeSimple(t, false), 4))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	index, err := f.GetSheetIndex("Operations")
	require.NoError(t, err)
	assert.Equal(t, -1, index)
}

func TestGenerate(t *testing.T) {
	result := explodeSimple(t, true)

	t.Run("unsupported format", func(t *testing.T) {
		err := Generate(&bytes.Buffer{}, "a", result, Config{Format: "pdf"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported output format")
	})

	t.Run("xlsx requires directory", func(t *testing.T) {
		err := Generate(&bytes.Buffer{}, "a", result, Config{Format: "xlsx"})
		require.Error(t, err)
	})

	t.Run("json to writer", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Generate(&buf, "a", result, Config{Format: "json", Precision: 4}))

		var decoded dto.BOMResult
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Len(t, decoded.Lines, 4)
		assert.Equal(t, "A", decoded.Summary.RootItemID)
	})

	t.Run("csv to directory", func(t *testing.T) {
		dir := t.TempDir()
		var buf bytes.Buffer
		require.NoError(t, Generate(&buf, "simple", result, Config{Format: "csv", OutputDir: dir, Verbose: true}))

		assert.FileExists(t, filepath.Join(dir, "simple.csv"))
		assert.FileExists(t, filepath.Join(dir, "simple_operations.csv"))
		assert.Contains(t, buf.String(), "simple_operations.csv")
	})

	t.Run("xlsx to directory", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, Generate(&bytes.Buffer{}, "simple", result, Config{Format: "xlsx", OutputDir: dir}))

		info, err := os.Stat(filepath.Join(dir, "simple.xlsx"))
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	})
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "bracket", BaseName("/data/methods/bracket.yaml"))
	assert.Equal(t, "tree", BaseName("tree"))
	assert.True(t, ValidFormat("xlsx"))
	assert.False(t, ValidFormat("pdf"))
}
