package output_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/hscells/farecast/forest"
	"github.com/hscells/farecast/frame"
	"github.com/hscells/farecast/model"
	"github.com/hscells/farecast/output"
	"github.com/hscells/farecast/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listingFrame(t *testing.T, n int) *frame.Frame {
	t.Helper()
	roomTypes := []string{"Entire home/apt", "Private room", "Shared room"}
	boroughs := []string{"Brooklyn", "Manhattan", "Queens"}
	names := []string{"sunny loft", "cozy studio", "charming flat", ""}
	reviews := []string{"2019-01-01", "2019-03-15", "", "2019-06-01"}

	cells := func(f func(i int) string) []string {
		c := make([]string, n)
		for i := range c {
			c[i] = f(i)
		}
		return c
	}
	cols := []*frame.Column{
		frame.NewColumn("room_type", cells(func(i int) string { return roomTypes[i%3] })),
		frame.NewColumn("neighbourhood_group", cells(func(i int) string { return boroughs[i%3] })),
		frame.NewColumn("last_review", cells(func(i int) string { return reviews[i%4] })),
		frame.NewColumn("name", cells(func(i int) string { return names[i%4] })),
	}
	for _, zc := range transform.ZeroColumns {
		zc := zc
		cols = append(cols, frame.NewColumn(zc, cells(func(i int) string {
			return strconv.Itoa((i * len(zc)) % 30)
		})))
	}
	f, err := frame.New(cols...)
	require.NoError(t, err)
	return f
}

func target(n int) []float64 {
	y := make([]float64, n)
	for i := range y {
		y[i] = float64(60 + (i*17)%120)
	}
	return y
}

func fitted(t *testing.T, f *frame.Frame, y []float64) *model.Model {
	t.Helper()
	m := model.New(transform.NewListingComposer(5), forest.Config{Trees: 10, Seed: 42})
	require.NoError(t, m.Fit(f, y))
	return m
}

func TestExportLoadRoundTrip(t *testing.T) {
	f := listingFrame(t, 30)
	m := fitted(t, f, target(30))
	dir := filepath.Join(t.TempDir(), "artifact")

	require.NoError(t, output.Export(dir, m, f, f.Head(5), map[string]string{"seed": "42"}))

	loaded, err := output.Load(dir)
	require.NoError(t, err)

	val := listingFrame(t, 11)
	want, err := m.Predict(val)
	require.NoError(t, err)
	got, err := loaded.Predict(val)
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-9)
	}
}

func TestExportWritesSignatureAndMetadata(t *testing.T) {
	f := listingFrame(t, 30)
	m := fitted(t, f, target(30))
	dir := filepath.Join(t.TempDir(), "artifact")

	meta := map[string]interface{}{"run_id": "abc", "seed": 42}
	require.NoError(t, output.Export(dir, m, f, f.Head(5), meta))

	var sig output.Signature
	b, err := os.ReadFile(filepath.Join(dir, output.SignatureKey))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(b, &sig))
	assert.Equal(t, "price", sig.Output.Name)
	assert.Equal(t, "double", sig.Output.Type)
	assert.Len(t, sig.Inputs, len(f.Names()))

	b, err = os.ReadFile(filepath.Join(dir, output.ExampleKey))
	require.NoError(t, err)
	var ex struct {
		Columns []string        `json:"columns"`
		Data    [][]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(b, &ex))
	assert.Equal(t, f.Names(), ex.Columns)
	assert.Len(t, ex.Data, 5)

	_, err = os.Stat(filepath.Join(dir, output.MetadataKey))
	assert.NoError(t, err)
}

func TestLoadMissingArtifact(t *testing.T) {
	_, err := output.Load(filepath.Join(t.TempDir(), "nothing-here"))
	assert.Error(t, err)
}

func TestInferSignatureKinds(t *testing.T) {
	f, err := frame.New(
		frame.NewColumn("name", []string{"a", "b"}),
		frame.NewColumn("nights", []string{"1", "2"}),
		frame.NewColumn("licensed", []string{"true", "false"}),
	)
	require.NoError(t, err)

	sig := output.InferSignature(f)
	types := map[string]string{}
	for _, in := range sig.Inputs {
		types[in.Name] = in.Type
	}
	assert.Equal(t, "string", types["name"])
	assert.Equal(t, "double", types["nights"])
	assert.Equal(t, "boolean", types["licensed"])
}

func TestPlotImportance(t *testing.T) {
	path := filepath.Join(t.TempDir(), "importance.png")
	names := []string{"room_type", "neighbourhood_group", "name"}
	weights := []float64{0.5, 0.3, 0.2}
	require.NoError(t, output.PlotImportance(names, weights, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestPlotImportanceMismatch(t *testing.T) {
	err := output.PlotImportance([]string{"a"}, []float64{1, 2}, "unused.png")
	assert.Error(t, err)
}
