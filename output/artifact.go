// Package output writes the products of a training run: the serialized
// model artifact directory and the feature importance chart.
package output

import (
	"bytes"
	"encoding/gob"
	"encoding/json"

	"github.com/go-errors/errors"
	"github.com/hscells/farecast/frame"
	"github.com/hscells/farecast/model"
	"github.com/peterbourgon/diskv"
)

// Artifact entry names inside the exported directory.
const (
	ModelKey     = "model.gob"
	SignatureKey = "signature.json"
	ExampleKey   = "input_example.json"
	MetadataKey  = "metadata.json"
)

// Field is one named, typed slot of a model signature.
type Field struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Signature declares the schema a model consumes and produces.
type Signature struct {
	Inputs []Field `json:"inputs"`
	Output Field   `json:"output"`
}

// InferSignature derives a signature from a validated frame: one input per
// column, one numeric prediction out.
func InferSignature(f *frame.Frame) Signature {
	sig := Signature{Output: Field{Name: "price", Type: "double"}}
	for _, c := range f.Columns() {
		t := "string"
		switch c.Kind {
		case frame.Numeric:
			t = "double"
		case frame.Bool:
			t = "boolean"
		}
		sig.Inputs = append(sig.Inputs, Field{Name: c.Name, Type: t})
	}
	return sig
}

// example is the JSON layout of the representative input rows.
type example struct {
	Columns []string        `json:"columns"`
	Data    [][]interface{} `json:"data"`
}

func exampleRows(f *frame.Frame) example {
	ex := example{Columns: f.Names()}
	for i := 0; i < f.Len(); i++ {
		row := make([]interface{}, 0, len(ex.Columns))
		for _, c := range f.Columns() {
			switch {
			case c.IsNA(i):
				row = append(row, nil)
			case c.Kind == frame.Numeric:
				row = append(row, c.Float(i))
			default:
				row = append(row, c.Value(i))
			}
		}
		ex.Data = append(ex.Data, row)
	}
	return ex
}

func store(dir string) *diskv.Diskv {
	return diskv.New(diskv.Options{
		BasePath:     dir,
		Transform:    func(s string) []string { return []string{} },
		CacheSizeMax: 4096 * 1024,
	})
}

// Export serializes a fitted model into an artifact directory along with its
// inferred signature, a representative input example, and run metadata. The
// signature is inferred from the type-validated frame.
func Export(dir string, m *model.Model, validated, exampleFrame *frame.Frame, metadata interface{}) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(m); err != nil {
		return errors.WrapPrefix(err, "encoding model", 0)
	}

	entries := map[string][]byte{ModelKey: buf.Bytes()}
	for key, v := range map[string]interface{}{
		SignatureKey: InferSignature(validated),
		ExampleKey:   exampleRows(exampleFrame),
		MetadataKey:  metadata,
	} {
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return errors.WrapPrefix(err, key, 0)
		}
		entries[key] = b
	}

	d := store(dir)
	for key, b := range entries {
		if err := d.Write(key, b); err != nil {
			return errors.WrapPrefix(err, key, 0)
		}
	}
	return nil
}

// Load restores the fitted model from an artifact directory. The restored
// model predicts identically to the model that was exported.
func Load(dir string) (*model.Model, error) {
	b, err := store(dir).Read(ModelKey)
	if err != nil {
		return nil, errors.WrapPrefix(err, "reading model", 0)
	}
	var m model.Model
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&m); err != nil {
		return nil, errors.WrapPrefix(err, "decoding model", 0)
	}
	return &m, nil
}
