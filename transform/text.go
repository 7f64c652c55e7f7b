package transform

import (
	"github.com/hscells/farecast/frame"
	"github.com/hscells/farecast/tfidf"
	"gonum.org/v1/gonum/mat"
)

// TextVectorizer derives a tf-idf feature block from a free-text column.
// Missing cells are imputed to the empty string, which vectorizes to the
// all-zero row. The vocabulary is learned from the training partition and
// frozen; its size bounds the block's width.
type TextVectorizer struct {
	Column      string
	MaxFeatures int
	Vec         *tfidf.Vectorizer
	Done        bool
}

// TextVectorize creates a tf-idf transform over a free-text column with at
// most maxFeatures vocabulary terms.
func TextVectorize(column string, maxFeatures int) *TextVectorizer {
	return &TextVectorizer{Column: column, MaxFeatures: maxFeatures}
}

func (t *TextVectorizer) docs(f *frame.Frame) ([]string, error) {
	c, err := f.Col(t.Column)
	if err != nil {
		return nil, err
	}
	docs := make([]string, c.Len())
	for i := 0; i < c.Len(); i++ {
		if c.IsNA(i) {
			docs[i] = ""
			continue
		}
		docs[i] = c.Value(i)
	}
	return docs, nil
}

// Fit learns the vocabulary and IDF weights from the training partition.
func (t *TextVectorizer) Fit(f *frame.Frame) error {
	if t.Done {
		return ErrRefit
	}
	docs, err := t.docs(f)
	if err != nil {
		return err
	}
	t.Vec = tfidf.New(t.MaxFeatures)
	if err := t.Vec.Fit(docs); err != nil {
		return err
	}
	t.Done = true
	return nil
}

// Transform scores each document against the frozen vocabulary.
func (t *TextVectorizer) Transform(f *frame.Frame) (*mat.Dense, error) {
	if !t.Done {
		return nil, ErrNotFitted
	}
	docs, err := t.docs(f)
	if err != nil {
		return nil, err
	}
	if t.Vec.Width() == 0 {
		// Nothing in the training corpus survived tokenization.
		return nil, nil
	}
	out := mat.NewDense(len(docs), t.Vec.Width(), nil)
	for i, doc := range docs {
		vec, err := t.Vec.Vector(doc)
		if err != nil {
			return nil, err
		}
		out.SetRow(i, vec)
	}
	return out, nil
}

// Columns implements Transformer.
func (t *TextVectorizer) Columns() []string { return []string{t.Column} }

// Width implements Transformer.
func (t *TextVectorizer) Width() int { return t.Vec.Width() }
