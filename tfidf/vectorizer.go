// Package tfidf implements a bounded-vocabulary term-frequency/inverse-
// document-frequency vectorizer. The vocabulary and IDF weights are learned
// once from a training corpus and frozen; terms outside the learned
// vocabulary contribute nothing at scoring time.
package tfidf

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/bbalet/stopwords"
	"github.com/go-errors/errors"
	prose "github.com/jdkato/prose/v2"
	"gonum.org/v1/gonum/floats"
)

// Vectorizer scores documents against a learned vocabulary. All fields are
// populated by Fit and must not be modified afterwards.
type Vectorizer struct {
	MaxFeatures int
	Vocab       []string
	Index       map[string]int
	IDF         []float64
}

// New creates an unfitted vectorizer with the given vocabulary bound.
func New(maxFeatures int) *Vectorizer {
	if maxFeatures <= 0 {
		maxFeatures = 10
	}
	return &Vectorizer{MaxFeatures: maxFeatures}
}

// Tokenize splits a document into lower-cased word tokens with English stop
// words removed.
func Tokenize(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	doc, err := prose.NewDocument(text,
		prose.WithSegmentation(false),
		prose.WithTagging(false),
		prose.WithExtraction(false))
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}
	var words []string
	for _, tok := range doc.Tokens() {
		w := strings.ToLower(tok.Text)
		if isWord(w) {
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		return nil, nil
	}
	return strings.Fields(stopwords.CleanString(strings.Join(words, " "), "en", false)), nil
}

func isWord(w string) bool {
	if len(w) < 2 {
		return false
	}
	for _, r := range w {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Fit learns the vocabulary and IDF weights from a corpus. The vocabulary
// keeps the MaxFeatures terms with the highest corpus counts; ties break
// alphabetically so repeated fits of the same corpus are identical. IDF
// weights are smoothed: ln((1+n)/(1+df)) + 1.
func (v *Vectorizer) Fit(corpus []string) error {
	termCount := make(map[string]int)
	docCount := make(map[string]int)
	for _, doc := range corpus {
		tokens, err := Tokenize(doc)
		if err != nil {
			return err
		}
		seen := make(map[string]bool, len(tokens))
		for _, t := range tokens {
			termCount[t]++
			seen[t] = true
		}
		for t := range seen {
			docCount[t]++
		}
	}

	terms := make([]string, 0, len(termCount))
	for t := range termCount {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if termCount[terms[i]] != termCount[terms[j]] {
			return termCount[terms[i]] > termCount[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > v.MaxFeatures {
		terms = terms[:v.MaxFeatures]
	}
	sort.Strings(terms)

	v.Vocab = terms
	v.Index = make(map[string]int, len(terms))
	v.IDF = make([]float64, len(terms))
	n := float64(len(corpus))
	for i, t := range terms {
		v.Index[t] = i
		v.IDF[i] = math.Log((1+n)/(1+float64(docCount[t]))) + 1
	}
	return nil
}

// Width returns the learned vocabulary size.
func (v *Vectorizer) Width() int {
	return len(v.Vocab)
}

// Vector scores one document against the frozen vocabulary, returning an
// L2-normalised tf-idf vector. Documents with no in-vocabulary terms map to
// the all-zero vector.
func (v *Vectorizer) Vector(doc string) ([]float64, error) {
	vec := make([]float64, len(v.Vocab))
	tokens, err := Tokenize(doc)
	if err != nil {
		return nil, err
	}
	for _, t := range tokens {
		if i, ok := v.Index[t]; ok {
			vec[i] += v.IDF[i]
		}
	}
	if norm := floats.Norm(vec, 2); norm > 0 {
		floats.Scale(1/norm, vec)
	}
	return vec, nil
}
