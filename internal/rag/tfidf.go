package rag

import (
	"context"
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
)

// TFIDFEmbedder is an in-process embedder: it builds a vocabulary and
// IDF weights from the ingested corpus and embeds text as a TF-IDF
// vector over that vocabulary. No external backend is needed, which
// keeps the default deployment self-contained.
type TFIDFEmbedder struct {
	vocabulary map[string]int
	idf        []float64
	prepared   bool
	tokens     *regexp.Regexp
}

func NewTFIDFEmbedder() *TFIDFEmbedder {
	return &TFIDFEmbedder{
		vocabulary: make(map[string]int),
		tokens:     regexp.MustCompile(`\p{L}+`),
	}
}

// Prepare builds the vocabulary and smoothed IDF values from the corpus.
func (e *TFIDFEmbedder) Prepare(corpus []string) error {
	if len(corpus) == 0 {
		return errors.New("empty corpus")
	}

	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range e.tokenize(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	if len(df) == 0 {
		return errors.New("no tokens found in corpus")
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	e.vocabulary = make(map[string]int, len(terms))
	e.idf = make([]float64, len(terms))
	n := float64(len(corpus))
	for i, term := range terms {
		e.vocabulary[term] = i
		e.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	e.prepared = true
	return nil
}

// Embed returns the TF-IDF vector for the text. Terms outside the
// prepared vocabulary are ignored.
func (e *TFIDFEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	if !e.prepared {
		return nil, errors.New("tfidf embedder not prepared")
	}
	vec := make([]float64, len(e.idf))
	toks := e.tokenize(text)
	if len(toks) == 0 {
		return vec, nil
	}
	for _, tok := range toks {
		if i, ok := e.vocabulary[tok]; ok {
			vec[i]++
		}
	}
	for i := range vec {
		if vec[i] > 0 {
			vec[i] = (vec[i] / float64(len(toks))) * e.idf[i]
		}
	}
	return vec, nil
}

func (e *TFIDFEmbedder) Dimension() int { return len(e.idf) }

// Ping always succeeds: there is no remote backend to reach.
func (e *TFIDFEmbedder) Ping(context.Context) error { return nil }

func (e *TFIDFEmbedder) tokenize(text string) []string {
	return e.tokens.FindAllString(strings.ToLower(text), -1)
}
