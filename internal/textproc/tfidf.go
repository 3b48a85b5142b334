package textproc

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
)

// ErrNoTokens is returned when no word tokens can be extracted from any
// input document.
var ErrNoTokens = errors.New("no tokens found in input texts")

// tokenPattern matches lower-cased word tokens of two or more letters or
// digits.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]{2,}`)

// Space is a TF-IDF vector space fitted over a fixed set of documents.
// Vectors are L2-normalised, so cosine similarity reduces to a dot
// product. The space is local to the documents it was fitted on; scores
// are not calibrated across a wider corpus.
type Space struct {
	vocabulary map[string]int
	vectors    [][]float64
}

// Fit builds a TF-IDF vector space over the given documents.
// Returns ErrNoTokens when no document yields a single token.
func Fit(docs []string) (*Space, error) {
	if len(docs) == 0 {
		return nil, errors.New("empty document set")
	}

	// Document frequencies over distinct terms.
	tokenised := make([][]string, len(docs))
	df := make(map[string]int)
	for i, doc := range docs {
		tokens := tokenise(doc)
		tokenised[i] = tokens
		seen := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	if len(df) == 0 {
		return nil, ErrNoTokens
	}

	// Stable vocabulary ordering.
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	vocabulary := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	n := float64(len(docs))
	for i, term := range terms {
		vocabulary[term] = i
		// Smoothed IDF.
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}

	vectors := make([][]float64, len(docs))
	for i, tokens := range tokenised {
		vec := make([]float64, len(terms))
		for _, tok := range tokens {
			idx := vocabulary[tok]
			vec[idx] += idf[idx]
		}
		normalise(vec)
		vectors[i] = vec
	}

	return &Space{vocabulary: vocabulary, vectors: vectors}, nil
}

// Vector returns the fitted vector for document i.
func (s *Space) Vector(i int) []float64 {
	return s.vectors[i]
}

// Similarity returns the cosine similarity between documents i and j.
func (s *Space) Similarity(i, j int) float64 {
	return dot(s.vectors[i], s.vectors[j])
}

// Cosine computes cosine similarity between two float32 vectors, as
// produced by an embedding service. Returns 0 for mismatched lengths or
// degenerate zero-norm vectors.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dotp, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dotp += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dotp / (math.Sqrt(na) * math.Sqrt(nb))
}

func tokenise(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

func normalise(vec []float64) {
	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return
	}
	for i := range vec {
		vec[i] /= norm
	}
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
