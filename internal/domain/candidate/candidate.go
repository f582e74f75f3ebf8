// Package candidate holds the per-call working set of an aggregation.
package candidate

import (
	"strconv"

	"github.com/kailas-cloud/mmrank/internal/domain/content"
)

// Identity prefixes keep explicit ids and engine-assigned ids in separate namespaces.
const (
	explicitPrefix = "id:"
	sequencePrefix = "seq:"
)

// ScoreFunc maps a cosine similarity in [-1,1] to a relevance score in [0,1].
// Implementations must be monotonic non-decreasing.
type ScoreFunc func(cosine float64) float64

// RelevanceFromCosine is the default ScoreFunc: (cosine + 1) / 2.
func RelevanceFromCosine(cosine float64) float64 {
	return (cosine + 1) / 2
}

// Candidate is one content item taking part in a single aggregation call.
type Candidate struct {
	content   content.Content
	position  int
	identity  string
	embedding []float32
	relevance float64
}

// New creates a candidate at the given position of the flattened pool.
// The identity comes from the embedding id metadata when present, else from seq.
func New(c content.Content, position int, seq int, idKey string) Candidate {
	identity := sequencePrefix + strconv.Itoa(seq)
	if id, ok := c.EmbeddingID(idKey); ok {
		identity = explicitPrefix + id
	}
	return Candidate{content: c, position: position, identity: identity}
}

// Content returns the wrapped content item.
func (c *Candidate) Content() content.Content { return c.content }

// Text returns the content text.
func (c *Candidate) Text() string { return c.content.Text() }

// Position returns the insertion order in the flattened pool.
func (c *Candidate) Position() int { return c.position }

// Identity returns the de-duplication key.
func (c *Candidate) Identity() string { return c.identity }

// Embedding returns the resolved document embedding (nil before resolution).
func (c *Candidate) Embedding() []float32 { return c.embedding }

// Relevance returns the relevance score against the query.
func (c *Candidate) Relevance() float64 { return c.relevance }

// Resolve records the document embedding and its relevance score.
func (c *Candidate) Resolve(embedding []float32, relevance float64) {
	c.embedding = embedding
	c.relevance = relevance
}
