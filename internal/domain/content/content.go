// Package content holds the read-only inputs of an aggregation: queries, retrieved
// content and the metadata keys that may carry precomputed embeddings.
package content

import (
	"strings"

	"github.com/kailas-cloud/mmrank/internal/domain/vector"
)

// Reserved metadata keys.
const (
	// DefaultEmbeddingKey holds a content item's own document embedding.
	DefaultEmbeddingKey = "embedding"
	// DefaultQueryEmbeddingKey holds the embedding of the query the item was retrieved for.
	DefaultQueryEmbeddingKey = "query_embedding"
	// DefaultEmbeddingIDKey holds a stable id of the stored embedding, used for de-duplication.
	DefaultEmbeddingIDKey = "embedding_id"
)

// MetadataKeys names the metadata entries read by embedding strategies and the pool builder.
type MetadataKeys struct {
	Embedding      string
	QueryEmbedding string
	EmbeddingID    string
}

// DefaultMetadataKeys returns the reserved key names.
func DefaultMetadataKeys() MetadataKeys {
	return MetadataKeys{
		Embedding:      DefaultEmbeddingKey,
		QueryEmbedding: DefaultQueryEmbeddingKey,
		EmbeddingID:    DefaultEmbeddingIDKey,
	}
}

// WithDefaults fills blank keys with the reserved names.
func (k MetadataKeys) WithDefaults() MetadataKeys {
	d := DefaultMetadataKeys()
	if k.Embedding == "" {
		k.Embedding = d.Embedding
	}
	if k.QueryEmbedding == "" {
		k.QueryEmbedding = d.QueryEmbedding
	}
	if k.EmbeddingID == "" {
		k.EmbeddingID = d.EmbeddingID
	}
	return k
}

// Query is the text that content was retrieved for.
type Query struct {
	text     string
	metadata map[string]any
}

// NewQuery creates a query.
func NewQuery(text string, metadata map[string]any) Query {
	return Query{text: text, metadata: metadata}
}

// Text returns the query text.
func (q Query) Text() string { return q.text }

// Metadata returns the query metadata. Callers must not mutate it.
func (q Query) Metadata() map[string]any { return q.metadata }

// Content is a single retrieved fragment. The engine never mutates it.
type Content struct {
	text     string
	metadata map[string]any
}

// New creates a content item.
func New(text string, metadata map[string]any) Content {
	return Content{text: text, metadata: metadata}
}

// Text returns the content text.
func (c Content) Text() string { return c.text }

// Metadata returns the content metadata. Callers must not mutate it.
func (c Content) Metadata() map[string]any { return c.metadata }

// Embedding decodes the embedding stored under key.
func (c Content) Embedding(key string) ([]float32, bool) {
	v, ok := c.metadata[key]
	if !ok {
		return nil, false
	}
	return vector.FromAny(v)
}

// EmbeddingID returns the non-blank string stored under key.
func (c Content) EmbeddingID(key string) (string, bool) {
	v, ok := c.metadata[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}
