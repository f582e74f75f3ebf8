package aggregate

import (
	"testing"

	"github.com/kailas-cloud/mmrank/internal/domain/content"
)

func TestBuildPool_FlattensInGroupOrder(t *testing.T) {
	r := content.Retrieval{
		Query:  content.NewQuery("q", nil),
		Groups: [][]content.Content{items("a", "b"), {}, items("c")},
	}

	pool := buildPool(r, content.DefaultEmbeddingIDKey)
	if len(pool) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(pool))
	}
	for i, want := range []string{"a", "b", "c"} {
		if pool[i].Text() != want {
			t.Errorf("[%d] = %q, want %q", i, pool[i].Text(), want)
		}
		if pool[i].Position() != i {
			t.Errorf("[%d] position = %d", i, pool[i].Position())
		}
	}
}

func TestBuildPool_DropsDuplicateIdentity(t *testing.T) {
	dup := func(text string) content.Content {
		return content.New(text, map[string]any{content.DefaultEmbeddingIDKey: "same"})
	}
	r := content.Retrieval{
		Groups: [][]content.Content{{dup("first"), content.New("plain", nil)}, {dup("second")}},
	}

	pool := buildPool(r, content.DefaultEmbeddingIDKey)
	if len(pool) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(pool))
	}
	if pool[0].Text() != "first" || pool[1].Text() != "plain" {
		t.Errorf("unexpected pool order: %q, %q", pool[0].Text(), pool[1].Text())
	}
}

func TestBuildPool_SameTextWithoutIDIsKept(t *testing.T) {
	r := content.Retrieval{Groups: [][]content.Content{items("a"), items("a")}}

	pool := buildPool(r, content.DefaultEmbeddingIDKey)
	if len(pool) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(pool))
	}
	if pool[0].Identity() == pool[1].Identity() {
		t.Errorf("sequential identities collide: %q", pool[0].Identity())
	}
}

func TestBuildPool_Empty(t *testing.T) {
	if pool := buildPool(content.Retrieval{}, content.DefaultEmbeddingIDKey); len(pool) != 0 {
		t.Fatalf("expected empty pool, got %d", len(pool))
	}
}
