package redis

import (
	"testing"
	"time"

	"github.com/sirpyerre/storefront-api/internal/core/domain"
)

func TestCatalogCodec_PreservesListing(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	in := []*domain.Product{{
		ID:        "p-1",
		OwnerID:   "u-1",
		Name:      "Widget",
		Price:     19.99,
		Quantity:  3,
		Approved:  true,
		CreatedAt: created,
	}}

	raw, err := encodeCatalog(in)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	out, err := decodeCatalog(raw)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(out) != 1 || out[0].ID != "p-1" || out[0].OwnerID != "u-1" || !out[0].CreatedAt.Equal(created) {
		t.Fatalf("unexpected decoded listing: %+v", out)
	}
}

func TestCatalogCodec_EmptyListingIsAHit(t *testing.T) {
	raw, err := encodeCatalog(nil)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if string(raw) != "[]" {
		t.Fatalf("expected empty JSON array, got %s", raw)
	}
	out, err := decodeCatalog(raw)
	if err != nil || out == nil || len(out) != 0 {
		t.Fatalf("expected empty non-nil listing, got %v (err %v)", out, err)
	}
}

func TestCatalogCodec_Corrupt(t *testing.T) {
	if _, err := decodeCatalog([]byte("{not json")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestNewCatalogCache_DefaultTTL(t *testing.T) {
	if c := NewCatalogCache(nil, 0); c.ttl != defaultCacheTTL {
		t.Fatalf("expected default ttl, got %v", c.ttl)
	}
}
