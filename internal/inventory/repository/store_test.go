package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/chaoslab/commerce/pkg/apierr"
)

func TestMemoryStoreGet(t *testing.T) {
	store := NewSeededStore()

	p, err := store.Get(context.Background(), "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name != "Laptop" || p.Stock != 50 || p.Price != 15000 {
		t.Fatalf("unexpected product: %+v", p)
	}

	if _, err := store.Get(context.Background(), "999"); apierr.CodeOf(err) != apierr.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
	if _, err := store.Get(context.Background(), ""); apierr.CodeOf(err) != apierr.CodeNotFound {
		t.Fatalf("expected NOT_FOUND for empty id, got %v", err)
	}
}

func TestMemoryStoreGetIsIdempotent(t *testing.T) {
	store := NewSeededStore()

	first, err := store.Get(context.Background(), "2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := store.Get(context.Background(), "2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Stock != second.Stock {
		t.Fatalf("stock changed between reads: %d vs %d", first.Stock, second.Stock)
	}
}

func TestMemoryStoreList(t *testing.T) {
	store := NewSeededStore()

	products, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 5 {
		t.Fatalf("expected 5 products, got %d", len(products))
	}
	for i := 1; i < len(products); i++ {
		if products[i-1].ID >= products[i].ID {
			t.Fatalf("expected sorted ids, got %s before %s", products[i-1].ID, products[i].ID)
		}
	}
}

func TestMemoryStoreReserve(t *testing.T) {
	tests := []struct {
		name          string
		productID     string
		quantity      int
		wantAvailable int
		wantErr       error
	}{
		{name: "exact stock", productID: "3", quantity: 30, wantAvailable: 30},
		{name: "one over stock", productID: "3", quantity: 31, wantAvailable: 30, wantErr: apierr.ErrInsufficientStock},
		{name: "unknown product", productID: "999", quantity: 1, wantAvailable: 0, wantErr: apierr.ErrInsufficientStock},
		{name: "zero quantity", productID: "1", quantity: 0, wantAvailable: 0, wantErr: apierr.ErrInvalidParam},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewSeededStore()
			available, err := store.Reserve(context.Background(), tt.productID, tt.quantity)
			if !errors.Is(err, tt.wantErr) && apierr.CodeOf(err) != apierr.CodeOf(tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if available != tt.wantAvailable {
				t.Fatalf("expected available %d, got %d", tt.wantAvailable, available)
			}
		})
	}
}

func TestMemoryStoreReserveDoesNotConsumeStock(t *testing.T) {
	store := NewSeededStore()

	if _, err := store.Reserve(context.Background(), "3", 30); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	available, err := store.Reserve(context.Background(), "3", 31)
	if apierr.CodeOf(err) != apierr.CodeInsufficientStock {
		t.Fatalf("expected INSUFFICIENT_STOCK, got %v", err)
	}
	if available != 30 {
		t.Fatalf("expected availability unchanged at 30, got %d", available)
	}
}
