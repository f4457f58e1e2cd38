package repo

import (
	"fmt"
	"testing"
	"time"

	"printpost-backend/internal/domain"
)

func TestMemoryMarkProcessedDedup(t *testing.T) {
	r := NewMemoryOrderRepo()
	rec := &domain.OrderRecord{SessionID: "cs_1", CreatedAt: time.Now().UTC()}

	first, err := r.MarkProcessed(rec)
	if err != nil {
		t.Fatalf("MarkProcessed error: %v", err)
	}
	if !first {
		t.Fatalf("first MarkProcessed returned false")
	}

	again, err := r.MarkProcessed(rec)
	if err != nil {
		t.Fatalf("MarkProcessed error: %v", err)
	}
	if again {
		t.Fatalf("redelivered session reported as new")
	}

	got, ok := r.Get("cs_1")
	if !ok || got.SessionID != "cs_1" {
		t.Fatalf("Get after MarkProcessed: %v %v", got, ok)
	}
}

func TestMemoryListPagination(t *testing.T) {
	r := NewMemoryOrderRepo()
	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		_, err := r.MarkProcessed(&domain.OrderRecord{
			SessionID: fmt.Sprintf("cs_%d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("MarkProcessed error: %v", err)
		}
	}

	page, total := r.List(1, 2)
	if total != 5 {
		t.Fatalf("total = %d, want 5", total)
	}
	if len(page) != 2 {
		t.Fatalf("page size = %d, want 2", len(page))
	}
	if page[0].SessionID != "cs_4" {
		t.Fatalf("newest first expected, got %s", page[0].SessionID)
	}

	last, _ := r.List(3, 2)
	if len(last) != 1 || last[0].SessionID != "cs_0" {
		t.Fatalf("last page = %+v", last)
	}
}
