package optimistic

import (
	"errors"
	"testing"
)

type likeSnapshot struct {
	liked bool
	count int
}

func TestBeginCommit(t *testing.T) {
	m := New[int64, likeSnapshot]()

	if err := m.Begin(1, KindLike, likeSnapshot{liked: false, count: 5}); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if !m.Pending(1, KindLike) {
		t.Fatal("expected pending after begin")
	}

	m.Commit(1, KindLike)
	if m.Pending(1, KindLike) {
		t.Fatal("expected resolved after commit")
	}
	if _, ok := m.Rollback(1, KindLike); ok {
		t.Fatal("committed mutation must have no snapshot left")
	}
}

func TestRollbackReturnsSnapshot(t *testing.T) {
	m := New[int64, likeSnapshot]()

	want := likeSnapshot{liked: true, count: 12}
	if err := m.Begin(3, KindLike, want); err != nil {
		t.Fatalf("begin: %v", err)
	}

	got, ok := m.Rollback(3, KindLike)
	if !ok {
		t.Fatal("expected snapshot")
	}
	if got != want {
		t.Fatalf("snapshot = %+v want %+v", got, want)
	}
	if m.Pending(3, KindLike) {
		t.Fatal("expected resolved after rollback")
	}
}

func TestSameKindSameEntityRefused(t *testing.T) {
	m := New[int64, likeSnapshot]()

	if err := m.Begin(1, KindLike, likeSnapshot{}); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := m.Begin(1, KindLike, likeSnapshot{}); !errors.Is(err, ErrPending) {
		t.Fatalf("expected ErrPending, got %v", err)
	}
}

func TestIndependentEntitiesAndKinds(t *testing.T) {
	m := New[int64, likeSnapshot]()

	if err := m.Begin(1, KindLike, likeSnapshot{}); err != nil {
		t.Fatalf("begin entity 1: %v", err)
	}
	if err := m.Begin(2, KindLike, likeSnapshot{}); err != nil {
		t.Fatalf("different entity must be independent: %v", err)
	}
	if err := m.Begin(1, KindDelete, likeSnapshot{}); err != nil {
		t.Fatalf("different kind must be independent: %v", err)
	}
}
