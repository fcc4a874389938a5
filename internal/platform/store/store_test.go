package store

import (
	"context"
	"errors"
	"testing"
)

func TestMemorySetGet(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	if err := s.Set(ctx, "user:1", []byte(`{"name":"a"}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, err := s.Get(ctx, "user:1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(v) != `{"name":"a"}` {
		t.Errorf("unexpected value %q", v)
	}
}

func TestMemoryGetMissing(t *testing.T) {
	s := NewMemory()
	_, err := s.Get(context.Background(), "user:missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryDelete(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	s.Set(ctx, "k", []byte("v"))
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Error("value survived delete")
	}
	// deleting twice is not an error
	if err := s.Delete(ctx, "k"); err != nil {
		t.Errorf("second delete: %v", err)
	}
}

func TestMemoryListByPrefix(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	s.Set(ctx, "vital:u1:1", []byte("a"))
	s.Set(ctx, "vital:u1:2", []byte("b"))
	s.Set(ctx, "vital:u2:1", []byte("c"))
	s.Set(ctx, "medication:u1:1", []byte("d"))

	got, err := s.ListByPrefix(ctx, "vital:u1:")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 records, got %d", len(got))
	}
}

func TestMemoryListByPrefixKeyOrder(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	s.Set(ctx, "vital:u1:3", []byte("c"))
	s.Set(ctx, "vital:u1:1", []byte("a"))
	s.Set(ctx, "vital:u1:2", []byte("b"))

	got, err := s.ListByPrefix(ctx, "vital:u1:")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"a", "b", "c"}
	for i, v := range got {
		if string(v) != want[i] {
			t.Fatalf("position %d = %q, want %q (ascending key order)", i, v, want[i])
		}
	}
}

func TestMemorySetMultiDeleteMulti(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	pairs := map[string][]byte{
		"consent:p:g":         []byte("fwd"),
		"consent:grantee:g:p": []byte("rev"),
	}
	if err := s.SetMulti(ctx, pairs); err != nil {
		t.Fatalf("setmulti: %v", err)
	}
	for k := range pairs {
		if _, err := s.Get(ctx, k); err != nil {
			t.Errorf("missing %q after SetMulti", k)
		}
	}

	if err := s.DeleteMulti(ctx, "consent:p:g", "consent:grantee:g:p"); err != nil {
		t.Fatalf("deletemulti: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("expected empty store, %d records remain", s.Len())
	}
}

func TestMemoryValueIsolation(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	buf := []byte("original")
	s.Set(ctx, "k", buf)
	buf[0] = 'X'

	v, _ := s.Get(ctx, "k")
	if string(v) != "original" {
		t.Error("store must copy values on write")
	}
	v[0] = 'Y'
	v2, _ := s.Get(ctx, "k")
	if string(v2) != "original" {
		t.Error("store must copy values on read")
	}
}
