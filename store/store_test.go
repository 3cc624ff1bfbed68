package store

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/go-cmp/cmp"
	redis "github.com/redis/go-redis/v9"

	"github.com/signadot/xton-format/go-xton/encode"
	"github.com/signadot/xton-format/go-xton/ir"
	"github.com/signadot/xton-format/go-xton/parse"
	"github.com/signadot/xton-format/go-xton/token"
)

func newTestStore(t *testing.T, opts ...Option) (*Store, *miniredis.Miniredis) {
	t.Helper()

	srv, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	s, err := New(client, opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() {
		_ = client.Close()
		srv.Close()
	})
	return s, srv
}

func doc(t *testing.T, s string) *ir.Node {
	t.Helper()
	node, err := parse.ParseString(s)
	if err != nil {
		t.Fatal(err)
	}
	return node
}

func TestPutGet(t *testing.T) {
	s, srv := newTestStore(t)
	ctx := context.Background()

	v, err := s.Put(ctx, "cfg", doc(t, `<name-svc/ports-[80/443]>`), 0)
	if err != nil || v != 1 {
		t.Fatalf("Put: %d %v", v, err)
	}
	v, err = s.Put(ctx, "cfg", doc(t, `<name-svc/ports-[8080]>`), 0)
	if err != nil || v != 2 {
		t.Fatalf("second Put: %d %v", v, err)
	}
	node, v, err := s.Get(ctx, "cfg")
	if err != nil {
		t.Fatal(err)
	}
	if v != 2 {
		t.Errorf("expected version 2, got %d", v)
	}
	if got, want := encode.MustString(node), `<name-svc/ports-[8080.0]>`; got != want {
		t.Errorf("got %s want %s", got, want)
	}
	if got := srv.HGet("xton:doc:cfg", "format"); got != "xton" {
		t.Errorf("stored format %q", got)
	}
	if got := srv.HGet("xton:doc:cfg", "data"); got != `<name-svc/ports-[8080.0]>` {
		t.Errorf("stored data %q", got)
	}
}

func TestGetMissing(t *testing.T) {
	s, _ := newTestStore(t)
	if _, _, err := s.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetCorrupt(t *testing.T) {
	s, srv := newTestStore(t)
	srv.HSet("xton:doc:bad", "data", "[a/", "format", "xton", "version", "1")
	_, _, err := s.Get(context.Background(), "bad")
	var de *token.DecodeError
	if !errors.As(err, &de) || de.Kind != token.UnterminatedContainer {
		t.Fatalf("got %v", err)
	}
	if !errors.Is(err, ErrFormat) {
		t.Errorf("corrupt data should be ErrFormat, got %v", err)
	}
	srv.HSet("xton:doc:json", "data", "{}", "format", "json", "version", "1")
	if _, _, err := s.Get(context.Background(), "json"); !errors.Is(err, ErrFormat) {
		t.Fatalf("got %v", err)
	}
}

func TestTTL(t *testing.T) {
	s, srv := newTestStore(t)
	ctx := context.Background()
	if _, err := s.Put(ctx, "tmp", ir.FromString("x"), 5*time.Second); err != nil {
		t.Fatal(err)
	}
	d, err := s.TTL(ctx, "tmp")
	if err != nil || d <= 0 || d > 5*time.Second {
		t.Fatalf("TTL: %v %v", d, err)
	}
	if _, err := s.Put(ctx, "tmp", ir.FromString("y"), 0); err != nil {
		t.Fatal(err)
	}
	if d, err := s.TTL(ctx, "tmp"); err != nil || d != 0 {
		t.Fatalf("TTL after persist: %v %v", d, err)
	}
	if _, err := s.Put(ctx, "tmp", ir.FromString("z"), time.Second); err != nil {
		t.Fatal(err)
	}
	srv.FastForward(2 * time.Second)
	if _, _, err := s.Get(ctx, "tmp"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expiry, got %v", err)
	}
}

func TestPutUnrepresentable(t *testing.T) {
	s, srv := newTestStore(t)
	_, err := s.Put(context.Background(), "x", &ir.Node{Type: ir.ObjectType, Fields: []*ir.Node{ir.FromString("a")}}, 0)
	if !errors.Is(err, encode.ErrUnrepresentable) {
		t.Fatalf("got %v", err)
	}
	if srv.Exists("xton:doc:x") {
		t.Error("nothing should be stored")
	}
}

func TestDeleteAndKeys(t *testing.T) {
	s, _ := newTestStore(t, WithPrefix("t:"))
	ctx := context.Background()
	for _, k := range []string{"b", "a", "c/1"} {
		if _, err := s.Put(ctx, k, ir.Null(), 0); err != nil {
			t.Fatal(err)
		}
	}
	keys, err := s.Keys(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a", "b", "c/1"}, keys); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}
	keys, err = s.Keys(ctx, "c*")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"c/1"}, keys); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
}

func TestWatch(t *testing.T) {
	s, _ := newTestStore(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	w, err := s.Watch(ctx, "cfg")
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if _, err := s.Put(ctx, "cfg", ir.FromBool(true), 0); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "cfg"); err != nil {
		t.Fatal(err)
	}
	var got []Event
	for len(got) < 2 {
		select {
		case ev := <-w.Events():
			got = append(got, ev)
		case <-ctx.Done():
			t.Fatalf("timed out, got %v", got)
		}
	}
	want := []Event{{Key: "cfg", Op: OpPut, Version: 1}, {Key: "cfg", Op: OpDelete}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
}

func TestNewNilClient(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrNilClient) {
		t.Fatalf("got %v", err)
	}
}
