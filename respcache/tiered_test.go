package respcache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeLayer is an in-memory Layer standing in for a remote backend.
type fakeLayer struct {
	mu   sync.Mutex
	data map[string][]byte

	gets atomic.Int32
	sets atomic.Int32
}

func newFakeLayer() *fakeLayer {
	return &fakeLayer{data: make(map[string][]byte)}
}

func (f *fakeLayer) Get(_ context.Context, key string) ([]byte, bool, error) {
	f.gets.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakeLayer) Set(_ context.Context, key string, val []byte, _ time.Duration) error {
	f.sets.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = val
	return nil
}

func TestTiered_MemoryHitSkipsRemote(t *testing.T) {
	mem := mustNewMemory(t)
	remote := newFakeLayer()
	tc := NewTiered(mem, remote)
	ctx := t.Context()

	if err := tc.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	remote.gets.Store(0)

	v, ok, err := tc.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if string(v) != "v" {
		t.Fatalf("got %q, want %q", v, "v")
	}
	if n := remote.gets.Load(); n != 0 {
		t.Fatalf("remote consulted %d times on a memory hit, want 0", n)
	}
}

func TestTiered_RemoteHitPromotes(t *testing.T) {
	mem := mustNewMemory(t)
	remote := newFakeLayer()
	tc := NewTiered(mem, remote)
	ctx := t.Context()

	// Seed only the remote layer.
	if err := remote.Set(ctx, "k", []byte("warm"), 0); err != nil {
		t.Fatalf("seed: %v", err)
	}

	v, ok, err := tc.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if string(v) != "warm" {
		t.Fatalf("got %q, want %q", v, "warm")
	}

	// The value is now in memory.
	if _, ok, _ := mem.Get(ctx, "k"); !ok {
		t.Fatal("remote hit was not promoted into memory")
	}
}

func TestTiered_GetOrSet_RemoteHitSkipsLoader(t *testing.T) {
	mem := mustNewMemory(t)
	remote := newFakeLayer()
	tc := NewTiered(mem, remote)
	ctx := t.Context()

	if err := remote.Set(ctx, "k", []byte("cached"), 0); err != nil {
		t.Fatalf("seed: %v", err)
	}

	loader := func(_ context.Context) ([]byte, error) {
		t.Fatal("loader should not run on a remote hit")
		return nil, nil
	}

	v, err := tc.GetOrSet(ctx, "k", time.Minute, loader)
	if err != nil {
		t.Fatalf("GetOrSet: %v", err)
	}
	if string(v) != "cached" {
		t.Fatalf("got %q, want %q", v, "cached")
	}
}

func TestTiered_GetOrSet_LoaderPopulatesBothLayers(t *testing.T) {
	mem := mustNewMemory(t)
	remote := newFakeLayer()
	tc := NewTiered(mem, remote)
	ctx := t.Context()

	var calls atomic.Int32
	loader := func(_ context.Context) ([]byte, error) {
		calls.Add(1)
		return []byte("fresh"), nil
	}

	v, err := tc.GetOrSet(ctx, "k", time.Minute, loader)
	if err != nil {
		t.Fatalf("GetOrSet: %v", err)
	}
	if string(v) != "fresh" {
		t.Fatalf("got %q, want %q", v, "fresh")
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("loader called %d times, want 1", n)
	}

	if _, ok, _ := mem.Get(ctx, "k"); !ok {
		t.Fatal("loaded value missing from memory")
	}
	if _, ok, _ := remote.Get(ctx, "k"); !ok {
		t.Fatal("loaded value missing from remote layer")
	}
}

func TestTiered_GetOrSet_ConcurrentSingleLoad(t *testing.T) {
	mem := mustNewMemory(t)
	remote := newFakeLayer()
	tc := NewTiered(mem, remote)
	ctx := t.Context()

	var calls atomic.Int32
	loader := func(_ context.Context) ([]byte, error) {
		calls.Add(1)
		time.Sleep(10 * time.Millisecond)
		return []byte("slow"), nil
	}

	const n = 16
	start := make(chan struct{})
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, err := tc.GetOrSet(ctx, "contested", time.Minute, loader); err != nil {
				t.Errorf("GetOrSet: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times under contention, want 1", got)
	}
}
