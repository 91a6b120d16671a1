package fetchpool

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nathanjmcdougall/uv/distindex"
	"github.com/nathanjmcdougall/uv/version"
)

func TestPoolDispatchesSubmittedRequests(t *testing.T) {
	var mu sync.Mutex
	var seen []string

	p := New(context.Background(), 8, 4, func(_ context.Context, req distindex.Request) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, req.Name)
		return nil
	})
	defer p.Close()

	for _, name := range []string{"a", "b", "c"} {
		if err := p.Submit(distindex.Request{Name: name, Version: version.MustParse("1.0")}); err != nil {
			t.Fatalf("unexpected submit error: %v", err)
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := len(seen)
		mu.Unlock()
		if n == 3 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 3 {
		t.Fatalf("got %d handled requests, want 3: %v", len(seen), seen)
	}
}

func TestPoolSubmitFailsAfterClose(t *testing.T) {
	p := New(context.Background(), 1, 1, func(context.Context, distindex.Request) error { return nil })
	p.Close()

	err := p.Submit(distindex.Request{Name: "a", Version: version.MustParse("1.0")})
	if err == nil {
		t.Fatalf("expected submit to fail after close")
	}
}
