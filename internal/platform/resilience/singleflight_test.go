package resilience

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_Do(t *testing.T) {
	var g SingleFlight[[]byte]
	var counter int32

	const workers = 20
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			got, err, _ := g.Do("GET /api/matches/football", func() ([]byte, error) {
				atomic.AddInt32(&counter, 1)
				time.Sleep(20 * time.Millisecond)
				return []byte("[]"), nil
			})
			if err != nil {
				t.Errorf("singleflight call failed: %v", err)
			}
			if string(got) != "[]" {
				t.Errorf("unexpected shared value %q", got)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&counter); got != 1 {
		t.Fatalf("expected function to run once, got %d", got)
	}
}

func TestSingleFlight_DoesNotRetainResults(t *testing.T) {
	var g SingleFlight[int]
	calls := 0

	for i := 0; i < 3; i++ {
		_, err, shared := g.Do("key", func() (int, error) {
			calls++
			return 0, errors.New("upstream down")
		})
		if err == nil || shared {
			t.Fatalf("expected unshared error, got err=%v shared=%v", err, shared)
		}
	}
	if calls != 3 {
		t.Fatalf("expected sequential calls to run every time, got %d", calls)
	}
}

func TestSingleFlight_DoChanSharesExecution(t *testing.T) {
	var g SingleFlight[string]
	var counter int32
	release := make(chan struct{})

	fn := func() (string, error) {
		atomic.AddInt32(&counter, 1)
		<-release
		return "ok", nil
	}

	first := g.DoChan("key", fn)
	for atomic.LoadInt32(&counter) == 0 {
		time.Sleep(time.Millisecond)
	}
	second := g.DoChan("key", fn)
	time.Sleep(10 * time.Millisecond)
	close(release)

	a, b := <-first, <-second
	if a.Val != "ok" || b.Val != "ok" || a.Err != nil || b.Err != nil {
		t.Fatalf("unexpected results: %+v %+v", a, b)
	}
	if !b.Shared {
		t.Fatalf("expected second caller to share the flight")
	}
	if got := atomic.LoadInt32(&counter); got != 1 {
		t.Fatalf("expected function to run once, got %d", got)
	}
}
