package council

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestDispatchYieldsEveryModelExactlyOnce(t *testing.T) {
	models := []string{"model/a", "model/b", "model/c", "model/d"}

	// Stagger completions so arrival order differs from submission order.
	delays := map[string]time.Duration{
		"model/a": 40 * time.Millisecond,
		"model/b": 0,
		"model/c": 20 * time.Millisecond,
		"model/d": 10 * time.Millisecond,
	}

	ch := dispatch(context.Background(), models, func(ctx context.Context, model string) (*reply, error) {
		time.Sleep(delays[model])
		if model == "model/c" {
			return nil, fmt.Errorf("boom")
		}
		return &reply{Content: "answer from " + model}, nil
	})

	seen := map[string]int{}
	for a := range ch {
		seen[a.Model]++
	}

	if len(seen) != len(models) {
		t.Fatalf("Expected %d distinct models, got %d: %v", len(models), len(seen), seen)
	}
	for _, model := range models {
		if seen[model] != 1 {
			t.Errorf("Model %s yielded %d times, want exactly 1", model, seen[model])
		}
	}
}

func TestDispatchDeliversInArrivalOrder(t *testing.T) {
	models := []string{"model/slow", "model/fast"}

	ch := dispatch(context.Background(), models, func(ctx context.Context, model string) (*reply, error) {
		if model == "model/slow" {
			time.Sleep(50 * time.Millisecond)
		}
		return &reply{Content: model}, nil
	})

	first := <-ch
	if first.Model != "model/fast" {
		t.Errorf("First arrival = %s, want model/fast", first.Model)
	}
	second := <-ch
	if second.Model != "model/slow" {
		t.Errorf("Second arrival = %s, want model/slow", second.Model)
	}
	if _, open := <-ch; open {
		t.Error("Channel should be closed after all models yielded")
	}
}

func TestDispatchFailuresStillYield(t *testing.T) {
	models := []string{"model/ok", "model/bad"}

	ch := dispatch(context.Background(), models, func(ctx context.Context, model string) (*reply, error) {
		if model == "model/bad" {
			return nil, fmt.Errorf("timeout")
		}
		return &reply{Content: "fine"}, nil
	})

	results := map[string]arrival{}
	for a := range ch {
		results[a.Model] = a
	}

	if results["model/bad"].Err == nil {
		t.Error("model/bad should carry its error")
	}
	if results["model/ok"].Err != nil || results["model/ok"].Reply == nil {
		t.Error("model/ok should carry its reply")
	}
}

func TestDispatchAbandonedConsumerDoesNotBlockProducers(t *testing.T) {
	models := []string{"model/a", "model/b", "model/c"}
	done := make(chan struct{})

	ch := dispatch(context.Background(), models, func(ctx context.Context, model string) (*reply, error) {
		return &reply{Content: model}, nil
	})

	// Consume one result, then walk away. The buffered channel lets the
	// remaining producers finish and the closer goroutine exit.
	<-ch

	go func() {
		// Drain nothing; just verify the channel still closes.
		deadline := time.After(time.Second)
		for {
			select {
			case _, open := <-ch:
				if !open {
					close(done)
					return
				}
			case <-deadline:
				return
			}
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch did not complete after consumer abandonment")
	}
}
