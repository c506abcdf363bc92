package parallel

import (
	"errors"
	"sync"
	"testing"
)

func TestErrorCollectorKeepsFirstError(t *testing.T) {
	t.Parallel()

	ec := &ErrorCollector{}
	first := errors.New("chunk 12 failed")
	second := errors.New("chunk 40 failed")

	ec.SetError(first)
	if ec.Err() != first {
		t.Fatalf("Err() = %v, want %v", ec.Err(), first)
	}

	// Later errors must not displace the first one.
	ec.SetError(second)
	if ec.Err() != first {
		t.Errorf("Err() = %v, want first error %v to persist", ec.Err(), first)
	}

	// Nil is ignored outright.
	ec.SetError(nil)
	if ec.Err() != first {
		t.Errorf("Err() = %v after nil set, want %v", ec.Err(), first)
	}
}

func TestErrorCollectorConcurrentSet(t *testing.T) {
	t.Parallel()

	ec := &ErrorCollector{}
	const workers = 100

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			ec.SetError(errors.New("worker failure"))
		}()
	}
	close(start)
	wg.Wait()

	if ec.Err() == nil {
		t.Fatal("expected an error after concurrent sets, got nil")
	}
	if ec.Err().Error() != "worker failure" {
		t.Errorf("Err() = %v, want a worker failure", ec.Err())
	}
}

func TestErrorCollectorReset(t *testing.T) {
	t.Parallel()

	ec := &ErrorCollector{}
	err := errors.New("transient failure")

	ec.SetError(err)
	ec.Reset()
	if ec.Err() != nil {
		t.Fatalf("Err() = %v after Reset, want nil", ec.Err())
	}

	// The collector is reusable after Reset.
	next := errors.New("next run failure")
	ec.SetError(next)
	if ec.Err() != next {
		t.Errorf("Err() = %v, want %v", ec.Err(), next)
	}
}
