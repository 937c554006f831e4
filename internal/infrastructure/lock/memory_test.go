package lock

import (
	"sync"
	"testing"
)

func TestMemoryLocker_SerialisesSameKey(t *testing.T) {
	l := NewMemoryLocker()
	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.Lock("c1")
			defer unlock()
			v := counter
			v++
			counter = v
		}()
	}
	wg.Wait()
	if counter != 50 {
		t.Errorf("counter = %d, want 50", counter)
	}
	if l.Len() != 0 {
		t.Errorf("Len() = %d after all unlocks, want 0", l.Len())
	}
}

func TestMemoryLocker_IndependentKeys(t *testing.T) {
	l := NewMemoryLocker()
	unlockA := l.Lock("a")
	done := make(chan struct{})
	go func() {
		unlockB := l.Lock("b")
		unlockB()
		close(done)
	}()
	<-done
	unlockA()
	unlockA()
	if l.Len() != 0 {
		t.Errorf("Len() = %d, want 0", l.Len())
	}
}
