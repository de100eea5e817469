package core

import (
	"sync"
	"testing"
)

func TestRectEdges(t *testing.T) {
	r := NewRect(5, 10, 20, 15)

	if r.Right() != 25 {
		t.Errorf("Right() = %d, expected 25", r.Right())
	}
	if r.Bottom() != 25 {
		t.Errorf("Bottom() = %d, expected 25", r.Bottom())
	}
}

func TestClampF(t *testing.T) {
	tests := []struct {
		val, min, max, expected float64
	}{
		{5.5, 0.0, 10.0, 5.5},
		{-5.5, 0.0, 10.0, 0.0},
		{-900, -640, 0, -640},
	}

	for _, tc := range tests {
		result := ClampF(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("ClampF(%f, %f, %f) = %f, expected %f", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}

func TestIntentWith(t *testing.T) {
	in := Intent{}.With(ActionUp).With(ActionRight).With(ActionQuit)
	if in != (Intent{Up: true, Right: true}) {
		t.Errorf("With() = %+v, expected up and right only", in)
	}
	if in.String() != "U--R" {
		t.Errorf("String() = %q, expected %q", in.String(), "U--R")
	}
}

func TestIntentLatch(t *testing.T) {
	var latch IntentLatch
	if latch.Intent() != (Intent{}) {
		t.Error("zero latch should hold no intent")
	}

	all := []Intent{
		{},
		{Up: true},
		{Down: true, Left: true},
		{Up: true, Down: true, Left: true, Right: true},
	}
	for _, in := range all {
		latch.Store(in)
		if got := latch.Intent(); got != in {
			t.Errorf("Intent() = %+v, expected %+v", got, in)
		}
	}
}

func TestIntentLatchConcurrentReaders(t *testing.T) {
	var latch IntentLatch
	valid := map[Intent]bool{
		{Left: true}:  true,
		{Right: true}: true,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			if i%2 == 0 {
				latch.Store(Intent{Left: true})
			} else {
				latch.Store(Intent{Right: true})
			}
		}
	}()

	latch.Store(Intent{Left: true})
	for i := 0; i < 1000; i++ {
		if in := latch.Intent(); !valid[in] {
			t.Fatalf("torn intent read: %+v", in)
		}
	}
	wg.Wait()
}
