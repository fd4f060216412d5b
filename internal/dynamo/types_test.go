package dynamo

import (
	"errors"
	"math"
	"sync/atomic"
	"testing"
)

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		valid bool
	}{
		{"empty", State{}, true},
		{"normal", State{1.0, 2.0, 3.0}, true},
		{"with NaN", State{1.0, math.NaN()}, false},
		{"with +Inf", State{1.0, math.Inf(1)}, false},
		{"with -Inf", State{1.0, math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestState_Arithmetic(t *testing.T) {
	a := State{1, 2, 3}
	b := State{4, 5, 6}

	sum := a.Add(b)
	if sum[0] != 5 || sum[1] != 7 || sum[2] != 9 {
		t.Errorf("Add failed: got %v", sum)
	}

	diff := b.Sub(a)
	if diff[0] != 3 || diff[1] != 3 || diff[2] != 3 {
		t.Errorf("Sub failed: got %v", diff)
	}

	if got := (State{3, 4}).Norm(); got != 5 {
		t.Errorf("Norm = %v, want 5", got)
	}

	if p := a.Position(); p != (Vec3{1, 2, 3}) {
		t.Errorf("Position = %v", p)
	}
}

func TestVec3(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}

	if got := x.Cross(y); got != (Vec3{0, 0, 1}) {
		t.Errorf("x cross y = %v, want z", got)
	}
	if got := (Vec3{0, 3, 4}).Normalize(); math.Abs(got.Length()-1) > 1e-12 {
		t.Errorf("normalized length = %v", got.Length())
	}
	if (Vec3{}).Normalize() != (Vec3{}) {
		t.Error("zero vector should normalize to zero")
	}
	if (Vec3{math.NaN(), 0, 0}).IsFinite() {
		t.Error("NaN vector reported finite")
	}
}

func TestParams_GetSet(t *testing.T) {
	p := DefaultParams()

	for _, name := range ParamNames {
		if err := p.Set(name, 7.5); err != nil {
			t.Fatalf("Set(%s): %v", name, err)
		}
		v, err := p.Get(name)
		if err != nil || v != 7.5 {
			t.Errorf("Get(%s) = %v, %v", name, v, err)
		}
	}

	if err := p.Set("spin", 1); !errors.Is(err, ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
	if _, err := p.Get("spin"); !errors.Is(err, ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
	if len(p.Map()) != len(ParamNames) {
		t.Errorf("Map has %d entries", len(p.Map()))
	}
}

func TestParallelFor(t *testing.T) {
	var hits [100]int32
	ParallelFor(len(hits), 8, func(start, end int) {
		for i := start; i < end; i++ {
			atomic.AddInt32(&hits[i], 1)
		}
	})

	for i, h := range hits {
		if h != 1 {
			t.Fatalf("index %d visited %d times", i, h)
		}
	}
}
