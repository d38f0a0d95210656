package input

import (
	"testing"
)

func TestScriptReplay(t *testing.T) {
	s := NewScript([]int32{1, -2, 0, 3})

	want := []int32{1, -2, 0, 3, 0, 0}
	for i, w := range want {
		v, err := s.Poll()
		if err != nil {
			t.Fatalf("poll %d: %v", i, err)
		}
		if v != w {
			t.Errorf("poll %d = %d, want %d", i, v, w)
		}
	}
}

func TestParseScript(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    []int32
		wantErr bool
	}{
		{"simple", "1,1,-2", []int32{1, 1, -2}, false},
		{"spaces", " 1 , 0 , 5 ", []int32{1, 0, 5}, false},
		{"empty", "", nil, false},
		{"blank", "   ", nil, false},
		{"garbage", "1,x,3", nil, true},
		{"trailing comma", "1,2,", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseScript(tt.text)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("delta %d = %d, want %d", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestRandomBounded(t *testing.T) {
	const magnitude = 3
	r := NewRandom(42, magnitude)

	for i := 0; i < 10000; i++ {
		v, err := r.Poll()
		if err != nil {
			t.Fatalf("poll %d: %v", i, err)
		}
		// forward bias can push one past the nominal ceiling
		if v < -magnitude || v > magnitude+1 {
			t.Fatalf("poll %d = %d, outside [-%d, %d]", i, v, magnitude, magnitude+1)
		}
	}
}

func TestRandomDeterministic(t *testing.T) {
	a, b := NewRandom(7, 2), NewRandom(7, 2)
	for i := 0; i < 1000; i++ {
		va, _ := a.Poll()
		vb, _ := b.Poll()
		if va != vb {
			t.Fatalf("poll %d diverged: %d vs %d", i, va, vb)
		}
	}
}

func TestRandomMagnitudeFloor(t *testing.T) {
	r := NewRandom(1, 0)
	for i := 0; i < 100; i++ {
		v, _ := r.Poll()
		if v < -1 || v > 2 {
			t.Fatalf("zero-magnitude poller produced %d", v)
		}
	}
}

func TestAccumulatorDrains(t *testing.T) {
	var a Accumulator
	a.Add(2)
	a.Add(-1)
	a.Add(3)

	v, err := a.Poll()
	if err != nil {
		t.Fatal(err)
	}
	if v != 4 {
		t.Errorf("drained %d, want 4", v)
	}

	v, _ = a.Poll()
	if v != 0 {
		t.Errorf("second drain = %d, want 0", v)
	}
}

func TestFlakyDegradesToZero(t *testing.T) {
	f := &Flaky{Inner: NewScript([]int32{5, 5, 5, 5, 5, 5}), Every: 3}

	got := make([]int32, 0, 6)
	for i := 0; i < 6; i++ {
		got = append(got, Delta(f))
	}

	failures := 0
	for _, v := range got {
		switch v {
		case 0:
			failures++
		case 5:
		default:
			t.Fatalf("unexpected delta %d", v)
		}
	}
	if failures != 2 {
		t.Errorf("saw %d degraded reads, want 2", failures)
	}
}
