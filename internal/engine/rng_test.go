package engine

import (
	"math"
	"testing"
)

func TestProvableDeterminism(t *testing.T) {
	a := Floats("server", "client", 1, 0, 64)
	b := Floats("server", "client", 1, 0, 64)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("float %d differs: %f != %f", i, a[i], b[i])
		}
	}
}

func TestProvableFloatRange(t *testing.T) {
	floats := Floats("server", "client", 7, 0, 1000)
	for i, f := range floats {
		if f < 0 || f >= 1 {
			t.Errorf("float %d out of range [0,1): %f", i, f)
		}
	}
}

func TestProvableSeedSensitivity(t *testing.T) {
	a := Floats("server_a", "client", 1, 0, 8)
	b := Floats("server_b", "client", 1, 0, 8)

	same := 0
	for i := range a {
		if a[i] == b[i] {
			same++
		}
	}
	if same == len(a) {
		t.Error("different server seeds produced identical float sequences")
	}

	c := Floats("server_a", "client", 2, 0, 8)
	same = 0
	for i := range a {
		if a[i] == c[i] {
			same++
		}
	}
	if same == len(a) {
		t.Error("different nonces produced identical float sequences")
	}
}

func TestProvableCursorContinuation(t *testing.T) {
	// Reading 16 floats from cursor 0 must equal 8 floats from cursor 0
	// followed by 8 floats from cursor 32 (each float consumes 4 bytes).
	all := Floats("server", "client", 1, 0, 16)
	head := Floats("server", "client", 1, 0, 8)
	tail := Floats("server", "client", 1, 32, 8)

	for i := 0; i < 8; i++ {
		if all[i] != head[i] {
			t.Errorf("head float %d mismatch: %f != %f", i, all[i], head[i])
		}
		if all[8+i] != tail[i] {
			t.Errorf("tail float %d mismatch: %f != %f", i, all[8+i], tail[i])
		}
	}
}

func TestProvableUniformity(t *testing.T) {
	const n = 10000
	p := NewProvable("uniformity_server", "uniformity_client", 1, 0)

	sum := 0.0
	buckets := make([]int, 10)
	for i := 0; i < n; i++ {
		f := p.Float()
		sum += f
		buckets[int(f*10)]++
	}

	mean := sum / n
	if math.Abs(mean-0.5) > 0.02 {
		t.Errorf("mean %f too far from 0.5", mean)
	}

	// Each decile should hold roughly 10% of draws.
	for i, count := range buckets {
		if count < n/10-300 || count > n/10+300 {
			t.Errorf("bucket %d count %d outside expected band", i, count)
		}
	}
}

func TestIntnBounds(t *testing.T) {
	p := NewProvable("server", "client", 3, 0)
	for i := 0; i < 1000; i++ {
		v := Intn(p, 25)
		if v < 0 || v >= 25 {
			t.Fatalf("Intn(25) returned %d", v)
		}
	}

	if v := Intn(p, 0); v != 0 {
		t.Errorf("Intn(0) should return 0, got %d", v)
	}
}

func TestShufflePermutation(t *testing.T) {
	p := NewProvable("server", "client", 5, 0)

	vals := make([]int, 52)
	for i := range vals {
		vals[i] = i
	}
	Shuffle(p, len(vals), func(i, j int) {
		vals[i], vals[j] = vals[j], vals[i]
	})

	seen := make(map[int]bool, len(vals))
	for _, v := range vals {
		if v < 0 || v >= 52 {
			t.Fatalf("shuffled value %d out of range", v)
		}
		if seen[v] {
			t.Fatalf("duplicate value %d after shuffle", v)
		}
		seen[v] = true
	}
}

func TestCryptoFloatRange(t *testing.T) {
	var src Crypto
	for i := 0; i < 1000; i++ {
		f := src.Float()
		if f < 0 || f >= 1 {
			t.Fatalf("crypto float out of range [0,1): %f", f)
		}
	}
}
