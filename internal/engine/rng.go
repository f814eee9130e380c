package engine

import (
	"crypto/hmac"
	crand "crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
)

// Source produces uniform random floats in [0,1). Every game engine draws
// its randomness through this interface so rounds can be replayed with a
// seeded source in tests and verification tools.
type Source interface {
	Float() float64
}

// Intn returns a uniform integer in [0, n) drawn from src.
func Intn(src Source, n int) int {
	if n <= 0 {
		return 0
	}
	v := int(math.Floor(src.Float() * float64(n)))
	if v >= n {
		v = n - 1
	}
	return v
}

// Shuffle performs a Fisher-Yates shuffle of n elements using src.
func Shuffle(src Source, n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := Intn(src, i+1)
		swap(i, j)
	}
}

// Provable is a deterministic float source backed by an HMAC-SHA256 byte
// stream over (serverSeed, clientSeed, nonce). Identical parameters yield an
// identical float sequence, so any round played with a Provable source can
// be independently re-derived and verified.
type Provable struct {
	serverSeed   string
	clientSeed   string
	nonce        uint64
	currentRound uint64
	currentPos   int
	buffer       [32]byte
}

// NewProvable creates a provably fair source starting at the given cursor
// position in the byte stream.
func NewProvable(serverSeed, clientSeed string, nonce, cursor uint64) *Provable {
	p := &Provable{
		serverSeed:   serverSeed,
		clientSeed:   clientSeed,
		nonce:        nonce,
		currentRound: cursor / 32,
		currentPos:   int(cursor % 32),
	}
	p.generateRound()
	return p
}

func (p *Provable) next() byte {
	if p.currentPos >= 32 {
		p.currentRound++
		p.currentPos = 0
		p.generateRound()
	}
	b := p.buffer[p.currentPos]
	p.currentPos++
	return b
}

// Float generates the next float using exactly 4 bytes of the stream.
func (p *Provable) Float() float64 {
	b0 := p.next()
	b1 := p.next()
	b2 := p.next()
	b3 := p.next()
	return bytesToFloat([4]byte{b0, b1, b2, b3})
}

func (p *Provable) generateRound() {
	h := hmac.New(sha256.New, []byte(p.serverSeed))
	message := fmt.Sprintf("%s:%d:%d", p.clientSeed, p.nonce, p.currentRound)
	h.Write([]byte(message))
	copy(p.buffer[:], h.Sum(nil))
}

// bytesToFloat converts exactly 4 bytes to a float64 in [0,1).
func bytesToFloat(bytes [4]byte) float64 {
	result := 0.0
	for i, b := range bytes {
		divider := math.Pow(256, float64(i+1))
		result += float64(b) / divider
	}
	return result
}

// Floats generates count floats starting from the given cursor.
func Floats(serverSeed, clientSeed string, nonce, cursor uint64, count int) []float64 {
	p := NewProvable(serverSeed, clientSeed, nonce, cursor)
	floats := make([]float64, count)
	for i := 0; i < count; i++ {
		floats[i] = p.Float()
	}
	return floats
}

// Crypto is a Source backed by crypto/rand. It is the default source for
// live play, where reproducibility is not needed.
type Crypto struct{}

// Float returns a uniform float in [0,1) from the system CSPRNG.
func (Crypto) Float() float64 {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		// crypto/rand never fails on supported platforms; document the
		// assumption rather than silently returning zeros.
		panic(fmt.Sprintf("crypto/rand read failed: %v", err))
	}
	// 53 bits of mantissa, same construction as math/rand.Float64.
	return float64(binary.BigEndian.Uint64(buf[:])>>11) / (1 << 53)
}
