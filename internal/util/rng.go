package util

import (
	"math/rand"
	"time"
)

// ResolveSeed turns the "0 = now" convention into a concrete seed so a run
// can always be replayed from its reported seed.
func ResolveSeed(seed int64) int64 {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if seed == 0 {
		seed = 1
	}
	return seed
}

func New(seed int64) *rand.Rand {
	src := rand.NewSource(ResolveSeed(seed))
	return rand.New(src)
}
