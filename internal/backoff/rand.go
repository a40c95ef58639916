package backoff

import "math/rand"

// randInt63n returns a random int64 in [0, n). n must be > 0.
func randInt63n(n int64) int64 {
	return rand.Int63n(n)
}
