package rc

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"runtime"
	"strconv"
)

// newGeneration produces a random 64-bit generation stamp, the same
// collision-resistant scheme the teacher's generational-reference package
// used for use-after-free detection: stamp a random value at allocation,
// zero it at destruction, and compare on every access instead of tracking a
// sequential counter (which needs overflow handling the random scheme
// avoids).
func newGeneration() uint64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand failing is effectively unheard of on supported
		// platforms; fall back to a fixed non-zero sentinel rather than
		// leaving the generation at its zero value, the value dropPayload
		// writes on destruction.
		return 0xDEADBEEF
	}
	return binary.LittleEndian.Uint64(buf[:])
}

// currentGoroutineID extracts the running goroutine's id by parsing the
// header of its own stack trace. This is the well-known trick used by
// goroutine-local-storage shims; Go deliberately exposes no supported API
// for it, so no third-party library in the retrieval pack provides one
// either. It stamps each Header's owner, backs the cross-goroutine misuse
// check in Header.checkOwner (run on every Clone, Release and Get), and
// keys collectorRegistry.
func currentGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	field := bytes.Fields(buf[:n])
	if len(field) < 2 {
		return 0
	}
	id, err := strconv.ParseUint(string(field[1]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
