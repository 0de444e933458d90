package stretch

import (
	"crypto/rand"
	"fmt"
	"time"
)

// Calibrate returns the strongest cost parameters which derive a key on this
// machine within roughly the given duration while staying under memMiB
// mebibytes of scratch memory (DefaultMaxMemory if memMiB is zero or
// negative).
//
// It picks the largest cost N the memory budget allows, times a cheap probe
// derivation, scales N down until the extrapolated time fits the budget, and
// spends any remaining time budget on extra lanes. The result is a
// best-effort estimate: other load on the machine skews the probe.
func Calibrate(d time.Duration, memMiB int) (Params, error) {
	if d <= 0 {
		return Params{}, fmt.Errorf("%w: duration must be positive", ErrInvalidParams)
	}

	maxMemory := DefaultMaxMemory
	if memMiB > 0 {
		maxMemory = memMiB << 20
	}

	const r = 8
	blockBytes := uint64(128 * r)

	// Largest cost exponent the memory budget allows, leaving room for one
	// lane.
	logN := uint8(1)
	for logN < 62 && (uint64(1)<<(logN+1))+1 <= uint64(maxMemory)/blockBytes {
		logN++
	}

	// Time a single-lane derivation at a modest cost and extrapolate; work
	// scales linearly with N.
	probeLogN := min(logN, 14)

	probe, err := NewParamsWithMemory(probeLogN, r, 1, maxMemory)
	if err != nil {
		return Params{}, err
	}

	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return Params{}, err
	}

	start := time.Now()
	if _, err := Key([]byte("calibrate"), salt, probe, hashSize); err != nil {
		return Params{}, err
	}
	elapsed := max(time.Since(start), time.Microsecond)
	perN := float64(elapsed) / float64(uint64(1)<<probeLogN)

	for logN > 1 && perN*float64(uint64(1)<<logN) > float64(d) {
		logN--
	}

	// Lanes run sequentially in Key, so time scales linearly with p as well.
	laneTime := perN * float64(uint64(1)<<logN)

	p := int(float64(d) / laneTime)
	if p < 1 {
		p = 1
	}

	if pMax := int(uint64(maxMemory)/blockBytes - uint64(1)<<logN); p > pMax {
		p = pMax
	}

	if p >= 1<<30/r {
		p = 1<<30/r - 1
	}

	return NewParamsWithMemory(logN, r, p, maxMemory)
}
