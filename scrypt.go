package stretch

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/codahale/stretch/internal/salsa"
)

// Key derives a key of keyLen bytes from the password and salt using scrypt
// with the given cost parameters. The same inputs always produce the same
// output, so the salt must be random and unique per password.
//
// For example, a 32-byte key for AES-256:
//
//	dk, err := stretch.Key(password, salt, stretch.DefaultParams(), 32)
func Key(password, salt []byte, params Params, keyLen int) ([]byte, error) {
	return deriveKey(password, salt, params, keyLen, false)
}

// KeyParallel is Key with the p independent mixing lanes run on separate
// goroutines. Lane outputs are reassembled by index, so the result is
// byte-identical to Key; only the wall-clock time and the peak memory use
// (one scratch table per lane instead of one total) change.
func KeyParallel(password, salt []byte, params Params, keyLen int) ([]byte, error) {
	return deriveKey(password, salt, params, keyLen, true)
}

func deriveKey(password, salt []byte, params Params, keyLen int, parallel bool) ([]byte, error) {
	// Reject bad inputs before allocating anything.
	if err := params.validate(); err != nil {
		return nil, err
	}

	if keyLen < 1 || uint64(keyLen) > (1<<32-1)*sha256.Size {
		return nil, fmt.Errorf("%w: keyLen must be in [1, (2^32-1)*%d]", ErrInvalidKeyLen, sha256.Size)
	}

	n, r, p := 1<<params.logN, params.r, params.p
	laneLen := 128 * r

	// Stretch the password and salt into p lanes of 128*r bytes.
	b, err := PBKDF2(password, salt, 1, p*laneLen, sha256.New)
	if err != nil {
		return nil, err
	}
	defer clear(b)

	if parallel {
		var wg sync.WaitGroup
		for i := 0; i < p; i++ {
			i := i
			wg.Add(1)
			go func() {
				defer wg.Done()
				v := make([]byte, n*laneLen)
				xy := make([]byte, 2*laneLen)
				smix(b[i*laneLen:(i+1)*laneLen], r, n, v, xy)
				clear(v)
				clear(xy)
			}()
		}
		wg.Wait()
	} else {
		// One scratch table, reused across lanes: each smix call overwrites
		// all of v during its fill phase.
		v := make([]byte, n*laneLen)
		xy := make([]byte, 2*laneLen)

		for i := 0; i < p; i++ {
			smix(b[i*laneLen:(i+1)*laneLen], r, n, v, xy)
		}

		clear(v)
		clear(xy)
	}

	// Collapse the mixed lanes back into the requested key.
	return PBKDF2(password, b, 1, keyLen, sha256.New)
}

// smix performs the scrypt ROMix operation on the 128*r-byte lane in place.
// v is the scratch table of n blocks of 128*r bytes; xy holds the working
// block and the blockMix scratch (256*r bytes total).
//
// Phase 1 fills v with the n successive BlockMix states of the lane. Phase 2
// makes n passes, each XORing in a pseudo-randomly chosen table entry before
// the next BlockMix. The table is written and read in full; there is no
// shortcut which preserves the memory-hardness the construction exists for.
func smix(lane []byte, r, n int, v, xy []byte) {
	blockLen := 128 * r
	x, y := xy[:blockLen], xy[blockLen:]

	copy(x, lane)

	for i := 0; i < n; i++ {
		copy(v[i*blockLen:], x)
		blockMix(x, y, r)
	}

	for i := 0; i < n; i++ {
		j := int(integerify(x, r) & uint64(n-1))
		subtle.XORBytes(x, x, v[j*blockLen:(j+1)*blockLen])
		blockMix(x, y, r)
	}

	copy(lane, x)
}

// blockMix applies the scrypt BlockMix operation to the 2r 64-byte blocks in
// b, using y as scratch of the same size.
//
// A running 64-byte feedback block starts as the last block of b. Each block
// is XORed into it and permuted with Salsa20/8, and the results are written
// back de-interleaved: even-indexed results first, then odd-indexed ones.
// The de-interleave is part of the scrypt definition; reordering it silently
// yields an incompatible KDF.
func blockMix(b, y []byte, r int) {
	var x [64]byte

	copy(x[:], b[(2*r-1)*64:])

	for i := 0; i < 2*r; i++ {
		subtle.XORBytes(x[:], x[:], b[i*64:(i+1)*64])
		salsa.Core208(&x, &x)
		copy(y[i*64:], x[:])
	}

	for i := 0; i < r; i++ {
		copy(b[i*64:(i+1)*64], y[2*i*64:])
		copy(b[(r+i)*64:(r+i+1)*64], y[(2*i+1)*64:])
	}
}

// integerify interprets the first 8 bytes of the last 64-byte block of b as
// a little-endian integer.
func integerify(b []byte, r int) uint64 {
	return binary.LittleEndian.Uint64(b[(2*r-1)*64:])
}
