package stretch

import (
	"crypto/hmac"
	"encoding/binary"
	"errors"
	"fmt"
	"hash"
	"sync"
)

// ErrInvalidKeyLen is returned when a requested key length is zero or exceeds
// what the construction can produce.
var ErrInvalidKeyLen = errors.New("stretch: invalid key length")

// PBKDF2 derives a key of keyLen bytes from the password and salt using the
// iterated-PRF construction of RFC 8018, with HMAC over h as the PRF.
//
// The output is split into PRF-sized blocks. For the i-th block (1-based),
// U_1 = PRF(password, salt || be32(i)) and U_j = PRF(password, U_{j-1}); the
// block's value is the XOR of all U_j. The concatenated blocks are truncated
// to exactly keyLen bytes.
//
// iter must be at least 1 and keyLen at most (2^32-1) times the PRF output
// size; violations are reported before any work is done. The derivation is
// deterministic and has no side effects.
func PBKDF2(password, salt []byte, iter, keyLen int, h func() hash.Hash) ([]byte, error) {
	hLen := h().Size()
	if err := checkPBKDF2(iter, keyLen, hLen); err != nil {
		return nil, err
	}

	numBlocks := (keyLen + hLen - 1) / hLen
	dk := make([]byte, numBlocks*hLen)

	prf := hmac.New(h, password)
	for block := 1; block <= numBlocks; block++ {
		pbkdf2Block(prf, salt, iter, uint32(block), dk[(block-1)*hLen:block*hLen])
	}

	return dk[:keyLen], nil
}

// PBKDF2Parallel is PBKDF2 with the output blocks computed on separate
// goroutines. Blocks are independent of each other and are reassembled by
// index, so the result is byte-identical to PBKDF2; only the wall-clock time
// changes. It is only worth using for outputs much longer than the PRF
// output size.
func PBKDF2Parallel(password, salt []byte, iter, keyLen int, h func() hash.Hash) ([]byte, error) {
	hLen := h().Size()
	if err := checkPBKDF2(iter, keyLen, hLen); err != nil {
		return nil, err
	}

	numBlocks := (keyLen + hLen - 1) / hLen
	dk := make([]byte, numBlocks*hLen)

	var wg sync.WaitGroup
	for block := 1; block <= numBlocks; block++ {
		block := block
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Each goroutine gets its own PRF instance; HMAC states are not
			// safe for concurrent use.
			prf := hmac.New(h, password)
			pbkdf2Block(prf, salt, iter, uint32(block), dk[(block-1)*hLen:block*hLen])
		}()
	}
	wg.Wait()

	return dk[:keyLen], nil
}

// pbkdf2Block computes the block-index-th output block into out, which must
// be exactly one PRF output in size.
func pbkdf2Block(prf hash.Hash, salt []byte, iter int, block uint32, out []byte) {
	// The 4-byte big-endian block index suffix is load-bearing; any other
	// encoding produces a different, incompatible KDF.
	var idx [4]byte
	binary.BigEndian.PutUint32(idx[:], block)

	prf.Reset()
	prf.Write(salt)
	prf.Write(idx[:])
	u := prf.Sum(nil)
	copy(out, u)

	for i := 1; i < iter; i++ {
		prf.Reset()
		prf.Write(u)
		u = prf.Sum(u[:0])

		for i, v := range u {
			out[i] ^= v
		}
	}
}

func checkPBKDF2(iter, keyLen, hLen int) error {
	if iter < 1 {
		return fmt.Errorf("%w: iteration count must be at least 1", ErrInvalidParams)
	}

	if keyLen < 1 || uint64(keyLen) > (1<<32-1)*uint64(hLen) {
		return fmt.Errorf("%w: keyLen must be in [1, (2^32-1)*%d]", ErrInvalidKeyLen, hLen)
	}

	return nil
}
