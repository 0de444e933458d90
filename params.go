package stretch

import (
	"errors"
	"fmt"
)

// ErrInvalidParams is returned when a set of cost parameters violates the
// scrypt limits or the configured memory ceiling.
var ErrInvalidParams = errors.New("stretch: invalid parameters")

// DefaultMaxMemory is the default ceiling, in bytes, on the total memory an
// scrypt derivation may require. A derivation with cost N, block size factor
// r, and parallelization p needs 128*r*(N+p) bytes.
const DefaultMaxMemory = 32 * 1024 * 1024

// Params contains the scrypt cost parameters: the base-2 logarithm of the
// CPU/memory cost N, the block size factor r, and the parallelization factor
// p. A Params value is immutable once constructed and can be reused across
// derivations, e.g. to hash a password and later verify it.
//
// The zero value is not valid; use NewParams.
type Params struct {
	logN uint8
	r, p int
}

// NewParams validates the given scrypt cost parameters against
// DefaultMaxMemory and returns them as an immutable Params value.
func NewParams(logN uint8, r, p int) (Params, error) {
	return NewParamsWithMemory(logN, r, p, DefaultMaxMemory)
}

// NewParamsWithMemory is NewParams with an explicit ceiling, in bytes, on the
// total memory a derivation with these parameters may require. The ceiling is
// enforced here, before any allocation happens, so an oversized parameter set
// is a construction error rather than a runtime failure.
func NewParamsWithMemory(logN uint8, r, p int, maxMemory int) (Params, error) {
	params := Params{logN: logN, r: r, p: p}
	if err := params.validate(); err != nil {
		return Params{}, err
	}

	if maxMemory <= 0 {
		return Params{}, fmt.Errorf("%w: memory ceiling must be positive", ErrInvalidParams)
	}

	// 128*r*(N+p) must fit under the ceiling: the N-block scratch table plus
	// one 128*r-byte lane per unit of parallelism. The division keeps the
	// comparison free of overflow for any logN up to 62.
	blockBytes := 128 * uint64(r)
	if (uint64(1)<<logN)+uint64(p) > uint64(maxMemory)/blockBytes {
		return Params{}, fmt.Errorf("%w: 128*r*(N+p) bytes exceed the %d byte memory ceiling",
			ErrInvalidParams, maxMemory)
	}

	return params, nil
}

// DefaultParams returns cost parameters suitable for interactive logins on
// current hardware: N=2^14, r=8, p=1, requiring 16 MiB of memory. Increase
// the cost as memory sizes and CPU parallelism grow.
func DefaultParams() Params {
	return Params{logN: 14, r: 8, p: 1}
}

// LogN returns the base-2 logarithm of the CPU/memory cost parameter.
func (p Params) LogN() uint8 { return p.logN }

// N returns the CPU/memory cost parameter, always a power of two greater
// than 1.
func (p Params) N() int { return 1 << p.logN }

// R returns the block size factor. Each mixing block is 128*r bytes.
func (p Params) R() int { return p.r }

// P returns the parallelization factor, the number of independent mixing
// lanes.
func (p Params) P() int { return p.p }

// String returns the parameters in a human-readable form.
func (p Params) String() string {
	return fmt.Sprintf("logN=%d r=%d p=%d", p.logN, p.r, p.p)
}

// validate checks the structural scrypt invariants which hold independently
// of any memory ceiling. The zero Params value fails it.
func (p Params) validate() error {
	if p.logN == 0 || p.logN > 62 {
		return fmt.Errorf("%w: logN must be in [1,62]", ErrInvalidParams)
	}

	if p.r <= 0 || p.p <= 0 {
		return fmt.Errorf("%w: r and p must be positive", ErrInvalidParams)
	}

	if uint64(p.r)*uint64(p.p) >= 1<<30 {
		return fmt.Errorf("%w: r*p must be less than 2^30", ErrInvalidParams)
	}

	return nil
}
