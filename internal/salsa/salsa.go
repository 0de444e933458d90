// Package salsa implements the Salsa20/8 core permutation used by scrypt's
// BlockMix operation.
package salsa

import (
	"encoding/binary"
	"math/bits"
)

// Core208 applies the Salsa20/8 core to the 64-byte block in and writes the
// result to out. in and out may point at the same block.
//
// The input is read as sixteen little-endian uint32 words, run through four
// double-rounds of the Salsa20 quarter-round network, and added word-wise to
// the original input. There are no data-dependent branches or lookups.
func Core208(out, in *[64]byte) {
	var x [16]uint32
	for i := range x {
		x[i] = binary.LittleEndian.Uint32(in[4*i:])
	}

	z := x
	for i := 0; i < 4; i++ {
		// Column round.
		z[4] ^= bits.RotateLeft32(z[0]+z[12], 7)
		z[8] ^= bits.RotateLeft32(z[4]+z[0], 9)
		z[12] ^= bits.RotateLeft32(z[8]+z[4], 13)
		z[0] ^= bits.RotateLeft32(z[12]+z[8], 18)

		z[9] ^= bits.RotateLeft32(z[5]+z[1], 7)
		z[13] ^= bits.RotateLeft32(z[9]+z[5], 9)
		z[1] ^= bits.RotateLeft32(z[13]+z[9], 13)
		z[5] ^= bits.RotateLeft32(z[1]+z[13], 18)

		z[14] ^= bits.RotateLeft32(z[10]+z[6], 7)
		z[2] ^= bits.RotateLeft32(z[14]+z[10], 9)
		z[6] ^= bits.RotateLeft32(z[2]+z[14], 13)
		z[10] ^= bits.RotateLeft32(z[6]+z[2], 18)

		z[3] ^= bits.RotateLeft32(z[15]+z[11], 7)
		z[7] ^= bits.RotateLeft32(z[3]+z[15], 9)
		z[11] ^= bits.RotateLeft32(z[7]+z[3], 13)
		z[15] ^= bits.RotateLeft32(z[11]+z[7], 18)

		// Row round.
		z[1] ^= bits.RotateLeft32(z[0]+z[3], 7)
		z[2] ^= bits.RotateLeft32(z[1]+z[0], 9)
		z[3] ^= bits.RotateLeft32(z[2]+z[1], 13)
		z[0] ^= bits.RotateLeft32(z[3]+z[2], 18)

		z[6] ^= bits.RotateLeft32(z[5]+z[4], 7)
		z[7] ^= bits.RotateLeft32(z[6]+z[5], 9)
		z[4] ^= bits.RotateLeft32(z[7]+z[6], 13)
		z[5] ^= bits.RotateLeft32(z[4]+z[7], 18)

		z[11] ^= bits.RotateLeft32(z[10]+z[9], 7)
		z[8] ^= bits.RotateLeft32(z[11]+z[10], 9)
		z[9] ^= bits.RotateLeft32(z[8]+z[11], 13)
		z[10] ^= bits.RotateLeft32(z[9]+z[8], 18)

		z[12] ^= bits.RotateLeft32(z[15]+z[14], 7)
		z[13] ^= bits.RotateLeft32(z[12]+z[15], 9)
		z[14] ^= bits.RotateLeft32(z[13]+z[12], 13)
		z[15] ^= bits.RotateLeft32(z[14]+z[13], 18)
	}

	for i, v := range z {
		binary.LittleEndian.PutUint32(out[4*i:], v+x[i])
	}
}
