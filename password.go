package stretch

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidHash is returned when an encoded password hash cannot be
	// parsed.
	ErrInvalidHash = errors.New("stretch: invalid encoded hash")

	// ErrMismatchedHashAndPassword is returned when a password does not match
	// its encoded hash.
	ErrMismatchedHashAndPassword = errors.New("stretch: password does not match encoded hash")
)

const (
	// saltSize is the length of the random salt GenerateFromPassword embeds
	// in the encoded hash.
	saltSize = 16

	// hashSize is the length of the derived key GenerateFromPassword embeds
	// in the encoded hash.
	hashSize = 32
)

// GenerateFromPassword hashes the password for storage using the given cost
// parameters and a freshly generated random salt. It returns a
// self-describing string of the form
//
//	$rscrypt$<format>$<base64(params)>$<base64(salt)>$<base64(hash)>$
//
// from which CompareHashAndPassword can recover everything it needs. Format
// 0 packs logN, r, and p into one byte each; format 1 is used when r or p do
// not fit in a byte and encodes them as little-endian uint32s.
func GenerateFromPassword(password []byte, params Params) (string, error) {
	// Generate a random salt.
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	// Derive the stored hash.
	hash, err := Key(password, salt, params, hashSize)
	if err != nil {
		return "", err
	}

	// Encode the parameters, the salt, and the hash.
	var sb strings.Builder
	sb.WriteString("$rscrypt$")

	if params.r < 256 && params.p < 256 {
		sb.WriteString("0$")
		sb.WriteString(base64.StdEncoding.EncodeToString([]byte{params.logN, byte(params.r), byte(params.p)}))
	} else {
		buf := make([]byte, 9)
		buf[0] = params.logN
		binary.LittleEndian.PutUint32(buf[1:5], uint32(params.r))
		binary.LittleEndian.PutUint32(buf[5:9], uint32(params.p))

		sb.WriteString("1$")
		sb.WriteString(base64.StdEncoding.EncodeToString(buf))
	}

	sb.WriteByte('$')
	sb.WriteString(base64.StdEncoding.EncodeToString(salt))
	sb.WriteByte('$')
	sb.WriteString(base64.StdEncoding.EncodeToString(hash))
	sb.WriteByte('$')

	return sb.String(), nil
}

// CompareHashAndPassword re-derives a hash from the password using the
// parameters and salt embedded in the encoded hash and compares it to the
// embedded hash in constant time. It returns nil on a match,
// ErrMismatchedHashAndPassword on a mismatch, and ErrInvalidHash if the
// encoded hash cannot be parsed.
//
// Embedded parameters are validated against DefaultMaxMemory, so a hostile
// stored hash cannot demand an arbitrary amount of memory. A hash generated
// under a larger NewParamsWithMemory ceiling will not verify here; re-derive
// it with Key directly.
func CompareHashAndPassword(encoded string, password []byte) error {
	params, salt, hash, err := decodeHash(encoded)
	if err != nil {
		return err
	}

	derived, err := Key(password, salt, params, len(hash))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}

	// The comparison examines every byte regardless of where the first
	// mismatch occurs.
	if subtle.ConstantTimeCompare(derived, hash) != 1 {
		return ErrMismatchedHashAndPassword
	}

	return nil
}

// decodeHash parses an encoded password hash into its parameters, salt, and
// hash. Parsing is strict: every field must be present, the string must both
// begin and end with the delimiter, and nothing may follow the final one.
func decodeHash(encoded string) (Params, []byte, []byte, error) {
	fields := strings.Split(encoded, "$")

	// $rscrypt$<format>$<params>$<salt>$<hash>$ splits into seven fields,
	// the first and last of them empty.
	if len(fields) != 7 || fields[0] != "" || fields[6] != "" {
		return Params{}, nil, nil, fmt.Errorf("%w: malformed field layout", ErrInvalidHash)
	}

	if fields[1] != "rscrypt" {
		return Params{}, nil, nil, fmt.Errorf("%w: unknown tag %q", ErrInvalidHash, fields[1])
	}

	pv, err := base64.StdEncoding.DecodeString(fields[3])
	if err != nil {
		return Params{}, nil, nil, fmt.Errorf("%w: bad parameter encoding", ErrInvalidHash)
	}

	var params Params

	switch {
	case fields[2] == "0" && len(pv) == 3:
		params, err = NewParams(pv[0], int(pv[1]), int(pv[2]))
	case fields[2] == "1" && len(pv) == 9:
		params, err = NewParams(pv[0],
			int(binary.LittleEndian.Uint32(pv[1:5])),
			int(binary.LittleEndian.Uint32(pv[5:9])))
	default:
		return Params{}, nil, nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidHash, fields[2])
	}

	// The embedded parameters go through the same validation as
	// caller-supplied ones, so a hostile stored hash can't demand an absurd
	// amount of memory.
	if err != nil {
		return Params{}, nil, nil, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}

	salt, err := base64.StdEncoding.DecodeString(fields[4])
	if err != nil {
		return Params{}, nil, nil, fmt.Errorf("%w: bad salt encoding", ErrInvalidHash)
	}

	hash, err := base64.StdEncoding.DecodeString(fields[5])
	if err != nil {
		return Params{}, nil, nil, fmt.Errorf("%w: bad hash encoding", ErrInvalidHash)
	}

	if len(hash) == 0 {
		return Params{}, nil, nil, fmt.Errorf("%w: empty hash", ErrInvalidHash)
	}

	return params, salt, hash, nil
}
