// Package stretch implements password-based key derivation using scrypt and
// PBKDF2.
//
// scrypt (RFC 7914) is a sequential memory-hard key derivation function:
// deriving a key requires both CPU time and a large scratch table, which
// makes large-scale password guessing expensive even on custom hardware.
// PBKDF2 (RFC 8018) is the iterated-PRF construction scrypt builds on,
// exposed here for callers which need it directly.
//
// Most applications should use GenerateFromPassword and
// CompareHashAndPassword, which handle salt generation, parameter encoding,
// and constant-time verification. Applications deriving keys for encryption
// should use Key with a random salt stored alongside the ciphertext.
package stretch
