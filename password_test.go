package stretch

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/codahale/gubbins/assert"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestPasswordRoundTrip(t *testing.T) {
	t.Parallel()

	params, err := NewParams(4, 8, 1)
	if err != nil {
		t.Fatal(err)
	}

	encoded, err := GenerateFromPassword([]byte("opensesame"), params)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, "prefix", "$rscrypt$0$", encoded[:11])
	assert.Equal(t, "error", nil, CompareHashAndPassword(encoded, []byte("opensesame")))
}

func TestPasswordMismatch(t *testing.T) {
	t.Parallel()

	params, err := NewParams(4, 8, 1)
	if err != nil {
		t.Fatal(err)
	}

	encoded, err := GenerateFromPassword([]byte("opensesame"), params)
	if err != nil {
		t.Fatal(err)
	}

	// A single changed password byte must fail verification.
	err = CompareHashAndPassword(encoded, []byte("opensesamf"))

	assert.Equal(t, "error", ErrMismatchedHashAndPassword, err, cmpopts.EquateErrors())
}

func TestPasswordExpandedFormat(t *testing.T) {
	t.Parallel()

	// p=256 does not fit in a byte, forcing the expanded parameter encoding.
	params, err := NewParams(2, 1, 256)
	if err != nil {
		t.Fatal(err)
	}

	encoded, err := GenerateFromPassword([]byte("opensesame"), params)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, "prefix", "$rscrypt$1$", encoded[:11])
	assert.Equal(t, "error", nil, CompareHashAndPassword(encoded, []byte("opensesame")))
}

// A stored hash assembled from the RFC 7914 scrypt test vector must verify,
// which pins the encoded format to the derivation itself.
func TestPasswordKnownVector(t *testing.T) {
	t.Parallel()

	vector := mustHex(t,
		"fdbabe1c9d3472007856e7190d01e9fe7c6ad7cbc8237830e77376634b373162"+
			"2eaf30d92e22a3886ff109279d9830dac727afb94a83ee6d8360cbdfa2cc0640")

	encoded := strings.Join([]string{
		"", "rscrypt", "0",
		base64.StdEncoding.EncodeToString([]byte{10, 8, 16}),
		base64.StdEncoding.EncodeToString([]byte("NaCl")),
		base64.StdEncoding.EncodeToString(vector),
		"",
	}, "$")

	assert.Equal(t, "error", nil, CompareHashAndPassword(encoded, []byte("password")))
	assert.Equal(t, "error", ErrMismatchedHashAndPassword,
		CompareHashAndPassword(encoded, []byte("Password")), cmpopts.EquateErrors())
}

func TestPasswordMalformedHashes(t *testing.T) {
	t.Parallel()

	params := base64.StdEncoding.EncodeToString([]byte{4, 8, 1})
	salt := base64.StdEncoding.EncodeToString([]byte("0123456789abcdef"))
	hash := base64.StdEncoding.EncodeToString(make([]byte, 32))

	tests := []struct {
		name, encoded string
	}{
		{name: "empty", encoded: ""},
		{name: "no leading delimiter", encoded: "rscrypt$0$" + params + "$" + salt + "$" + hash + "$"},
		{name: "no trailing delimiter", encoded: "$rscrypt$0$" + params + "$" + salt + "$" + hash},
		{name: "trailing junk", encoded: "$rscrypt$0$" + params + "$" + salt + "$" + hash + "$junk"},
		{name: "extra field", encoded: "$rscrypt$0$" + params + "$" + salt + "$" + hash + "$$"},
		{name: "unknown tag", encoded: "$bcrypt$0$" + params + "$" + salt + "$" + hash + "$"},
		{name: "unsupported format", encoded: "$rscrypt$2$" + params + "$" + salt + "$" + hash + "$"},
		{name: "format and length mismatch", encoded: "$rscrypt$1$" + params + "$" + salt + "$" + hash + "$"},
		{name: "bad parameter base64", encoded: "$rscrypt$0$!!!$" + salt + "$" + hash + "$"},
		{name: "bad salt base64", encoded: "$rscrypt$0$" + params + "$!!!$" + hash + "$"},
		{name: "bad hash base64", encoded: "$rscrypt$0$" + params + "$" + salt + "$!!!$"},
		{name: "empty hash", encoded: "$rscrypt$0$" + params + "$" + salt + "$$"},
		{
			name: "oversized embedded parameters",
			encoded: "$rscrypt$0$" + base64.StdEncoding.EncodeToString([]byte{40, 8, 1}) +
				"$" + salt + "$" + hash + "$",
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			err := CompareHashAndPassword(test.encoded, []byte("opensesame"))

			assert.Equal(t, "error", ErrInvalidHash, err, cmpopts.EquateErrors())
		})
	}
}
