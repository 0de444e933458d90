package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/codahale/stretch"
	"github.com/pkg/errors"
)

type deriveCmd struct {
	LogN     uint8  `default:"14" help:"Base-2 logarithm of the scrypt cost."`
	R        int    `default:"8" help:"Block size factor."`
	P        int    `default:"1" help:"Parallelization factor."`
	Length   int    `default:"32" help:"Derived key length in bytes."`
	Salt     string `help:"Base64-encoded salt. Generated randomly if absent."`
	Parallel bool   `help:"Mix the p lanes concurrently. Output is unchanged."`
}

func (cmd *deriveCmd) Run(_ *kong.Context) error {
	params, err := stretch.NewParams(cmd.LogN, cmd.R, cmd.P)
	if err != nil {
		return err
	}

	// Decode the salt, or generate a random one and report it so the
	// derivation can be repeated.
	var salt []byte
	if cmd.Salt != "" {
		salt, err = base64.StdEncoding.DecodeString(cmd.Salt)
		if err != nil {
			return errors.Wrap(err, "decoding salt")
		}
	} else {
		salt = make([]byte, 16)
		if _, err := rand.Read(salt); err != nil {
			return err
		}

		_, _ = fmt.Fprintf(os.Stderr, "salt: %s\n", base64.StdEncoding.EncodeToString(salt))
	}

	// Prompt for the password.
	password, err := askPassword("Enter password: ")
	if err != nil {
		return errors.Wrap(err, "reading password")
	}

	// Derive the key.
	derive := stretch.Key
	if cmd.Parallel {
		derive = stretch.KeyParallel
	}

	key, err := derive(password, salt, params, cmd.Length)
	if err != nil {
		return err
	}

	fmt.Println(base64.StdEncoding.EncodeToString(key))

	return nil
}
