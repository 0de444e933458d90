package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/codahale/stretch"
	pwe "github.com/kuking/go-pwentropy"
	"github.com/pkg/errors"
)

type hashCmd struct {
	LogN uint8 `default:"14" help:"Base-2 logarithm of the scrypt cost."`
	R    int   `default:"8" help:"Block size factor."`
	P    int   `default:"1" help:"Parallelization factor."`
}

// minEntropy is the estimated password entropy, in bits, below which the
// command warns.
const minEntropy = 72

func (cmd *hashCmd) Run(_ *kong.Context) error {
	params, err := stretch.NewParams(cmd.LogN, cmd.R, cmd.P)
	if err != nil {
		return err
	}

	// Prompt for the password.
	password, err := askPassword("Enter password: ")
	if err != nil {
		return errors.Wrap(err, "reading password")
	}

	// Warn on weak passwords; key stretching raises the cost of each guess
	// but can't compensate for a tiny guess space.
	if entropy := pwe.FairEntropy(string(password)); entropy < minEntropy {
		_, _ = fmt.Fprintf(os.Stderr,
			"warning: estimated password entropy is %.1f bits (recommended: at least %d)\n",
			entropy, minEntropy)
	}

	// Hash the password and write out the encoded result.
	encoded, err := stretch.GenerateFromPassword(password, params)
	if err != nil {
		return err
	}

	fmt.Println(encoded)

	return nil
}
