// Command stretch hashes, verifies, and derives keys from passwords using
// the scrypt memory-hard KDF.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"golang.org/x/term"
)

type cli struct {
	Hash      hashCmd      `cmd:"" help:"Hash a password for storage."`
	Verify    verifyCmd    `cmd:"" help:"Verify a password against a stored hash."`
	Derive    deriveCmd    `cmd:"" help:"Derive raw key bytes from a password."`
	Calibrate calibrateCmd `cmd:"" help:"Choose cost parameters for this machine."`
}

func main() {
	var cli cli

	ctx := kong.Parse(&cli)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

func askPassword(prompt string) ([]byte, error) {
	defer func() { _, _ = fmt.Fprintln(os.Stderr) }()

	_, _ = fmt.Fprint(os.Stderr, prompt)

	return term.ReadPassword(int(os.Stdin.Fd()))
}
