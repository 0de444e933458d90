package main

import (
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/codahale/stretch"
	"github.com/pkg/errors"
)

type verifyCmd struct {
	Hash string `arg:"" help:"The encoded hash to verify against."`
}

func (cmd *verifyCmd) Run(_ *kong.Context) error {
	// Prompt for the password.
	password, err := askPassword("Enter password: ")
	if err != nil {
		return errors.Wrap(err, "reading password")
	}

	// Re-derive and compare.
	if err := stretch.CompareHashAndPassword(cmd.Hash, password); err != nil {
		return err
	}

	fmt.Println("ok")

	return nil
}
