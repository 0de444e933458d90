package main

import (
	"fmt"
	"time"

	"github.com/alecthomas/kong"
	"github.com/codahale/stretch"
)

type calibrateCmd struct {
	Duration time.Duration `default:"250ms" help:"Target time for one derivation."`
	Memory   int           `default:"32" help:"Memory budget in MiB."`
}

func (cmd *calibrateCmd) Run(_ *kong.Context) error {
	params, err := stretch.Calibrate(cmd.Duration, cmd.Memory)
	if err != nil {
		return err
	}

	fmt.Println(params)

	return nil
}
