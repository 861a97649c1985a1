package main

import (
	"fmt"

	"github.com/jessevdk/go-flags"
)

type selfTestCommand struct {
	app *app
}

func newSelfTestCommand(a *app) *selfTestCommand {
	return &selfTestCommand{app: a}
}

func (x *selfTestCommand) Register(parser *flags.Parser) error {
	_, err := parser.AddCommand(
		"selftest",
		"Check every registered cipher",
		"Round trip data through every registered cipher and check "+
			"the published known answers where there are some",
		x,
	)
	return err
}

func (x *selfTestCommand) Execute(_ []string) error {
	if err := x.app.setup(); err != nil {
		return err
	}
	defer x.app.done()

	ctx, cancel := signalContext()
	defer cancel()

	if err := x.app.registry.SelfTest(ctx); err != nil {
		return err
	}

	fmt.Fprintf(x.app.stdout, "All %d ciphers passed\n",
		x.app.registry.Len())

	return nil
}
