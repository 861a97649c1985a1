package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/davecgh/go-spew/spew"
	"github.com/jessevdk/go-flags"
)

type listCommand struct {
	app *app

	Dump bool `long:"dump" description:"Dump the full descriptors instead of a table"`
}

func newListCommand(a *app) *listCommand {
	return &listCommand{app: a}
}

func (x *listCommand) Register(parser *flags.Parser) error {
	_, err := parser.AddCommand(
		"list",
		"List the registered ciphers",
		"Print every registered cipher in priority order together "+
			"with its key, block and IV lengths",
		x,
	)
	return err
}

func (x *listCommand) Execute(_ []string) error {
	if err := x.app.setup(); err != nil {
		return err
	}

	descs := x.app.registry.Descriptors()
	if x.Dump {
		cfg := spew.ConfigState{
			Indent:                  "  ",
			DisablePointerAddresses: true,
			DisableCapacities:       true,
			DisableMethods:          true,
			SortKeys:                true,
		}
		cfg.Fdump(x.app.stdout, descs)

		return nil
	}

	w := tabwriter.NewWriter(x.app.stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tALGORITHM\tKEY BITS\tBLOCK\tIV\tMODE")
	for _, d := range descs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\n", d.Name, d.AlgName,
			d.KeyLen, d.BlockLen, d.IVLen, d.Mode)
	}

	return w.Flush()
}
