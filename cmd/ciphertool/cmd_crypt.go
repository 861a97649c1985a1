package main

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/jessevdk/go-flags"
	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/priikone/crypto/lnutils"
)

type cryptCommand struct {
	app     *app
	encrypt bool

	Cipher string `long:"cipher" description:"Cipher to use, defaults to the configured default cipher"`
	Key    string `long:"key" description:"Hex encoded key" required:"true"`
	IV     string `long:"iv" description:"Hex encoded IV, all zero if not set"`
	In     string `long:"in" description:"Input file, stdin if not set"`
	Out    string `long:"out" description:"Output file, stdout if not set"`
	Hex    bool   `long:"hex" description:"Read hex encoded input and write hex encoded output"`
}

func newCryptCommand(a *app, encrypt bool) *cryptCommand {
	return &cryptCommand{app: a, encrypt: encrypt}
}

func (x *cryptCommand) Register(parser *flags.Parser) error {
	name, verb := "decrypt", "Decrypt"
	if x.encrypt {
		name, verb = "encrypt", "Encrypt"
	}

	_, err := parser.AddCommand(
		name,
		verb+" data with a raw key",
		verb+" the input with the given cipher, hex key and IV. "+
			"ECB and CBC need input that is a multiple of the "+
			"block size, the other modes take any length",
		x,
	)
	return err
}

func (x *cryptCommand) Execute(_ []string) error {
	if err := x.app.setup(); err != nil {
		return err
	}
	defer x.app.done()

	key, err := hex.DecodeString(x.Key)
	if err != nil {
		return fmt.Errorf("invalid key: %w", err)
	}

	c, err := x.app.registry.New(x.app.cipherName(x.Cipher))
	if err != nil {
		return err
	}
	defer c.Free()

	if err := c.SetKey(key, uint32(len(key)*8), x.encrypt); err != nil {
		return err
	}

	if x.IV != "" {
		iv, err := hex.DecodeString(x.IV)
		if err != nil {
			return fmt.Errorf("invalid iv: %w", err)
		}
		if err := c.SetIV(iv); err != nil {
			return err
		}
	}

	data, err := x.app.readInput(x.In, x.Hex)
	if err != nil {
		return err
	}

	log.DebugS(context.Background(), "Processing input",
		"cipher", c.Name(), "encrypt", x.encrypt, "len", len(data),
		lnutils.LogFingerprint("key", key))

	out := make([]byte, len(data))
	if x.encrypt {
		err = c.Encrypt(out, data, fn.None[[]byte]())
	} else {
		err = c.Decrypt(out, data, fn.None[[]byte]())
	}
	if err != nil {
		return err
	}

	return x.app.writeOutput(x.Out, out, x.Hex)
}
