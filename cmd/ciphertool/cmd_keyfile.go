package main

import (
	"crypto/rand"

	"github.com/jessevdk/go-flags"
	"github.com/priikone/crypto/keyfile"
)

type sealCommand struct {
	app *app

	Cipher         string `long:"cipher" description:"Cipher to seal with, defaults to the configured default cipher"`
	In             string `long:"in" description:"File holding the secret, stdin if not set"`
	Out            string `long:"out" description:"Key file to write, stdout if not set"`
	PassphraseFile string `long:"passphrase-file" description:"Read the passphrase from this file instead of the terminal"`
	Hex            bool   `long:"hex" description:"Write the key file hex encoded"`
}

func newSealCommand(a *app) *sealCommand {
	return &sealCommand{app: a}
}

func (x *sealCommand) Register(parser *flags.Parser) error {
	_, err := parser.AddCommand(
		"seal",
		"Encrypt a secret into a passphrase protected key file",
		"Derive a key from a passphrase with scrypt and encrypt the "+
			"secret with it. The key file records the cipher and "+
			"the scrypt parameters and is authenticated with "+
			"HMAC-SHA256",
		x,
	)
	return err
}

func (x *sealCommand) Execute(_ []string) error {
	if err := x.app.setup(); err != nil {
		return err
	}
	defer x.app.done()

	secret, err := x.app.readInput(x.In, false)
	if err != nil {
		return err
	}
	defer clear(secret)

	pass, err := x.app.readPassphrase(x.PassphraseFile, true)
	if err != nil {
		return err
	}
	defer clear(pass)

	name := x.app.cipherName(x.Cipher)
	log.Infof("Sealing %d byte secret with %s", len(secret), name)

	blob, err := keyfile.Seal(
		x.app.registry, name, secret, pass,
		x.app.cfg.KeyFile.KDFParams(), rand.Reader,
	)
	if err != nil {
		return err
	}

	return x.app.writeOutput(x.Out, blob, x.Hex)
}

type openCommand struct {
	app *app

	In             string `long:"in" description:"Key file to open, stdin if not set"`
	Out            string `long:"out" description:"File to write the secret to, stdout if not set"`
	PassphraseFile string `long:"passphrase-file" description:"Read the passphrase from this file instead of the terminal"`
	Hex            bool   `long:"hex" description:"Read a hex encoded key file"`
}

func newOpenCommand(a *app) *openCommand {
	return &openCommand{app: a}
}

func (x *openCommand) Register(parser *flags.Parser) error {
	_, err := parser.AddCommand(
		"open",
		"Decrypt a key file created by seal",
		"Verify the key file with the passphrase and write the "+
			"secret it protects",
		x,
	)
	return err
}

func (x *openCommand) Execute(_ []string) error {
	if err := x.app.setup(); err != nil {
		return err
	}
	defer x.app.done()

	blob, err := x.app.readInput(x.In, x.Hex)
	if err != nil {
		return err
	}

	pass, err := x.app.readPassphrase(x.PassphraseFile, false)
	if err != nil {
		return err
	}
	defer clear(pass)

	secret, err := keyfile.Open(x.app.registry, blob, pass)
	if err != nil {
		return err
	}
	defer clear(secret)

	return x.app.writeOutput(x.Out, secret, false)
}
