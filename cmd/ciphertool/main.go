package main

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jessevdk/go-flags"
	"github.com/priikone/crypto/build"
	"github.com/priikone/crypto/cipher"
	"github.com/priikone/crypto/cryptocfg"
	"github.com/priikone/crypto/lnutils"
	"github.com/priikone/crypto/monitoring"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/term"
)

// terminalReader reads secrets typed by the user.
type terminalReader interface {
	ReadPassword(prompt string) ([]byte, error)
}

// stdTerminal reads from the controlling terminal without echo.
type stdTerminal struct {
	prompt io.Writer
}

// ReadPassword prints prompt and reads one line without echoing it.
func (t *stdTerminal) ReadPassword(prompt string) ([]byte, error) {
	fmt.Fprint(t.prompt, prompt)

	// The variable syscall.Stdin is of a different type in the Windows API
	// that's why we need the explicit cast. And of course the linter
	// doesn't like it either.
	pw, err := term.ReadPassword(int(syscall.Stdin)) // nolint:unconvert
	fmt.Fprintln(t.prompt)

	return pw, err
}

// subCommand is implemented by every command of the tool.
type subCommand interface {
	Register(parser *flags.Parser) error
}

// app carries what the commands share: the final configuration, the IO
// streams and everything built from the configuration by setup.
type app struct {
	cfg *cryptocfg.Config

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	term   terminalReader

	registry *cipher.Registry
	metrics  *prometheus.Registry
}

// setup validates the configuration, configures logging and builds the
// cipher registry. Commands call it first thing in Execute, once the
// command line has been parsed on top of the configuration file.
func (a *app) setup() error {
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	mgr := setupLoggers(a.cfg, a.stderr)
	err := build.ParseAndSetDebugLevels(a.cfg.DebugLevel, mgr)
	if err != nil {
		return err
	}

	log.Debugf("Version: %s commit=%s, build=%s, %s",
		build.Version(), build.Commit, build.Deployment,
		build.GoVersion())

	a.registry, err = a.cfg.BuildRegistry()
	if err != nil {
		return err
	}
	log.Debugf("Registered ciphers: %v",
		lnutils.NewLogClosure(a.registry.SupportedList))

	a.metrics = prometheus.NewRegistry()
	err = a.metrics.Register(monitoring.NewCollector(a.registry))
	if err != nil {
		return err
	}

	if a.cfg.Prometheus.Enable {
		err := monitoring.ExportPrometheusMetrics(
			a.metrics, *a.cfg.Prometheus,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// done logs the registry usage once a command finished.
func (a *app) done() {
	log.Debugf("Cipher usage: %v",
		lnutils.SpewLogClosure(a.registry.Stats()))
}

// cipherName returns name or the configured default when it is empty.
func (a *app) cipherName(name string) string {
	if name == "" {
		return a.cfg.DefaultCipher
	}

	return name
}

// readInput returns the content of path, or of stdin if path is empty or
// "-". Hex input is decoded.
func (a *app) readInput(path string, hexEncoded bool) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(a.stdin)
	} else {
		data, err = os.ReadFile(cryptocfg.CleanAndExpandPath(path))
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read input: %w", err)
	}

	if !hexEncoded {
		return data, nil
	}

	decoded, err := hex.DecodeString(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("invalid hex input: %w", err)
	}

	return decoded, nil
}

// writeOutput writes data to path, or to stdout if path is empty or "-".
func (a *app) writeOutput(path string, data []byte, hexEncoded bool) error {
	if hexEncoded {
		data = []byte(hex.EncodeToString(data) + "\n")
	}

	if path == "" || path == "-" {
		_, err := a.stdout.Write(data)
		return err
	}

	return os.WriteFile(cryptocfg.CleanAndExpandPath(path), data, 0600)
}

// readPassphrase reads the passphrase from path if set, otherwise from the
// terminal. With confirm the terminal asks twice.
func (a *app) readPassphrase(path string, confirm bool) ([]byte, error) {
	if path != "" {
		pass, err := os.ReadFile(cryptocfg.CleanAndExpandPath(path))
		if err != nil {
			return nil, fmt.Errorf("unable to read passphrase "+
				"file: %w", err)
		}

		return bytes.TrimRight(pass, "\r\n"), nil
	}

	pass, err := a.term.ReadPassword("Passphrase: ")
	if err != nil {
		return nil, err
	}
	if len(pass) == 0 {
		return nil, errors.New("passphrase must not be empty")
	}

	if !confirm {
		return pass, nil
	}

	again, err := a.term.ReadPassword("Confirm passphrase: ")
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(pass, again) {
		return nil, errors.New("passphrases do not match")
	}

	return pass, nil
}

// signalContext returns a context canceled on interrupt.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
}

// run parses args, on top of the configuration file, and executes the
// selected command.
func run(args []string, a *app) error {
	cfg, err := cryptocfg.LoadConfig(args)
	if err != nil {
		return err
	}
	a.cfg = cfg

	// Show the version and exit if the version flag was specified.
	if cfg.ShowVersion {
		fmt.Fprintf(a.stdout, "ciphertool version %s commit=%s\n",
			build.Version(), build.Commit)
		return nil
	}

	parser := flags.NewParser(cfg, flags.HelpFlag|flags.PassDoubleDash)
	commands := []subCommand{
		newListCommand(a),
		newCryptCommand(a, true),
		newCryptCommand(a, false),
		newSealCommand(a),
		newOpenCommand(a),
		newSelfTestCommand(a),
		newMetricsCommand(a),
	}
	for _, command := range commands {
		if err := command.Register(parser); err != nil {
			return err
		}
	}

	// Finally, parse the remaining command line options again to ensure
	// they take precedence.
	_, err = parser.ParseArgs(args)

	var flagErr *flags.Error
	if errors.As(err, &flagErr) && flagErr.Type == flags.ErrHelp {
		fmt.Fprintln(a.stdout, flagErr.Message)
		return nil
	}

	return err
}

func main() {
	a := &app{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		term:   &stdTerminal{prompt: os.Stderr},
	}

	if err := run(os.Args[1:], a); err != nil {
		fmt.Fprintf(os.Stderr, "ciphertool: %v\n", err)
		os.Exit(1)
	}
}
