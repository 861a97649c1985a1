package cryptocfg

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/jessevdk/go-flags"
	"github.com/priikone/crypto/build"
	"github.com/priikone/crypto/cipher"
	"github.com/priikone/crypto/keyfile"
)

const (
	// DefaultConfigFilename is the name of the configuration file.
	DefaultConfigFilename = "ciphertool.conf"

	defaultDebugLevel = "info"
)

var (
	// DefaultAppDir is the per user application directory.
	DefaultAppDir = btcutil.AppDataDir("ciphertool", false)

	// DefaultConfigFile is the configuration file read when none is
	// given.
	DefaultConfigFile = filepath.Join(DefaultAppDir, DefaultConfigFilename)
)

// KeyFile holds the options used when sealing key files.
//
//nolint:lll
type KeyFile struct {
	ScryptN uint64 `long:"scrypt-n" description:"scrypt CPU/memory cost, must be a power of two"`
	ScryptR uint32 `long:"scrypt-r" description:"scrypt block size"`
	ScryptP uint32 `long:"scrypt-p" description:"scrypt parallelization"`
}

// KDFParams returns the options as scrypt parameters.
func (k *KeyFile) KDFParams() keyfile.KDFParams {
	return keyfile.KDFParams{
		N: k.ScryptN,
		R: k.ScryptR,
		P: k.ScryptP,
	}
}

// Prometheus holds the options of the metrics exporter.
//
//nolint:lll
type Prometheus struct {
	Enable bool   `long:"enable" description:"Export Prometheus metrics while a command runs, requires the monitoring build tag"`
	Listen string `long:"listen" description:"the interface we should listen on for Prometheus"`
}

// Config is the configuration shared by every ciphertool command.
//
//nolint:lll
type Config struct {
	ShowVersion bool   `short:"V" long:"version" description:"Display version information and exit"`
	ConfigFile  string `long:"configfile" description:"Path to configuration file"`
	DebugLevel  string `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical, off} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems"`

	DefaultCipher string   `long:"cipher" description:"Cipher used when a command is not given one, as <algorithm>-<keybits>-<mode>"`
	Ciphers       []string `long:"register" description:"Register this cipher, in priority order. May be repeated. Without it the built-in list is registered"`

	KeyFile    *KeyFile         `group:"keyfile" namespace:"keyfile"`
	Prometheus *Prometheus      `group:"prometheus" namespace:"prometheus"`
	LogConfig  *build.LogConfig `group:"logging" namespace:"logging"`
}

// DefaultConfig returns all default values for the Config struct.
func DefaultConfig() Config {
	params := keyfile.DefaultKDFParams

	return Config{
		ConfigFile:    DefaultConfigFile,
		DebugLevel:    defaultDebugLevel,
		DefaultCipher: cipher.DefaultCipherName,
		KeyFile: &KeyFile{
			ScryptN: params.N,
			ScryptR: params.R,
			ScryptP: params.P,
		},
		Prometheus: &Prometheus{
			Listen: "127.0.0.1:8989",
		},
		LogConfig: build.DefaultLogConfig(),
	}
}

// LoadConfig returns the defaults overridden by the configuration file. The
// command line is parsed once up front only to find the file, unknown
// options and commands are left for the caller's parser, which must parse
// args again into the returned config so the command line takes
// precedence. A missing configuration file is not an error.
func LoadConfig(args []string) (*Config, error) {
	// Pre-parse the command line options to pick up an alternative config
	// file.
	preCfg := DefaultConfig()
	preParser := flags.NewParser(&preCfg, flags.IgnoreUnknown)
	if _, err := preParser.ParseArgs(args); err != nil {
		return nil, err
	}

	// Next, load any additional configuration options from the file.
	cfg := preCfg
	configFilePath := CleanAndExpandPath(preCfg.ConfigFile)
	if err := flags.IniParse(configFilePath, &cfg); err != nil {
		// If it's a parsing related error, then we'll return
		// immediately, otherwise we can proceed as possibly the config
		// file doesn't exist which is OK.
		if _, ok := err.(*flags.IniError); ok {
			return nil, err
		}
	}

	return &cfg, nil
}

// Validate checks the given configuration to be sane.
func (c *Config) Validate() error {
	if c.DebugLevel == "" {
		return fmt.Errorf("debuglevel must not be empty")
	}

	c.ConfigFile = CleanAndExpandPath(c.ConfigFile)

	if _, err := parseCipher(c.DefaultCipher); err != nil {
		return fmt.Errorf("invalid default cipher: %w", err)
	}
	for _, name := range c.Ciphers {
		if _, err := parseCipher(name); err != nil {
			return fmt.Errorf("invalid cipher to register: %w", err)
		}
	}

	if err := c.KeyFile.KDFParams().Validate(); err != nil {
		return err
	}

	if c.Prometheus.Enable && c.Prometheus.Listen == "" {
		return fmt.Errorf("prometheus.listen must be set when " +
			"prometheus.enable is")
	}

	return nil
}

// parseCipher builds the descriptor a cipher name stands for.
func parseCipher(name string) (*cipher.Descriptor, error) {
	algName, keyBits, mode, err := cipher.ParseName(name)
	if err != nil {
		return nil, err
	}

	alg, err := cipher.AlgorithmByName(algName)
	if err != nil {
		return nil, err
	}

	return cipher.NewDescriptor(alg, keyBits, mode)
}

// BuildRegistry creates the cipher registry the configuration asks for and
// makes sure the default cipher is part of it.
func (c *Config) BuildRegistry() (*cipher.Registry, error) {
	reg := cipher.NewRegistry()

	if len(c.Ciphers) == 0 {
		if err := reg.RegisterDefault(); err != nil {
			return nil, err
		}
	}
	for _, name := range c.Ciphers {
		d, err := parseCipher(name)
		if err != nil {
			return nil, err
		}
		if err := reg.Register(d); err != nil {
			return nil, err
		}
	}

	if !reg.IsSupported(c.DefaultCipher) {
		return nil, fmt.Errorf("default cipher %v is not registered",
			c.DefaultCipher)
	}

	return reg, nil
}

// CleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func CleanAndExpandPath(path string) string {
	if path == "" {
		return ""
	}

	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		var homeDir string
		u, err := user.Current()
		if err == nil {
			homeDir = u.HomeDir
		} else {
			homeDir = os.Getenv("HOME")
		}

		path = strings.Replace(path, "~", homeDir, 1)
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but the variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}
