package cipher

import (
	"fmt"
	"slices"

	"github.com/priikone/crypto/aes"
	"github.com/priikone/crypto/modes"
	"golang.org/x/crypto/twofish"
)

// BlockEncrypter is a block cipher keyed for encryption whose key material
// can be destroyed.
type BlockEncrypter interface {
	modes.Encrypter

	// Wipe zeroes the key schedule.
	Wipe()
}

// BlockDecrypter is a block cipher keyed for decryption whose key material
// can be destroyed.
type BlockDecrypter interface {
	modes.Decrypter

	// Wipe zeroes the key schedule.
	Wipe()
}

// Algorithm describes a block cipher family independently of key size and
// mode.
type Algorithm struct {
	// Name is the lower case family name used in cipher names.
	Name string

	// BlockLen is the block size in bytes.
	BlockLen uint32

	// KeyLens lists the supported key sizes in bits.
	KeyLens []uint32

	// NewEncrypter derives an encryption schedule from key.
	NewEncrypter func(key []byte) (BlockEncrypter, error)

	// NewDecrypter derives a decryption schedule from key.
	NewDecrypter func(key []byte) (BlockDecrypter, error)
}

// SupportsKeyLen returns true if keyBits is one of the algorithm's key
// sizes.
func (a *Algorithm) SupportsKeyLen(keyBits uint32) bool {
	return slices.Contains(a.KeyLens, keyBits)
}

// AES is the Rijndael block cipher with a 128-bit block.
var AES = &Algorithm{
	Name:     "aes",
	BlockLen: aes.BlockSize,
	KeyLens:  []uint32{256, 192, 128},
	NewEncrypter: func(key []byte) (BlockEncrypter, error) {
		s, err := aes.NewEncryptSchedule(key)
		if err != nil {
			return nil, err
		}

		return s, nil
	},
	NewDecrypter: func(key []byte) (BlockDecrypter, error) {
		s, err := aes.NewDecryptSchedule(key)
		if err != nil {
			return nil, err
		}

		return s, nil
	},
}

// twofishBlock adds Wipe to the x/crypto Twofish cipher, which uses the same
// schedule for both directions.
type twofishBlock struct {
	*twofish.Cipher
}

// Wipe zeroes the subkeys and S-boxes.
func (t twofishBlock) Wipe() {
	*t.Cipher = twofish.Cipher{}
}

func newTwofish(key []byte) (twofishBlock, error) {
	c, err := twofish.NewCipher(key)
	if err != nil {
		return twofishBlock{}, err
	}

	return twofishBlock{c}, nil
}

// Twofish is the Twofish block cipher with a 128-bit block.
var Twofish = &Algorithm{
	Name:     "twofish",
	BlockLen: twofish.BlockSize,
	KeyLens:  []uint32{256, 192, 128},
	NewEncrypter: func(key []byte) (BlockEncrypter, error) {
		c, err := newTwofish(key)
		if err != nil {
			return nil, err
		}

		return c, nil
	},
	NewDecrypter: func(key []byte) (BlockDecrypter, error) {
		c, err := newTwofish(key)
		if err != nil {
			return nil, err
		}

		return c, nil
	},
}

// builtinAlgorithms lists the built-in families in default priority order.
var builtinAlgorithms = []*Algorithm{AES, Twofish}

// AlgorithmByName returns the built-in algorithm with the given family name.
func AlgorithmByName(name string) (*Algorithm, error) {
	for _, a := range builtinAlgorithms {
		if a.Name == name {
			return a, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}
