package modes

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrBlockAlignment is returned by the block modes when the input is
	// not a whole number of blocks.
	ErrBlockAlignment = errors.New("input not a multiple of the block " +
		"size")

	// ErrShortDst is returned when the destination is shorter than the
	// source.
	ErrShortDst = errors.New("destination shorter than source")

	// ErrIVLength is returned when an IV is not exactly one block long.
	ErrIVLength = errors.New("iv length must equal the block size")

	// ErrBlockSize is returned when a block primitive and a mode state
	// disagree on the block size.
	ErrBlockSize = errors.New("block size does not match mode state")

	// ErrUnknownMode is returned by ParseMode for unknown mode names.
	ErrUnknownMode = errors.New("unknown cipher mode")
)

// Mode identifies a mode of operation.
type Mode uint8

const (
	// ECB encrypts every block independently.
	ECB Mode = 1

	// CBC XORs each plaintext block with the previous ciphertext block
	// before encrypting it.
	CBC Mode = 2

	// CTR XORs the data with the encryption of a big-endian counter.
	CTR Mode = 3

	// CFB XORs the data with the encryption of the previous ciphertext
	// block.
	CFB Mode = 4

	// OFB XORs the data with repeated encryptions of the IV.
	OFB Mode = 5
)

// String returns the lower case name used in cipher names.
func (m Mode) String() string {
	switch m {
	case ECB:
		return "ecb"
	case CBC:
		return "cbc"
	case CTR:
		return "ctr"
	case CFB:
		return "cfb"
	case OFB:
		return "ofb"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// IsStream returns true for the modes that turn the block cipher into a
// keystream and therefore accept inputs of any length.
func (m Mode) IsStream() bool {
	switch m {
	case CTR, CFB, OFB:
		return true
	default:
		return false
	}
}

// IsValid returns true if m is one of the defined modes.
func (m Mode) IsValid() bool {
	return m >= ECB && m <= OFB
}

// ParseMode maps a mode name such as "cbc" to its Mode. Matching is case
// insensitive.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "ecb":
		return ECB, nil
	case "cbc":
		return CBC, nil
	case "ctr":
		return CTR, nil
	case "cfb":
		return CFB, nil
	case "ofb":
		return OFB, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Encrypter is a block cipher keyed for the forward direction.
//
// Encrypt must transform exactly one block and allow dst and src to be the
// same slice.
type Encrypter interface {
	BlockSize() int
	Encrypt(dst, src []byte)
}

// Decrypter is a block cipher keyed for the inverse direction.
//
// Decrypt must transform exactly one block and allow dst and src to be the
// same slice.
type Decrypter interface {
	BlockSize() int
	Decrypt(dst, src []byte)
}
