package cipher

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/priikone/crypto/modes"
)

const (
	// DefaultCipherName is the cipher used when none is configured.
	DefaultCipherName = "aes-256-cbc"

	// MaxIVLen is the largest IV any built-in cipher uses.
	MaxIVLen = 16
)

// Descriptor is the immutable registry entry for one algorithm, key size and
// mode combination. Instances share their descriptor.
type Descriptor struct {
	// Name is the canonical <algorithm>-<keybits>-<mode> name, for
	// example aes-256-ctr.
	Name string

	// AlgName is the block cipher family name.
	AlgName string

	// KeyLen is the key length in bits.
	KeyLen uint32

	// BlockLen is the block length in bytes.
	BlockLen uint32

	// IVLen is the IV length in bytes. It equals the block length for
	// every mode, ECB ignores it.
	IVLen uint32

	// Mode is the mode of operation.
	Mode modes.Mode

	// Algorithm derives the key schedules.
	Algorithm *Algorithm
}

// CipherName builds the canonical name for a combination.
func CipherName(alg string, keyBits uint32, mode modes.Mode) string {
	return fmt.Sprintf("%s-%d-%s", alg, keyBits, mode)
}

// ParseName splits a canonical cipher name into its parts. The algorithm
// part is returned as is and not checked against the built-ins.
func ParseName(name string) (string, uint32, modes.Mode, error) {
	parts := strings.Split(name, "-")
	if len(parts) != 3 || parts[0] == "" {
		return "", 0, 0, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	bits, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return "", 0, 0, fmt.Errorf("%w: %q: bad key size",
			ErrInvalidName, name)
	}

	// Names are case sensitive, so only the canonical lower case mode
	// spelling is accepted here.
	mode, err := modes.ParseMode(parts[2])
	if err != nil || mode.String() != parts[2] {
		return "", 0, 0, fmt.Errorf("%w: %q: %w", ErrInvalidName, name,
			ErrUnsupportedMode)
	}

	return parts[0], uint32(bits), mode, nil
}

// NewDescriptor builds and validates the descriptor for an algorithm, key
// size and mode.
func NewDescriptor(alg *Algorithm, keyBits uint32,
	mode modes.Mode) (*Descriptor, error) {

	if alg == nil {
		return nil, fmt.Errorf("%w: nil algorithm", ErrInvalidDescriptor)
	}

	d := &Descriptor{
		Name:      CipherName(alg.Name, keyBits, mode),
		AlgName:   alg.Name,
		KeyLen:    keyBits,
		BlockLen:  alg.BlockLen,
		IVLen:     alg.BlockLen,
		Mode:      mode,
		Algorithm: alg,
	}
	if err := d.validate(); err != nil {
		return nil, err
	}

	return d, nil
}

// validate checks that the descriptor fields are consistent.
func (d *Descriptor) validate() error {
	switch {
	case d.Algorithm == nil:
		return fmt.Errorf("%w: %s: nil algorithm", ErrInvalidDescriptor,
			d.Name)

	case !d.Mode.IsValid():
		return fmt.Errorf("%w: %s: %v", ErrUnsupportedMode, d.Name,
			d.Mode)

	case !d.Algorithm.SupportsKeyLen(d.KeyLen):
		return fmt.Errorf("%w: %s: %d bit keys not supported",
			ErrInvalidDescriptor, d.Name, d.KeyLen)

	case d.AlgName != d.Algorithm.Name:
		return fmt.Errorf("%w: %s: algorithm name %q",
			ErrInvalidDescriptor, d.Name, d.AlgName)

	case d.BlockLen != d.Algorithm.BlockLen || d.IVLen != d.BlockLen:
		return fmt.Errorf("%w: %s: block length mismatch",
			ErrInvalidDescriptor, d.Name)

	case d.IVLen > MaxIVLen:
		return fmt.Errorf("%w: %s: iv longer than %d bytes",
			ErrInvalidDescriptor, d.Name, MaxIVLen)

	case d.Name != CipherName(d.AlgName, d.KeyLen, d.Mode):
		return fmt.Errorf("%w: name %q does not match its fields",
			ErrInvalidDescriptor, d.Name)
	}

	return nil
}

// String returns the descriptor name.
func (d *Descriptor) String() string {
	return d.Name
}

// DefaultDescriptors returns the built-in descriptors in default priority
// order: the modes ctr, cbc, cfb and ecb for each algorithm, the largest key
// first. OFB is available but not registered by default.
func DefaultDescriptors() []*Descriptor {
	var descs []*Descriptor
	for _, alg := range builtinAlgorithms {
		for _, mode := range []modes.Mode{
			modes.CTR, modes.CBC, modes.CFB, modes.ECB,
		} {
			for _, bits := range alg.KeyLens {
				d, err := NewDescriptor(alg, bits, mode)
				if err != nil {
					panic(fmt.Sprintf("built-in cipher: %v",
						err))
				}
				descs = append(descs, d)
			}
		}
	}

	return descs
}
