package keyfile

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/priikone/crypto/cipher"
	"github.com/priikone/crypto/lnutils"
	"golang.org/x/crypto/scrypt"
)

const (
	// Version is the envelope version written by Seal.
	Version uint8 = 1

	saltLen   = 32
	macLen    = sha256.Size
	macKeyLen = 32
)

var (
	// ErrBadPassphrase is returned by Open when the MAC does not verify,
	// which almost always means the passphrase is wrong.
	ErrBadPassphrase = errors.New("invalid passphrase or corrupted " +
		"key file")

	// ErrUnknownVersion is returned for envelopes from a newer version.
	ErrUnknownVersion = errors.New("unknown key file version")

	// ErrBadPadding is returned when the decrypted payload does not end
	// in valid padding.
	ErrBadPadding = errors.New("invalid padding")

	// ErrMalformed is returned when the envelope cannot be parsed.
	ErrMalformed = errors.New("malformed key file")

	// ErrInvalidKDFParams is returned for scrypt parameters scrypt
	// rejects or that are too weak to be useful.
	ErrInvalidKDFParams = errors.New("invalid scrypt parameters")
)

// KDFParams are the scrypt cost parameters.
type KDFParams struct {
	// N is the CPU and memory cost, a power of two.
	N uint64

	// R is the block size.
	R uint32

	// P is the parallelization factor.
	P uint32
}

// DefaultKDFParams are the scrypt parameters used when none are configured.
var DefaultKDFParams = KDFParams{
	N: 1 << 15,
	R: 8,
	P: 1,
}

const (
	// MaxScryptN is the largest cost Seal and Open accept.
	MaxScryptN = 1 << 20

	// MaxScryptRP bounds the product of the block size and the
	// parallelization factor.
	MaxScryptRP = 16

	// maxScryptMem bounds the 128*r*N bytes scrypt allocates.
	maxScryptMem = 1 << 30
)

// Validate checks the parameters are acceptable to scrypt and within the
// limits a key file may ask for. Open checks the parameters read from the
// envelope before running scrypt, so a crafted file cannot make it allocate
// more than maxScryptMem.
func (p KDFParams) Validate() error {
	switch {
	case p.N < 2 || p.N&(p.N-1) != 0:
		return fmt.Errorf("%w: N=%d is not a power of two above one",
			ErrInvalidKDFParams, p.N)

	case p.N > MaxScryptN:
		return fmt.Errorf("%w: N=%d above %d", ErrInvalidKDFParams,
			p.N, MaxScryptN)

	case p.R == 0 || p.P == 0:
		return fmt.Errorf("%w: r and p must be positive",
			ErrInvalidKDFParams)

	case uint64(p.R)*uint64(p.P) > MaxScryptRP:
		return fmt.Errorf("%w: r*p=%d above %d", ErrInvalidKDFParams,
			uint64(p.R)*uint64(p.P), MaxScryptRP)

	case 128*uint64(p.R)*p.N > maxScryptMem:
		return fmt.Errorf("%w: r=%d N=%d needs more than %d bytes",
			ErrInvalidKDFParams, p.R, p.N, maxScryptMem)
	}

	return nil
}

// deriveKeys stretches passphrase into a cipher key of keyLen bytes
// followed by the MAC key.
func deriveKeys(passphrase, salt []byte, p KDFParams,
	keyLen int) ([]byte, []byte, error) {

	if err := p.Validate(); err != nil {
		return nil, nil, err
	}

	dk, err := scrypt.Key(
		passphrase, salt, int(p.N), int(p.R), int(p.P),
		keyLen+macKeyLen,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidKDFParams, err)
	}

	return dk[:keyLen], dk[keyLen:], nil
}

// computeMAC returns the HMAC-SHA256 of the envelope without its MAC
// record.
func computeMAC(macKey []byte, e *envelope) ([macLen]byte, error) {
	var sum [macLen]byte

	body, err := e.encode(false)
	if err != nil {
		return sum, err
	}

	h := hmac.New(sha256.New, macKey)
	h.Write(body)
	copy(sum[:], h.Sum(nil))

	return sum, nil
}

// Seal encrypts secret under a key derived from passphrase with the named
// cipher from reg and returns the self describing envelope. The salt and IV
// are read from rand.
func Seal(reg *cipher.Registry, cipherName string, secret,
	passphrase []byte, params KDFParams, rand io.Reader) ([]byte, error) {

	c, err := reg.New(cipherName)
	if err != nil {
		return nil, err
	}
	defer c.Free()

	e := &envelope{
		version:    Version,
		cipherName: []byte(cipherName),
		n:          params.N,
		r:          params.R,
		p:          params.P,
		iv:         make([]byte, c.IVLen()),
	}
	if _, err := io.ReadFull(rand, e.salt[:]); err != nil {
		return nil, fmt.Errorf("unable to read salt: %w", err)
	}
	if _, err := io.ReadFull(rand, e.iv); err != nil {
		return nil, fmt.Errorf("unable to read iv: %w", err)
	}

	key, macKey, err := deriveKeys(
		passphrase, e.salt[:], params, int(c.KeyLen()/8),
	)
	if err != nil {
		return nil, err
	}
	defer clear(key)
	defer clear(macKey)

	if err := c.SetKey(key, c.KeyLen(), true); err != nil {
		return nil, err
	}
	if err := c.SetIV(e.iv); err != nil {
		return nil, err
	}

	if c.Mode().IsStream() {
		e.ciphertext = bytes.Clone(secret)
	} else {
		e.ciphertext = pad(secret, int(c.BlockLen()))
	}
	err = c.Encrypt(e.ciphertext, e.ciphertext, fn.None[[]byte]())
	if err != nil {
		return nil, err
	}

	e.mac, err = computeMAC(macKey, e)
	if err != nil {
		return nil, err
	}

	blob, err := e.encode(true)
	if err != nil {
		return nil, err
	}

	log.DebugS(context.Background(), "Sealed secret",
		"cipher", cipherName, "secret_len", len(secret),
		lnutils.LogFingerprint("salt", e.salt[:]))

	return blob, nil
}

// Open verifies and decrypts an envelope produced by Seal. The cipher named
// in the envelope must be registered in reg.
func Open(reg *cipher.Registry, blob, passphrase []byte) ([]byte, error) {
	e, err := decodeEnvelope(blob)
	if err != nil {
		return nil, err
	}
	if e.version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnknownVersion, e.version)
	}

	c, err := reg.New(string(e.cipherName))
	if err != nil {
		return nil, err
	}
	defer c.Free()

	params := KDFParams{N: e.n, R: e.r, P: e.p}
	key, macKey, err := deriveKeys(
		passphrase, e.salt[:], params, int(c.KeyLen()/8),
	)
	if err != nil {
		return nil, err
	}
	defer clear(key)
	defer clear(macKey)

	mac, err := computeMAC(macKey, e)
	if err != nil {
		return nil, err
	}
	if !hmac.Equal(mac[:], e.mac[:]) {
		return nil, ErrBadPassphrase
	}

	if err := c.SetKey(key, c.KeyLen(), false); err != nil {
		return nil, err
	}
	if err := c.SetIV(e.iv); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	pt := e.ciphertext
	if err := c.Decrypt(pt, pt, fn.None[[]byte]()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	if !c.Mode().IsStream() {
		pt, err = unpad(pt, int(c.BlockLen()))
		if err != nil {
			return nil, err
		}
	}

	log.DebugS(context.Background(), "Opened secret",
		"cipher", c.Name(), "secret_len", len(pt))

	return pt, nil
}
