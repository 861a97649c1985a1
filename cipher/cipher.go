package cipher

import (
	"fmt"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/priikone/crypto/modes"
)

// schedule is the key schedule held by a keyed instance. It is either an
// encryptSchedule or a decryptSchedule, never both.
type schedule interface {
	wipe()
}

// encryptSchedule is a schedule derived for the forward direction. ECB and
// CBC instances keyed for encryption and every stream mode instance hold
// one.
type encryptSchedule struct {
	BlockEncrypter
}

func (s encryptSchedule) wipe() {
	s.Wipe()
}

// decryptSchedule is a schedule derived for the inverse direction. Only ECB
// and CBC instances keyed for decryption hold one.
type decryptSchedule struct {
	BlockDecrypter
}

func (s decryptSchedule) wipe() {
	s.Wipe()
}

// Cipher is one keyed use of a registered cipher. It owns its key schedule
// and mode state and must not be used from more than one goroutine at a
// time. Separate instances never share state, even when created from the
// same descriptor and key.
type Cipher struct {
	desc  *Descriptor
	stats *usage

	// sched is nil until SetKey succeeds.
	sched      schedule
	encryption bool

	state *modes.State
	freed bool
}

func newCipher(d *Descriptor, stats *usage) *Cipher {
	stats.allocated.Add(1)

	return &Cipher{
		desc:  d,
		stats: stats,
		state: modes.NewState(int(d.BlockLen)),
	}
}

// SetKey derives the key schedule from the first keyBits/8 bytes of key.
// keyBits must equal the cipher's key length. For ECB and CBC encryption
// selects whether an encryption or decryption schedule is derived, the
// stream modes always derive an encryption schedule. Any buffered keystream
// is discarded. On failure the instance is left as it was.
func (c *Cipher) SetKey(key []byte, keyBits uint32, encryption bool) error {
	err := c.setKey(key, keyBits, encryption)
	if err != nil {
		c.stats.failures.Add(1)
		log.Tracef("SetKey on %v failed: %v", c.desc.Name, err)
	}

	return err
}

func (c *Cipher) setKey(key []byte, keyBits uint32, encryption bool) error {
	if c.freed {
		return ErrFreed
	}
	if keyBits != c.desc.KeyLen {
		return fmt.Errorf("%w: %s takes %d bit keys, got %d",
			ErrKeyLength, c.desc.Name, c.desc.KeyLen, keyBits)
	}
	if uint64(len(key))*8 < uint64(keyBits) {
		return fmt.Errorf("%w: %d bytes is shorter than %d bits",
			ErrKeyLength, len(key), keyBits)
	}
	key = key[:keyBits/8]

	var (
		sched schedule
		alg   = c.desc.Algorithm
	)
	if !c.desc.Mode.IsStream() && !encryption {
		dec, err := alg.NewDecrypter(key)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrKeyLength, err)
		}
		sched = decryptSchedule{dec}
	} else {
		enc, err := alg.NewEncrypter(key)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrKeyLength, err)
		}
		sched = encryptSchedule{enc}
	}

	if c.sched != nil {
		c.sched.wipe()
	}
	c.sched = sched
	c.encryption = encryption
	c.state.Reset()

	return nil
}

// SetIV copies iv into the mode state and restarts the keystream at its
// first byte. A nil iv only restarts the keystream. A non-nil iv must be
// exactly IVLen bytes.
func (c *Cipher) SetIV(iv []byte) error {
	err := c.setIV(iv)
	if err != nil {
		c.stats.failures.Add(1)
	}

	return err
}

func (c *Cipher) setIV(iv []byte) error {
	if c.freed {
		return ErrFreed
	}
	if iv != nil && len(iv) != int(c.desc.IVLen) {
		return fmt.Errorf("%w: %s needs %d bytes, got %d", ErrIVLength,
			c.desc.Name, c.desc.IVLen, len(iv))
	}

	return c.state.SetIV(iv)
}

// IV returns the live IV buffer of the instance. Changes made to it are seen
// by the next call. It returns nil once the instance is freed.
func (c *Cipher) IV() []byte {
	if c.freed {
		return nil
	}

	return c.state.IV()
}

// Encrypt encrypts src into dst, which may be the same slice. When iv is
// set it replaces the instance IV for this call only: the call starts a
// fresh keystream from it and writes the chaining progress back into that
// buffer, leaving the instance IV and keystream untouched. ECB ignores iv.
func (c *Cipher) Encrypt(dst, src []byte, iv fn.Option[[]byte]) error {
	err := c.crypt(true, dst, src, iv)
	c.account(true, len(src), err)

	return err
}

// Decrypt decrypts src into dst, which may be the same slice. The iv
// argument behaves as for Encrypt. For CTR and OFB decryption is the same
// operation as encryption.
func (c *Cipher) Decrypt(dst, src []byte, iv fn.Option[[]byte]) error {
	err := c.crypt(false, dst, src, iv)
	c.account(false, len(src), err)

	return err
}

// account updates the usage counters after an Encrypt or Decrypt call.
func (c *Cipher) account(encrypt bool, n int, err error) {
	switch {
	case err != nil:
		c.stats.failures.Add(1)
		log.Tracef("%v on %v failed: %v", direction(encrypt),
			c.desc.Name, err)

	case encrypt:
		c.stats.bytesEncrypted.Add(uint64(n))

	default:
		c.stats.bytesDecrypted.Add(uint64(n))
	}
}

func direction(encrypt bool) string {
	if encrypt {
		return "Encrypt"
	}

	return "Decrypt"
}

// crypt validates the instance and picks the mode state for one call.
func (c *Cipher) crypt(encrypt bool, dst, src []byte,
	iv fn.Option[[]byte]) error {

	if c.freed {
		return ErrFreed
	}
	if c.sched == nil {
		return ErrNotKeyed
	}

	st := c.state
	if iv.IsSome() && c.desc.Mode != modes.ECB {
		buf := iv.UnwrapOr(nil)
		if len(buf) != int(c.desc.IVLen) {
			return fmt.Errorf("%w: %s needs %d bytes, got %d",
				ErrIVLength, c.desc.Name, c.desc.IVLen,
				len(buf))
		}
		st = modes.NewStateWithIV(buf)
	}

	var err error
	if encrypt {
		err = c.encrypt(st, dst, src)
	} else {
		err = c.decrypt(st, dst, src)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", c.desc.Name, err)
	}

	return nil
}

func (c *Cipher) encrypt(st *modes.State, dst, src []byte) error {
	enc, ok := c.sched.(encryptSchedule)
	if !ok {
		return ErrWrongDirection
	}

	switch c.desc.Mode {
	case modes.ECB:
		return modes.EncryptECB(enc, dst, src)
	case modes.CBC:
		return modes.EncryptCBC(enc, st, dst, src)
	case modes.CTR:
		return modes.XORKeyStreamCTR(enc, st, dst, src)
	case modes.CFB:
		return modes.EncryptCFB(enc, st, dst, src)
	case modes.OFB:
		return modes.XORKeyStreamOFB(enc, st, dst, src)
	default:
		return ErrUnsupportedMode
	}
}

func (c *Cipher) decrypt(st *modes.State, dst, src []byte) error {
	switch c.desc.Mode {
	case modes.ECB, modes.CBC:
		dec, ok := c.sched.(decryptSchedule)
		if !ok {
			return ErrWrongDirection
		}
		if c.desc.Mode == modes.ECB {
			return modes.DecryptECB(dec, dst, src)
		}

		return modes.DecryptCBC(dec, st, dst, src)
	}

	// The stream modes run the forward cipher in both directions.
	enc, ok := c.sched.(encryptSchedule)
	if !ok {
		return ErrWrongDirection
	}

	switch c.desc.Mode {
	case modes.CTR:
		return modes.XORKeyStreamCTR(enc, st, dst, src)
	case modes.CFB:
		return modes.DecryptCFB(enc, st, dst, src)
	case modes.OFB:
		return modes.XORKeyStreamOFB(enc, st, dst, src)
	default:
		return ErrUnsupportedMode
	}
}

// Free wipes the key schedule and mode state. Every later call on the
// instance fails with ErrFreed. Freeing twice is harmless.
func (c *Cipher) Free() {
	if c.freed {
		return
	}

	if c.sched != nil {
		c.sched.wipe()
		c.sched = nil
	}
	c.state.Wipe()
	c.freed = true
	c.stats.freed.Add(1)
}

// Descriptor returns the descriptor the instance was created from.
func (c *Cipher) Descriptor() *Descriptor {
	return c.desc
}

// Name returns the canonical cipher name.
func (c *Cipher) Name() string {
	return c.desc.Name
}

// AlgName returns the block cipher family name.
func (c *Cipher) AlgName() string {
	return c.desc.AlgName
}

// KeyLen returns the key length in bits.
func (c *Cipher) KeyLen() uint32 {
	return c.desc.KeyLen
}

// BlockLen returns the block length in bytes.
func (c *Cipher) BlockLen() uint32 {
	return c.desc.BlockLen
}

// IVLen returns the IV length in bytes.
func (c *Cipher) IVLen() uint32 {
	return c.desc.IVLen
}

// Mode returns the mode of operation.
func (c *Cipher) Mode() modes.Mode {
	return c.desc.Mode
}

// IsEncryption returns the encryption flag of the last successful SetKey.
func (c *Cipher) IsEncryption() bool {
	return c.encryption
}

// IsKeyed returns true once SetKey has succeeded and the instance has not
// been freed.
func (c *Cipher) IsKeyed() bool {
	return c.sched != nil
}
