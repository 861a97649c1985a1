package aes

import (
	"encoding/binary"
	"strconv"
)

const (
	// BlockSize is the AES block size in bytes.
	BlockSize = 16

	// maxRoundKeys is the number of round key words needed by the
	// largest schedule, AES-256: 4 words for each of 14 rounds plus the
	// initial AddRoundKey.
	maxRoundKeys = 4 * (14 + 1)
)

// KeySizeError is returned when a key is not 16, 24 or 32 bytes long.
type KeySizeError int

// Error returns a human readable description of the key size error.
func (k KeySizeError) Error() string {
	return "aes: invalid key size " + strconv.Itoa(int(k))
}

// roundsForKey returns the number of rounds for a key of the given byte
// length, or a KeySizeError.
func roundsForKey(keyLen int) (int, error) {
	switch keyLen {
	case 16:
		return 10, nil
	case 24:
		return 12, nil
	case 32:
		return 14, nil
	default:
		return 0, KeySizeError(keyLen)
	}
}

// EncryptSchedule is a key schedule oriented for the forward cipher. It can
// only encrypt blocks.
type EncryptSchedule struct {
	rounds int
	rk     [maxRoundKeys]uint32
}

// DecryptSchedule is a key schedule oriented for the equivalent inverse
// cipher. Its round keys are stored in reverse round order and all but the
// outermost have been passed through InvMixColumns, so it can only decrypt
// blocks.
type DecryptSchedule struct {
	rounds int
	rk     [maxRoundKeys]uint32
}

// NewEncryptSchedule expands a 16, 24 or 32 byte key into an encryption
// schedule.
func NewEncryptSchedule(key []byte) (*EncryptSchedule, error) {
	rounds, err := roundsForKey(len(key))
	if err != nil {
		return nil, err
	}

	s := &EncryptSchedule{rounds: rounds}
	expandKey(key, s.rk[:4*(rounds+1)])

	return s, nil
}

// NewDecryptSchedule expands a 16, 24 or 32 byte key into a decryption
// schedule.
func NewDecryptSchedule(key []byte) (*DecryptSchedule, error) {
	rounds, err := roundsForKey(len(key))
	if err != nil {
		return nil, err
	}

	var enc [maxRoundKeys]uint32
	n := 4 * (rounds + 1)
	expandKey(key, enc[:n])

	s := &DecryptSchedule{rounds: rounds}
	for i := 0; i < n; i += 4 {
		ei := n - i - 4
		for j := 0; j < 4; j++ {
			w := enc[ei+j]
			if i > 0 && i+4 < n {
				w = invMixColumn(w)
			}
			s.rk[i+j] = w
		}
	}

	// The forward words are key material too.
	for i := range enc {
		enc[i] = 0
	}

	return s, nil
}

// Rounds returns the number of cipher rounds, 10, 12 or 14.
func (s *EncryptSchedule) Rounds() int {
	return s.rounds
}

// BlockSize returns the AES block size.
func (s *EncryptSchedule) BlockSize() int {
	return BlockSize
}

// Wipe zeroes the round keys. The schedule must not be used afterwards.
func (s *EncryptSchedule) Wipe() {
	s.rk = [maxRoundKeys]uint32{}
	s.rounds = 0
}

// roundKeys returns the words in use for this key size.
func (s *EncryptSchedule) roundKeys() []uint32 {
	return s.rk[:4*(s.rounds+1)]
}

// Rounds returns the number of cipher rounds, 10, 12 or 14.
func (s *DecryptSchedule) Rounds() int {
	return s.rounds
}

// BlockSize returns the AES block size.
func (s *DecryptSchedule) BlockSize() int {
	return BlockSize
}

// Wipe zeroes the round keys. The schedule must not be used afterwards.
func (s *DecryptSchedule) Wipe() {
	s.rk = [maxRoundKeys]uint32{}
	s.rounds = 0
}

func (s *DecryptSchedule) roundKeys() []uint32 {
	return s.rk[:4*(s.rounds+1)]
}

// subWord applies the S-box to each byte of w.
func subWord(w uint32) uint32 {
	return uint32(sbox[w>>24])<<24 | uint32(sbox[w>>16&0xff])<<16 |
		uint32(sbox[w>>8&0xff])<<8 | uint32(sbox[w&0xff])
}

// rotWord turns [a0, a1, a2, a3] into [a1, a2, a3, a0].
func rotWord(w uint32) uint32 {
	return w<<8 | w>>24
}

// invMixColumn applies InvMixColumns to a single round key column. The
// inverse tables expect their input to have gone through InvSubBytes, so the
// S-box is applied first to cancel it out.
func invMixColumn(w uint32) uint32 {
	return td0[sbox[w>>24]] ^ td1[sbox[w>>16&0xff]] ^
		td2[sbox[w>>8&0xff]] ^ td3[sbox[w&0xff]]
}

// expandKey runs the FIPS-197 key expansion, filling all of w. Every Nk-th
// word mixes in a rotated, substituted copy of its predecessor and a round
// constant. For 256-bit keys the word halfway through each group is
// additionally substituted.
func expandKey(key []byte, w []uint32) {
	nk := len(key) / 4
	for i := 0; i < nk; i++ {
		w[i] = binary.BigEndian.Uint32(key[4*i:])
	}

	for i := nk; i < len(w); i++ {
		t := w[i-1]
		switch {
		case i%nk == 0:
			t = subWord(rotWord(t)) ^ uint32(rcon[i/nk-1])<<24

		case nk > 6 && i%nk == 4:
			t = subWord(t)
		}
		w[i] = w[i-nk] ^ t
	}
}
