package modes

// State is the mutable part of a mode of operation: one block of IV,
// counter or feedback register and a cursor into the current keystream
// block. A State is owned by a single cipher instance and is not safe for
// concurrent use.
type State struct {
	// iv is the chaining value for CBC, the counter for CTR and the
	// feedback register for CFB and OFB.
	iv []byte

	// ks holds the current keystream block for the stream modes and is
	// scratch space for CBC.
	ks []byte

	// tmp is scratch space for CBC decryption.
	tmp []byte

	// pos is the number of bytes of the current keystream block already
	// used. It is always in [0, block size). Zero means a new keystream
	// block has to be produced before the next byte.
	pos int
}

// NewState returns a zeroed State for the given block size.
func NewState(blockSize int) *State {
	return &State{
		iv:  make([]byte, blockSize),
		ks:  make([]byte, blockSize),
		tmp: make([]byte, blockSize),
	}
}

// NewStateWithIV returns a State that uses iv itself as its IV buffer
// rather than a copy, so that progress made by the mode is visible in iv.
// The cursor starts at zero.
func NewStateWithIV(iv []byte) *State {
	return &State{
		iv:  iv,
		ks:  make([]byte, len(iv)),
		tmp: make([]byte, len(iv)),
	}
}

// BlockSize returns the block size the state was created for.
func (s *State) BlockSize() int {
	return len(s.iv)
}

// SetIV copies iv into the state and resets the keystream cursor. A nil iv
// only resets the cursor, discarding any buffered keystream. A non-nil iv
// must be exactly one block long.
func (s *State) SetIV(iv []byte) error {
	if iv != nil && len(iv) != len(s.iv) {
		return ErrIVLength
	}

	if iv != nil {
		copy(s.iv, iv)
	}
	s.pos = 0

	return nil
}

// IV returns the live IV buffer. Writes to it change the state.
func (s *State) IV() []byte {
	return s.iv
}

// Pos returns the keystream cursor.
func (s *State) Pos() int {
	return s.pos
}

// Reset discards buffered keystream without touching the IV.
func (s *State) Reset() {
	s.pos = 0
}

// Wipe zeroes every buffer and the cursor.
func (s *State) Wipe() {
	clear(s.iv)
	clear(s.ks)
	clear(s.tmp)
	s.pos = 0
}

// checkBlockSize makes sure a primitive fits the state.
func (s *State) checkBlockSize(blockSize int) error {
	if blockSize != len(s.iv) {
		return ErrBlockSize
	}

	return nil
}
