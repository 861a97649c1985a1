package modes

import "crypto/subtle"

// XORKeyStreamCTR XORs src with the counter mode keystream into dst. The
// counter held in the state IV is incremented as one big-endian integer
// before each keystream block is produced, so the first block is the
// encryption of IV+1 and the state IV holds the last counter used. Unused
// keystream bytes are kept for the next call, so splitting the input in
// any way produces the same output. Encryption and decryption are the same
// operation.
func XORKeyStreamCTR(b Encrypter, st *State, dst, src []byte) error {
	bs := b.BlockSize()
	if err := st.checkBlockSize(bs); err != nil {
		return err
	}
	if len(dst) < len(src) {
		return ErrShortDst
	}

	for i := 0; i < len(src); {
		if st.pos == 0 {
			incCounter(st.iv)
			b.Encrypt(st.ks, st.iv)
		}

		n := min(bs-st.pos, len(src)-i)
		subtle.XORBytes(dst[i:i+n], src[i:i+n], st.ks[st.pos:st.pos+n])

		st.pos = (st.pos + n) % bs
		i += n
	}

	return nil
}

// incCounter adds one to ctr, treating it as a big-endian integer that wraps
// around at the block size.
func incCounter(ctr []byte) {
	for i := len(ctr) - 1; i >= 0; i-- {
		ctr[i]++
		if ctr[i] != 0 {
			return
		}
	}
}
