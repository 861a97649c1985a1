package modes

import "crypto/subtle"

// XORKeyStreamOFB XORs src with the output feedback keystream into dst. The
// state IV is repeatedly encrypted in place and used directly as keystream.
// Like CTR, encryption and decryption are the same operation.
func XORKeyStreamOFB(b Encrypter, st *State, dst, src []byte) error {
	bs := b.BlockSize()
	if err := st.checkBlockSize(bs); err != nil {
		return err
	}
	if len(dst) < len(src) {
		return ErrShortDst
	}

	for i := 0; i < len(src); {
		if st.pos == 0 {
			b.Encrypt(st.iv, st.iv)
		}

		n := min(bs-st.pos, len(src)-i)
		subtle.XORBytes(dst[i:i+n], src[i:i+n], st.iv[st.pos:st.pos+n])

		st.pos = (st.pos + n) % bs
		i += n
	}

	return nil
}
