package modes

import "crypto/subtle"

// EncryptCFB encrypts src into dst in full block cipher feedback mode. The
// state IV is the feedback register: it is encrypted to produce each
// keystream block and then refilled with the resulting ciphertext. Partial
// blocks carry over between calls.
func EncryptCFB(b Encrypter, st *State, dst, src []byte) error {
	bs := b.BlockSize()
	if err := st.checkBlockSize(bs); err != nil {
		return err
	}
	if len(dst) < len(src) {
		return ErrShortDst
	}

	for i := 0; i < len(src); {
		if st.pos == 0 {
			b.Encrypt(st.ks, st.iv)
		}

		n := min(bs-st.pos, len(src)-i)
		out := dst[i : i+n]
		subtle.XORBytes(out, src[i:i+n], st.ks[st.pos:st.pos+n])
		copy(st.iv[st.pos:], out)

		st.pos = (st.pos + n) % bs
		i += n
	}

	return nil
}

// DecryptCFB decrypts src into dst in full block cipher feedback mode. The
// feedback register receives the ciphertext, exactly as on the encrypting
// side, which is why decryption also needs only the forward cipher.
func DecryptCFB(b Encrypter, st *State, dst, src []byte) error {
	bs := b.BlockSize()
	if err := st.checkBlockSize(bs); err != nil {
		return err
	}
	if len(dst) < len(src) {
		return ErrShortDst
	}

	for i := 0; i < len(src); {
		if st.pos == 0 {
			b.Encrypt(st.ks, st.iv)
		}

		n := min(bs-st.pos, len(src)-i)

		// Take the ciphertext before dst, which may alias src, is
		// written.
		fb := st.iv[st.pos : st.pos+n]
		copy(fb, src[i:i+n])
		subtle.XORBytes(dst[i:i+n], fb, st.ks[st.pos:st.pos+n])

		st.pos = (st.pos + n) % bs
		i += n
	}

	return nil
}
