package modes

import "crypto/subtle"

// EncryptCBC encrypts src into dst in cipher block chaining mode. The state
// IV is the chaining value and is left holding the last ciphertext block, so
// consecutive calls continue the same chain.
func EncryptCBC(b Encrypter, st *State, dst, src []byte) error {
	bs := b.BlockSize()
	if err := st.checkBlockSize(bs); err != nil {
		return err
	}
	if err := checkBlocks(bs, dst, src); err != nil {
		return err
	}

	iv := st.iv
	for i := 0; i < len(src); i += bs {
		subtle.XORBytes(iv, iv, src[i:i+bs])
		b.Encrypt(iv, iv)
		copy(dst[i:i+bs], iv)
	}

	return nil
}

// DecryptCBC decrypts src into dst in cipher block chaining mode. The state
// IV is left holding the last ciphertext block.
func DecryptCBC(b Decrypter, st *State, dst, src []byte) error {
	bs := b.BlockSize()
	if err := st.checkBlockSize(bs); err != nil {
		return err
	}
	if err := checkBlocks(bs, dst, src); err != nil {
		return err
	}

	iv, saved := st.iv, st.tmp
	for i := 0; i < len(src); i += bs {
		// The ciphertext block becomes the next chaining value and may
		// be overwritten below when dst and src alias.
		copy(saved, src[i:i+bs])

		out := dst[i : i+bs]
		b.Decrypt(out, saved)
		subtle.XORBytes(out, out, iv)
		copy(iv, saved)
	}
	clear(saved)

	return nil
}
