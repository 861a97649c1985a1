package modes

// checkBlocks validates the buffers of a block mode call. Nothing has been
// written when it fails.
func checkBlocks(blockSize int, dst, src []byte) error {
	if len(src)%blockSize != 0 {
		return ErrBlockAlignment
	}
	if len(dst) < len(src) {
		return ErrShortDst
	}

	return nil
}

// EncryptECB encrypts every block of src independently into dst.
func EncryptECB(b Encrypter, dst, src []byte) error {
	bs := b.BlockSize()
	if err := checkBlocks(bs, dst, src); err != nil {
		return err
	}

	for i := 0; i < len(src); i += bs {
		b.Encrypt(dst[i:i+bs], src[i:i+bs])
	}

	return nil
}

// DecryptECB decrypts every block of src independently into dst.
func DecryptECB(b Decrypter, dst, src []byte) error {
	bs := b.BlockSize()
	if err := checkBlocks(bs, dst, src); err != nil {
		return err
	}

	for i := 0; i < len(src); i += bs {
		b.Decrypt(dst[i:i+bs], src[i:i+bs])
	}

	return nil
}
