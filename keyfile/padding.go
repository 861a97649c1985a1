package keyfile

import "crypto/subtle"

// pad returns a copy of b with PKCS#7 padding to a multiple of blockSize.
// A full block of padding is added when b is already aligned.
func pad(b []byte, blockSize int) []byte {
	n := blockSize - len(b)%blockSize

	out := make([]byte, len(b)+n)
	copy(out, b)
	for i := len(b); i < len(out); i++ {
		out[i] = byte(n)
	}

	return out
}

// unpad strips PKCS#7 padding. The padding bytes are compared in constant
// time.
func unpad(b []byte, blockSize int) ([]byte, error) {
	if len(b) == 0 || len(b)%blockSize != 0 {
		return nil, ErrBadPadding
	}

	n := int(b[len(b)-1])
	if n == 0 || n > blockSize {
		return nil, ErrBadPadding
	}

	good := 1
	for _, c := range b[len(b)-n:] {
		good &= subtle.ConstantTimeByteEq(c, byte(n))
	}
	if good != 1 {
		return nil, ErrBadPadding
	}

	return b[:len(b)-n], nil
}
