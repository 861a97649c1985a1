package aes

import "encoding/binary"

// Encrypt encrypts exactly one block from src into dst. The slices must be
// at least BlockSize long and may be the same slice: the whole block is
// loaded into the state before any output is written.
func (s *EncryptSchedule) Encrypt(dst, src []byte) {
	if len(src) < BlockSize {
		panic("aes: input not full block")
	}
	if len(dst) < BlockSize {
		panic("aes: output not full block")
	}

	encryptBlock(s.roundKeys(), dst, src)
}

// Decrypt decrypts exactly one block from src into dst. The slices must be
// at least BlockSize long and may be the same slice.
func (s *DecryptSchedule) Decrypt(dst, src []byte) {
	if len(src) < BlockSize {
		panic("aes: input not full block")
	}
	if len(dst) < BlockSize {
		panic("aes: output not full block")
	}

	decryptBlock(s.roundKeys(), dst, src)
}

// encryptBlock runs the forward cipher with the expanded key xk.
func encryptBlock(xk []uint32, dst, src []byte) {
	s0 := binary.BigEndian.Uint32(src[0:4])
	s1 := binary.BigEndian.Uint32(src[4:8])
	s2 := binary.BigEndian.Uint32(src[8:12])
	s3 := binary.BigEndian.Uint32(src[12:16])

	// Initial AddRoundKey.
	s0 ^= xk[0]
	s1 ^= xk[1]
	s2 ^= xk[2]
	s3 ^= xk[3]

	// Full rounds. The row each table reads from is shifted one column
	// further left per row, which is ShiftRows.
	nr := len(xk)/4 - 2
	k := 4
	var t0, t1, t2, t3 uint32
	for r := 0; r < nr; r++ {
		t0 = xk[k+0] ^ te0[uint8(s0>>24)] ^ te1[uint8(s1>>16)] ^
			te2[uint8(s2>>8)] ^ te3[uint8(s3)]
		t1 = xk[k+1] ^ te0[uint8(s1>>24)] ^ te1[uint8(s2>>16)] ^
			te2[uint8(s3>>8)] ^ te3[uint8(s0)]
		t2 = xk[k+2] ^ te0[uint8(s2>>24)] ^ te1[uint8(s3>>16)] ^
			te2[uint8(s0>>8)] ^ te3[uint8(s1)]
		t3 = xk[k+3] ^ te0[uint8(s3>>24)] ^ te1[uint8(s0>>16)] ^
			te2[uint8(s1>>8)] ^ te3[uint8(s2)]
		k += 4
		s0, s1, s2, s3 = t0, t1, t2, t3
	}

	// Last round, no MixColumns.
	t0 = xk[k+0] ^ tl0[uint8(s0>>24)] ^ tl1[uint8(s1>>16)] ^
		tl2[uint8(s2>>8)] ^ tl3[uint8(s3)]
	t1 = xk[k+1] ^ tl0[uint8(s1>>24)] ^ tl1[uint8(s2>>16)] ^
		tl2[uint8(s3>>8)] ^ tl3[uint8(s0)]
	t2 = xk[k+2] ^ tl0[uint8(s2>>24)] ^ tl1[uint8(s3>>16)] ^
		tl2[uint8(s0>>8)] ^ tl3[uint8(s1)]
	t3 = xk[k+3] ^ tl0[uint8(s3>>24)] ^ tl1[uint8(s0>>16)] ^
		tl2[uint8(s1>>8)] ^ tl3[uint8(s2)]

	binary.BigEndian.PutUint32(dst[0:4], t0)
	binary.BigEndian.PutUint32(dst[4:8], t1)
	binary.BigEndian.PutUint32(dst[8:12], t2)
	binary.BigEndian.PutUint32(dst[12:16], t3)
}

// decryptBlock runs the equivalent inverse cipher with the decryption
// schedule xk.
func decryptBlock(xk []uint32, dst, src []byte) {
	s0 := binary.BigEndian.Uint32(src[0:4])
	s1 := binary.BigEndian.Uint32(src[4:8])
	s2 := binary.BigEndian.Uint32(src[8:12])
	s3 := binary.BigEndian.Uint32(src[12:16])

	s0 ^= xk[0]
	s1 ^= xk[1]
	s2 ^= xk[2]
	s3 ^= xk[3]

	// InvShiftRows moves rows right, so each table reads one column
	// further back.
	nr := len(xk)/4 - 2
	k := 4
	var t0, t1, t2, t3 uint32
	for r := 0; r < nr; r++ {
		t0 = xk[k+0] ^ td0[uint8(s0>>24)] ^ td1[uint8(s3>>16)] ^
			td2[uint8(s2>>8)] ^ td3[uint8(s1)]
		t1 = xk[k+1] ^ td0[uint8(s1>>24)] ^ td1[uint8(s0>>16)] ^
			td2[uint8(s3>>8)] ^ td3[uint8(s2)]
		t2 = xk[k+2] ^ td0[uint8(s2>>24)] ^ td1[uint8(s1>>16)] ^
			td2[uint8(s0>>8)] ^ td3[uint8(s3)]
		t3 = xk[k+3] ^ td0[uint8(s3>>24)] ^ td1[uint8(s2>>16)] ^
			td2[uint8(s1>>8)] ^ td3[uint8(s0)]
		k += 4
		s0, s1, s2, s3 = t0, t1, t2, t3
	}

	t0 = xk[k+0] ^ tdl0[uint8(s0>>24)] ^ tdl1[uint8(s3>>16)] ^
		tdl2[uint8(s2>>8)] ^ tdl3[uint8(s1)]
	t1 = xk[k+1] ^ tdl0[uint8(s1>>24)] ^ tdl1[uint8(s0>>16)] ^
		tdl2[uint8(s3>>8)] ^ tdl3[uint8(s2)]
	t2 = xk[k+2] ^ tdl0[uint8(s2>>24)] ^ tdl1[uint8(s1>>16)] ^
		tdl2[uint8(s0>>8)] ^ tdl3[uint8(s3)]
	t3 = xk[k+3] ^ tdl0[uint8(s3>>24)] ^ tdl1[uint8(s2>>16)] ^
		tdl2[uint8(s1>>8)] ^ tdl3[uint8(s0)]

	binary.BigEndian.PutUint32(dst[0:4], t0)
	binary.BigEndian.PutUint32(dst[4:8], t1)
	binary.BigEndian.PutUint32(dst[8:12], t2)
	binary.BigEndian.PutUint32(dst[12:16], t3)
}
