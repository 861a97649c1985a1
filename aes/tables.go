package aes

// poly is the low byte of the AES field reduction polynomial
// x^8 + x^4 + x^3 + x + 1.
const poly = 0x1b

var (
	// sbox is the forward substitution box and isbox its inverse.
	sbox  [256]byte
	isbox [256]byte

	// rcon holds the key expansion round constants x^(i) for i = 0..9.
	rcon [10]byte

	// te0..te3 fuse SubBytes, ShiftRows and MixColumns for a single input
	// byte. teN is te0 rotated right by 8*N bits so that each table can be
	// indexed by the byte in row N of the state column.
	te0, te1, te2, te3 [256]uint32

	// tl0..tl3 are the forward last round tables. They carry only the
	// substituted byte placed in row N, as the final round has no
	// MixColumns step.
	tl0, tl1, tl2, tl3 [256]uint32

	// td0..td3 fuse InvSubBytes, InvShiftRows and InvMixColumns.
	td0, td1, td2, td3 [256]uint32

	// tdl0..tdl3 are the inverse last round tables.
	tdl0, tdl1, tdl2, tdl3 [256]uint32
)

func init() {
	generateTables()
}

// gmul multiplies a and b in GF(2^8) modulo the AES polynomial.
func gmul(a, b byte) byte {
	var p byte
	for b != 0 {
		if b&1 != 0 {
			p ^= a
		}
		hi := a & 0x80
		a <<= 1
		if hi != 0 {
			a ^= poly
		}
		b >>= 1
	}

	return p
}

// rotl8 rotates a byte left by n bits.
func rotl8(x byte, n uint) byte {
	return x<<n | x>>(8-n)
}

// rotr32 rotates a word right by n bits.
func rotr32(x uint32, n uint) uint32 {
	return x>>n | x<<(32-n)
}

// generateTables fills every substitution and round table from field
// arithmetic. The multiplicative inverse is taken through exponent and
// logarithm tables over the generator 0x03.
func generateTables() {
	var exp, log [256]byte

	x := byte(1)
	for i := 0; i < 255; i++ {
		exp[i] = x
		log[x] = byte(i)
		x = gmul(x, 0x03)
	}

	for i := 0; i < 256; i++ {
		// The inverse of zero is defined as zero.
		var inv byte
		if i != 0 {
			inv = exp[(255-int(log[i]))%255]
		}

		s := inv ^ rotl8(inv, 1) ^ rotl8(inv, 2) ^ rotl8(inv, 3) ^
			rotl8(inv, 4) ^ 0x63

		sbox[i] = s
		isbox[s] = byte(i)
	}

	r := byte(1)
	for i := range rcon {
		rcon[i] = r
		r = gmul(r, 0x02)
	}

	for i := 0; i < 256; i++ {
		s := sbox[i]
		w := uint32(gmul(s, 0x02))<<24 | uint32(s)<<16 |
			uint32(s)<<8 | uint32(gmul(s, 0x03))

		te0[i] = w
		te1[i] = rotr32(w, 8)
		te2[i] = rotr32(w, 16)
		te3[i] = rotr32(w, 24)

		tl0[i] = uint32(s) << 24
		tl1[i] = uint32(s) << 16
		tl2[i] = uint32(s) << 8
		tl3[i] = uint32(s)

		is := isbox[i]
		w = uint32(gmul(is, 0x0e))<<24 | uint32(gmul(is, 0x09))<<16 |
			uint32(gmul(is, 0x0d))<<8 | uint32(gmul(is, 0x0b))

		td0[i] = w
		td1[i] = rotr32(w, 8)
		td2[i] = rotr32(w, 16)
		td3[i] = rotr32(w, 24)

		tdl0[i] = uint32(is) << 24
		tdl1[i] = uint32(is) << 16
		tdl2[i] = uint32(is) << 8
		tdl3[i] = uint32(is)
	}
}
