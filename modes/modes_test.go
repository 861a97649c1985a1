package modes

import (
	stdaes "crypto/aes"
	stdcipher "crypto/cipher"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/priikone/crypto/aes"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func unhex(t testing.TB, s string) []byte {
	t.Helper()

	b, err := hex.DecodeString(strings.Join(strings.Fields(s), ""))
	require.NoError(t, err)

	return b
}

const (
	key128 = "2b7e151628aed2a6abf7158809cf4f3c"
	key256 = "603deb1015ca71be2b73aef0857d7781" +
		"1f352c073b6108d72d9810a30914dff4"

	iv0 = "000102030405060708090a0b0c0d0e0f"

	// ctr is one below the first counter block of the F.5 examples.
	ctr = "f0f1f2f3f4f5f6f7f8f9fafbfcfdfefe"

	plaintext = `6bc1bee22e409f96e93d7e117393172a
		ae2d8a571e03ac9c9eb76fac45af8e51
		30c81c46a35ce411e5fbc1191a0a52ef
		f69f2445df4f9b17ad2b417be66c3710`
)

// vector is one NIST SP 800-38A appendix F example.
type vector struct {
	name string
	mode Mode
	key  string
	iv   string
	ct   string
}

var vectors = []vector{
	{
		name: "F.1.1 ECB-AES128",
		mode: ECB,
		key:  key128,
		ct: `3ad77bb40d7a3660a89ecaf32466ef97
			f5d3d58503b9699de785895a96fdbaaf
			43b1cd7f598ece23881b00e3ed030688
			7b0c785e27e8ad3f8223207104725dd4`,
	},
	{
		name: "F.2.1 CBC-AES128",
		mode: CBC,
		key:  key128,
		iv:   iv0,
		ct: `7649abac8119b246cee98e9b12e9197d
			5086cb9b507219ee95db113a917678b2
			73bed6b8e3c1743b7116e69e22229516
			3ff1caa1681fac09120eca307586e1a7`,
	},
	{
		name: "F.2.5 CBC-AES256",
		mode: CBC,
		key:  key256,
		iv:   iv0,
		ct: `f58c4c04d6e5f1ba779eabfb5f7bfbd6
			9cfc4e967edb808d679f777bc6702c7d
			39f23369a9d9bacfa530e26304231461
			b2eb05e2c39be9fcda6c19078c6a9d1b`,
	},
	{
		name: "F.3.13 CFB128-AES128",
		mode: CFB,
		key:  key128,
		iv:   iv0,
		ct: `3b3fd92eb72dad20333449f8e83cfb4a
			c8a64537a0b3a93fcde3cdad9f1ce58b
			26751f67a3cbb140b1808cf187a4f4df
			c04b05357c5d1c0eeac4c66f9ff7f2e6`,
	},
	{
		name: "F.4.1 OFB-AES128",
		mode: OFB,
		key:  key128,
		iv:   iv0,
		ct: `3b3fd92eb72dad20333449f8e83cfb4a
			7789508d16918f03f53c52dac54ed825
			9740051e9c5fecf64344f7a82260edcc
			304c6528f659c77866a510d9c1d6ae5e`,
	},
	{
		name: "F.5.1 CTR-AES128",
		mode: CTR,
		key:  key128,
		iv:   ctr,
		ct: `874d6191b620e3261bef6864990db6ce
			9806f66b7970fdff8617187bb9fffdff
			5ae4df3edbd5d35e5b4f09020db03eab
			1e031dda2fbe03d1792170a0f3009cee`,
	},
	{
		name: "F.5.5 CTR-AES256",
		mode: CTR,
		key:  key256,
		iv:   ctr,
		ct: `601ec313775789a5b7a7f504bbf3d228
			f443e3ca4d62b59aca84e990cacaf5c5
			2b0930daa23de94ce87017ba2d84988d
			dfc9c58db67aada613c2dd08457941a6`,
	},
}

// run drives one of the modes with freshly keyed schedules. The returned
// state is the one used for the call.
func run(t testing.TB, mode Mode, encrypt bool, key, iv, dst,
	src []byte) (*State, error) {

	t.Helper()

	enc, err := aes.NewEncryptSchedule(key)
	require.NoError(t, err)
	dec, err := aes.NewDecryptSchedule(key)
	require.NoError(t, err)

	st := NewState(aes.BlockSize)
	if iv != nil {
		require.NoError(t, st.SetIV(iv))
	}

	switch {
	case mode == ECB && encrypt:
		err = EncryptECB(enc, dst, src)
	case mode == ECB:
		err = DecryptECB(dec, dst, src)
	case mode == CBC && encrypt:
		err = EncryptCBC(enc, st, dst, src)
	case mode == CBC:
		err = DecryptCBC(dec, st, dst, src)
	case mode == CTR:
		err = XORKeyStreamCTR(enc, st, dst, src)
	case mode == CFB && encrypt:
		err = EncryptCFB(enc, st, dst, src)
	case mode == CFB:
		err = DecryptCFB(enc, st, dst, src)
	case mode == OFB:
		err = XORKeyStreamOFB(enc, st, dst, src)
	default:
		t.Fatalf("unknown mode %v", mode)
	}

	return st, err
}

// TestKnownAnswer runs the NIST SP 800-38A examples in both directions.
func TestKnownAnswer(t *testing.T) {
	t.Parallel()

	for _, v := range vectors {
		v := v
		t.Run(v.name, func(t *testing.T) {
			t.Parallel()

			key := unhex(t, v.key)
			pt := unhex(t, plaintext)
			ct := unhex(t, v.ct)

			var iv []byte
			if v.iv != "" {
				iv = unhex(t, v.iv)
			}

			out := make([]byte, len(pt))
			_, err := run(t, v.mode, true, key, iv, out, pt)
			require.NoError(t, err)
			require.Equal(t, ct, out)

			_, err = run(t, v.mode, false, key, iv, out, ct)
			require.NoError(t, err)
			require.Equal(t, pt, out)
		})
	}
}

// TestKnownAnswerInPlace repeats the examples with dst and src being the same
// buffer.
func TestKnownAnswerInPlace(t *testing.T) {
	t.Parallel()

	for _, v := range vectors {
		key := unhex(t, v.key)
		buf := unhex(t, plaintext)

		var iv []byte
		if v.iv != "" {
			iv = unhex(t, v.iv)
		}

		_, err := run(t, v.mode, true, key, iv, buf, buf)
		require.NoError(t, err, v.name)
		require.Equal(t, unhex(t, v.ct), buf, v.name)

		_, err = run(t, v.mode, false, key, iv, buf, buf)
		require.NoError(t, err, v.name)
		require.Equal(t, unhex(t, plaintext), buf, v.name)
	}
}

// TestChainedState checks that the state left behind by CBC and CTR is what
// the next call needs: the last ciphertext block and the advanced counter.
func TestChainedState(t *testing.T) {
	t.Parallel()

	key := unhex(t, key128)
	pt := unhex(t, plaintext)
	out := make([]byte, len(pt))

	st, err := run(t, CBC, true, key, unhex(t, iv0), out, pt)
	require.NoError(t, err)
	require.Equal(t, out[len(out)-aes.BlockSize:], st.IV())
	require.Zero(t, st.Pos())

	st, err = run(t, CTR, true, key, unhex(t, ctr), out, pt)
	require.NoError(t, err)
	require.Equal(t, unhex(t, "f0f1f2f3f4f5f6f7f8f9fafbfcfdff02"),
		st.IV())
}

// TestCTRCounterOrder pins the counter order: the counter is incremented
// before the first block is encrypted, so an all zero IV starts the
// keystream at E(1) rather than E(0).
func TestCTRCounterOrder(t *testing.T) {
	t.Parallel()

	enc, err := aes.NewEncryptSchedule(make([]byte, 16))
	require.NoError(t, err)

	st := NewState(aes.BlockSize)
	ks := make([]byte, 2*aes.BlockSize)
	require.NoError(t, XORKeyStreamCTR(enc, st, ks, ks))

	require.Equal(t, unhex(t, `58e2fccefa7e3061367f1d57a4e7455a
		0388dace60b6a392f328c2b971b2fe78`), ks)
	require.NotEqual(t, unhex(t, "66e94bd4ef8a2c3b884cfa59ca342b2e"),
		ks[:aes.BlockSize])
	require.Equal(t, unhex(t, "00000000000000000000000000000002"),
		st.IV())
}

// TestBlockAlignment makes sure ECB and CBC refuse partial blocks without
// touching dst or the state.
func TestBlockAlignment(t *testing.T) {
	t.Parallel()

	key := unhex(t, key128)
	enc, err := aes.NewEncryptSchedule(key)
	require.NoError(t, err)
	dec, err := aes.NewDecryptSchedule(key)
	require.NoError(t, err)

	for _, n := range []int{1, 15, 17, 31, 33} {
		src := make([]byte, n)
		dst := make([]byte, n)
		for i := range dst {
			dst[i] = 0xaa
		}
		want := append([]byte(nil), dst...)

		st := NewState(aes.BlockSize)
		require.NoError(t, st.SetIV(unhex(t, iv0)))

		require.ErrorIs(t, EncryptECB(enc, dst, src), ErrBlockAlignment)
		require.ErrorIs(t, DecryptECB(dec, dst, src), ErrBlockAlignment)
		require.ErrorIs(
			t, EncryptCBC(enc, st, dst, src), ErrBlockAlignment,
		)
		require.ErrorIs(
			t, DecryptCBC(dec, st, dst, src), ErrBlockAlignment,
		)

		require.Equal(t, want, dst)
		require.Equal(t, unhex(t, iv0), st.IV())
	}

	// Empty input is a whole number of blocks.
	st := NewState(aes.BlockSize)
	require.NoError(t, EncryptCBC(enc, st, nil, nil))
	require.NoError(t, EncryptECB(enc, nil, nil))
}

// TestShortDst checks every mode rejects a destination that cannot hold the
// output.
func TestShortDst(t *testing.T) {
	t.Parallel()

	key := unhex(t, key128)
	src := make([]byte, 32)
	dst := make([]byte, 31)

	for _, m := range []Mode{ECB, CBC, CTR, CFB, OFB} {
		for _, encrypt := range []bool{true, false} {
			st, err := run(t, m, encrypt, key, nil, dst, src)
			require.ErrorIs(t, err, ErrShortDst, m.String())
			require.Zero(t, st.Pos())
			require.Equal(t, make([]byte, 31), dst)
		}
	}
}

// TestBlockSizeMismatch checks a state sized for a different primitive is
// refused.
func TestBlockSizeMismatch(t *testing.T) {
	t.Parallel()

	enc, err := aes.NewEncryptSchedule(unhex(t, key128))
	require.NoError(t, err)

	st := NewState(8)
	buf := make([]byte, 16)
	require.ErrorIs(t, EncryptCBC(enc, st, buf, buf), ErrBlockSize)
	require.ErrorIs(t, XORKeyStreamCTR(enc, st, buf, buf), ErrBlockSize)
	require.ErrorIs(t, EncryptCFB(enc, st, buf, buf), ErrBlockSize)
	require.ErrorIs(t, XORKeyStreamOFB(enc, st, buf, buf), ErrBlockSize)
}

// TestSetIV covers the IV length check, the nil reset and that a reset drops
// buffered keystream.
func TestSetIV(t *testing.T) {
	t.Parallel()

	st := NewState(aes.BlockSize)
	require.ErrorIs(t, st.SetIV(make([]byte, 15)), ErrIVLength)
	require.ErrorIs(t, st.SetIV(make([]byte, 17)), ErrIVLength)
	require.ErrorIs(t, st.SetIV([]byte{}), ErrIVLength)

	enc, err := aes.NewEncryptSchedule(unhex(t, key128))
	require.NoError(t, err)

	require.NoError(t, st.SetIV(unhex(t, ctr)))
	first := make([]byte, 5)
	require.NoError(t, XORKeyStreamCTR(enc, st, first, first))
	require.Equal(t, 5, st.Pos())

	// Setting the same counter again restarts the keystream at its first
	// byte.
	require.NoError(t, st.SetIV(unhex(t, ctr)))
	require.Zero(t, st.Pos())
	again := make([]byte, 5)
	require.NoError(t, XORKeyStreamCTR(enc, st, again, again))
	require.Equal(t, first, again)

	// A nil IV only moves the cursor, so the next byte comes from a fresh
	// keystream block for the already advanced counter.
	iv := append([]byte(nil), st.IV()...)
	require.NoError(t, st.SetIV(nil))
	require.Zero(t, st.Pos())
	require.Equal(t, iv, st.IV())
}

// TestNewStateWithIV checks that the state writes its progress into the
// buffer it was given.
func TestNewStateWithIV(t *testing.T) {
	t.Parallel()

	enc, err := aes.NewEncryptSchedule(unhex(t, key128))
	require.NoError(t, err)

	iv := unhex(t, ctr)
	st := NewStateWithIV(iv)
	require.Equal(t, aes.BlockSize, st.BlockSize())

	buf := make([]byte, 2*aes.BlockSize)
	require.NoError(t, XORKeyStreamCTR(enc, st, buf, buf))
	require.Equal(t, unhex(t, "f0f1f2f3f4f5f6f7f8f9fafbfcfdff00"), iv)
}

// TestWipe checks that wiping clears the state.
func TestWipe(t *testing.T) {
	t.Parallel()

	enc, err := aes.NewEncryptSchedule(unhex(t, key128))
	require.NoError(t, err)

	st := NewState(aes.BlockSize)
	require.NoError(t, st.SetIV(unhex(t, iv0)))
	buf := make([]byte, 7)
	require.NoError(t, EncryptCFB(enc, st, buf, buf))

	st.Wipe()
	require.Equal(t, make([]byte, aes.BlockSize), st.iv)
	require.Equal(t, make([]byte, aes.BlockSize), st.ks)
	require.Equal(t, make([]byte, aes.BlockSize), st.tmp)
	require.Zero(t, st.Pos())
}

// TestIncCounter checks carry propagation and wrap around.
func TestIncCounter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, out string
	}{
		{"00000000", "00000001"},
		{"000000ff", "00000100"},
		{"00ffffff", "01000000"},
		{"ffffffff", "00000000"},
	}
	for _, tc := range tests {
		c := unhex(t, tc.in)
		incCounter(c)
		require.Equal(t, unhex(t, tc.out), c, tc.in)
	}
}

// TestModeNames checks the name mapping in both directions.
func TestModeNames(t *testing.T) {
	t.Parallel()

	for _, m := range []Mode{ECB, CBC, CTR, CFB, OFB} {
		require.True(t, m.IsValid())

		got, err := ParseMode(strings.ToUpper(m.String()))
		require.NoError(t, err)
		require.Equal(t, m, got)
	}

	require.False(t, Mode(0).IsValid())
	require.False(t, Mode(6).IsValid())
	require.Equal(t, "mode(9)", Mode(9).String())

	_, err := ParseMode("gcm")
	require.ErrorIs(t, err, ErrUnknownMode)

	require.True(t, CTR.IsStream())
	require.True(t, CFB.IsStream())
	require.True(t, OFB.IsStream())
	require.False(t, ECB.IsStream())
	require.False(t, CBC.IsStream())
}

// chunked feeds src through fn in the given chunk sizes. Sizes that run
// past the end are truncated.
func chunked(src []byte, sizes []int,
	fn func(dst, src []byte) error) ([]byte, error) {

	out := make([]byte, len(src))
	off := 0
	for _, n := range sizes {
		if off == len(src) {
			break
		}
		n = min(n, len(src)-off)
		if err := fn(out[off:off+n], src[off:off+n]); err != nil {
			return nil, err
		}
		off += n
	}
	if off < len(src) {
		if err := fn(out[off:], src[off:]); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// TestStreamChunking checks the stream modes give the same output no matter
// how the input is split, and that decryption undoes encryption.
func TestStreamChunking(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		keyLen := rapid.SampledFrom([]int{16, 24, 32}).Draw(t, "keyLen")
		key := rapid.SliceOfN(rapid.Byte(), keyLen, keyLen).Draw(t, "key")
		iv := rapid.SliceOfN(
			rapid.Byte(), aes.BlockSize, aes.BlockSize,
		).Draw(t, "iv")
		msg := rapid.SliceOfN(rapid.Byte(), 0, 200).Draw(t, "msg")
		sizes := rapid.SliceOf(rapid.IntRange(0, 40)).Draw(t, "sizes")
		mode := rapid.SampledFrom([]Mode{CTR, CFB, OFB}).Draw(t, "mode")

		enc, err := aes.NewEncryptSchedule(key)
		if err != nil {
			t.Fatalf("schedule: %v", err)
		}

		stream := func(encrypt bool) func(dst, src []byte) error {
			st := NewState(aes.BlockSize)
			_ = st.SetIV(iv)

			return func(dst, src []byte) error {
				switch {
				case mode == CTR:
					return XORKeyStreamCTR(enc, st, dst, src)
				case mode == OFB:
					return XORKeyStreamOFB(enc, st, dst, src)
				case encrypt:
					return EncryptCFB(enc, st, dst, src)
				default:
					return DecryptCFB(enc, st, dst, src)
				}
			}
		}

		whole, err := chunked(msg, nil, stream(true))
		if err != nil {
			t.Fatalf("one shot: %v", err)
		}
		parts, err := chunked(msg, sizes, stream(true))
		if err != nil {
			t.Fatalf("chunked: %v", err)
		}
		if string(whole) != string(parts) {
			t.Fatalf("chunked output differs: %x vs %x", whole, parts)
		}

		// Decrypting one byte at a time recovers the message.
		ones := make([]int, len(msg))
		for i := range ones {
			ones[i] = 1
		}
		back, err := chunked(whole, ones, stream(false))
		if err != nil {
			t.Fatalf("decrypt: %v", err)
		}
		if string(back) != string(msg) {
			t.Fatalf("round trip mismatch: %x vs %x", back, msg)
		}
	})
}

// TestMatchesStdlib cross checks CBC and CTR against crypto/cipher.
func TestMatchesStdlib(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		key := rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(t, "key")
		iv := rapid.SliceOfN(
			rapid.Byte(), aes.BlockSize, aes.BlockSize,
		).Draw(t, "iv")
		blocks := rapid.IntRange(0, 8).Draw(t, "blocks")
		msg := rapid.SliceOfN(
			rapid.Byte(), blocks*aes.BlockSize, blocks*aes.BlockSize,
		).Draw(t, "msg")

		ref, _ := stdaes.NewCipher(key)
		enc, _ := aes.NewEncryptSchedule(key)

		want := make([]byte, len(msg))
		stdcipher.NewCBCEncrypter(ref, iv).CryptBlocks(want, msg)
		got := make([]byte, len(msg))
		st := NewState(aes.BlockSize)
		_ = st.SetIV(iv)
		if err := EncryptCBC(enc, st, got, msg); err != nil {
			t.Fatalf("cbc: %v", err)
		}
		if string(got) != string(want) {
			t.Fatalf("cbc mismatch")
		}

		// crypto/cipher encrypts its counter before incrementing it.
		first := append([]byte(nil), iv...)
		incCounter(first)
		stdcipher.NewCTR(ref, first).XORKeyStream(want, msg)
		st = NewState(aes.BlockSize)
		_ = st.SetIV(iv)
		if err := XORKeyStreamCTR(enc, st, got, msg); err != nil {
			t.Fatalf("ctr: %v", err)
		}
		if string(got) != string(want) {
			t.Fatalf("ctr mismatch")
		}
	})
}
