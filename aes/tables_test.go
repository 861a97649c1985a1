package aes

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestSBox spot checks the generated substitution boxes against FIPS-197
// figure 7 and figure 14 and verifies they are inverse permutations.
func TestSBox(t *testing.T) {
	t.Parallel()

	require.Equal(t, byte(0x63), sbox[0x00])
	require.Equal(t, byte(0x7c), sbox[0x01])
	require.Equal(t, byte(0xed), sbox[0x53])
	require.Equal(t, byte(0x16), sbox[0xff])

	require.Equal(t, byte(0x52), isbox[0x00])
	require.Equal(t, byte(0x09), isbox[0x01])
	require.Equal(t, byte(0x7d), isbox[0xff])

	for i := 0; i < 256; i++ {
		require.Equal(t, byte(i), isbox[sbox[i]], "byte %#x", i)
	}
}

// TestGFMul checks field multiplication with the worked examples of
// FIPS-197 section 4.2.
func TestGFMul(t *testing.T) {
	t.Parallel()

	require.Equal(t, byte(0xc1), gmul(0x57, 0x83))
	require.Equal(t, byte(0xfe), gmul(0x57, 0x13))
	require.Equal(t, byte(0xae), gmul(0x57, 0x02))
	require.Equal(t, byte(0x47), gmul(0x57, 0x04))
	require.Equal(t, byte(0x8e), gmul(0x57, 0x08))
	require.Equal(t, byte(0x07), gmul(0x57, 0x10))
}

// TestRoundConstants checks the key expansion constants.
func TestRoundConstants(t *testing.T) {
	t.Parallel()

	want := [10]byte{
		0x01, 0x02, 0x04, 0x08, 0x10, 0x20, 0x40, 0x80, 0x1b, 0x36,
	}
	require.Equal(t, want, rcon)
}

// TestRoundTables checks a few fused table entries and that the rotated
// tables agree with the first.
func TestRoundTables(t *testing.T) {
	t.Parallel()

	require.Equal(t, uint32(0xc66363a5), te0[0x00])
	require.Equal(t, uint32(0xf87c7c84), te0[0x01])
	require.Equal(t, uint32(0x51f4a750), td0[0x00])
	require.Equal(t, uint32(0x7e416553), td0[0x01])

	for i := 0; i < 256; i++ {
		require.Equal(t, rotr32(te0[i], 8), te1[i])
		require.Equal(t, rotr32(te0[i], 16), te2[i])
		require.Equal(t, rotr32(te0[i], 24), te3[i])
		require.Equal(t, rotr32(td0[i], 8), td1[i])
		require.Equal(t, rotr32(td0[i], 16), td2[i])
		require.Equal(t, rotr32(td0[i], 24), td3[i])

		require.Equal(t, uint32(sbox[i])<<24, tl0[i])
		require.Equal(t, uint32(sbox[i]), tl3[i])
		require.Equal(t, uint32(isbox[i])<<24, tdl0[i])
		require.Equal(t, uint32(isbox[i]), tdl3[i])
	}
}

// TestInvMixColumn checks that InvMixColumns undoes MixColumns on a column.
// te0 of a byte is MixColumns applied to the column (S(b), 0, 0, 0), so
// feeding it back through the key schedule helper must recover S(b) in the
// top byte only.
func TestInvMixColumn(t *testing.T) {
	t.Parallel()

	for i := 0; i < 256; i++ {
		col := te0[i]
		require.Equal(t, uint32(sbox[i])<<24, invMixColumn(col))
	}
}
