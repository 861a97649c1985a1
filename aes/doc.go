// Package aes implements the AES block cipher (FIPS-197) for 128, 192 and
// 256-bit keys with lookup tables generated at start up.
//
// Encryption and decryption use distinct schedule types. A DecryptSchedule
// holds the round keys of the equivalent inverse cipher, so it cannot be
// obtained by running an EncryptSchedule backwards and the two are not
// interchangeable. Neither type implements a mode of operation; see the
// modes package for that.
package aes
