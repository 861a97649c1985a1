package cipher

import "errors"

var (
	// ErrUnknownCipher is returned when a name has no registered
	// descriptor.
	ErrUnknownCipher = errors.New("unknown cipher")

	// ErrUnknownAlgorithm is returned when a block cipher family name is
	// not one of the built-in algorithms.
	ErrUnknownAlgorithm = errors.New("unknown cipher algorithm")

	// ErrUnsupportedMode is returned when a descriptor names a mode the
	// mode layer does not implement.
	ErrUnsupportedMode = errors.New("unsupported cipher mode")

	// ErrInvalidName is returned when a cipher name does not follow the
	// <algorithm>-<keybits>-<mode> convention.
	ErrInvalidName = errors.New("malformed cipher name")

	// ErrInvalidDescriptor is returned when registering a descriptor whose
	// fields disagree with each other or with its algorithm.
	ErrInvalidDescriptor = errors.New("invalid cipher descriptor")

	// ErrKeyLength is returned when a key does not match the key length
	// of the cipher.
	ErrKeyLength = errors.New("invalid key length")

	// ErrIVLength is returned when an IV is not exactly one block long.
	ErrIVLength = errors.New("invalid iv length")

	// ErrNotKeyed is returned when encrypting or decrypting before a key
	// has been set successfully.
	ErrNotKeyed = errors.New("cipher key not set")

	// ErrWrongDirection is returned when an ECB or CBC instance is asked
	// to run in the direction its key schedule was not derived for.
	ErrWrongDirection = errors.New("key schedule derived for the " +
		"other direction")

	// ErrFreed is returned by every call on a freed instance.
	ErrFreed = errors.New("cipher instance freed")
)
