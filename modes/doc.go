// Package modes implements the ECB, CBC, CTR, CFB and OFB modes of operation
// over any block cipher that satisfies Encrypter and Decrypter.
//
// The chaining modes keep their progress in a State that belongs to the
// caller, one block of IV, counter or feedback register together with a
// cursor into the current keystream block. The stream modes CTR, CFB and
// OFB accept input of any length and continue exactly where the previous
// call stopped, so the same data split into different chunks always gives
// the same result. ECB and CBC require whole blocks.
//
// Every function validates its arguments before writing anything, and all of
// them allow dst and src to be the same slice.
package modes
