// Package symmetric is the bulk-data layer of the hybrid schemes. A pairing
// group element is hashed with SHA3-256 into an AES-256 key and the payload
// is sealed with AES-CCM using a 13-byte nonce and a 16-byte tag.
//
// A failed decryption returns the envelope to the caller inside a
// *DecryptError, so a decryptor holding several candidate keys can try each
// of them in turn.
package symmetric
