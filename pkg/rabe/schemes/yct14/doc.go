// Package yct14 implements the key-policy ABE scheme of Yao, Chen and Tian
// (2014) on top of the span program and hybrid encryption layers.
//
// The authority runs Setup once over the attribute universe. Secret keys
// carry a policy; ciphertexts carry a set of attributes:
//
//	s := yct14.New(rabe.Config{})
//	pk, msk, _ := s.Setup(ctx, []string{"A", "B", "C"})
//	defer msk.Free()
//	sk, _ := s.KeyGen(ctx, &yct14.KeyGenParams{PublicKey: pk, MasterKey: msk, Policy: p})
//	ct, _ := s.Encrypt(ctx, &yct14.EncryptParams{PublicKey: pk, Attributes: []string{"A", "B"}, Plaintext: msg})
//	msg, err := s.Decrypt(ctx, sk, ct)
//
// The ciphertext components live in GT, so the scheme needs no pairing at
// decryption time.
package yct14
