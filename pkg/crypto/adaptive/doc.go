// Package adaptive provides authenticated encryption with automatic
// algorithm selection.
//
// Supported Algorithms:
//
//   - AES-256-GCM: Preferred when hardware AES support is available
//   - ChaCha20-Poly1305: Fallback for other architectures
//
// Keys are 32 random bytes stored hex-encoded in a 0600 key file.
// DeriveKey binds a master key to a purpose string with HKDF-SHA256.
//
// Usage:
//
//	key, err := adaptive.EnsureKeyFile(path)
//	c, err := adaptive.New(key)
//	sealed, err := c.Encrypt(plaintext, aad)
//	plaintext, err := c.Decrypt(sealed, aad)
package adaptive
