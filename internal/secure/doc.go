// Package secure provides memory-safe handling of the derived encryption
// keys that fallbackstore's envelope codec works with.
//
// This package wraps the memguard library so the scrypt-derived
// AES-256-GCM key backing the encrypted fallback store never sits in
// ordinary, swappable Go memory for longer than the single cipher
// construction that needs it. It ensures that key material is:
//
//   - Encrypted at rest in memory (XSalsa20Poly1305)
//   - Protected from swapping via mlock
//   - Securely wiped when no longer needed
//   - Protected from buffer overflow via guard pages
//
// # Usage
//
// fallbackstore.deriveKey seals the scrypt output as soon as it returns:
//
//	keyBuf, err := secure.NewSecureBuffer(derivedKey)
//	if err != nil {
//	    // Handle error - may indicate mlock unavailable
//	}
//	defer keyBuf.Destroy() // Always destroy when done
//
//	// When encode/decode needs the raw key for one cipher.NewCipher call:
//	locked, err := keyBuf.Open()
//	if err != nil {
//	    // Handle error
//	}
//	defer locked.Destroy() // Destroy the unlocked buffer when done
//
//	// Use locked.Bytes() to access the plaintext key
//	block, err := aes.NewCipher(locked.Bytes())
//
// # Platform Behavior
//
// Memory locking behavior varies by platform:
//
//   - Linux: Requires RLIMIT_MEMLOCK to be set appropriately
//   - macOS: Works out of the box
//   - Windows: Uses VirtualLock
//
// This package does not check for or report mlock failures itself; how
// they are handled is up to memguard.
//
// # Security Guarantees
//
// This package provides defense-in-depth against memory-based attacks:
//
//   - Core dumps will not contain plaintext secrets
//   - Secrets won't be swapped to disk
//   - Memory is overwritten with zeros on destruction
//   - Guard pages detect buffer overflows
//
// It does NOT protect against:
//
//   - Attackers with root access to the running process
//   - Hardware-level attacks (cold boot, DMA)
//   - Spectre/Meltdown side-channel attacks
package secure
