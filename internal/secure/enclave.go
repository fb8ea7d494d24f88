package secure

import (
	"sync"

	"github.com/awnumar/memguard"
)

// SecureBuffer holds a derived encryption key (or other short-lived
// credential material) out of ordinary, swappable Go memory between the
// moment it's produced and the moment it's consumed. fallbackstore's
// scrypt-derived AES-256-GCM key is the primary tenant: deriveKey hands
// one back, the caller opens it for the single cipher.NewCipher call
// that needs the raw bytes, then destroys it immediately.
//
// Note: memguard.Enclave doesn't have a direct Destroy method.
// Instead, we track the enclave and use memguard.Purge() for cleanup
// at application exit, or simply let the enclave be garbage collected
// (the encrypted data is safe even without explicit destruction).
type SecureBuffer struct {
	enclave *memguard.Enclave
	mu      sync.RWMutex
	// destroyed tracks if this buffer has been destroyed to allow
	// idempotent Destroy() calls and prevent use after destroy
	destroyed bool
}

// NewSecureBuffer seals keyMaterial into a protected enclave. The input
// is immediately copied into protected memory; the caller is still
// responsible for zeroing its own copy (fallbackstore.deriveKey does
// this right after the call returns).
//
// The function itself does not check for or report mlock failures (e.g.
// due to RLIMIT_MEMLOCK); that is left to memguard. It always returns a
// nil error.
func NewSecureBuffer(keyMaterial []byte) (*SecureBuffer, error) {
	// memguard.NewEnclave creates an encrypted enclave from the data.
	// The enclave:
	// - Encrypts the data using XSalsa20Poly1305
	// - Attempts to mlock the memory to prevent swapping
	// - Sets up guard pages for overflow detection
	enclave := memguard.NewEnclave(keyMaterial)

	return &SecureBuffer{
		enclave:   enclave,
		destroyed: false,
	}, nil
}

// Open decrypts the enclave for one cipher construction and returns the
// plaintext key in a locked buffer. The caller MUST call Destroy() on the
// returned LockedBuffer as soon as the cipher is built, so the derived
// key spends the smallest possible window as cleartext.
//
// Example:
//
//	locked, err := keyBuf.Open()
//	if err != nil {
//	    return err
//	}
//	defer locked.Destroy()
//	block, err := aes.NewCipher(locked.Bytes())
func (s *SecureBuffer) Open() (*memguard.LockedBuffer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.destroyed {
		// Return an empty locked buffer if already destroyed
		return memguard.NewBufferFromBytes([]byte{}), nil
	}

	// Open decrypts the enclave and returns a locked buffer.
	// The locked buffer has:
	// - Memory locked to prevent swapping
	// - Guard pages on both sides
	// - Read-write access by default
	return s.enclave.Open()
}

// Destroy marks this SecureBuffer as destroyed and prevents further use.
// The underlying encrypted enclave data is safe even without explicit
// destruction since it's encrypted at rest. Envelope encode/decode do not
// call this: they defer Destroy() on the LockedBuffer returned by Open()
// and leave the SecureBuffer to the garbage collector.
//
// This method is idempotent - calling it multiple times is safe.
// After Destroy(), Open() will return an empty buffer.
//
// For complete cleanup of all memguard data at application exit,
// call memguard.Purge() in a defer statement in main().
func (s *SecureBuffer) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		return
	}

	// Mark as destroyed to prevent further use.
	// The enclave's encrypted data will be garbage collected.
	// For sensitive cleanup, callers should use memguard.Purge()
	// at application exit.
	s.enclave = nil
	s.destroyed = true
}
