//go:build !linux

package keyring

// platformHasBackend is unconditionally true on darwin and windows: both
// ship a native credential vault (Keychain Services, Credential Manager)
// that go-keyring talks to directly, mirroring the teacher's
// darwinKeychainClient.IsAvailable.
func platformHasBackend() bool {
	return true
}
