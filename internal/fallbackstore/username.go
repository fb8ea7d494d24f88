package fallbackstore

import (
	"os"
	"os/user"
)

// currentUsername resolves the machine-binding username, falling back to
// the USER/USERNAME environment variable when os/user.Current fails (as
// it can in minimal containers without cgo or /etc/passwd access).
func currentUsername() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if v := os.Getenv("USER"); v != "" {
		return v
	}
	return os.Getenv("USERNAME")
}
