// Package fallbackstore implements the encrypted on-disk key store used
// when the OS keyring is unavailable or denied, grounded on the scrypt +
// AES-256-GCM envelope shape of the opd-ai-whisp security.Manager's
// secureFileStore/secureFileRetrieve, generalized to the versioned JSON
// envelope and machine-binding rules this spec requires.
package fallbackstore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/xeipuuv/gojsonschema"
	"golang.org/x/crypto/scrypt"

	"github.com/systmms/llxprt-securestore/internal/secure"
)

const (
	envelopeVersion = 1
	algAESGCM       = "aes-256-gcm"
	kdfScrypt       = "scrypt"

	scryptN      = 16384
	scryptR      = 8
	scryptP      = 1
	saltLen      = 16
	ivLen        = 12
	authTagLen   = 16
	derivedKeyLen = 32
)

// cryptoParams mirrors the envelope's "crypto" object, bit-exact per spec.
type cryptoParams struct {
	Alg     string `json:"alg"`
	KDF     string `json:"kdf"`
	N       int    `json:"N"`
	R       int    `json:"r"`
	P       int    `json:"p"`
	SaltLen int    `json:"saltLen"`
}

// envelope is the on-disk unit: version, crypto parameters, and the
// base64 concatenation of salt || iv || authTag || ciphertext.
type envelope struct {
	V      int          `json:"v"`
	Crypto cryptoParams `json:"crypto"`
	Data   string       `json:"data"`
}

var envelopeSchema = gojsonschema.NewStringLoader(`{
	"type": "object",
	"required": ["v", "crypto", "data"],
	"properties": {
		"v": {"type": "integer"},
		"crypto": {
			"type": "object",
			"required": ["alg", "kdf", "N", "r", "p", "saltLen"],
			"properties": {
				"alg": {"type": "string"},
				"kdf": {"type": "string"},
				"N": {"type": "integer"},
				"r": {"type": "integer"},
				"p": {"type": "integer"},
				"saltLen": {"type": "integer"}
			}
		},
		"data": {"type": "string"}
	}
}`)

// ErrCorrupt marks any envelope that fails shape validation, version
// checking, JSON parsing, or GCM authentication.
var ErrCorrupt = fmt.Errorf("fallbackstore: envelope corrupt")

// machineBinding hashes the machine-binding input (hostname + username)
// that is mixed into every scrypt derivation, per spec §4.2. Fallback
// files are intentionally not portable across hosts or user accounts.
func machineBinding() ([]byte, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("fallbackstore: resolve hostname: %w", err)
	}
	username := currentUsername()
	sum := sha256.Sum256([]byte(hostname + ":" + username))
	return sum[:], nil
}

// deriveKey runs scrypt on its own goroutine and waits for the result on
// a channel, so the calling goroutine still blocks until the derivation
// finishes; fallbackstore holds no lock while it waits. The derived key is handed
// back inside a SecureBuffer so it never sits in ordinary, swappable
// memory for longer than the caller's single AES-GCM open/seal call.
func deriveKey(password, salt []byte) (*secure.SecureBuffer, error) {
	type result struct {
		key []byte
		err error
	}
	ch := make(chan result, 1)
	go func() {
		key, err := scrypt.Key(password, salt, scryptN, scryptR, scryptP, derivedKeyLen)
		ch <- result{key: key, err: err}
	}()
	r := <-ch
	if r.err != nil {
		return nil, r.err
	}
	buf, err := secure.NewSecureBuffer(r.key)
	zero(r.key)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// encode encrypts plaintext into a serialized envelope.
func encode(plaintext []byte) ([]byte, error) {
	binding, err := machineBinding()
	if err != nil {
		return nil, err
	}

	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("fallbackstore: generate salt: %w", err)
	}

	keyBuf, err := deriveKey(binding, salt)
	if err != nil {
		return nil, fmt.Errorf("fallbackstore: derive key: %w", err)
	}
	locked, err := keyBuf.Open()
	if err != nil {
		return nil, fmt.Errorf("fallbackstore: open derived key: %w", err)
	}
	defer locked.Destroy()

	block, err := aes.NewCipher(locked.Bytes())
	if err != nil {
		return nil, fmt.Errorf("fallbackstore: new cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("fallbackstore: new gcm: %w", err)
	}

	iv := make([]byte, ivLen)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, fmt.Errorf("fallbackstore: generate iv: %w", err)
	}

	// Seal appends the tag to the ciphertext; split it back out so the
	// on-disk layout is exactly salt || iv || authTag || ciphertext.
	sealed := gcm.Seal(nil, iv, plaintext, nil)
	ciphertext := sealed[:len(sealed)-authTagLen]
	authTag := sealed[len(sealed)-authTagLen:]

	payload := make([]byte, 0, len(salt)+len(iv)+len(authTag)+len(ciphertext))
	payload = append(payload, salt...)
	payload = append(payload, iv...)
	payload = append(payload, authTag...)
	payload = append(payload, ciphertext...)

	env := envelope{
		V: envelopeVersion,
		Crypto: cryptoParams{
			Alg:     algAESGCM,
			KDF:     kdfScrypt,
			N:       scryptN,
			R:       scryptR,
			P:       scryptP,
			SaltLen: saltLen,
		},
		Data: base64.StdEncoding.EncodeToString(payload),
	}

	return json.Marshal(env)
}

// decode validates, parses and decrypts a serialized envelope.
func decode(raw []byte) ([]byte, error) {
	documentLoader := gojsonschema.NewBytesLoader(raw)
	result, err := gojsonschema.Validate(envelopeSchema, documentLoader)
	if err != nil || !result.Valid() {
		return nil, ErrCorrupt
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, ErrCorrupt
	}
	if env.V != envelopeVersion {
		return nil, ErrCorrupt
	}

	payload, err := base64.StdEncoding.DecodeString(env.Data)
	if err != nil {
		return nil, ErrCorrupt
	}
	minLen := env.Crypto.SaltLen + ivLen + authTagLen
	if len(payload) < minLen {
		return nil, ErrCorrupt
	}

	salt := payload[:env.Crypto.SaltLen]
	iv := payload[env.Crypto.SaltLen : env.Crypto.SaltLen+ivLen]
	authTag := payload[env.Crypto.SaltLen+ivLen : env.Crypto.SaltLen+ivLen+authTagLen]
	ciphertext := payload[env.Crypto.SaltLen+ivLen+authTagLen:]

	binding, err := machineBinding()
	if err != nil {
		return nil, err
	}
	keyBuf, err := deriveKey(binding, salt)
	if err != nil {
		return nil, fmt.Errorf("fallbackstore: derive key: %w", err)
	}
	locked, err := keyBuf.Open()
	if err != nil {
		return nil, fmt.Errorf("fallbackstore: open derived key: %w", err)
	}
	defer locked.Destroy()

	block, err := aes.NewCipher(locked.Bytes())
	if err != nil {
		return nil, ErrCorrupt
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, ErrCorrupt
	}

	sealed := append(append([]byte{}, ciphertext...), authTag...)
	plaintext, err := gcm.Open(nil, iv, sealed, nil)
	if err != nil {
		return nil, ErrCorrupt
	}

	return plaintext, nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
