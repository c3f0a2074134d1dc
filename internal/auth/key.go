package auth

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"sync"
	"time"

	"github.com/Goofygiraffe06/authform/internal/logging"
)

// SigningKey signs the browser identity cookie. It lives for the process
// only, so a restart hands every browser a fresh identity.
type SigningKey struct {
	PrivateKey ed25519.PrivateKey
	PublicKey  ed25519.PublicKey
}

var ErrKeyNotInitialized = errors.New("ed25519 key not initialized")

var (
	signingKey *SigningKey
	keyMu      sync.RWMutex
	once       sync.Once
)

func InitSigningKey() {
	once.Do(func() {
		start := time.Now()
		key, err := GenerateSigningKey()
		if err != nil {
			logging.ErrorLog("Ed25519 key generation failed: %v", err)
			panic("failed to generate Ed25519 key: " + err.Error())
		}
		SetSigningKey(key)
		logging.InfoLog("Ed25519 key generation success %v", time.Since(start))
	})
}

func GenerateSigningKey() (*SigningKey, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &SigningKey{PrivateKey: priv, PublicKey: pub}, nil
}

// SetSigningKey replaces the process key. Tokens signed with the old key
// stop verifying.
func SetSigningKey(k *SigningKey) {
	keyMu.Lock()
	signingKey = k
	keyMu.Unlock()
}

func GetSigningKey() *SigningKey {
	keyMu.RLock()
	defer keyMu.RUnlock()
	if signingKey == nil {
		logging.WarnLog("Signing key accessed before initialization")
	}
	return signingKey
}
