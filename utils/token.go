package utils

import (
	"errors"
	"sync"
	"time"
)

var (
	blacklistedTokens = make(map[string]time.Time)
	blacklistMutex    sync.RWMutex
)

// BlacklistToken rejects token until expiry. Used by logout.
func BlacklistToken(token string, expiry time.Time) {
	blacklistMutex.Lock()
	defer blacklistMutex.Unlock()
	if expiry.IsZero() {
		expiry = time.Now().Add(TokenTTL)
	}
	blacklistedTokens[token] = expiry
}

func IsTokenBlacklisted(token string) bool {
	blacklistMutex.RLock()
	expiry, exists := blacklistedTokens[token]
	blacklistMutex.RUnlock()
	if !exists {
		return false
	}
	if time.Now().Before(expiry) {
		return true
	}

	blacklistMutex.Lock()
	delete(blacklistedTokens, token)
	blacklistMutex.Unlock()
	return false
}

// CleanupBlacklist drops expired entries.
func CleanupBlacklist() int {
	blacklistMutex.Lock()
	defer blacklistMutex.Unlock()
	now := time.Now()
	removed := 0
	for token, expiry := range blacklistedTokens {
		if now.After(expiry) {
			delete(blacklistedTokens, token)
			removed++
		}
	}
	return removed
}

func ValidateToken(tokenString string) (*CustomClaims, error) {
	if IsTokenBlacklisted(tokenString) {
		return nil, errors.New("token has been revoked")
	}
	return ParseToken(tokenString)
}
