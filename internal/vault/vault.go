// Package vault stores per-user platform tokens encrypted at rest.
package vault

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"

	"post-muse/internal/domain"
	"post-muse/internal/repository"
)

// ErrNotFound indicates no token is stored for the (user, platform) pair.
var ErrNotFound = errors.New("platform token not found")

// Vault encrypts tokens with XChaCha20-Poly1305 under a process-wide key
// established at startup. Decryption is stateless per call and happens only
// when a token is handed to a platform adapter. Key rotation is not
// supported: re-keying the process orphans all previously stored tokens.
type Vault struct {
	tokens repository.TokenRepository
	aead   cipher.AEAD
}

// New derives the 32-byte AEAD key from the configured secret. The secret
// must be non-empty; generating an ephemeral key would silently orphan
// every stored token on restart.
func New(tokens repository.TokenRepository, secret string) (*Vault, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("vault encryption key is required")
	}

	key := sha256.Sum256([]byte(secret))
	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return nil, fmt.Errorf("create vault cipher: %w", err)
	}

	return &Vault{
		tokens: tokens,
		aead:   aead,
	}, nil
}

// Store encrypts plaintext and persists it for (userID, platform),
// overwriting any previous token.
func (v *Vault) Store(ctx context.Context, userID, platform, plaintext string) error {
	blob, err := v.encrypt(userID, platform, plaintext)
	if err != nil {
		return err
	}

	token := &domain.PlatformToken{
		UserID:          userID,
		Platform:        platform,
		EncryptedSecret: blob,
	}
	if err := v.tokens.Upsert(ctx, token); err != nil {
		return fmt.Errorf("persist platform token: %w", err)
	}
	return nil
}

// Retrieve loads and decrypts the token for (userID, platform). A missing
// row yields ErrNotFound; a corrupted or foreign blob yields a decryption
// error, never wrong plaintext.
func (v *Vault) Retrieve(ctx context.Context, userID, platform string) (string, error) {
	token, err := v.tokens.Get(ctx, userID, platform)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "not found") {
			return "", ErrNotFound
		}
		return "", err
	}
	return v.decrypt(userID, platform, token.EncryptedSecret)
}

func (v *Vault) encrypt(userID, platform, plaintext string) (string, error) {
	nonce := make([]byte, chacha20poly1305.NonceSizeX, chacha20poly1305.NonceSizeX+len(plaintext)+v.aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	// The (user, platform) pair is authenticated data, so a blob copied
	// between rows fails to decrypt.
	sealed := v.aead.Seal(nonce, nonce, []byte(plaintext), aad(userID, platform))
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (v *Vault) decrypt(userID, platform, encoded string) (string, error) {
	blob, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decode token blob: %w", err)
	}
	if len(blob) < chacha20poly1305.NonceSizeX+v.aead.Overhead() {
		return "", fmt.Errorf("token blob truncated: %d bytes", len(blob))
	}

	nonce := blob[:chacha20poly1305.NonceSizeX]
	ciphertext := blob[chacha20poly1305.NonceSizeX:]

	plaintext, err := v.aead.Open(nil, nonce, ciphertext, aad(userID, platform))
	if err != nil {
		return "", fmt.Errorf("token decrypt failed: %w", err)
	}
	return string(plaintext), nil
}

func aad(userID, platform string) []byte {
	return []byte(userID + "|" + platform)
}
