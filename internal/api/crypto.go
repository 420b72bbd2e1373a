package api

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize     = 16
	keySize      = 32 // AES-256
	pbkdf2Rounds = 100_000
)

// EncryptRequest is the body for /v1/crypto/encrypt
type EncryptRequest struct {
	Passphrase string `json:"passphrase" binding:"required"`
	Plaintext  string `json:"plaintext" binding:"required"`
}

// DecryptRequest is the body for /v1/crypto/decrypt
type DecryptRequest struct {
	Passphrase string `json:"passphrase" binding:"required"`
	Ciphertext string `json:"ciphertext" binding:"required"`
}

func deriveKey(passphrase string, salt []byte) []byte {
	return pbkdf2.Key([]byte(passphrase), salt, pbkdf2Rounds, keySize, sha256.New)
}

// Encrypt seals the plaintext with AES-256-GCM under a key derived from
// the caller's passphrase. Output is base64(salt || nonce || ciphertext).
func (h *Handlers) Encrypt(c *gin.Context) {
	var req EncryptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		h.logger.Error("Failed to generate salt", zap.Error(err))
		c.JSON(500, gin.H{"error": "Encryption failed"})
		return
	}

	block, err := aes.NewCipher(deriveKey(req.Passphrase, salt))
	if err != nil {
		h.logger.Error("Failed to initialize cipher", zap.Error(err))
		c.JSON(500, gin.H{"error": "Encryption failed"})
		return
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		h.logger.Error("Failed to initialize GCM", zap.Error(err))
		c.JSON(500, gin.H{"error": "Encryption failed"})
		return
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		h.logger.Error("Failed to generate nonce", zap.Error(err))
		c.JSON(500, gin.H{"error": "Encryption failed"})
		return
	}

	sealed := gcm.Seal(nil, nonce, []byte(req.Plaintext), nil)
	blob := append(append(salt, nonce...), sealed...)

	c.JSON(200, gin.H{
		"ciphertext": base64.StdEncoding.EncodeToString(blob),
	})
}

// Decrypt reverses Encrypt for a caller holding the same passphrase.
func (h *Handlers) Decrypt(c *gin.Context) {
	var req DecryptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	blob, err := base64.StdEncoding.DecodeString(req.Ciphertext)
	if err != nil {
		c.JSON(400, gin.H{"error": "Ciphertext is not valid base64"})
		return
	}

	// Standard GCM nonce size; Encrypt always uses it.
	const nonceSize = 12
	if len(blob) < saltSize+nonceSize {
		c.JSON(400, gin.H{"error": "Ciphertext too short"})
		return
	}
	salt := blob[:saltSize]
	nonce := blob[saltSize : saltSize+nonceSize]
	sealed := blob[saltSize+nonceSize:]

	block, err := aes.NewCipher(deriveKey(req.Passphrase, salt))
	if err != nil {
		h.logger.Error("Failed to initialize cipher", zap.Error(err))
		c.JSON(500, gin.H{"error": "Decryption failed"})
		return
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		h.logger.Error("Failed to initialize GCM", zap.Error(err))
		c.JSON(500, gin.H{"error": "Decryption failed"})
		return
	}

	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		c.JSON(400, gin.H{"error": "Decryption failed: wrong passphrase or corrupted ciphertext"})
		return
	}

	c.JSON(200, gin.H{"plaintext": string(plaintext)})
}
