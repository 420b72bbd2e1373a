package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// IssueTokenRequest is the body for /v1/token/issue
type IssueTokenRequest struct {
	Subject string                 `json:"subject" binding:"required"`
	Claims  map[string]interface{} `json:"claims"`
}

// VerifyTokenRequest is the body for /v1/token/verify
type VerifyTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// IssueToken signs an HS256 JWT for the requested subject.
func (h *Handlers) IssueToken(c *gin.Context) {
	if h.cfg.Token.Secret == "" {
		c.JSON(503, gin.H{"error": "Token signing is not configured"})
		return
	}

	var req IssueTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	expires := now.Add(time.Duration(h.cfg.Token.ExpiryHours) * time.Hour)

	claims := jwt.MapClaims{
		"iss": h.cfg.Token.Issuer,
		"sub": req.Subject,
		"iat": now.Unix(),
		"exp": expires.Unix(),
	}
	for k, v := range req.Claims {
		// Registered claims stay authoritative.
		if _, reserved := claims[k]; reserved {
			continue
		}
		claims[k] = v
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.cfg.Token.Secret))
	if err != nil {
		h.logger.Error("Failed to sign token", zap.Error(err))
		c.JSON(500, gin.H{"error": "Failed to sign token"})
		return
	}

	c.JSON(200, gin.H{
		"token":      signed,
		"expires_at": expires.UTC().Format(time.RFC3339),
	})
}

// VerifyToken parses and verifies an HS256 JWT issued by IssueToken.
func (h *Handlers) VerifyToken(c *gin.Context) {
	if h.cfg.Token.Secret == "" {
		c.JSON(503, gin.H{"error": "Token signing is not configured"})
		return
	}

	var req VerifyTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	token, err := jwt.Parse(req.Token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(h.cfg.Token.Secret), nil
	})
	if err != nil || !token.Valid {
		c.JSON(401, gin.H{
			"valid": false,
			"error": "Token is invalid or expired",
		})
		return
	}

	claims, _ := token.Claims.(jwt.MapClaims)
	c.JSON(200, gin.H{
		"valid":  true,
		"claims": claims,
	})
}
