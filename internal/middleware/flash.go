package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/cavy-ledger/internal/dto"
)

// FlashCookie carries the confirmation notice across a post/redirect/get.
const FlashCookie = "cavy_flash"

const flashTTL = 2 * time.Minute

type flashClaims struct {
	Level   string `json:"lvl"`
	Message string `json:"msg"`
	jwt.RegisteredClaims
}

// Flash signs one-shot notices into a short-lived HS256 cookie.
type Flash struct {
	secret []byte
	secure bool
	now    func() time.Time
}

// NewFlash builds a flash store. secure marks the cookie Secure.
func NewFlash(secret string, secure bool) *Flash {
	return &Flash{secret: []byte(secret), secure: secure, now: time.Now}
}

// Set stores notice for the next request.
func (f *Flash) Set(c *gin.Context, notice dto.Notice) error {
	now := f.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, flashClaims{
		Level:   notice.Level,
		Message: notice.Message,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(flashTTL)),
		},
	})
	signed, err := token.SignedString(f.secret)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(FlashCookie, signed, int(flashTTL.Seconds()), "/", "", f.secure, true)
	return nil
}

// Pop returns and clears the pending notice. Missing, expired or tampered
// cookies yield nil.
func (f *Flash) Pop(c *gin.Context) *dto.Notice {
	raw, err := c.Cookie(FlashCookie)
	if err != nil || raw == "" {
		return nil
	}
	c.SetCookie(FlashCookie, "", -1, "/", "", f.secure, true)

	claims := &flashClaims{}
	_, err = jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return f.secret, nil
	}, jwt.WithTimeFunc(f.now))
	if err != nil {
		return nil
	}
	return &dto.Notice{Level: claims.Level, Message: claims.Message}
}
