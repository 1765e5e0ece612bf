package services

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"regexp"

	"gorm.io/gorm"

	"shortlink/models"
)

const (
	codeAlphabet     = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	baseCodeLength   = 6
	generateAttempts = 6
)

var shortcodePattern = regexp.MustCompile(`^[A-Za-z0-9]{4,20}$`)

// ShortcodeGenerator allocates unique shortcodes. It only reads storage for
// collision checks; no reservation is held, so the final word on uniqueness
// belongs to the insert's unique constraint.
type ShortcodeGenerator struct {
	db       *gorm.DB
	randCode func(n int) (string, error)
}

func NewShortcodeGenerator(db *gorm.DB) *ShortcodeGenerator {
	return &ShortcodeGenerator{db: db, randCode: randomCode}
}

// Allocate returns preferred after validating it, or a fresh random code.
// Random generation grows the code length by one every four collisions
// and gives up after six attempts.
func (g *ShortcodeGenerator) Allocate(ctx context.Context, preferred string) (string, error) {
	if preferred != "" {
		if !shortcodePattern.MatchString(preferred) {
			return "", ErrInvalidShortcode
		}
		taken, err := g.exists(ctx, preferred)
		if err != nil {
			return "", err
		}
		if taken {
			return "", ErrCodeTaken
		}
		return preferred, nil
	}

	for attempt := 0; attempt < generateAttempts; attempt++ {
		code, err := g.randCode(baseCodeLength + attempt/4)
		if err != nil {
			return "", err
		}
		taken, err := g.exists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrGenerationExhausted
}

func (g *ShortcodeGenerator) exists(ctx context.Context, code string) (bool, error) {
	var link models.ShortLink
	err := g.db.WithContext(ctx).Where("shortcode = ?", code).First(&link).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

func randomCode(n int) (string, error) {
	code := make([]byte, n)
	alphabetLength := big.NewInt(int64(len(codeAlphabet)))
	for i := range code {
		idx, err := rand.Int(rand.Reader, alphabetLength)
		if err != nil {
			return "", err
		}
		code[i] = codeAlphabet[idx.Int64()]
	}
	return string(code), nil
}
