package services

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"gorm.io/gorm"

	"shortlink/logging"
	"shortlink/models"
)

// DefaultValidityMinutes applies when a create request omits validity.
const DefaultValidityMinutes = 30

// LinkService owns all reads and writes of short links and their clicks.
type LinkService struct {
	db     *gorm.DB
	gen    *ShortcodeGenerator
	logger *slog.Logger
	now    func() time.Time
}

func NewLinkService(db *gorm.DB, logger *slog.Logger) *LinkService {
	return &LinkService{
		db:     db,
		gen:    NewShortcodeGenerator(db),
		logger: logger.With(logging.PackageKey, "service"),
		now:    time.Now,
	}
}

// Create validates the request, allocates a shortcode, and persists the link.
// validity is minutes; nil means the 30-minute default. A race on a randomly
// generated code is absorbed by regenerating and retrying the insert once;
// a raced custom code surfaces as ErrCodeTaken.
func (s *LinkService) Create(ctx context.Context, rawURL string, validity *int, preferred string) (*models.ShortLink, error) {
	destination, err := validateURL(rawURL)
	if err != nil {
		return nil, err
	}

	minutes := DefaultValidityMinutes
	if validity != nil {
		if *validity <= 0 {
			return nil, ErrInvalidValidity
		}
		minutes = *validity
	}

	code, err := s.gen.Allocate(ctx, preferred)
	if err != nil {
		return nil, err
	}

	createdAt := s.now()
	link := &models.ShortLink{
		Shortcode:   code,
		OriginalURL: destination,
		CreatedAt:   createdAt,
		ExpiryAt:    createdAt.Add(time.Duration(minutes) * time.Minute),
	}

	err = s.db.WithContext(ctx).Create(link).Error
	if isDuplicate(err) {
		if preferred != "" {
			return nil, ErrCodeTaken
		}
		// Lost the race between collision pre-check and insert.
		s.logger.Warn("random shortcode raced at insert, regenerating", "shortcode", link.Shortcode)
		code, aerr := s.gen.Allocate(ctx, "")
		if aerr != nil {
			return nil, aerr
		}
		link.ID = 0
		link.Shortcode = code
		err = s.db.WithContext(ctx).Create(link).Error
		if isDuplicate(err) {
			return nil, ErrGenerationExhausted
		}
	}
	if err != nil {
		return nil, err
	}
	s.logger.Info("created short url", "id", link.ID, "shortcode", link.Shortcode)
	return link, nil
}

// GetByCode returns the link whether or not it is expired.
func (s *LinkService) GetByCode(ctx context.Context, code string) (*models.ShortLink, error) {
	var link models.ShortLink
	err := s.db.WithContext(ctx).Where("shortcode = ?", code).First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &link, nil
}

// Resolve classifies a visit: ErrNotFound, ErrLinkExpired, or the live link.
func (s *LinkService) Resolve(ctx context.Context, code string) (*models.ShortLink, error) {
	link, err := s.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if link.Expired(s.now()) {
		return nil, ErrLinkExpired
	}
	return link, nil
}

// GetDetails returns the link plus its click history in insertion order.
func (s *LinkService) GetDetails(ctx context.Context, code string) (*models.ShortLink, []models.ClickEvent, error) {
	link, err := s.GetByCode(ctx, code)
	if err != nil {
		return nil, nil, err
	}
	var clicks []models.ClickEvent
	err = s.db.WithContext(ctx).Where("url_id = ?", link.ID).Order("id").Find(&clicks).Error
	if err != nil {
		return nil, nil, err
	}
	return link, clicks, nil
}

// ListAll returns every stored link in insertion order, expired included.
func (s *LinkService) ListAll(ctx context.Context) ([]models.ShortLink, error) {
	var links []models.ShortLink
	err := s.db.WithContext(ctx).Order("id").Find(&links).Error
	if err != nil {
		return nil, err
	}
	return links, nil
}

// RecordClick appends a visit record and bumps the counter in one
// transaction so the count never drifts from the event log.
func (s *LinkService) RecordClick(ctx context.Context, linkID uint, ts time.Time, referrer, country string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		event := models.ClickEvent{
			LinkID:    linkID,
			Timestamp: ts,
			Referrer:  referrer,
			Country:   country,
		}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}
		return tx.Model(&models.ShortLink{}).Where("id = ?", linkID).
			UpdateColumn("clicks_count", gorm.Expr("clicks_count + ?", 1)).Error
	})
}

func validateURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidURL
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", ErrInvalidURL
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return "", ErrInvalidURL
	}
	return raw, nil
}

func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// Driver error translation varies; fall back to message sniffing.
	return strings.Contains(strings.ToLower(err.Error()), "unique")
}
