package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"shortlink/database"
	"shortlink/logging"
	"shortlink/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(":memory:", logging.New(logging.Options{}))
	require.NoError(t, err)
	return db
}

func newTestService(t *testing.T) *LinkService {
	t.Helper()
	return NewLinkService(newTestDB(t), logging.New(logging.Options{}))
}

func intPtr(n int) *int { return &n }

func TestCreateDefaultValidity(t *testing.T) {
	svc := newTestService(t)

	link, err := svc.Create(context.Background(), "https://example.com", nil, "")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, link.ExpiryAt.Sub(link.CreatedAt))
	assert.Equal(t, 0, link.ClickCount)
}

func TestCreateExpiryIsExactlyValidityMinutes(t *testing.T) {
	svc := newTestService(t)

	for _, minutes := range []int{1, 45, 1440} {
		link, err := svc.Create(context.Background(), "https://example.com", intPtr(minutes), "")
		require.NoError(t, err)
		assert.Equal(t, time.Duration(minutes)*time.Minute, link.ExpiryAt.Sub(link.CreatedAt))
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name      string
		url       string
		validity  *int
		preferred string
		want      error
	}{
		{"empty url", "", nil, "", ErrInvalidURL},
		{"not a url", "not-a-url", nil, "", ErrInvalidURL},
		{"missing scheme", "example.com/page", nil, "", ErrInvalidURL},
		{"ftp scheme", "ftp://example.com", nil, "", ErrInvalidURL},
		{"zero validity", "https://example.com", intPtr(0), "", ErrInvalidValidity},
		{"negative validity", "https://example.com", intPtr(-5), "", ErrInvalidValidity},
		{"bad shortcode", "https://example.com", nil, "a!", ErrInvalidShortcode},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.url, tc.validity, tc.preferred)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	// Validation failures must leave no rows behind.
	links, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestCreatePreferredCodeEchoes(t *testing.T) {
	svc := newTestService(t)

	link, err := svc.Create(context.Background(), "https://example.com", nil, "docs2024")
	require.NoError(t, err)
	assert.Equal(t, "docs2024", link.Shortcode)
}

func TestCreateDuplicatePreferredCodeConflicts(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, "https://example.com", nil, "mine")
	require.NoError(t, err)

	_, err = svc.Create(ctx, "https://example.org", nil, "mine")
	assert.ErrorIs(t, err, ErrCodeTaken)

	// The original mapping is untouched by the losing create.
	got, err := svc.GetByCode(ctx, "mine")
	require.NoError(t, err)
	assert.Equal(t, first.OriginalURL, got.OriginalURL)
}

func TestResolveStates(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Resolve(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	link, err := svc.Create(ctx, "https://example.com", intPtr(10), "")
	require.NoError(t, err)

	got, err := svc.Resolve(ctx, link.Shortcode)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", got.OriginalURL)

	// Push the clock past the expiry; the link is rejected for redirect
	// but stays queryable for stats.
	svc.now = func() time.Time { return link.ExpiryAt.Add(time.Second) }
	_, err = svc.Resolve(ctx, link.Shortcode)
	assert.ErrorIs(t, err, ErrLinkExpired)

	_, err = svc.GetByCode(ctx, link.Shortcode)
	assert.NoError(t, err)
}

func TestRecordClickAppendsEventAndBumpsCounter(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	link, err := svc.Create(ctx, "https://example.com", nil, "")
	require.NoError(t, err)

	ts := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, svc.RecordClick(ctx, link.ID, ts, "https://ref.example", "DE"))
	require.NoError(t, svc.RecordClick(ctx, link.ID, ts.Add(time.Second), "", "Unknown"))

	got, clicks, err := svc.GetDetails(ctx, link.Shortcode)
	require.NoError(t, err)
	assert.Equal(t, 2, got.ClickCount)
	require.Len(t, clicks, 2)
	assert.Equal(t, "https://ref.example", clicks[0].Referrer)
	assert.Equal(t, "DE", clicks[0].Country)
	assert.Equal(t, "Unknown", clicks[1].Country)
}

func TestListAllInsertionOrder(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, code := range []string{"aaaa", "bbbb", "cccc"} {
		_, err := svc.Create(ctx, "https://example.com/"+code, nil, code)
		require.NoError(t, err)
	}

	links, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, links, 3)
	assert.Equal(t, "aaaa", links[0].Shortcode)
	assert.Equal(t, "cccc", links[2].Shortcode)
}

func TestCreateRandomCodeExhaustion(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.db.Create(&models.ShortLink{
		Shortcode:   "stuck1",
		OriginalURL: "https://example.com",
	}).Error)
	svc.gen.randCode = func(int) (string, error) { return "stuck1", nil }

	_, err := svc.Create(ctx, "https://example.org", nil, "")
	assert.ErrorIs(t, err, ErrGenerationExhausted)
}
