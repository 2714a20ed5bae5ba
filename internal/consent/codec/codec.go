// Package codec reads and writes the consent cookie: a JSON array of
// {"slug": ..., "status": ...} objects.
package codec

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"consentry/internal/consent/models"
)

// Codec is bound to one cookie name and its attributes.
type Codec struct {
	name     string
	path     string
	domain   string
	secure   bool
	sameSite http.SameSite
}

type Option func(*Codec)

func WithPath(path string) Option {
	return func(c *Codec) {
		if path != "" {
			c.path = path
		}
	}
}

func WithDomain(domain string) Option {
	return func(c *Codec) { c.domain = domain }
}

func WithSecure(secure bool) Option {
	return func(c *Codec) { c.secure = secure }
}

// WithSameSite accepts "lax", "strict" or "none"; anything else keeps Lax.
func WithSameSite(mode string) Option {
	return func(c *Codec) {
		switch strings.ToLower(mode) {
		case "strict":
			c.sameSite = http.SameSiteStrictMode
		case "none":
			c.sameSite = http.SameSiteNoneMode
		default:
			c.sameSite = http.SameSiteLaxMode
		}
	}
}

func New(cookieName string, opts ...Option) *Codec {
	c := &Codec{
		name:     cookieName,
		path:     "/",
		secure:   true,
		sameSite: http.SameSiteLaxMode,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the consent cookie name.
func (c *Codec) Name() string {
	return c.name
}

// Decode turns a raw cookie value into a mapping. Absent or malformed input
// yields an empty mapping, never an error.
func (c *Codec) Decode(raw string) models.Mapping {
	return c.DecodeRecord(raw).Mapping()
}

// DecodeRecord is Decode preserving cookie order. Entries without a slug are dropped.
func (c *Codec) DecodeRecord(raw string) models.Record {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return models.Record{}
	}
	if unescaped, err := url.QueryUnescape(raw); err == nil {
		raw = unescaped
	}

	var entries []struct {
		Slug   string `json:"slug"`
		Status bool   `json:"status"`
	}
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return models.Record{}
	}
	out := make(models.Record, 0, len(entries))
	for _, e := range entries {
		if e.Slug == "" {
			continue
		}
		out = append(out, models.Entry{Slug: e.Slug, Status: e.Status})
	}
	return out
}

// Encode serializes the complete decision set.
func (c *Codec) Encode(record models.Record) (string, error) {
	if record == nil {
		record = models.Record{}
	}
	b, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("encode consent record: %w", err)
	}
	return string(b), nil
}

// FromRequest decodes the consent cookie of r. ok is false when the cookie is
// absent or holds no decision.
func (c *Codec) FromRequest(r *http.Request) (models.Mapping, models.Record, bool) {
	cookie, err := r.Cookie(c.name)
	if err != nil {
		return models.Mapping{}, models.Record{}, false
	}
	record := c.DecodeRecord(cookie.Value)
	return record.Mapping(), record, len(record) > 0
}

// Cookie builds the consent cookie without an explicit expiry. The value is
// URL-escaped since raw JSON is not a valid cookie value.
func (c *Codec) Cookie(record models.Record) (*http.Cookie, error) {
	value, err := c.Encode(record)
	if err != nil {
		return nil, err
	}
	return &http.Cookie{
		Name:     c.name,
		Value:    url.QueryEscape(value),
		Path:     c.path,
		Domain:   c.domain,
		Secure:   c.secure,
		SameSite: c.sameSite,
	}, nil
}

// Write sets the consent cookie on w.
func (c *Codec) Write(w http.ResponseWriter, record models.Record) error {
	cookie, err := c.Cookie(record)
	if err != nil {
		return err
	}
	http.SetCookie(w, cookie)
	return nil
}

// Expire builds a cookie that deletes name in the browser.
func (c *Codec) Expire(name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     c.path,
		Domain:   c.domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   c.secure,
		SameSite: c.sameSite,
	}
}
