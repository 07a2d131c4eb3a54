package handlers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/medatlas/directory-api/internal/application/services"
	"github.com/medatlas/directory-api/internal/domain/entities"
	"github.com/medatlas/directory-api/internal/domain/providers"
)

const (
	inquiryRateLimit   = 5
	inquiryRateWindow  = time.Hour
	inquiryDedupWindow = 24 * time.Hour
)

// InquiryHandler handles contact and registration form submissions.
type InquiryHandler struct {
	service *services.InquiryService
	cache   providers.CacheProvider
	local   *localRateLimiter
	deduper *localDeduper
}

// NewInquiryHandler creates a new inquiry handler.
func NewInquiryHandler(service *services.InquiryService, cache providers.CacheProvider) *InquiryHandler {
	return &InquiryHandler{
		service: service,
		cache:   cache,
		local:   newLocalRateLimiter(),
		deduper: newLocalDeduper(),
	}
}

type inquiryRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Country   string `json:"country"`
	Treatment string `json:"treatment"`
	Message   string `json:"message"`
	Page      string `json:"page"`
}

// SubmitContact handles POST /api/contact
func (h *InquiryHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, "contact")
}

// SubmitRegistration handles POST /api/register
func (h *InquiryHandler) SubmitRegistration(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, "registration")
}

func (h *InquiryHandler) submit(w http.ResponseWriter, r *http.Request, kind string) {
	var payload inquiryRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	payload.Name = strings.TrimSpace(payload.Name)
	payload.Email = strings.TrimSpace(payload.Email)
	payload.Phone = strings.TrimSpace(payload.Phone)
	payload.Country = strings.TrimSpace(payload.Country)
	payload.Treatment = strings.TrimSpace(payload.Treatment)
	payload.Message = strings.TrimSpace(payload.Message)
	payload.Page = strings.TrimSpace(payload.Page)

	if len(payload.Message) > 2000 {
		respondWithError(w, http.StatusBadRequest, "message is too long")
		return
	}
	if len(payload.Email) > 200 {
		respondWithError(w, http.StatusBadRequest, "email is too long")
		return
	}

	key := "inquiry:rate:" + clientIP(r)
	allowed, retryAfter := h.allowRequest(r.Context(), key)
	if !allowed {
		w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
		respondWithError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	dupKey := "inquiry:dup:" + inquiryFingerprint(kind, payload, clientIP(r))
	if h.isDuplicate(r.Context(), dupKey) {
		respondWithJSON(w, http.StatusAccepted, map[string]string{
			"status": "duplicate_ignored",
		})
		return
	}

	inquiry := &entities.Inquiry{
		Kind:      kind,
		Name:      payload.Name,
		Email:     payload.Email,
		Phone:     payload.Phone,
		Country:   payload.Country,
		Treatment: payload.Treatment,
		Message:   payload.Message,
		Page:      payload.Page,
		UserAgent: r.UserAgent(),
	}

	submission, err := h.service.Submit(r.Context(), inquiry)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, submission)
}

func (h *InquiryHandler) allowRequest(ctx context.Context, key string) (bool, time.Duration) {
	if h.cache == nil {
		return h.local.allow(key, inquiryRateLimit, inquiryRateWindow)
	}

	// The window runs from the first submission; the counter's expiry is
	// never extended, so a steady submitter still gets a fresh quota once
	// the hour is up.
	count, err := h.cache.Increment(ctx, key, int(inquiryRateWindow.Seconds()))
	if err != nil {
		return h.local.allow(key, inquiryRateLimit, inquiryRateWindow)
	}

	if count > inquiryRateLimit {
		return false, inquiryRateWindow
	}
	return true, inquiryRateWindow
}

func (h *InquiryHandler) isDuplicate(ctx context.Context, key string) bool {
	if h.cache == nil {
		return h.deduper.seen(key, inquiryDedupWindow)
	}

	exists, err := h.cache.Exists(ctx, key)
	if err == nil && exists {
		return true
	}

	_ = h.cache.Set(ctx, key, []byte("1"), int(inquiryDedupWindow.Seconds()))
	return false
}

type localRateLimiter struct {
	mu     sync.Mutex
	states map[string]*localRateState
}

type localRateState struct {
	count   int
	resetAt time.Time
}

func newLocalRateLimiter() *localRateLimiter {
	return &localRateLimiter{
		states: make(map[string]*localRateState),
	}
}

func (l *localRateLimiter) allow(key string, limit int, window time.Duration) (bool, time.Duration) {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	state, ok := l.states[key]
	if !ok || now.After(state.resetAt) {
		state = &localRateState{count: 0, resetAt: now.Add(window)}
		l.states[key] = state
	}

	if state.count >= limit {
		retryAfter := time.Until(state.resetAt)
		if retryAfter < 0 {
			retryAfter = window
		}
		return false, retryAfter
	}

	state.count++
	return true, window
}

type localDeduper struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

func newLocalDeduper() *localDeduper {
	return &localDeduper{
		entries: make(map[string]time.Time),
	}
}

func (d *localDeduper) seen(key string, window time.Duration) bool {
	now := time.Now()

	d.mu.Lock()
	defer d.mu.Unlock()

	if expiresAt, ok := d.entries[key]; ok && now.Before(expiresAt) {
		return true
	}

	d.entries[key] = now.Add(window)
	return false
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return strings.TrimSpace(realIP)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}

func inquiryFingerprint(kind string, payload inquiryRequest, ip string) string {
	normalized := []string{
		kind,
		normalizeField(payload.Name),
		strings.ToLower(strings.TrimSpace(payload.Email)),
		normalizeField(payload.Phone),
		normalizeField(payload.Treatment),
		normalizeField(payload.Message),
		ip,
	}

	hash := sha256.Sum256([]byte(strings.Join(normalized, "|")))
	return hex.EncodeToString(hash[:])
}

func normalizeField(value string) string {
	trimmed := strings.TrimSpace(strings.ToLower(value))
	if trimmed == "" {
		return ""
	}
	return strings.Join(strings.Fields(trimmed), " ")
}
