package storage

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// MemoryStorage is an in-process ObjectStorage used in tests and local
// development. It enforces signed-URL expiry for real so TTL behavior can be
// exercised without a bucket.
type MemoryStorage struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
	baseURL string
	secret  []byte
	now     func() time.Time
}

type memoryObject struct {
	data        []byte
	contentType string
}

func NewMemoryStorage(baseURL string) *MemoryStorage {
	if baseURL == "" {
		baseURL = "memory://bucket"
	}
	secret := make([]byte, 32)
	_, _ = rand.Read(secret)

	return &MemoryStorage{
		objects: make(map[string]memoryObject),
		baseURL: strings.TrimSuffix(baseURL, "/"),
		secret:  secret,
		now:     time.Now,
	}
}

func (m *MemoryStorage) Put(_ context.Context, key string, data []byte, contentType string) (string, error) {
	stored := make([]byte, len(data))
	copy(stored, data)

	m.mu.Lock()
	m.objects[key] = memoryObject{data: stored, contentType: contentType}
	m.mu.Unlock()

	return fmt.Sprintf("%s/%s", m.baseURL, key), nil
}

func (m *MemoryStorage) Delete(_ context.Context, keyOrLocation string) error {
	m.mu.Lock()
	delete(m.objects, m.Key(keyOrLocation))
	m.mu.Unlock()
	return nil
}

func (m *MemoryStorage) SignedURL(_ context.Context, key string, ttl time.Duration) (string, error) {
	m.mu.RLock()
	_, exists := m.objects[key]
	m.mu.RUnlock()
	if !exists {
		return "", fmt.Errorf("object not found: %s", key)
	}

	expires := m.now().Add(ttl).Unix()
	sig := m.sign(key, expires)
	return fmt.Sprintf("%s/%s?expires=%d&signature=%s", m.baseURL, key, expires, sig), nil
}

func (m *MemoryStorage) Key(location string) string {
	if strings.HasPrefix(location, m.baseURL+"/") {
		key := strings.TrimPrefix(location, m.baseURL+"/")
		if idx := strings.IndexByte(key, '?'); idx != -1 {
			key = key[:idx]
		}
		return key
	}
	return location
}

// Read validates a signed URL and returns the object bytes. An expired or
// tampered URL is rejected regardless of whether the object exists.
func (m *MemoryStorage) Read(signedURL string) ([]byte, string, error) {
	u, err := url.Parse(signedURL)
	if err != nil {
		return nil, "", fmt.Errorf("invalid signed URL: %w", err)
	}

	key := m.Key(m.baseURL + u.Path + "?" + u.RawQuery)
	key = strings.TrimPrefix(key, "/")

	expiresStr := u.Query().Get("expires")
	expires, err := strconv.ParseInt(expiresStr, 10, 64)
	if err != nil {
		return nil, "", fmt.Errorf("invalid expiry in signed URL")
	}

	if !hmac.Equal([]byte(u.Query().Get("signature")), []byte(m.sign(key, expires))) {
		return nil, "", fmt.Errorf("signature mismatch")
	}
	if m.now().Unix() > expires {
		return nil, "", fmt.Errorf("signed URL expired")
	}

	m.mu.RLock()
	obj, exists := m.objects[key]
	m.mu.RUnlock()
	if !exists {
		return nil, "", fmt.Errorf("object not found: %s", key)
	}
	return obj.data, obj.contentType, nil
}

// Exists reports whether an object is stored under key.
func (m *MemoryStorage) Exists(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[key]
	return ok
}

// Len returns the number of stored objects.
func (m *MemoryStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}

// SetClock overrides the time source; tests use it to cross TTL boundaries.
func (m *MemoryStorage) SetClock(now func() time.Time) {
	m.now = now
}

func (m *MemoryStorage) sign(key string, expires int64) string {
	mac := hmac.New(sha256.New, m.secret)
	fmt.Fprintf(mac, "%s:%d", key, expires)
	return hex.EncodeToString(mac.Sum(nil))
}
