package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fintrack/fintrack/internal/token"
)

type memStorage struct {
	raw    string
	clears int
}

func (s *memStorage) Load() (string, error) { return s.raw, nil }
func (s *memStorage) Save(raw string) error { s.raw = raw; return nil }
func (s *memStorage) Clear() error          { s.raw = ""; s.clears++; return nil }

func mintRaw(t *testing.T, ttl time.Duration) string {
	t.Helper()
	codec, err := token.New("secret")
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	raw, err := codec.Mint(token.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user_1"},
		Email:            "alice@example.com",
		Name:             "Alice",
	}, ttl)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	return raw
}

func TestManager_Restore_NoToken(t *testing.T) {
	m := NewManager(&memStorage{})

	if got := m.Restore(); got != Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", got)
	}
	if m.Authenticated() {
		t.Fatalf("empty storage should not authenticate")
	}
}

func TestManager_Restore_ValidToken(t *testing.T) {
	storage := &memStorage{raw: mintRaw(t, time.Hour)}
	m := NewManager(storage)

	if got := m.Restore(); got != Authenticated {
		t.Fatalf("expected Authenticated, got %v", got)
	}
	claims := m.Claims()
	if claims == nil || claims.Subject != "user_1" || claims.Email != "alice@example.com" {
		t.Fatalf("identity not rehydrated: %+v", claims)
	}
	if m.Token() == "" {
		t.Fatalf("raw token not retained")
	}
}

func TestManager_Restore_MalformedToken(t *testing.T) {
	storage := &memStorage{raw: "not-a-token"}
	m := NewManager(storage)

	if got := m.Restore(); got != Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", got)
	}
	if storage.raw != "" {
		t.Fatalf("malformed token left in storage")
	}
}

func TestManager_Restore_ExpiredToken(t *testing.T) {
	storage := &memStorage{raw: mintRaw(t, -time.Second)}
	logouts := 0
	m := NewManager(storage, WithLogoutHook(func() { logouts++ }))

	if got := m.Restore(); got != Expired {
		t.Fatalf("expected Expired, got %v", got)
	}
	if storage.raw != "" {
		t.Fatalf("expired token left in storage")
	}
	if m.Claims() != nil {
		t.Fatalf("identity not cleared on expiry")
	}
	if logouts != 1 {
		t.Fatalf("expected logout hook once, got %d", logouts)
	}
	if m.Authenticated() {
		t.Fatalf("expired session reported authenticated")
	}
}

func TestManager_SetSession(t *testing.T) {
	storage := &memStorage{}
	m := NewManager(storage)
	raw := mintRaw(t, time.Hour)

	if err := m.SetSession(raw); err != nil {
		t.Fatalf("set session: %v", err)
	}
	if m.State() != Authenticated {
		t.Fatalf("expected Authenticated, got %v", m.State())
	}
	if storage.raw != raw {
		t.Fatalf("token not persisted")
	}

	// Idempotent for the same token.
	if err := m.SetSession(raw); err != nil {
		t.Fatalf("second set session: %v", err)
	}
	if m.State() != Authenticated {
		t.Fatalf("state changed on repeat set")
	}
}

func TestManager_SetSession_Malformed(t *testing.T) {
	storage := &memStorage{}
	m := NewManager(storage)

	if err := m.SetSession("garbage"); err == nil {
		t.Fatalf("expected error for malformed token")
	}
	if m.State() != Unauthenticated || storage.raw != "" {
		t.Fatalf("malformed token must not be persisted")
	}
}

func TestManager_ClearSession_Idempotent(t *testing.T) {
	storage := &memStorage{}
	m := NewManager(storage)
	_ = m.SetSession(mintRaw(t, time.Hour))

	m.ClearSession()
	m.ClearSession()

	if m.State() != Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", m.State())
	}
	if m.Token() != "" || m.Claims() != nil {
		t.Fatalf("session state not cleared")
	}
}

func TestManager_ExpiryDetectedBeforeNavigation(t *testing.T) {
	// The token is valid at SetSession time and ages out afterwards; the
	// next Authenticated check must catch it without a background timer.
	current := time.Now()
	logouts := 0
	m := NewManager(&memStorage{},
		WithClock(func() time.Time { return current }),
		WithLogoutHook(func() { logouts++ }),
	)

	if err := m.SetSession(mintRaw(t, time.Minute)); err != nil {
		t.Fatalf("set session: %v", err)
	}
	if !m.Authenticated() {
		t.Fatalf("fresh session should authenticate")
	}

	current = current.Add(2 * time.Minute)
	if m.Authenticated() {
		t.Fatalf("aged-out session reported authenticated")
	}
	if m.State() != Expired {
		t.Fatalf("expected Expired, got %v", m.State())
	}
	if logouts != 1 {
		t.Fatalf("expected logout hook once, got %d", logouts)
	}
}

func TestFileStorage_RoundTrip(t *testing.T) {
	path := t.TempDir() + "/nested/token"
	s := NewFileStorage(path)

	if raw, err := s.Load(); err != nil || raw != "" {
		t.Fatalf("expected empty load, got %q %v", raw, err)
	}
	if err := s.Save("raw-token"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if raw, _ := s.Load(); raw != "raw-token" {
		t.Fatalf("load mismatch: %q", raw)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("second clear: %v", err)
	}
	if raw, _ := s.Load(); raw != "" {
		t.Fatalf("token survived clear: %q", raw)
	}
}
