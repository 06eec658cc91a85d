package usecases

import (
	"context"
	"sync"

	"github.com/auralist-app/auralist/internal/domain/identity"
	"github.com/auralist-app/auralist/internal/infrastructure/ratelimit"
	"github.com/auralist-app/auralist/internal/shared/logger"
)

type noopLogger struct{}

func newNoopLogger() logger.Interface                              { return &noopLogger{} }
func (l *noopLogger) Debug(msg string, args ...any)                {}
func (l *noopLogger) Info(msg string, args ...any)                 {}
func (l *noopLogger) Warn(msg string, args ...any)                 {}
func (l *noopLogger) Error(msg string, args ...any)                {}
func (l *noopLogger) Fatal(msg string, args ...any)                {}
func (l *noopLogger) With(args ...any) logger.Interface            { return l }
func (l *noopLogger) Named(name string) logger.Interface           { return l }
func (l *noopLogger) Debugw(msg string, kv ...interface{})         {}
func (l *noopLogger) Infow(msg string, kv ...interface{})          {}
func (l *noopLogger) Warnw(msg string, kv ...interface{})          {}
func (l *noopLogger) Errorw(msg string, kv ...interface{})         {}
func (l *noopLogger) Fatalw(msg string, kv ...interface{})         {}

type mockIdentityRepo struct {
	mu          sync.Mutex
	byFP        map[string]*identity.AnonymousIdentity
	byDevice    map[string]*identity.AnonymousIdentity
	nextID      uint
	createCalls int
	lookups     int
	createErrs  []error // popped per call; nil entry means success
	lookupErr   error
	onCreate    func() // runs after a successful insert commits
}

func newMockIdentityRepo() *mockIdentityRepo {
	return &mockIdentityRepo{
		byFP:     make(map[string]*identity.AnonymousIdentity),
		byDevice: make(map[string]*identity.AnonymousIdentity),
	}
}

func (m *mockIdentityRepo) Create(ctx context.Context, entity *identity.AnonymousIdentity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	if len(m.createErrs) > 0 {
		err := m.createErrs[0]
		m.createErrs = m.createErrs[1:]
		if err != nil {
			return err
		}
	}
	if _, ok := m.byFP[entity.RecoveryCodeFingerprint()]; ok {
		return identity.ErrFingerprintTaken
	}
	m.nextID++
	entity.SetID(m.nextID)
	m.byFP[entity.RecoveryCodeFingerprint()] = entity
	if m.onCreate != nil {
		m.onCreate()
	}
	return nil
}

func (m *mockIdentityRepo) GetByFingerprint(ctx context.Context, fingerprint string) (*identity.AnonymousIdentity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	return m.byFP[fingerprint], nil
}

func (m *mockIdentityRepo) GetByDeviceID(ctx context.Context, deviceID string) (*identity.AnonymousIdentity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	return m.byDevice[deviceID], nil
}

type mockDeviceLinkRepo struct {
	mu         sync.Mutex
	links      map[string]*identity.DeviceLink
	nextID     uint
	createErr  error
	upsertErr  error
	touchErr   error
	touched    []string
	touchedCh  chan string
	upsertCnt  int
}

func newMockDeviceLinkRepo() *mockDeviceLinkRepo {
	return &mockDeviceLinkRepo{
		links:     make(map[string]*identity.DeviceLink),
		touchedCh: make(chan string, 8),
	}
}

func (m *mockDeviceLinkRepo) Create(ctx context.Context, link *identity.DeviceLink) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	link.SetID(m.nextID)
	m.links[link.DeviceID()] = link
	return nil
}

func (m *mockDeviceLinkRepo) Upsert(ctx context.Context, link *identity.DeviceLink) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upsertCnt++
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.links[link.DeviceID()] = link
	return nil
}

func (m *mockDeviceLinkRepo) GetByDeviceID(ctx context.Context, deviceID string) (*identity.DeviceLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.links[deviceID], nil
}

func (m *mockDeviceLinkRepo) TouchLastActive(ctx context.Context, deviceID string) error {
	m.mu.Lock()
	m.touched = append(m.touched, deviceID)
	err := m.touchErr
	m.mu.Unlock()
	m.touchedCh <- deviceID
	return err
}

// fakeHasher avoids real argon2 work in use case tests
type fakeHasher struct {
	hashErr   error
	verifyErr error
	onVerify  func() // runs before Verify returns
}

func (h *fakeHasher) Hash(normalizedCode string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return "hashed:" + normalizedCode, nil
}

func (h *fakeHasher) Verify(normalizedCode, storedHash string) (bool, error) {
	if h.onVerify != nil {
		h.onVerify()
	}
	if h.verifyErr != nil {
		return false, h.verifyErr
	}
	return storedHash == "hashed:"+normalizedCode, nil
}

type mockLimiter struct {
	mu        sync.Mutex
	decision  ratelimit.Decision
	checkErr  error
	checks    int
	failures  []string
	recordErr error
}

func newMockLimiter() *mockLimiter {
	return &mockLimiter{decision: ratelimit.Decision{Allowed: true}}
}

func (m *mockLimiter) Check(ctx context.Context, sourceIP string) (ratelimit.Decision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checks++
	if m.checkErr != nil {
		return ratelimit.Decision{}, m.checkErr
	}
	return m.decision, nil
}

func (m *mockLimiter) RecordFailure(ctx context.Context, sourceIP string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = append(m.failures, sourceIP)
	return m.recordErr
}

func (m *mockLimiter) failureCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.failures)
}
