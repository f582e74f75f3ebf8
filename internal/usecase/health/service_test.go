package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

type mockDBPinger struct {
	err error
}

func (m *mockDBPinger) Ping(_ context.Context) error { return m.err }

type mockEmbeddingChecker struct {
	err error
}

func (m *mockEmbeddingChecker) HealthCheck(_ context.Context) error { return m.err }

type slowChecker struct{}

func (slowChecker) HealthCheck(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestCheck(t *testing.T) {
	down := errors.New("down")
	tests := []struct {
		name      string
		db        DBPinger
		embedding EmbeddingChecker
		status    Status
		checks    map[string]CheckResult
	}{
		{
			name:      "all healthy",
			db:        &mockDBPinger{},
			embedding: &mockEmbeddingChecker{},
			status:    Healthy,
			checks:    map[string]CheckResult{"database": CheckOK, "embedding": CheckOK},
		},
		{
			name:      "cache down",
			db:        &mockDBPinger{err: down},
			embedding: &mockEmbeddingChecker{},
			status:    Degraded,
			checks:    map[string]CheckResult{"database": CheckError, "embedding": CheckOK},
		},
		{
			name:      "provider down",
			db:        &mockDBPinger{},
			embedding: &mockEmbeddingChecker{err: down},
			status:    Degraded,
			checks:    map[string]CheckResult{"database": CheckOK, "embedding": CheckError},
		},
		{
			name:      "both down",
			db:        &mockDBPinger{err: down},
			embedding: &mockEmbeddingChecker{err: down},
			status:    Unhealthy,
			checks:    map[string]CheckResult{"database": CheckError, "embedding": CheckError},
		},
		{
			name:      "no cache",
			embedding: &mockEmbeddingChecker{},
			status:    Healthy,
			checks:    map[string]CheckResult{"embedding": CheckOK},
		},
		{
			name:   "no provider, cache down",
			db:     &mockDBPinger{err: down},
			status: Unhealthy,
			checks: map[string]CheckResult{"database": CheckError},
		},
		{
			name:   "nothing configured",
			status: Healthy,
			checks: map[string]CheckResult{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := New(tc.db, tc.embedding, nil).Check(context.Background())

			if r.Status != tc.status {
				t.Errorf("status = %q, want %q", r.Status, tc.status)
			}
			if len(r.Checks) != len(tc.checks) {
				t.Fatalf("checks = %v, want %v", r.Checks, tc.checks)
			}
			for name, want := range tc.checks {
				if r.Checks[name] != want {
					t.Errorf("%s = %q, want %q", name, r.Checks[name], want)
				}
			}
		})
	}
}

func TestCheck_ProbeTimeout(t *testing.T) {
	svc := New(&mockDBPinger{}, slowChecker{}, nil)
	svc.timeout = 20 * time.Millisecond

	start := time.Now()
	r := svc.Check(context.Background())

	if time.Since(start) > time.Second {
		t.Fatal("probe must be bounded by the timeout")
	}
	if r.Checks["embedding"] != CheckError || r.Status != Degraded {
		t.Errorf("unexpected report: %+v", r)
	}
}
