package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates an optional dependency is failing.
	Degraded Status = "degraded"
	// Unhealthy indicates the index cannot serve requests.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status    Status
	Checks    map[string]CheckResult
	Documents int
}

// Service coordinates health checks.
type Service struct {
	index     IndexState
	db        DBPinger
	embedding EmbeddingChecker
}

// New creates a Service. db and embedding can be nil.
func New(index IndexState, db DBPinger, embedding EmbeddingChecker) *Service {
	return &Service{index: index, db: db, embedding: embedding}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	status := Healthy

	docs := 0
	if s.index.Ready() {
		checks["index"] = CheckOK
		docs = len(s.index.Documents())
	} else {
		checks["index"] = CheckError
		status = Unhealthy
	}

	if s.db != nil {
		checks["database"] = probe(ctx, s.db.Ping)
	}
	if s.embedding != nil {
		checks["embedding"] = probe(ctx, s.embedding.HealthCheck)
	}

	if status == Healthy {
		for _, v := range checks {
			if v == CheckError {
				status = Degraded
				break
			}
		}
	}

	return Report{Status: status, Checks: checks, Documents: docs}
}

func probe(ctx context.Context, fn func(context.Context) error) CheckResult {
	if err := fn(ctx); err != nil {
		return CheckError
	}
	return CheckOK
}
