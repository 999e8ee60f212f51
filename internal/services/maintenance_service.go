package services

import (
	"fmt"
	"time"

	"github.com/academic-tracker/backend/internal/metrics"
	gokitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// MaintenanceService prunes data that is no longer needed
type MaintenanceService struct {
	auth           *AuthService
	audit          *AuditService
	auditRetention time.Duration
	logger         gokitlog.Logger
}

func NewMaintenanceService(auth *AuthService, audit *AuditService, auditRetention time.Duration, logger gokitlog.Logger) *MaintenanceService {
	return &MaintenanceService{
		auth:           auth,
		audit:          audit,
		auditRetention: auditRetention,
		logger:         logger,
	}
}

// Run removes expired or revoked refresh tokens and audit entries past the
// retention window. A zero retention keeps audit entries forever.
func (s *MaintenanceService) Run(now time.Time) error {
	tokens, err := s.auth.PruneExpiredTokens(now)
	if err != nil {
		metrics.MaintenanceRuns.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to prune refresh tokens: %w", err)
	}

	var audits int64
	if s.auditRetention > 0 {
		audits, err = s.audit.PruneBefore(now.Add(-s.auditRetention))
		if err != nil {
			metrics.MaintenanceRuns.WithLabelValues("error").Inc()
			return fmt.Errorf("failed to prune audit logs: %w", err)
		}
	}

	metrics.MaintenanceRuns.WithLabelValues("ok").Inc()
	level.Info(s.logger).Log("msg", "maintenance completed", "refresh_tokens_pruned", tokens, "audit_logs_pruned", audits)
	return nil
}
