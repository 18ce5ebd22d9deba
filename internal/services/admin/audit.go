package admin

import (
	"context"
	"time"

	"nathanbeddoewebdev/flagadmin/internal/auditlog"
	"nathanbeddoewebdev/flagadmin/internal/domain"

	"golang.org/x/sync/errgroup"
)

// Activity summarizes audit volume over a period.
type Activity struct {
	Since  time.Time            `json:"since"`
	ByDay  []auditlog.DayCount  `json:"by_day"`
	ByType []auditlog.TypeCount `json:"by_type"`
}

// ListAudit returns audit entries matching f, newest first.
func (s *Service) ListAudit(ctx context.Context, f auditlog.Filter) ([]auditlog.AuditEntry, error) {
	if err := s.Authorize(ctx, domain.PermAuditRead); err != nil {
		return nil, err
	}
	return auditlog.NewRepository(s.db).List(ctx, f)
}

// GetAudit returns a single audit entry.
func (s *Service) GetAudit(ctx context.Context, id int64) (*auditlog.AuditEntry, error) {
	if err := s.Authorize(ctx, domain.PermAuditRead); err != nil {
		return nil, err
	}
	return auditlog.NewRepository(s.db).Get(ctx, id)
}

// PruneAudit deletes audit entries older than olderThan and returns the
// number removed.
func (s *Service) PruneAudit(ctx context.Context, olderThan time.Duration) (int64, error) {
	if err := s.Authorize(ctx, domain.PermAuditPrune); err != nil {
		return 0, err
	}
	return auditlog.NewRepository(s.db).Prune(ctx, olderThan)
}

// AuditActivity returns per-day and per-type audit counts since the given
// time.
func (s *Service) AuditActivity(ctx context.Context, since time.Time) (*Activity, error) {
	if err := s.Authorize(ctx, domain.PermAuditRead); err != nil {
		return nil, err
	}

	repo := auditlog.NewRepository(s.db)
	a := &Activity{Since: since}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		a.ByDay, err = repo.CountByDay(gctx, since)
		return err
	})
	g.Go(func() error {
		var err error
		a.ByType, err = repo.CountByEntityType(gctx, since)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return a, nil
}
