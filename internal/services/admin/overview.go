package admin

import (
	"context"
	"time"

	"nathanbeddoewebdev/flagadmin/internal/auditlog"

	"golang.org/x/sync/errgroup"
)

// Overview is a snapshot of the database contents.
type Overview struct {
	Users        int `json:"users"`
	Roles        int `json:"roles"`
	Flags        int `json:"flags"`
	EnabledFlags int `json:"enabled_flags"`
	Changes24h   int `json:"changes_24h"`
}

// Overview loads the dashboard counts concurrently.
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	q := s.queries()
	o := &Overview{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		o.Users, err = q.CountUsers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		o.Roles, err = q.CountRoles(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		o.Flags, o.EnabledFlags, err = q.CountFlags(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		o.Changes24h, err = auditlog.NewRepository(s.db).Count(gctx, s.now().Add(-24*time.Hour))
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return o, nil
}
