package admin

import (
	"context"
	"fmt"
	"strings"

	"nathanbeddoewebdev/flagadmin/internal/audit"
	"nathanbeddoewebdev/flagadmin/internal/domain"
	"nathanbeddoewebdev/flagadmin/internal/rollout"
	"nathanbeddoewebdev/flagadmin/internal/util"
)

// NewFlag holds the fields needed to create a feature flag.
type NewFlag struct {
	Key            string
	Name           string
	Description    string
	Enabled        bool
	RolloutPercent int
}

// FlagUpdate lists the flag fields to change. Nil fields are left as is.
type FlagUpdate struct {
	Name           *string
	Description    *string
	Enabled        *bool
	RolloutPercent *int
}

// CreateFlag creates a feature flag. An empty name defaults to the key.
func (s *Service) CreateFlag(ctx context.Context, in NewFlag) (*domain.FeatureFlag, error) {
	in.Key = util.NormalizeKey(in.Key)
	if err := util.ValidateFlagKey(in.Key); err != nil {
		return nil, err
	}
	if err := util.ValidateRollout(in.RolloutPercent); err != nil {
		return nil, err
	}

	now := s.timestamp()
	f := &domain.FeatureFlag{
		Key:            in.Key,
		Name:           strings.TrimSpace(in.Name),
		Description:    strings.TrimSpace(in.Description),
		Enabled:        in.Enabled,
		RolloutPercent: in.RolloutPercent,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if f.Name == "" {
		f.Name = f.Key
	}

	err := s.mutate(ctx, domain.PermFlagsManage, func(t *txScope) error {
		if err := t.q.InsertFlag(t.ctx, f); err != nil {
			return err
		}
		return t.record(audit.Insert, nil, *f)
	})
	if err != nil {
		return nil, fmt.Errorf("create flag %s: %w", in.Key, err)
	}
	return f, nil
}

// UpdateFlag applies upd to the flag with the given key. An update that
// changes nothing writes nothing.
func (s *Service) UpdateFlag(ctx context.Context, key string, upd FlagUpdate) (*domain.FeatureFlag, error) {
	if upd.RolloutPercent != nil {
		if err := util.ValidateRollout(*upd.RolloutPercent); err != nil {
			return nil, err
		}
	}

	var updated domain.FeatureFlag
	err := s.mutate(ctx, domain.PermFlagsManage, func(t *txScope) error {
		before, err := t.q.GetFlagByKey(t.ctx, util.NormalizeKey(key))
		if err != nil {
			return err
		}
		after := *before
		if upd.Name != nil {
			after.Name = strings.TrimSpace(*upd.Name)
		}
		if upd.Description != nil {
			after.Description = strings.TrimSpace(*upd.Description)
		}
		if upd.Enabled != nil {
			after.Enabled = *upd.Enabled
		}
		if upd.RolloutPercent != nil {
			after.RolloutPercent = *upd.RolloutPercent
		}
		updated, err = s.saveFlag(t, *before, after)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("update flag %s: %w", key, err)
	}
	return &updated, nil
}

// ToggleFlag flips the enabled state of a flag.
func (s *Service) ToggleFlag(ctx context.Context, key string) (*domain.FeatureFlag, error) {
	var updated domain.FeatureFlag
	err := s.mutate(ctx, domain.PermFlagsManage, func(t *txScope) error {
		before, err := t.q.GetFlagByKey(t.ctx, util.NormalizeKey(key))
		if err != nil {
			return err
		}
		after := *before
		after.Enabled = !before.Enabled
		updated, err = s.saveFlag(t, *before, after)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("toggle flag %s: %w", key, err)
	}
	return &updated, nil
}

func (s *Service) saveFlag(t *txScope, before, after domain.FeatureFlag) (domain.FeatureFlag, error) {
	if after == before {
		return after, nil
	}
	after.UpdatedAt = s.timestamp()
	if err := t.q.UpdateFlag(t.ctx, &after); err != nil {
		return domain.FeatureFlag{}, err
	}
	if err := t.record(audit.Update, before, after); err != nil {
		return domain.FeatureFlag{}, err
	}
	return after, nil
}

// DeleteFlag removes the flag with the given key.
func (s *Service) DeleteFlag(ctx context.Context, key string) error {
	key = util.NormalizeKey(key)
	err := s.mutate(ctx, domain.PermFlagsManage, func(t *txScope) error {
		f, err := t.q.GetFlagByKey(t.ctx, key)
		if err != nil {
			return err
		}
		if err := t.q.DeleteFlag(t.ctx, f.ID); err != nil {
			return err
		}
		return t.record(audit.Delete, *f, nil)
	})
	if err != nil {
		return fmt.Errorf("delete flag %s: %w", key, err)
	}
	return nil
}

// GetFlag returns the flag with the given key.
func (s *Service) GetFlag(ctx context.Context, key string) (*domain.FeatureFlag, error) {
	return s.queries().GetFlagByKey(ctx, util.NormalizeKey(key))
}

// ListFlags returns flags ordered by key.
func (s *Service) ListFlags(ctx context.Context, enabledOnly bool) ([]domain.FeatureFlag, error) {
	return s.queries().ListFlags(ctx, enabledOnly)
}

// EvaluateFlag reports whether the flag is on for subject.
func (s *Service) EvaluateFlag(ctx context.Context, key, subject string) (rollout.Result, error) {
	f, err := s.queries().GetFlagByKey(ctx, util.NormalizeKey(key))
	if err != nil {
		return rollout.Result{}, err
	}
	return rollout.Evaluate(*f, subject), nil
}
