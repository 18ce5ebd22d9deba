package domain

import (
	"time"

	"nathanbeddoewebdev/flagadmin/internal/audit"
)

// FeatureFlag is a named switch evaluated by client applications.
type FeatureFlag struct {
	ID             int64     `json:"id"`
	Key            string    `json:"key"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	Enabled        bool      `json:"enabled"`
	RolloutPercent int       `json:"rollout_percent"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (f FeatureFlag) AuditType() string { return EntityFeatureFlag }

func (f FeatureFlag) AuditFields() []audit.Field {
	return []audit.Field{
		{Name: "ID", Value: f.ID},
		{Name: "Key", Value: f.Key},
		{Name: "Name", Value: f.Name},
		{Name: "Description", Value: f.Description},
		{Name: "Enabled", Value: f.Enabled},
		{Name: "RolloutPercent", Value: f.RolloutPercent},
		{Name: "CreatedAt", Value: f.CreatedAt},
		{Name: "UpdatedAt", Value: f.UpdatedAt},
	}
}
