// Package rollout decides whether a feature flag is on for a subject.
package rollout

import (
	"strconv"

	"nathanbeddoewebdev/flagadmin/internal/domain"

	"github.com/cespare/xxhash/v2"
)

// Reasons reported in a Result.
const (
	ReasonDisabled   = "disabled"
	ReasonFull       = "full-rollout"
	ReasonZero       = "zero-rollout"
	ReasonInBucket   = "in-bucket"
	ReasonOutOfRange = "out-of-bucket"
)

// Result is the outcome of evaluating a flag for one subject.
type Result struct {
	Key     string `json:"key"`
	Subject string `json:"subject"`
	On      bool   `json:"on"`
	Bucket  int    `json:"bucket"`
	Reason  string `json:"reason"`
}

// Bucket maps a flag key and subject to a stable value in [0, 100).
func Bucket(flagKey, subject string) int {
	return int(xxhash.Sum64String(flagKey+":"+subject) % 100)
}

// Evaluate returns whether f is on for subject. Subjects land in the same
// bucket for a given flag on every call, so raising the rollout percentage
// only ever adds subjects.
func Evaluate(f domain.FeatureFlag, subject string) Result {
	r := Result{Key: f.Key, Subject: subject, Bucket: Bucket(f.Key, subject)}
	switch {
	case !f.Enabled:
		r.Reason = ReasonDisabled
	case f.RolloutPercent >= 100:
		r.On, r.Reason = true, ReasonFull
	case f.RolloutPercent <= 0:
		r.Reason = ReasonZero
	case r.Bucket < f.RolloutPercent:
		r.On, r.Reason = true, ReasonInBucket
	default:
		r.Reason = ReasonOutOfRange
	}
	return r
}

// Describe renders a one-line summary of r.
func Describe(r Result) string {
	state := "off"
	if r.On {
		state = "on"
	}
	return r.Key + " is " + state + " for " + strconv.Quote(r.Subject) +
		" (bucket " + strconv.Itoa(r.Bucket) + ", " + r.Reason + ")"
}
