package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"nathanbeddoewebdev/flagadmin/internal/services/admin"
	"nathanbeddoewebdev/flagadmin/internal/util"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
)

// ErrAborted is returned when the user cancels a form.
var ErrAborted = errors.New("aborted by user")

// accessible reports whether huh should render its screen-reader friendly
// mode instead of the interactive one.
func accessible() bool {
	return os.Getenv("ACCESSIBLE") != ""
}

// runForm creates and runs a huh.Form, translating ErrUserAborted to ErrAborted.
func runForm(accessible bool, groups ...*huh.Group) error {
	err := huh.NewForm(groups...).WithAccessible(accessible).Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return err
	}
	return nil
}

// Confirm asks a yes/no question below a short summary of what is affected.
func Confirm(title, summary string) (bool, error) {
	confirm := false
	err := runForm(accessible(), huh.NewGroup(
		huh.NewNote().Title("Details").Description(summary),
		huh.NewConfirm().
			Title(title).
			Affirmative("Yes, delete").
			Negative("Cancel").
			Value(&confirm),
	))
	if err != nil {
		return false, err
	}
	return confirm, nil
}

// RunWithSpinner runs fn while showing a spinner on out.
func RunWithSpinner(ctx context.Context, title string, out io.Writer, fn func() error) error {
	var actionErr error
	err := spinner.New().
		Context(ctx).
		Title(title).
		Accessible(accessible()).
		Output(out).
		Action(func() { actionErr = fn() }).
		Run()
	if err != nil {
		return err
	}
	return actionErr
}

// CreateFlagForm runs an interactive wizard collecting the fields of a
// new feature flag.
func CreateFlagForm() (*admin.NewFlag, error) {
	var (
		key         string
		name        string
		description string
		enabled     bool
		rollout     = "100"
	)

	err := runForm(accessible(),
		huh.NewGroup(
			huh.NewInput().
				Title("Flag key").
				Description("Lowercase identifier used by client applications").
				Placeholder("new-checkout").
				Value(&key).
				Validate(func(s string) error {
					return util.ValidateFlagKey(util.NormalizeKey(s))
				}),
			huh.NewInput().
				Title("Display name").
				Description("Leave empty to reuse the key").
				Value(&name),
			huh.NewText().
				Title("Description").
				Lines(3).
				Value(&description),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Rollout percentage").
				Description("Share of subjects the flag is on for once enabled").
				Value(&rollout).
				Validate(validateRollout),
			huh.NewConfirm().
				Title("Enable the flag now?").
				Affirmative("Enable").
				Negative("Keep disabled").
				Value(&enabled),
		),
	)
	if err != nil {
		return nil, err
	}

	pct, _ := strconv.Atoi(strings.TrimSpace(rollout))
	return &admin.NewFlag{
		Key:            util.NormalizeKey(key),
		Name:           strings.TrimSpace(name),
		Description:    strings.TrimSpace(description),
		Enabled:        enabled,
		RolloutPercent: pct,
	}, nil
}

// validateRollout checks a rollout percentage typed into a form.
func validateRollout(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("enter a whole number between 0 and 100")
	}
	return util.ValidateRollout(n)
}
