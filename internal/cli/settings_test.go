package cli

import (
	"errors"
	"testing"

	apperrors "github.com/lichiahui/lifelog/internal/errors"
)

func TestSettingsSetFlags(t *testing.T) {
	store := newTestStore(t)
	ctx := &Context{Store: store}

	cmd := &SettingsSetCmd{WorkHours: 6, BreakMinutes: 45, Model: "mistral-small", Notifications: "false"}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("failed to read settings back: %v", err)
	}
	if settings.WorkHours != 6 {
		t.Errorf("expected work hours 6, got %d", settings.WorkHours)
	}
	if settings.BreakMinutes != 45 {
		t.Errorf("expected break minutes 45, got %d", settings.BreakMinutes)
	}
	if settings.Model != "mistral-small" {
		t.Errorf("expected model mistral-small, got %s", settings.Model)
	}
	if settings.NotificationsEnabled {
		t.Error("expected notifications disabled")
	}
}

func TestSettingsSetPartialUpdate(t *testing.T) {
	store := newTestStore(t)
	ctx := &Context{Store: store}

	if err := (&SettingsSetCmd{WorkHours: 10, BreakMinutes: -1}).Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("failed to read settings back: %v", err)
	}
	if settings.WorkHours != 10 {
		t.Errorf("expected work hours 10, got %d", settings.WorkHours)
	}
	if settings.BreakMinutes != 30 {
		t.Errorf("break minutes should keep the default 30, got %d", settings.BreakMinutes)
	}
}

func TestSettingsSetRejectsBadWorkHours(t *testing.T) {
	store := newTestStore(t)
	ctx := &Context{Store: store}

	err := (&SettingsSetCmd{WorkHours: 25, BreakMinutes: -1}).Run(ctx)
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}
