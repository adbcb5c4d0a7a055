package noophost

import (
	"context"
	"testing"
	"time"
)

func TestBrowserMethodsAreNoopSuccess(t *testing.T) {
	b := NewBrowser(nil)
	if err := b.Navigate("surface:1", "https://example.com"); err != nil {
		t.Fatalf("Navigate() error = %v", err)
	}
	if err := b.Back("surface:1"); err != nil {
		t.Fatalf("Back() error = %v", err)
	}
	if err := b.Forward("surface:1"); err != nil {
		t.Fatalf("Forward() error = %v", err)
	}
	if err := b.Reload("surface:1"); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if _, err := b.Eval(context.Background(), "surface:1", "1+1"); err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	if _, err := b.Screenshot("surface:1"); err != nil {
		t.Fatalf("Screenshot() error = %v", err)
	}
	if err := b.Close("surface:1"); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}

func TestNotificationSchedulerNoopSuccess(t *testing.T) {
	s := NewNotificationScheduler(nil)
	if err := s.Schedule("title", "sub", "body", time.Now()); err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}
}

func TestAppActivityAlwaysActive(t *testing.T) {
	if !(AppActivity{}).IsActive() {
		t.Fatal("AppActivity.IsActive() = false, want true")
	}
}
