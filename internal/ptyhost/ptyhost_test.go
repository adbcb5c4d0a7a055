package ptyhost

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestSpawnWriteReadClose(t *testing.T) {
	h := New(nil)
	handle, err := h.Spawn(context.Background(), uuid.New(), "")
	if err != nil {
		t.Fatalf("Spawn() error = %v", err)
	}
	defer h.Close(handle)

	if err := h.Write(handle, []byte("echo hello\n")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		out, err := h.Tail(handle)
		if err != nil {
			t.Fatalf("Tail() error = %v", err)
		}
		if len(out) > 0 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("timed out waiting for shell output")
}

func TestResizeRejectsNonPositive(t *testing.T) {
	h := New(nil)
	handle, err := h.Spawn(context.Background(), uuid.New(), "")
	if err != nil {
		t.Fatalf("Spawn() error = %v", err)
	}
	defer h.Close(handle)

	if err := h.Resize(handle, 0, 24); err == nil {
		t.Fatal("Resize() with zero cols should error")
	}
}

func TestCloseUnknownHandleIsNoop(t *testing.T) {
	h := New(nil)
	if err := h.Close("does-not-exist"); err != nil {
		t.Fatalf("Close() on unknown handle error = %v", err)
	}
}

func TestWriteUnknownHandleErrors(t *testing.T) {
	h := New(nil)
	if err := h.Write("does-not-exist", []byte("x")); err == nil {
		t.Fatal("Write() on unknown handle should error")
	}
}
