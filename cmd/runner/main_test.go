package main

import (
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/platform-runner/internal/core"
	"github.com/vovakirdan/platform-runner/internal/levels"
)

func TestParseHold(t *testing.T) {
	tests := []struct {
		in      string
		want    core.Intent
		wantErr bool
	}{
		{"", core.Intent{}, false},
		{"right", core.Intent{Right: true}, false},
		{"right,up", core.Intent{Right: true, Up: true}, false},
		{" Left , jump ", core.Intent{Left: true, Up: true}, false},
		{"squat,", core.Intent{Down: true}, false},
		{"sideways", core.Intent{}, true},
	}

	for _, tt := range tests {
		got, err := parseHold(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseHold(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseHold(%q) = %s, expected %s", tt.in, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00.0"},
		{1500 * time.Millisecond, "0:01.5"},
		{83*time.Second + 240*time.Millisecond, "1:23.2"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, expected %q", tt.d, got, tt.want)
		}
	}
}

func TestPort(t *testing.T) {
	tests := map[string]string{
		":23234":         "23234",
		"localhost:2222": "2222",
		"2222":           "2222",
	}
	for addr, want := range tests {
		if got := port(addr); got != want {
			t.Errorf("port(%q) = %q, expected %q", addr, got, want)
		}
	}
}

func TestFindLevel(t *testing.T) {
	loader := levels.NewLoader("")

	level, next, err := findLevel(loader, "w1-l1")
	if err != nil {
		t.Fatalf("findLevel(w1-l1): %v", err)
	}
	if level.ID != "w1-l1" {
		t.Errorf("level = %s, expected w1-l1", level.ID)
	}
	if next == nil || next.ID != "w1-l2" {
		t.Errorf("next = %v, expected w1-l2", next)
	}

	if _, next, err := findLevel(loader, "w1-l4"); err != nil || next != nil {
		t.Errorf("findLevel(w1-l4) = next %v, err %v; expected no next level", next, err)
	}

	if _, _, err := findLevel(loader, "nope"); !errors.Is(err, levels.ErrNotFound) {
		t.Errorf("findLevel(nope) error = %v, expected ErrNotFound", err)
	}
}
