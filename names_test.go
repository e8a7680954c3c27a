package qadataswap

import (
	"strings"
	"testing"
)

func TestValidateChannelName(t *testing.T) {
	valid := []string{"a", "trades", "trade-feed_1", "a.b.c"}
	for _, name := range valid {
		if err := validateChannelName(name); err != nil {
			t.Errorf("validateChannelName(%q) = %v, want nil", name, err)
		}
	}

	invalid := map[string]error{
		"":                      ErrInvalidName,
		"has space":             ErrInvalidName,
		"has/slash":             ErrInvalidName,
		strings.Repeat("x", 56): ErrNameTooLong,
	}
	for name, want := range invalid {
		if err := validateChannelName(name); err == nil {
			t.Errorf("validateChannelName(%q) = nil, want error", name)
		} else if want == ErrNameTooLong && err != ErrNameTooLong {
			t.Errorf("validateChannelName(%q) = %v, want ErrNameTooLong", name, err)
		}
	}
}

func TestDerivedNames(t *testing.T) {
	if got := arenaPath("trades"); got != "/qads_trades" {
		t.Errorf("arenaPath = %q", got)
	}
	if got := writeSemName("trades"); got != "/qads_w_trades" {
		t.Errorf("writeSemName = %q", got)
	}
	if got := readSemName("trades"); got != "/qads_r_trades" {
		t.Errorf("readSemName = %q", got)
	}
}

func TestGenerateChannelName(t *testing.T) {
	a := GenerateChannelName("test")
	b := GenerateChannelName("test")
	if a == b {
		t.Fatalf("GenerateChannelName returned identical names: %q", a)
	}
	if len(a) > maxChannelNameLen {
		t.Fatalf("GenerateChannelName produced name longer than %d: %q", maxChannelNameLen, a)
	}
	if err := validateChannelName(a); err != nil {
		t.Fatalf("GenerateChannelName produced invalid name %q: %v", a, err)
	}
}
