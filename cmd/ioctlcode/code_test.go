package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/NeowayLabs/ioctl"
	"github.com/NeowayLabs/ioctl/linux"
)

func TestEncode(t *testing.T) {
	for _, tc := range []struct {
		arch string
		args []string
		want string
	}{
		{"x86_64", []string{"-dir", "rw", "-type", "X", "-nr", "119", "-size", "4"}, "0xc0045877\n"},
		{"ppc64le", []string{"-dir", "rw", "-type", "X", "-nr", "119", "-size", "4"}, "0xc0045877\n"},
		{"x86_64", []string{"-dir", "r", "-type", "0x52", "-nr", "0", "-size", "4"}, "0x80045200\n"},
		{"ppc64le", []string{"-dir", "w", "-type", "R", "-nr", "0", "-size", "4"}, "0x80045200\n"},
		{"ppc64le", []string{"-type", "R", "-nr", "6"}, "0x20005206\n"},
		{"armv7l", []string{"-dir", "n", "-type", "R", "-nr", "6"}, "0x00005206\n"},
	} {
		l, err := linux.LayoutFor(tc.arch)
		if err != nil {
			t.Fatal(err)
		}
		var out bytes.Buffer
		if err := encode(&out, l, tc.args, false); err != nil {
			t.Errorf("%s %v: %v", tc.arch, tc.args, err)
			continue
		}
		if out.String() != tc.want {
			t.Errorf("%s %v: got %q, want %q", tc.arch, tc.args, out.String(), tc.want)
		}
	}
}

func TestEncodeVerbose(t *testing.T) {
	var out bytes.Buffer
	err := encode(&out, &linux.Generic, []string{"-dir", "r", "-type", "r", "-nr", "1", "-size", "536"}, true)
	if err != nil {
		t.Fatal(err)
	}
	if want := "0x82187201 dir=r type=0x72 nr=0x01 size=536\n"; out.String() != want {
		t.Errorf("got %q, want %q", out.String(), want)
	}
}

func TestEncodeErrors(t *testing.T) {
	for _, args := range [][]string{
		{"-nr", "1"},
		{"-type", "X", "-nr", "256"},
		{"-type", "X", "-dir", "wr"},
		{"-type", "XY"},
		{"-type", "X", "-size", "16384"},
		{"-bogus"},
	} {
		if err := encode(&bytes.Buffer{}, &linux.Generic, args, false); err == nil {
			t.Errorf("%v: expected an error", args)
		}
	}

	err := encode(&bytes.Buffer{}, &linux.Generic, []string{"-type", "X", "-dir", "wr"}, false)
	if !errors.Is(err, ioctl.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestDecode(t *testing.T) {
	var out bytes.Buffer
	if err := decode(&out, &linux.Generic, []string{"0x82187201", "0x5206"}); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %q", out.String())
	}
	if lines[0] != "0x82187201 dir=r type=0x72 nr=0x01 size=536" {
		t.Errorf("line 0: %q", lines[0])
	}
	if lines[1] != "0x00005206 dir=none type=0x52 nr=0x06 size=0" {
		t.Errorf("line 1: %q", lines[1])
	}
}

func TestDecodeErrors(t *testing.T) {
	ppc, err := linux.LayoutFor("ppc")
	if err != nil {
		t.Fatal(err)
	}
	for _, args := range [][]string{
		nil,
		{"nope"},
		{"0x100000000"},
	} {
		if err := decode(&bytes.Buffer{}, &linux.Generic, args); err == nil {
			t.Errorf("%v: expected an error", args)
		}
	}
	// 0b011 is not a direction on powerpc
	if err := decode(&bytes.Buffer{}, ppc, []string{"0x60000000"}); !errors.Is(err, ioctl.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestSelectLayout(t *testing.T) {
	l, err := selectLayout("mips64")
	if err != nil {
		t.Fatal(err)
	}
	if l.DirBits != 3 {
		t.Errorf("mips64 has %d direction bits", l.DirBits)
	}
	if _, err := selectLayout("vax"); err == nil {
		t.Error("vax should be unknown")
	}
	if _, err := selectLayout(""); err != nil {
		t.Errorf("host layout: %v", err)
	}
}
