package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/NeowayLabs/ioctl/linux"
)

// parseType accepts a single character such as X or a number such as
// 0x58.
func parseType(s string) (rune, error) {
	if utf8.RuneCountInString(s) == 1 {
		r, _ := utf8.DecodeRuneInString(s)
		return r, nil
	}
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("bad type %q: %w", s, err)
	}
	return rune(v), nil
}

func encode(w io.Writer, l *linux.Layout, args []string, verbose bool) error {
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var (
		dir  = fs.String("dir", "", "Direction: n, r, w or rw")
		typ  = fs.String("type", "", "Type character or number")
		nr   = fs.Uint("nr", 0, "Function number")
		size = fs.Uint("size", 0, "Argument size in bytes")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *typ == "" {
		return errors.New("encode: -type is required")
	}
	if *nr > 0xff {
		return fmt.Errorf("encode: nr %d does not fit in 8 bits", *nr)
	}
	if uint64(*size) > uint64(l.MaxSize()) {
		return fmt.Errorf("encode: size %d exceeds %d on %s", *size, l.MaxSize(), l.Name)
	}

	d, err := linux.ParseDirection(*dir)
	if err != nil {
		return err
	}
	t, err := parseType(*typ)
	if err != nil {
		return err
	}
	code, err := l.IOC(d, t, uint8(*nr), uint32(*size))
	if err != nil {
		return err
	}
	if verbose {
		f, err := l.Decode(code)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "0x%08x %s\n", uint32(code), f)
		return nil
	}
	fmt.Fprintf(w, "0x%08x\n", uint32(code))
	return nil
}

func decode(w io.Writer, l *linux.Layout, args []string) error {
	if len(args) == 0 {
		return errors.New("decode: no request code given")
	}
	for _, arg := range args {
		v, err := strconv.ParseUint(arg, 0, 32)
		if err != nil {
			return fmt.Errorf("decode: bad code %q: %w", arg, err)
		}
		f, err := l.Decode(linux.Code(v))
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "0x%08x %s\n", v, f)
	}
	return nil
}
