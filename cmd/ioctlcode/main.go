package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/NeowayLabs/ioctl/linux"
)

var (
	flagArch    = flag.String("arch", "", "Architecture to encode for (default: host kernel)")
	flagVerbose = flag.Bool("v", false, "Print the layout and decoded fields")
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `Usage: %s [flags] command [args]

Commands:
  encode -dir rw -type X -nr 119 -size 4
  decode 0xc0045877 ...

Flags:
`, os.Args[0])
	flag.PrintDefaults()
}

func main() {
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	layout, err := selectLayout(*flagArch)
	if err != nil {
		log.Fatal(err)
	}
	if *flagVerbose {
		log.Printf("layout: %s", layout)
	}

	args := flag.Args()
	switch args[0] {
	case "encode":
		err = encode(os.Stdout, layout, args[1:], *flagVerbose)
	case "decode":
		err = decode(os.Stdout, layout, args[1:])
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func selectLayout(arch string) (*linux.Layout, error) {
	if arch == "" {
		return linux.HostLayout()
	}
	return linux.LayoutFor(arch)
}
