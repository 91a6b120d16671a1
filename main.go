package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

// Version identifies the version of uv. This can be modified by CI during
// the release process.
var Version = "dev"

const defaultHelp = `uv resolves Python package versions 🧩

Usage:

  uv <command> [options]

The commands are:

  resolve      resolve the requirements in uv.json and print pinned versions
  version      show uv version
`

func run(args []string) (int, error) {
	arg := ""
	if len(args) > 1 {
		arg = args[1]
	}

	switch arg {
	case "", "help", "--help", "-h":
		fmt.Print(defaultHelp)
		return 2, nil
	case "version", "--version":
		fmt.Printf("uv version: %s\n", Version)
		return 0, nil
	case "resolve":
		flagSet := pflag.NewFlagSet("resolve", pflag.ContinueOnError)
		verbose := flagSet.BoolP("verbose", "v", false, "enable debug logging")
		if err := flagSet.Parse(args[2:]); err == pflag.ErrHelp {
			return 0, nil
		} else if err != nil {
			return 2, err
		}
		if *verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}

		cfg, err := ReadConfig()
		if err != nil {
			return 1, err
		}

		resolved, err := runResolution(context.Background(), cfg)
		if err != nil {
			return 1, err
		}

		for _, r := range resolved {
			fmt.Printf("%s==%s\n", r.Name, r.Version)
		}
		return 0, nil
	default:
		fmt.Printf("uv %s: unknown command\n", arg)
		return 2, nil
	}
}

func main() {
	exitCode, err := run(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	os.Exit(exitCode)
}
