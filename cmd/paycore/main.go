package main

import (
	"fmt"
	"io"
	"os"
)

const usage = `usage: paycore <command> [flags]

commands:
  serve       run the health server and idempotency sweeper
  authorize   authorize one payment or collection and print the result
  get         print a stored payment
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		_, _ = fmt.Fprint(stderr, usage)
		return 2
	}

	switch args[0] {
	case "serve":
		return runServeCmd(args[1:], stderr)
	case "authorize":
		return runAuthorizeCmd(args[1:], stdout, stderr)
	case "get":
		return runGetCmd(args[1:], stdout, stderr)
	case "-h", "--help", "help":
		_, _ = fmt.Fprint(stdout, usage)
		return 0
	default:
		_, _ = fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}
}
