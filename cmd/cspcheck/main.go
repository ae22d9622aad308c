// Command cspcheck validates policy configuration files and previews
// the header a given request path would receive.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/devmarvs/csp/config"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "check":
		checkCmd(os.Args[2:])
	case "render":
		renderCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("cspcheck")
	fmt.Println("\nCommands:")
	fmt.Println("  cspcheck check -config <file>")
	fmt.Println("  cspcheck render -config <file> -path </some/path>")
}

func checkCmd(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	path := fs.String("config", "", "policy config file (required)")
	_ = fs.Parse(args)

	if *path == "" {
		fmt.Println("usage: cspcheck check -config <file>")
		os.Exit(2)
	}

	if _, err := config.Load(*path); err != nil {
		fmt.Fprintf(os.Stderr, "invalid: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%s: ok\n", *path)
}

func renderCmd(args []string) {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	configPath := fs.String("config", "", "policy config file (required)")
	requestPath := fs.String("path", "", "request path to resolve (required)")
	_ = fs.Parse(args)

	if *configPath == "" || *requestPath == "" {
		fmt.Println("usage: cspcheck render -config <file> -path </some/path>")
		os.Exit(2)
	}

	resolver, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid: %v\n", err)
		os.Exit(1)
	}

	header, matched, err := resolver.Header(*requestPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "render: %v\n", err)
		os.Exit(1)
	}
	if !matched {
		fmt.Fprintf(os.Stderr, "no policy matches %s\n", *requestPath)
		os.Exit(1)
	}
	fmt.Println(header)
}
