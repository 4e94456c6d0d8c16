//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Serve runs a tool service from source over MCP streamable HTTP.
type Serve mg.Namespace

func serve(service string) error {
	mg.Deps(Init)
	return sh.RunV("go", "run", cmdPkg, "serve", service)
}

// Papers serves the paper search tools on port 8001.
func (Serve) Papers() error { return serve("papers") }

// Documents serves the PDF and text tools on port 8002.
func (Serve) Documents() error { return serve("documents") }

// Data serves the data tools on port 8003.
func (Serve) Data() error { return serve("data") }

// Web serves the web tools on port 8004.
func (Serve) Web() error { return serve("web") }
