//go:build mage

// Package main provides build targets for feira using Mage.
//
// Usage:
//
//	mage build             Compile the feira binary to bin/
//	mage test:unit         Run unit tests
//	mage test:integration  Run container-backed store tests (needs Docker)
//	mage lint              Run go vet and golangci-lint
//	mage run               Serve the API with the in-memory store
//	mage clean             Remove build artifacts
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "feira"
	binaryDir  = "bin"
)

// Build compiles the feira binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil {
		version = "dev"
	}
	return sh.RunV(binGo, "build", "-v",
		"-ldflags", "-X main.version="+version,
		"-o", filepath.Join(binaryDir, binaryName), ".")
}

// Clean removes build artifacts.
func Clean() error {
	return os.RemoveAll(binaryDir)
}

// Test groups test targets.
type Test mg.Namespace

// Unit runs the unit tests.
func (Test) Unit() error {
	return sh.RunV(binGo, "test", "-race", "./...")
}

// Integration runs the store suites against Postgres and MongoDB containers.
func (Test) Integration() error {
	return sh.RunV(binGo, "test", "-v", "-tags", "integration", "./store/...")
}

// Lint runs go vet and golangci-lint.
func Lint() error {
	if err := sh.RunV(binGo, "vet", "./..."); err != nil {
		return err
	}
	return sh.RunV("golangci-lint", "run", "./...")
}

// Run serves the API with the in-memory store.
func Run() error {
	mg.Deps(Build)
	return sh.RunWithV(map[string]string{"FEIRA_STORAGE_DRIVER": "memory"},
		filepath.Join(binaryDir, binaryName), "serve")
}
