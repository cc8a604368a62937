//go:build mage

// Package main provides development automation.
package main

import (
	"fmt"
	"os"
	"regexp"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Dev groups commands for local development.
type Dev mg.Namespace

// Test runs the full test suite with the race detector.
func (Dev) Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Lint runs the linters.
func (Dev) Lint() error {
	return sh.RunV("golangci-lint", "run")
}

// Release tags a new version and pushes it.
func (Dev) Release() error {
	version, err := os.ReadFile("version.txt")
	if err != nil {
		return fmt.Errorf("failed to read version: %w", err)
	}

	if !regexp.MustCompile(`^v([0-9]+).([0-9]+).([0-9]+)$`).Match(version) {
		return fmt.Errorf("invalid version format: %s", version)
	}

	if err := sh.Run("git", "tag", string(version)); err != nil {
		return fmt.Errorf("failed to tag version: %w", err)
	}

	if err := sh.Run("git", "push", "origin", string(version)); err != nil {
		return fmt.Errorf("failed to push version tag: %w", err)
	}

	return nil
}
