//go:build stave

package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

// Default target when running `stave` with no arguments.
var Default = All

// Aliases for common targets.
var Aliases = map[string]interface{}{
	"b": Build,
	"t": Test,
	"l": Lint,
	"c": Clean,
}

// All runs the complete build pipeline: lint, test, and build.
func All() error {
	st.Deps(Init)
	st.Deps(Lint, Test)
	st.Deps(Build)
	return nil
}

// Init ensures the module dependencies are up to date.
func Init() error {
	return sh.Run("go", "mod", "tidy")
}

// Build compiles both sed-reproduce and sed-score binaries.
func Build() error {
	st.Deps(Init)
	st.Deps(Build_Reproduce, Build_Score)
	return nil
}

// Build_Reproduce compiles the sed-reproduce binary with version information.
func Build_Reproduce() error {
	st.Deps(Init)
	return buildBinary("sed-reproduce")
}

// Build_Score compiles the sed-score binary.
func Build_Score() error {
	st.Deps(Init)
	return buildBinary("sed-score")
}

func buildBinary(name string) error {
	out := "bin/" + name

	// Check if rebuild is needed
	rebuild, err := target.Glob(out, "**/*.go", "go.mod", "go.sum")
	if err != nil {
		return fmt.Errorf("checking rebuild: %w", err)
	}
	if !rebuild {
		if st.Verbose() {
			fmt.Println(name, "is up to date")
		}
		return nil
	}

	ldflags := buildLdflags()
	return sh.RunV("go", "build", "-ldflags", ldflags, "-o", out, "./cmd/"+name)
}

// buildLdflags returns ldflags for version injection.
func buildLdflags() string {
	version, _ := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	commit, _ := sh.Output("git", "rev-parse", "--short", "HEAD")
	date := time.Now().Format(time.RFC3339)

	return fmt.Sprintf(
		"-X main.version=%s -X main.commit=%s -X main.date=%s",
		strings.TrimSpace(version),
		strings.TrimSpace(commit),
		date,
	)
}

// Test runs all tests with race detection and coverage.
func Test() error {
	st.Deps(Init)
	return sh.RunV("go", "test", "-race", "-cover", "./...")
}

// TestShort runs tests in short mode (skips long-running tests).
func TestShort() error {
	st.Deps(Init)
	return sh.RunV("go", "test", "-short", "-race", "./...")
}

// TestVerbose runs tests with verbose output.
func TestVerbose() error {
	st.Deps(Init)
	return sh.RunV("go", "test", "-race", "-cover", "-v", "./...")
}

// Lint runs golangci-lint on the codebase.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// LintFix runs golangci-lint with auto-fix enabled.
func LintFix() error {
	return sh.RunV("golangci-lint", "run", "--fix", "./...")
}

// Fmt formats all Go code using gofmt and goimports.
func Fmt() error {
	if err := sh.Run("gofmt", "-w", "."); err != nil {
		return fmt.Errorf("gofmt: %w", err)
	}
	if err := sh.Run("goimports", "-w", "."); err != nil {
		return fmt.Errorf("goimports: %w", err)
	}
	return nil
}

// Vet runs go vet on all packages.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Clean removes build artifacts.
func Clean() error {
	artifacts := []string{
		"bin/",
		"sed-reproduce",
		"sed-score",
		"testdata/synthetic",
	}
	for _, a := range artifacts {
		if err := sh.Rm(a); err != nil {
			return fmt.Errorf("removing %s: %w", a, err)
		}
	}
	return nil
}

// Install builds and installs the binaries to GOBIN.
func Install() error {
	st.Deps(Build)

	gocmd := st.GoCmd()
	bin, err := sh.Output(gocmd, "env", "GOBIN")
	if err != nil {
		return fmt.Errorf("determining GOBIN: %w", err)
	}
	if bin == "" {
		gopath, err := sh.Output(gocmd, "env", "GOPATH")
		if err != nil {
			return fmt.Errorf("determining GOPATH: %w", err)
		}
		bin = gopath + "/bin"
	}

	binaries := []string{"sed-reproduce", "sed-score"}
	for _, name := range binaries {
		src := "bin/" + name
		dst := bin + "/" + name
		if runtime.GOOS == "windows" {
			dst += ".exe"
		}
		if err := sh.Copy(dst, src); err != nil {
			return fmt.Errorf("installing %s: %w", name, err)
		}
		if st.Verbose() {
			fmt.Printf("Installed %s to %s\n", name, dst)
		}
	}
	return nil
}

// Repro namespace for result reproduction targets.
type Repro st.Namespace

func evalPath() (string, error) {
	root := os.Getenv("SED_EVAL_PATH")
	if root == "" {
		return "", fmt.Errorf("SED_EVAL_PATH is not set")
	}
	return root, nil
}

// Table1 reproduces the Table 1 results from the folder in SED_EVAL_PATH.
func (Repro) Table1() error {
	st.Deps(Build_Reproduce)

	root, err := evalPath()
	if err != nil {
		return err
	}
	return sh.RunV("./bin/sed-reproduce", "--sed-eval-path", root, "--table", "1")
}

// Table2 reproduces the Table 2 results from the folder in SED_EVAL_PATH.
func (Repro) Table2() error {
	st.Deps(Build_Reproduce)

	root, err := evalPath()
	if err != nil {
		return err
	}
	return sh.RunV("./bin/sed-reproduce", "--sed-eval-path", root, "--table", "2")
}

// Synthetic generates a synthetic corpus under testdata/synthetic and scores it.
func (Repro) Synthetic() error {
	st.Deps(Build_Reproduce)

	if err := sh.RunV("go", "run", "./scripts/make-synthetic-corpus.go"); err != nil {
		return fmt.Errorf("generating corpus: %w", err)
	}
	return sh.RunV("./bin/sed-reproduce",
		"--sed-eval-path", "testdata/synthetic",
		"--table", "1",
		"--workers", "4",
	)
}

// Sweep runs a collar sweep over the synthetic corpus.
func (Repro) Sweep() error {
	st.Deps(Build_Reproduce)

	if err := sh.RunV("go", "run", "./scripts/make-synthetic-corpus.go"); err != nil {
		return fmt.Errorf("generating corpus: %w", err)
	}
	return sh.RunV("./bin/sed-reproduce",
		"--sed-eval-path", "testdata/synthetic",
		"--table", "1",
		"--sweep",
	)
}

// CI runs the full CI pipeline (lint, test, build).
func CI() error {
	st.Deps(Init)
	st.SerialDeps(Lint, Test, Build)
	return nil
}

// Check runs quick validation (vet, lint, short tests).
func Check() error {
	st.Deps(Vet, Lint, TestShort)
	return nil
}

// Coverage generates a coverage report.
func Coverage() error {
	st.Deps(Init)
	if err := sh.RunV("go", "test", "-race", "-coverprofile=coverage.out", "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "tool", "cover", "-html=coverage.out", "-o", "coverage.html")
}

// Tidy runs go mod tidy and verifies the go.sum is clean.
func Tidy() error {
	if err := sh.Run("go", "mod", "tidy"); err != nil {
		return err
	}
	// Verify no changes to go.sum (useful for CI)
	output, err := sh.Output("git", "diff", "--exit-code", "go.sum")
	if err != nil {
		if output != "" {
			return fmt.Errorf("go.sum is not clean:\n%s", output)
		}
	}
	return nil
}
