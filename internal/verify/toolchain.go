package verify

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/wr/internal/model"
)

// Toolchain describes how to build and test an exercise for one language.
type Toolchain struct {
	Name string
	// Manifest is the build descriptor that makes a directory a buildable unit.
	Manifest string
	// Build returns the command compiling every target of the manifest.
	Build func(manifest string, opts model.Options) model.Verification
	// Test returns the default verification step.
	Test func(opts model.Options) model.Verification
}

var toolchains = map[string]Toolchain{
	"cargo": {
		Name:     "cargo",
		Manifest: "Cargo.toml",
		Build: func(manifest string, opts model.Options) model.Verification {
			args := []string{"build", "--manifest-path", manifest, "--all-targets", "--color", colorOption(opts)}
			if !opts.Verbose {
				args = append(args, "-q")
			}
			return model.Verification{Command: "cargo", Args: args}
		},
		Test: func(opts model.Options) model.Verification {
			args := []string{"test", "--color", colorOption(opts)}
			if !opts.Verbose {
				args = append(args, "-q")
			}
			return model.Verification{Command: "cargo", Args: args}
		},
	},
	"go": {
		Name:     "go",
		Manifest: "go.mod",
		Build: func(_ string, opts model.Options) model.Verification {
			// Compiles every package and test binary without running any test.
			args := []string{"test", "-count=1", "-run", "^$"}
			if opts.Verbose {
				args = append(args, "-x")
			}
			return model.Verification{Command: "go", Args: append(args, "./...")}
		},
		Test: func(opts model.Options) model.Verification {
			args := []string{"test"}
			if opts.Verbose {
				args = append(args, "-v")
			}
			return model.Verification{Command: "go", Args: append(args, "./...")}
		},
	},
}

// DefaultToolchain is used when the collection config names none.
const DefaultToolchain = "cargo"

// LookupToolchain returns the toolchain registered under name.
func LookupToolchain(name string) (Toolchain, error) {
	if name == "" {
		name = DefaultToolchain
	}
	tc, ok := toolchains[strings.ToLower(name)]
	if !ok {
		return Toolchain{}, fmt.Errorf("unknown toolchain %q (available: cargo, go)", name)
	}
	return tc, nil
}

func colorOption(opts model.Options) string {
	if opts.Color {
		return "always"
	}
	return "never"
}
