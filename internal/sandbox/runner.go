package sandbox

import (
	"context"
	"fmt"
	"go/parser"
	"go/token"
	"io"
	"os"
	"path"
	"sort"
	"strconv"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// AllowedPackages are the standard library packages a generated program may
// import. Anything touching processes, the network or raw memory is absent.
var AllowedPackages = []string{
	"bytes",
	"encoding/json",
	"errors",
	"fmt",
	"math",
	"math/rand",
	"regexp",
	"sort",
	"strconv",
	"strings",
	"time",
	"unicode",
}

// Runner interprets a generated Go program. The program is package main
// and may import the allowed standard library packages plus the packages
// named in Exports.
type Runner struct {
	Stdout  io.Writer
	Stderr  io.Writer
	Exports interp.Exports
}

// RunFile interprets the program stored at file.
func (r *Runner) RunFile(ctx context.Context, file string) error {
	src, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read program: %w", err)
	}
	return r.Run(ctx, file, string(src))
}

// Run interprets src; name is used in error positions only.
func (r *Runner) Run(ctx context.Context, name, src string) error {
	if err := r.checkImports(name, src); err != nil {
		return err
	}

	i := interp.New(interp.Options{
		Stdout: r.Stdout,
		Stderr: r.Stderr,
	})

	if err := i.Use(allowedSymbols()); err != nil {
		return fmt.Errorf("load stdlib: %w", err)
	}
	if r.Exports != nil {
		if err := i.Use(r.Exports); err != nil {
			return fmt.Errorf("load exports: %w", err)
		}
	}

	if _, err := i.EvalWithContext(ctx, src); err != nil {
		return fmt.Errorf("eval %s: %w", name, err)
	}
	return nil
}

func (r *Runner) checkImports(name, src string) error {
	f, err := parser.ParseFile(token.NewFileSet(), name, src, parser.ImportsOnly)
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}

	allowed := r.importable()
	var forbidden []string
	for _, imp := range f.Imports {
		p, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			return fmt.Errorf("parse %s: %w", name, err)
		}
		if !allowed[p] {
			forbidden = append(forbidden, p)
		}
	}

	if len(forbidden) > 0 {
		sort.Strings(forbidden)
		return fmt.Errorf("forbidden imports: %v", forbidden)
	}
	return nil
}

func (r *Runner) importable() map[string]bool {
	allowed := make(map[string]bool, len(AllowedPackages)+len(r.Exports))
	for _, p := range AllowedPackages {
		allowed[p] = true
	}
	for key := range r.Exports {
		allowed[path.Dir(key)] = true
	}
	return allowed
}

// allowedSymbols filters stdlib.Symbols, whose keys are "importpath/name".
func allowedSymbols() interp.Exports {
	allowed := make(map[string]bool, len(AllowedPackages))
	for _, p := range AllowedPackages {
		allowed[p] = true
	}

	symbols := interp.Exports{}
	for key, values := range stdlib.Symbols {
		if allowed[path.Dir(key)] {
			symbols[key] = values
		}
	}
	return symbols
}
