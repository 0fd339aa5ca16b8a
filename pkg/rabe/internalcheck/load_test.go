package internalcheck

import (
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

const toolkitPattern = "github.com/dabch/rabe/pkg/rabe/..."

func loadToolkit(t *testing.T, mode packages.LoadMode) []*packages.Package {
	t.Helper()
	pkgs, err := packages.Load(&packages.Config{Mode: mode}, toolkitPattern)
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}
	if packages.PrintErrors(pkgs) > 0 {
		t.Fatalf("packages under %s contain errors", toolkitPattern)
	}
	return pkgs
}

func report(t *testing.T, policy string, findings []string) {
	t.Helper()
	if len(findings) > 0 {
		t.Fatalf("%s violation:\n%s", policy, strings.Join(findings, "\n"))
	}
}
