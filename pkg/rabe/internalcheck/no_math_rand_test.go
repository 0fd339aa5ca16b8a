package internalcheck

import (
	"fmt"
	"strconv"
	"testing"

	"golang.org/x/tools/go/packages"
)

// Library code must draw randomness from the io.Reader it is handed.
func TestNoMathRandInLibrary(t *testing.T) {
	pkgs := loadToolkit(t, packages.NeedSyntax|packages.NeedFiles|packages.NeedName)

	var findings []string
	for _, pkg := range pkgs {
		for _, file := range pkg.Syntax {
			for _, imp := range file.Imports {
				path, err := strconv.Unquote(imp.Path.Value)
				if err != nil {
					continue
				}
				if path == "math/rand" || path == "math/rand/v2" {
					findings = append(findings, fmt.Sprintf("%s: %s imported by %s", pkg.Fset.Position(imp.Pos()), path, pkg.PkgPath))
				}
			}
		}
	}
	report(t, "randomness policy", findings)
}
