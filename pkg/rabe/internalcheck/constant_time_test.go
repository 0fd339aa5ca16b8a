package internalcheck

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"testing"

	"golang.org/x/tools/go/packages"
)

func TestNoDirectByteComparison(t *testing.T) {
	pkgs := loadToolkit(t, packages.NeedSyntax|packages.NeedTypes|packages.NeedTypesInfo|packages.NeedFiles|packages.NeedName)

	var findings []string
	for _, pkg := range pkgs {
		for _, file := range pkg.Syntax {
			ast.Inspect(file, func(n ast.Node) bool {
				be, ok := n.(*ast.BinaryExpr)
				if !ok || (be.Op != token.EQL && be.Op != token.NEQ) {
					return true
				}
				if isBytes(pkg.TypesInfo.TypeOf(be.X)) && isBytes(pkg.TypesInfo.TypeOf(be.Y)) {
					findings = append(findings, fmt.Sprintf("%s: avoid == on byte buffers; use crypto/subtle", pkg.Fset.Position(be.Pos())))
				}
				return true
			})
		}
	}
	report(t, "constant-time policy", findings)
}

func isBytes(typ types.Type) bool {
	switch tt := typ.(type) {
	case *types.Slice:
		return isByte(tt.Elem())
	case *types.Array:
		return isByte(tt.Elem())
	case *types.Pointer:
		return isBytes(tt.Elem())
	case *types.Named:
		return isBytes(tt.Underlying())
	default:
		return false
	}
}

func isByte(t types.Type) bool {
	basic, ok := t.(*types.Basic)
	return ok && basic.Kind() == types.Byte
}
