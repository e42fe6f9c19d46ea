package analyzer

import (
	"go/ast"
	"go/types"
	"strings"
)

// typeToString renders a type expression in Go syntax, except that generic
// instantiations are written Name<Args> so that the class model erases them,
// and channel directions are spelled out as "send chan T" and "recv chan T"
// since a lone angle bracket cannot appear in a diagram.
func typeToString(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return "*" + typeToString(t.X)
	case *ast.SelectorExpr:
		return typeToString(t.X) + "." + t.Sel.Name
	case *ast.ParenExpr:
		return typeToString(t.X)
	case *ast.IndexExpr: // Generic[T]
		return typeToString(t.X) + "<" + typeToString(t.Index) + ">"
	case *ast.IndexListExpr: // Generic[T, U]
		return typeToString(t.X) + "<" + joinTypes(t.Indices) + ">"
	case *ast.ArrayType:
		if t.Len == nil {
			return "[]" + typeToString(t.Elt)
		}
		return "[" + types.ExprString(t.Len) + "]" + typeToString(t.Elt)
	case *ast.Ellipsis:
		return "..." + typeToString(t.Elt)
	case *ast.MapType:
		return "map[" + typeToString(t.Key) + "]" + typeToString(t.Value)
	case *ast.ChanType:
		switch t.Dir {
		case ast.SEND:
			return "send chan " + typeToString(t.Value)
		case ast.RECV:
			return "recv chan " + typeToString(t.Value)
		default:
			return "chan " + typeToString(t.Value)
		}
	case *ast.FuncType:
		return "func(" + joinFields(t.Params) + ")" + resultsString(t.Results)
	case *ast.InterfaceType:
		if t.Methods == nil || len(t.Methods.List) == 0 {
			return "interface{}"
		}
		return "interface{...}"
	case *ast.StructType:
		if t.Fields == nil || len(t.Fields.List) == 0 {
			return "struct{}"
		}
		return "struct{...}"
	default:
		return types.ExprString(expr)
	}
}

// erasedName returns the named type a use edge should point at: the
// innermost element of pointers, slices, arrays, channels and map values,
// without type arguments.
func erasedName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.SelectorExpr:
		return typeToString(t)
	case *ast.StarExpr:
		return erasedName(t.X)
	case *ast.ParenExpr:
		return erasedName(t.X)
	case *ast.IndexExpr:
		return erasedName(t.X)
	case *ast.IndexListExpr:
		return erasedName(t.X)
	case *ast.ArrayType:
		return erasedName(t.Elt)
	case *ast.Ellipsis:
		return erasedName(t.Elt)
	case *ast.MapType:
		return erasedName(t.Value)
	case *ast.ChanType:
		return erasedName(t.Value)
	case *ast.FuncType:
		return "func"
	case *ast.InterfaceType:
		return "interface"
	case *ast.StructType:
		return "struct"
	default:
		return types.ExprString(expr)
	}
}

func joinTypes(exprs []ast.Expr) string {
	parts := make([]string, 0, len(exprs))
	for _, e := range exprs {
		parts = append(parts, typeToString(e))
	}
	return strings.Join(parts, ", ")
}

// joinFields lists the types of a parameter list, repeating a type once per
// name it declares.
func joinFields(list *ast.FieldList) string {
	if list == nil {
		return ""
	}
	var parts []string
	for _, f := range list.List {
		n := max(len(f.Names), 1)
		for i := 0; i < n; i++ {
			parts = append(parts, typeToString(f.Type))
		}
	}
	return strings.Join(parts, ", ")
}

func resultsString(list *ast.FieldList) string {
	if list == nil || len(list.List) == 0 {
		return ""
	}
	if len(list.List) == 1 && len(list.List[0].Names) <= 1 {
		return " " + typeToString(list.List[0].Type)
	}
	return " (" + joinFields(list) + ")"
}
