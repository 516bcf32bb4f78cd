/*
File    : sync/internal/codegen/codegen_types.go
Package : codegen
*/

// codegen_types.go maps Syn's builtin and struct types onto llir/llvm IR
// types (spec.md §4.4 "Lowering — type/IR mapping").
package codegen

import (
	"github.com/llir/llvm/ir/types"

	"github.com/synlang/sync/internal/ast"
	"github.com/synlang/sync/internal/diag"
	"github.com/synlang/sync/internal/registry"
)

// irBuiltinOrStruct maps a single type name — one of the ten builtins,
// or a previously-declared struct name — to its IR type.
func (g *Generator) irBuiltinOrStruct(name string) types.Type {
	switch name {
	case "i8":
		return types.I8
	case "i16":
		return types.I16
	case "i32":
		return types.I32
	case "i64":
		return types.I64
	case "f32":
		return types.Float
	case "f64":
		return types.Double
	case "str":
		return types.NewPointer(types.I8)
	case "chr":
		return types.I8
	case "bln":
		return types.I1
	case "void":
		return types.Void
	}
	if st, ok := g.structTypes[name]; ok {
		return st
	}
	diag.FatalfAt("<codegen>", "unknown type %q", name)
	return types.Void
}

// irTypeSpec resolves a full TypeSpec (base name plus pointer nesting
// degree) to an IR type, wrapping the base type in a pointer once per
// degree (spec.md §4.4 "`ptr<T>` | pointer to IR(T); nested one level
// per outer `ptr`").
func (g *Generator) irTypeSpec(ts registry.TypeSpec) types.Type {
	t := g.irBuiltinOrStruct(ts.Base)
	for i := 0; i < ts.PtrDegree; i++ {
		t = types.NewPointer(t)
	}
	return t
}

// declareStructTypes creates a named IR struct type for every top-level
// StructDecl, in two passes so a struct referencing another struct
// declared earlier in the same file resolves correctly: the first pass
// registers every struct name against an (initially empty) aggregate,
// the second fills in member types once every name is known.
func (g *Generator) declareStructTypes(root *ast.Node) {
	for _, child := range root.Children {
		if child.Kind != ast.StructDecl {
			continue
		}
		st := types.NewStruct()
		st.TypeName = child.Payload
		g.Module.TypeDefs = append(g.Module.TypeDefs, st)
		g.structTypes[child.Payload] = st
	}
	for _, child := range root.Children {
		if child.Kind != ast.StructDecl {
			continue
		}
		st := g.structTypes[child.Payload]
		s, ok := g.Reg.ResolveStruct(child.Payload)
		if !ok {
			diag.Fatalf(child.Pos, "struct %q was not registered by the parser", child.Payload)
		}
		for _, m := range s.Members {
			ts, err := registry.ParseTypeSpec(m.Type)
			if err != nil {
				diag.Fatalf(child.Pos, "struct %q member %q: %v", child.Payload, m.Name, err)
			}
			st.Fields = append(st.Fields, g.irTypeSpec(ts))
		}
	}
}
