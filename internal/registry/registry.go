/*
File    : sync/internal/registry/registry.go
Package : registry
*/

// Package registry implements the "AST data registry" of spec.md §2
// item 3 and §4.3: a mutable catalogue of declared types, functions,
// variables, pointers, arrays and structs, consulted by the parser (to
// disambiguate assignment vs. array-index vs. struct-member) and by
// codegen (to find declared types/functions during lowering).
//
// Grounded on go-mix's scope/scope.go for the map-based symbol table
// shape, generalized from go-mix's single parent-chained runtime Scope
// (mapping names to interpreted values) to Syn's declaration-time
// registry (mapping names to declared shape: type, arity, struct
// layout). Unlike go-mix's Scope, this registry is not chained: per
// spec.md §3's invariants, functions/structs are module-global for the
// whole file, while variables/pointers/arrays are flat and reset at
// each function boundary rather than nested block-by-block (Syn has no
// nested block scoping below function level).
package registry

import "fmt"

// DataType is a named type known to the compiler: one of the eleven
// preregistered builtins, or a struct name registered as its own type
// when the struct declaration is parsed (spec.md §3).
type DataType struct {
	Name    string
	Builtin bool
}

// Param is one typed parameter of a function declaration.
type Param struct {
	Name string
	Type string // encoded type name, see TypeSpec.String/ParseTypeSpec
}

// Function is a declared or defined function: its return type, ordered
// parameters (the last may be variadic), and whether a body has been
// seen yet (forward declarations are inserted without a body first).
type Function struct {
	Name       string
	ReturnType string
	Params     []Param
	Variadic   bool
	Defined    bool
}

// StructMember is one typed field of a struct, in declaration order.
type StructMember struct {
	Name string
	Type string
}

// Struct is a user-defined aggregate type: its ordered member list.
// The struct's own name is also registered as a DataType (spec.md §3).
type Struct struct {
	Name    string
	Members []StructMember
}

// Variable is a scalar of a data type, function-scoped.
type Variable struct {
	Name string
	Type string
}

// Pointer is a pointer-typed symbol: base type plus nesting degree.
// ptr<ptr<T>> has Degree 2, Base "T" (spec.md §3).
type Pointer struct {
	Name   string
	Base   string
	Degree int
}

// Array is a fixed-shape array symbol: element type, dimensionality,
// and the per-dimension sizes as they appeared in source, outermost
// first (spec.md §3's "Array: element data type plus dimensionality and
// fixed per-dimension sizes").
type Array struct {
	Name string
	Elem string
	Dims []int
}

// builtinTypeNames are the eleven names preregistered at start (spec.md
// §3): ten data types plus the `ptr` type constructor.
var builtinTypeNames = []string{"i8", "i16", "i32", "i64", "f32", "f64", "str", "chr", "bln", "void", "ptr"}

// Registry is the AST data registry: module-global types/functions/
// structs, plus the current function's flat variable/pointer/array
// tables (reset by ResetFunctionScope; spec.md §3 "Lifecycles").
type Registry struct {
	types   map[string]*DataType
	funcs   map[string]*Function
	structs map[string]*Struct

	vars     map[string]*Variable
	pointers map[string]*Pointer
	arrays   map[string]*Array
}

// New creates a Registry with the eleven builtin type names preregistered.
func New() *Registry {
	r := &Registry{
		types:    make(map[string]*DataType),
		funcs:    make(map[string]*Function),
		structs:  make(map[string]*Struct),
		vars:     make(map[string]*Variable),
		pointers: make(map[string]*Pointer),
		arrays:   make(map[string]*Array),
	}
	for _, name := range builtinTypeNames {
		r.types[name] = &DataType{Name: name, Builtin: true}
	}
	return r
}

// ResetFunctionScope clears variable/pointer/array bindings when
// crossing into the next function (spec.md §3 invariant); functions and
// structs persist for the rest of the file.
func (r *Registry) ResetFunctionScope() {
	r.vars = make(map[string]*Variable)
	r.pointers = make(map[string]*Pointer)
	r.arrays = make(map[string]*Array)
}

// InsertType registers a new type name (used when a struct declaration
// is parsed; spec.md §3 "the struct's own name is also registered as a
// data type").
func (r *Registry) InsertType(name string) {
	r.types[name] = &DataType{Name: name, Builtin: false}
}

// ResolveType looks up a type name, fatal-worthy if missing (the caller
// decides how to report the failure; this just reports ok=false).
func (r *Registry) ResolveType(name string) (*DataType, bool) {
	dt, ok := r.types[name]
	return dt, ok
}

// IsUserType reports whether name was registered by a struct/enum/union
// declaration (as opposed to being one of the eleven builtins).
func (r *Registry) IsUserType(name string) bool {
	dt, ok := r.types[name]
	return ok && !dt.Builtin
}

// InsertFunction registers a function declaration or definition. A
// second insert for the same name is allowed only to turn a forward
// declaration into a definition (spec.md §4.2 "`;` for a forward
// declaration").
func (r *Registry) InsertFunction(f *Function) error {
	if existing, ok := r.funcs[f.Name]; ok {
		if existing.Defined && f.Defined {
			return fmt.Errorf("function %q redefined", f.Name)
		}
	}
	r.funcs[f.Name] = f
	return nil
}

// ResolveFunction looks up a declared function by name.
func (r *Registry) ResolveFunction(name string) (*Function, bool) {
	f, ok := r.funcs[name]
	return f, ok
}

// InsertStruct registers a struct declaration and, per spec.md §3, also
// registers the struct's name as a DataType.
func (r *Registry) InsertStruct(s *Struct) {
	r.structs[s.Name] = s
	r.InsertType(s.Name)
}

// ResolveStruct looks up a declared struct by name.
func (r *Registry) ResolveStruct(name string) (*Struct, bool) {
	s, ok := r.structs[name]
	return s, ok
}

// InsertVariable registers a scalar variable in the current function
// scope (or module scope, for top-level declarations, before any
// function has been entered).
func (r *Registry) InsertVariable(v *Variable) {
	r.vars[v.Name] = v
}

// ResolveVariable looks up a variable in the current function scope.
func (r *Registry) ResolveVariable(name string) (*Variable, bool) {
	v, ok := r.vars[name]
	return v, ok
}

// InsertPointer registers a pointer-typed symbol in the current scope.
func (r *Registry) InsertPointer(p *Pointer) {
	r.pointers[p.Name] = p
}

// ResolvePointer looks up a pointer symbol in the current scope.
func (r *Registry) ResolvePointer(name string) (*Pointer, bool) {
	p, ok := r.pointers[name]
	return p, ok
}

// InsertArray registers an array symbol in the current scope.
func (r *Registry) InsertArray(a *Array) {
	r.arrays[a.Name] = a
}

// ResolveArray looks up an array symbol in the current scope.
func (r *Registry) ResolveArray(name string) (*Array, bool) {
	a, ok := r.arrays[name]
	return a, ok
}

// SymbolKind distinguishes which table ResolveSymbol found a name in.
type SymbolKind int

const (
	NotFound SymbolKind = iota
	IsVariable
	IsPointer
	IsArray
)

// ResolveSymbol looks a name up across variables, pointers, and arrays,
// in that priority order, for statement-dispatch disambiguation
// (spec.md §4.2's "Identifier followed by `=`" rule).
func (r *Registry) ResolveSymbol(name string) SymbolKind {
	if _, ok := r.vars[name]; ok {
		return IsVariable
	}
	if _, ok := r.pointers[name]; ok {
		return IsPointer
	}
	if _, ok := r.arrays[name]; ok {
		return IsArray
	}
	return NotFound
}

// Types returns every registered type name, for diagnostics/testing.
func (r *Registry) Types() []*DataType {
	out := make([]*DataType, 0, len(r.types))
	for _, t := range r.types {
		out = append(out, t)
	}
	return out
}
