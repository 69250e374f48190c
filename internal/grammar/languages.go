package grammar

import (
	tree_sitter_zig "github.com/tree-sitter-grammars/tree-sitter-zig/bindings/go"
	tree_sitter_csharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/sgi-dev/sgi/internal/types"
)

// registerAll wires every language this registry knows about. Each
// setupX below is grounded on the teacher's per-language setup routine but
// generalized to the two-label (@name/@definition) capture convention this
// engine's extractor expects, and split into a definitions query and a
// narrower, call-target/import/type-position references query.
func (r *Registry) registerAll() {
	r.setup[".js"] = r.setupJavaScript
	r.setup[".jsx"] = r.setupJavaScript
	r.setup[".ts"] = r.setupTypeScript
	r.setup[".tsx"] = r.setupTypeScript
	r.setup[".go"] = r.setupGo
	r.setup[".py"] = r.setupPython
	r.setup[".rs"] = r.setupRust
	for _, ext := range []string{".cpp", ".cc", ".cxx", ".c", ".h", ".hpp"} {
		r.setup[ext] = r.setupCpp
	}
	r.setup[".java"] = r.setupJava
	r.setup[".cs"] = r.setupCSharp
	r.setup[".zig"] = r.setupZig
	r.setup[".php"] = r.setupPHP
	r.setup[".phtml"] = r.setupPHP
}

func kindTable(table map[string]types.SymbolKind) func(string) types.SymbolKind {
	return func(nodeType string) types.SymbolKind {
		if k, ok := table[nodeType]; ok {
			return k
		}
		return types.KindOther
	}
}

func (r *Registry) setupJavaScript() {
	def := `
        (function_declaration name: (identifier) @name) @definition
        (generator_function_declaration name: (identifier) @name) @definition
        (variable_declarator
            name: (identifier) @name
            value: [(arrow_function) (function_expression) (generator_function)]) @definition
        (method_definition name: (property_identifier) @name) @definition
        (class_declaration name: (identifier) @name) @definition
    `
	ref := `
        (call_expression function: (identifier) @reference)
        (import_statement source: (string) @reference)
        (decorator (identifier) @reference)
    `
	kind := kindTable(map[string]types.SymbolKind{
		"function_declaration":           types.KindFunction,
		"generator_function_declaration": types.KindFunction,
		"variable_declarator":            types.KindFunction,
		"method_definition":               types.KindFunction,
		"class_declaration":               types.KindClass,
	})
	r.register("javascript", tree_sitter_javascript.Language(), def, ref, kind, ".js", ".jsx")
}

func (r *Registry) setupTypeScript() {
	def := `
        (function_declaration name: (identifier) @name) @definition
        (generator_function_declaration name: (identifier) @name) @definition
        (variable_declarator
            name: (identifier) @name
            value: [(arrow_function) (function_expression) (generator_function)]) @definition
        (method_definition name: (property_identifier) @name) @definition
        (class_declaration name: (type_identifier) @name) @definition
        (interface_declaration name: (type_identifier) @name) @definition
        (type_alias_declaration name: (type_identifier) @name) @definition
        (enum_declaration name: (identifier) @name) @definition
    `
	ref := `
        (call_expression function: (identifier) @reference)
        (import_statement source: (string) @reference)
        (type_identifier) @reference
        (decorator (identifier) @reference)
    `
	kind := kindTable(map[string]types.SymbolKind{
		"function_declaration":           types.KindFunction,
		"generator_function_declaration": types.KindFunction,
		"variable_declarator":            types.KindFunction,
		"method_definition":               types.KindFunction,
		"class_declaration":               types.KindClass,
		"interface_declaration":           types.KindType,
		"type_alias_declaration":          types.KindType,
		"enum_declaration":                types.KindType,
	})
	r.register("typescript", tree_sitter_typescript.LanguageTypescript(), def, ref, kind, ".ts", ".tsx")
}

func (r *Registry) setupGo() {
	def := `
        (function_declaration name: (identifier) @name) @definition
        (method_declaration name: (field_identifier) @name) @definition
        (type_spec name: (type_identifier) @name) @definition
        (const_spec name: (identifier) @name) @definition
        (var_spec name: (identifier) @name) @definition
    `
	ref := `
        (call_expression function: (identifier) @reference)
        (import_spec path: (interpreted_string_literal) @reference)
        (type_identifier) @reference
    `
	kind := kindTable(map[string]types.SymbolKind{
		"function_declaration": types.KindFunction,
		"method_declaration":   types.KindFunction,
		"type_spec":            types.KindType,
		"const_spec":           types.KindVariable,
		"var_spec":             types.KindVariable,
	})
	r.register("go", tree_sitter_go.Language(), def, ref, kind, ".go")
}

func (r *Registry) setupPython() {
	def := `
        (function_definition name: (identifier) @name) @definition
        (class_definition name: (identifier) @name) @definition
    `
	ref := `
        (call function: (identifier) @reference)
        (import_statement name: (dotted_name) @reference)
        (import_from_statement module_name: (dotted_name) @reference)
        (decorator (identifier) @reference)
    `
	kind := kindTable(map[string]types.SymbolKind{
		"function_definition": types.KindFunction,
		"class_definition":    types.KindClass,
	})
	r.register("python", tree_sitter_python.Language(), def, ref, kind, ".py")
}

func (r *Registry) setupRust() {
	def := `
        (function_item name: (identifier) @name) @definition
        (struct_item name: (type_identifier) @name) @definition
        (enum_item name: (type_identifier) @name) @definition
        (trait_item name: (type_identifier) @name) @definition
        (type_item name: (type_identifier) @name) @definition
        (mod_item name: (identifier) @name) @definition
    `
	ref := `
        (call_expression function: (identifier) @reference)
        (use_declaration argument: (identifier) @reference)
        (use_declaration argument: (scoped_identifier name: (identifier) @reference))
        (type_identifier) @reference
    `
	kind := kindTable(map[string]types.SymbolKind{
		"function_item": types.KindFunction,
		"struct_item":   types.KindClass,
		"enum_item":     types.KindType,
		"trait_item":    types.KindType,
		"type_item":     types.KindType,
		"mod_item":      types.KindNamespace,
	})
	r.register("rust", tree_sitter_rust.Language(), def, ref, kind, ".rs")
}

func (r *Registry) setupCpp() {
	def := `
        (function_definition declarator: (function_declarator declarator: (identifier) @name)) @definition
        (class_specifier name: (type_identifier) @name) @definition
        (struct_specifier name: (type_identifier) @name) @definition
        (enum_specifier name: (type_identifier) @name) @definition
        (namespace_definition name: (identifier) @name) @definition
    `
	ref := `
        (call_expression function: (identifier) @reference)
        (preproc_include path: (string_literal) @reference)
        (preproc_include path: (system_lib_string) @reference)
        (type_identifier) @reference
    `
	kind := kindTable(map[string]types.SymbolKind{
		"function_definition": types.KindFunction,
		"class_specifier":     types.KindClass,
		"struct_specifier":    types.KindClass,
		"enum_specifier":      types.KindType,
		"namespace_definition": types.KindNamespace,
	})
	exts := []string{".cpp", ".cc", ".cxx", ".c", ".h", ".hpp"}
	r.register("cpp", tree_sitter_cpp.Language(), def, ref, kind, exts...)
}

func (r *Registry) setupJava() {
	def := `
        (method_declaration name: (identifier) @name) @definition
        (constructor_declaration name: (identifier) @name) @definition
        (class_declaration name: (identifier) @name) @definition
        (record_declaration name: (identifier) @name) @definition
        (interface_declaration name: (identifier) @name) @definition
        (enum_declaration name: (identifier) @name) @definition
    `
	// method_invocation is not captured here: its grammar node conflates
	// plain calls and obj.method() calls with no distinguishing field,
	// so including it would violate the no-attribute-call-wiring rule.
	ref := `
        (import_declaration (scoped_identifier name: (identifier) @reference))
        (type_identifier) @reference
    `
	kind := kindTable(map[string]types.SymbolKind{
		"method_declaration":      types.KindFunction,
		"constructor_declaration": types.KindFunction,
		"class_declaration":       types.KindClass,
		"record_declaration":      types.KindClass,
		"interface_declaration":   types.KindType,
		"enum_declaration":        types.KindType,
	})
	r.register("java", tree_sitter_java.Language(), def, ref, kind, ".java")
}

func (r *Registry) setupCSharp() {
	def := `
        (method_declaration name: (identifier) @name) @definition
        (constructor_declaration name: (identifier) @name) @definition
        (class_declaration name: (identifier) @name) @definition
        (interface_declaration name: (identifier) @name) @definition
        (struct_declaration name: (identifier) @name) @definition
        (record_declaration name: (identifier) @name) @definition
        (enum_declaration name: (identifier) @name) @definition
    `
	// invocation_expression has the same obj.Method() ambiguity as Java's
	// method_invocation, so call targets are not captured here either.
	ref := `
        (using_directive (qualified_name) @reference)
        (using_directive (identifier) @reference)
    `
	kind := kindTable(map[string]types.SymbolKind{
		"method_declaration":      types.KindFunction,
		"constructor_declaration": types.KindFunction,
		"class_declaration":       types.KindClass,
		"interface_declaration":   types.KindType,
		"struct_declaration":      types.KindClass,
		"record_declaration":      types.KindClass,
		"enum_declaration":        types.KindType,
	})
	r.register("csharp", tree_sitter_csharp.Language(), def, ref, kind, ".cs")
}

func (r *Registry) setupPHP() {
	def := `
        (class_declaration name: (name) @name) @definition
        (interface_declaration name: (name) @name) @definition
        (trait_declaration name: (name) @name) @definition
        (enum_declaration name: (name) @name) @definition
        (function_definition name: (name) @name) @definition
        (method_declaration name: (name) @name) @definition
        (namespace_definition name: (namespace_name) @name) @definition
    `
	ref := `
        (function_call_expression function: (name) @reference)
        (namespace_use_clause (qualified_name) @reference)
    `
	kind := kindTable(map[string]types.SymbolKind{
		"class_declaration":     types.KindClass,
		"interface_declaration": types.KindType,
		"trait_declaration":     types.KindType,
		"enum_declaration":      types.KindType,
		"function_definition":   types.KindFunction,
		"method_declaration":    types.KindFunction,
		"namespace_definition":  types.KindNamespace,
	})
	r.register("php", tree_sitter_php.LanguagePHP(), def, ref, kind, ".php", ".phtml")
}

func (r *Registry) setupZig() {
	def := `
        (function_declaration (identifier) @name) @definition
        (variable_declaration
          (identifier) @name
          (struct_declaration) @definition)
        (variable_declaration
          (identifier) @name
          (union_declaration) @definition)
    `
	ref := `
        (call_expression function: (identifier) @reference)
    `
	kind := kindTable(map[string]types.SymbolKind{
		"function_declaration": types.KindFunction,
		"struct_declaration":   types.KindClass,
		"union_declaration":    types.KindType,
	})
	r.register("zig", tree_sitter_zig.Language(), def, ref, kind, ".zig")
}
