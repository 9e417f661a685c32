package keywords

import "strings"

// Visibility and other member modifiers, in the order PHP expects them
var (
	AccessModifiers    = []string{"public", "protected", "private"}
	NonAccessModifiers = []string{"final", "abstract", "static", "readonly"}
)

// List from https://www.php.net/manual/en/reserved.keywords.php
var reservedKeywords = toSet(
	"__halt_compiler", "abstract", "and", "array", "as", "break", "callable",
	"case", "catch", "class", "clone", "const", "continue", "declare", "default",
	"die", "do", "echo", "else", "elseif", "empty", "enddeclare", "endfor",
	"endforeach", "endif", "endswitch", "endwhile", "enum", "eval", "exit",
	"extends", "final", "finally", "fn", "for", "foreach", "function", "global",
	"goto", "if", "implements", "include", "include_once", "instanceof",
	"insteadof", "interface", "isset", "list", "match", "namespace", "new", "or",
	"print", "private", "protected", "public", "readonly", "require",
	"require_once", "return", "static", "switch", "throw", "trait", "try",
	"unset", "use", "var", "while", "xor", "yield",
)

// Names that can not be used for classes, interfaces, traits or aliases
// From https://www.php.net/manual/en/reserved.other-reserved-words.php
var builtinTypes = toSet(
	"int", "float", "bool", "string", "true", "false", "null", "void",
	"iterable", "object", "mixed", "never", "resource", "numeric", "array",
	"callable", "self", "parent", "static",
)

// Language constructs that look like function calls, but never go through
// function name resolution
var languageConstructs = toSet(
	"isset", "empty", "unset", "eval", "exit", "die", "list", "array",
	"print", "echo", "include", "include_once", "require", "require_once",
)

// Variables with a special meaning that must keep their names
var reservedVariables = toSet(
	"this", "GLOBALS", "_SERVER", "_GET", "_POST", "_FILES", "_COOKIE",
	"_SESSION", "_REQUEST", "_ENV", "http_response_header", "argc", "argv",
	"php_errormsg",
)

// Magic methods are called by the engine by name
var magicMethods = toSet(
	"__construct", "__destruct", "__call", "__callstatic", "__get", "__set",
	"__isset", "__unset", "__sleep", "__wakeup", "__serialize",
	"__unserialize", "__tostring", "__invoke", "__set_state", "__clone",
	"__debuginfo",
)

// Calls that read or write the local symbol table by name
var scopeIntrospection = toSet(
	"compact", "extract", "get_defined_vars", "parse_str", "eval",
	"func_get_args",
)

func toSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, word := range words {
		set[word] = true
	}
	return set
}

// IsReserved tests if an identifier is a PHP keyword. Keywords are matched
// case-insensitively, the same way PHP does
func IsReserved(name string) bool {
	return reservedKeywords[strings.ToLower(name)]
}

// IsBuiltinType reports whether the name refers to a scalar or special type,
// which is never resolved through the imports of a file
func IsBuiltinType(name string) bool {
	return builtinTypes[strings.ToLower(name)]
}

func IsLanguageConstruct(name string) bool {
	return languageConstructs[strings.ToLower(name)]
}

// IsReservedVariable reports whether a variable (without the `$`) has to keep
// its name
func IsReservedVariable(name string) bool {
	return reservedVariables[name]
}

func IsMagicMethod(name string) bool {
	return magicMethods[strings.ToLower(name)]
}

// IsScopeIntrospection reports whether calling the named function exposes the
// local variables of the caller by their names
func IsScopeIntrospection(name string) bool {
	return scopeIntrospection[strings.ToLower(strings.TrimPrefix(name, `\`))]
}
