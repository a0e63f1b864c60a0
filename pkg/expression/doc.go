// Package expression provides a powerful expression evaluation engine for declarative nodes.
//
// # Overview
//
// The expression package implements a domain-specific language (DSL) for dynamic
// evaluation of expressions within data-processing nodes. It supports data access, operations,
// functions, and complex data transformations.
//
// # Features
//
//   - Field access: Navigate object hierarchies (user.profile.name)
//   - Array indexing: Access array elements (items[0], items[-1] for last)
//   - Operators: Arithmetic, comparison, logical, string operations
//   - Functions: Rich set of built-in functions (len, upper, lower, etc.)
//   - Type coercion: Automatic type conversion where appropriate
//   - Null safety: Graceful handling of null/undefined values
//   - Context variables: Access graph-level variables
//
// # Expression Syntax
//
// Basic field access:
//
//	user.name           // Access field
//	user.profile.email  // Nested field access
//	items[0]            // Array index
//	items[-1]           // Last element
//	data.users[5].name  // Combined access
//
// Operators:
//
//	x + y               // Addition
//	x - y               // Subtraction
//	x * y               // Multiplication
//	x / y               // Division
//	x % y               // Modulo
//	x == y              // Equality
//	x != y              // Inequality
//	x > y, x < y        // Comparison
//	x >= y, x <= y      // Comparison
//	x && y              // Logical AND
//	x || y              // Logical OR
//	!x                  // Logical NOT
//
// String operations:
//
//	"Hello" + " " + "World"  // Concatenation
//	name + " (" + string(age) + ")"  // Non-strings are converted with string()
//
// # Built-in Functions
//
// String functions:
//
//	upper(text), toUpperCase(text)  // Convert to uppercase
//	lower(text), toLowerCase(text)  // Convert to lowercase
//	trim(text)                      // Remove surrounding whitespace
//	split(text, sep)                // Split into array
//	join(array, sep)                // Join array elements
//	replace(text, old, new)         // Replace every occurrence
//	contains(text, substr)          // Check if contains
//	startsWith(text, prefix)        // Check prefix
//	endsWith(text, suffix)          // Check suffix
//
// Array functions:
//
//	len(array)                  // Array length (array.length is rewritten to this)
//	first(array), last(array)   // First / last element
//	reverse(array)              // Reverse array
//	unique(array)               // Remove duplicates
//	flatten(array)              // Flatten nested arrays
//	slice(array, start[, end])  // Sub-array
//	zip(...)                    // Combine arrays
//	sum(...), avg(...)          // Sum / average of numbers
//	map(array, expr)            // Transform each element (item is the element)
//
// Math functions:
//
//	abs(x), ceil(x), floor(x), round(x)
//	min(...), max(...)
//	sqrt(x), pow(x, y)
//
// Null handling:
//
//	isNull(value)
//	coalesce(a, b, ...)
//
// Date/Time functions:
//
//	now(), parseDate(string)
//	toEpoch(t), toEpochMillis(t), fromEpoch(s), fromEpochMillis(ms)
//	dateDiff(t1, t2), dateAdd(t, seconds)
//	year(t), month(t), day(t), hour(t), minute(t)
//
// # Usage Examples
//
// Boolean evaluation against an input value (available as item and input):
//
//	ok, err := expression.Evaluate("item.age >= 18", map[string]interface{}{
//	    "age": 25,
//	}, nil)
//	// ok: true
//
// A bare comparison compares against the input value:
//
//	ok, err := expression.Evaluate(">100 && <200", 150.0, nil)
//	// ok: true
//
// Value evaluation:
//
//	expr := "upper(item.name) + ' is ' + (item.age >= 18 ? 'adult' : 'minor')"
//	result, err := expression.EvaluateExpression(expr, user, nil)
//
// # Context Variables
//
// A *Context supplies further values: NodeResults as node, Variables as
// variables (each variable is also available under its own name), and
// ContextVars as context:
//
//	ok, err := expression.Evaluate("node.node1.value < context.maxValue", nil,
//	    &expression.Context{
//	        NodeResults: map[string]interface{}{"node1": map[string]interface{}{"value": 10}},
//	        ContextVars: map[string]interface{}{"maxValue": 50},
//	    })
//
// # Type System
//
// The expression evaluator supports these types:
//
//   - Number: int, int64, float64
//   - String: string
//   - Boolean: bool
//   - Array: []interface{}
//   - Object: map[string]interface{}
//   - Null: nil
//
// Type coercion rules:
//
//   - Numbers are coerced for arithmetic operations
//   - Strings concatenate with + operator
//   - Booleans for logical operations
//   - Automatic conversion for comparisons
//
// # Error Handling
//
// The evaluator provides detailed error messages:
//
//   - Syntax errors: Invalid expression syntax
//   - Type errors: Incompatible types for operation
//   - Reference errors: Undefined field or variable
//   - Function errors: Invalid function arguments
//
// # Performance
//
//   - Compiled programs are cached by expression text in a process-wide
//     engine, so repeated evaluations of the same expression skip
//     compilation
//
// # Security Considerations
//
//   - No code execution: Expressions cannot execute arbitrary code
//   - Safe evaluation: No access to system resources
//   - Memory limits: Protection against resource exhaustion
//   - No recursion: Prevents stack overflow
//
// # Extension Points
//
// The function set above is fixed: there is no API for registering
// further functions.
//
// # Thread Safety
//
// Evaluate and EvaluateExpression are safe for concurrent use by
// multiple goroutines: the shared program cache is guarded by a mutex.
package expression
