//go:build !debug_life_utils

package lifeutils

// DebugValidate will call Validate on the provided object and panics if any errors are returned. This
// method no-ops unless the debug_life_utils build tag is present
func DebugValidate(validatable Validatable) {
}

// DebugAssert panics with the provided message when cond is false. This method no-ops
// unless the debug_life_utils build tag is present.
func DebugAssert(cond bool, format string, args ...any) {
}
