// Package typedtypes defines the contracts shared by the type system, the
// command metadata layer and the hierarchical shell: type implementations and
// their optional capabilities, composite type factories, command parameter and
// return declarations, and the error taxonomy.
package typedtypes
