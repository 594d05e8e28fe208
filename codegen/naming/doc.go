// Package naming contains the identifier rules shared by the contract
// renderers.
//
// Contract names (parameter names, artifact ids, step ids, error codes) are
// arbitrary strings. SafeIdentifier turns them into snake_case identifiers,
// Mapper records the resulting association per scope so generated code can
// map contract-facing names back to generated fields, and GoScope derives the
// exported Go names used for struct fields and methods.
package naming
