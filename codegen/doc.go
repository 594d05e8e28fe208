// Package codegen renders the six skeleton artifacts of a module from its
// contract.
//
// Each renderer builds a goa codegen.File made of SectionTemplates whose
// sources are embedded templates. Render executes the sections in order and
// formats Go output with gofumpt, so a renderer that emits invalid Go fails
// at render time instead of producing a broken package on disk.
//
// Generator contracts (keep these consistent)
//
//   - Every artifact starts with the traceability header produced by stamp.go.
//     The header depends only on the contract metadata, the generator Version
//     and the regeneration command, never on the environment.
//   - Generated Go code imports the standard library only. Each renderer lists
//     the imports its templates use; gofumpt does not prune unused imports.
//   - Contract collections are visited in sorted order (parameters by name,
//     artifacts by id) so renders do not depend on contract key order. Steps,
//     constraints and rules keep their declared order.
//   - Package-level names derived from contract values go through one
//     naming.GoScope seeded with reservedNames.
package codegen
