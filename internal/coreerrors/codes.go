// Package coreerrors is the structured error model of spec.md §4.7: kind,
// type, effect, instance, and safety/redundancy error shapes, each
// carrying a primary and optional secondary source locations plus
// renderable structured fields rather than a pre-formatted string.
//
// Grounded on internal/errors/codes.go's phase-tagged code registry
// (category/description per code) merged with internal/types/errors.go's
// TypeCheckError (kind/path/position/expected/actual/suggestion), into
// one CoreError struct carrying a machine-readable Code in new
// TC0xx/EFF0xx/INST0xx ranges layered onto the teacher's TC0xx namespace.
package coreerrors

// Code is a machine-readable error identifier, e.g. "TC004" or "EFF001".
type Code string

const (
	// Kind errors
	CodeMismatchedKinds  Code = "TC101"
	CodeUnexpectedKind   Code = "TC102"
	CodeUninferrableKind Code = "TC103"

	// Type errors
	CodeMismatchedTypes     Code = "TC001"
	CodeOccursCheck         Code = "TC004"
	CodeIrreducibleAssoc    Code = "TC104"
	CodeArityMismatch       Code = "TC105"

	// Effect errors
	CodeUnsupportedEquality Code = "EFF001"

	// Instance errors
	CodeOverlappingInstances          Code = "INST001"
	CodeComplexInstanceType           Code = "INST002"
	CodeDuplicateTypeVarOccurrence    Code = "INST003"
	CodeMissingImplementation         Code = "INST004"
	CodeMismatchedSignatures          Code = "INST005"
	CodeExtraneousDefinition          Code = "INST006"
	CodeAmbiguousInstance             Code = "INST007"

	// Safety/redundancy errors, surfaced here but consumed by an external,
	// out-of-scope pass (spec.md §1 Non-goals).
	CodeIllegalNonPositivelyBoundVariable    Code = "SAFE001"
	CodeIllegalRelationalUseOfLatticeVariable Code = "SAFE002"

	// Generator-side
	CodeUnsupportedConstruct Code = "GEN001"
)

// Category groups codes for reporting/filtering, mirroring the teacher's
// phase/category split in its ErrorRegistry.
type Category string

const (
	CategoryKind     Category = "kind"
	CategoryType     Category = "type"
	CategoryEffect   Category = "effect"
	CategoryInstance Category = "instance"
	CategorySafety   Category = "safety"
	CategoryGen      Category = "generator"
)

// codeInfo is the static description attached to each Code, analogous to
// the teacher's ErrorInfo registry entries.
type codeInfo struct {
	Category    Category
	Description string
}

var registry = map[Code]codeInfo{
	CodeMismatchedKinds:  {CategoryKind, "Mismatched kinds"},
	CodeUnexpectedKind:   {CategoryKind, "Unexpected kind in this position"},
	CodeUninferrableKind: {CategoryKind, "Could not infer a kind"},

	CodeMismatchedTypes:  {CategoryType, "Type mismatch"},
	CodeOccursCheck:      {CategoryType, "Occurs check failed"},
	CodeIrreducibleAssoc: {CategoryType, "Irreducible associated type"},
	CodeArityMismatch:    {CategoryType, "Arity mismatch"},

	CodeUnsupportedEquality: {CategoryEffect, "Unsupported effect equality"},

	CodeOverlappingInstances:           {CategoryInstance, "Overlapping instances"},
	CodeComplexInstanceType:            {CategoryInstance, "Instance head too complex"},
	CodeDuplicateTypeVarOccurrence:     {CategoryInstance, "Duplicate type variable occurrence"},
	CodeMissingImplementation:          {CategoryInstance, "Missing method implementation"},
	CodeMismatchedSignatures:           {CategoryInstance, "Method signature mismatch"},
	CodeExtraneousDefinition:           {CategoryInstance, "Extraneous definition"},
	CodeAmbiguousInstance:              {CategoryInstance, "Ambiguous instance"},

	CodeIllegalNonPositivelyBoundVariable:     {CategorySafety, "Illegal non-positively bound variable"},
	CodeIllegalRelationalUseOfLatticeVariable: {CategorySafety, "Illegal relational use of lattice variable"},

	CodeUnsupportedConstruct: {CategoryGen, "Unsupported construct"},
}

// Describe returns the category and human description registered for
// code, or the zero Category and an empty description if code is unknown.
func Describe(code Code) (Category, string) {
	info, ok := registry[code]
	if !ok {
		return "", ""
	}
	return info.Category, info.Description
}
