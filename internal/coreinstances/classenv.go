// Package coreinstances holds the two read-only environments consulted
// during constraint solving: class instances (spec.md §3's class
// constraints) and associated-type definitional clauses (spec.md §4.3
// rule 6). Both environments are built once before inference starts and
// shared read-only across the parallel per-definition workers of
// spec.md §5, so neither type here needs internal locking.
//
// Grounded on internal/types/instances.go's InstanceEnv (coherence-checked
// Add/Lookup, superclass derivation) and internal/types/dictionaries.go's
// DictionaryRegistry (normalized string-key lookup idiom). Associated
// types have no teacher precedent — ailang has no type-family mechanism —
// so AssocEnv is a from-scratch generalization of InstanceEnv's
// single-instance-per-head lookup to a list of definitional clauses
// reduced by most-general match.
package coreinstances

import (
	"fmt"
	"sort"
	"strings"

	"github.com/axion-lang/coreinfer/internal/coreast"
	"github.com/axion-lang/coreinfer/internal/coretypes"
)

// Instance is a single class-instance declaration: `instance Functor[List]`.
type Instance struct {
	Class     coreast.Symbol
	Head      coretypes.Type // the instance's principal type, e.g. List[a]
	Super     []coreast.Symbol
	Loc       coreast.Loc
}

// OverlapError reports two instances whose heads cannot be told apart.
type OverlapError struct {
	Class      coreast.Symbol
	HeadKey    string
	First, New coreast.Loc
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("overlapping instances for %s[%s] at %s and %s", e.Class, e.HeadKey, e.First, e.New)
}

// MissingInstanceError reports that no instance covers a required class
// constraint after solving.
type MissingInstanceError struct {
	Class coreast.Symbol
	Head  coretypes.Type
	Loc   coreast.Loc
}

func (e *MissingInstanceError) Error() string {
	return fmt.Sprintf("no instance for %s[%s]", e.Class, e.Head)
}

// ClassEnv is a coherence-checked registry of class instances, keyed by
// class name and the instance head's outer constructor (ignoring type
// variable arguments, exactly as the teacher's NormalizeTypeName does for
// InstanceEnv).
type ClassEnv struct {
	instances map[string]*Instance
	supers    map[string][]string // not populated; Lookup reads Instance.Super directly
}

// NewClassEnv returns an empty class environment.
func NewClassEnv() *ClassEnv {
	return &ClassEnv{instances: make(map[string]*Instance)}
}

// Add registers an instance, returning an OverlapError if an instance
// with the same class and head constructor is already present.
func (env *ClassEnv) Add(inst *Instance) error {
	key := classKey(inst.Class, inst.Head)
	if existing, ok := env.instances[key]; ok {
		return &OverlapError{Class: inst.Class, HeadKey: headKey(inst.Head), First: existing.Loc, New: inst.Loc}
	}
	env.instances[key] = inst
	return nil
}

// Lookup finds the instance covering class for the given head type,
// falling back to superclass-provided instances (e.g. an Order instance
// also provides Eq) exactly as the teacher derives Eq from Ord.
func (env *ClassEnv) Lookup(class coreast.Symbol, head coretypes.Type) (*Instance, error) {
	if inst, ok := env.instances[classKey(class, head)]; ok {
		return inst, nil
	}
	for key, inst := range env.instances {
		if !strings.HasSuffix(key, "::"+headKey(head)) {
			continue
		}
		for _, super := range inst.Super {
			if super == class {
				return inst, nil
			}
		}
	}
	return nil, &MissingInstanceError{Class: class, Head: head}
}

// All returns every registered instance, sorted by class then head key,
// for deterministic diagnostics and tests.
func (env *ClassEnv) All() []*Instance {
	out := make([]*Instance, 0, len(env.instances))
	for _, inst := range env.instances {
		out = append(out, inst)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Class.Name != out[j].Class.Name {
			return out[i].Class.Name < out[j].Class.Name
		}
		return headKey(out[i].Head) < headKey(out[j].Head)
	})
	return out
}

func classKey(class coreast.Symbol, head coretypes.Type) string {
	return fmt.Sprintf("%s::%s", class, headKey(head))
}

// headKey normalizes a type to the string identity of its outermost
// constructor, unwrapping curried Apply nodes and transparent aliases so
// `instance Eq[List]` matches both `List` and any fully-applied
// `List[Int]` argument shape.
func headKey(t coretypes.Type) string {
	t = coretypes.Unfold(t)
	switch n := t.(type) {
	case *coretypes.Apply:
		return headKey(n.Head)
	case *coretypes.Cst:
		if n.Tag == coretypes.TagEnum {
			return n.Sym.String()
		}
		return n.Tag.String()
	case *coretypes.Var:
		return "_"
	default:
		return t.String()
	}
}
