package coreerrors

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axion-lang/coreinfer/internal/coreast"
	"github.com/axion-lang/coreinfer/internal/coretypes"
)

func TestDescribeKnownCode(t *testing.T) {
	cat, desc := Describe(CodeOccursCheck)
	assert.Equal(t, CategoryType, cat)
	assert.NotEmpty(t, desc)
}

func TestDescribeUnknownCode(t *testing.T) {
	cat, desc := Describe(Code("NOPE"))
	assert.Empty(t, cat)
	assert.Empty(t, desc)
}

func TestMismatchedTypesError(t *testing.T) {
	expected := &coretypes.Cst{Tag: coretypes.TagInt32}
	actual := &coretypes.Cst{Tag: coretypes.TagString}
	err := MismatchedTypes(coreast.Loc{File: "f.ax", Line: 3}, expected, actual)
	assert.Contains(t, err.Error(), "TC001")
	assert.Contains(t, err.Error(), "f.ax:3")
}

func TestPlainFormatterIncludesExpectedAndActual(t *testing.T) {
	expected := &coretypes.Cst{Tag: coretypes.TagInt32}
	actual := &coretypes.Cst{Tag: coretypes.TagString}
	err := MismatchedTypes(coreast.Loc{}, expected, actual)
	out := PlainFormatter{}.Format(err)
	assert.Contains(t, out, "expected:")
	assert.Contains(t, out, "actual:")
}

func TestJSONFormatterProducesValidSortedJSON(t *testing.T) {
	err := UnsupportedConstruct(coreast.Loc{File: "f.ax", Line: 1}, "DatalogAtom")
	out := JSONFormatter{}.Format(err)

	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	assert.Equal(t, "GEN001", m["code"])
	assert.Equal(t, "DatalogAtom", m["note"])

	// Re-encoding twice must be byte-identical: keys are sorted.
	out2 := JSONFormatter{}.Format(err)
	assert.Equal(t, out, out2)
}

func TestANSIFormatterDoesNotPanicOnEmptyError(t *testing.T) {
	err := &CoreError{Code: CodeMismatchedKinds, Loc: coreast.Loc{}}
	assert.NotPanics(t, func() { ANSIFormatter{}.Format(err) })
}
