package bind

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/avalanche-core/strval"
)

func TestFuncSpecStringFormRoundTrip(t *testing.T) {
	ret := Descriptor{Tag: "int"}
	fileArg := Descriptor{Tag: "FILE", IsPointer: true, Mutable: true}
	strArg := Descriptor{Tag: "char", IsPointer: true, Mutable: false}

	f := FuncSpec{
		Address:    4096,
		Convention: ConventionC,
		Return:     &ret,
		Args: []ArgSpec{
			{Marshal: &fileArg, Kind: Pos},
			{Marshal: &strArg, Kind: NamedDefault, Name: "-mode", Default: strval.New("r")},
		},
	}
	require.NoError(t, f.Validate())

	s := f.ToString()
	require.Equal(t, "4096 c int {FILE* pos} {char& named -mode r}", s)

	parsed, err := FuncSpecOf(s)
	require.NoError(t, err)
	require.Equal(t, f.Address, parsed.Address)
	require.Equal(t, f.Convention, parsed.Convention)
	require.Equal(t, "int", parsed.Return.Tag)
	require.Len(t, parsed.Args, 2)
	require.Equal(t, Pos, parsed.Args[0].Kind)
	require.True(t, parsed.Args[0].Marshal.IsPointer)
	require.True(t, parsed.Args[0].Marshal.Mutable)
	require.Equal(t, NamedDefault, parsed.Args[1].Kind)
	require.Equal(t, "-mode", parsed.Args[1].Name)
	require.Equal(t, "r", strval.Materialize(parsed.Args[1].Default))
	require.Equal(t, s, parsed.ToString())
}

func TestFuncSpecOfAvaConventionSkipsMarshal(t *testing.T) {
	parsed, err := FuncSpecOf("7 ava {pos} {varargs}")
	require.NoError(t, err)
	require.Nil(t, parsed.Return)
	require.Len(t, parsed.Args, 2)
	require.Nil(t, parsed.Args[0].Marshal)
	require.Equal(t, Pos, parsed.Args[0].Kind)
	require.Equal(t, Varargs, parsed.Args[1].Kind)
}

func TestFuncSpecOfRejectsBadForms(t *testing.T) {
	for _, s := range []string{
		"",
		"7",
		"7 pascal {pos}",
		"not-an-addr ava {pos}",
		"7 ava {frobnicate}",
		"7 ava {implicit x}", // no non-implicit argument
	} {
		_, err := FuncSpecOf(s)
		require.Error(t, err, "FuncSpecOf(%q)", s)
	}
}
