package typemap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDocParser(t *testing.T) {
	cases := map[string]map[string]Annotation{
		"": {},

		"plain text without tags": {},

		"@var int": {
			"var": {Type: "int"},
		},

		"@var OrderLine[] the lines of this order": {
			"var": {Type: "OrderLine[]", Description: "the lines of this order"},
		},

		"The customer. @var \\Customer the buyer @deprecated use Buyer": {
			"var":        {Type: `\Customer`, Description: "the buyer"},
			"deprecated": {Type: "use", Description: "Buyer"},
		},

		"@var string first @var int second": {
			"var": {Type: "string", Description: "first"},
		},

		"@var\n\tAddress\n  multi line": {
			"var": {Type: "Address", Description: "multi line"},
		},

		"@var": {
			"var": {},
		},

		"contact me at mail@example.com": {},
	}

	for doc, expected := range cases {
		require.Equal(t, expected, DocParser{}.ParseAnnotations(doc), "doc %q", doc)
	}
}

type staticAnnotations map[string]Annotation

func (s staticAnnotations) ParseAnnotations(string) map[string]Annotation {
	return s
}

func TestMapperWithAnnotationParser(t *testing.T) {
	type Struct struct {
		Count any
	}

	m := NewMapper().WithAnnotationParser(staticAnnotations{"var": {Type: "int"}})

	stud, err := MapWith[Struct](t.Context(), m, Mapping(Pair("Count", String("12"))))
	require.NoError(t, err)
	require.Equal(t, stud, Struct{Count: 12})
}

func TestMapperWithDocTag(t *testing.T) {
	type Struct struct {
		Count any `phpdoc:"@var int"`
	}

	input := Mapping(Pair("Count", String("12")))

	stud, err := Map[Struct](input)
	require.NoError(t, err)
	require.Equal(t, stud, Struct{Count: "12"})

	stud, err = MapWith[Struct](t.Context(), NewMapper().WithDocTag("phpdoc"), input)
	require.NoError(t, err)
	require.Equal(t, stud, Struct{Count: 12})
}
