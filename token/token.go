package token

// A Kind classifies the lexeme the Tokenizer is currently positioned on.
// For example, the JSON value
//
//	{"id": 123, "tags": ["new"]}
//
// is seen by a Tokenizer as the sequence (in pseudocode for clarity):
//
//	{        -> BeginObject
//	"id":    -> Name("id")
//	123,     -> Number("123")
//	"tags":  -> Name("tags")
//	[        -> BeginArray
//	"new"    -> String("new")
//	]        -> EndArray
//	}        -> EndObject
//
// Name, String and Number tokens carry a value slice borrowed from the
// input buffer; the other kinds carry no payload.
type Kind uint8

const (
	// None is the kind reported before the first Next call and after the
	// stream is exhausted or invalidated.
	None Kind = iota

	BeginObject // '{'
	EndObject   // '}'
	BeginArray  // '['
	EndArray    // ']'

	Name   // an object member name (contents of the quoted string)
	String // a string value (contents of the quoted string, still escaped)
	Number // a number value (raw, undecoded digits)

	True
	False
	Null

	// Extension literals, only produced when Tokenizer.ExtendedLiterals is
	// set.
	NaN
	Infinity
	NegInfinity
)

var kindNames = [...]string{
	None:        "None",
	BeginObject: "BeginObject",
	EndObject:   "EndObject",
	BeginArray:  "BeginArray",
	EndArray:    "EndArray",
	Name:        "Name",
	String:      "String",
	Number:      "Number",
	True:        "True",
	False:       "False",
	Null:        "Null",
	NaN:         "NaN",
	Infinity:    "Infinity",
	NegInfinity: "NegInfinity",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsScalar reports whether k is a value kind with no nested structure.
func (k Kind) IsScalar() bool {
	return k >= String && k <= NegInfinity
}

// IsValue reports whether a token of kind k starts a JSON value (as opposed
// to a member name or a container terminator).
func (k Kind) IsValue() bool {
	return k == BeginObject || k == BeginArray || k.IsScalar()
}
