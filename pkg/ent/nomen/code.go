package nomen

import "strings"

// Code is a nomenclatural code.
type Code uint8

const (
	UnknownCode Code = iota
	Botanical
	Zoological
	Bacterial
	Virus
	Cultivars
)

var codeNames = [...]string{
	UnknownCode: "unknown",
	Botanical:   "botanical",
	Zoological:  "zoological",
	Bacterial:   "bacterial",
	Virus:       "virus",
	Cultivars:   "cultivars",
}

var codeAliases = map[string]Code{
	"icn":          Botanical,
	"icbn":         Botanical,
	"iczn":         Zoological,
	"icnp":         Bacterial,
	"icnb":         Bacterial,
	"ictv":         Virus,
	"icvcn":        Virus,
	"icncp":        Cultivars,
	"botany":       Botanical,
	"zoology":      Zoological,
	"bacteriology": Bacterial,
	"viral":        Virus,
	"cultivated":   Cultivars,
}

func (c Code) String() string {
	if int(c) < len(codeNames) {
		return codeNames[c]
	}
	return codeNames[UnknownCode]
}

// ParseCode interprets a verbatim nomenclatural code. Empty input returns
// UnknownCode and true, because absence of a code is not an error.
func ParseCode(s string) (Code, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return UnknownCode, true
	}
	if c, ok := codeAliases[s]; ok {
		return c, true
	}
	for i, v := range codeNames {
		if v == s {
			return Code(i), true
		}
	}
	return UnknownCode, false
}
