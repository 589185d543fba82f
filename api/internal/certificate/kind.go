package certificate

import (
	"encoding/json"
	"strconv"
	"strings"
)

// TypeKey is the classification answer's discriminator key.
const TypeKey = "帳票の種類"

// Kind is the certificate type the classification call settled on.
type Kind int

const (
	KindUnrecognized Kind = iota
	KindLife              // 生命保険料控除証明書
	KindEarthquake        // 地震保険料控除証明書
	KindSocial            // 社会保険料控除証明書
	KindSmallMutualAid    // 小規模企業共済等掛金控除証明書
)

// ParseKind maps the discriminator string "1".."4" to a Kind.
func ParseKind(s string) Kind {
	switch s {
	case "1":
		return KindLife
	case "2":
		return KindEarthquake
	case "3":
		return KindSocial
	case "4":
		return KindSmallMutualAid
	default:
		return KindUnrecognized
	}
}

func (k Kind) String() string {
	switch k {
	case KindLife:
		return "life"
	case KindEarthquake:
		return "earthquake"
	case KindSocial:
		return "social"
	case KindSmallMutualAid:
		return "small_mutual_aid"
	default:
		return "unrecognized"
	}
}

// PromptName is the extraction prompt for k, or "" when there is none.
func (k Kind) PromptName() string {
	switch k {
	case KindLife:
		return "life_insurance"
	case KindEarthquake:
		return "earthquake_insurance"
	case KindSocial:
		return "social_insurance"
	case KindSmallMutualAid:
		return "small_mutual_aid"
	default:
		return ""
	}
}

// Discriminator reads the certificate type out of a classification record.
// Strings are trimmed, numbers are printed without exponent, and a missing
// or null key reads as "0".
func Discriminator(rec map[string]any) string {
	v, ok := rec[TypeKey]
	if !ok || v == nil {
		return "0"
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	default:
		return stringify(t)
	}
}
