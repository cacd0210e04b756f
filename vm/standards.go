package vm

// Standard is a published contract template. Validation is the token
// structure a conforming validation script must follow; NativeString and
// NativeNumber stand for any literal of that kind.
type Standard struct {
	ID          string
	Title       string
	Description string
	Validation  string
}

const ZFI1 = "ZFI-1"

// If NAME is used, push TRUE and its TX (else FALSE).
// If TRUE, continue (else the name is free and the item is valid).
// Push TX's epoch, then this item's chain epoch.
// Valid only if the other item is newer than ours.
var zfi1 = Standard{
	ID:    ZFI1,
	Title: "Unique, immalleable, indivisible tokens",
	Description: "A ZFI-1 token's name cannot be re-used by a later ZFI-1 token. " +
		"When two exist with the same name, the newest is rejected and the oldest remains.",
	Validation: NativeString + " ISNAMEUSED CONTINUETRUE GETITEMEPOCH CHAINEPOCH GREATERTHAN",
}

var standards = map[string]Standard{
	ZFI1: zfi1,
}

// Standards returns a copy of the registry.
func Standards() map[string]Standard {
	out := make(map[string]Standard, len(standards))
	for k, v := range standards {
		out[k] = v
	}
	return out
}

func LookupStandard(id string) (Standard, bool) {
	s, ok := standards[id]
	return s, ok
}
