package vm

// ConformsToStandard checks a tokenized script against a standard's
// validation structure. The walk stops at the first mismatch.
func ConformsToStandard(tokens []string, std Standard) bool {
	template := ParseScript(std.Validation)
	if len(tokens) != len(template) {
		return false
	}
	for i, want := range template {
		got := tokens[i]
		switch {
		case want == NativeString && (IsHexMarked(got) || !isNumeric(got)):
			// Strings must not be readable as a native number.
		case want == NativeNumber && isNumeric(got):
		case want == got:
		default:
			return false
		}
	}
	return true
}

func ScriptConformsToStandard(script string, std Standard) bool {
	return ConformsToStandard(ParseScript(script), std)
}

// ConformsToStandardID looks the standard up by identifier. Unknown
// identifiers never conform.
func ConformsToStandardID(script, id string) bool {
	std, ok := LookupStandard(id)
	if !ok {
		return false
	}
	return ScriptConformsToStandard(script, std)
}

func isNumeric(tok string) bool {
	_, ok := ParseNumber(tok)
	return ok
}
