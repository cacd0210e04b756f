package vm

import "strings"

// ParseScript splits a script on single spaces. It does not trim or validate;
// consecutive spaces produce empty tokens.
func ParseScript(script string) []string {
	return strings.Split(script, " ")
}

var contextualOrder = []Opcode{GETBESTBLK, ISNAMEUSED, GETITEMEPOCH}

// ContainsContextualCodes reports which contextual opcodes appear in the
// script, in the fixed order GETBESTBLK, ISNAMEUSED, GETITEMEPOCH. It returns
// nil when the script needs no ContextualData.
func ContainsContextualCodes(script string) []Opcode {
	present := make(map[Opcode]bool)
	for _, tok := range ParseScript(script) {
		if op, ok := LookupOpcode(tok); ok && op.IsContextual() {
			present[op] = true
		}
	}
	var out []Opcode
	for _, op := range contextualOrder {
		if present[op] {
			out = append(out, op)
		}
	}
	return out
}

const (
	tokenCost      = 1
	contextualCost = 10
)

// ScriptCost prices a script without running it: one unit per token and
// contextualCost per contextual opcode.
func ScriptCost(script string) int64 {
	var cost int64
	for _, tok := range ParseScript(script) {
		if op, ok := LookupOpcode(tok); ok && op.IsContextual() {
			cost += contextualCost
			continue
		}
		cost += tokenCost
	}
	return cost
}

// IsTimeDependent reports whether the script may read the wall clock. EPOCH
// always does; CHAINEPOCH does when the item is unconfirmed.
func IsTimeDependent(script string) bool {
	for _, tok := range ParseScript(script) {
		if tok == EPOCH.String() || tok == CHAINEPOCH.String() {
			return true
		}
	}
	return false
}
