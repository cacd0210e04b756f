package vm

type Opcode uint32

const (
	NOP Opcode = iota

	// Arithmetic. STACK: A B ... | OP | ... C
	ADD // A B | C = A + B | C
	SUB // A B | C = A - B | C
	MUL // A B | C = A * B | C
	DIV // A B | C = A / B | C
	DUP // ... A | | ... A A

	// Operators and conditionals
	EQUAL        // A B | C = A == B | C
	LESSTHAN     // A B | C = A < B | C
	GREATERTHAN  // A B | C = A > B | C
	CONTINUETRUE // ... A | stop as valid unless A == 1 | ...

	// Time
	EPOCH      // | now, in seconds | T
	CHAINEPOCH // | epoch of this item's block, or EPOCH if unconfirmed | T

	// Here begin the contextual opcodes. They read chain and item state from the
	// ContextualData handed to the evaluator and cost more to run.
	GETBESTBLK   // | best block height | H
	ISNAMEUSED   // NAME ... | ZFI-1 name lookup | ... TX 1, or ... 0
	GETITEMEPOCH // ... TX | timestamp of item TX | ... T

	OpcodeMax
)

// Placeholder tokens used by standard templates. They never execute.
const (
	NativeString = "{native_string}"
	NativeNumber = "{native_number}"
)

func (o Opcode) String() string {
	switch o {
	case NOP:
		return "NOP"
	case ADD:
		return "ADD"
	case SUB:
		return "SUB"
	case MUL:
		return "MUL"
	case DIV:
		return "DIV"
	case DUP:
		return "DUP"
	case EQUAL:
		return "EQUAL"
	case LESSTHAN:
		return "LESSTHAN"
	case GREATERTHAN:
		return "GREATERTHAN"
	case CONTINUETRUE:
		return "CONTINUETRUE"
	case EPOCH:
		return "EPOCH"
	case CHAINEPOCH:
		return "CHAINEPOCH"
	case GETBESTBLK:
		return "GETBESTBLK"
	case ISNAMEUSED:
		return "ISNAMEUSED"
	case GETITEMEPOCH:
		return "GETITEMEPOCH"
	}
	panic("Unnamed opcode")
}

// IsContextual reports whether the opcode needs ContextualData from the caller.
func (o Opcode) IsContextual() bool {
	switch o {
	case GETBESTBLK, ISNAMEUSED, GETITEMEPOCH:
		return true
	}
	return false
}

// OpcodeInfo describes one entry of the opcode table.
type OpcodeInfo struct {
	Op          Opcode
	Name        string
	Category    string
	Contextual  bool
	Description string
}

var opcodeTable = []OpcodeInfo{
	{ADD, "ADD", "arithmetic", false, "Adds number 'A' to number 'B'"},
	{SUB, "SUB", "arithmetic", false, "Subtracts number 'B' from number 'A'"},
	{MUL, "MUL", "arithmetic", false, "Multiplies number 'A' with number 'B'"},
	{DIV, "DIV", "arithmetic", false, "Divides number 'A' by number 'B'"},
	{DUP, "DUP", "arithmetic", false, "Duplicates the newest entry as a cloned element"},
	{EQUAL, "EQUAL", "conditional", false, "Returns 1 if 'A' is equal to 'B', otherwise 0"},
	{LESSTHAN, "LESSTHAN", "conditional", false, "Returns 1 if 'A' is less than 'B', otherwise 0"},
	{GREATERTHAN, "GREATERTHAN", "conditional", false, "Returns 1 if 'A' is greater than 'B', otherwise 0"},
	{CONTINUETRUE, "CONTINUETRUE", "conditional", false, "Continues if the newest entry is 1, otherwise exits as valid"},
	{EPOCH, "EPOCH", "time", false, "Returns the current Unix epoch in seconds"},
	{CHAINEPOCH, "CHAINEPOCH", "time", false, "Returns the epoch of the item's block, or EPOCH if unconfirmed"},
	{GETBESTBLK, "GETBESTBLK", "blockchain", true, "Returns the best block height"},
	{ISNAMEUSED, "ISNAMEUSED", "item", true, "(ZFI-1) Returns TX and 1 if a ZFI-1 item named 'A' exists, otherwise 0"},
	{GETITEMEPOCH, "GETITEMEPOCH", "item", true, "(ZFI-1) Returns the epoch of the item with TX 'A'"},
}

var opcodesByName = func() map[string]Opcode {
	m := make(map[string]Opcode, len(opcodeTable))
	for _, info := range opcodeTable {
		m[info.Name] = info.Op
	}
	return m
}()

// Opcodes returns a copy of the opcode table in declaration order.
func Opcodes() []OpcodeInfo {
	out := make([]OpcodeInfo, len(opcodeTable))
	copy(out, opcodeTable)
	return out
}

// LookupOpcode resolves an instruction token. NOP is not addressable from scripts.
func LookupOpcode(name string) (Opcode, bool) {
	op, ok := opcodesByName[name]
	return op, ok
}
