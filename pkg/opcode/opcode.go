package opcode

type Opcode int

const (
	INVALID Opcode = iota

	operand_begin
	ADR
	CLL
	TST
	BT
	BF
	CL
	operand_end

	R
	ID
	NUM
	STR
	SET
	BE
	CI
	GN1
	GN2
	LB
	OUT
	END
)

var names = [...]string{
	INVALID: "INVALID",
	ADR:     "ADR",
	CLL:     "CLL",
	TST:     "TST",
	BT:      "BT",
	BF:      "BF",
	CL:      "CL",
	R:       "R",
	ID:      "ID",
	NUM:     "NUM",
	STR:     "STR",
	SET:     "SET",
	BE:      "BE",
	CI:      "CI",
	GN1:     "GN1",
	GN2:     "GN2",
	LB:      "LB",
	OUT:     "OUT",
	END:     "END",
}

func (op Opcode) String() string {
	if op < 0 || int(op) >= len(names) || names[op] == "" {
		return names[INVALID]
	}
	return names[op]
}

// HasOperand reports whether the instruction is written with an operand.
func (op Opcode) HasOperand() bool {
	return op > operand_begin && op < operand_end
}

// IsBranch reports whether the operand is a generated label.
func (op Opcode) IsBranch() bool {
	return op == BT || op == BF
}

// Lookup returns the opcode spelled name, or INVALID.
func Lookup(name string) (Opcode, bool) {
	for i, n := range names {
		if n != "" && Opcode(i) != INVALID && n == name {
			return Opcode(i), true
		}
	}

	return INVALID, false
}
