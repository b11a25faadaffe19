package program

// FormatKind tags the encoding layout of an instruction.
type FormatKind int

const (
	FormatR FormatKind = iota
	FormatI
	FormatIShift
	FormatS
	FormatB
	FormatU
	FormatJ
)

// Name returns the short name of the format.
func (k FormatKind) Name() string {
	switch k {
	case FormatR:
		return "R"
	case FormatI:
		return "I"
	case FormatIShift:
		return "I-shift"
	case FormatS:
		return "S"
	case FormatB:
		return "B"
	case FormatU:
		return "U"
	case FormatJ:
		return "J"
	default:
		panic("invalid format kind")
	}
}

// Format is the closed set of instruction layouts. Each variant carries
// only the fixed fields its layout has.
type Format interface {
	Kind() FormatKind
	OpcodeBits() uint32

	sealed()
}

// RType is the register-register layout.
type RType struct {
	Opcode uint32
	Funct3 uint32
	Funct7 uint32
}

// IType is the register-immediate layout used by ALU ops, loads and jalr.
type IType struct {
	Opcode uint32
	Funct3 uint32
}

// IShiftType is the I layout whose immediate's upper seven bits act as a
// funct7 discriminator (slli, srli, srai).
type IShiftType struct {
	Opcode uint32
	Funct3 uint32
	Funct7 uint32
}

// SType is the store layout.
type SType struct {
	Opcode uint32
	Funct3 uint32
}

// BType is the conditional branch layout.
type BType struct {
	Opcode uint32
	Funct3 uint32
}

// UType is the upper-immediate layout.
type UType struct {
	Opcode uint32
}

// JType is the jump layout.
type JType struct {
	Opcode uint32
}

func (RType) Kind() FormatKind      { return FormatR }
func (IType) Kind() FormatKind      { return FormatI }
func (IShiftType) Kind() FormatKind { return FormatIShift }
func (SType) Kind() FormatKind      { return FormatS }
func (BType) Kind() FormatKind      { return FormatB }
func (UType) Kind() FormatKind      { return FormatU }
func (JType) Kind() FormatKind      { return FormatJ }

func (f RType) OpcodeBits() uint32      { return f.Opcode }
func (f IType) OpcodeBits() uint32      { return f.Opcode }
func (f IShiftType) OpcodeBits() uint32 { return f.Opcode }
func (f SType) OpcodeBits() uint32      { return f.Opcode }
func (f BType) OpcodeBits() uint32      { return f.Opcode }
func (f UType) OpcodeBits() uint32      { return f.Opcode }
func (f JType) OpcodeBits() uint32      { return f.Opcode }

func (RType) sealed()      {}
func (IType) sealed()      {}
func (IShiftType) sealed() {}
func (SType) sealed()      {}
func (BType) sealed()      {}
func (UType) sealed()      {}
func (JType) sealed()      {}
