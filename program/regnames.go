package program

import (
	"fmt"
	"sync"
)

// NumRegisters is the size of the RV32 integer register file.
const NumRegisters = 32

// RegisterNames binds register names to register numbers. A number can
// carry several names; the first one bound is its canonical ABI name.
type RegisterNames struct {
	nameToNum map[string]uint32
	numToName [NumRegisters]string
}

// NewRegisterNames creates an empty binding.
func NewRegisterNames() *RegisterNames {
	return &RegisterNames{
		nameToNum: make(map[string]uint32),
	}
}

// Bind binds name to register num. Rebinding a name panics.
func (r *RegisterNames) Bind(name string, num uint32) {
	if num >= NumRegisters {
		panic(fmt.Sprintf("register %d out of range", num))
	}

	if _, ok := r.nameToNum[name]; ok {
		panic(fmt.Sprintf("register name %s bound twice", name))
	}

	r.nameToNum[name] = num
	if r.numToName[num] == "" {
		r.numToName[num] = name
	}
}

// BindSeries binds prefix+"0", prefix+"1", ... to consecutive registers
// starting at first.
func (r *RegisterNames) BindSeries(prefix string, first uint32, n int) {
	for i := 0; i < n; i++ {
		r.Bind(fmt.Sprintf("%s%d", prefix, i), first+uint32(i))
	}
}

// Lookup returns the register a name is bound to.
func (r *RegisterNames) Lookup(name string) (uint32, bool) {
	num, ok := r.nameToNum[name]
	return num, ok
}

// Name returns the canonical name of a register, or "" if it has none.
func (r *RegisterNames) Name(num uint32) string {
	if num >= NumRegisters {
		return ""
	}

	return r.numToName[num]
}

// Len returns the number of bound names.
func (r *RegisterNames) Len() int {
	return len(r.nameToNum)
}

var abiNames = sync.OnceValue(func() *RegisterNames {
	r := NewRegisterNames()

	r.Bind("zero", 0)
	r.Bind("ra", 1)
	r.Bind("sp", 2)
	r.Bind("gp", 3)
	r.Bind("tp", 4)
	r.BindSeries("t", 5, 3)
	r.Bind("s0", 8)
	r.Bind("fp", 8)
	r.Bind("s1", 9)
	r.BindSeries("a", 10, 8)
	for i := 2; i <= 11; i++ {
		r.Bind(fmt.Sprintf("s%d", i), uint32(16+i))
	}
	for i := 3; i <= 6; i++ {
		r.Bind(fmt.Sprintf("t%d", i), uint32(25+i))
	}

	return r
})

// ABINames returns the standard RISC-V calling convention register
// names. The returned binding is shared and must not be modified.
func ABINames() *RegisterNames {
	return abiNames()
}
