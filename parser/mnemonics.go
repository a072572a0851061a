package parser

import (
	"fmt"
	"strings"
)

// AddressingMode selects how a 16-bit operand is interpreted at runtime.
// The constant order matches the AAA bit encoding, I=0 through SFX=7.
type AddressingMode int

const (
	ModeI AddressingMode = iota
	ModeD
	ModeN
	ModeS
	ModeSF
	ModeX
	ModeSX
	ModeSFX
)

var modeNames = [...]string{"I", "D", "N", "S", "SF", "X", "SX", "SFX"}

func (m AddressingMode) String() string {
	if m >= 0 && int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("AddressingMode(%d)", int(m))
}

// AsAAA returns the three-bit encoding used by the AAA and RAAA families.
func (m AddressingMode) AsAAA() int {
	return int(m)
}

// AsA returns the single-bit encoding used by the A_ix family. Only I and X
// are representable.
func (m AddressingMode) AsA() (int, error) {
	switch m {
	case ModeI:
		return 0, nil
	case ModeX:
		return 1, nil
	}
	return 0, fmt.Errorf("invalid addressing mode for A type: %s", m)
}

// ParseAddressingMode resolves a (case-insensitive) mode name.
func ParseAddressingMode(name string) (AddressingMode, bool) {
	upper := strings.ToUpper(name)
	for i, n := range modeNames {
		if n == upper {
			return AddressingMode(i), true
		}
	}
	return 0, false
}

// Family is the instruction category that determines byte size and the set
// of permitted addressing modes.
type Family int

const (
	FamilyU Family = iota
	FamilyR
	FamilyAix
	FamilyAAAAll
	FamilyAAAI
	FamilyRAAAAll
	FamilyRAAANoI
)

// familyMasks holds one bit per addressing mode, bit i for AddressingMode(i).
var familyMasks = map[Family]int{
	FamilyU:       0,
	FamilyR:       0,
	FamilyAix:     1<<ModeI | 1<<ModeX,
	FamilyAAAAll:  0xFF,
	FamilyAAAI:    1 << ModeI,
	FamilyRAAAAll: 0xFF,
	FamilyRAAANoI: 0xFF &^ (1 << ModeI),
}

// Allows reports whether instructions of this family accept the mode.
func (f Family) Allows(m AddressingMode) bool {
	return familyMasks[f]&(1<<m) != 0
}

// IsUnary reports whether the family occupies a single opcode byte.
func (f Family) IsUnary() bool {
	return f == FamilyU || f == FamilyR
}

// Size returns the number of object-code bytes an instruction occupies.
func (f Family) Size() int {
	if f.IsUnary() {
		return 1
	}
	return 3
}

// Mnemonic couples an instruction name with its family and base bit pattern.
type Mnemonic struct {
	Name   string
	Family Family
	Bits   byte
}

// ToByte folds the addressing mode into the base pattern, producing the
// opcode byte. Unary families ignore the mode.
func (m Mnemonic) ToByte(am AddressingMode) (byte, error) {
	switch m.Family {
	case FamilyU, FamilyR:
		return m.Bits, nil
	case FamilyAix:
		bit, err := am.AsA()
		if err != nil {
			return 0, err
		}
		return m.Bits | byte(bit), nil
	default:
		return m.Bits | byte(am.AsAAA()), nil
	}
}

// Instructions is the static mnemonic catalog, name to family and base
// opcode byte.
var Instructions = map[string]Mnemonic{
	"RET":     {"RET", FamilyU, 0x01},
	"SRET":    {"SRET", FamilyU, 0x02},
	"MOVFLGA": {"MOVFLGA", FamilyU, 0x03},
	"MOVAFLG": {"MOVAFLG", FamilyU, 0x04},
	"MOVSPA":  {"MOVSPA", FamilyU, 0x05},
	"MOVASP":  {"MOVASP", FamilyU, 0x06},
	"NOP":     {"NOP", FamilyU, 0x07},

	"NOTA": {"NOTA", FamilyR, 0x18},
	"NOTX": {"NOTX", FamilyR, 0x19},
	"NEGA": {"NEGA", FamilyR, 0x1A},
	"NEGX": {"NEGX", FamilyR, 0x1B},
	"ASLA": {"ASLA", FamilyR, 0x1C},
	"ASLX": {"ASLX", FamilyR, 0x1D},
	"ASRA": {"ASRA", FamilyR, 0x1E},
	"ASRX": {"ASRX", FamilyR, 0x1F},
	"ROLA": {"ROLA", FamilyR, 0x20},
	"ROLX": {"ROLX", FamilyR, 0x21},
	"RORA": {"RORA", FamilyR, 0x22},
	"RORX": {"RORX", FamilyR, 0x23},

	"BR":   {"BR", FamilyAix, 0x24},
	"BRLE": {"BRLE", FamilyAix, 0x26},
	"BRLT": {"BRLT", FamilyAix, 0x28},
	"BREQ": {"BREQ", FamilyAix, 0x2A},
	"BRNE": {"BRNE", FamilyAix, 0x2C},
	"BRGE": {"BRGE", FamilyAix, 0x2E},
	"BRGT": {"BRGT", FamilyAix, 0x30},
	"BRV":  {"BRV", FamilyAix, 0x32},
	"BRC":  {"BRC", FamilyAix, 0x34},
	"CALL": {"CALL", FamilyAix, 0x36},

	"SCALL": {"SCALL", FamilyAAAAll, 0x38},
	"ADDSP": {"ADDSP", FamilyAAAAll, 0x40},
	"SUBSP": {"SUBSP", FamilyAAAAll, 0x48},

	"ADDA": {"ADDA", FamilyRAAAAll, 0x50},
	"ADDX": {"ADDX", FamilyRAAAAll, 0x58},
	"SUBA": {"SUBA", FamilyRAAAAll, 0x60},
	"SUBX": {"SUBX", FamilyRAAAAll, 0x68},
	"ANDA": {"ANDA", FamilyRAAAAll, 0x70},
	"ANDX": {"ANDX", FamilyRAAAAll, 0x78},
	"ORA":  {"ORA", FamilyRAAAAll, 0x80},
	"ORX":  {"ORX", FamilyRAAAAll, 0x88},
	"XORA": {"XORA", FamilyRAAAAll, 0x90},
	"XORX": {"XORX", FamilyRAAAAll, 0x98},
	"CPBA": {"CPBA", FamilyRAAAAll, 0xA0},
	"CPBX": {"CPBX", FamilyRAAAAll, 0xA8},
	"CPWA": {"CPWA", FamilyRAAAAll, 0xB0},
	"CPWX": {"CPWX", FamilyRAAAAll, 0xB8},
	"LDWA": {"LDWA", FamilyRAAAAll, 0xC0},
	"LDWX": {"LDWX", FamilyRAAAAll, 0xC8},
	"LDBA": {"LDBA", FamilyRAAAAll, 0xD0},
	"LDBX": {"LDBX", FamilyRAAAAll, 0xD8},

	"STWA": {"STWA", FamilyRAAANoI, 0xE0},
	"STWX": {"STWX", FamilyRAAANoI, 0xE8},
	"STBA": {"STBA", FamilyRAAANoI, 0xF0},
	"STBX": {"STBX", FamilyRAAANoI, 0xF8},
}

// DefaultAddressingModes maps mnemonics that may omit the ,mode clause to
// the mode applied in its absence. Branch-family instructions default to I.
var DefaultAddressingModes = map[string]AddressingMode{
	"BR":   ModeI,
	"BRLE": ModeI,
	"BRLT": ModeI,
	"BREQ": ModeI,
	"BRNE": ModeI,
	"BRGE": ModeI,
	"BRGT": ModeI,
	"BRV":  ModeI,
	"BRC":  ModeI,
	"CALL": ModeI,
}

// LookupMnemonic resolves a (case-insensitive) instruction name.
func LookupMnemonic(name string) (Mnemonic, bool) {
	mn, ok := Instructions[strings.ToUpper(name)]
	return mn, ok
}
