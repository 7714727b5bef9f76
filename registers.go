// registers.go - GS privileged/context register addresses
//
// Grounded on voodoo_constants.go's register-address const block
// (VOODOO_BASE + offset, one named constant per MMIO register);
// generalized here to the GS's address-number model, where each
// register is a small integer (not a byte offset) used both as the
// A+D payload's address field and as the index in the packed-register
// dispatch table (spec.md §4.3/§4.4).

package gs

// RegAddr is a GS register address as carried in the low byte of an
// A+D register write.
type RegAddr uint8

const (
	RegPRIM       RegAddr = 0x00
	RegRGBAQ      RegAddr = 0x01
	RegST         RegAddr = 0x02
	RegUV         RegAddr = 0x03
	RegXYZF2      RegAddr = 0x04
	RegXYZ2       RegAddr = 0x05
	RegTEX0_1     RegAddr = 0x06
	RegTEX0_2     RegAddr = 0x07
	RegCLAMP_1    RegAddr = 0x08
	RegCLAMP_2    RegAddr = 0x09
	RegFOG        RegAddr = 0x0A
	RegXYZF3      RegAddr = 0x0C
	RegXYZ3       RegAddr = 0x0D
	RegTEX1_1     RegAddr = 0x14
	RegTEX1_2     RegAddr = 0x15
	RegTEX2_1     RegAddr = 0x16
	RegTEX2_2     RegAddr = 0x17
	RegXYOFFSET_1 RegAddr = 0x18
	RegXYOFFSET_2 RegAddr = 0x19
	RegPRMODECONT RegAddr = 0x1A
	RegPRMODE     RegAddr = 0x1B
	RegTEXCLUT    RegAddr = 0x1C
	RegSCANMSK    RegAddr = 0x22
	RegMIPTBP1_1  RegAddr = 0x34
	RegMIPTBP1_2  RegAddr = 0x35
	RegMIPTBP2_1  RegAddr = 0x36
	RegMIPTBP2_2  RegAddr = 0x37
	RegTEXA       RegAddr = 0x3B
	RegFOGCOL     RegAddr = 0x3D
	RegTEXFLUSH   RegAddr = 0x3F
	RegSCISSOR_1  RegAddr = 0x40
	RegSCISSOR_2  RegAddr = 0x41
	RegALPHA_1    RegAddr = 0x42
	RegALPHA_2    RegAddr = 0x43
	RegDIMX       RegAddr = 0x44
	RegDTHE       RegAddr = 0x45
	RegCOLCLAMP   RegAddr = 0x46
	RegTEST_1     RegAddr = 0x47
	RegTEST_2     RegAddr = 0x48
	RegPABE       RegAddr = 0x49
	RegFBA_1      RegAddr = 0x4A
	RegFBA_2      RegAddr = 0x4B
	RegFRAME_1    RegAddr = 0x4C
	RegFRAME_2    RegAddr = 0x4D
	RegZBUF_1     RegAddr = 0x4E
	RegZBUF_2     RegAddr = 0x4F
	RegBITBLTBUF  RegAddr = 0x50
	RegTRXPOS     RegAddr = 0x51
	RegTRXREG     RegAddr = 0x52
	RegTRXDIR     RegAddr = 0x53
	RegHWREG      RegAddr = 0x54
	RegSIGNAL     RegAddr = 0x60
	RegFINISH     RegAddr = 0x61
	RegLABEL      RegAddr = 0x62
)

// bits extracts a width-bit field at offset from a 64-bit register
// payload, the same "offset/width sub-field" idea voodoo_constants.go
// expresses as bit-shifted mask constants, generalized here into one
// reusable extractor instead of one constant pair per field.
func bits(v uint64, offset, width uint) uint64 {
	return (v >> offset) & ((1 << width) - 1)
}

func signExtend(v uint64, width uint) int64 {
	shift := 64 - width
	return int64(v<<shift) >> shift
}
