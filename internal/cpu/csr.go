// csr.go - recognised CSR indices and the 4096-entry CSR array.

package cpu

// Recognised CSR indices, per the reference implementation.
const (
	CSRMCycle     = 0xB00
	CSRRDCycle    = 0xC00
	CSRRDCycleH   = 0xC83
	CSRRDTime     = 0xC01
	CSRRDTimeH    = 0xC81
	CSRRDInstret  = 0xC02
	CSRRDInstretH = 0xC82
	CSRMCPUID     = 0xF00
	CSRMImpID     = 0xF01
)

// csrCount is the size of the CSR address space (12-bit index).
const csrCount = 4096
