package dfu

import "github.com/chenzhuoyu/KeyboardBootloader/hal"

// MemoryKind identifies which region a session currently targets.
type MemoryKind = hal.MemoryKind

// Region kinds, wire-stable (§6).
const (
	MemFlash  = hal.MemoryFlash
	MemEEPROM = hal.MemoryEEPROM
)

// RegionDescriptor is the immutable per-kind tuple of §3: total size, page
// granularity, and the writable upper bound that reserves the
// bootloader's own pages from being overwritten.
type RegionDescriptor struct {
	Kind               MemoryKind
	TotalSize          uint16
	PageSize           uint16
	WritableUpperBound uint16
}

// Reference region parameters (§3, §8 scenarios).
var (
	FlashRegion = RegionDescriptor{
		Kind:               MemFlash,
		TotalSize:          0x4000,
		PageSize:           128,
		WritableUpperBound: 0x3000,
	}
	EEPROMRegion = RegionDescriptor{
		Kind:               MemEEPROM,
		TotalSize:          0x0200,
		PageSize:           4,
		WritableUpperBound: 0x0200,
	}
)

// RegionFor returns the descriptor for kind and true, or the zero value
// and false if kind is not a recognized region.
func RegionFor(kind MemoryKind) (RegionDescriptor, bool) {
	switch kind {
	case MemFlash:
		return FlashRegion, true
	case MemEEPROM:
		return EEPROMRegion, true
	default:
		return RegionDescriptor{}, false
	}
}

// MaxPageSize is the static page-buffer size, large enough for the larger
// of the two reference regions (§5 "Resource discipline": all buffers are
// statically sized by MAX(FLASH_PAGE, EEPROM_PAGE)).
const MaxPageSize = 128
