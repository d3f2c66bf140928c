package ckb

import (
	"fmt"

	"github.com/votesecure/deployer/src/utils/config"
)

// OneCkb is the number of shannons in one CKB
const OneCkb = 100_000_000

// CapacityCalculator computes the minimum economic backing of the
// deployment cell. All arithmetic stays in uint64 shannons, the
// major/minor unit boundary is never crossed through floats.
type CapacityCalculator struct {
	// In CKB
	minCellReserve uint64
	safetyBuffer   uint64
}

func NewCapacityCalculator(config *config.Config) (self *CapacityCalculator) {
	self = new(CapacityCalculator)
	self.minCellReserve = config.Deployer.MinCellReserve
	self.safetyBuffer = config.Deployer.SafetyBuffer
	return
}

// Required returns the capacity in shannons for a cell storing
// payloadSize bytes. Every stored byte occupies one CKB of capacity, on
// top of the minimum cell reserve and the safety buffer. The sum is
// built in major units and converted once at the end, so there is no
// rounding at the unit boundary.
func (self *CapacityCalculator) Required(payloadSize uint64) uint64 {
	return (self.minCellReserve + payloadSize + self.safetyBuffer) * OneCkb
}

// FormatCkb renders a shannon amount as a decimal CKB string for logs
// and records. Display only, never fed back into capacity math.
func FormatCkb(shannons uint64) string {
	return fmt.Sprintf("%d.%08d", shannons/OneCkb, shannons%OneCkb)
}
