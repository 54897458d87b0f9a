package telemetry

import "github.com/rubenCodeforges/ardudeck-sub002/internal/msp"

// mspBoxName maps the well-known Betaflight/iNav box IDs to a flight
// mode label. MSP has no single "current mode" field; a GCS resolves it
// by scanning the active box mask (from MSP_STATUS) against the
// highest-priority matching box, the same precedence Betaflight's OSD
// uses when picking a single mode string to display.
var mspBoxName = map[uint8]string{
	0:  "ARM",
	1:  "ANGLE",
	2:  "HORIZON",
	26: "AIR",
	27: "ACRO TRAINER",
	12: "PASSTHRU",
	28: "3D",
	19: "FAILSAFE",
	20: "GPS RESCUE",
}

// mspModePriority lists box IDs in display precedence, highest first;
// the first active box in this list is reported as the vehicle's mode.
var mspModePriority = []uint8{19, 20, 2, 1, 28, 26, 12, 27}

// ResolveMSPMode picks one display mode name from a MSP_STATUS active
// box mask and the MSP_BOXIDS ordering that maps mask bit positions
// back to box IDs.
func ResolveMSPMode(activeBoxes uint32, boxIDs *msp.BoxIDs) string {
	if boxIDs == nil {
		return "UNKNOWN"
	}
	active := make(map[uint8]bool, len(boxIDs.IDs))
	for bit, id := range boxIDs.IDs {
		if bit < 32 && activeBoxes&(1<<uint(bit)) != 0 {
			active[id] = true
		}
	}
	for _, id := range mspModePriority {
		if active[id] {
			if name, ok := mspBoxName[id]; ok {
				return name
			}
		}
	}
	return "STABILIZE"
}
