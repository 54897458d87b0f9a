package msp

// Command codes for the subset of MSP this GCS speaks. Names match the
// MultiWii/Betaflight/iNav wire protocol numbering.
const (
	CmdIdent       uint16 = 100
	CmdStatus      uint16 = 101
	CmdRawGPS      uint16 = 106
	CmdAttitude    uint16 = 108
	CmdAltitude    uint16 = 109
	CmdAnalog      uint16 = 110
	CmdRC          uint16 = 105
	CmdSetRawRC    uint16 = 200
	CmdBoxIDs      uint16 = 119
	CmdModeRanges  uint16 = 34
	CmdAPIVersion  uint16 = 1
	CmdFCVariant   uint16 = 2
	CmdFCVersion   uint16 = 3
)
