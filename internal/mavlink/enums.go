package mavlink

// MavType identifies the broad vehicle category reported in HEARTBEAT.
type MavType uint8

const (
	MavTypeGeneric        MavType = 0
	MavTypeFixedWing      MavType = 1
	MavTypeQuadrotor      MavType = 2
	MavTypeHelicopter     MavType = 4
	MavTypeGCS            MavType = 6
	MavTypeHexarotor      MavType = 13
	MavTypeOctorotor      MavType = 14
	MavTypeSubmarine      MavType = 12
	MavTypeVTOLDuoRotor   MavType = 19
	MavTypeVTOLQuadrotor  MavType = 20
)

// MavAutopilot identifies the firmware that generated a HEARTBEAT.
type MavAutopilot uint8

const (
	MavAutopilotGeneric   MavAutopilot = 0
	MavAutopilotArduPilot MavAutopilot = 3
	MavAutopilotPX4       MavAutopilot = 12
	MavAutopilotInvalid   MavAutopilot = 8
)

// MavModeFlag bits make up HEARTBEAT.base_mode.
type MavModeFlag uint8

const (
	MavModeFlagCustomModeEnabled MavModeFlag = 1
	MavModeFlagTestEnabled       MavModeFlag = 2
	MavModeFlagAutoEnabled       MavModeFlag = 4
	MavModeFlagGuidedEnabled     MavModeFlag = 8
	MavModeFlagStabilizeEnabled  MavModeFlag = 16
	MavModeFlagHILEnabled        MavModeFlag = 32
	MavModeFlagManualInputEnabled MavModeFlag = 64
	MavModeFlagSafetyArmed       MavModeFlag = 128
)

// MavState is HEARTBEAT.system_status.
type MavState uint8

const (
	MavStateUninit      MavState = 0
	MavStateBoot        MavState = 1
	MavStateCalibrating MavState = 2
	MavStateStandby     MavState = 3
	MavStateActive      MavState = 4
	MavStateCritical    MavState = 5
	MavStateEmergency   MavState = 6
	MavStatePoweroff    MavState = 7
	MavStateFlightTerminate MavState = 8
)

// MavResult is the outcome code carried by COMMAND_ACK.
type MavResult uint8

const (
	MavResultAccepted         MavResult = 0
	MavResultTemporarilyRejected MavResult = 1
	MavResultDenied           MavResult = 2
	MavResultUnsupported      MavResult = 3
	MavResultFailed           MavResult = 4
	MavResultInProgress       MavResult = 5
	MavResultCancelled        MavResult = 6
)

// MavMissionResult is the outcome code carried by MISSION_ACK.
type MavMissionResult uint8

const (
	MavMissionAccepted          MavMissionResult = 0
	MavMissionError             MavMissionResult = 1
	MavMissionUnsupportedFrame  MavMissionResult = 2
	MavMissionUnsupported       MavMissionResult = 3
	MavMissionNoSpace           MavMissionResult = 4
	MavMissionInvalid           MavMissionResult = 5
	MavMissionInvalidSequence   MavMissionResult = 13
	MavMissionDenied            MavMissionResult = 14
)

// MavFrame selects the coordinate frame of a mission item / position target.
type MavFrame uint8

const (
	MavFrameGlobal                MavFrame = 0
	MavFrameLocalNED              MavFrame = 1
	MavFrameMissionMission        MavFrame = 2
	MavFrameGlobalRelativeAlt     MavFrame = 3
	MavFrameGlobalInt             MavFrame = 5
	MavFrameGlobalRelativeAltInt  MavFrame = 6
)

// MavDataStream selects a legacy MAVLink 1 telemetry bundle for
// REQUEST_DATA_STREAM.
type MavDataStream uint8

const (
	MavDataStreamAll          MavDataStream = 0
	MavDataStreamRawSensors   MavDataStream = 1
	MavDataStreamExtendedStatus MavDataStream = 2
	MavDataStreamRCChannels   MavDataStream = 3
	MavDataStreamPosition     MavDataStream = 6
	MavDataStreamExtra1       MavDataStream = 10
	MavDataStreamExtra2       MavDataStream = 11
	MavDataStreamExtra3       MavDataStream = 12
)

// MavMissionType discriminates the three item lists a vehicle can hold.
type MavMissionType uint8

const (
	MavMissionTypeMission MavMissionType = 0
	MavMissionTypeFence   MavMissionType = 1
	MavMissionTypeRally   MavMissionType = 2
	MavMissionTypeAll     MavMissionType = 255
)

// MavLandedState is EXTENDED_SYS_STATE.landed_state.
type MavLandedState uint8

const (
	MavLandedStateUndefined MavLandedState = 0
	MavLandedStateOnGround  MavLandedState = 1
	MavLandedStateInAir     MavLandedState = 2
	MavLandedStateTakeoff   MavLandedState = 3
	MavLandedStateLanding   MavLandedState = 4
)

// A practical subset of MAV_CMD used by the command and mission engines.
const (
	MavCmdNavWaypoint         uint16 = 16
	MavCmdNavLoiterUnlim      uint16 = 17
	MavCmdNavReturnToLaunch   uint16 = 20
	MavCmdNavLand             uint16 = 21
	MavCmdNavTakeoff          uint16 = 22
	MavCmdNavFenceReturnPoint uint16 = 5000
	MavCmdDoSetMode           uint16 = 176
	MavCmdDoSetHome           uint16 = 179
	MavCmdDoChangeSpeed       uint16 = 178
	MavCmdComponentArmDisarm  uint16 = 400
	MavCmdMissionStart        uint16 = 300
	MavCmdRequestMessage      uint16 = 512
	MavCmdSetMessageInterval  uint16 = 511
	MavCmdPreflightCalibration uint16 = 241
)
