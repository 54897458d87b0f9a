package mavlink

// This file hand-registers the subset of the MAVLink common dialect this
// codec understands: the messages a ground station needs to establish a
// session, stream telemetry, and drive the parameter/mission/command
// transfer engines. Register is idempotent per id and is invoked for
// every message from this file's init() so importing this package is
// sufficient to populate the registry.

type MessageHeartbeat struct {
	Type           uint8  `mavenum:"uint8"`
	Autopilot      uint8  `mavenum:"uint8"`
	BaseMode       uint8  `mavenum:"uint8"`
	CustomMode     uint32
	SystemStatus   uint8 `mavenum:"uint8"`
	MavlinkVersion uint8
}

func (*MessageHeartbeat) GetID() uint32 { return 0 }

type MessageSysStatus struct {
	OnboardControlSensorsPresent  uint32
	OnboardControlSensorsEnabled  uint32
	OnboardControlSensorsHealth   uint32
	Load                          uint16
	VoltageBattery                uint16
	CurrentBattery                int16
	DropRateComm                  uint16
	ErrorsComm                    uint16
	ErrorsCount1                  uint16
	ErrorsCount2                  uint16
	ErrorsCount3                  uint16
	ErrorsCount4                  uint16
	BatteryRemaining              int8
}

func (*MessageSysStatus) GetID() uint32 { return 1 }

type MessageSystemTime struct {
	TimeUnixUsec uint64
	TimeBootMs   uint32
}

func (*MessageSystemTime) GetID() uint32 { return 2 }

type MessageParamRequestRead struct {
	TargetSystem    uint8
	TargetComponent uint8
	ParamID         string `mavlen:"16"`
	ParamIndex      int16
}

func (*MessageParamRequestRead) GetID() uint32 { return 20 }

type MessageParamRequestList struct {
	TargetSystem    uint8
	TargetComponent uint8
}

func (*MessageParamRequestList) GetID() uint32 { return 21 }

type MessageParamValue struct {
	ParamID    string `mavlen:"16"`
	ParamValue float32
	ParamType  uint8 `mavenum:"uint8"`
	ParamCount uint16
	ParamIndex uint16
}

func (*MessageParamValue) GetID() uint32 { return 22 }

type MessageParamSet struct {
	TargetSystem    uint8
	TargetComponent uint8
	ParamID         string `mavlen:"16"`
	ParamValue      float32
	ParamType       uint8 `mavenum:"uint8"`
}

func (*MessageParamSet) GetID() uint32 { return 23 }

type MessageGPSRawInt struct {
	TimeUsec         uint64
	Lat              int32
	Lon              int32
	Alt              int32
	Eph              uint16
	Epv              uint16
	Vel              uint16
	Cog              uint16
	FixType          uint8 `mavenum:"uint8"`
	SatellitesVisible uint8
}

func (*MessageGPSRawInt) GetID() uint32 { return 24 }

type MessageRCChannels struct {
	TimeBootMs uint32
	Chan1Raw   uint16
	Chan2Raw   uint16
	Chan3Raw   uint16
	Chan4Raw   uint16
	Chan5Raw   uint16
	Chan6Raw   uint16
	Chan7Raw   uint16
	Chan8Raw   uint16
	Chan9Raw   uint16
	Chan10Raw  uint16
	Chan11Raw  uint16
	Chan12Raw  uint16
	Chan13Raw  uint16
	Chan14Raw  uint16
	Chan15Raw  uint16
	Chan16Raw  uint16
	Chan17Raw  uint16
	Chan18Raw  uint16
	Chancount  uint8
	Rssi       uint8
}

func (*MessageRCChannels) GetID() uint32 { return 65 }

type MessageRequestDataStream struct {
	TargetSystem    uint8
	TargetComponent uint8
	ReqStreamID     uint8 `mavenum:"uint8"`
	ReqMessageRate  uint16
	StartStop       uint8
}

func (*MessageRequestDataStream) GetID() uint32 { return 66 }

type MessageMissionRequestInt struct {
	TargetSystem    uint8
	TargetComponent uint8
	Seq             uint16
	MissionType     uint8 `mavenum:"uint8" mavext:"true"`
}

func (*MessageMissionRequestInt) GetID() uint32 { return 51 }

type MessageMissionCount struct {
	TargetSystem    uint8
	TargetComponent uint8
	Count           uint16
	MissionType     uint8 `mavenum:"uint8" mavext:"true"`
}

func (*MessageMissionCount) GetID() uint32 { return 44 }

type MessageMissionClearAll struct {
	TargetSystem    uint8
	TargetComponent uint8
	MissionType     uint8 `mavenum:"uint8" mavext:"true"`
}

func (*MessageMissionClearAll) GetID() uint32 { return 45 }

type MessageMissionItemReached struct {
	Seq uint16
}

func (*MessageMissionItemReached) GetID() uint32 { return 46 }

type MessageMissionRequestList struct {
	TargetSystem    uint8
	TargetComponent uint8
	MissionType     uint8 `mavenum:"uint8" mavext:"true"`
}

func (*MessageMissionRequestList) GetID() uint32 { return 43 }

type MessageMissionCurrent struct {
	Seq uint16
}

func (*MessageMissionCurrent) GetID() uint32 { return 42 }

type MessageMissionSetCurrent struct {
	TargetSystem    uint8
	TargetComponent uint8
	Seq             uint16
}

func (*MessageMissionSetCurrent) GetID() uint32 { return 41 }

type MessageMissionItemInt struct {
	TargetSystem    uint8
	TargetComponent uint8
	Seq             uint16
	Frame           uint8 `mavenum:"uint8"`
	Command         uint16 `mavenum:"uint16"`
	Current         uint8
	Autocontinue    uint8
	Param1          float32
	Param2          float32
	Param3          float32
	Param4          float32
	X               int32
	Y               int32
	Z               float32
	MissionType     uint8 `mavenum:"uint8" mavext:"true"`
}

func (*MessageMissionItemInt) GetID() uint32 { return 73 }

type MessageMissionAck struct {
	TargetSystem    uint8
	TargetComponent uint8
	MavType         uint8 `mavenum:"uint8" mavname:"type"`
	MissionType     uint8 `mavenum:"uint8" mavext:"true"`
}

func (*MessageMissionAck) GetID() uint32 { return 47 }

type MessageCommandLong struct {
	TargetSystem    uint8
	TargetComponent uint8
	Command         uint16 `mavenum:"uint16"`
	Confirmation    uint8
	Param1          float32
	Param2          float32
	Param3          float32
	Param4          float32
	Param5          float32
	Param6          float32
	Param7          float32
}

func (*MessageCommandLong) GetID() uint32 { return 76 }

type MessageCommandInt struct {
	TargetSystem    uint8
	TargetComponent uint8
	Frame           uint8 `mavenum:"uint8"`
	Command         uint16 `mavenum:"uint16"`
	Current         uint8
	Autocontinue    uint8
	Param1          float32
	Param2          float32
	Param3          float32
	Param4          float32
	X               int32
	Y               int32
	Z               float32
}

func (*MessageCommandInt) GetID() uint32 { return 75 }

type MessageCommandAck struct {
	Command         uint16 `mavenum:"uint16"`
	Result          uint8  `mavenum:"uint8"`
	Progress        uint8  `mavext:"true"`
	ResultParam2    int32  `mavext:"true"`
	TargetSystem    uint8  `mavext:"true"`
	TargetComponent uint8  `mavext:"true"`
}

func (*MessageCommandAck) GetID() uint32 { return 77 }

type MessageMessageInterval struct {
	MessageID     uint16
	IntervalUsec  int32 `mavname:"interval_us"`
}

func (*MessageMessageInterval) GetID() uint32 { return 244 }

type MessageAttitude struct {
	TimeBootMs uint32
	Roll       float32
	Pitch      float32
	Yaw        float32
	Rollspeed  float32
	Pitchspeed float32
	Yawspeed   float32
}

func (*MessageAttitude) GetID() uint32 { return 30 }

type MessageGlobalPositionInt struct {
	TimeBootMs uint32
	Lat        int32
	Lon        int32
	Alt        int32
	RelativeAlt int32
	Vx         int16
	Vy         int16
	Vz         int16
	Hdg        uint16
}

func (*MessageGlobalPositionInt) GetID() uint32 { return 33 }

type MessageRCChannelsOverride struct {
	TargetSystem    uint8
	TargetComponent uint8
	Chan1Raw        uint16
	Chan2Raw        uint16
	Chan3Raw        uint16
	Chan4Raw        uint16
	Chan5Raw        uint16
	Chan6Raw        uint16
	Chan7Raw        uint16
	Chan8Raw        uint16
	Chan9Raw        uint16  `mavext:"true"`
	Chan10Raw       uint16  `mavext:"true"`
	Chan11Raw       uint16  `mavext:"true"`
	Chan12Raw       uint16  `mavext:"true"`
	Chan13Raw       uint16  `mavext:"true"`
	Chan14Raw       uint16  `mavext:"true"`
	Chan15Raw       uint16  `mavext:"true"`
	Chan16Raw       uint16  `mavext:"true"`
	Chan17Raw       uint16  `mavext:"true"`
	Chan18Raw       uint16  `mavext:"true"`
}

func (*MessageRCChannelsOverride) GetID() uint32 { return 70 }

type MessageVfrHud struct {
	Airspeed    float32
	Groundspeed float32
	Heading     int16
	Throttle    uint16
	Alt         float32
	Climb       float32
}

func (*MessageVfrHud) GetID() uint32 { return 74 }

type MessageBatteryStatus struct {
	CurrentConsumed  int32
	EnergyConsumed   int32
	Temperature      int16
	Voltages         [10]uint16
	CurrentBattery   int16
	ID               uint8
	BatteryFunction  uint8 `mavenum:"uint8"`
	Type             uint8 `mavenum:"uint8"`
	BatteryRemaining int8
}

func (*MessageBatteryStatus) GetID() uint32 { return 147 }

type MessageAutopilotVersion struct {
	Capabilities        uint64
	UID                 uint64
	FlightSwVersion     uint32
	MiddlewareSwVersion uint32
	OsSwVersion         uint32
	BoardVersion        uint32
	FlightCustomVersion [8]uint8
	MiddlewareCustomVersion [8]uint8
	OsCustomVersion     [8]uint8
	VendorID            uint16
	ProductID           uint16
}

func (*MessageAutopilotVersion) GetID() uint32 { return 148 }

type MessageStatustext struct {
	Severity uint8 `mavenum:"uint8"`
	Text     string `mavlen:"50"`
}

func (*MessageStatustext) GetID() uint32 { return 253 }

type MessageSetPositionTargetGlobalInt struct {
	TimeBootMs      uint32
	TargetSystem    uint8
	TargetComponent uint8
	CoordinateFrame uint8 `mavenum:"uint8"`
	TypeMask        uint16
	LatInt          int32
	LonInt          int32
	Alt             float32
	Vx              float32
	Vy              float32
	Vz              float32
	Afx             float32
	Afy             float32
	Afz             float32
	Yaw             float32
	YawRate         float32
}

func (*MessageSetPositionTargetGlobalInt) GetID() uint32 { return 86 }

type MessageExtendedSysState struct {
	VTOLState   uint8 `mavenum:"uint8"`
	LandedState uint8 `mavenum:"uint8"`
}

func (*MessageExtendedSysState) GetID() uint32 { return 245 }

func init() {
	Register(&MessageHeartbeat{})
	Register(&MessageSysStatus{})
	Register(&MessageSystemTime{})
	Register(&MessageParamRequestRead{})
	Register(&MessageParamRequestList{})
	Register(&MessageParamValue{})
	Register(&MessageParamSet{})
	Register(&MessageGPSRawInt{})
	Register(&MessageRCChannels{})
	Register(&MessageRequestDataStream{})
	Register(&MessageMissionRequestList{})
	Register(&MessageMissionCurrent{})
	Register(&MessageMissionSetCurrent{})
	Register(&MessageMissionRequestInt{})
	Register(&MessageMissionCount{})
	Register(&MessageMissionClearAll{})
	Register(&MessageMissionItemReached{})
	Register(&MessageMissionItemInt{})
	Register(&MessageMissionAck{})
	Register(&MessageCommandLong{})
	Register(&MessageCommandInt{})
	Register(&MessageCommandAck{})
	Register(&MessageMessageInterval{})
	Register(&MessageAttitude{})
	Register(&MessageGlobalPositionInt{})
	Register(&MessageRCChannelsOverride{})
	Register(&MessageVfrHud{})
	Register(&MessageBatteryStatus{})
	Register(&MessageAutopilotVersion{})
	Register(&MessageStatustext{})
	Register(&MessageSetPositionTargetGlobalInt{})
	Register(&MessageExtendedSysState{})
}
