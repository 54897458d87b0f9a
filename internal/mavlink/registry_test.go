package mavlink

import "testing"

// These CRC_EXTRA values are the well-known constants every MAVLink
// implementation must reproduce bit-for-bit against the reference
// common dialect; a mismatch here means the field-ordering or
// signature-accumulation algorithm has drifted from the real one.
func TestCRCExtraKnownValues(t *testing.T) {
	cases := []struct {
		name string
		want byte
	}{
		{"HEARTBEAT", 50},
		{"SYS_STATUS", 124},
	}

	for _, tc := range cases {
		def, ok := LookupByName(tc.name)
		if !ok {
			t.Fatalf("%s not registered", tc.name)
		}
		if def.CRCExtra != tc.want {
			t.Errorf("%s: crc_extra = %d, want %d", tc.name, def.CRCExtra, tc.want)
		}
	}
}

func TestWireOrderPacksLargestFieldsFirst(t *testing.T) {
	def, ok := LookupByName("HEARTBEAT")
	if !ok {
		t.Fatal("HEARTBEAT not registered")
	}
	if len(def.wireOrder) == 0 {
		t.Fatal("empty wire order")
	}
	if def.wireOrder[0].name != "custom_mode" {
		t.Errorf("first wire field = %s, want custom_mode", def.wireOrder[0].name)
	}
}
