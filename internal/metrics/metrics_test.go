package metrics

import "testing"

func TestSnapshotReflectsIncrements(t *testing.T) {
	r := New()
	r.CRCFailures.Inc()
	r.CRCFailures.Inc()
	r.BytesReceived.Add(42)
	r.ConnectionState.Set(3)

	snap := r.Snapshot()
	if snap.CRCFailures != 2 {
		t.Errorf("CRCFailures = %v, want 2", snap.CRCFailures)
	}
	if snap.BytesReceived != 42 {
		t.Errorf("BytesReceived = %v, want 42", snap.BytesReceived)
	}
	if snap.ConnectionState != 3 {
		t.Errorf("ConnectionState = %v, want 3", snap.ConnectionState)
	}
}

func TestGathererExposesRegisteredMetrics(t *testing.T) {
	r := New()
	r.ParamDownloads.Inc()

	families, err := r.Gatherer().Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(families) == 0 {
		t.Fatal("expected at least one registered metric family")
	}
}
