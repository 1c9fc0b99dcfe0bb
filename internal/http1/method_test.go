package http1

import "testing"

func TestClassifyMethod(t *testing.T) {
	if ClassifyMethod("GET") != MethodGet {
		t.Error("expected GET to classify as MethodGet")
	}
	if ClassifyMethod("PROPFIND") != MethodOther {
		t.Error("expected an unrecognized token to classify as MethodOther")
	}
}

func TestDefaultsToNoBody(t *testing.T) {
	for _, m := range []KnownMethod{MethodGet, MethodHead, MethodOptions, MethodTrace} {
		if !m.DefaultsToNoBody() {
			t.Errorf("expected method %v to default to no body", m)
		}
	}
	for _, m := range []KnownMethod{MethodPost, MethodPut, MethodDelete, MethodPatch} {
		if m.DefaultsToNoBody() {
			t.Errorf("expected method %v to not default to no body", m)
		}
	}
}

func TestMilestoneString(t *testing.T) {
	cases := map[Milestone]string{
		MilestoneNone:          "NONE",
		MilestoneMetadataDone:  "METADATA_DONE",
		MilestoneHeadersDone:   "HEADERS_DONE",
		MilestoneDataChunkDone: "DATA_CHUNK_DONE",
		MilestoneComplete:      "COMPLETE",
		MilestoneFailed:        "FAILED",
	}
	for m, want := range cases {
		if got := m.String(); got != want {
			t.Errorf("Milestone(%d).String() = %q, want %q", m, got, want)
		}
	}
}
