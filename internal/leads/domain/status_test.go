package domain

import "testing"

func TestPipelineAdvancesForwardOnly(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusNew, StatusContacted},
		{StatusNew, StatusQualified},
		{StatusNew, StatusConverted},
		{StatusContacted, StatusQualified},
		{StatusContacted, StatusConverted},
		{StatusQualified, StatusConverted},
	}
	for _, tc := range allowed {
		if !CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be allowed", tc.from, tc.to)
		}
	}

	backward := []struct{ from, to Status }{
		{StatusContacted, StatusNew},
		{StatusQualified, StatusContacted},
		{StatusQualified, StatusNew},
	}
	for _, tc := range backward {
		if CanTransition(tc.from, tc.to) {
			t.Errorf("expected backward %s -> %s to be rejected", tc.from, tc.to)
		}
	}
}

func TestLostReachableFromAnyNonTerminalState(t *testing.T) {
	for _, from := range []Status{StatusNew, StatusContacted, StatusQualified} {
		if !CanTransition(from, StatusLost) {
			t.Errorf("expected %s -> Lost to be allowed", from)
		}
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	for _, from := range []Status{StatusConverted, StatusLost} {
		for _, to := range []Status{StatusNew, StatusContacted, StatusQualified, StatusConverted, StatusLost} {
			if CanTransition(from, to) {
				t.Errorf("expected terminal %s -> %s to be rejected", from, to)
			}
		}
	}
}

func TestSelfTransitionRejected(t *testing.T) {
	if CanTransition(StatusNew, StatusNew) {
		t.Fatal("expected self transition to be rejected")
	}
}

func TestUnknownStatusRejected(t *testing.T) {
	if CanTransition(Status("Archived"), StatusLost) {
		t.Fatal("expected unknown source status to be rejected")
	}
	if CanTransition(StatusNew, Status("Archived")) {
		t.Fatal("expected unknown target status to be rejected")
	}
}

func TestCountsTowardLoad(t *testing.T) {
	active := []Status{StatusNew, StatusContacted, StatusQualified}
	for _, s := range active {
		if !s.CountsTowardLoad() {
			t.Errorf("expected %s to occupy an agent slot", s)
		}
	}
	for _, s := range []Status{StatusConverted, StatusLost} {
		if s.CountsTowardLoad() {
			t.Errorf("expected terminal %s to free the agent slot", s)
		}
	}
}
