package id

import (
	"strings"
	"testing"
	"time"
)

func TestTypedIDsCarryPrefix(t *testing.T) {
	if !strings.HasPrefix(NewSessionID().String(), SessionPrefix+"_") {
		t.Error("session ID missing prefix")
	}
	if !strings.HasPrefix(NewWindowID().String(), WindowPrefix+"_") {
		t.Error("window ID missing prefix")
	}
	if !strings.HasPrefix(NewRequestID().String(), RequestPrefix+"_") {
		t.Error("request ID missing prefix")
	}
	if !strings.HasPrefix(NewCommandID().String(), CommandPrefix+"_") {
		t.Error("command ID missing prefix")
	}
}

func TestIsValid(t *testing.T) {
	if !IsValid(NewWindowID().String()) {
		t.Error("generated window ID should be valid")
	}
	if IsValid("win_not-a-ulid") {
		t.Error("malformed ID should be invalid")
	}
	if IsValid("") {
		t.Error("empty ID should be invalid")
	}
}

func TestTimestampIsRecent(t *testing.T) {
	before := time.Now().Add(-time.Second)
	id := NewSessionID().String()
	ts, err := Timestamp(id)
	if err != nil {
		t.Fatalf("Timestamp failed: %v", err)
	}
	if ts.Before(before) || ts.After(time.Now().Add(time.Second)) {
		t.Errorf("timestamp %v not near now", ts)
	}
}

func TestUniqueness(t *testing.T) {
	seen := make(map[WindowID]bool)
	for i := 0; i < 1000; i++ {
		id := NewWindowID()
		if seen[id] {
			t.Fatalf("duplicate ID generated: %s", id)
		}
		seen[id] = true
	}
}
