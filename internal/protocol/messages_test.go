package protocol

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shouta0715/ping-pong-game/internal/games/pong"
)

func TestEncodeWireShape(t *testing.T) {
	tests := []struct {
		name     string
		msg      Message
		expected string
	}{
		{"start", Start(pong.SideOne), `{"senderId":"1","action":"start"}`},
		{"stop", Stop(pong.SideTwo), `{"senderId":"2","action":"stop"}`},
		{"score", Score(pong.SideOne, pong.WinnerLeft), `{"senderId":"1","action":"score","winner":"left"}`},
		{
			"over",
			Over(pong.SideOne, true, pong.Ball{X: 803, Y: 308, Radius: 10, DX: 4, DY: 4}),
			`{"senderId":"1","action":"over","active":true,"message":{"x":803,"y":308,"dx":4,"dy":4}}`,
		},
		{
			"over inactive keeps the flag",
			Over(pong.SideTwo, false, pong.Ball{X: -1, Y: 2, DX: -4, DY: 4}),
			`{"senderId":"2","action":"over","active":false,"message":{"x":-1,"y":2,"dx":-4,"dy":4}}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data, err := Encode(tc.msg)
			if err != nil {
				t.Fatalf("Encode() failed: %v", err)
			}
			if string(data) != tc.expected {
				t.Errorf("Encode() = %s, expected %s", data, tc.expected)
			}
		})
	}
}

func TestToggle(t *testing.T) {
	if Toggle(pong.SideOne, true).Action != ActionStart {
		t.Error("Toggle(true) should be start")
	}
	if Toggle(pong.SideOne, false).Action != ActionStop {
		t.Error("Toggle(false) should be stop")
	}
}

func TestDecodeOver(t *testing.T) {
	frame := []byte(`{"senderId":"1","action":"over","active":true,"message":{"x":803,"y":308,"dx":4,"dy":4}}`)

	m, err := Decode(frame)
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if m.Sender() != pong.SideOne || m.Action != ActionOver || !m.IsActive() {
		t.Errorf("Decode() = %+v", m)
	}
	if *m.Ball != (Kinematics{X: 803, Y: 308, DX: 4, DY: 4}) {
		t.Errorf("ball = %+v", *m.Ball)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		frame   string
		wantErr error
	}{
		{"not json", `hello`, ErrMalformed},
		{"bad sender", `{"senderId":"3","action":"start"}`, ErrMalformed},
		{"missing sender", `{"action":"start"}`, ErrMalformed},
		{"score without winner", `{"senderId":"1","action":"score"}`, ErrMalformed},
		{"score with unknown winner", `{"senderId":"1","action":"score","winner":"up"}`, ErrMalformed},
		{"over without ball", `{"senderId":"1","action":"over","active":true}`, ErrMalformed},
		{"over without active", `{"senderId":"1","action":"over","message":{"x":1,"y":2,"dx":3,"dy":4}}`, ErrMalformed},
		{"unknown action", `{"senderId":"2","action":"chat"}`, ErrUnknownAction},
		{"unknown action with bad sender", `{"senderId":"9","action":"chat"}`, ErrUnknownAction},
		{"missing action", `{"senderId":"1"}`, ErrUnknownAction},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode([]byte(tc.frame))
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Decode() error = %v, expected %v", err, tc.wantErr)
			}
		})
	}
}

func TestDecodeIgnoresExtraFields(t *testing.T) {
	m, err := Decode([]byte(`{"senderId":"2","action":"stop","version":9}`))
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if m.Action != ActionStop {
		t.Errorf("Action = %q, expected stop", m.Action)
	}
}

func TestActionKnown(t *testing.T) {
	tests := []struct {
		action Action
		known  bool
	}{
		{ActionStart, true},
		{ActionStop, true},
		{ActionScore, true},
		{ActionOver, true},
		{"chat", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := tt.action.Known(); got != tt.known {
			t.Errorf("Action(%q).Known() = %v, expected %v", tt.action, got, tt.known)
		}
	}
}

func TestPeekAction(t *testing.T) {
	if got := PeekAction([]byte(`{"action":"chat"}`)); got != "chat" {
		t.Errorf("PeekAction() = %q, expected chat", got)
	}
	if got := PeekAction([]byte(`nope`)); got != "" {
		t.Errorf("PeekAction() on garbage = %q, expected empty", got)
	}
}

func TestOverRoundTripThroughJSON(t *testing.T) {
	sent := Over(pong.SideTwo, true, pong.Ball{X: -3.5, Y: 42.25, DX: -4, DY: 4})
	data, err := json.Marshal(sent)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if *got.Ball != *sent.Ball || got.IsActive() != sent.IsActive() {
		t.Errorf("round trip = %+v, expected %+v", got, sent)
	}
}
