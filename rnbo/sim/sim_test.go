package sim

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"testing"
	"testing/fstest"

	"go-rnbo/patch"
	"go-rnbo/rnbo"
)

func testDescription(t *testing.T) *patch.Description {
	t.Helper()
	var desc patch.Description
	err := json.Unmarshal([]byte(`{
		"desc": {
			"meta": {"rnboversion": "1.3.1"},
			"numMidiInputPorts": 1,
			"parameters": [
				{"name": "FX_1_Clean", "displayName": "Clean", "minimum": 0, "maximum": 1, "initialValue": 0.5},
				{"name": "gain", "minimum": 0, "maximum": 2, "initialValue": 9}
			],
			"inports": [{"tag": "in1"}],
			"outports": [{"tag": "out1"}, {"tag": "out2"}]
		}
	}`), &desc)
	if err != nil {
		t.Fatal(err)
	}
	return &desc
}

// pcm16 builds a mono 16-bit PCM wav file with n frames
func pcm16(n int, rate uint32) []byte {
	var buf bytes.Buffer
	dataLen := uint32(n * 2)
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, 36+dataLen)
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(&buf, binary.LittleEndian, rate)
	binary.Write(&buf, binary.LittleEndian, rate*2)
	binary.Write(&buf, binary.LittleEndian, uint16(2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, dataLen)
	for i := 0; i < n; i++ {
		binary.Write(&buf, binary.LittleEndian, int16(i*100))
	}
	return buf.Bytes()
}

func newDevice(t *testing.T, fsys fstest.MapFS) (*Device, *AudioContext) {
	t.Helper()
	ac := &AudioContext{Clock: func() float64 { return 1.5 }}
	rt := &Runtime{FS: fsys}
	dev, err := rt.CreateDevice(context.Background(), ac, testDescription(t))
	if err != nil {
		t.Fatal(err)
	}
	return dev.(*Device), ac
}

func TestDeviceFromDescription(t *testing.T) {
	dev, _ := newDevice(t, nil)

	if got := len(dev.Parameters()); got != 2 {
		t.Fatalf("got %d parameters", got)
	}
	clean := dev.Param("FX_1_Clean")
	if clean.DisplayName() != "Clean" || clean.Value() != 0.5 {
		t.Errorf("clean = %q %v", clean.DisplayName(), clean.Value())
	}
	if gain := dev.Param("gain"); gain.Value() != 2 || gain.DisplayName() != "gain" {
		t.Errorf("gain initial value should clamp to max, got %v", gain.Value())
	}
	if got := len(rnbo.Ports(dev, rnbo.Outport)); got != 2 {
		t.Errorf("got %d outports", got)
	}
	if got := len(rnbo.Ports(dev, rnbo.Inport)); got != 1 {
		t.Errorf("got %d inports", got)
	}
	if dev.NumMIDIInputPorts() != 1 {
		t.Errorf("midi inputs = %d", dev.NumMIDIInputPorts())
	}
}

func TestCreateDeviceErrors(t *testing.T) {
	rt := &Runtime{}
	if _, err := rt.CreateDevice(context.Background(), NewAudioContext(), nil); err == nil {
		t.Error("expected error without description")
	}
	if _, err := rt.CreateDevice(context.Background(), nil, testDescription(t)); err == nil {
		t.Error("expected error without audio context")
	}
}

func TestParamClampAndWrites(t *testing.T) {
	dev, _ := newDevice(t, nil)
	p := dev.Param("FX_1_Clean")
	p.SetValue(-3)
	p.SetValue(0.75)

	writes := p.Writes()
	if len(writes) != 2 || writes[0] != 0 || writes[1] != 0.75 {
		t.Errorf("writes = %v", writes)
	}
}

func TestScheduleEvent(t *testing.T) {
	dev, _ := newDevice(t, nil)

	if err := dev.ScheduleEvent(rnbo.MIDIEvent{Time: 10, Port: 0, Data: []byte{144, 49, 100}}); err != nil {
		t.Fatal(err)
	}
	if err := dev.ScheduleEvent(rnbo.MIDIEvent{Port: 3}); err == nil {
		t.Error("expected error for unknown midi port")
	}
	if err := dev.ScheduleEvent(rnbo.MessageEvent{Time: rnbo.TimeNow, Tag: "in1", Payload: []float64{1}}); err != nil {
		t.Fatal(err)
	}
	if got := len(dev.Scheduled()); got != 2 {
		t.Errorf("scheduled %d events", got)
	}
}

func TestSetPreset(t *testing.T) {
	dev, _ := newDevice(t, nil)
	err := dev.SetPreset(json.RawMessage(`{"__presetid": "rnbo", "FX_1_Clean": {"value": 0.1}, "gain": 1.5}`))
	if err != nil {
		t.Fatal(err)
	}
	if v := dev.Param("FX_1_Clean").Value(); v != 0.1 {
		t.Errorf("FX_1_Clean = %v", v)
	}
	if v := dev.Param("gain").Value(); v != 1.5 {
		t.Errorf("gain = %v", v)
	}
	if err := dev.SetPreset(json.RawMessage(`[1]`)); err == nil {
		t.Error("expected error for non-object preset")
	}
}

func TestSubscribeAndEmit(t *testing.T) {
	dev, _ := newDevice(t, nil)

	var got []rnbo.MessageEvent
	unsubscribe := dev.SubscribeMessages(func(ev rnbo.MessageEvent) {
		got = append(got, ev)
	})
	dev.Emit("out1", 1, 2)
	unsubscribe()
	dev.Emit("out1", 3)

	if len(got) != 1 {
		t.Fatalf("got %d events", len(got))
	}
	if got[0].Tag != "out1" || got[0].Time != 1500 || len(got[0].Payload) != 2 {
		t.Errorf("event = %+v", got[0])
	}
}

func TestConnect(t *testing.T) {
	dev, ac := newDevice(t, nil)
	out, err := ac.NewOutput()
	if err != nil {
		t.Fatal(err)
	}
	if err := dev.Connect(out); err != nil {
		t.Fatal(err)
	}
	if out.ConnectedDevices() != 1 {
		t.Errorf("connected = %d", out.ConnectedDevices())
	}
}

func TestLoadDataBufferDependencies(t *testing.T) {
	fsys := fstest.MapFS{
		"export/kick.wav": {Data: pcm16(8, 44100)},
	}
	dev, _ := newDevice(t, fsys)

	deps := []patch.Dependency{
		{ID: "kick", File: "export/kick.wav"},
		{ID: "remote", URL: "https://example.com/x.wav"},
	}
	if err := dev.LoadDataBufferDependencies(context.Background(), deps); err != nil {
		t.Fatal(err)
	}
	buf, ok := dev.Buffers()["kick"]
	if !ok {
		t.Fatal("kick buffer missing")
	}
	if buf.Channels != 1 || buf.SampleRate != 44100 || buf.Frames != 8 {
		t.Errorf("buffer = %+v", buf)
	}
	if _, ok := dev.Buffers()["remote"]; ok {
		t.Error("remote dependency should be skipped")
	}
}

func TestLoadDataBufferDependenciesMissingFile(t *testing.T) {
	dev, _ := newDevice(t, fstest.MapFS{})
	err := dev.LoadDataBufferDependencies(context.Background(), []patch.Dependency{{ID: "kick", File: "export/kick.wav"}})
	if err == nil {
		t.Fatal("expected error")
	}
}
