package patch

import (
	"encoding/json"
)

// Description is a parsed patch export. The raw document is kept so it can
// be handed to the device runtime untouched.
type Description struct {
	Desc    Desc     `json:"desc"`
	Presets []Preset `json:"presets,omitempty"`

	raw json.RawMessage
}

// Desc is the "desc" section of a patch export
type Desc struct {
	Meta              Meta        `json:"meta"`
	Parameters        []Parameter `json:"parameters,omitempty"`
	Inports           []Port      `json:"inports,omitempty"`
	Outports          []Port      `json:"outports,omitempty"`
	NumMIDIInputPorts int         `json:"numMidiInputPorts"`
	NumMIDIOutPorts   int         `json:"numMidiOutputPorts"`
	NumInputChannels  int         `json:"numInputChannels"`
	NumOutputChannels int         `json:"numOutputChannels"`
	ExternalDataRefs  []DataRef   `json:"externalDataRefs,omitempty"`
}

// Meta identifies the patch and the runtime version it was exported for
type Meta struct {
	RNBOVersion  string `json:"rnboversion"`
	Filename     string `json:"filename,omitempty"`
	Name         string `json:"name,omitempty"`
	Architecture string `json:"architecture,omitempty"`
	MaxVersion   string `json:"maxversion,omitempty"`
}

// Parameter describes one device parameter as exported
type Parameter struct {
	Index        int      `json:"index"`
	Name         string   `json:"name"`
	ParamID      string   `json:"paramId,omitempty"`
	DisplayName  string   `json:"displayName,omitempty"`
	Unit         string   `json:"unit,omitempty"`
	Minimum      float64  `json:"minimum"`
	Maximum      float64  `json:"maximum"`
	InitialValue float64  `json:"initialValue"`
	Steps        int      `json:"steps,omitempty"`
	IsEnum       bool     `json:"isEnum,omitempty"`
	EnumValues   []string `json:"enumValues,omitempty"`
	Visible      *bool    `json:"visible,omitempty"`
}

// Label returns the display name, falling back to the parameter name
func (p Parameter) Label() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Name
}

// Port is a message inport or outport
type Port struct {
	Tag  string `json:"tag"`
	Meta string `json:"meta,omitempty"`
}

// DataRef is an external buffer the patch expects
type DataRef struct {
	ID   string `json:"id"`
	Type string `json:"type,omitempty"`
	File string `json:"file,omitempty"`
}

// Preset is a named parameter snapshot. The payload is opaque to us.
type Preset struct {
	Name   string          `json:"name"`
	Preset json.RawMessage `json:"preset"`
}

// UnmarshalJSON keeps a copy of the raw document
func (d *Description) UnmarshalJSON(data []byte) error {
	type plain Description
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*d = Description(p)
	d.raw = append(json.RawMessage(nil), data...)
	return nil
}

// Raw returns the document as fetched, or a re-encoding if it was built in code
func (d *Description) Raw() json.RawMessage {
	if d.raw != nil {
		return d.raw
	}
	type plain Description
	data, err := json.Marshal((*plain)(d))
	if err != nil {
		return nil
	}
	return data
}

// Title returns the patch filename, or fallback if the export has none
func (d *Description) Title(fallback string) string {
	if d.Desc.Meta.Filename != "" {
		return d.Desc.Meta.Filename
	}
	return fallback
}

// Dependency is one entry of the dependency manifest. Fields we don't
// understand are carried through so the runtime still sees them.
type Dependency struct {
	ID   string
	File string
	URL  string
	Type string

	extra map[string]json.RawMessage
}

func (d *Dependency) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*d = Dependency{}
	for key, dst := range map[string]*string{"id": &d.ID, "file": &d.File, "url": &d.URL, "type": &d.Type} {
		v, ok := fields[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(v, dst); err != nil {
			return err
		}
		delete(fields, key)
	}
	if len(fields) > 0 {
		d.extra = fields
	}
	return nil
}

func (d Dependency) MarshalJSON() ([]byte, error) {
	fields := make(map[string]any, len(d.extra)+4)
	for k, v := range d.extra {
		fields[k] = v
	}
	if d.ID != "" {
		fields["id"] = d.ID
	}
	if d.File != "" {
		fields["file"] = d.File
	}
	if d.URL != "" {
		fields["url"] = d.URL
	}
	if d.Type != "" {
		fields["type"] = d.Type
	}
	return json.Marshal(fields)
}
