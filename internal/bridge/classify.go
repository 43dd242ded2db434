// Package bridge keeps a widget tree and a mixer device in sync: it builds one
// section of widgets per direction, writes user changes to the hardware and
// refreshes widgets when the hardware reports a change.
package bridge

import "github.com/michaelquigley/mixerctl"

// Capabilities reports what a control exposes
type Capabilities struct {
	PlaybackVolume bool
	PlaybackSwitch bool
	CaptureVolume  bool
	CaptureSwitch  bool
	Enumerated     bool
}

// Classify queries the capabilities of c; it has no side effects
func Classify(c mixerctl.Control) Capabilities {
	return Capabilities{
		PlaybackVolume: c.HasVolume(mixerctl.Playback),
		PlaybackSwitch: c.HasSwitch(mixerctl.Playback),
		CaptureVolume:  c.HasVolume(mixerctl.Capture),
		CaptureSwitch:  c.HasSwitch(mixerctl.Capture),
		Enumerated:     c.IsEnumerated(),
	}
}

// Playback reports whether the control belongs in the playback section.
// Enumerated controls are shown there regardless of direction.
func (c Capabilities) Playback() bool {
	return c.PlaybackVolume || c.PlaybackSwitch || c.Enumerated
}

// Capture reports whether the control belongs in the capture section
func (c Capabilities) Capture() bool {
	return c.CaptureVolume || c.CaptureSwitch
}

// Relevant reports section membership for dir
func (c Capabilities) Relevant(dir mixerctl.Direction) bool {
	if dir == mixerctl.Capture {
		return c.Capture()
	}
	return c.Playback()
}

// Volume reports whether the control has a volume in dir
func (c Capabilities) Volume(dir mixerctl.Direction) bool {
	if dir == mixerctl.Capture {
		return c.CaptureVolume
	}
	return c.PlaybackVolume
}

// Switch reports whether the control has a switch in dir
func (c Capabilities) Switch(dir mixerctl.Direction) bool {
	if dir == mixerctl.Capture {
		return c.CaptureSwitch
	}
	return c.PlaybackSwitch
}
