package kernel

import (
	"strings"

	"github.com/gen2brain/alsa"

	"github.com/michaelquigley/mixerctl"
)

type role int

const (
	roleNone role = iota
	rolePlaybackVolume
	rolePlaybackSwitch
	roleCaptureVolume
	roleCaptureSwitch
	roleEnum
)

var suffixes = []struct {
	suffix string
	role   role
}{
	{" Playback Volume", rolePlaybackVolume},
	{" Playback Switch", rolePlaybackSwitch},
	{" Capture Volume", roleCaptureVolume},
	{" Capture Switch", roleCaptureSwitch},
	{" Volume", rolePlaybackVolume},
	{" Switch", rolePlaybackSwitch},
}

// classify splits a raw control name into its simple element name and role
func classify(name string, typ alsa.MixerCtlType) (string, role) {
	if typ == alsa.SNDRV_CTL_ELEM_TYPE_ENUMERATED {
		return strings.TrimSuffix(name, " Enum"), roleEnum
	}

	// bare direction names belong to an element of the same name
	switch name {
	case "Capture Volume":
		return "Capture", roleCaptureVolume
	case "Capture Switch":
		return "Capture", roleCaptureSwitch
	case "Playback Volume":
		return "Playback", rolePlaybackVolume
	case "Playback Switch":
		return "Playback", rolePlaybackSwitch
	}

	for _, s := range suffixes {
		if !strings.HasSuffix(name, s.suffix) {
			continue
		}
		base := strings.TrimSuffix(name, s.suffix)
		switch s.role {
		case rolePlaybackVolume, roleCaptureVolume:
			if typ != alsa.SNDRV_CTL_ELEM_TYPE_INTEGER {
				return name, roleNone
			}
		case rolePlaybackSwitch, roleCaptureSwitch:
			if typ != alsa.SNDRV_CTL_ELEM_TYPE_BOOLEAN {
				return name, roleNone
			}
		}
		return base, s.role
	}

	return name, roleNone
}

type elementKey struct {
	name  string
	index int
}

// group builds simple elements from raw controls, preserving the order in
// which element names first appear. Repeated raw names yield elements with
// increasing index, as do raw controls whose role the element already
// holds. Raw controls without a usable role are dropped.
func group(ctls []ctl) []*Element {
	var out []*Element
	byKey := make(map[elementKey]*Element)
	seen := make(map[string]int)

	for _, c := range ctls {
		base, r := classify(c.Name(), c.Type())
		if r == roleNone {
			continue
		}

		index := seen[c.Name()]
		seen[c.Name()]++

		// "Master Volume" next to "Master Playback Volume" takes the next index
		el, ok := byKey[elementKey{base, index}]
		for ok && el.has(r) {
			index++
			el, ok = byKey[elementKey{base, index}]
		}
		if !ok {
			el = &Element{name: base, index: index}
			byKey[elementKey{base, index}] = el
			out = append(out, el)
		}
		el.set(r, c)
	}
	return out
}

func (e *Element) has(r role) bool {
	switch r {
	case rolePlaybackVolume:
		return e.volume[mixerctl.Playback] != nil
	case rolePlaybackSwitch:
		return e.switches[mixerctl.Playback] != nil
	case roleCaptureVolume:
		return e.volume[mixerctl.Capture] != nil
	case roleCaptureSwitch:
		return e.switches[mixerctl.Capture] != nil
	case roleEnum:
		return e.enum != nil
	}
	return false
}

func (e *Element) set(r role, c ctl) {
	switch r {
	case rolePlaybackVolume:
		e.volume[mixerctl.Playback] = c
	case rolePlaybackSwitch:
		e.switches[mixerctl.Playback] = c
	case roleCaptureVolume:
		e.volume[mixerctl.Capture] = c
	case roleCaptureSwitch:
		e.switches[mixerctl.Capture] = c
	case roleEnum:
		e.enum = c
	}
}
