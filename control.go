package mixerctl

import (
	"fmt"
	"strconv"
	"strings"
)

// ControlID returns the "name,index" identifier of a control; the index is
// omitted when zero
func ControlID(ctl Control) string {
	if ctl.Index() > 0 {
		return fmt.Sprintf("%s,%d", ctl.Name(), ctl.Index())
	}
	return ctl.Name()
}

// FindControl finds a control by exact identifier ("Master", "Mic,1"), falling
// back to a case-insensitive name match
func FindControl(dev Device, id string) (Control, error) {
	controls := dev.Controls()

	for _, ctl := range controls {
		if ControlID(ctl) == id {
			return ctl, nil
		}
	}

	for _, ctl := range controls {
		if strings.EqualFold(ctl.Name(), id) {
			return ctl, nil
		}
	}

	return nil, fmt.Errorf("control '%s' not found", id)
}

// FindControlByPrefix finds the first control whose name starts with prefix
func FindControlByPrefix(dev Device, prefix string) (Control, error) {
	for _, ctl := range dev.Controls() {
		if strings.HasPrefix(ctl.Name(), prefix) {
			return ctl, nil
		}
	}

	return nil, fmt.Errorf("control with prefix '%s' not found", prefix)
}

// FindControlsMatching finds all controls whose name contains pattern
func FindControlsMatching(dev Device, pattern string) ([]Control, error) {
	var matched []Control
	patternLower := strings.ToLower(pattern)

	for _, ctl := range dev.Controls() {
		if strings.Contains(strings.ToLower(ctl.Name()), patternLower) {
			matched = append(matched, ctl)
		}
	}

	if len(matched) == 0 {
		return nil, fmt.Errorf("no controls matching '%s' found", pattern)
	}

	return matched, nil
}

// ValueString returns the direction's state of a control as a human-readable string
func ValueString(ctl Control, dir Direction) (string, error) {
	var parts []string

	if ctl.HasVolume(dir) {
		lo, hi, err := ctl.VolumeRange(dir)
		if err != nil {
			return "", err
		}
		value, err := ctl.Volume(dir)
		if err != nil {
			return "", err
		}
		parts = append(parts, fmt.Sprintf("%d [%d, %d]", value, lo, hi))
	}

	if ctl.HasSwitch(dir) {
		on, err := ctl.Switch(dir)
		if err != nil {
			return "", err
		}
		if on {
			parts = append(parts, "On")
		} else {
			parts = append(parts, "Off")
		}
	}

	if len(parts) == 0 {
		return "", ErrNotSupported
	}
	return strings.Join(parts, " "), nil
}

// EnumString returns the selected item of an enumerated control and all item names
func EnumString(ctl Control) (string, []string, error) {
	n, err := ctl.EnumItems()
	if err != nil {
		return "", nil, err
	}

	items := make([]string, n)
	for i := range items {
		if items[i], err = ctl.EnumItemName(i); err != nil {
			return "", nil, err
		}
	}

	sel, err := ctl.EnumItem()
	if err != nil {
		return "", nil, err
	}
	if sel >= 0 && sel < n {
		return items[sel], items, nil
	}
	return fmt.Sprintf("Unknown(%d)", sel), items, nil
}

// DetailedString returns a one-line description of a control including its
// capabilities and current values
func DetailedString(ctl Control) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-28s", ControlID(ctl)))

	if ctl.IsEnumerated() {
		sel, items, err := EnumString(ctl)
		if err != nil {
			sb.WriteString(fmt.Sprintf(" [Enum] Error: %v", err))
		} else {
			sb.WriteString(fmt.Sprintf(" [Enum] %s items: %v", sel, items))
		}
	}

	for _, dir := range []Direction{Playback, Capture} {
		if !ctl.HasVolume(dir) && !ctl.HasSwitch(dir) {
			continue
		}
		value, err := ValueString(ctl, dir)
		if err != nil {
			value = fmt.Sprintf("Error: %v", err)
		}
		sb.WriteString(fmt.Sprintf(" [%s] %s", dir, value))
	}

	return sb.String()
}

// SetValueByString sets a control from a string: on/off for switches, an
// item name or index for enumerated controls, an integer for volumes
func SetValueByString(ctl Control, dir Direction, valueStr string) error {
	if ctl.IsEnumerated() {
		n, err := ctl.EnumItems()
		if err != nil {
			return err
		}
		// try to find matching enum item
		for i := 0; i < n; i++ {
			name, err := ctl.EnumItemName(i)
			if err == nil && strings.EqualFold(name, valueStr) {
				return ctl.SetEnumItem(i)
			}
		}
		// try parsing as index
		if index, err := strconv.Atoi(valueStr); err == nil {
			return ctl.SetEnumItem(index)
		}
		return fmt.Errorf("invalid enum value: %s", valueStr)
	}

	if ctl.HasSwitch(dir) {
		switch strings.ToLower(valueStr) {
		case "on", "true", "yes", "unmute":
			return ctl.SetSwitchAll(dir, true)
		case "off", "false", "no", "mute":
			return ctl.SetSwitchAll(dir, false)
		}
	}

	if ctl.HasVolume(dir) {
		value, err := strconv.ParseInt(valueStr, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid volume value: %s", valueStr)
		}
		lo, hi, err := ctl.VolumeRange(dir)
		if err != nil {
			return err
		}
		if value < lo || value > hi {
			return fmt.Errorf("value %d out of range [%d, %d]", value, lo, hi)
		}
		return ctl.SetVolumeAll(dir, value)
	}

	if ctl.HasSwitch(dir) {
		return fmt.Errorf("invalid switch value: %s (use on/off)", valueStr)
	}
	return fmt.Errorf("%s: %w", ControlID(ctl), ErrNotSupported)
}
