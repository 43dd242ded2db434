package bridge

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/michaelquigley/mixerctl"
	"github.com/michaelquigley/mixerctl/internal/loop"
	"github.com/michaelquigley/mixerctl/internal/mock"
	"github.com/michaelquigley/mixerctl/internal/widget"
)

const (
	pb = mixerctl.Playback
	cp = mixerctl.Capture
)

func testLogger() (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}

type registration struct {
	fd     int
	events int16
	cb     loop.Callback
	priv   any
}

type fakeRegistrar struct {
	adds []registration
	err  error
}

func (r *fakeRegistrar) Add(fd int, events int16, cb loop.Callback, priv any) error {
	if r.err != nil {
		return r.err
	}
	r.adds = append(r.adds, registration{fd, events, cb, priv})
	return nil
}

// ready simulates readiness on every registered descriptor
func (r *fakeRegistrar) ready() {
	for _, a := range r.adds {
		a.cb(a.fd, unix.POLLIN, a.priv)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		control  *mock.Control
		expected Capabilities
		playback bool
		capture  bool
	}{
		{
			name:     "playback volume",
			control:  mock.NewControl("Master", mock.WithVolume(pb, 0, 87, 40)),
			expected: Capabilities{PlaybackVolume: true},
			playback: true,
		},
		{
			name:     "playback switch",
			control:  mock.NewControl("Speaker", mock.WithSwitch(pb, true)),
			expected: Capabilities{PlaybackSwitch: true},
			playback: true,
		},
		{
			name:     "enumerated",
			control:  mock.NewControl("Input Source", mock.WithEnum([]string{"Mic", "Line"}, 0)),
			expected: Capabilities{Enumerated: true},
			playback: true,
		},
		{
			name:     "capture only",
			control:  mock.NewControl("Capture", mock.WithVolume(cp, 0, 63, 10), mock.WithSwitch(cp, false)),
			expected: Capabilities{CaptureVolume: true, CaptureSwitch: true},
			capture:  true,
		},
		{
			name:     "both directions",
			control:  mock.NewControl("Line", mock.WithVolume(pb, 0, 31, 5), mock.WithSwitch(cp, true)),
			expected: Capabilities{PlaybackVolume: true, CaptureSwitch: true},
			playback: true,
			capture:  true,
		},
		{
			name:     "nothing",
			control:  mock.NewControl("Beep"),
			expected: Capabilities{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caps := Classify(tt.control)
			assert.Equal(t, tt.expected, caps)
			assert.Equal(t, tt.playback, caps.Playback())
			assert.Equal(t, tt.capture, caps.Capture())
			assert.Equal(t, tt.playback, caps.Relevant(pb))
			assert.Equal(t, tt.capture, caps.Relevant(cp))
		})
	}
}

func TestSliderSeededFromHardware(t *testing.T) {
	log, _ := testLogger()
	dev := mock.NewDevice("test",
		mock.NewControl("Headphone", mock.WithVolume(pb, -10, 10, -3)),
		mock.NewControl("Master", mock.WithVolume(pb, 0, 100, 37)),
	)

	s := BuildSection(dev, pb, log)
	require.Equal(t, 2, s.Len())

	for i, c := range dev.Controls() {
		lo, hi, err := c.VolumeRange(pb)
		require.NoError(t, err)
		v, err := c.Volume(pb)
		require.NoError(t, err)

		slider := s.Groups[i].Slider()
		require.NotNil(t, slider, c.Name())
		assert.Equal(t, lo, slider.Min())
		assert.Equal(t, hi, slider.Max())
		assert.Equal(t, v, slider.Value())
		assert.Equal(t, widget.Vertical, slider.Orientation())
	}

	// master volume at row 1, column 0
	slider, ok := s.Grid.Get(ColPrimary, 1).(*widget.Slider)
	require.True(t, ok)
	assert.Equal(t, int64(37), slider.Value())
	assert.Equal(t, int64(0), slider.Min())
	assert.Equal(t, int64(100), slider.Max())
	assert.Same(t, s.Groups[1].Slider(), slider)
}

func TestCaptureToggleWritesOnce(t *testing.T) {
	log, _ := testLogger()
	mic := mock.NewControl("Mic", mock.WithVolume(cp, 0, 31, 12))
	capture := mock.NewControl("Capture", mock.WithSwitch(cp, false))
	dev := mock.NewDevice("test", mic, capture)

	s := BuildSection(dev, cp, log)
	require.Equal(t, 2, s.Len())

	toggle, ok := s.Grid.Get(ColToggle, 1).(*widget.Toggle)
	require.True(t, ok)
	assert.False(t, toggle.Checked())
	assert.Nil(t, s.Grid.Get(ColPrimary, 1))

	require.True(t, toggle.Toggle())
	assert.Equal(t, []mock.Write{{Op: mock.OpSwitch, Dir: cp, Value: 1}}, capture.Writes())
	assert.Empty(t, mic.Writes())

	on, err := capture.Switch(cp)
	require.NoError(t, err)
	assert.True(t, on)
}

func TestEnumChoiceSeeded(t *testing.T) {
	log, _ := testLogger()
	src := mock.NewControl("Input Source", mock.WithEnum([]string{"Mic", "Line", "CD"}, 1))
	dev := mock.NewDevice("test", src)

	s := BuildSection(dev, pb, log)
	require.Equal(t, 1, s.Len())

	choice, ok := s.Grid.Get(ColPrimary, 0).(*widget.Choice)
	require.True(t, ok)
	assert.Equal(t, []string{"Mic", "Line", "CD"}, choice.Options())
	assert.Equal(t, 1, choice.Selected())
	assert.Nil(t, s.Groups[0].Slider())
	assert.Nil(t, s.Grid.Get(ColToggle, 0))

	require.True(t, choice.Next())
	assert.Equal(t, []mock.Write{{Op: mock.OpEnum, Value: 2}}, src.Writes())
}

func TestEnumItemNamesTruncated(t *testing.T) {
	log, _ := testLogger()
	long := strings.Repeat("x", 100)
	dev := mock.NewDevice("test", mock.NewControl("Mode", mock.WithEnum([]string{long, "short"}, 0)))

	s := BuildSection(dev, pb, log)
	opts := s.Groups[0].Choice().Options()
	assert.Len(t, opts[0], mixerctl.MaxEnumNameLen)
	assert.Equal(t, "short", opts[1])
}

func TestZeroDescriptors(t *testing.T) {
	log, buf := testLogger()
	master := mock.NewControl("Master", mock.WithVolume(pb, 0, 100, 50), mock.WithSwitch(pb, true))
	dev := mock.NewDevice("test", master)
	reg := &fakeRegistrar{}

	app := New(dev, reg, WithLogger(log))

	assert.Equal(t, 0, app.Descriptors)
	assert.Empty(t, reg.adds)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "no poll descriptors")

	// user edits still reach the hardware
	require.True(t, app.Playback.Groups[0].Slider().Step(5))
	require.True(t, app.Playback.Groups[0].Toggle().Toggle())
	assert.Equal(t, []mock.Write{
		{Op: mock.OpVolume, Dir: pb, Value: 55},
		{Op: mock.OpSwitch, Dir: pb, Value: 0},
	}, master.Writes())
}

func TestDescriptorEnumerationFailure(t *testing.T) {
	log, buf := testLogger()
	dev := mock.NewDevice("test", mock.NewControl("Master", mock.WithVolume(pb, 0, 100, 50)))
	dev.PollErr = errors.New("no descriptors for you")

	assert.Equal(t, 0, RegisterPoll(dev, &fakeRegistrar{}, log))
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "no descriptors for you")
}

func TestGroupCountMatchesRelevantControls(t *testing.T) {
	log, _ := testLogger()
	dev := mock.NewDevice("test",
		mock.NewControl("Master", mock.WithVolume(pb, 0, 100, 50)),
		mock.NewControl("Beep"),
		mock.NewControl("Capture", mock.WithVolume(cp, 0, 63, 10)),
		mock.NewControl("Line", mock.WithVolume(pb, 0, 31, 5), mock.WithSwitch(cp, true)),
		mock.NewControl("Source", mock.WithEnum([]string{"A", "B"}, 0)),
		mock.NewControl("Mic Boost", mock.WithSwitch(cp, false)),
	)

	want := map[mixerctl.Direction]int{}
	for _, c := range dev.Controls() {
		caps := Classify(c)
		for _, dir := range []mixerctl.Direction{pb, cp} {
			if caps.Relevant(dir) {
				want[dir]++
			}
		}
	}

	for _, dir := range []mixerctl.Direction{pb, cp} {
		s := BuildSection(dev, dir, log)
		assert.Len(t, s.Groups, want[dir], dir.String())
		assert.Equal(t, want[dir], s.Grid.Rows(), dir.String())
		assert.Equal(t, 3, s.Grid.Cols())
	}

	pbSection := BuildSection(dev, pb, log)
	var names []string
	for i := range pbSection.Groups {
		names = append(names, pbSection.Groups[i].Label().Text())
	}
	assert.Equal(t, []string{"Master", "Line", "Source"}, names)
}

func TestEmptySection(t *testing.T) {
	log, _ := testLogger()
	dev := mock.NewDevice("test", mock.NewControl("Master", mock.WithVolume(pb, 0, 100, 50)))

	s := BuildSection(dev, cp, log)
	assert.Nil(t, s.Groups)
	assert.Equal(t, 0, s.Len())
	require.NotNil(t, s.Grid)
	assert.Equal(t, 0, s.Grid.Rows())

	s = BuildSection(mock.NewDevice("empty"), pb, log)
	assert.Nil(t, s.Groups)
}

func TestSliderAndChoiceExclusive(t *testing.T) {
	log, _ := testLogger()
	dev := mock.NewDevice("test",
		mock.NewControl("Master", mock.WithVolume(pb, 0, 100, 50), mock.WithSwitch(pb, true)),
		mock.NewControl("Odd", mock.WithVolume(pb, 0, 10, 1), mock.WithEnum([]string{"A", "B"}, 0), mock.WithSwitch(pb, false)),
		mock.NewControl("Source", mock.WithEnum([]string{"A", "B"}, 0)),
	)

	s := BuildSection(dev, pb, log)
	for i := range s.Groups {
		g := &s.Groups[i]
		assert.False(t, g.Slider() != nil && g.Choice() != nil, g.Label().Text())
	}

	odd := &s.Groups[1]
	assert.NotNil(t, odd.Choice())
	assert.NotNil(t, odd.Toggle())
	assert.IsType(t, &widget.Choice{}, s.Grid.Get(ColPrimary, 1))
}

func TestLabels(t *testing.T) {
	log, _ := testLogger()
	dev := mock.NewDevice("test",
		mock.NewControl("Mic", mock.WithVolume(cp, 0, 10, 1)),
		mock.NewControl("Mic", mock.WithIndex(1), mock.WithVolume(cp, 0, 10, 1)),
	)

	s := BuildSection(dev, cp, log)
	assert.Equal(t, "Mic", s.Grid.Get(ColLabel, 0).(*widget.Label).Text())
	assert.Equal(t, "Mic,1", s.Grid.Get(ColLabel, 1).(*widget.Label).Text())
}

func TestUnusableSliderLeavesCellEmpty(t *testing.T) {
	log, buf := testLogger()
	broken := mock.NewControl("Broken", mock.WithVolume(pb, 0, 100, 50), mock.WithSwitch(pb, true))
	broken.RangeErr = errors.New("range query failed")
	dev := mock.NewDevice("test", broken)

	s := BuildSection(dev, pb, log)
	require.Equal(t, 1, s.Len())

	assert.Nil(t, s.Groups[0].Slider())
	assert.Nil(t, s.Grid.Get(ColPrimary, 0))
	assert.IsType(t, &widget.Toggle{}, s.Grid.Get(ColToggle, 0))
	assert.IsType(t, &widget.Label{}, s.Grid.Get(ColLabel, 0))
	assert.Contains(t, buf.String(), "range query failed")
}

func TestExternalChangeUpdatesWidgetsWithoutEcho(t *testing.T) {
	log, _ := testLogger()
	master := mock.NewControl("Master", mock.WithVolume(pb, 0, 100, 50), mock.WithSwitch(pb, true))
	src := mock.NewControl("Source", mock.WithEnum([]string{"Mic", "Line", "CD"}, 0))
	dev := mock.NewDevice("test", master, src)
	app := New(dev, nil, WithLogger(log))

	master.ExternalVolume(pb, 80)
	master.ExternalSwitch(pb, false)
	src.ExternalEnum(2)
	require.NoError(t, dev.HandleEvents())

	g := &app.Playback.Groups[0]
	assert.Equal(t, int64(80), g.Slider().Value())
	assert.False(t, g.Toggle().Checked())
	assert.Equal(t, 2, app.Playback.Groups[1].Choice().Selected())

	assert.Empty(t, master.Writes())
	assert.Empty(t, src.Writes())
}

func TestUnchangedNotificationIsIdempotent(t *testing.T) {
	log, _ := testLogger()
	master := mock.NewControl("Master", mock.WithVolume(pb, 0, 100, 50), mock.WithSwitch(pb, true))
	dev := mock.NewDevice("test", master)

	notified := 0
	app := New(dev, nil, WithLogger(log), WithObserver(func(mixerctl.Control, mixerctl.EventMask, []*Group) {
		notified++
	}))

	for i := 0; i < 3; i++ {
		dev.Notify(master, mixerctl.EventMaskValue)
		require.NoError(t, dev.HandleEvents())
	}

	g := &app.Playback.Groups[0]
	assert.Equal(t, 3, notified)
	assert.Equal(t, int64(50), g.Slider().Value())
	assert.True(t, g.Toggle().Checked())
	assert.Empty(t, master.Writes())
}

func TestNewAppTakesOverBindings(t *testing.T) {
	log, _ := testLogger()
	master := mock.NewControl("Master", mock.WithVolume(pb, 0, 100, 50))
	dev := mock.NewDevice("test", master)

	var first, second int
	New(dev, nil, WithLogger(log), WithObserver(func(mixerctl.Control, mixerctl.EventMask, []*Group) { first++ }))
	app := New(dev, nil, WithLogger(log), WithObserver(func(mixerctl.Control, mixerctl.EventMask, []*Group) { second++ }))

	master.ExternalVolume(pb, 80)
	require.NoError(t, dev.HandleEvents())

	assert.Equal(t, 0, first)
	assert.Equal(t, 1, second)
	assert.Equal(t, int64(80), app.Playback.Groups[0].Slider().Value())

	binding, ok := master.CallbackPrivate().(*Binding)
	require.True(t, ok)
	assert.Same(t, &app.Playback.Groups[0], binding.Group(pb))
}

func TestCaptureSliderFollowsCaptureVolume(t *testing.T) {
	log, _ := testLogger()
	capture := mock.NewControl("Capture", mock.WithVolume(cp, 0, 63, 10), mock.WithSwitch(cp, true))
	dev := mock.NewDevice("test", capture)
	app := New(dev, nil, WithLogger(log))

	require.Equal(t, 1, app.Capture.Len())
	capture.ExternalVolume(cp, 42)
	capture.ExternalSwitch(cp, false)
	require.NoError(t, dev.HandleEvents())

	g := &app.Capture.Groups[0]
	assert.Equal(t, int64(42), g.Slider().Value())
	assert.False(t, g.Toggle().Checked())
	assert.Empty(t, capture.Writes())
}

func TestControlInBothSections(t *testing.T) {
	log, _ := testLogger()
	line := mock.NewControl("Line",
		mock.WithVolume(pb, 0, 31, 5), mock.WithSwitch(pb, true),
		mock.WithVolume(cp, 0, 31, 20), mock.WithSwitch(cp, false))
	dev := mock.NewDevice("test", line)
	app := New(dev, nil, WithLogger(log))

	binding, ok := line.CallbackPrivate().(*Binding)
	require.True(t, ok)
	assert.Same(t, &app.Playback.Groups[0], binding.Group(pb))
	assert.Same(t, &app.Capture.Groups[0], binding.Group(cp))

	line.ExternalVolume(cp, 25)
	require.NoError(t, dev.HandleEvents())

	assert.Equal(t, int64(25), app.Capture.Groups[0].Slider().Value())
	assert.Equal(t, int64(5), app.Playback.Groups[0].Slider().Value())

	line.ExternalVolume(pb, 30)
	require.NoError(t, dev.HandleEvents())
	assert.Equal(t, int64(30), app.Playback.Groups[0].Slider().Value())
	assert.Equal(t, int64(25), app.Capture.Groups[0].Slider().Value())

	// user edits go to the matching direction only
	require.True(t, app.Capture.Groups[0].Toggle().Toggle())
	assert.Equal(t, []mock.Write{{Op: mock.OpSwitch, Dir: cp, Value: 1}}, line.Writes())
}

func TestFailedReadKeepsLastValue(t *testing.T) {
	log, buf := testLogger()
	master := mock.NewControl("Master", mock.WithVolume(pb, 0, 100, 50), mock.WithSwitch(pb, true))
	dev := mock.NewDevice("test", master)
	app := New(dev, nil, WithLogger(log))

	master.ReadErr = errors.New("device busy")
	master.ExternalVolume(pb, 70)
	require.NoError(t, dev.HandleEvents())

	g := &app.Playback.Groups[0]
	assert.Equal(t, int64(50), g.Slider().Value())
	assert.True(t, g.Toggle().Checked())
	assert.Contains(t, buf.String(), "device busy")

	master.ReadErr = nil
	dev.Notify(master, mixerctl.EventMaskValue)
	require.NoError(t, dev.HandleEvents())
	assert.Equal(t, int64(70), g.Slider().Value())
}

func TestFailedWriteIsLogged(t *testing.T) {
	log, buf := testLogger()
	master := mock.NewControl("Master", mock.WithVolume(pb, 0, 100, 50))
	master.WriteErr = errors.New("write refused")
	dev := mock.NewDevice("test", master)
	app := New(dev, nil, WithLogger(log))

	require.True(t, app.Playback.Groups[0].Slider().Step(1))
	assert.Len(t, master.Writes(), 1)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "write refused")
}

func TestRemovedControlDisablesWidgets(t *testing.T) {
	log, _ := testLogger()
	master := mock.NewControl("Master", mock.WithVolume(pb, 0, 100, 50), mock.WithSwitch(pb, true),
		mock.WithVolume(cp, 0, 100, 10))
	other := mock.NewControl("PCM", mock.WithVolume(pb, 0, 255, 200))
	dev := mock.NewDevice("test", master, other)

	var masks []mixerctl.EventMask
	app := New(dev, nil, WithLogger(log), WithObserver(func(_ mixerctl.Control, mask mixerctl.EventMask, _ []*Group) {
		masks = append(masks, mask)
	}))

	master.Remove()
	require.NoError(t, dev.HandleEvents())

	pg, cg := &app.Playback.Groups[0], &app.Capture.Groups[0]
	assert.True(t, pg.Removed())
	assert.True(t, cg.Removed())
	assert.True(t, pg.Slider().Disabled())
	assert.True(t, pg.Toggle().Disabled())
	assert.False(t, pg.Slider().Step(1))
	assert.False(t, pg.Toggle().Toggle())
	assert.ErrorIs(t, pg.Refresh(), mixerctl.ErrRemoved)
	assert.Empty(t, master.Writes())
	assert.Equal(t, []mixerctl.EventMask{mixerctl.EventMaskRemove}, masks)

	// other controls are unaffected
	og := &app.Playback.Groups[1]
	assert.False(t, og.Removed())
	other.ExternalVolume(pb, 100)
	require.NoError(t, dev.HandleEvents())
	assert.Equal(t, int64(100), og.Slider().Value())
}

func TestRegisterPollDrainsOnReadiness(t *testing.T) {
	log, _ := testLogger()
	master := mock.NewControl("Master", mock.WithVolume(pb, 0, 100, 50))
	dev := mock.NewDevice("test", master)
	require.NoError(t, dev.OpenPipe())
	t.Cleanup(func() { _ = dev.Close() })

	reg := &fakeRegistrar{}
	app := New(dev, reg, WithLogger(log))
	require.Equal(t, 1, app.Descriptors)
	require.Len(t, reg.adds, 1)
	assert.Equal(t, int16(unix.POLLIN), reg.adds[0].events)
	assert.Equal(t, dev, reg.adds[0].priv)

	master.ExternalVolume(pb, 12)
	assert.Equal(t, int64(50), app.Playback.Groups[0].Slider().Value())

	reg.ready()
	assert.Equal(t, 1, dev.HandleCalls)
	assert.Equal(t, 0, dev.Pending())
	assert.Equal(t, int64(12), app.Playback.Groups[0].Slider().Value())
}

func TestRegisterPollHandleError(t *testing.T) {
	log, buf := testLogger()
	dev := mock.NewDevice("test", mock.NewControl("Master", mock.WithVolume(pb, 0, 100, 50)))
	require.NoError(t, dev.OpenPipe())
	t.Cleanup(func() { _ = dev.Close() })
	dev.HandleErr = errors.New("handle failed")

	reg := &fakeRegistrar{}
	require.Equal(t, 1, RegisterPoll(dev, reg, log))
	reg.ready()
	assert.Contains(t, buf.String(), "handle failed")
}

func TestRegisterPollRegistrarFailure(t *testing.T) {
	log, buf := testLogger()
	dev := mock.NewDevice("test")
	require.NoError(t, dev.OpenPipe())
	t.Cleanup(func() { _ = dev.Close() })

	assert.Equal(t, 0, RegisterPoll(dev, &fakeRegistrar{err: errors.New("full")}, log))
	assert.Contains(t, buf.String(), "full")
}

func TestAppTabs(t *testing.T) {
	log, _ := testLogger()
	dev := mock.NewDevice("test",
		mock.NewControl("Master", mock.WithVolume(pb, 0, 100, 50)),
		mock.NewControl("Capture", mock.WithVolume(cp, 0, 63, 10)),
	)
	app := New(dev, nil, WithLogger(log))

	assert.Equal(t, []string{"Playback", "Capture"}, app.Tabs.Labels())
	assert.Same(t, app.Playback.Grid, app.Tabs.Grid(TabPlayback))
	assert.Same(t, app.Capture.Grid, app.Tabs.Grid(TabCapture))
	assert.Same(t, app.Capture, app.Section(TabCapture))
	assert.Same(t, app.Playback, app.Section(TabPlayback))
}
