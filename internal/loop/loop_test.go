package loop

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func pipe(t *testing.T) (int, int) {
	t.Helper()
	var fds [2]int
	require.NoError(t, unix.Pipe2(fds[:], unix.O_NONBLOCK|unix.O_CLOEXEC))
	t.Cleanup(func() {
		_ = unix.Close(fds[0])
		_ = unix.Close(fds[1])
	})
	return fds[0], fds[1]
}

func drain(fd int) {
	buf := make([]byte, 16)
	for {
		if n, err := unix.Read(fd, buf); n <= 0 || err != nil {
			return
		}
	}
}

func run(t *testing.T, l *Loop, d Dispatcher) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx, d) }()
	t.Cleanup(cancel)
	return cancel, done
}

func TestAddRemove(t *testing.T) {
	l := New()
	r, _ := pipe(t)
	cb := func(int, int16, any) {}

	require.NoError(t, l.Add(r, unix.POLLIN, cb, nil))
	assert.Error(t, l.Add(r, unix.POLLIN, cb, nil))
	assert.Error(t, l.Add(-1, unix.POLLIN, cb, nil))
	assert.Error(t, l.Add(r+100, unix.POLLIN, nil, nil))
	assert.Equal(t, 1, l.Len())

	l.Remove(r + 100)
	assert.Equal(t, 1, l.Len())
	l.Remove(r)
	assert.Equal(t, 0, l.Len())
}

func TestRunDispatchesReadiness(t *testing.T) {
	l := New(WithTimeout(20 * time.Millisecond))
	r, w := pipe(t)

	type call struct {
		fd      int
		revents int16
		priv    any
	}
	calls := make(chan call, 8)
	require.NoError(t, l.Add(r, unix.POLLIN, func(fd int, revents int16, priv any) {
		drain(fd)
		calls <- call{fd, revents, priv}
	}, "mixer"))

	cancel, done := run(t, l, Inline)

	_, err := unix.Write(w, []byte{1})
	require.NoError(t, err)

	select {
	case c := <-calls:
		assert.Equal(t, r, c.fd)
		assert.NotZero(t, c.revents&unix.POLLIN)
		assert.Equal(t, "mixer", c.priv)
	case <-time.After(2 * time.Second):
		t.Fatal("callback not dispatched")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}
}

func TestRunUsesDispatcher(t *testing.T) {
	l := New(WithTimeout(20 * time.Millisecond))
	r, w := pipe(t)

	fired := make(chan struct{}, 1)
	require.NoError(t, l.Add(r, unix.POLLIN, func(fd int, _ int16, _ any) {
		drain(fd)
		fired <- struct{}{}
	}, nil))

	dispatched := make(chan struct{}, 8)
	d := DispatchFunc(func(_ context.Context, fn func()) error {
		dispatched <- struct{}{}
		fn()
		return nil
	})
	_, _ = run(t, l, d)

	_, err := unix.Write(w, []byte{1})
	require.NoError(t, err)

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("callback not dispatched")
	}
	assert.NotEmpty(t, dispatched)
}

func TestRunDispatchError(t *testing.T) {
	l := New(WithTimeout(20 * time.Millisecond))
	r, w := pipe(t)
	require.NoError(t, l.Add(r, unix.POLLIN, func(int, int16, any) {}, nil))

	boom := errors.New("boom")
	_, done := run(t, l, DispatchFunc(func(context.Context, func()) error { return boom }))

	_, err := unix.Write(w, []byte{1})
	require.NoError(t, err)

	select {
	case err := <-done:
		assert.ErrorIs(t, err, boom)
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}
}

func TestRunWithoutDescriptors(t *testing.T) {
	l := New(WithTimeout(10 * time.Millisecond))
	cancel, done := run(t, l, nil)

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}
}

func TestRunRemovesInvalidDescriptor(t *testing.T) {
	l := New(WithTimeout(10 * time.Millisecond))

	var fds [2]int
	require.NoError(t, unix.Pipe2(fds[:], unix.O_CLOEXEC))
	require.NoError(t, unix.Close(fds[0]))
	require.NoError(t, unix.Close(fds[1]))

	require.NoError(t, l.Add(fds[0], unix.POLLIN, func(int, int16, any) {}, nil))

	_, _ = run(t, l, Inline)

	assert.Eventually(t, func() bool { return l.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestRunRemovesHungUpDescriptor(t *testing.T) {
	l := New(WithTimeout(10 * time.Millisecond))

	var fds [2]int
	require.NoError(t, unix.Pipe2(fds[:], unix.O_NONBLOCK|unix.O_CLOEXEC))
	t.Cleanup(func() { _ = unix.Close(fds[0]) })

	hups := make(chan int16, 8)
	require.NoError(t, l.Add(fds[0], unix.POLLIN, func(_ int, revents int16, _ any) {
		hups <- revents
	}, nil))
	require.NoError(t, unix.Close(fds[1]))

	_, _ = run(t, l, Inline)

	assert.Eventually(t, func() bool { return l.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
	revents := <-hups
	assert.NotZero(t, revents&unix.POLLHUP)
}
