//go:build linux && cgo

package mixerctl

/*
#include <stdint.h>
*/
import "C"
import "runtime/cgo"

// goElemEvent receives element notifications from alsa-lib while
// snd_mixer_handle_events runs, on the goroutine that called HandleEvents
//
//export goElemEvent
func goElemEvent(handle C.uintptr_t, mask C.uint) C.int {
	if handle == 0 {
		return 0
	}
	h := cgo.Handle(handle)
	el, ok := h.Value().(*Element)
	if !ok {
		return 0
	}
	m := EventMask(mask)
	el.notify(m)
	if m == EventMaskRemove {
		// alsa-lib frees the element once the callback returns
		el.release()
	}
	return 0
}
