//go:build linux && cgo

package mixerctl

/*
#cgo LDFLAGS: -lasound
#include <alsa/asoundlib.h>
#include <stdint.h>
#include <stdlib.h>
#include <string.h>

extern int goElemEvent(uintptr_t handle, unsigned int mask);

// Routes every element notification to Go with the element's cgo handle
static int elem_trampoline(snd_mixer_elem_t *elem, unsigned int mask) {
	return goElemEvent((uintptr_t)snd_mixer_elem_get_callback_private(elem), mask);
}

static void bind_elem(snd_mixer_elem_t *elem, uintptr_t handle) {
	snd_mixer_elem_set_callback_private(elem, (void *)handle);
	snd_mixer_elem_set_callback(elem, elem_trampoline);
}

static void unbind_elem(snd_mixer_elem_t *elem) {
	snd_mixer_elem_set_callback(elem, NULL);
	snd_mixer_elem_set_callback_private(elem, NULL);
}

static int enum_item_name(snd_mixer_elem_t *elem, unsigned int idx, char *buf, size_t size) {
	int err = snd_mixer_selem_get_enum_item_name(elem, idx, size, buf);
	buf[size - 1] = '\0';
	return err;
}
*/
import "C"
import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// alsaError converts ALSA error codes to Go errors
func alsaError(code C.int, operation string) error {
	if code >= 0 {
		return nil
	}
	errStr := C.GoString(C.snd_strerror(code))
	return fmt.Errorf("%s: %s", operation, errStr)
}

func mixerPtr(ptr uintptr) *C.snd_mixer_t {
	return (*C.snd_mixer_t)(unsafe.Pointer(ptr))
}

func elemPtr(ptr uintptr) *C.snd_mixer_elem_t {
	return (*C.snd_mixer_elem_t)(unsafe.Pointer(ptr))
}

// openMixer opens a mixer on the named device, registers the simple element
// abstraction and loads the current element set
func openMixer(device string) (uintptr, error) {
	var handle *C.snd_mixer_t
	if err := C.snd_mixer_open(&handle, 0); err < 0 {
		return 0, alsaError(err, "open mixer")
	}

	cDevice := C.CString(device)
	defer C.free(unsafe.Pointer(cDevice))

	if err := C.snd_mixer_attach(handle, cDevice); err < 0 {
		C.snd_mixer_close(handle)
		return 0, alsaError(err, fmt.Sprintf("attach mixer to '%s'", device))
	}

	if err := C.snd_mixer_selem_register(handle, nil, nil); err < 0 {
		C.snd_mixer_close(handle)
		return 0, alsaError(err, "register simple element class")
	}

	if err := C.snd_mixer_load(handle); err < 0 {
		C.snd_mixer_close(handle)
		return 0, alsaError(err, "load mixer elements")
	}

	return uintptr(unsafe.Pointer(handle)), nil
}

// closeMixer closes a mixer handle
func closeMixer(ptr uintptr) error {
	if ptr == 0 {
		return nil
	}
	return alsaError(C.snd_mixer_close(mixerPtr(ptr)), "close mixer")
}

// listElements returns the element pointers in enumeration order
func listElements(ptr uintptr) []uintptr {
	var elems []uintptr
	for elem := C.snd_mixer_first_elem(mixerPtr(ptr)); elem != nil; elem = C.snd_mixer_elem_next(elem) {
		elems = append(elems, uintptr(unsafe.Pointer(elem)))
	}
	return elems
}

// pollDescriptors returns the mixer notification descriptors
func pollDescriptors(ptr uintptr) ([]unix.PollFd, error) {
	handle := mixerPtr(ptr)

	count := C.snd_mixer_poll_descriptors_count(handle)
	if count < 0 {
		return nil, alsaError(count, "count poll descriptors")
	}
	if count == 0 {
		return nil, nil
	}

	pfds := make([]C.struct_pollfd, count)
	n := C.snd_mixer_poll_descriptors(handle, &pfds[0], C.uint(count))
	if n < 0 {
		return nil, alsaError(n, "get poll descriptors")
	}

	fds := make([]unix.PollFd, 0, n)
	for i := 0; i < int(n); i++ {
		fds = append(fds, unix.PollFd{
			Fd:     int32(pfds[i].fd),
			Events: int16(pfds[i].events),
		})
	}
	return fds, nil
}

// handleEvents dispatches pending mixer events to element callbacks
func handleEvents(ptr uintptr) error {
	return alsaError(C.snd_mixer_handle_events(mixerPtr(ptr)), "handle mixer events")
}

func bindElement(ptr, handle uintptr) {
	C.bind_elem(elemPtr(ptr), C.uintptr_t(handle))
}

func unbindElement(ptr uintptr) {
	C.unbind_elem(elemPtr(ptr))
}

func elementName(ptr uintptr) string {
	return C.GoString(C.snd_mixer_selem_get_name(elemPtr(ptr)))
}

func elementIndex(ptr uintptr) int {
	return int(C.snd_mixer_selem_get_index(elemPtr(ptr)))
}

func hasVolume(ptr uintptr, dir Direction) bool {
	if dir == Capture {
		return C.snd_mixer_selem_has_capture_volume(elemPtr(ptr)) != 0
	}
	return C.snd_mixer_selem_has_playback_volume(elemPtr(ptr)) != 0
}

func hasSwitch(ptr uintptr, dir Direction) bool {
	if dir == Capture {
		return C.snd_mixer_selem_has_capture_switch(elemPtr(ptr)) != 0
	}
	return C.snd_mixer_selem_has_playback_switch(elemPtr(ptr)) != 0
}

func isEnumerated(ptr uintptr) bool {
	return C.snd_mixer_selem_is_enumerated(elemPtr(ptr)) != 0
}

func volumeRange(ptr uintptr, dir Direction) (int64, int64, error) {
	var lo, hi C.long
	var err C.int
	if dir == Capture {
		err = C.snd_mixer_selem_get_capture_volume_range(elemPtr(ptr), &lo, &hi)
	} else {
		err = C.snd_mixer_selem_get_playback_volume_range(elemPtr(ptr), &lo, &hi)
	}
	if err < 0 {
		return 0, 0, alsaError(err, "get volume range")
	}
	return int64(lo), int64(hi), nil
}

func getVolume(ptr uintptr, dir Direction) (int64, error) {
	var value C.long
	var err C.int
	if dir == Capture {
		err = C.snd_mixer_selem_get_capture_volume(elemPtr(ptr), C.SND_MIXER_SCHN_MONO, &value)
	} else {
		err = C.snd_mixer_selem_get_playback_volume(elemPtr(ptr), C.SND_MIXER_SCHN_MONO, &value)
	}
	if err < 0 {
		return 0, alsaError(err, "get volume")
	}
	return int64(value), nil
}

func setVolumeAll(ptr uintptr, dir Direction, value int64) error {
	if dir == Capture {
		return alsaError(C.snd_mixer_selem_set_capture_volume_all(elemPtr(ptr), C.long(value)), "set capture volume")
	}
	return alsaError(C.snd_mixer_selem_set_playback_volume_all(elemPtr(ptr), C.long(value)), "set playback volume")
}

func getSwitch(ptr uintptr, dir Direction) (bool, error) {
	var value C.int
	var err C.int
	if dir == Capture {
		err = C.snd_mixer_selem_get_capture_switch(elemPtr(ptr), C.SND_MIXER_SCHN_MONO, &value)
	} else {
		err = C.snd_mixer_selem_get_playback_switch(elemPtr(ptr), C.SND_MIXER_SCHN_MONO, &value)
	}
	if err < 0 {
		return false, alsaError(err, "get switch")
	}
	return value != 0, nil
}

func setSwitchAll(ptr uintptr, dir Direction, on bool) error {
	var value C.int
	if on {
		value = 1
	}
	if dir == Capture {
		return alsaError(C.snd_mixer_selem_set_capture_switch_all(elemPtr(ptr), value), "set capture switch")
	}
	return alsaError(C.snd_mixer_selem_set_playback_switch_all(elemPtr(ptr), value), "set playback switch")
}

func enumItems(ptr uintptr) (int, error) {
	n := C.snd_mixer_selem_get_enum_items(elemPtr(ptr))
	if n < 0 {
		return 0, alsaError(n, "get enum items")
	}
	return int(n), nil
}

func enumItemName(ptr uintptr, item int) (string, error) {
	buf := make([]byte, MaxEnumNameLen+1)
	err := C.enum_item_name(elemPtr(ptr), C.uint(item), (*C.char)(unsafe.Pointer(&buf[0])), C.size_t(len(buf)))
	if err < 0 {
		return "", alsaError(err, "get enum item name")
	}
	return string(buf[:cstrlen(buf)]), nil
}

func getEnumItem(ptr uintptr) (int, error) {
	var item C.uint
	if err := C.snd_mixer_selem_get_enum_item(elemPtr(ptr), C.SND_MIXER_SCHN_MONO, &item); err < 0 {
		return 0, alsaError(err, "get enum item")
	}
	return int(item), nil
}

func setEnumItem(ptr uintptr, item int) error {
	return alsaError(C.snd_mixer_selem_set_enum_item(elemPtr(ptr), C.SND_MIXER_SCHN_MONO, C.uint(item)), "set enum item")
}

// getCardInfo retrieves card information
func getCardInfo(cardNum int) (Card, error) {
	var info *C.snd_ctl_card_info_t
	C.snd_ctl_card_info_malloc(&info)
	defer C.snd_ctl_card_info_free(info)

	var handle *C.snd_ctl_t
	cardName := fmt.Sprintf("hw:%d", cardNum)
	cCardName := C.CString(cardName)
	defer C.free(unsafe.Pointer(cCardName))

	err := C.snd_ctl_open(&handle, cCardName, 0)
	if err < 0 {
		return Card{}, alsaError(err, "open card for info")
	}
	defer C.snd_ctl_close(handle)

	err = C.snd_ctl_card_info(handle, info)
	if err < 0 {
		return Card{}, alsaError(err, "get card info")
	}

	return Card{
		Number: cardNum,
		ID:     C.GoString(C.snd_ctl_card_info_get_id(info)),
		Name:   C.GoString(C.snd_ctl_card_info_get_name(info)),
	}, nil
}

// listCards returns all available ALSA cards
func listCards() ([]Card, error) {
	var cardNum C.int = -1
	var cards []Card

	for {
		err := C.snd_card_next(&cardNum)
		if err < 0 {
			return nil, alsaError(err, "enumerate cards")
		}
		if cardNum < 0 {
			break // no more cards
		}
		card, infoErr := getCardInfo(int(cardNum))
		if infoErr != nil {
			continue // card can't be accessed
		}
		cards = append(cards, card)
	}

	return cards, nil
}

// cstrlen finds the length of a null-terminated C string in a byte slice
func cstrlen(b []byte) int {
	for i, c := range b {
		if c == 0 {
			return i
		}
	}
	return len(b)
}
