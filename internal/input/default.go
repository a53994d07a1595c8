package input

import (
	"encoding/binary"
	"log"
	"os"
	"syscall"
	"time"

	"github.com/eiannone/keyboard"
	"github.com/pkg/errors"
)

// https://github.com/torvalds/linux/blob/master/include/uapi/linux/input-event-codes.h
const (
	evKey = 0x01
	evAbs = 0x03
)

type keyEvent struct {
	Time  syscall.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

type Event struct {
	Pressed  bool
	Released bool
	Repeat   bool
	Quit     bool

	Code  rune // evdev key code, or the typed rune of a terminal key
	Axis  bool // Code is an absolute axis and Value its position
	Value int32

	Time time.Time
}

func ReadInput(kbd string, events chan *Event) error {
	file, err := os.Open(kbd)
	if err != nil {
		return errors.Wrapf(err, "unable to open %s", kbd)
	}
	go func() {
		defer file.Close()

		var ev keyEvent
		for {
			err = binary.Read(file, binary.LittleEndian, &ev)
			if nil != err {
				log.Println(err, "unable to read keyboard input")
				return
			}
			at := time.Unix(int64(ev.Time.Sec), int64(ev.Time.Usec)*1000)
			switch ev.Type {
			case evKey:
				events <- &Event{
					Pressed:  ev.Value == 1,
					Released: ev.Value == 0,
					Repeat:   ev.Value == 2,
					Code:     rune(ev.Code),
					Time:     at,
				}
			case evAbs:
				events <- &Event{Axis: true, Code: rune(ev.Code), Value: ev.Value, Time: at}
			}
		}
	}()
	return nil
}

// ReadKeyboard reads keys from the terminal. A terminal reports presses
// only, so every event is a press.
func ReadKeyboard(events chan *Event) (func(), error) {
	keys, err := keyboard.GetKeys(128)
	if nil != err {
		return nil, errors.Wrap(err, "unable to open keyboard")
	}
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case key, ok := <-keys:
				if !ok {
					return
				}
				if nil != key.Err {
					log.Println(key.Err, "unable to read terminal input")
					continue
				}
				ev := &Event{Pressed: true, Code: key.Rune, Time: time.Now()}
				switch key.Key {
				case keyboard.KeyEsc, keyboard.KeyCtrlC:
					ev = &Event{Quit: true, Time: ev.Time}
				case keyboard.KeySpace:
					ev.Code = ' '
				}
				events <- ev
			}
		}
	}()
	return func() {
		close(done)
		if err := keyboard.Close(); nil != err {
			log.Println("unable to close keyboard", err)
		}
	}, nil
}
