// Package photo models the capture widget: a slot that turns a selected
// image into a data URL, and a set of slots that upload independently.
package photo

import (
	"encoding/base64"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
)

// MaxImageBytes bounds a single captured image.
const MaxImageBytes = 10 << 20

var (
	ErrNotImage = errors.New("selected file is not an image")
	ErrTooLarge = errors.New("selected image is too large")
	ErrNoImage  = errors.New("no image selected")
)

// State of a capture slot.
type State int

const (
	StateEmpty State = iota
	StateCaptured
)

func (s State) String() string {
	if s == StateCaptured {
		return "captured"
	}
	return "empty"
}

// ChangeFunc receives the slot value after every transition: a data URL
// after capture, "" after clear.
type ChangeFunc func(value string)

// Slot is one photo input. It never uploads; its owner does.
type Slot struct {
	mu       sync.Mutex
	name     string
	state    State
	value    string
	onChange ChangeFunc
}

func NewSlot(name string, onChange ChangeFunc) *Slot {
	return &Slot{name: name, onChange: onChange}
}

func (s *Slot) Name() string { return s.name }

// ReadImage reads an image from r, checks it, and returns it as a data URL.
func ReadImage(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageBytes+1))
	if err != nil {
		return "", errors.Wrap(err, "read image")
	}
	if len(data) == 0 {
		return "", ErrNoImage
	}
	if len(data) > MaxImageBytes {
		return "", ErrTooLarge
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", errors.Wrapf(ErrNotImage, "detected %s", mtype.String())
	}

	return fmt.Sprintf("data:%s;base64,%s", mtype.String(), base64.StdEncoding.EncodeToString(data)), nil
}

// Select reads an image from r and moves the slot to captured. Non-image
// input leaves the slot untouched.
func (s *Slot) Select(r io.Reader) error {
	dataURL, err := ReadImage(r)
	if err != nil {
		return err
	}
	s.capture(dataURL)
	return nil
}

func (s *Slot) capture(dataURL string) {
	s.mu.Lock()
	s.state = StateCaptured
	s.value = dataURL
	onChange := s.onChange
	s.mu.Unlock()

	if onChange != nil {
		onChange(dataURL)
	}
}

// Clear returns the slot to empty and reports "".
func (s *Slot) Clear() {
	s.mu.Lock()
	s.state = StateEmpty
	s.value = ""
	onChange := s.onChange
	s.mu.Unlock()

	if onChange != nil {
		onChange("")
	}
}

func (s *Slot) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Value is the current data URL, or "".
func (s *Slot) Value() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// View describes what the widget renders in its current state.
type View struct {
	Name    string `json:"name"`
	State   string `json:"state"`
	Accept  string `json:"accept,omitempty"`
	Capture string `json:"capture,omitempty"`
	Preview string `json:"preview,omitempty"`
	// CanClear is set when a clear action is offered.
	CanClear bool `json:"canClear"`
}

func (s *Slot) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateCaptured {
		return View{Name: s.name, State: s.state.String(), Preview: s.value, CanClear: true}
	}
	return View{Name: s.name, State: s.state.String(), Accept: "image/*", Capture: "environment"}
}
