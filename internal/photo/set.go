package photo

import (
	"context"
	"fmt"
	"io"
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/segyhp/pledge-desk/internal/domain"
	pkgerrors "github.com/segyhp/pledge-desk/pkg/errors"
)

// Uploader is the part of upload.Uploader a Set needs.
type Uploader interface {
	UploadDataURL(ctx context.Context, dataURL, folder string) (string, error)
}

// Folder is the upload folder for a customer's pledge photos.
func Folder(customerID int64) string {
	if customerID <= 0 {
		return "pledges/unknown"
	}
	return fmt.Sprintf("pledges/%d", customerID)
}

type entry struct {
	mu     sync.Mutex
	slot   *Slot
	status Status
	// gen discards results of uploads superseded by a later capture or clear.
	gen int
}

// Set holds the customer, item and receipt slots. Each capture starts its
// own upload; slots never wait on each other.
type Set struct {
	ctx      context.Context
	uploader Uploader
	folder   string
	group    errgroup.Group
	entries  map[string]*entry
}

func NewSet(ctx context.Context, uploader Uploader, folder string) *Set {
	s := &Set{
		ctx:      ctx,
		uploader: uploader,
		folder:   folder,
		entries:  make(map[string]*entry, len(domain.PhotoSlots)),
	}
	for _, name := range domain.PhotoSlots {
		e := &entry{status: Empty()}
		e.slot = NewSlot(name, s.onChange(name, e))
		s.entries[name] = e
	}
	return s
}

func (s *Set) onChange(name string, e *entry) ChangeFunc {
	return func(value string) {
		e.mu.Lock()
		e.gen++
		gen := e.gen
		if value == "" {
			e.status = Empty()
			e.mu.Unlock()
			return
		}
		e.status = Uploading()
		e.mu.Unlock()

		s.group.Go(func() error {
			url, err := s.uploader.UploadDataURL(s.ctx, value, s.folder)

			e.mu.Lock()
			defer e.mu.Unlock()
			if e.gen != gen {
				return nil
			}
			if err != nil {
				log.WithError(err).WithField("slot", name).Warn("photo upload failed")
				e.status = Failed(err.Error())
				return nil
			}
			e.status = Uploaded(url)
			return nil
		})
	}
}

// Slot returns the named slot, or nil.
func (s *Set) Slot(name string) *Slot {
	if e, ok := s.entries[name]; ok {
		return e.slot
	}
	return nil
}

// Capture selects an image into the named slot, starting its upload.
func (s *Set) Capture(name string, r io.Reader) error {
	slot := s.Slot(name)
	if slot == nil {
		return fmt.Errorf("unknown photo slot %q", name)
	}
	return slot.Select(r)
}

// CaptureAll checks every image before any upload starts. If one is
// rejected nothing is captured and the per-slot errors are returned.
func (s *Set) CaptureAll(images map[string]io.Reader) map[string]error {
	dataURLs := make(map[string]string, len(images))
	var failed map[string]error
	for name, r := range images {
		var err error
		if s.Slot(name) == nil {
			err = fmt.Errorf("unknown photo slot %q", name)
		} else {
			dataURLs[name], err = ReadImage(r)
		}
		if err != nil {
			if failed == nil {
				failed = make(map[string]error)
			}
			failed[name] = err
		}
	}
	if failed != nil {
		return failed
	}

	for name, dataURL := range dataURLs {
		s.Slot(name).capture(dataURL)
	}
	return nil
}

// Clear empties the named slot.
func (s *Set) Clear(name string) {
	if slot := s.Slot(name); slot != nil {
		slot.Clear()
	}
}

// Wait blocks until every started upload has finished.
func (s *Set) Wait() {
	_ = s.group.Wait()
}

func (s *Set) Status(name string) Status {
	e, ok := s.entries[name]
	if !ok {
		return Empty()
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

func (s *Set) Statuses() map[string]Status {
	out := make(map[string]Status, len(s.entries))
	for name := range s.entries {
		out[name] = s.Status(name)
	}
	return out
}

// Photos waits for uploads and returns their URLs. A failed slot is an
// error; empty slots are left blank for the caller's own checks.
func (s *Set) Photos() (domain.Photos, error) {
	s.Wait()

	var photos domain.Photos
	for _, name := range domain.PhotoSlots {
		status := s.Status(name)
		switch status.Kind {
		case StatusFailed:
			return photos, pkgerrors.WrapUploadFailed(name, fmt.Errorf("%s", status.Reason))
		case StatusUploaded:
			photos.Set(name, status.URL)
		}
	}
	return photos, nil
}
