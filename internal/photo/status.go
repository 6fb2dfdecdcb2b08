package photo

import "encoding/json"

// StatusKind tags the upload state of one slot.
type StatusKind int

const (
	StatusEmpty StatusKind = iota
	StatusUploading
	StatusUploaded
	StatusFailed
)

func (k StatusKind) String() string {
	switch k {
	case StatusUploading:
		return "uploading"
	case StatusUploaded:
		return "uploaded"
	case StatusFailed:
		return "failed"
	default:
		return "empty"
	}
}

// Status is the upload result of one slot. URL is set only when Uploaded,
// Reason only when Failed.
type Status struct {
	Kind   StatusKind
	URL    string
	Reason string
}

func Empty() Status               { return Status{Kind: StatusEmpty} }
func Uploading() Status           { return Status{Kind: StatusUploading} }
func Uploaded(url string) Status  { return Status{Kind: StatusUploaded, URL: url} }
func Failed(reason string) Status { return Status{Kind: StatusFailed, Reason: reason} }

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		State  string `json:"state"`
		URL    string `json:"url,omitempty"`
		Reason string `json:"reason,omitempty"`
	}{
		State:  s.Kind.String(),
		URL:    s.URL,
		Reason: s.Reason,
	})
}
