// Package upload posts photos to the unsigned image-hosting endpoint.
package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// DefaultPreset is the unsigned upload preset configured on the image host.
const DefaultPreset = "jewellery"

// UploadError is returned when the image host answers with a non-2xx status.
type UploadError struct {
	StatusCode int
	Body       string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload failed: %d %s", e.StatusCode, e.Body)
}

// Uploader posts multipart forms with upload_preset, folder and file fields.
type Uploader struct {
	endpoint   string
	preset     string
	httpClient *http.Client
}

func NewUploader(endpoint, preset string, timeout time.Duration) *Uploader {
	return NewUploaderWithHTTP(endpoint, preset, &http.Client{Timeout: timeout})
}

func NewUploaderWithHTTP(endpoint, preset string, httpClient *http.Client) *Uploader {
	if preset == "" {
		preset = DefaultPreset
	}
	return &Uploader{endpoint: endpoint, preset: preset, httpClient: httpClient}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
}

// UploadFile streams a file and returns its hosted URL.
func (u *Uploader) UploadFile(ctx context.Context, filename string, file io.Reader, folder string) (string, error) {
	return u.post(ctx, folder, func(w *multipart.Writer) error {
		part, err := w.CreateFormFile("file", filename)
		if err != nil {
			return err
		}
		_, err = io.Copy(part, file)
		return err
	})
}

// UploadDataURL sends a base64 data URL as the file field; the host decodes it.
func (u *Uploader) UploadDataURL(ctx context.Context, dataURL, folder string) (string, error) {
	if !strings.HasPrefix(dataURL, "data:") {
		return "", errors.New("not a data URL")
	}
	return u.post(ctx, folder, func(w *multipart.Writer) error {
		return w.WriteField("file", dataURL)
	})
}

func (u *Uploader) post(ctx context.Context, folder string, writeFile func(*multipart.Writer) error) (string, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	if err := form.WriteField("upload_preset", u.preset); err != nil {
		return "", errors.Wrap(err, "write upload_preset")
	}
	if folder != "" {
		if err := form.WriteField("folder", folder); err != nil {
			return "", errors.Wrap(err, "write folder")
		}
	}
	if err := writeFile(form); err != nil {
		return "", errors.Wrap(err, "write file")
	}
	if err := form.Close(); err != nil {
		return "", errors.Wrap(err, "close multipart form")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, &buf)
	if err != nil {
		return "", errors.Wrap(err, "build upload request")
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	start := time.Now()
	resp, err := u.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "send upload request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "read upload response")
	}

	log.WithFields(log.Fields{
		"status":   resp.StatusCode,
		"folder":   folder,
		"duration": time.Since(start),
	}).Debug("photo upload")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &UploadError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var out uploadResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", errors.Wrap(err, "decode upload response")
	}
	if out.SecureURL != "" {
		return out.SecureURL, nil
	}
	if out.URL != "" {
		return out.URL, nil
	}
	return "", errors.New("upload response carried no URL")
}
