package imagehost

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/blog-cache-api/internal/config"
	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
)

var (
	// ErrNotConfigured is returned when no cloud name or upload preset is set
	ErrNotConfigured = errors.New("image upload is not configured: set CLOUDINARY_CLOUD_NAME (or CLOUDINARY_URL) and CLOUDINARY_UPLOAD_PRESET")
	// ErrTooLarge is returned when the file exceeds the configured size limit
	ErrTooLarge = errors.New("image is too large")
	// ErrNotImage is returned when the content is not an image
	ErrNotImage = errors.New("file must be an image")
)

var cloudNamePattern = regexp.MustCompile(`res\.cloudinary\.com/([^/]+)`)

// UploadError is a failed upload reported by the image host
type UploadError struct {
	Status  int
	Message string
}

func (e *UploadError) Error() string {
	return e.Message
}

// Client uploads images to Cloudinary with an unsigned upload preset
type Client struct {
	baseURL   string
	cloudName string
	preset    string
	maxSize   int64
	http      *http.Client
	log       zerolog.Logger
}

// NewClient creates a client for the configured cloud
func NewClient(cfg *config.ImageHostConfig, timeout time.Duration, log zerolog.Logger) *Client {
	return NewClientWithHTTP(cfg, &http.Client{Timeout: timeout}, log)
}

// NewClientWithHTTP creates a client using the given HTTP client
func NewClientWithHTTP(cfg *config.ImageHostConfig, httpClient *http.Client, log zerolog.Logger) *Client {
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		cloudName: CloudName(cfg.CloudName, cfg.CloudURL),
		preset:    cfg.UploadPreset,
		maxSize:   cfg.MaxSize,
		http:      httpClient,
		log:       log.With().Str("component", "imagehost").Logger(),
	}
}

// CloudName picks the explicit name, else extracts it from a res.cloudinary.com URL.
// A cloud URL that does not match is taken as the name itself.
func CloudName(name, cloudURL string) string {
	if name != "" {
		return name
	}
	if cloudURL == "" {
		return ""
	}
	if m := cloudNamePattern.FindStringSubmatch(cloudURL); m != nil {
		return m[1]
	}
	return cloudURL
}

// Configured reports whether uploads can be attempted
func (c *Client) Configured() bool {
	return c.cloudName != "" && c.preset != ""
}

// Upload sends the image read from r and returns its hosted URL.
// contentType is only a hint; the stored type is sniffed from the content.
func (c *Client) Upload(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	data, err := io.ReadAll(io.LimitReader(r, c.maxSize+1))
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if int64(len(data)) > c.maxSize {
		return "", fmt.Errorf("%w: maximum size is %d MB", ErrTooLarge, c.maxSize/(1024*1024))
	}

	detected := mimetype.Detect(data)
	if !strings.HasPrefix(detected.String(), "image/") {
		c.log.Warn().
			Str("filename", filename).
			Str("declared", contentType).
			Str("detected", detected.String()).
			Msg("Rejected non-image upload")
		return "", fmt.Errorf("%w: got %s", ErrNotImage, detected.String())
	}

	body, formType, err := buildForm(filename, detected, c.preset, data)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/v1_1/%s/image/upload", c.baseURL, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", formType)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	defer resp.Body.Close()

	var parsed uploadResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&parsed)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &UploadError{Status: resp.StatusCode, Message: parsed.errorMessage()}
	}
	if decodeErr != nil {
		return "", fmt.Errorf("decode upload response: %w", decodeErr)
	}

	url := parsed.SecureURL
	if url == "" {
		url = parsed.URL
	}
	if url == "" {
		return "", &UploadError{Status: resp.StatusCode, Message: "upload response carries no URL"}
	}

	c.log.Info().
		Str("filename", filename).
		Str("mime", detected.String()).
		Int("bytes", len(data)).
		Dur("duration", time.Since(start)).
		Msg("Image uploaded")

	return url, nil
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
	Message   string `json:"message"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (r uploadResponse) errorMessage() string {
	switch {
	case r.Error.Message != "":
		return r.Error.Message
	case r.Message != "":
		return r.Message
	}
	return "image upload failed"
}

func buildForm(filename string, detected *mimetype.MIME, preset string, data []byte) (io.Reader, string, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	if filename == "" {
		filename = "upload" + detected.Extension()
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(filename)))
	header.Set("Content-Type", detected.String())

	part, err := form.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", err
	}
	if err := form.WriteField("upload_preset", preset); err != nil {
		return nil, "", err
	}
	if err := form.Close(); err != nil {
		return nil, "", err
	}
	return &buf, form.FormDataContentType(), nil
}
