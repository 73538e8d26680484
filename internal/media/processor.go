package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"
	"os/exec"
	"strconv"

	_ "golang.org/x/image/webp"
)

const (
	// MaxDimension caps either side of a stored image; larger uploads are
	// scaled down preserving aspect ratio.
	MaxDimension = 1920
	webpQuality  = 95
)

type Upload struct {
	Reader      io.Reader
	Size        int64
	FileName    string
	ContentType string
}

type Result struct {
	Bytes       []byte
	ContentType string
}

// Processor re-encodes an uploaded image for storage.
type Processor interface {
	Process(ctx context.Context, upload Upload) (*Result, error)
}

// WebPConverter normalizes every accepted upload (jpeg, png, gif, webp) to
// webp via an ffmpeg subprocess, downscaling anything over MaxDimension.
type WebPConverter struct {
	path    string
	maxDim  int
	quality int
}

func NewWebPConverter(binaryPath string) *WebPConverter {
	path := binaryPath
	if path == "" {
		path = "ffmpeg"
	}
	return &WebPConverter{path: path, maxDim: MaxDimension, quality: webpQuality}
}

func (p *WebPConverter) Process(ctx context.Context, upload Upload) (*Result, error) {
	if upload.Reader == nil {
		return nil, fmt.Errorf("media: empty reader")
	}
	data, err := io.ReadAll(upload.Reader)
	if err != nil {
		return nil, fmt.Errorf("media: read image: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("media: empty image data")
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("media: not a supported image: %w", err)
	}
	width, height := cfg.Width, cfg.Height
	if width > p.maxDim || height > p.maxDim {
		width, height = scaleToFit(width, height, p.maxDim)
	}

	out, err := p.transcode(ctx, data, width, height)
	if err != nil {
		return nil, err
	}
	return &Result{Bytes: out, ContentType: "image/webp"}, nil
}

func scaleToFit(width, height, maxDim int) (int, int) {
	if width >= height {
		scaled := int(math.Round(float64(height) * float64(maxDim) / float64(width)))
		return maxDim, max(scaled, 2)
	}
	scaled := int(math.Round(float64(width) * float64(maxDim) / float64(height)))
	return max(scaled, 2), maxDim
}

func (p *WebPConverter) transcode(ctx context.Context, data []byte, width, height int) ([]byte, error) {
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-i", "pipe:0",
		"-vf", fmt.Sprintf("scale=%d:%d:flags=lanczos", width, height),
		"-frames:v", "1",
		"-f", "image2",
		"-c:v", "libwebp",
		"-quality", strconv.Itoa(p.quality),
		"pipe:1",
	}

	cmd := exec.CommandContext(ctx, p.path, args...)
	cmd.Stdin = bytes.NewReader(data)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := stderr.String(); msg != "" {
			return nil, fmt.Errorf("ffmpeg: %v: %s", err, msg)
		}
		return nil, fmt.Errorf("ffmpeg: %w", err)
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("ffmpeg: produced empty output")
	}
	return stdout.Bytes(), nil
}
