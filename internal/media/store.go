// Package media stores uploaded post and profile images under MEDIA_DIR.
package media

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif" // Register GIF decoder
	"image/jpeg"
	_ "image/png" // Register PNG decoder
	"math"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"blogapp/internal/config"
	"blogapp/internal/featureflags"
	"blogapp/internal/models"
	"blogapp/internal/observability"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	KindPost    = "posts"
	KindProfile = "profiles"
)

const (
	defaultMaxUploadMB = 10
	JPEGQuality        = 82
	WebPQuality        = 70
	postMaxSide        = 1600
	profileSide        = 512
)

// Upload is a raw file received from a multipart form.
type Upload struct {
	Kind        string
	UserID      uint
	Filename    string
	ContentType string
	Content     []byte
}

// Store normalizes uploads to JPEG and writes them to disk.
type Store struct {
	dir      string
	baseURL  string
	maxBytes int64
	flags    *featureflags.Manager
}

// NewStore builds a store from the MEDIA_* settings.
func NewStore(cfg *config.Config, flags *featureflags.Manager) *Store {
	dir, baseURL, maxMB := "./media", "/media", defaultMaxUploadMB
	if cfg != nil {
		if cfg.MediaDir != "" {
			dir = cfg.MediaDir
		}
		if cfg.MediaBaseURL != "" {
			baseURL = cfg.MediaBaseURL
		}
		if cfg.MediaMaxUploadMB > 0 {
			maxMB = cfg.MediaMaxUploadMB
		}
	}
	return &Store{
		dir:      dir,
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxBytes: int64(maxMB) * 1024 * 1024,
		flags:    flags,
	}
}

// Dir is the root directory served under the base URL.
func (s *Store) Dir() string {
	return s.dir
}

// Save validates and normalizes the upload and returns its public URL.
// Post images keep the nearest of the allowed aspect ratios and are capped at
// postMaxSide; profile images are center-cropped square.
func (s *Store) Save(ctx context.Context, in Upload) (string, error) {
	_, span := observability.StartSpan(ctx, "media", "Save")
	defer span.End()

	if in.Kind != KindPost && in.Kind != KindProfile {
		return "", models.NewInternalError(fmt.Errorf("unknown media kind %q", in.Kind))
	}
	if len(in.Content) == 0 {
		return "", models.NewFieldValidationError("Validation failed", map[string][]string{
			"image": {"The submitted file is empty."},
		})
	}
	if int64(len(in.Content)) > s.maxBytes {
		return "", models.NewFieldValidationError("Validation failed", map[string][]string{
			"image": {fmt.Sprintf("File too large (max %dMB).", s.maxBytes/(1024*1024))},
		})
	}
	if !isAllowedImageMIME(http.DetectContentType(in.Content)) {
		return "", invalidImage()
	}

	decoded, format, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		return "", invalidImage()
	}
	if provided := normalizeContentType(in.ContentType); strings.HasPrefix(provided, "image/") &&
		!isMatchingContentType(provided, decodedFormatToMime(format)) {
		return "", models.NewFieldValidationError("Validation failed", map[string][]string{
			"image": {"Image content type mismatch."},
		})
	}

	var normalized image.Image
	if in.Kind == KindProfile {
		normalized = resizeToFit(cropToRect(decoded, centerSquare(decoded.Bounds())), profileSide, profileSide)
	} else {
		normalized = resizeToFit(cropToRect(decoded, nearestRatioCrop(decoded.Bounds())), postMaxSide, postMaxSide)
	}

	jpg, err := encodeJPEG(normalized, JPEGQuality)
	if err != nil {
		span.SetError(err)
		return "", models.NewInternalError(err)
	}
	hash := contentHash(in.UserID, jpg)

	rel := path.Join(in.Kind, hash+".jpg")
	if err := writeBytesToFile(filepath.Join(s.dir, filepath.FromSlash(rel)), jpg); err != nil {
		span.SetError(err)
		return "", models.NewInternalError(err)
	}
	observability.MediaUploads.WithLabelValues(in.Kind, "jpg").Inc()

	if s.flags.Enabled(featureflags.WebPVariants, in.UserID) {
		encoded, err := encodeWebP(normalized, WebPQuality)
		if err != nil {
			span.SetError(err)
			return "", models.NewInternalError(err)
		}
		webpRel := path.Join(in.Kind, hash+".webp")
		if err := writeBytesToFile(filepath.Join(s.dir, filepath.FromSlash(webpRel)), encoded); err != nil {
			span.SetError(err)
			return "", models.NewInternalError(err)
		}
		observability.MediaUploads.WithLabelValues(in.Kind, "webp").Inc()
	}

	return s.baseURL + "/" + rel, nil
}

func invalidImage() error {
	return models.NewFieldValidationError("Validation failed", map[string][]string{
		"image": {"Upload a valid image. The file you uploaded was either not an image or a corrupted image."},
	})
}

var allowedRatios = []float64{1.91, 1.0, 0.8}

// nearestRatioCrop centers the largest rectangle with the allowed aspect
// ratio closest to r's.
func nearestRatioCrop(r image.Rectangle) image.Rectangle {
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 {
		return r
	}
	ratio := float64(w) / float64(h)
	best := allowedRatios[0]
	for _, candidate := range allowedRatios[1:] {
		if absFloat(ratio-candidate) < absFloat(ratio-best) {
			best = candidate
		}
	}

	cw, ch := w, h
	if ratio > best {
		cw = max(int(math.Round(float64(h)*best)), 1)
	} else {
		ch = max(int(math.Round(float64(w)/best)), 1)
	}
	x := r.Min.X + (w-cw)/2
	y := r.Min.Y + (h-ch)/2
	return image.Rect(x, y, x+cw, y+ch)
}

func centerSquare(r image.Rectangle) image.Rectangle {
	side := min(r.Dx(), r.Dy())
	x := r.Min.X + (r.Dx()-side)/2
	y := r.Min.Y + (r.Dy()-side)/2
	return image.Rect(x, y, x+side, y+side)
}

func cropToRect(src image.Image, rect image.Rectangle) image.Image {
	if rect.Empty() {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)
	return dst
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 || (w <= maxWidth && h <= maxHeight) {
		return src
	}

	scale := min(float64(maxWidth)/float64(w), float64(maxHeight)/float64(h))
	newW := max(int(float64(w)*scale), 1)
	newH := max(int(float64(h)*scale), 1)

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(mediaType)
}

func isMatchingContentType(provided, detected string) bool {
	if provided == detected {
		return true
	}
	return (provided == "image/jpg" && detected == "image/jpeg") || (provided == "image/jpeg" && detected == "image/jpg")
}

func decodedFormatToMime(format string) string {
	switch strings.ToLower(format) {
	case "jpeg", "jpg":
		return "image/jpeg"
	case "png", "gif", "webp":
		return "image/" + strings.ToLower(format)
	default:
		return ""
	}
}

func contentHash(userID uint, content []byte) string {
	h := sha256.New()
	_, _ = fmt.Fprintf(h, "%d:", userID)
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))[:32]
}

func writeBytesToFile(p string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return err
	}
	return os.WriteFile(p, data, 0o600)
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
