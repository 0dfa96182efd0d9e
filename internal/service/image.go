package service

import (
	"bytes"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"net/http"

	"quietspace/internal/models"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	// PostImageMaxSize is the longest edge of an uploaded post image after downscaling.
	PostImageMaxSize = 800
	// ThumbMaxSize is the longest edge of the WebP feed thumbnail.
	ThumbMaxSize = 320
	// AvatarMaxSize is the longest edge of a profile avatar.
	AvatarMaxSize = 256

	JPEGQuality = 85
	WebPQuality = 70

	maxImageUploadBytes = 10 * 1024 * 1024
)

// ProcessedImage holds the encoded outputs of an image upload.
type ProcessedImage struct {
	JPEG  []byte
	Thumb []byte
}

// processPostImage validates and re-encodes an uploaded post photo: downscaled
// to PostImageMaxSize and encoded as JPEG, plus a small WebP thumbnail for feeds.
func processPostImage(content []byte) (*ProcessedImage, error) {
	decoded, err := decodeUpload(content)
	if err != nil {
		return nil, err
	}

	main := resizeToFit(decoded, PostImageMaxSize, PostImageMaxSize)
	jpegBytes, err := encodeJPEG(main, JPEGQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	thumb := resizeToFit(decoded, ThumbMaxSize, ThumbMaxSize)
	thumbBytes, err := encodeWebP(thumb, WebPQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	return &ProcessedImage{JPEG: jpegBytes, Thumb: thumbBytes}, nil
}

// processAvatarImage validates and re-encodes an avatar as a small JPEG.
func processAvatarImage(content []byte) ([]byte, error) {
	decoded, err := decodeUpload(content)
	if err != nil {
		return nil, err
	}
	avatar := resizeToFit(decoded, AvatarMaxSize, AvatarMaxSize)
	jpegBytes, err := encodeJPEG(avatar, JPEGQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return jpegBytes, nil
}

func decodeUpload(content []byte) (image.Image, error) {
	if len(content) == 0 {
		return nil, models.NewValidationError("No image uploaded")
	}
	if len(content) > maxImageUploadBytes {
		return nil, models.NewValidationError("Image too large (max 10MB)")
	}
	if !isAllowedImageMIME(http.DetectContentType(content)) {
		return nil, models.NewValidationError("Invalid image type")
	}
	decoded, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}
	return decoded, nil
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

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
	switch contentType {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}
