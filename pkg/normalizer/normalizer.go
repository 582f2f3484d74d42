// Package normalizer は、入力画像を下流が前提にできる単一の形へ
// 揃えます。EXIF の向きを画素へ焼き込み、巨大画像を縮小し、
// sRGB JPEG として再エンコードした上でハッシュとサムネイルを
// 添えて返します。
package normalizer

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"

	"github.com/shouni/go-photoscaler-kit/pkg/domain"
)

const (
	// MaxPixelArea を超える画像は強制的に縮小されます。ちょうど
	// この値の画像は縮小されません。
	MaxPixelArea = 19_500_000

	// JPEGQuality は再エンコード品質です。
	JPEGQuality = 90

	// ThumbnailMaxEdge はビジョン分類用サムネイルの長辺上限です。
	ThumbnailMaxEdge = 1024

	// AnchorSize は DNA アンカー切り出しの一辺です。
	AnchorSize = 512

	// FetchTimeout は外部 URL 取得のハードリミットです。
	FetchTimeout = 30 * time.Second

	// maxFetchBytes は外部取得の読み取り上限です。
	maxFetchBytes = 64 << 20
)

// NormalizedImage は正規化パイプラインの成果物です。
type NormalizedImage struct {
	Data      []byte // sRGB JPEG (q90)
	MIMEType  string
	Width     int
	Height    int
	Hash      string // sha256 hex
	Thumbnail []byte // 長辺 ThumbnailMaxEdge 以下の JPEG
}

// Normalizer は画像入力の正規化を担います。
type Normalizer struct {
	client *http.Client
}

// New は新しい Normalizer を生成します。
func New() *Normalizer {
	return &Normalizer{
		client: &http.Client{Timeout: FetchTimeout},
	}
}

// Resolve は画像参照（data URL / http(s) URL / そのままのバイト列は
// 呼び出し側が Normalize へ）をバイト列へ解決します。
func (n *Normalizer) Resolve(ctx context.Context, ref string) ([]byte, error) {
	switch {
	case strings.HasPrefix(ref, "data:"):
		return decodeDataURL(ref)
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return n.fetch(ctx, ref)
	default:
		return nil, fmt.Errorf("%w: unsupported image reference", domain.ErrInvalidImage)
	}
}

// Normalize はバイト列を正規化します。デコードできない入力は
// ErrInvalidImage です。
func (n *Normalizer) Normalize(ctx context.Context, raw []byte) (*NormalizedImage, error) {
	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %v", domain.ErrInvalidImage, err)
	}

	if format == "jpeg" {
		if o := readJPEGOrientation(raw); o > 1 {
			slog.DebugContext(ctx, "baking in exif orientation", "orientation", o)
			img = applyOrientation(img, o)
		}
	}

	b := img.Bounds()
	if w, h, needed := downsampleDims(b.Dx(), b.Dy()); needed {
		slog.InfoContext(ctx, "downsampling oversized image",
			"from_width", b.Dx(), "from_height", b.Dy(),
			"to_width", w, "to_height", h)
		img = resample(img, w, h)
	}

	data, err := encodeJPEG(img)
	if err != nil {
		return nil, fmt.Errorf("%w: encode: %v", domain.ErrInvalidImage, err)
	}

	thumb, err := encodeJPEG(shrinkToEdge(img, ThumbnailMaxEdge))
	if err != nil {
		return nil, fmt.Errorf("%w: thumbnail encode: %v", domain.ErrInvalidImage, err)
	}

	sum := sha256.Sum256(data)
	out := img.Bounds()
	return &NormalizedImage{
		Data:      data,
		MIMEType:  "image/jpeg",
		Width:     out.Dx(),
		Height:    out.Dy(),
		Hash:      hex.EncodeToString(sum[:]),
		Thumbnail: thumb,
	}, nil
}

// AnchorCrop は DNA アンカー用の正方形切り出しです。顔矩形が与えられれば
// その中心、なければ画像中心を基準にします。
func (n *Normalizer) AnchorCrop(raw []byte, face *image.Rectangle) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %v", domain.ErrInvalidImage, err)
	}

	b := img.Bounds()
	side := b.Dx()
	if b.Dy() < side {
		side = b.Dy()
	}

	cx := b.Min.X + b.Dx()/2
	cy := b.Min.Y + b.Dy()/2
	if face != nil && !face.Empty() {
		cx = face.Min.X + face.Dx()/2
		cy = face.Min.Y + face.Dy()/2
	}

	x0 := clampInt(cx-side/2, b.Min.X, b.Max.X-side)
	y0 := clampInt(cy-side/2, b.Min.Y, b.Max.Y-side)

	cropped := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.Draw(cropped, cropped.Bounds(), img, image.Point{X: x0, Y: y0}, draw.Src)

	return encodeJPEG(resample(cropped, AnchorSize, AnchorSize))
}

// downsampleDims は面積超過時の縮小後サイズを返します。
// 縮小率は sqrt(上限/実面積) を両辺へ等しく適用します。
func downsampleDims(w, h int) (int, int, bool) {
	area := w * h
	if area <= MaxPixelArea {
		return w, h, false
	}
	scale := math.Sqrt(float64(MaxPixelArea) / float64(area))
	nw := int(math.Floor(float64(w) * scale))
	nh := int(math.Floor(float64(h) * scale))
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return nw, nh, true
}

// shrinkToEdge は長辺が edge を超える場合だけ等比縮小します。
func shrinkToEdge(img image.Image, edge int) image.Image {
	b := img.Bounds()
	long := b.Dx()
	if b.Dy() > long {
		long = b.Dy()
	}
	if long <= edge {
		return img
	}
	scale := float64(edge) / float64(long)
	return resample(img, int(float64(b.Dx())*scale), int(float64(b.Dy())*scale))
}

func resample(img image.Image, w, h int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeDataURL は data:<mime>;base64,<payload> 形式のみ受理します。
func decodeDataURL(ref string) ([]byte, error) {
	idx := strings.Index(ref, ",")
	if idx < 0 {
		return nil, fmt.Errorf("%w: malformed data url", domain.ErrInvalidImage)
	}
	meta, payload := ref[:idx], ref[idx+1:]
	if !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("%w: data url must be base64", domain.ErrInvalidImage)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: data url decode: %v", domain.ErrInvalidImage, err)
	}
	return data, nil
}

func (n *Normalizer) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrInvalidImage, err)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch: %v", domain.ErrInvalidImage, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetch status %d", domain.ErrInvalidImage, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrInvalidImage, err)
	}
	return data, nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
