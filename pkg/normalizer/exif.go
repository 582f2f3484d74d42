package normalizer

import (
	"encoding/binary"
	"image"
)

// readJPEGOrientation は JPEG の APP1(EXIF) セグメントから Orientation
// タグ (0x0112) のみを読み取ります。見つからなければ 1（正位置）です。
// パックの参照実装群に EXIF ライブラリは存在しないため、必要最小限の
// 自前パースに留めています。
func readJPEGOrientation(data []byte) int {
	const defaultOrientation = 1

	if len(data) < 4 || data[0] != 0xFF || data[1] != 0xD8 {
		return defaultOrientation
	}

	offset := 2
	for offset+4 <= len(data) {
		if data[offset] != 0xFF {
			return defaultOrientation
		}
		marker := data[offset+1]
		// SOS 以降に EXIF はありません
		if marker == 0xDA {
			return defaultOrientation
		}

		segLen := int(binary.BigEndian.Uint16(data[offset+2 : offset+4]))
		if segLen < 2 || offset+2+segLen > len(data) {
			return defaultOrientation
		}

		if marker == 0xE1 {
			segment := data[offset+4 : offset+2+segLen]
			if o := parseExifOrientation(segment); o != 0 {
				return o
			}
		}
		offset += 2 + segLen
	}
	return defaultOrientation
}

// parseExifOrientation は APP1 ペイロードの TIFF ヘッダと IFD0 を辿り、
// Orientation タグ値 (1..8) を返します。不正な構造は 0 を返します。
func parseExifOrientation(segment []byte) int {
	if len(segment) < 14 || string(segment[:6]) != "Exif\x00\x00" {
		return 0
	}
	tiff := segment[6:]

	var order binary.ByteOrder
	switch {
	case tiff[0] == 'I' && tiff[1] == 'I':
		order = binary.LittleEndian
	case tiff[0] == 'M' && tiff[1] == 'M':
		order = binary.BigEndian
	default:
		return 0
	}

	ifdOffset := int(order.Uint32(tiff[4:8]))
	if ifdOffset+2 > len(tiff) {
		return 0
	}

	entries := int(order.Uint16(tiff[ifdOffset : ifdOffset+2]))
	for i := 0; i < entries; i++ {
		entry := ifdOffset + 2 + i*12
		if entry+12 > len(tiff) {
			return 0
		}
		tag := order.Uint16(tiff[entry : entry+2])
		if tag == 0x0112 {
			value := int(order.Uint16(tiff[entry+8 : entry+10]))
			if value >= 1 && value <= 8 {
				return value
			}
			return 0
		}
	}
	return 0
}

// applyOrientation は EXIF の向き (1..8) を画素に焼き込みます。
func applyOrientation(img image.Image, orientation int) image.Image {
	if orientation <= 1 || orientation > 8 {
		return img
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	var dst *image.RGBA
	switch orientation {
	case 3, 2, 4:
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
	default: // 5..8 は 90°系の回転で縦横が入れ替わります
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := img.At(b.Min.X+x, b.Min.Y+y)
			switch orientation {
			case 2: // 左右反転
				dst.Set(w-1-x, y, c)
			case 3: // 180°
				dst.Set(w-1-x, h-1-y, c)
			case 4: // 上下反転
				dst.Set(x, h-1-y, c)
			case 5: // 転置
				dst.Set(y, x, c)
			case 6: // 時計回り90°
				dst.Set(h-1-y, x, c)
			case 7: // 反転転置
				dst.Set(h-1-y, w-1-x, c)
			case 8: // 反時計回り90°
				dst.Set(y, w-1-x, c)
			}
		}
	}
	return dst
}
