package photo

import (
	"bytes"
	"encoding/binary"
	"image"

	"github.com/disintegration/imaging"
)

// EXIF orientation values, 1 is upright.
const (
	orientNormal     = 1
	orientFlipH      = 2
	orientRotate180  = 3
	orientFlipV      = 4
	orientTranspose  = 5
	orientRotate270  = 6
	orientTransverse = 7
	orientRotate90   = 8
)

const tagOrientation = 0x0112

// readOrientation finds the EXIF orientation in a JPEG APP1 segment or at
// the head of a TIFF file. Unknown or missing values read as upright.
func readOrientation(data []byte) int {
	if len(data) >= 2 && data[0] == 0xff && data[1] == 0xd8 {
		return jpegOrientation(data[2:])
	}
	return tiffOrientation(data)
}

func jpegOrientation(b []byte) int {
	for len(b) >= 4 && b[0] == 0xff {
		marker := b[1]
		if marker == 0xda || marker == 0xd9 { // start of scan, end of image
			break
		}
		size := int(binary.BigEndian.Uint16(b[2:4]))
		if size < 2 || len(b) < 2+size {
			break
		}
		seg := b[4 : 2+size]
		if marker == 0xe1 && bytes.HasPrefix(seg, []byte("Exif\x00\x00")) {
			return tiffOrientation(seg[6:])
		}
		b = b[2+size:]
	}
	return orientNormal
}

func tiffOrientation(b []byte) int {
	if len(b) < 8 {
		return orientNormal
	}
	var order binary.ByteOrder
	switch string(b[:2]) {
	case "II":
		order = binary.LittleEndian
	case "MM":
		order = binary.BigEndian
	default:
		return orientNormal
	}
	ifd := int(order.Uint32(b[4:8]))
	if ifd < 8 || ifd+2 > len(b) {
		return orientNormal
	}
	n := int(order.Uint16(b[ifd:]))
	for i := 0; i < n; i++ {
		e := ifd + 2 + i*12
		if e+12 > len(b) {
			break
		}
		if order.Uint16(b[e:]) != tagOrientation {
			continue
		}
		v := int(order.Uint16(b[e+8:]))
		if v < orientNormal || v > orientRotate90 {
			return orientNormal
		}
		return v
	}
	return orientNormal
}

// orient turns img upright for the given EXIF orientation.
func orient(img image.Image, o int) image.Image {
	switch o {
	case orientFlipH:
		return imaging.FlipH(img)
	case orientRotate180:
		return imaging.Rotate180(img)
	case orientFlipV:
		return imaging.FlipV(img)
	case orientTranspose:
		return imaging.Transpose(img)
	case orientRotate270:
		return imaging.Rotate270(img)
	case orientTransverse:
		return imaging.Transverse(img)
	case orientRotate90:
		return imaging.Rotate90(img)
	}
	return img
}
