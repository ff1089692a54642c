// Package resources provides the tray icon. The icon is rendered at first
// use: a keycap glyph encoded as a PNG inside an ICO container, which both
// the tray and toast notifications accept.
package resources

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"
)

const iconSize = 32

var (
	iconOnce sync.Once
	iconData []byte
	iconErr  error
)

// GetIcon returns the bytes of the tray icon.
func GetIcon() ([]byte, error) {
	iconOnce.Do(func() {
		iconData, iconErr = renderIcon()
	})
	return iconData, iconErr
}

func renderIcon() ([]byte, error) {
	img := image.NewNRGBA(image.Rect(0, 0, iconSize, iconSize))

	capCol := color.NRGBA{R: 0x2b, G: 0x6c, B: 0xb0, A: 0xff}
	rim := color.NRGBA{R: 0x1c, G: 0x47, B: 0x75, A: 0xff}
	face := color.NRGBA{R: 0xf2, G: 0xf5, B: 0xf9, A: 0xff}

	for y := 0; y < iconSize; y++ {
		for x := 0; x < iconSize; x++ {
			switch {
			case x < 2 || y < 2 || x >= iconSize-2 || y >= iconSize-2:
				img.SetNRGBA(x, y, rim)
			case x < 6 || y < 6 || x >= iconSize-6 || y >= iconSize-6:
				img.SetNRGBA(x, y, capCol)
			default:
				img.SetNRGBA(x, y, face)
			}
		}
	}
	// Glyph: a centered vertical bar with serifs, enough to read as a key.
	for y := 10; y < iconSize-10; y++ {
		for x := iconSize/2 - 2; x < iconSize/2+2; x++ {
			img.SetNRGBA(x, y, capCol)
		}
	}
	for x := 11; x < iconSize-11; x++ {
		img.SetNRGBA(x, 10, capCol)
		img.SetNRGBA(x, 11, capCol)
	}

	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		return nil, fmt.Errorf("encode icon png: %w", err)
	}
	return wrapICO(pngBuf.Bytes())
}

// wrapICO prefixes a PNG image with an ICONDIR and a single ICONDIRENTRY.
// Windows accepts PNG-compressed ICO entries since Vista.
func wrapICO(pngData []byte) ([]byte, error) {
	var buf bytes.Buffer

	// ICONDIR: reserved, type 1 (icon), one image.
	dir := []uint16{0, 1, 1}
	for _, v := range dir {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			return nil, err
		}
	}

	// ICONDIRENTRY.
	entry := struct {
		Width, Height  byte
		Colors, Rsv    byte
		Planes, BitCnt uint16
		Size, Offset   uint32
	}{
		Width:  iconSize,
		Height: iconSize,
		Planes: 1,
		BitCnt: 32,
		Size:   uint32(len(pngData)),
		Offset: 22, // 6-byte ICONDIR + 16-byte entry
	}
	if err := binary.Write(&buf, binary.LittleEndian, entry); err != nil {
		return nil, err
	}

	buf.Write(pngData)
	return buf.Bytes(), nil
}
