package xobj

import (
	"debug/elf"
	"fmt"
)

// OutputImage is the contiguous text+data byte buffer described in spec
// §3: text occupies [0, TextLen), data occupies [TextLen, TextLen+DataLen).
type OutputImage struct {
	Bytes   []byte
	TextLen int
	DataLen int
}

// Assemble builds the output image per spec §4.2: copy every content-
// bearing text section to imgOffset = addr-textStart, every content-
// bearing data section to imgOffset = textSize+(addr-dataStart). Gaps
// from alignment or non-contiguous sections stay zero. BSS contributes
// no bytes (its size is carried separately in the X-file header).
func Assemble(f *elf.File, cls *Classification) (*OutputImage, error) {
	textSize := int(cls.TextSize())
	dataSize := int(cls.DataSize())
	img := &OutputImage{
		Bytes:   make([]byte, textSize+dataSize),
		TextLen: textSize,
		DataLen: dataSize,
	}

	for i, sh := range f.Sections {
		switch cls.Class[i] {
		case ClassText:
			data, err := sh.Data()
			if err != nil {
				return nil, fmt.Errorf("%w: reading section %q: %v", ErrInvalidInput, sh.Name, err)
			}
			off := int(uint32(sh.Addr) - cls.TextStart)
			if err := placeSection(img.Bytes, off, data, sh.Name); err != nil {
				return nil, err
			}
		case ClassData:
			data, err := sh.Data()
			if err != nil {
				return nil, fmt.Errorf("%w: reading section %q: %v", ErrInvalidInput, sh.Name, err)
			}
			off := textSize + int(uint32(sh.Addr)-cls.DataStart)
			if err := placeSection(img.Bytes, off, data, sh.Name); err != nil {
				return nil, err
			}
		}
	}

	return img, nil
}

func placeSection(image []byte, offset int, data []byte, name string) error {
	if offset < 0 || offset+len(data) > len(image) {
		return fmt.Errorf("%w: section %q at image offset %d size %d exceeds image of length %d",
			ErrOverflowingSection, name, offset, len(data), len(image))
	}
	copy(image[offset:offset+len(data)], data)
	return nil
}
