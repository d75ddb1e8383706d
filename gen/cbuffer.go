package gen

import (
	"github.com/polly2d/shaderc/ir"
)

// CBufferAlignment is the register size every uniform buffer is rounded
// up to.
const CBufferAlignment = 16

// CBufferLayout is the packed layout of a uniform buffer.
type CBufferLayout struct {
	Offsets []int
	Size    int
}

// PackCBuffer assigns a byte offset to each field type. Each field starts
// at the next multiple of its base alignment. With maxOfAlignAndSize the
// cursor advances by the larger of the field's size and alignment, which
// keeps every vec3 in its own register. The total size is rounded up to
// alignment. Arrays take the tightly packed size of their elements; see
// ir.ArrayType.SizeInCbuffer.
func PackCBuffer(types []ir.Type, alignment int, maxOfAlignAndSize bool) (CBufferLayout, error) {
	layout := CBufferLayout{Offsets: make([]int, 0, len(types))}

	cur := 0
	for _, t := range types {
		size, ok := t.SizeInCbuffer()
		if !ok {
			return CBufferLayout{}, ir.Internalf("type '%s' cannot be placed in a uniform buffer", t.TypeName())
		}
		align, _ := t.AlignmentInCbuffer()

		offset := alignUp(cur, align)
		layout.Offsets = append(layout.Offsets, offset)

		if maxOfAlignAndSize {
			cur = offset + max(size, align)
		} else {
			cur = offset + size
		}
	}

	layout.Size = alignUp(cur, alignment)
	return layout, nil
}

func alignUp(v, align int) int {
	if align <= 1 {
		return v
	}
	return (v + align - 1) / align * align
}
