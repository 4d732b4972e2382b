package dds

// maxMipMapCount caps generated mip chains, matching what the Enfusion tools emit.
const maxMipMapCount = 11

// fullMipMapCount returns the number of levels down to 1x1, capped at maxMipMapCount.
func fullMipMapCount(width, height uint32) uint32 {
	count := uint32(1)
	w, h := width, height
	for w > 1 || h > 1 {
		count++
		if w > 1 {
			w /= 2
		}
		if h > 1 {
			h /= 2
		}
	}

	return min(count, maxMipMapCount)
}

// mipDimension calculates the dimension of a mipmap level, floored at 1.
func mipDimension(base, level uint32) uint32 {
	if level >= 32 {
		return 1
	}
	result := base >> level
	if result < 1 {
		return 1
	}

	return result
}
