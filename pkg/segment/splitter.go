package segment

// separators, in preference order, used when choosing a cut point near the
// end of a chunk window: paragraph break, line break, sentence end, word gap.
var separators = []string{"\n\n", "\n", ". ", " "}

// split turns extracted text into overlapping chunks of at most chunkSize
// runes, overlapping by roughly overlap runes. Cut points prefer paragraph
// and sentence boundaries in the trailing half of the window before falling
// back to a hard cut. The same text always yields the same chunks.
func split(text string, chunkSize, overlap int) []Chunk {
	runes := []rune(text)
	n := len(runes)
	if n == 0 {
		return nil
	}

	var chunks []Chunk
	start := 0
	ordinal := 0

	for start < n {
		end := start + chunkSize
		if end >= n {
			end = n
		} else {
			end = cutPoint(runes, start, end)
		}

		chunks = append(chunks, Chunk{
			Ordinal: ordinal,
			Start:   start,
			End:     end,
			Text:    string(runes[start:end]),
		})
		ordinal++

		if end == n {
			break
		}

		next := end - overlap
		if next <= start {
			// Boundary adjustment produced a chunk shorter than the
			// overlap; advance without overlapping to guarantee progress.
			next = end
		}
		start = next
	}

	return chunks
}

// cutPoint finds the best boundary to end a chunk that starts at start and
// would hard-cut at limit. Only boundaries in the trailing half of the window
// are considered so chunks stay reasonably full.
func cutPoint(runes []rune, start, limit int) int {
	window := string(runes[start:limit])
	floor := len(window) / 2

	for _, sep := range separators {
		if idx := lastIndexFrom(window, sep, floor); idx >= 0 {
			return start + idx + len([]rune(sep))
		}
	}

	return limit
}

// lastIndexFrom returns the rune index of the last occurrence of sep in s at
// or after floor, or -1. Works on rune indices so offsets line up with the
// rune-based windows in split.
func lastIndexFrom(s, sep string, floor int) int {
	rs := []rune(s)
	seps := []rune(sep)

	for i := len(rs) - len(seps); i >= floor; i-- {
		match := true
		for j := range seps {
			if rs[i+j] != seps[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}

	return -1
}
