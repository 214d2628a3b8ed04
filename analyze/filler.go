package analyze

import "strings"

// FillerOccurrence anchors filler hits to the segment they were found in.
type FillerOccurrence struct {
	SegmentIndex int
	Form         string
	Count        int
}

// CountFillers scans the whole text and returns the total occurrence count
// plus the distinct filler forms found. Single words match by case-insensitive
// token equality, phrases by padded substring counting.
func CountFillers(text string, words, phrases []string) (int, []string) {
	if text == "" || (len(words) == 0 && len(phrases) == 0) {
		return 0, nil
	}

	count := 0
	found := map[string]bool{}

	tokens := tokenize(text)
	for _, tok := range tokens {
		for _, w := range words {
			if tok == w {
				count++
				found[w] = true
			}
		}
	}

	padded := " " + strings.ToLower(text) + " "
	for _, p := range phrases {
		if n := strings.Count(padded, " "+p+" "); n > 0 {
			count += n
			found[p] = true
		}
	}

	forms := make([]string, 0, len(found))
	for f := range found {
		forms = append(forms, f)
	}
	return count, forms
}

// FillersPerSegment runs the same matching per segment text so every hit
// carries a segment index for event generation. Returns the total count and
// one occurrence record per (segment, form) pair.
func FillersPerSegment(segTexts []string, words, phrases []string) (int, []FillerOccurrence) {
	total := 0
	var occs []FillerOccurrence

	for i, segText := range segTexts {
		tokens := tokenize(segText)
		for _, w := range words {
			n := 0
			for _, tok := range tokens {
				if tok == w {
					n++
				}
			}
			if n > 0 {
				total += n
				occs = append(occs, FillerOccurrence{SegmentIndex: i, Form: w, Count: n})
			}
		}

		padded := " " + strings.ToLower(segText) + " "
		for _, p := range phrases {
			if n := strings.Count(padded, " "+p+" "); n > 0 {
				total += n
				occs = append(occs, FillerOccurrence{SegmentIndex: i, Form: p, Count: n})
			}
		}
	}
	return total, occs
}

// tokenize lowercases, splits on whitespace and strips surrounding
// punctuation, so "Um," counts as the filler "um".
func tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if t := strings.Trim(f, ".,!?;:\"'()"); t != "" {
			out = append(out, t)
		}
	}
	return out
}
