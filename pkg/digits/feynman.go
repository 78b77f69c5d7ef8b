package digits

// FeynmanDigit is the digit whose run marks the Feynman point.
const FeynmanDigit = 9

// FeynmanRunLength is the run length that qualifies as the Feynman point.
const FeynmanRunLength = 6

// Run marks a maximal-interest run of digits, with inclusive zero-based
// bounds into the stream.
type Run struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains reports whether the zero-based index i falls inside the run.
func (r Run) Contains(i int) bool {
	return i >= r.Start && i <= r.End
}

// LocateFeynman scans the stream for the first run of six consecutive 9s
// and returns its bounds. The second value is false when the stream holds
// no such run; that is an ordinary outcome for short streams, not an error.
func LocateFeynman(s *Stream) (Run, bool) {
	return locateRun(s, FeynmanDigit, FeynmanRunLength)
}

// locateRun finds the first run of length consecutive occurrences of digit.
func locateRun(s *Stream, digit byte, length int) (Run, bool) {
	if length <= 0 || s.Len() < length {
		return Run{}, false
	}

	count := 0
	for i, d := range s.digits {
		if d != digit {
			count = 0
			continue
		}
		count++
		if count == length {
			return Run{Start: i - length + 1, End: i}, true
		}
	}

	return Run{}, false
}
