package operator

import (
	"errors"
	"log/slog"
	"math"
	"regexp"
	"strconv"

	"github.com/jacoelho/enumpath/internal/diagnostics"
	"github.com/jacoelho/enumpath/internal/resolver"
)

var sliceRe = regexp.MustCompile(`^(-?[0-9]*):(-?[0-9]*):?(-?[0-9]*)$`)

// Slice expands to the indices start, start+step, ... below end.
type Slice struct{ base }

func detectSlice(segment string) bool {
	return sliceRe.MatchString(segment)
}

func (s Slice) Apply(remaining []string, node any, resolved []string, log *diagnostics.Logger) []Branch {
	m := sliceRe.FindStringSubmatch(s.segment)
	if m == nil {
		return nil
	}

	var branches []Branch
	for _, index := range sliceIndices(m[1], m[2], m[3], resolver.Len(node)) {
		log.Log("Applying slice", func() []slog.Attr {
			return []slog.Attr{slog.Int("slice", index)}
		})
		branches = append(branches, Branch{Remaining: prepend(strconv.Itoa(index), remaining), Node: node, Resolved: resolved})
	}
	return branches
}

// sliceIndices resolves the textual bounds against length. A step below one
// selects nothing; a step too large for an int selects only the start.
func sliceIndices(start, end, step string, length int) []int {
	from := sliceBound(start, 0, length)
	to := sliceBound(end, length, length)

	by := 1
	if step != "" {
		n, err := strconv.Atoi(step)
		switch {
		case errors.Is(err, strconv.ErrRange) && step[0] != '-':
			n = math.MaxInt
		case err != nil || n < 1:
			return nil
		}
		by = n
	}

	var indices []int
	for i := from; i < to; i += by {
		indices = append(indices, i)
		if by > to-i {
			break
		}
	}
	return indices
}

// sliceBound parses a bound, counting negative values from the end and
// clamping the result to [0, length]. Out of range values clamp by sign.
func sliceBound(text string, fallback, length int) int {
	if text == "" {
		return fallback
	}
	n, err := strconv.Atoi(text)
	if errors.Is(err, strconv.ErrRange) {
		if text[0] == '-' {
			return 0
		}
		return length
	}
	if err != nil {
		return fallback
	}
	if n < 0 {
		return max(0, n+length)
	}
	return min(length, n)
}
