// Package witness implements the manuscript total ordering used
// throughout coherence computation and textual-flow output: A first,
// then papyri, then majuscules, then minuscules, then lectionaries,
// then everything else, each bucket ordered by its numeric siglum.
package witness

import (
	"regexp"
	"sort"
	"strconv"
)

var reNum = regexp.MustCompile(`[0-9]+`)

const (
	offsetInitial    = 0
	offsetPapyrus    = 10000
	offsetMajuscule  = 20000
	offsetMinuscule  = 30000
	offsetLectionary = 40000
	offsetOther      = 50000
)

// key is the sortable pair a witness siglum reduces to: a bucketed
// number followed by the non-numeric remainder of the siglum.
type key struct {
	num int64
	rem string
}

func intify(x string) key {
	loc := reNum.FindStringIndex(x)
	var num int64
	var rem string
	if loc != nil {
		n, _ := strconv.ParseInt(x[loc[0]:loc[1]], 10, 64)
		num = n
		rem = x[:loc[0]] + x[loc[1]:]
	} else {
		rem = x
	}

	var offset int64
	switch {
	case len(x) > 0 && x[0] == '0':
		offset = offsetMajuscule
	case len(x) > 0 && x[0] == 'P':
		offset = offsetPapyrus
	case x == "A":
		num = 1
		offset = offsetInitial
	case len(x) > 0 && x[0] == 'L':
		offset = offsetLectionary
	case len(x) > 0 && x[0] >= '0' && x[0] <= '9':
		offset = offsetMinuscule
	default:
		offset = offsetOther
	}

	return key{num: offset + num, rem: rem}
}

func (k key) less(other key) bool {
	if k.num != other.num {
		return k.num < other.num
	}
	return k.rem < other.rem
}

// Less reports whether witness a sorts before witness b under the
// project ordering.
func Less(a, b string) bool {
	return intify(a).less(intify(b))
}

// Sort returns a sorted copy of mss under the project ordering: A
// first, then papyri, then majuscules, then minuscules, then
// lectionaries, then everything else.
func Sort(mss []string) []string {
	out := make([]string, len(mss))
	copy(out, mss)
	sort.SliceStable(out, func(i, j int) bool {
		return Less(out[i], out[j])
	})
	return out
}

// Pretty renders a siglum for display, substituting the gothic 𝔓 for
// a literal P (as in papyrus sigla like "P45").
func Pretty(x string) string {
	out := make([]rune, 0, len(x))
	for _, r := range x {
		if r == 'P' {
			out = append(out, '𝔓')
			continue
		}
		out = append(out, r)
	}
	return string(out)
}
