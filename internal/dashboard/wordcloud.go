package dashboard

import (
	"fmt"
	"html"
	"io"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/i474232898/central-west-weather/internal/weather"
)

const (
	cloudWidth   = 800
	cloudHeight  = 400
	cloudMinFont = 14.0
	cloudMaxFont = 64.0
	cloudPadding = 8.0
)

// WordCount is one word of the cloud with its frequency.
type WordCount struct {
	Word  string
	Count int
}

// StationWords counts the words of the station names. Single-character tokens
// of multi-word names are dropped; a one-word name is always kept whole.
// Result is ordered by count, then alphabetically.
func StationWords(rows []weather.StationCount) []WordCount {
	counts := make(map[string]int)
	for _, r := range rows {
		tokens := strings.FieldsFunc(r.Station, func(c rune) bool {
			return !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '\'' && c != '-'
		})
		for _, w := range tokens {
			if len(tokens) > 1 && utf8.RuneCountInString(w) < 2 {
				continue
			}
			counts[w]++
		}
	}

	out := make([]WordCount, 0, len(counts))
	for w, c := range counts {
		out = append(out, WordCount{Word: w, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	return out
}

// StationCloud draws the station-name word cloud as SVG. Font size scales with
// word frequency; words that do not fit the canvas are left out.
func StationCloud(w io.Writer, rows []weather.StationCount) error {
	words := StationWords(rows)
	if len(words) == 0 {
		return ErrEmptyTable
	}

	lo, hi := words[len(words)-1].Count, words[0].Count
	size := func(c int) float64 {
		if hi == lo {
			return (cloudMinFont + cloudMaxFont) / 2
		}
		return cloudMinFont + (cloudMaxFont-cloudMinFont)*float64(c-lo)/float64(hi-lo)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		cloudWidth, cloudHeight, cloudWidth, cloudHeight)
	b.WriteString(`<rect width="100%" height="100%" fill="#ffffff"/>`)

	x, y, lineHeight := cloudPadding, cloudPadding, 0.0
	for i, wc := range words {
		fs := size(wc.Count)
		width := 0.6 * fs * float64(utf8.RuneCountInString(wc.Word))
		if width > cloudWidth-2*cloudPadding {
			continue
		}
		if x+width > cloudWidth-cloudPadding {
			x = cloudPadding
			y += lineHeight + cloudPadding
			lineHeight = 0
		}
		if y+fs > cloudHeight-cloudPadding {
			break
		}
		fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" font-family="sans-serif" font-size="%.1f" fill="%s">%s</text>`,
			x, y+fs, fs, hexColor(barColor(i)), html.EscapeString(wc.Word))
		x += width + cloudPadding
		if fs > lineHeight {
			lineHeight = fs
		}
	}
	b.WriteString(`</svg>`)

	_, err := io.WriteString(w, b.String())
	return err
}
