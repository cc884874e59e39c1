// Package colorcode translates the section-sign colour codes used in chat
// style text to and from a typeable alternate character, and renders them
// for terminals.
package colorcode

import (
	"strings"
	"unicode"

	"github.com/fatih/color"
)

// SectionSign introduces a colour code in translated text.
const SectionSign = '§'

// Codes lists the characters that may follow a colour-code prefix.
const Codes = "0123456789AaBbCcDdEeFfKkLlMmNnOoRr"

// Translate replaces every from character followed by a valid code with to,
// lower-casing the code.
func Translate(from, to rune, s string) string {
	if !strings.ContainsRune(s, from) {
		return s
	}
	r := []rune(s)
	for i := 0; i < len(r)-1; i++ {
		if r[i] == from && strings.ContainsRune(Codes, r[i+1]) {
			r[i] = to
			r[i+1] = unicode.ToLower(r[i+1])
		}
	}
	return string(r)
}

// Colorize turns alternate codes such as "&c" into section-sign codes.
func Colorize(alt rune, s string) string {
	return Translate(alt, SectionSign, s)
}

// Decolorize turns section-sign codes back into alternate codes.
func Decolorize(alt rune, s string) string {
	return Translate(SectionSign, alt, s)
}

var (
	colors = map[rune]color.Attribute{
		'0': color.FgBlack,
		'1': color.FgBlue,
		'2': color.FgGreen,
		'3': color.FgCyan,
		'4': color.FgRed,
		'5': color.FgMagenta,
		'6': color.FgYellow,
		'7': color.FgWhite,
		'8': color.FgHiBlack,
		'9': color.FgHiBlue,
		'a': color.FgHiGreen,
		'b': color.FgHiCyan,
		'c': color.FgHiRed,
		'd': color.FgHiMagenta,
		'e': color.FgHiYellow,
		'f': color.FgHiWhite,
	}
	formats = map[rune]color.Attribute{
		'k': color.BlinkSlow,
		'l': color.Bold,
		'm': color.CrossedOut,
		'n': color.Underline,
		'o': color.Italic,
	}
)

// ToANSI renders section-sign codes as ANSI escape sequences. A colour code
// clears any active formatting; "r" resets everything.
func ToANSI(s string) string {
	var (
		out   strings.Builder
		seg   strings.Builder
		attrs []color.Attribute
	)
	flush := func() {
		if seg.Len() == 0 {
			return
		}
		if len(attrs) == 0 {
			out.WriteString(seg.String())
		} else {
			c := color.New(attrs...)
			c.EnableColor()
			out.WriteString(c.Sprint(seg.String()))
		}
		seg.Reset()
	}

	r := []rune(s)
	for i := 0; i < len(r); i++ {
		if r[i] != SectionSign || i+1 >= len(r) {
			seg.WriteRune(r[i])
			continue
		}
		code := unicode.ToLower(r[i+1])
		if a, ok := colors[code]; ok {
			flush()
			attrs = []color.Attribute{a}
		} else if a, ok := formats[code]; ok {
			flush()
			attrs = append(attrs, a)
		} else if code == 'r' {
			flush()
			attrs = nil
		} else {
			seg.WriteRune(r[i])
			continue
		}
		i++
	}
	flush()
	return out.String()
}

// Strip removes section-sign codes.
func Strip(s string) string {
	if !strings.ContainsRune(s, SectionSign) {
		return s
	}
	var out strings.Builder
	r := []rune(s)
	for i := 0; i < len(r); i++ {
		if r[i] == SectionSign && i+1 < len(r) && strings.ContainsRune(Codes, r[i+1]) {
			i++
			continue
		}
		out.WriteRune(r[i])
	}
	return out.String()
}
