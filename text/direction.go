// Package text decides the reading direction of an extracted document.
//
// The classifier combines two independent signals over the positioned
// text runs the PDF parsing library produces: how the lines are aligned
// on the page, and which Unicode scripts the characters belong to. It
// never mutates the runs; it only aggregates statistics over them.
package text

import "unicode/utf8"

// Direction represents the writing direction of text.
type Direction int

const (
	// LTR (Left-to-Right) for Latin, Cyrillic, Greek, etc.
	LTR Direction = iota
	// RTL (Right-to-Left) for Hebrew, Arabic, Syriac, Thaana.
	RTL
	// Neutral for numbers, punctuation, and uncounted scripts.
	Neutral
)

// String returns a string representation of the direction ("LTR", "RTL", or "Neutral").
func (d Direction) String() string {
	switch d {
	case LTR:
		return "LTR"
	case RTL:
		return "RTL"
	case Neutral:
		return "Neutral"
	default:
		return "Unknown"
	}
}

// GetCharDirection returns the inherent direction of a single Unicode
// character. RTL scripts (Hebrew, Arabic, Syriac, Thaana) return RTL;
// strong LTR scripts (Latin letters, Cyrillic, Greek) return LTR;
// everything else (digits, punctuation, whitespace, uncounted scripts)
// is Neutral.
func GetCharDirection(r rune) Direction {
	if isHebrew(r) || isArabic(r) || isSyriac(r) || isThaana(r) {
		return RTL
	}
	if isLatinLetter(r) || isCyrillic(r) || isGreek(r) {
		return LTR
	}
	return Neutral
}

// countScriptChars decodes s as UTF-8 and tallies its strong directional
// characters. Invalid bytes are skipped.
func countScriptChars(s string, rtl, ltr *int) {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			i++
			continue
		}
		switch GetCharDirection(r) {
		case RTL:
			*rtl++
		case LTR:
			*ltr++
		}
		i += size
	}
}

// isHebrew reports whether r is in the Hebrew Unicode block (U+0590–U+05FF).
func isHebrew(r rune) bool {
	return r >= 0x0590 && r <= 0x05FF
}

// isArabic reports whether r is in the Arabic Unicode block (U+0600–U+06FF).
func isArabic(r rune) bool {
	return r >= 0x0600 && r <= 0x06FF
}

// isSyriac reports whether r is in the Syriac Unicode block (U+0700–U+074F).
func isSyriac(r rune) bool {
	return r >= 0x0700 && r <= 0x074F
}

// isThaana reports whether r is in the Thaana Unicode block (U+0780–U+07BF).
// Thaana is the script used to write Maldivian (Dhivehi).
func isThaana(r rune) bool {
	return r >= 0x0780 && r <= 0x07BF
}

// isLatinLetter reports whether r is an ASCII Latin letter (A–Z, a–z).
func isLatinLetter(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
}

// isCyrillic reports whether r is in the Cyrillic Unicode block (U+0400–U+04FF).
func isCyrillic(r rune) bool {
	return r >= 0x0400 && r <= 0x04FF
}

// isGreek reports whether r is in the Greek and Coptic Unicode block (U+0370–U+03FF).
func isGreek(r rune) bool {
	return r >= 0x0370 && r <= 0x03FF
}
