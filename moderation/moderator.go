// Package moderation censors forbidden words in chat text before it is
// posted to a room.
package moderation

import (
	"log/slog"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// Moderator matches a dictionary of forbidden words against normalized
// text with an Aho-Corasick automaton. Matching ignores case, punctuation,
// spacing and common leet-speak substitutions, but the replacement is
// applied to the original runes so the visible layout is preserved.
type Moderator struct {
	machine     *goahocorasick.Machine
	replacement rune
	log         *slog.Logger
}

func NewModerator(words []string, replacement rune, log *slog.Logger) (*Moderator, error) {
	patterns := make([][]rune, len(words))
	for i, word := range words {
		patterns[i] = foldRunes([]rune(word))
	}

	machine := new(goahocorasick.Machine)
	if err := machine.Build(patterns); err != nil {
		return nil, err
	}
	log.Info("moderation enabled", "words", len(words))
	return &Moderator{machine: machine, replacement: replacement, log: log}, nil
}

// Censor replaces every rune of every matched word with the replacement
// character and returns the result. Text without matches is returned as is.
func (m *Moderator) Censor(text string) string {
	folded, origIdx := fold(text)
	if len(folded) == 0 {
		return text
	}

	spans := m.machine.MultiPatternSearch(folded, false)
	if len(spans) == 0 {
		return text
	}

	runes := []rune(text)
	for _, span := range spans {
		start := span.Pos
		end := start + len(span.Word)
		if start < 0 || end > len(origIdx) {
			continue
		}
		for i := origIdx[start]; i <= origIdx[end-1]; i++ {
			runes[i] = m.replacement
		}
	}
	return string(runes)
}

// fold lowercases and strips noise from text, keeping for every surviving
// rune its index in the original so matches can be mapped back.
func fold(text string) (folded []rune, origIdx []int) {
	runes := []rune(text)
	folded = make([]rune, 0, len(runes))
	origIdx = make([]int, 0, len(runes))
	for i, r := range runes {
		plain := unleet(r)
		if noise(plain) {
			continue
		}
		folded = append(folded, unicode.ToLower(plain))
		origIdx = append(origIdx, i)
	}
	return folded, origIdx
}

func foldRunes(runes []rune) []rune {
	out := make([]rune, 0, len(runes))
	for _, r := range runes {
		plain := unleet(r)
		if noise(plain) {
			continue
		}
		out = append(out, unicode.ToLower(plain))
	}
	return out
}

// unleet maps common leet-speak substitutions back to letters.
func unleet(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3', '€':
		return 'e'
	case '1', '!', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	default:
		return r
	}
}

func noise(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
}
