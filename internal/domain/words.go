package domain

import (
	"math/rand"
	"strings"
)

const (
	DefaultLanguage = "english"
	DefaultCategory = "objects"

	DefaultWordChoices = 3
)

// wordBank maps language -> category -> words. Built-in content only; hosts
// bring their own vocabulary through the custom word list.
var wordBank = map[string]map[string][]string{
	"english": {
		"objects": {"apple", "book", "camera", "chair", "umbrella", "bottle", "phone", "clock", "guitar", "car", "lamp", "shoe", "hat", "cup", "key"},
		"animals": {"elephant", "tiger", "dog", "cat", "penguin", "horse", "rabbit", "lion", "crow", "dolphin", "bear", "fox", "panda", "whale", "owl"},
		"food":    {"pizza", "cake", "burger", "banana", "samosa", "noodles", "pasta", "icecream", "sandwich", "biryani", "salad", "sushi", "taco", "curry", "steak"},
	},
	"hindi": {
		"objects": {"सेब", "किताब", "कैमरा", "कुर्सी", "छाता", "बोतल", "फोन", "घड़ी", "गिटार", "गाड़ी", "लैंप", "जूता", "टोपी", "कप", "चाबी"},
		"animals": {"हाथी", "शेर", "कुत्ता", "बिल्ली", "पेंगुइन", "घोड़ा", "खरगोश", "सिंह", "कौआ", "डॉल्फिन", "भालू", "लोमड़ी", "पांडा", "व्हेल", "उल्लू"},
		"food":    {"पिज़्ज़ा", "केक", "बर्गर", "केला", "समोसा", "नूडल्स", "पास्ता", "आइसक्रीम", "सैंडविच", "बिरयानी", "सलाद", "सुशी", "टाको", "करी", "स्टेक"},
	},
}

func KnownLanguage(language string) bool {
	_, ok := wordBank[language]
	return ok
}

func KnownCategory(language, category string) bool {
	cats, ok := wordBank[language]
	if !ok {
		return false
	}
	_, ok = cats[category]
	return ok
}

// PickCandidates draws up to count distinct words. A non-empty custom list
// is the exclusive pool; otherwise the language/category table is used,
// falling back to the full default-language bank when the configured pair
// is unknown or empty. A misconfigured room can always start a round.
func PickCandidates(custom []string, language, category string, count int) []string {
	pool := candidatePool(custom, language, category)
	if len(pool) == 0 {
		return nil
	}

	if count > len(pool) {
		count = len(pool)
	}

	shuffled := make([]string, len(pool))
	copy(shuffled, pool)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	return shuffled[:count]
}

func candidatePool(custom []string, language, category string) []string {
	// Repeated custom entries collapse to one word (guesses match
	// case-insensitively, so "Apple" and "apple" are the same word; the
	// first spelling wins).
	seen := make(map[string]struct{}, len(custom))
	cleaned := make([]string, 0, len(custom))
	for _, w := range custom {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		key := strings.ToLower(w)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		cleaned = append(cleaned, w)
	}
	if len(cleaned) > 0 {
		return cleaned
	}

	if words, ok := wordBank[language][category]; ok && len(words) > 0 {
		return words
	}

	// Unknown or empty language/category pair
	var all []string
	for _, words := range wordBank[DefaultLanguage] {
		all = append(all, words...)
	}
	return all
}

// ParseCustomWords splits host free-text on commas, trims each entry and
// drops empties.
func ParseCustomWords(text string) []string {
	parts := strings.Split(text, ",")
	words := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			words = append(words, p)
		}
	}
	return words
}
