package matching

import "strings"

// chineseFamily covers the cross-matchable Chinese language names. A requester
// asking for any of these is considered served by an offer listing any other.
var chineseFamily = map[string]bool{
	"chinese":   true,
	"mandarin":  true,
	"cantonese": true,
}

// ScoreLanguage compares the requester's preferred language against the
// offer's comma-separated language list.
//
//	exact match                -> 100
//	Chinese-family cross match -> 90
//	offer lists English        -> 70
//	no overlap                 -> 30
//	missing data either side   -> 50 (neutral)
func ScoreLanguage(preferred, offered string) float64 {
	preferred = strings.ToLower(strings.TrimSpace(preferred))
	languages := splitList(offered)
	if preferred == "" || len(languages) == 0 {
		return neutralScore
	}

	speaksEnglish := false
	for _, lang := range languages {
		if lang == preferred {
			return 100
		}
		if lang == "english" {
			speaksEnglish = true
		}
	}

	if chineseFamily[preferred] {
		for _, lang := range languages {
			if chineseFamily[lang] {
				return 90
			}
		}
	}

	if speaksEnglish {
		return 70
	}
	return 30
}

// splitList splits a comma-separated field into lowercased, trimmed entries,
// dropping empties.
func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
