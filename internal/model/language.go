package model

// Language tags supported across users, queries and AI prompts.
// LangEnglish doubles as the fallback for unrecognized tags.
const (
	LangEnglish   = "english"
	LangMalayalam = "malayalam"
	LangHindi     = "hindi"
	LangTamil     = "tamil"
	LangOdia      = "odia"
)

var languages = map[string]bool{
	LangEnglish:   true,
	LangMalayalam: true,
	LangHindi:     true,
	LangTamil:     true,
	LangOdia:      true,
}

// ValidLanguage reports whether tag is one of the supported
// language tags.
func ValidLanguage(tag string) bool { return languages[tag] }

// NormalizeLanguage returns tag when supported and LangEnglish
// otherwise, so unknown tags degrade to the default language
// instead of failing.
func NormalizeLanguage(tag string) string {
	if languages[tag] {
		return tag
	}
	return LangEnglish
}
