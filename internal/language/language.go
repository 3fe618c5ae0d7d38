package language

import "strings"

type entry struct {
	code    string // ISO 639-1
	name    string
	aliases []string // ISO 639-2 codes and lower-case English names
}

var known = []entry{
	{"en", "English", []string{"eng", "english"}},
	{"es", "Spanish", []string{"spa", "spanish"}},
	{"fr", "French", []string{"fra", "fre", "french"}},
	{"de", "German", []string{"deu", "ger", "german"}},
	{"it", "Italian", []string{"ita", "italian"}},
	{"pt", "Portuguese", []string{"por", "portuguese"}},
	{"ja", "Japanese", []string{"jpn", "japanese"}},
	{"ko", "Korean", []string{"kor", "korean"}},
	{"zh", "Chinese", []string{"zho", "chi", "chinese"}},
	{"ru", "Russian", []string{"rus", "russian"}},
	{"ar", "Arabic", []string{"ara", "arabic"}},
	{"hi", "Hindi", []string{"hin", "hindi"}},
	{"nl", "Dutch", []string{"nld", "dut", "dutch"}},
	{"pl", "Polish", []string{"pol", "polish"}},
	{"sv", "Swedish", []string{"swe", "swedish"}},
	{"da", "Danish", []string{"dan", "danish"}},
	{"no", "Norwegian", []string{"nor", "nob", "norwegian"}},
	{"fi", "Finnish", []string{"fin", "finnish"}},
	{"tr", "Turkish", []string{"tur", "turkish"}},
	{"uk", "Ukrainian", []string{"ukr", "ukrainian"}},
}

var index = func() map[string]*entry {
	m := make(map[string]*entry, len(known)*4)
	for i := range known {
		e := &known[i]
		m[e.code] = e
		for _, alias := range e.aliases {
			m[alias] = e
		}
	}
	return m
}()

// Normalize returns the ISO 639-1 code for a code, alias or English name.
// Unknown two-letter codes pass through lower-cased. The second result is
// false for anything else; blank input yields ("", true).
func Normalize(value string) (string, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return "", true
	}
	if e, ok := index[value]; ok {
		return e.code, true
	}
	if len(value) == 2 && isLetters(value) {
		return value, true
	}
	return "", false
}

// DisplayName returns the English name for a recognized code, "auto" for a
// blank hint and the upper-cased input otherwise.
func DisplayName(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return "auto"
	}
	if e, ok := index[code]; ok {
		return e.name
	}
	return strings.ToUpper(code)
}

func isLetters(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
