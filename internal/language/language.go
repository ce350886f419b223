package language

import "strings"

type entry struct {
	code2   string   // ISO 639-1
	code3   []string // ISO 639-2 bibliographic and terminology forms
	display string
	words   []string // lowercase names, including endonyms
}

var languages = []entry{
	{"en", []string{"eng"}, "English", []string{"english"}},
	{"es", []string{"spa"}, "Spanish", []string{"spanish", "español", "espanol"}},
	{"fr", []string{"fra", "fre"}, "French", []string{"french", "français", "francais"}},
	{"de", []string{"deu", "ger"}, "German", []string{"german", "deutsch"}},
	{"it", []string{"ita"}, "Italian", []string{"italian", "italiano"}},
	{"pt", []string{"por"}, "Portuguese", []string{"portuguese", "português", "portugues"}},
	{"nl", []string{"nld", "dut"}, "Dutch", []string{"dutch", "nederlands"}},
	{"sv", []string{"swe"}, "Swedish", []string{"swedish", "svenska"}},
	{"da", []string{"dan"}, "Danish", []string{"danish", "dansk"}},
	{"no", []string{"nor", "nob"}, "Norwegian", []string{"norwegian", "norsk"}},
	{"fi", []string{"fin"}, "Finnish", []string{"finnish", "suomi"}},
	{"pl", []string{"pol"}, "Polish", []string{"polish", "polski"}},
	{"cs", []string{"ces", "cze"}, "Czech", []string{"czech", "čeština"}},
	{"ru", []string{"rus"}, "Russian", []string{"russian", "русский"}},
	{"el", []string{"ell", "gre"}, "Greek", []string{"greek"}},
	{"la", []string{"lat"}, "Latin", []string{"latin"}},
	{"ja", []string{"jpn"}, "Japanese", []string{"japanese", "日本語"}},
	{"ko", []string{"kor"}, "Korean", []string{"korean"}},
	{"zh", []string{"zho", "chi"}, "Chinese", []string{"chinese", "中文"}},
	{"ar", []string{"ara"}, "Arabic", []string{"arabic"}},
	{"he", []string{"heb"}, "Hebrew", []string{"hebrew"}},
	{"hi", []string{"hin"}, "Hindi", []string{"hindi"}},
}

var index = func() map[string]*entry {
	m := make(map[string]*entry, len(languages)*4)
	for i := range languages {
		e := &languages[i]
		m[e.code2] = e
		for _, code := range e.code3 {
			m[code] = e
		}
		for _, word := range e.words {
			m[word] = e
		}
	}
	return m
}()

func lookup(value string) *entry {
	return index[strings.ToLower(strings.TrimSpace(value))]
}

// ToISO2 converts a language code or name to ISO 639-1. Unrecognized
// two-letter input passes through; anything else unrecognized yields "".
func ToISO2(value string) string {
	if e := lookup(value); e != nil {
		return e.code2
	}
	code := strings.ToLower(strings.TrimSpace(value))
	if len(code) == 2 && isASCIILetters(code) {
		return code
	}
	return ""
}

// DisplayName returns the English name for a code, or the uppercased input
// when it is not recognized.
func DisplayName(value string) string {
	if strings.TrimSpace(value) == "" {
		return "Any"
	}
	if e := lookup(value); e != nil {
		return e.display
	}
	return strings.ToUpper(strings.TrimSpace(value))
}

func isASCIILetters(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}
