package language

import (
	"strings"

	xlang "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

type entry struct {
	code2   string   // ISO 639-1 (2-letter)
	code3   string   // ISO 639-2 primary (3-letter)
	alt3    string   // ISO 639-2 alternate (e.g. "fre" vs "fra")
	display string   // Human-readable name
	words   []string // Full word forms (e.g. "english")
}

var languages = []entry{
	{"en", "eng", "", "English", []string{"english"}},
	{"es", "spa", "", "Spanish", []string{"spanish"}},
	{"fr", "fra", "fre", "French", []string{"french"}},
	{"de", "deu", "ger", "German", []string{"german"}},
	{"it", "ita", "", "Italian", []string{"italian"}},
	{"pt", "por", "", "Portuguese", []string{"portuguese"}},
	{"ja", "jpn", "", "Japanese", []string{"japanese"}},
	{"ko", "kor", "", "Korean", []string{"korean"}},
	{"zh", "zho", "chi", "Chinese", []string{"chinese"}},
	{"ru", "rus", "", "Russian", []string{"russian"}},
	{"ar", "ara", "", "Arabic", []string{"arabic"}},
	{"nl", "nld", "dut", "Dutch", []string{"dutch"}},
	{"pl", "pol", "", "Polish", []string{"polish"}},
	{"sv", "swe", "", "Swedish", []string{"swedish"}},
	{"da", "dan", "", "Danish", []string{"danish"}},
	{"no", "nor", "", "Norwegian", []string{"norwegian"}},
	{"fi", "fin", "", "Finnish", []string{"finnish"}},
	{"cs", "ces", "cze", "Czech", []string{"czech"}},
	{"cy", "cym", "wel", "Welsh", []string{"welsh"}},
}

var (
	byCode2 map[string]*entry
	byCode3 map[string]*entry
	byWord  map[string]*entry
)

func init() {
	byCode2 = make(map[string]*entry, len(languages))
	byCode3 = make(map[string]*entry, len(languages)*2)
	byWord = make(map[string]*entry, len(languages))
	for i := range languages {
		e := &languages[i]
		byCode2[e.code2] = e
		byCode3[e.code3] = e
		if e.alt3 != "" {
			byCode3[e.alt3] = e
		}
		for _, w := range e.words {
			byWord[w] = e
		}
	}
}

func lookup(code string) *entry {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	if e, ok := byCode2[code]; ok {
		return e
	}
	if e, ok := byCode3[code]; ok {
		return e
	}
	if e, ok := byWord[code]; ok {
		return e
	}
	return nil
}

func parseTag(code string) (xlang.Tag, bool) {
	code = strings.TrimSpace(code)
	if code == "" {
		return xlang.Und, false
	}
	tag, err := xlang.Parse(code)
	if err != nil || tag == xlang.Und {
		return xlang.Und, false
	}
	return tag, true
}

// Valid reports whether code names a known language.
func Valid(code string) bool {
	if lookup(code) != nil {
		return true
	}
	_, ok := parseTag(code)
	return ok
}

// Canonical returns the shortest ISO 639 code for code, or "" when the
// language is unknown.
func Canonical(code string) string {
	if e := lookup(code); e != nil {
		return e.code2
	}
	tag, ok := parseTag(code)
	if !ok {
		return ""
	}
	base, _ := tag.Base()
	return base.String()
}

// ToISO3 converts a recognized code to ISO 639-2. Unknown input yields "und".
func ToISO3(code string) string {
	if e := lookup(code); e != nil {
		return e.code3
	}
	tag, ok := parseTag(code)
	if !ok {
		return "und"
	}
	base, _ := tag.Base()
	return base.ISO3()
}

// DisplayName returns an English name for code. Empty input yields
// "Unknown", unrecognized input its upper-cased text.
func DisplayName(code string) string {
	if strings.TrimSpace(code) == "" {
		return "Unknown"
	}
	if e := lookup(code); e != nil {
		return e.display
	}
	if tag, ok := parseTag(code); ok {
		if name := display.English.Languages().Name(tag); name != "" {
			return name
		}
	}
	return strings.ToUpper(strings.TrimSpace(code))
}
