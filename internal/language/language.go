package language

import (
	"strings"

	xlanguage "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Auto asks the transcriber to detect the spoken language.
const Auto = "auto"

// whisperLanguages lists the languages WhisperX ships alignment models for.
var whisperLanguages = []string{
	"en", "fr", "de", "es", "it", "ja", "zh", "nl", "uk", "pt",
	"ar", "cs", "ru", "pl", "hu", "fi", "fa", "el", "tr", "da",
	"he", "vi", "ko", "ur", "te", "hi", "ca", "ml", "no", "nn",
	"sk", "sl", "hr", "ro", "eu", "gl", "ka", "lv", "tl", "sv",
}

var byName = func() map[string]string {
	namer := display.English.Languages()
	names := make(map[string]string, len(whisperLanguages))
	for _, code := range whisperLanguages {
		name := strings.ToLower(namer.Name(xlanguage.MustParseBase(code)))
		if name != "" {
			names[name] = code
		}
	}
	return names
}()

// ToISO2 converts a language code (ISO 639-1 or 639-2/3) or English name to
// its two-letter form. Unknown two-letter codes pass through unchanged; other
// unrecognized input returns "".
func ToISO2(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	switch code {
	case "":
		return ""
	case Auto:
		return Auto
	}
	if mapped, ok := byName[code]; ok {
		return mapped
	}
	if base, err := xlanguage.ParseBase(code); err == nil {
		if s := base.String(); len(s) == 2 {
			return s
		}
	}
	if len(code) == 2 {
		return code
	}
	return ""
}

// DisplayName returns the English name of a language code, or the upper-cased
// input when it is not recognized.
func DisplayName(code string) string {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return "Unknown"
	}
	if strings.EqualFold(trimmed, Auto) {
		return "Auto-detect"
	}
	iso := ToISO2(trimmed)
	if base, err := xlanguage.ParseBase(iso); err == nil {
		if name := display.English.Languages().Name(base); name != "" {
			return name
		}
	}
	return strings.ToUpper(trimmed)
}

// Supported reports whether WhisperX has an alignment model for the language.
func Supported(code string) bool {
	iso := ToISO2(code)
	if iso == Auto {
		return true
	}
	for _, candidate := range whisperLanguages {
		if candidate == iso {
			return true
		}
	}
	return false
}
