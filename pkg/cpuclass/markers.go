package cpuclass

import "strings"

// Markers are the values reported when a brand string matches no rule.
type Markers struct {
	Unknown      string `json:"unknown"`
	UnknownIntel string `json:"unknown_intel"`
	UnknownRyzen string `json:"unknown_ryzen"`
}

var (
	English = Markers{
		Unknown:      "Unknown",
		UnknownIntel: "Unknown Intel processor",
		UnknownRyzen: "Unknown Ryzen processor",
	}

	Portuguese = Markers{
		Unknown:      "Desconhecido",
		UnknownIntel: "Processador Intel desconhecido",
		UnknownRyzen: "Processador Ryzen desconhecido",
	}

	presets = map[string]Markers{
		"en": English,
		"pt": Portuguese,
	}
)

// MarkersFor returns the preset for a language code such as "pt" or
// "pt-BR". Unsupported languages get the English preset.
func MarkersFor(lang string) Markers {
	if m, ok := presets[LanguageCode(lang)]; ok {
		return m
	}
	return English
}

func (m Markers) withDefaults() Markers {
	if m.Unknown == "" {
		m.Unknown = English.Unknown
	}
	if m.UnknownIntel == "" {
		m.UnknownIntel = English.UnknownIntel
	}
	if m.UnknownRyzen == "" {
		m.UnknownRyzen = English.UnknownRyzen
	}
	return m
}

// LanguageCode reduces a locale such as "pt-BR" or "PT_br" to its lower-case
// language code.
func LanguageCode(lang string) string {
	code, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(lang)), "-")
	code, _, _ = strings.Cut(code, "_")
	return code
}
