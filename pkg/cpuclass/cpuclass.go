// Package cpuclass maps a raw CPU brand string, as reported by the operating
// system, to microarchitecture facts: codename, lithography, socket and the
// marketing generation label.
//
// Classification only looks at the lower-cased brand string. It holds no
// state and never fails: input matching no rule degrades to "unknown" values.
package cpuclass

import (
	"regexp"
	"strconv"
	"strings"
)

const unknown = "Unknown"

// Descriptor is the result of classifying one brand string.
type Descriptor struct {
	Codename    string `json:"codename"`
	Lithography string `json:"lithography"`
	Socket      string `json:"socket"`
	Generation  string `json:"generation"`
}

type prefixRule struct {
	prefix      string
	codename    string
	lithography string
	socket      string
}

// Two-digit prefixes come first so "12700" never matches a single digit.
var intelCoreRules = []prefixRule{
	{"10", "Comet Lake", "14 nm", "LGA1200"},
	{"11", "Rocket Lake", "14 nm", "LGA1200"},
	{"12", "Alder Lake", "Intel 7 (10nm)", "LGA1700"},
	{"13", "Raptor Lake", "Intel 7 (10nm)", "LGA1700"},
	{"14", "Raptor Lake Refresh", "Intel 7", "LGA1700"},
	{"2", "Sandy Bridge", "32 nm", "LGA1155"},
	{"3", "Sandy Bridge", "32 nm", "LGA1155"},
	{"4", "Haswell", "22 nm", "LGA1150"},
	{"5", "Broadwell", "14 nm", "LGA1150"},
	{"6", "Skylake", "14 nm", "LGA1151"},
	{"7", "Kaby Lake", "14 nm", "LGA1151"},
	{"8", "Coffee Lake", "14 nm", "LGA1151"},
	{"9", "Coffee Lake Refresh", "14 nm", "LGA1151"},
}

var ryzenRules = []prefixRule{
	{"1", "Zen (Ryzen 1000)", "14 nm", "AM4"},
	{"2", "Zen+ (Ryzen 2000)", "12 nm", "AM4"},
	{"3", "Zen 2 (Ryzen 3000)", "7 nm", "AM4"},
	{"4", "Zen 2 APU (Ryzen 4000)", "7 nm", "AM4"},
	{"5", "Zen 3 (Ryzen 5000)", "7 nm", "AM4"},
	{"6", "Zen 3+ (Ryzen 6000)", "6 nm", "AM5"},
	{"7", "Zen 4 (Ryzen 7000)", "5 nm", "AM5"},
	{"8", "Zen 4/5 (Ryzen 8000)", "4-5 nm", "AM5"},
}

var (
	regexIntelGeneration = regexp.MustCompile(`i[3579]-?(\d{4,5})`)
	regexRyzenGeneration = regexp.MustCompile(`ryzen\s+\d\s+(\d{4})`)
)

// Classifier classifies brand strings using a fixed set of unknown markers.
// The zero value uses the English markers.
type Classifier struct {
	markers Markers
}

// New returns a Classifier reporting unmatched input with m. Empty marker
// fields are filled from the English preset.
func New(m Markers) *Classifier {
	return &Classifier{markers: m.withDefaults()}
}

var defaultClassifier = New(English)

// Classify classifies brand with the English markers.
func Classify(brand string) Descriptor {
	return defaultClassifier.Classify(brand)
}

// Generation returns the marketing generation label of brand with the
// English markers.
func Generation(brand string) string {
	return defaultClassifier.Generation(brand)
}

// Markers returns the unknown markers used by c.
func (c *Classifier) Markers() Markers {
	return c.markersOrDefault()
}

func (c *Classifier) markersOrDefault() Markers {
	if c == nil {
		return English
	}
	return c.markers.withDefaults()
}

// Classify returns the full descriptor for brand, generation included.
func (c *Classifier) Classify(brand string) Descriptor {
	d := c.detect(strings.ToLower(brand))
	d.Generation = c.Generation(brand)
	return d
}

func (c *Classifier) detect(name string) Descriptor {
	switch {
	case strings.Contains(name, "intel"):
		return c.detectIntel(name)
	case strings.Contains(name, "amd"):
		return detectAMD(name)
	default:
		return descriptor("Unknown CPU", unknown, unknown)
	}
}

func (c *Classifier) detectIntel(name string) Descriptor {
	if strings.Contains(name, " i") {
		_, model, ok := strings.Cut(name, "-")
		if !ok {
			m := c.markersOrDefault()
			return descriptor(m.Unknown, m.Unknown, m.Unknown)
		}

		if d, ok := matchPrefix(intelCoreRules, model); ok {
			return d
		}
	}

	switch {
	case strings.Contains(name, "xeon"):
		return descriptor("Xeon Series", "Varies", "Server Socket")
	case strings.Contains(name, "pentium"), strings.Contains(name, "celeron"):
		return descriptor("Pentium/Celeron", "14 nm", "LGA1151")
	default:
		return descriptor("Intel CPU", unknown, unknown)
	}
}

func detectAMD(name string) Descriptor {
	if strings.Contains(name, "ryzen") {
		tokens := strings.Fields(name)
		if len(tokens) == 0 {
			return descriptor("Ryzen", unknown, "AM4")
		}

		if d, ok := matchPrefix(ryzenRules, tokens[len(tokens)-1]); ok {
			return d
		}
	}

	switch {
	case strings.Contains(name, "threadripper"):
		return descriptor("Threadripper", "Varies", "sTRX4 / TR4")
	case strings.Contains(name, "epyc"):
		return descriptor("EPYC", "Varies", "SP3/SP5")
	case strings.Contains(name, "fx"):
		return descriptor("Bulldozer / Piledriver", "32 nm", "AM3+")
	default:
		return descriptor("AMD CPU", unknown, unknown)
	}
}

// Generation returns the marketing generation label of brand, such as
// "12th Gen" or "Ryzen 5000 Series".
func (c *Classifier) Generation(brand string) string {
	name := strings.ToLower(brand)
	m := c.markersOrDefault()

	if strings.Contains(name, "intel") {
		if match := regexIntelGeneration.FindStringSubmatch(name); match != nil {
			number := match[1]
			digits := number[:1]
			if len(number) == 5 {
				digits = number[:2]
			}
			gen, _ := strconv.Atoi(digits)
			return strconv.Itoa(gen) + "th Gen"
		}

		if strings.Contains(name, "ultra") {
			return "Intel Core Ultra (Meteor Lake)"
		}

		return m.UnknownIntel
	}

	if strings.Contains(name, "ryzen") {
		if match := regexRyzenGeneration.FindStringSubmatch(name); match != nil {
			return "Ryzen " + match[1][:1] + "000 Series"
		}
		return m.UnknownRyzen
	}

	return m.Unknown
}

func matchPrefix(rules []prefixRule, model string) (Descriptor, bool) {
	for _, r := range rules {
		if strings.HasPrefix(model, r.prefix) {
			return descriptor(r.codename, r.lithography, r.socket), true
		}
	}
	return Descriptor{}, false
}

func descriptor(codename, lithography, socket string) Descriptor {
	return Descriptor{
		Codename:    codename,
		Lithography: lithography,
		Socket:      socket,
	}
}

// Label joins the generation and codename the way they are displayed
// together, e.g. "12th Gen (Alder Lake)".
func (d Descriptor) Label() string {
	return d.Generation + " (" + d.Codename + ")"
}
