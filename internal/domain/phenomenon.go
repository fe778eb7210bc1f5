package domain

import "strings"

// Display labels for classified weather phenomena. These feed map icon
// selection and popup text in the consuming views.
const (
	PhenomenonWind  = "Vientos fuertes"
	PhenomenonHail  = "Granizo"
	PhenomenonStorm = "Tormentas eléctricas"
	PhenomenonNone  = "Sin obs. de fenómenos"
)

// phenomenonSynonyms maps raw survey codes to display labels. Matching is by
// substring over the lowercased, trimmed input, checked in order.
var phenomenonSynonyms = []struct {
	substr string
	label  string
}{
	{"viento", PhenomenonWind},
	{"granizo", PhenomenonHail},
	{"tormenta", PhenomenonStorm},
	{"sinfeno", PhenomenonNone},
}

// ClassifyPhenomenon maps raw phenomenon text to a fixed display label.
// Absent or textual-null input ("none", "nan", "null") means the observer
// reported no phenomenon. Unrecognized text passes through lowercased and
// trimmed so novel survey codes remain visible rather than disappearing.
func ClassifyPhenomenon(v any) string {
	s := strings.ToLower(strings.TrimSpace(stringify(v)))
	switch s {
	case "", "none", "nan", "null":
		return PhenomenonNone
	}
	for _, syn := range phenomenonSynonyms {
		if strings.Contains(s, syn.substr) {
			return syn.label
		}
	}
	return s
}
