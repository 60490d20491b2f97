// Package characters holds the read-only persona registry. Personas are
// authored in Spanish; English localizations are provided per field and fall
// back to Spanish when absent.
package characters

import "strings"

// DefaultLanguage is used when a requested localization is missing.
const DefaultLanguage = "es"

// Voice carries the synthesis parameters for a persona.
type Voice struct {
	ElevenLabsVoiceID string  `json:"elevenLabsVoiceId"`
	Stability         float64 `json:"stability"`
	SimilarityBoost   float64 `json:"similarityBoost"`
	Style             float64 `json:"style"`
	Description       string  `json:"description"`
}

// Character is a persona localized to one language.
type Character struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Summary     string `json:"summary"`
	Tone        string `json:"tone"`
	Catchphrase string `json:"catchphrase"`
	Voice       Voice  `json:"voice"`
}

type text struct {
	es string
	en string
}

func (t text) in(language string) string {
	if language == "en" && t.en != "" {
		return t.en
	}
	return t.es
}

type record struct {
	id          string
	name        text
	summary     text
	tone        text
	catchphrase text
	voice       Voice
	voiceDesc   text
}

func (r *record) localize(language string) Character {
	voice := r.voice
	voice.Description = r.voiceDesc.in(language)
	return Character{
		ID:          r.id,
		Name:        r.name.in(language),
		Summary:     r.summary.in(language),
		Tone:        r.tone.in(language),
		Catchphrase: r.catchphrase.in(language),
		Voice:       voice,
	}
}

// Directory is the persona lookup service.
type Directory struct {
	order   []string
	records map[string]*record
}

// NewDirectory returns the directory backed by the built-in persona set.
func NewDirectory() *Directory {
	d := &Directory{records: make(map[string]*record, len(roster))}
	for i := range roster {
		r := &roster[i]
		d.order = append(d.order, r.id)
		d.records[r.id] = r
	}
	return d
}

// List returns every persona localized to language, in registry order.
func (d *Directory) List(language string) []Character {
	out := make([]Character, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.records[id].localize(language))
	}
	return out
}

// Get fetches one persona by id.
func (d *Directory) Get(id, language string) (Character, bool) {
	r, ok := d.records[id]
	if !ok {
		return Character{}, false
	}
	return r.localize(language), true
}

// Search returns personas whose name or summary contains name,
// case-insensitive. An empty name returns everyone.
func (d *Directory) Search(name, language string) []Character {
	all := d.List(language)
	if name == "" {
		return all
	}
	needle := strings.ToLower(name)
	var out []Character
	for _, c := range all {
		if strings.Contains(strings.ToLower(c.Name), needle) ||
			strings.Contains(strings.ToLower(c.Summary), needle) {
			out = append(out, c)
		}
	}
	return out
}
