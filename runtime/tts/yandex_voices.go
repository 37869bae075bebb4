package tts

import (
	"fmt"
	"slices"
)

// Emotion is a voice role accepted by SpeechKit.
type Emotion string

// Known emotions.
const (
	EmotionNeutral  Emotion = "neutral"
	EmotionGood     Emotion = "good"
	EmotionEvil     Emotion = "evil"
	EmotionFriendly Emotion = "friendly"
	EmotionStrict   Emotion = "strict"
	EmotionWhisper  Emotion = "whisper"
)

// Catalog names.
const (
	CatalogFull  = "full"
	CatalogBasic = "basic"
)

type voiceEntry struct {
	id       string
	gender   string
	emotions []Emotion
}

// VoiceCatalog is a fixed voice to emotions table. It is never mutated after
// construction; accessors return copies.
type VoiceCatalog struct {
	name    string
	entries []voiceEntry
	index   map[string]int
}

func newVoiceCatalog(name string, entries []voiceEntry) *VoiceCatalog {
	index := make(map[string]int, len(entries))
	for i, e := range entries {
		index[e.id] = i
	}
	return &VoiceCatalog{name: name, entries: entries, index: index}
}

var allVoices = []voiceEntry{
	{"alena", "female", []Emotion{EmotionNeutral, EmotionGood}},
	{"filipp", "male", []Emotion{EmotionNeutral}},
	{"ermil", "male", []Emotion{EmotionNeutral, EmotionGood}},
	{"jane", "female", []Emotion{EmotionNeutral, EmotionGood, EmotionEvil}},
	{"omazh", "female", []Emotion{EmotionNeutral, EmotionEvil}},
	{"zahar", "male", []Emotion{EmotionNeutral, EmotionGood}},
	{"dasha", "female", []Emotion{EmotionNeutral, EmotionGood, EmotionFriendly}},
	{"julia", "female", []Emotion{EmotionNeutral, EmotionStrict}},
	{"lera", "female", []Emotion{EmotionNeutral, EmotionFriendly}},
	{"masha", "female", []Emotion{EmotionGood, EmotionStrict, EmotionFriendly}},
	{"marina", "female", []Emotion{EmotionNeutral, EmotionWhisper, EmotionFriendly}},
	{"alexander", "male", []Emotion{EmotionNeutral, EmotionGood}},
	{"kirill", "male", []Emotion{EmotionNeutral, EmotionStrict, EmotionGood}},
	{"anton", "male", []Emotion{EmotionNeutral, EmotionGood}},
	{"madi_ru", "male", []Emotion{EmotionNeutral}},
	{"saule_ru", "female", []Emotion{EmotionNeutral, EmotionStrict, EmotionWhisper}},
	{"zamira_ru", "female", []Emotion{EmotionNeutral, EmotionStrict, EmotionFriendly}},
	{"zhanar_ru", "female", []Emotion{EmotionNeutral, EmotionStrict, EmotionFriendly}},
	{"yulduz_ru", "female", []Emotion{EmotionNeutral, EmotionStrict, EmotionFriendly, EmotionWhisper}},
}

func pickVoices(ids ...string) []voiceEntry {
	out := make([]voiceEntry, 0, len(ids))
	for _, id := range ids {
		for _, e := range allVoices {
			if e.id == id {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

var (
	// FullCatalog lists every voice SpeechKit v1 offers.
	FullCatalog = newVoiceCatalog(CatalogFull, allVoices)

	// BasicCatalog is the shorter eight-voice list.
	BasicCatalog = newVoiceCatalog(CatalogBasic,
		pickVoices("alena", "filipp", "ermil", "jane", "omazh", "zahar", "marina", "madi_ru"))
)

// CatalogByName returns FullCatalog for "full" or "", BasicCatalog for "basic".
func CatalogByName(name string) (*VoiceCatalog, error) {
	switch name {
	case "", CatalogFull:
		return FullCatalog, nil
	case CatalogBasic:
		return BasicCatalog, nil
	}
	return nil, fmt.Errorf("unknown voice catalog %q", name)
}

// Name returns "full" or "basic".
func (c *VoiceCatalog) Name() string {
	return c.name
}

// VoiceIDs returns the voice identifiers in catalog order.
func (c *VoiceCatalog) VoiceIDs() []string {
	ids := make([]string, len(c.entries))
	for i, e := range c.entries {
		ids[i] = e.id
	}
	return ids
}

// Supports reports whether voice is in the catalog.
func (c *VoiceCatalog) Supports(voice string) bool {
	_, ok := c.index[voice]
	return ok
}

// Emotions returns the emotions allowed for voice.
func (c *VoiceCatalog) Emotions(voice string) ([]Emotion, bool) {
	i, ok := c.index[voice]
	if !ok {
		return nil, false
	}
	return slices.Clone(c.entries[i].emotions), true
}

// AllowsEmotion reports whether voice can speak with emotion.
func (c *VoiceCatalog) AllowsEmotion(voice string, emotion Emotion) bool {
	i, ok := c.index[voice]
	if !ok {
		return false
	}
	return slices.Contains(c.entries[i].emotions, emotion)
}

// knownEmotion reports whether any voice in the catalog has emotion.
func (c *VoiceCatalog) knownEmotion(emotion Emotion) bool {
	for _, e := range c.entries {
		if slices.Contains(e.emotions, emotion) {
			return true
		}
	}
	return false
}

// Validate checks a voice/emotion pair. An empty voice leaves the choice to the
// provider, in which case emotion only has to exist somewhere in the catalog.
func (c *VoiceCatalog) Validate(voice, emotion string) error {
	if voice != "" && !c.Supports(voice) {
		return fmt.Errorf("%w: %q not in %s catalog", ErrInvalidVoice, voice, c.name)
	}
	if emotion == "" {
		return nil
	}
	if voice == "" {
		if !c.knownEmotion(Emotion(emotion)) {
			return fmt.Errorf("%w: %q", ErrInvalidEmotion, emotion)
		}
		return nil
	}
	if !c.AllowsEmotion(voice, Emotion(emotion)) {
		return fmt.Errorf("%w: %q cannot speak %q", ErrInvalidEmotion, voice, emotion)
	}
	return nil
}

// Voices returns the catalog as Voice descriptors.
func (c *VoiceCatalog) Voices() []Voice {
	voices := make([]Voice, len(c.entries))
	for i, e := range c.entries {
		voices[i] = Voice{
			ID:       e.id,
			Name:     e.id,
			Language: "ru-RU",
			Gender:   e.gender,
			Emotions: slices.Clone(e.emotions),
		}
	}
	return voices
}
