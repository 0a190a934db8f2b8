package voice

import "fmt"

// Gender of a voice.
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderNeutral Gender = "neutral"
)

// Valid reports whether g is a known gender.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderNeutral:
		return true
	}
	return false
}

// ParseGender converts a string into a Gender.
func ParseGender(s string) (Gender, error) {
	switch Gender(s) {
	case GenderMale:
		return GenderMale, nil
	case GenderFemale:
		return GenderFemale, nil
	case GenderNeutral:
		return GenderNeutral, nil
	}
	return "", fmt.Errorf("%w: unknown gender %q", ErrInvalid, s)
}

// Accent identifies the locale a voice speaks in. The value doubles as
// the language code handed to the synthesis backend.
type Accent string

const (
	AccentAmerican   Accent = "en"
	AccentBritish    Accent = "en-gb"
	AccentAustralian Accent = "en-au"
	AccentSpanish    Accent = "es"
	AccentFrench     Accent = "fr"
	AccentGerman     Accent = "de"
	AccentItalian    Accent = "it"
	AccentPortuguese Accent = "pt"
	AccentPolish     Accent = "pl"
	AccentTurkish    Accent = "tr"
	AccentRussian    Accent = "ru"
	AccentDutch      Accent = "nl"
	AccentCzech      Accent = "cs"
	AccentArabic     Accent = "ar"
	AccentChinese    Accent = "zh-cn"
	AccentJapanese   Accent = "ja"
	AccentKorean     Accent = "ko"
)

// Valid reports whether a is a known accent.
func (a Accent) Valid() bool {
	switch a {
	case AccentAmerican, AccentBritish, AccentAustralian, AccentSpanish,
		AccentFrench, AccentGerman, AccentItalian, AccentPortuguese,
		AccentPolish, AccentTurkish, AccentRussian, AccentDutch,
		AccentCzech, AccentArabic, AccentChinese, AccentJapanese,
		AccentKorean:
		return true
	}
	return false
}

// Language returns the language code passed to a synthesis backend.
// English regional accents share one synthesis language.
func (a Accent) Language() string {
	switch a {
	case AccentBritish, AccentAustralian:
		return string(AccentAmerican)
	}
	return string(a)
}

// ParseAccent converts a locale code into an Accent.
func ParseAccent(s string) (Accent, error) {
	a := Accent(s)
	if !a.Valid() {
		return "", fmt.Errorf("%w: unknown accent %q", ErrInvalid, s)
	}
	return a, nil
}

// Accents returns every known accent, in declaration order.
func Accents() []Accent {
	return []Accent{
		AccentAmerican, AccentBritish, AccentAustralian, AccentSpanish,
		AccentFrench, AccentGerman, AccentItalian, AccentPortuguese,
		AccentPolish, AccentTurkish, AccentRussian, AccentDutch,
		AccentCzech, AccentArabic, AccentChinese, AccentJapanese,
		AccentKorean,
	}
}

// Emotion is the affect label of a voice.
type Emotion string

const (
	EmotionNeutral      Emotion = "neutral"
	EmotionHappy        Emotion = "happy"
	EmotionSad          Emotion = "sad"
	EmotionAngry        Emotion = "angry"
	EmotionExcited      Emotion = "excited"
	EmotionCalm         Emotion = "calm"
	EmotionConfident    Emotion = "confident"
	EmotionProfessional Emotion = "professional"
	EmotionFriendly     Emotion = "friendly"
	EmotionEnthusiastic Emotion = "enthusiastic"
)

// Valid reports whether e is a known emotion.
func (e Emotion) Valid() bool {
	switch e {
	case EmotionNeutral, EmotionHappy, EmotionSad, EmotionAngry,
		EmotionExcited, EmotionCalm, EmotionConfident,
		EmotionProfessional, EmotionFriendly, EmotionEnthusiastic:
		return true
	}
	return false
}

// ParseEmotion converts a string into an Emotion. The empty string parses
// to EmotionNeutral, the default affect.
func ParseEmotion(s string) (Emotion, error) {
	if s == "" {
		return EmotionNeutral, nil
	}
	e := Emotion(s)
	if !e.Valid() {
		return "", fmt.Errorf("%w: unknown emotion %q", ErrInvalid, s)
	}
	return e, nil
}
