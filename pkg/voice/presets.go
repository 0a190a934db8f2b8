package voice

import "fmt"

// Preset voice factories. Each returns a fully-populated, non-cloned
// Config with curated prosody values for that persona. The values are
// catalog constants; adding a preset means adding a new factory and a new
// case in ParsePreset.

// ProfessionalMale is a measured, slightly deepened American male voice.
func ProfessionalMale() Config {
	return Config{
		Name:       "Professional Male",
		Gender:     GenderMale,
		Accent:     AccentAmerican,
		Emotion:    EmotionProfessional,
		PitchShift: -2.0,
		Speed:      0.95,
		Energy:     0.9,
	}
}

// ProfessionalFemale is a steady American female voice.
func ProfessionalFemale() Config {
	return Config{
		Name:       "Professional Female",
		Gender:     GenderFemale,
		Accent:     AccentAmerican,
		Emotion:    EmotionProfessional,
		PitchShift: 1.0,
		Speed:      1.0,
		Energy:     0.9,
	}
}

// FriendlyReceptionist is a bright, slightly quickened female voice.
func FriendlyReceptionist() Config {
	return Config{
		Name:       "Friendly Receptionist",
		Gender:     GenderFemale,
		Accent:     AccentAmerican,
		Emotion:    EmotionFriendly,
		PitchShift: 2.0,
		Speed:      1.05,
		Energy:     1.1,
	}
}

// LuxuryConcierge is a low, unhurried British male voice.
func LuxuryConcierge() Config {
	return Config{
		Name:       "Luxury Concierge",
		Gender:     GenderMale,
		Accent:     AccentBritish,
		Emotion:    EmotionCalm,
		PitchShift: -3.0,
		Speed:      0.9,
		Energy:     0.8,
	}
}

// EnthusiasticSales is an energetic, raised female voice.
func EnthusiasticSales() Config {
	return Config{
		Name:       "Enthusiastic Sales",
		Gender:     GenderFemale,
		Accent:     AccentAmerican,
		Emotion:    EmotionEnthusiastic,
		PitchShift: 3.0,
		Speed:      1.1,
		Energy:     1.2,
	}
}

// Preset identifiers accepted by ParsePreset.
const (
	PresetProfessionalMale     = "professional_male"
	PresetProfessionalFemale   = "professional_female"
	PresetFriendlyReceptionist = "friendly_receptionist"
	PresetLuxuryConcierge      = "luxury_concierge"
	PresetEnthusiasticSales    = "enthusiastic_sales"
)

// ParsePreset resolves a preset identifier to its Config.
func ParsePreset(name string) (Config, error) {
	switch name {
	case PresetProfessionalMale:
		return ProfessionalMale(), nil
	case PresetProfessionalFemale:
		return ProfessionalFemale(), nil
	case PresetFriendlyReceptionist:
		return FriendlyReceptionist(), nil
	case PresetLuxuryConcierge:
		return LuxuryConcierge(), nil
	case PresetEnthusiasticSales:
		return EnthusiasticSales(), nil
	}
	return Config{}, fmt.Errorf("%w: unknown preset %q", ErrInvalid, name)
}

// PresetNames returns the identifiers of all built-in presets.
func PresetNames() []string {
	return []string{
		PresetProfessionalMale,
		PresetProfessionalFemale,
		PresetFriendlyReceptionist,
		PresetLuxuryConcierge,
		PresetEnthusiasticSales,
	}
}
