package voice

import (
	"runtime"
	"sort"
)

// DefaultKey is the profile every unknown lookup falls back to.
const DefaultKey = "default"

// Profile describes how a piece of text should be voiced. Speed and Pitch
// are multipliers around 1.0 and combine with the global voice speed; Voice
// is an engine-specific identifier and may be empty for the engine default.
type Profile struct {
	Name     string  `json:"name"`
	Engine   string  `json:"engine"`
	Voice    string  `json:"voice,omitempty"`
	Language string  `json:"language"`
	Speed    float64 `json:"speed"`
	Pitch    float64 `json:"pitch"`
}

// Registry holds the built-in voice profiles and the speaker-to-profile
// mapping used for conversational scripts. It is immutable after creation.
type Registry struct {
	profiles map[string]Profile
	speakers map[string]string
}

// NewRegistry builds the registry with the built-in profile set.
func NewRegistry() *Registry {
	return &Registry{
		profiles: builtinProfiles(),
		speakers: map[string]string{
			"alex":     "alex_female",
			"sam":      "sam_male",
			"narrator": "default",
			// Shared segments such as laughter use the narrator register.
			"both": "narrator",
		},
	}
}

// Lookup resolves a profile key, falling back to the default profile for
// unknown keys.
func (r *Registry) Lookup(key string) Profile {
	if p, ok := r.profiles[key]; ok {
		return p
	}
	return r.profiles[DefaultKey]
}

// ForSpeaker resolves the profile for a conversation speaker name.
func (r *Registry) ForSpeaker(speaker string) Profile {
	key, ok := r.speakers[speaker]
	if !ok {
		key = DefaultKey
	}
	return r.Lookup(key)
}

// Names lists the registered profile keys in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns a copy of the profile table.
func (r *Registry) All() map[string]Profile {
	out := make(map[string]Profile, len(r.profiles))
	for k, v := range r.profiles {
		out[k] = v
	}
	return out
}

func builtinProfiles() map[string]Profile {
	darwin := runtime.GOOS == "darwin"

	hostEngine := "flite"
	alexVoice := "slt"
	samVoice := "awb"
	if darwin {
		hostEngine = "say"
		alexVoice = "Samantha"
		samVoice = "Alex"
	}

	return map[string]Profile{
		"default": {
			Name:     "Default",
			Engine:   "flite",
			Voice:    "kal16",
			Language: "en",
			Speed:    1.0,
			Pitch:    1.0,
		},
		"narrator_male": {
			Name:     "Professional Male Narrator",
			Engine:   "flite",
			Voice:    "rms",
			Language: "en",
			Speed:    0.9,
			Pitch:    0.8,
		},
		"narrator_female": {
			Name:     "Professional Female Narrator",
			Engine:   "flite",
			Voice:    "slt",
			Language: "en",
			Speed:    0.85,
			Pitch:    1.1,
		},
		"edge_default": {
			Name:     "Edge Cloud Default",
			Engine:   "edge",
			Voice:    "en-US-AriaNeural",
			Language: "en",
			Speed:    0.8,
			Pitch:    1.0,
		},
		"edge_british": {
			Name:     "Edge Cloud British",
			Engine:   "edge",
			Voice:    "en-GB-SoniaNeural",
			Language: "en-GB",
			Speed:    0.8,
			Pitch:    1.0,
		},
		"macos_alex": {
			Name:     "macOS Alex",
			Engine:   "say",
			Voice:    "Alex",
			Language: "en",
			Speed:    0.85,
			Pitch:    1.0,
		},
		"piper_female": {
			Name:     "Piper Female - High Quality Offline",
			Engine:   "piper",
			Voice:    "en_US-amy-medium",
			Language: "en-US",
			Speed:    0.8,
			Pitch:    1.0,
		},
		"piper_male": {
			Name:     "Piper Male - High Quality Offline",
			Engine:   "piper",
			Voice:    "en_US-ryan-medium",
			Language: "en-US",
			Speed:    0.75,
			Pitch:    1.0,
		},
		"alex_female": {
			Name:     "Alex - Curious Female Host",
			Engine:   hostEngine,
			Voice:    alexVoice,
			Language: "en-US",
			Speed:    0.8,
			Pitch:    1.0,
		},
		"sam_male": {
			Name:     "Sam - Knowledgeable Male Expert",
			Engine:   hostEngine,
			Voice:    samVoice,
			Language: "en-US",
			Speed:    0.75,
			Pitch:    1.0,
		},
		"espeak_female": {
			Name:     "eSpeak Female - Lightweight Offline",
			Engine:   "espeak",
			Voice:    "en+f3",
			Language: "en",
			Speed:    0.85,
			Pitch:    1.1,
		},
		"espeak_male": {
			Name:     "eSpeak Male - Lightweight Offline",
			Engine:   "espeak",
			Voice:    "en+m3",
			Language: "en",
			Speed:    0.8,
			Pitch:    0.9,
		},
	}
}
