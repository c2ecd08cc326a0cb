package speech

import (
	"os/exec"
	"strings"
)

// Voice is one voice reported by the platform narrator command.
type Voice struct {
	Name      string
	ID        string
	Languages []string
}

// fallbackVoices maps a language code to a voice name the narrator command
// understands when no reported voice matches the language metadata.
var fallbackVoices = map[string]string{
	"en": "Samantha",
	"hi": "Lekha",
	"it": "Alice",
	"de": "Anna",
	"fr": "Thomas",
	"es": "Mónica",
}

// languageHints holds language-name substrings checked against voice
// metadata when the bare code does not appear in it.
var languageHints = map[string][]string{
	"en": {"english", "en_"},
	"hi": {"hindi", "hi_"},
	"it": {"italian", "it_"},
	"de": {"german", "de_"},
	"fr": {"french", "fr_"},
	"es": {"spanish", "es_"},
}

// SelectVoice picks a voice for the language: first a voice whose metadata
// (language tags, name, or identifier) contains the language code, then one
// matching a known language-name substring, else empty for the narrator's
// default voice.
func SelectVoice(voices []Voice, language string) string {
	language = strings.ToLower(language)
	if language == "" {
		return ""
	}

	for _, v := range voices {
		joined := strings.ToLower(strings.Join(append(append([]string{}, v.Languages...), v.Name, v.ID), " "))
		if strings.Contains(joined, language) || strings.Contains(joined, strings.ReplaceAll(language, "-", "_")) {
			return v.Name
		}
	}

	for _, v := range voices {
		name := strings.ToLower(v.Name)
		id := strings.ToLower(v.ID)
		for _, hint := range languageHints[language] {
			if strings.Contains(name, hint) || strings.Contains(id, hint) {
				return v.Name
			}
		}
	}

	return ""
}

// FallbackVoice returns the fixed per-language voice name, if any.
func FallbackVoice(language string) string {
	return fallbackVoices[strings.ToLower(language)]
}

// Narrator speaks through a platform narrator command such as macOS `say`.
type Narrator struct {
	command    string
	listVoices func() []Voice
	run        func(name string, args ...string) error
}

// NewNarrator creates a narrator engine around the given command.
func NewNarrator(command string) *Narrator {
	n := &Narrator{command: command}
	n.listVoices = n.platformVoices
	n.run = func(name string, args ...string) error {
		return exec.Command(name, args...).Run()
	}
	return n
}

func (n *Narrator) Name() string {
	return "narrator"
}

func (n *Narrator) Available() bool {
	_, err := exec.LookPath(n.command)
	return err == nil
}

// Speak voices the text, choosing a voice per the selection chain: reported
// voice metadata match, fixed per-language fallback name, then the command's
// default voice.
func (n *Narrator) Speak(text, language string) error {
	voice := SelectVoice(n.listVoices(), language)
	if voice == "" {
		voice = FallbackVoice(language)
	}

	args := []string{}
	if voice != "" {
		args = append(args, "-v", voice)
	}
	args = append(args, text)

	return n.run(n.command, args...)
}

// platformVoices asks the narrator command for its voice list (`say -v ?`).
// Each line looks like "Samantha            en_US    # Hello! ...".
func (n *Narrator) platformVoices() []Voice {
	out, err := exec.Command(n.command, "-v", "?").Output()
	if err != nil {
		return nil
	}
	return parseVoiceList(string(out))
}

// parseVoiceList extracts voices from the narrator's voice listing.
func parseVoiceList(listing string) []Voice {
	var voices []Voice
	for _, line := range strings.Split(listing, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// Drop the sample sentence after '#'.
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}

		// The locale is the last field; the voice name may contain spaces.
		locale := fields[len(fields)-1]
		name := strings.Join(fields[:len(fields)-1], " ")
		voices = append(voices, Voice{
			Name:      name,
			ID:        name,
			Languages: []string{locale},
		})
	}
	return voices
}
