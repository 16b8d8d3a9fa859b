// Package media builds asset URLs for words and topics.
package media

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/myfrench/myfrench-bot/internal/domain/entities"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	disallowedRe = regexp.MustCompile(`[^a-z0-9_-]`)

	// combiningMarks covers U+0300..U+036F, the block NFD splits Latin accents into.
	combiningMarks = &unicode.RangeTable{
		R16: []unicode.Range16{{Lo: 0x0300, Hi: 0x036f, Stride: 1}},
	}
)

// SanitizeFilename turns a word into the file name its assets are stored under.
func SanitizeFilename(s string) string {
	s = strings.ToLower(s)

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(combiningMarks)))
	if out, _, err := transform.String(t, s); err == nil {
		s = out
	}

	s = strings.ReplaceAll(s, "'", "_")
	s = whitespaceRe.ReplaceAllString(s, "_")
	return disallowedRe.ReplaceAllString(s, "")
}

// Resolver maps words and topics to asset URLs under a base path.
type Resolver struct {
	basePath  string
	audioLang string
	images    bool
}

// NewResolver creates a resolver. audioLang selects the audio folder, e.g. "fr".
func NewResolver(basePath, audioLang string, images bool) *Resolver {
	return &Resolver{
		basePath:  strings.TrimRight(basePath, "/"),
		audioLang: audioLang,
		images:    images,
	}
}

// Resolve returns the asset URLs for a word.
func (r *Resolver) Resolve(w *entities.Word) entities.Media {
	name := SanitizeFilename(w.SourceText)

	m := entities.Media{
		AudioURL: r.basePath + "/media/audio/" + r.audioLang + "/" + name + ".mp3",
	}
	if r.images {
		m.ImageURL = r.basePath + "/media/images/words/" + name + ".jpg"
	}
	return m
}

// TopicImageURL returns the cover image of a topic, or "" when images are disabled.
func (r *Resolver) TopicImageURL(topicID string) string {
	if !r.images {
		return ""
	}
	return r.basePath + "/images/topics/" + SanitizeFilename(topicID) + ".jpg"
}
