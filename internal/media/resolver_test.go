package media

import (
	"testing"

	"github.com/myfrench/myfrench-bot/internal/domain/entities"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"chat", "chat"},
		{"Le Chat", "le_chat"},
		{"été", "ete"},
		{"l'école", "l_ecole"},
		{"s'il vous plaît", "s_il_vous_plait"},
		{"  deux   mots ", "_deux_mots_"},
		{"garçon!", "garcon"},
		{"grand-père", "grand-pere"},
		{"Œuf?", "uf"},
		{"24 heures", "24_heures"},
	}

	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolverResolve(t *testing.T) {
	r := NewResolver("https://example.org/myfrench/", "fr", false)

	m := r.Resolve(&entities.Word{SourceText: "la pomme"})
	if m.AudioURL != "https://example.org/myfrench/media/audio/fr/la_pomme.mp3" {
		t.Fatalf("unexpected audio url: %s", m.AudioURL)
	}
	if m.ImageURL != "" {
		t.Fatalf("expected no image url, got %s", m.ImageURL)
	}

	r = NewResolver("/myfrench", "fr", true)
	m = r.Resolve(&entities.Word{SourceText: "Fenêtre"})
	if m.ImageURL != "/myfrench/media/images/words/fenetre.jpg" {
		t.Fatalf("unexpected image url: %s", m.ImageURL)
	}
}

func TestResolverTopicImages(t *testing.T) {
	r := NewResolver("/myfrench", "fr", false)
	if got := r.TopicImageURL("wild-animals"); got != "" {
		t.Fatalf("expected no topic image, got %s", got)
	}

	r = NewResolver("/myfrench/", "fr", true)
	if got := r.TopicImageURL("wild-animals"); got != "/myfrench/images/topics/wild-animals.jpg" {
		t.Fatalf("unexpected topic image: %s", got)
	}
}
