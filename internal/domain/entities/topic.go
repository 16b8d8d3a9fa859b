package entities

// TopicState tracks the load lifecycle of a topic.
type TopicState int

const (
	TopicUnloaded TopicState = iota
	TopicLoading
	TopicLoaded
	TopicError
)

func (s TopicState) String() string {
	switch s {
	case TopicLoading:
		return "loading"
	case TopicLoaded:
		return "loaded"
	case TopicError:
		return "error"
	default:
		return "unloaded"
	}
}

// TopicMeta is a manifest entry.
type TopicMeta struct {
	ID         string              // stable key from the manifest
	SourceFile string              // file the word list is read from
	Names      map[Language]string // optional display names from the manifest
}

// TopicData is the content of a topic file.
type TopicData struct {
	Names map[Language]string `json:"names"`
	Words []*Word             `json:"words"`
}

// Topic is a named collection of words.
type Topic struct {
	ID         string
	SourceFile string
	Names      map[Language]string
	ImageURL   string // cover image, empty when images are disabled
	Words      []*Word
	State      TopicState
	Err        error // last load error, set when State is TopicError
}

// Loaded reports whether the word list is attached.
func (t *Topic) Loaded() bool {
	return t.State == TopicLoaded
}

// DisplayName returns the topic name in lang, falling back to English and then to the ID.
func (t *Topic) DisplayName(lang Language) string {
	if n := t.Names[lang]; n != "" {
		return n
	}
	if n := t.Names[LanguageEnglish]; n != "" {
		return n
	}
	return t.ID
}
