package segment

// Category is the annotation kind attached to a segment by the remote database.
type Category string

const (
	Sponsor       Category = "sponsor"
	SelfPromo     Category = "selfpromo"
	Interaction   Category = "interaction"
	Intro         Category = "intro"
	Outro         Category = "outro"
	Preview       Category = "preview"
	MusicOfftopic Category = "music_offtopic"
)

// AllCategories returns every category requested from the database, in request order.
func AllCategories() []Category {
	return []Category{Sponsor, SelfPromo, Interaction, Intro, Outro, Preview, MusicOfftopic}
}

var titles = map[Category]string{
	Sponsor:       "sponsor",
	SelfPromo:     "self-promotion",
	Interaction:   "interaction reminder",
	Intro:         "intro",
	Outro:         "outro",
	Preview:       "preview",
	MusicOfftopic: "non-music",
}

// Title returns a human-readable name. Unknown categories render as-is.
func (c Category) Title() string {
	if t, ok := titles[c]; ok {
		return t
	}
	return string(c)
}

// Known reports whether c is one of the predefined categories.
func (c Category) Known() bool {
	_, ok := titles[c]
	return ok
}
