package timeline

// Scene is one narrated still image. A scene is renderable only when both
// its image and its narration clip are present; anything else is dropped
// during Assemble and never reaches the scheduler.
type Scene struct {
	ID            int    `yaml:"id"`
	NarrationText string `yaml:"narration"`
	ImageSource   string `yaml:"image"`
	AudioSource   string `yaml:"audio"`
}

// Renderable reports whether the scene carries everything needed to play it.
func (s Scene) Renderable() bool {
	return s.ImageSource != "" && s.AudioSource != ""
}

// Intro is the optional titled opening segment. It plays only when both the
// image and the narration clip are present; there is no degraded variant.
type Intro struct {
	ImageSource string `yaml:"image"`
	Title       string `yaml:"title"`
	AudioSource string `yaml:"audio"`
}

// Playable reports whether the intro will be rendered at all.
func (i Intro) Playable() bool {
	return i.ImageSource != "" && i.AudioSource != ""
}

// Outro is the optional closing segment. Its image falls back to the last
// scene's image, then to the intro's; the narration clip is mandatory.
type Outro struct {
	ImageSource string `yaml:"image"`
	Message     string `yaml:"message"`
	AudioSource string `yaml:"audio"`
	// Link, when set, is rendered as a QR code over the closing frame.
	Link string `yaml:"link"`
}

// RenderRequest is the input contract consumed from the orchestration layer.
type RenderRequest struct {
	Scenes []Scene `yaml:"scenes"`
	Intro  *Intro  `yaml:"intro,omitempty"`
	Outro  *Outro  `yaml:"outro,omitempty"`

	// OnProgress, when set, receives the scene-completion fraction in [0,1].
	OnProgress func(fraction float64) `yaml:"-"`
}

// Timeline is the assembled unit of work: Intro?, Scene*, Outro?, consumed
// top to bottom exactly once.
type Timeline struct {
	Intro  *Intro
	Scenes []Scene
	Outro  *Outro
}

// EmptyError is returned when a request contains nothing renderable.
type EmptyError struct{}

func (EmptyError) Error() string {
	return "timeline: no playable intro, no renderable scenes, no outro"
}

// Assemble filters the request down to its playable parts and resolves the
// outro image fallback chain. It opens no resources, so failing here leaks
// nothing.
func Assemble(req RenderRequest) (*Timeline, error) {
	tl := &Timeline{}

	if req.Intro != nil && req.Intro.Playable() {
		intro := *req.Intro
		tl.Intro = &intro
	}

	for _, s := range req.Scenes {
		if s.Renderable() {
			tl.Scenes = append(tl.Scenes, s)
		}
	}

	if req.Outro != nil && req.Outro.AudioSource != "" {
		outro := *req.Outro
		if outro.ImageSource == "" {
			if n := len(tl.Scenes); n > 0 {
				outro.ImageSource = tl.Scenes[n-1].ImageSource
			} else if tl.Intro != nil {
				outro.ImageSource = tl.Intro.ImageSource
			}
		}
		if outro.ImageSource != "" {
			tl.Outro = &outro
		}
	}

	if tl.Intro == nil && len(tl.Scenes) == 0 && tl.Outro == nil {
		return nil, EmptyError{}
	}
	return tl, nil
}

// SegmentCount is the number of playable units in the timeline.
func (t *Timeline) SegmentCount() int {
	n := len(t.Scenes)
	if t.Intro != nil {
		n++
	}
	if t.Outro != nil {
		n++
	}
	return n
}
