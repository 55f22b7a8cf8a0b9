package topics

// Renderer turns a topic file into what `help <topic>` prints. ext is the
// file's extension (".md", ".txt"), so one renderer can format markdown
// topics and pass plain-text ones through.
type Renderer interface {
	Render(content string, ext string) string
}

// PlainRenderer prints topics as they are stored
type PlainRenderer struct{}

func (r *PlainRenderer) Render(content string, ext string) string {
	return content
}
