package surface

import "github.com/GriffinCanCode/AgentOS/desktop/internal/domain/window"

// ContentHolder is a surface that embeds rendered app content
type ContentHolder interface {
	SetContent(content string)
	Content() string
}

// WriteContent replaces the content of s if it can hold any
func WriteContent(s window.Surface, content string) bool {
	holder, ok := s.(ContentHolder)
	if ok {
		holder.SetContent(content)
	}
	return ok
}

// ReadContent returns the content of s, or "" if it holds none
func ReadContent(s window.Surface) string {
	if holder, ok := s.(ContentHolder); ok {
		return holder.Content()
	}
	return ""
}
