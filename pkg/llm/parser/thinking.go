// Package parser separates model reasoning from the text the model meant to return.
package parser

import "strings"

// reasoningTags are the block tags reasoning models wrap their scratch work in.
var reasoningTags = map[string]bool{
	"think":    true,
	"thinking": true,
}

// ThinkingParser splits generated text into reasoning and message content.
// It scans rune by rune and buffers potential tags, so a '<' that does not
// start a reasoning tag is kept as ordinary text.
type ThinkingParser struct {
	message    strings.Builder
	reasoning  strings.Builder
	tagBuffer  strings.Builder
	inThinking bool
	inTag      bool
}

// NewThinkingParser creates a new thinking parser.
func NewThinkingParser() *ThinkingParser {
	return &ThinkingParser{}
}

// Feed processes a piece of generated text. It may be called repeatedly with
// consecutive fragments of the same output.
func (p *ThinkingParser) Feed(content string) {
	for _, ch := range content {
		switch {
		case ch == '<':
			if p.inTag {
				p.emit(p.tagBuffer.String())
			}
			p.inTag = true
			p.tagBuffer.Reset()
			p.tagBuffer.WriteRune(ch)
		case ch == '>' && p.inTag:
			p.tagBuffer.WriteRune(ch)
			tag := p.tagBuffer.String()
			p.tagBuffer.Reset()
			p.inTag = false
			if !p.handleTag(tag) {
				p.emit(tag)
			}
		case p.inTag:
			p.tagBuffer.WriteRune(ch)
		default:
			p.emitRune(ch)
		}
	}
}

// handleTag switches modes for reasoning tags and reports whether tag was one.
func (p *ThinkingParser) handleTag(tag string) bool {
	name := strings.ToLower(strings.Trim(tag, "<>"))
	closing := strings.HasPrefix(name, "/")
	name = strings.TrimPrefix(name, "/")
	if !reasoningTags[name] {
		return false
	}
	p.inThinking = !closing
	return true
}

func (p *ThinkingParser) emit(text string) {
	if p.inThinking {
		p.reasoning.WriteString(text)
		return
	}
	p.message.WriteString(text)
}

func (p *ThinkingParser) emitRune(ch rune) {
	if p.inThinking {
		p.reasoning.WriteRune(ch)
		return
	}
	p.message.WriteRune(ch)
}

// IsInThinking returns true if currently inside a reasoning block.
func (p *ThinkingParser) IsInThinking() bool {
	return p.inThinking
}

// Flush emits any partially buffered tag and returns the accumulated
// reasoning and message text.
func (p *ThinkingParser) Flush() (reasoning, message string) {
	if p.inTag {
		p.emit(p.tagBuffer.String())
		p.tagBuffer.Reset()
		p.inTag = false
	}
	return p.reasoning.String(), p.message.String()
}

// Reset clears all state for a new output.
func (p *ThinkingParser) Reset() {
	p.message.Reset()
	p.reasoning.Reset()
	p.tagBuffer.Reset()
	p.inThinking = false
	p.inTag = false
}

// StripReasoning returns text with every reasoning block removed.
// An unterminated block swallows the rest of the text.
func StripReasoning(text string) string {
	p := NewThinkingParser()
	p.Feed(text)
	_, message := p.Flush()
	return message
}
