package markup

import "strings"

type Kind int

const (
	Text Kind = iota
	FgColor
	ShadowColorSwitch
	Speed
	Tag
	Entity
)

// Token is one piece of a markup line. Value holds the text, the color code,
// the speed digit, the bare tag (e.g. "/shadow") or the entity name.
type Token struct {
	Kind  Kind
	Value string
}

var simpleTags = []string{
	"left", "br", "blink", "/blink",
	"small", "normal",
	"wide", "/wide", "dblwide", "/dblwide",
	"serif", "/serif", "shadow", "/shadow",
}

var entities = []string{"uparrow", "downarrow", "leftarrow", "rightarrow"}

// Tokenize splits a markup line into tokens. Anything that is not a known
// tag or entity is kept as text.
func Tokenize(line string) []Token {
	var (
		tokens []Token
		text   strings.Builder
	)
	flush := func() {
		if text.Len() > 0 {
			tokens = append(tokens, Token{Kind: Text, Value: text.String()})
			text.Reset()
		}
	}

	for i := 0; i < len(line); {
		rest := line[i:]
		switch rest[0] {
		case '<':
			if tok, n, ok := matchTag(rest); ok {
				flush()
				tokens = append(tokens, tok)
				i += n
				continue
			}
		case '&':
			if tok, n, ok := matchEntity(rest); ok {
				flush()
				tokens = append(tokens, tok)
				i += n
				continue
			}
		}
		text.WriteByte(line[i])
		i++
	}
	flush()
	return tokens
}

func matchTag(s string) (Token, int, bool) {
	end := strings.IndexByte(s, '>')
	if end < 0 {
		return Token{}, 0, false
	}
	name := s[1:end]
	n := end + 1

	switch {
	case strings.HasPrefix(name, "scolor") && Color(name[6:]).Validate() == nil:
		return Token{Kind: ShadowColorSwitch, Value: name[6:]}, n, true
	case strings.HasPrefix(name, "color") && Color(name[5:]).Validate() == nil:
		return Token{Kind: FgColor, Value: name[5:]}, n, true
	case strings.HasPrefix(name, "speed") && len(name) == 6 && name[5] >= '1' && name[5] <= '6':
		return Token{Kind: Speed, Value: name[5:]}, n, true
	}
	for _, t := range simpleTags {
		if name == t {
			return Token{Kind: Tag, Value: t}, n, true
		}
	}
	return Token{}, 0, false
}

func matchEntity(s string) (Token, int, bool) {
	for _, e := range entities {
		if strings.HasPrefix(s, "&"+e+";") {
			return Token{Kind: Entity, Value: e}, len(e) + 2, true
		}
	}
	return Token{}, 0, false
}
