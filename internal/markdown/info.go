package markdown

import "strings"

// Option is one key=value (or bare flag) token of an info string.
type Option struct {
	Key   string
	Value string
}

// Options keeps info-string options in document order.
type Options []Option

// Get returns the value of the last option named key.
func (o Options) Get(key string) (string, bool) {
	for i := len(o) - 1; i >= 0; i-- {
		if o[i].Key == key {
			return o[i].Value, true
		}
	}
	return "", false
}

// ParseInfo splits a fence info string into a language and options:
//
//	ts title="a b" file=src/my\ file.ts#L1-L3 wrap
//
// Tokens are separated by unescaped whitespace. Double or single quotes
// group a value and are removed. A backslash keeps the following character
// in the token and is itself kept, so escaped spaces in a file reference
// reach the reference parser unchanged. The first token is the language
// unless it contains '='.
func ParseInfo(info string) (string, Options) {
	tokens := tokenize(info)
	var lang string
	if len(tokens) > 0 && !strings.Contains(tokens[0], "=") {
		lang, tokens = tokens[0], tokens[1:]
	}

	opts := make(Options, 0, len(tokens))
	for _, tok := range tokens {
		key, value, _ := strings.Cut(tok, "=")
		opts = append(opts, Option{Key: key, Value: value})
	}
	return lang, opts
}

func tokenize(s string) []string {
	var (
		tokens []string
		cur    strings.Builder
		quote  rune
		inTok  bool
	)
	flush := func() {
		if inTok {
			tokens = append(tokens, cur.String())
			cur.Reset()
			inTok = false
		}
	}

	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\\' && i+1 < len(runes):
			cur.WriteRune(r)
			cur.WriteRune(runes[i+1])
			i++
			inTok = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inTok = true
		case r == ' ' || r == '\t':
			flush()
		default:
			cur.WriteRune(r)
			inTok = true
		}
	}
	flush()
	return tokens
}
