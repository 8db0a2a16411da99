package styles

import (
	"bytes"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Minify drops comments and collapses whitespace. Whitespace is kept as a
// single space where it separates tokens, so descendant selectors and
// multi-value declarations survive.
func Minify(src []byte) []byte {
	l := css.NewLexer(parse.NewInputBytes(src))
	out := bytes.NewBuffer(make([]byte, 0, len(src)))

	var (
		prev    css.TokenType
		pending bool
	)
	for {
		tt, data := l.Next()
		switch tt {
		case css.ErrorToken:
			return out.Bytes()
		case css.CommentToken:
			continue
		case css.WhitespaceToken:
			pending = true
			continue
		}
		if pending && out.Len() > 0 && !tightAfter(prev) && !tightBefore(tt) {
			out.WriteByte(' ')
		}
		pending = false
		out.Write(data)
		prev = tt
	}
}

func tightAfter(tt css.TokenType) bool {
	switch tt {
	case css.LeftBraceToken, css.RightBraceToken, css.SemicolonToken, css.CommaToken, css.ColonToken:
		return true
	}
	return false
}

func tightBefore(tt css.TokenType) bool {
	switch tt {
	case css.LeftBraceToken, css.RightBraceToken, css.SemicolonToken, css.CommaToken:
		return true
	}
	return false
}
