package driver

import "github.com/parsekit/lalrtab/tabspec"

// Token is one input symbol. TermID is the raw terminal identifier declared
// in the grammar; the end of input is signalled by a token whose TermID is
// EndIdent.
type Token struct {
	TermID int
	Text   string
	Row    int
	Col    int
}

func (t *Token) EOF() bool {
	return t.TermID == tabspec.EndIdent
}

// TokenStream feeds terminals to the parser. Implementations wrap whatever
// tokenizer the front end uses.
type TokenStream interface {
	Next() (*Token, error)
}

type sliceTokenStream struct {
	toks []*Token
	pos  int
}

// NewSliceTokenStream wraps an in-memory token sequence. When the sequence
// does not end with an end-of-input token, one is appended.
func NewSliceTokenStream(toks []*Token) TokenStream {
	if len(toks) == 0 || !toks[len(toks)-1].EOF() {
		toks = append(toks, &Token{TermID: tabspec.EndIdent})
	}
	return &sliceTokenStream{
		toks: toks,
	}
}

func (s *sliceTokenStream) Next() (*Token, error) {
	if s.pos >= len(s.toks) {
		return s.toks[len(s.toks)-1], nil
	}
	tok := s.toks[s.pos]
	s.pos++
	return tok, nil
}
