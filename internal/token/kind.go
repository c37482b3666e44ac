package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident
	// IntLit represents an integer literal, possibly with a type suffix.
	IntLit
	// FloatLit represents a float literal.
	FloatLit
	// StringLit represents a double-quoted string literal.
	StringLit
	// CharLit represents a single-quoted character literal.
	CharLit
	// Lifetime represents a tick-prefixed label such as 'a.
	Lifetime

	// Punct represents a single punctuation character.
	Punct

	LParen   // (
	RParen   // )
	LBrace   // {
	RBrace   // }
	LBracket // [
	RBracket // ]
)

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "Invalid"
	case EOF:
		return "EOF"
	case Ident:
		return "Ident"
	case IntLit:
		return "IntLit"
	case FloatLit:
		return "FloatLit"
	case StringLit:
		return "StringLit"
	case CharLit:
		return "CharLit"
	case Lifetime:
		return "Lifetime"
	case Punct:
		return "Punct"
	case LParen:
		return "LParen"
	case RParen:
		return "RParen"
	case LBrace:
		return "LBrace"
	case RBrace:
		return "RBrace"
	case LBracket:
		return "LBracket"
	case RBracket:
		return "RBracket"
	default:
		return "Kind(?)"
	}
}

// IsOpenDelim reports whether k opens a group.
func (k Kind) IsOpenDelim() bool {
	return k == LParen || k == LBrace || k == LBracket
}

// IsCloseDelim reports whether k closes a group.
func (k Kind) IsCloseDelim() bool {
	return k == RParen || k == RBrace || k == RBracket
}

// Closer returns the closing kind for an opening delimiter, or Invalid.
func (k Kind) Closer() Kind {
	switch k {
	case LParen:
		return RParen
	case LBrace:
		return RBrace
	case LBracket:
		return RBracket
	default:
		return Invalid
	}
}
