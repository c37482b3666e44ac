// Package token defines lexical token kinds and trivia for seqgen templates.
// Invariants:
//   - Token.Text is the exact source text of the token (or, for synthetic
//     tokens produced by expansion, the text they stand for).
//   - Punctuation is always a single character (Kind Punct). Multi-character
//     operators such as `..=` are sequences of Punct tokens joined by the
//     Joint flag, so the tree stays host-language neutral.
//   - Delimiters ( ) { } [ ] have their own kinds and never appear as leaves
//     of a built tree; internal/tree turns them into groups.
//   - Keywords are not distinguished: `in` is an Ident, the header parser
//     matches it by text.
package token
