// Package token holds the lexical rules of XTon and the tokenizer shared by
// the decoder, the encoder and the tools.
//
// # Lexical rules
//
// Outside quotes the characters space, '-', '<', '>', '[', ']', '/', '\''
// and '\\' are reserved, as is ASCII whitespace. A bare token is a run of
// any other characters. The keywords \true, \false and \none are literal
// values. Inside a quoted string a backslash escapes exactly the
// characters of [Escapable]. A token matching [LooksNumeric] is a number,
// so text that looks like one must be quoted, see [NeedsQuote].
//
// # Errors
//
// Every decode failure is a [*DecodeError] with an [ErrorKind] and a
// [Pos]. The kinds unwrap to sentinel errors such as [ErrUnterminatedString]
// for use with errors.Is.
//
// [Tokenize] and [Tokenizer] turn bytes into [Token]s.
package token
