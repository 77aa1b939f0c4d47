package core

// Character code constants. The scanner works on bytes, so every code here
// is a single byte; CharEOF sits outside the byte range.
const (
	CharEOF       = -1
	CharTAB       = 9
	CharLF        = 10
	CharVTAB      = 11
	CharFF        = 12
	CharCR        = 13
	CharSPACE     = 32
	CharBANG      = 33
	CharDQ        = 34
	CharHASH      = 35
	CharDollar    = 36
	CharAMPERSAND = 38
	CharSQ        = 39
	CharLPAREN    = 40
	CharRPAREN    = 41
	CharSTAR      = 42
	CharCOMMA     = 44
	CharMINUS     = 45
	CharPERIOD    = 46
	CharSLASH     = 47
	CharCOLON     = 58
	CharSEMICOLON = 59
	CharLT        = 60
	CharEQ        = 61
	CharGT        = 62
	CharAT        = 64

	Char0 = 48
	Char9 = 57

	CharA = 65
	CharF = 70
	CharX = 88
	CharZ = 90

	CharLBRACKET   = 91
	CharBACKSLASH  = 92
	CharRBRACKET   = 93
	CharUnderscore = 95
	CharBT         = 96

	CharLowerA = 97
	CharLowerF = 102
	CharLowerX = 120
	CharLowerZ = 122

	CharLBRACE = 123
	CharBAR    = 124
	CharRBRACE = 125
)

// IsWhitespace checks if a character code represents ASCII whitespace.
// Non-breaking space is not whitespace here: its UTF-8 encoding shares
// bytes with other runes.
func IsWhitespace(code int) bool {
	return code == CharSPACE || (code >= CharTAB && code <= CharCR)
}

// IsDigit checks if a character code represents a digit
func IsDigit(code int) bool {
	return Char0 <= code && code <= Char9
}

// IsAsciiLetter checks if a character code represents an ASCII letter
func IsAsciiLetter(code int) bool {
	return (code >= CharLowerA && code <= CharLowerZ) || (code >= CharA && code <= CharZ)
}

// IsAsciiHexDigit checks if a character code represents a hexadecimal digit
func IsAsciiHexDigit(code int) bool {
	return (code >= CharLowerA && code <= CharLowerF) || (code >= CharA && code <= CharF) || IsDigit(code)
}

// IsNewLine checks if a character code represents a newline
func IsNewLine(code int) bool {
	return code == CharLF || code == CharCR
}

// IsQuote checks if a character code opens a JavaScript string or template
func IsQuote(code int) bool {
	return code == CharSQ || code == CharDQ || code == CharBT
}

// IsAlphanumeric checks if a character code is an ASCII letter or digit
func IsAlphanumeric(code int) bool {
	return IsAsciiLetter(code) || IsDigit(code)
}

// IsIdentifierStart checks if a character code may start a JavaScript
// identifier. Any non-ASCII byte is accepted so that Unicode identifiers
// pass through untouched.
func IsIdentifierStart(code int) bool {
	return IsAsciiLetter(code) || code == CharUnderscore || code == CharDollar || code >= 0x80
}

// IsIdentifierPart checks if a character code may continue a JavaScript
// identifier
func IsIdentifierPart(code int) bool {
	return IsIdentifierStart(code) || IsDigit(code)
}
