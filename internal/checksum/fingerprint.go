package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"
)

// Fingerprint returns the hex SHA-256 of the normalized script.
func Fingerprint(sql string) string {
	sum := sha256.Sum256([]byte(Normalize(sql)))
	return hex.EncodeToString(sum[:])
}

// IsBlank reports whether sql holds nothing but comments and whitespace.
func IsBlank(sql string) bool {
	return Normalize(sql) == ""
}

// Normalize returns the canonical form fingerprints are computed over.
func Normalize(sql string) string {
	s := &stripper{src: sql}
	s.out.Grow(len(sql))
	s.run()

	var b strings.Builder
	b.Grow(s.out.Len())
	pendingSpace := false
	for _, r := range s.out.String() {
		if unicode.IsSpace(r) {
			pendingSpace = b.Len() > 0
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// stripper copies src to out without comments. Comments become a single
// space so that tokens on either side stay apart.
type stripper struct {
	src string
	pos int
	out strings.Builder
}

func (s *stripper) run() {
	for s.pos < len(s.src) {
		switch {
		case s.at("--"):
			s.skipLineComment()
		case s.at("/*"):
			s.skipBlockComment()
		case s.src[s.pos] == '\'':
			s.copyQuoted()
		case s.src[s.pos] == '$':
			s.copyDollarQuoted()
		default:
			s.out.WriteByte(s.src[s.pos])
			s.pos++
		}
	}
}

func (s *stripper) at(prefix string) bool {
	return strings.HasPrefix(s.src[s.pos:], prefix)
}

func (s *stripper) skipLineComment() {
	s.out.WriteByte(' ')
	if i := strings.IndexByte(s.src[s.pos:], '\n'); i >= 0 {
		s.pos += i
		return
	}
	s.pos = len(s.src)
}

// skipBlockComment honors PostgreSQL's nested block comments.
func (s *stripper) skipBlockComment() {
	s.out.WriteByte(' ')
	depth := 0
	for s.pos < len(s.src) {
		switch {
		case s.at("/*"):
			depth++
			s.pos += 2
		case s.at("*/"):
			depth--
			s.pos += 2
			if depth == 0 {
				return
			}
		default:
			s.pos++
		}
	}
}

// copyQuoted copies a single-quoted literal, including '' escapes.
func (s *stripper) copyQuoted() {
	start := s.pos
	s.pos++
	for s.pos < len(s.src) {
		if s.src[s.pos] != '\'' {
			s.pos++
			continue
		}
		if s.pos+1 < len(s.src) && s.src[s.pos+1] == '\'' {
			s.pos += 2
			continue
		}
		s.pos++
		break
	}
	s.out.WriteString(s.src[start:s.pos])
}

// copyDollarQuoted copies a $tag$ ... $tag$ body verbatim. A '$' that does
// not open a tag, such as a positional parameter, is copied as is.
func (s *stripper) copyDollarQuoted() {
	tag := dollarTag(s.src[s.pos:])
	if tag == "" {
		s.out.WriteByte('$')
		s.pos++
		return
	}
	start := s.pos
	s.pos += len(tag)
	if end := strings.Index(s.src[s.pos:], tag); end >= 0 {
		s.pos += end + len(tag)
	} else {
		s.pos = len(s.src)
	}
	s.out.WriteString(s.src[start:s.pos])
}

// dollarTag returns the opening tag at the start of s ("$$" or "$name$").
func dollarTag(s string) string {
	for i := 1; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '$':
			return s[:i+1]
		case c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
		case c >= '0' && c <= '9' && i > 1:
		default:
			return ""
		}
	}
	return ""
}
