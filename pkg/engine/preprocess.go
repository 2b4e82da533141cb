package engine

// kwPrefix marks a string literal that was written as a :keyword.
const kwPrefix = "__kw_"

// preprocessSource turns lattice script source into something zygomys reads.
// Outside string literals it rewrites
//
//	:counts     -> "__kw_counts"   keywords become marked strings
//	box-grid    -> box_grid        zygomys reads a hyphen as minus
//	; comment   -> // comment      zygomys has no ; comments
//
// A hyphen is only rewritten between an identifier character and a letter,
// so (- a 1) and (- 2 -3) are left alone. := passes through untouched.
func preprocessSource(source string) string {
	s := scanner{src: source, out: make([]byte, 0, len(source)+len(source)/4)}
	for s.pos < len(s.src) {
		switch c := s.src[s.pos]; {
		case c == '"':
			s.quoted('"', true)
		case c == '`':
			s.quoted('`', false)
		case c == ';':
			s.comment()
		case c == ':' && s.peek(1) == '=':
			s.copy(2)
		case c == ':' && isLetter(s.peek(1)):
			s.keyword()
		case c == '-' && s.pos > 0 && isIdentChar(s.src[s.pos-1]) && isLetter(s.peek(1)):
			s.out = append(s.out, '_')
			s.pos++
		default:
			s.copy(1)
		}
	}
	return string(s.out)
}

type scanner struct {
	src string
	pos int
	out []byte
}

// peek returns the byte n ahead of the cursor, or 0 past the end.
func (s *scanner) peek(n int) byte {
	if s.pos+n < len(s.src) {
		return s.src[s.pos+n]
	}
	return 0
}

func (s *scanner) copy(n int) {
	end := min(s.pos+n, len(s.src))
	s.out = append(s.out, s.src[s.pos:end]...)
	s.pos = end
}

// quoted copies a literal delimited by q, including both delimiters.
func (s *scanner) quoted(q byte, escapes bool) {
	s.copy(1)
	for s.pos < len(s.src) && s.src[s.pos] != q {
		if escapes && s.src[s.pos] == '\\' {
			s.copy(2)
			continue
		}
		s.copy(1)
	}
	s.copy(1)
}

// comment rewrites a run of semicolons to // and copies the rest of the line.
func (s *scanner) comment() {
	for s.pos < len(s.src) && s.src[s.pos] == ';' {
		s.pos++
	}
	s.out = append(s.out, '/', '/')
	for s.pos < len(s.src) && s.src[s.pos] != '\n' {
		s.copy(1)
	}
}

func (s *scanner) keyword() {
	start := s.pos + 1
	end := start
	for end < len(s.src) && (isIdentChar(s.src[end]) || s.src[end] == '-') {
		end++
	}
	s.out = append(s.out, '"')
	s.out = append(s.out, kwPrefix...)
	s.out = append(s.out, s.src[start:end]...)
	s.out = append(s.out, '"')
	s.pos = end
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}
