// Package parser turns one queue line into an invocation record.
//
// The grammar of a line, after the caller has stripped leading and trailing
// whitespace, is
//
//	line     := command SP arg*
//	arg      := bare | quoted | redir
//	bare     := [^"\s>][^\s]*
//	quoted   := '"' [^"]* '"'
//	redir    := '>' ws? path | '>>' ws? path
//
// Quoted strings have no escapes. A redirection directive is not an argument;
// when several are present the last one wins.
package parser

import (
	"fmt"
	"strings"

	"github.com/bft-labs/ooqd/internal/domain"
)

// Parse splits a trimmed command line into an invocation. Argv slices share
// memory with line.
//
// Parse returns domain.ErrUnterminatedString when a quoted argument has no
// closing quote and domain.ErrTooManyArguments when the line has more than
// domain.MaxRealArgs arguments.
func Parse(line string) (domain.Invocation, error) {
	var inv domain.Invocation
	if line == "" {
		return inv, fmt.Errorf("%w: empty line", domain.ErrUnknownCommand)
	}

	end := skipNonSpace(line, 0)
	inv.Argv = make([]string, 1, 8)
	inv.Argv[0] = line[:end]

	i := skipSpace(line, end)
	for i < len(line) {
		switch line[i] {
		case '"':
			closing := strings.IndexByte(line[i+1:], '"')
			if closing < 0 {
				return domain.Invocation{}, domain.ErrUnterminatedString
			}
			if err := push(&inv, line[i+1:i+1+closing]); err != nil {
				return domain.Invocation{}, err
			}
			i += closing + 2

		case '>':
			i = redirect(&inv, line, i)

		default:
			end := skipNonSpace(line, i)
			if err := push(&inv, line[i:end]); err != nil {
				return domain.Invocation{}, err
			}
			i = end
		}
		i = skipSpace(line, i)
	}

	return inv, nil
}

// push appends one argument, enforcing the argv capacity.
func push(inv *domain.Invocation, arg string) error {
	if len(inv.Argv) >= domain.MaxRealArgs {
		return domain.ErrTooManyArguments
	}
	inv.Argv = append(inv.Argv, arg)
	return nil
}

// redirect consumes a '>' or '>>' directive starting at line[i] and returns
// the index just past its path. A directive followed by whitespace takes the
// next token as its path; at end of line the path is empty.
func redirect(inv *domain.Invocation, line string, i int) int {
	i++
	appendMode := false
	if i < len(line) && line[i] == '>' {
		appendMode = true
		i++
	}
	if i >= len(line) || IsSpace(line[i]) {
		i = skipSpace(line, i)
	}
	end := skipNonSpace(line, i)

	inv.Outfile = line[i:end]
	inv.HasOutfile = true
	inv.Append = appendMode
	return end
}
