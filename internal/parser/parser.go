package parser

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"rowdb/internal/rowdb"
)

var (
	errEmptyStatement          = fmt.Errorf("statement cannot be empty")
	errUnrecognizedStatement   = fmt.Errorf("unrecognised statement type")
	errSyntaxError             = fmt.Errorf("syntax error")
	errIDMustBePositive        = fmt.Errorf("id must be a positive integer")
	errUsernameTooLong         = fmt.Errorf("username too long, max %d bytes", rowdb.UsernameSize)
	errEmailTooLong            = fmt.Errorf("email too long, max %d bytes", rowdb.EmailSize)
	errSelectTakesNoArguments  = fmt.Errorf("%w: select takes no arguments", errSyntaxError)
	errInsertTakesThreeColumns = fmt.Errorf("%w: insert requires id, username and email", errSyntaxError)
)

type parser struct{}

func New() *parser {
	return new(parser)
}

// Parse turns a textual statement into a typed command. There are only two
// statement shapes: "insert <id> <username> <email>" and "select". All input
// validation happens here, the storage core assumes pre-validated rows.
func (p *parser) Parse(ctx context.Context, input string) (rowdb.Statement, error) {
	fields := strings.Fields(strings.TrimSpace(input))
	if len(fields) == 0 {
		return rowdb.Statement{}, errEmptyStatement
	}

	switch strings.ToLower(fields[0]) {
	case "select":
		if len(fields) != 1 {
			return rowdb.Statement{}, errSelectTakesNoArguments
		}
		return rowdb.Statement{Kind: rowdb.Select}, nil
	case "insert":
		return p.parseInsert(fields[1:])
	}

	return rowdb.Statement{}, errUnrecognizedStatement
}

func (p *parser) parseInsert(args []string) (rowdb.Statement, error) {
	if len(args) != 3 {
		return rowdb.Statement{}, errInsertTakesThreeColumns
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return rowdb.Statement{}, fmt.Errorf("%w: id must be an integer", errSyntaxError)
	}
	if id <= 0 {
		return rowdb.Statement{}, errIDMustBePositive
	}

	username, email := args[1], args[2]
	if len(username) > rowdb.UsernameSize {
		return rowdb.Statement{}, errUsernameTooLong
	}
	if len(email) > rowdb.EmailSize {
		return rowdb.Statement{}, errEmailTooLong
	}

	return rowdb.Statement{
		Kind: rowdb.Insert,
		Row: rowdb.Row{
			ID:       uint64(id),
			Username: username,
			Email:    email,
		},
	}, nil
}
