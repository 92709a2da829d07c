package parser

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rowdb/internal/rowdb"
)

func TestParse(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		Name     string
		Input    string
		Expected rowdb.Statement
		Err      error
	}{
		{
			Name:  "Empty statement is rejected",
			Input: "",
			Err:   errEmptyStatement,
		},
		{
			Name:  "Whitespace only statement is rejected",
			Input: "   ",
			Err:   errEmptyStatement,
		},
		{
			Name:  "Unknown statement is rejected",
			Input: "update 1 foo foo@bar.com",
			Err:   errUnrecognizedStatement,
		},
		{
			Name:     "Select",
			Input:    "select",
			Expected: rowdb.Statement{Kind: rowdb.Select},
		},
		{
			Name:     "Select is case insensitive",
			Input:    "SELECT",
			Expected: rowdb.Statement{Kind: rowdb.Select},
		},
		{
			Name:  "Select with arguments is rejected",
			Input: "select 1",
			Err:   errSelectTakesNoArguments,
		},
		{
			Name:  "Insert",
			Input: "insert 1 alice alice@example.com",
			Expected: rowdb.Statement{
				Kind: rowdb.Insert,
				Row: rowdb.Row{
					ID:       1,
					Username: "alice",
					Email:    "alice@example.com",
				},
			},
		},
		{
			Name:  "Insert tolerates extra whitespace",
			Input: "  insert   2   bob   bob@example.com  ",
			Expected: rowdb.Statement{
				Kind: rowdb.Insert,
				Row: rowdb.Row{
					ID:       2,
					Username: "bob",
					Email:    "bob@example.com",
				},
			},
		},
		{
			Name:  "Insert with missing columns is rejected",
			Input: "insert 1 alice",
			Err:   errInsertTakesThreeColumns,
		},
		{
			Name:  "Insert with extra columns is rejected",
			Input: "insert 1 alice alice@example.com extra",
			Err:   errInsertTakesThreeColumns,
		},
		{
			Name:  "Insert with non integer id is rejected",
			Input: "insert abc alice alice@example.com",
			Err:   errSyntaxError,
		},
		{
			Name:  "Insert with zero id is rejected",
			Input: "insert 0 alice alice@example.com",
			Err:   errIDMustBePositive,
		},
		{
			Name:  "Insert with negative id is rejected",
			Input: "insert -5 alice alice@example.com",
			Err:   errIDMustBePositive,
		},
		{
			Name:  "Insert with too long username is rejected",
			Input: "insert 1 " + strings.Repeat("a", rowdb.UsernameSize+1) + " alice@example.com",
			Err:   errUsernameTooLong,
		},
		{
			Name:  "Insert with max length username is accepted",
			Input: "insert 1 " + strings.Repeat("a", rowdb.UsernameSize) + " alice@example.com",
			Expected: rowdb.Statement{
				Kind: rowdb.Insert,
				Row: rowdb.Row{
					ID:       1,
					Username: strings.Repeat("a", rowdb.UsernameSize),
					Email:    "alice@example.com",
				},
			},
		},
		{
			Name:  "Insert with too long email is rejected",
			Input: "insert 1 alice " + strings.Repeat("e", rowdb.EmailSize+1),
			Err:   errEmailTooLong,
		},
	}

	aParser := New()
	for _, aTestCase := range testCases {
		t.Run(aTestCase.Name, func(t *testing.T) {
			t.Parallel()

			aStatement, err := aParser.Parse(context.Background(), aTestCase.Input)
			if aTestCase.Err != nil {
				require.ErrorIs(t, err, aTestCase.Err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, aTestCase.Expected, aStatement)
		})
	}
}
