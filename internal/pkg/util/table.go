package util

import (
	"fmt"
	"io"
	"strings"

	"rowdb/internal/rowdb"
)

const (
	truncatedStringEnd = " ..."
	nonVarCharLength   = 20
	maxLength          = 40
)

func PrintTableHeader(w io.Writer, columns []rowdb.Column) {
	columnSize, tableWidth := computeTableSize(columns)

	fmt.Fprintf(w, "+%s+\n", strings.Repeat("-", tableWidth-2))

	for i, aColumn := range columns {
		// left-justify the field, pad with columnSize[i] spaces on the right
		fmt.Fprintf(w, "| %-*s ", columnSize[i], aColumn.Name)
		if i == len(columns)-1 {
			fmt.Fprintf(w, "|\n")
		}
	}

	fmt.Fprintf(w, "+%s+\n", strings.Repeat("-", tableWidth-2))
}

func PrintTableRow(w io.Writer, columns []rowdb.Column, values []any) {
	columnSize, _ := computeTableSize(columns)

	for i, aValue := range values {
		aStringValue := fmt.Sprint(aValue)
		r := []rune(aStringValue)
		if len(r) >= maxLength-len(truncatedStringEnd) {
			aStringValue = string(r[0:maxLength-len(truncatedStringEnd)]) + truncatedStringEnd
		}
		fmt.Fprintf(w, "| %-*s ", columnSize[i], aStringValue)
	}
	fmt.Fprintf(w, "|\n")
}

func PrintTableEnd(w io.Writer, columns []rowdb.Column) {
	_, tableWidth := computeTableSize(columns)

	fmt.Fprintf(w, "+%s+\n", strings.Repeat("-", tableWidth-2))
}

func computeTableSize(columns []rowdb.Column) ([]int, int) {
	columnSize := make([]int, len(columns))
	for i, aColumn := range columns {
		if aColumn.Kind == rowdb.Varchar {
			columnSize[i] = maxLength
		} else {
			columnSize[i] = nonVarCharLength
		}
	}

	// left border is | followed by a space, right border is space followed
	// by | (2+2=4), then between each column we have space, |, space (3)
	tableWidth := 4 + (len(columnSize)-1)*3
	for _, columnWidth := range columnSize {
		tableWidth += columnWidth
	}

	return columnSize, tableWidth
}
