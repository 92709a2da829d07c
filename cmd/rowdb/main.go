package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/chzyer/readline"

	"rowdb/internal/parser"
	"rowdb/internal/pkg/logging"
	"rowdb/internal/pkg/util"
	"rowdb/internal/rowdb"
)

const (
	cliName           = "rowdb"
	defaultDbFileName = "db"
)

type metaCommand int

const (
	Unknown metaCommand = iota + 1
	Help
	Exit
	Btree
	Constants
)

func isMetaCommand(inputBuffer string) bool {
	return len(inputBuffer) > 0 && inputBuffer[:1] == "."
}

func doMetaCommand(inputBuffer string) metaCommand {
	switch inputBuffer {
	case "help":
		return Help
	case "exit":
		return Exit
	case "btree":
		return Btree
	case "constants":
		return Constants
	default:
		return Unknown
	}
}

func printHelp() {
	fmt.Println(".help       - Show available commands")
	fmt.Println(".exit       - Flushes pages to disk and closes program")
	fmt.Println(".btree      - Print the btree structure")
	fmt.Println(".constants  - Print node layout constants")
}

func printConstants() {
	fmt.Println("Constants:")
	fmt.Printf("ROW_SIZE: %d\n", rowdb.RowSize)
	fmt.Printf("LEAF_NODE_CELL_SIZE: %d\n", rowdb.LeafNodeCellSize)
	fmt.Printf("LEAF_NODE_MAX_CELLS: %d\n", rowdb.LeafNodeMaxCells)
	fmt.Printf("INTERNAL_NODE_CELL_SIZE: %d\n", rowdb.InternalNodeCellSize)
	fmt.Printf("INTERNAL_NODE_MAX_CELLS: %d\n", rowdb.InternalNodeMaxCells)
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger, err := logging.New(os.Getenv("LOG_LEVEL"))
	if err != nil {
		panic(err)
	}
	defer logger.Sync() // flushes buffer, if any

	dbPath := defaultDbFileName
	if len(os.Args) > 1 {
		dbPath = os.Args[1]
	}

	dbFile, err := os.OpenFile(dbPath, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		fmt.Printf("Error opening database file: %s\n", err)
		os.Exit(1)
	}
	defer dbFile.Close()

	aTable, err := rowdb.Open(ctx, logger, dbFile)
	if err != nil {
		fmt.Printf("Error opening database: %s\n", err)
		os.Exit(1)
	}

	rl, err := readline.New(cliName + "> ")
	if err != nil {
		panic(err)
	}
	defer rl.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		// Unblocks Readline so the loop below can exit and flush
		rl.Close()
	}()

	aParser := parser.New()

	// REPL (Read-eval-print loop) start
replLoop:
	for {
		line, err := rl.Readline()
		if err != nil {
			// Ctrl-C or Ctrl-D, fall through to flush and close
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				break
			}
			fmt.Printf("Error reading input: %s\n", err)
			break
		}

		inputBuffer := strings.TrimSpace(line)
		if inputBuffer == "" {
			continue
		}

		if isMetaCommand(inputBuffer) {
			switch doMetaCommand(inputBuffer[1:]) {
			case Help:
				printHelp()
			case Exit:
				break replLoop
			case Btree:
				fmt.Println("Tree:")
				if err := rowdb.PrintTree(ctx, os.Stdout, aTable); err != nil {
					fmt.Printf("Error printing tree: %s\n", err)
				}
			case Constants:
				printConstants()
			case Unknown:
				fmt.Printf("Unrecognized meta command: %s\n", inputBuffer)
			}
			continue
		}

		stmt, err := aParser.Parse(ctx, inputBuffer)
		if err != nil {
			fmt.Printf("Error parsing statement: %s\n", err)
			continue
		}

		aResult, err := aTable.ExecuteStatement(ctx, stmt)
		if err != nil {
			fmt.Printf("Error executing statement: %s\n", err)
			continue
		}

		switch stmt.Kind {
		case rowdb.Insert:
			fmt.Printf("Rows affected: %d\n", aResult.RowsAffected)
		case rowdb.Select:
			util.PrintTableHeader(os.Stdout, aResult.Columns)
			aRow, err := aResult.Rows(ctx)
			for ; err == nil; aRow, err = aResult.Rows(ctx) {
				util.PrintTableRow(os.Stdout, aResult.Columns, aRow.Values())
			}
			util.PrintTableEnd(os.Stdout, aResult.Columns)
			if !errors.Is(err, rowdb.ErrNoMoreRows) {
				fmt.Printf("Error fetching rows: %s\n", err)
			}
		}
	}

	if err := aTable.Close(ctx); err != nil {
		fmt.Printf("error closing database: %s\n", err)
	}
}
