package utils

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

func NewTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

var stdin = bufio.NewReader(os.Stdin)

// PromptLine prints the label and reads one trimmed line from stdin.
func PromptLine(label string) string {
	fmt.Print(label)
	line, _ := stdin.ReadString('\n')
	return strings.TrimSpace(line)
}

// PromptInt re-prompts until it reads an integer in [min, max].
func PromptInt(label string, min, max int) int {
	for {
		raw := PromptLine(label)
		value, err := strconv.Atoi(raw)
		if err == nil && value >= min && value <= max {
			return value
		}
		fmt.Printf("Enter a number between %d and %d.\n", min, max)
	}
}
