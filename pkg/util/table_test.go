package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_TablePrinter_01(t *testing.T) {
	var (
		out   strings.Builder
		table = NewTablePrinter(2, 2)
	)
	//
	table.SetRow(0, "a", "bb")
	table.Set(0, 1, "ccc")
	table.Set(1, 1, "d")
	table.Print(&out)
	//
	assert.Equal(t, "   a | bb |\n ccc |  d |\n", out.String())
}

func Test_TablePrinter_02(t *testing.T) {
	var (
		out   strings.Builder
		table = NewTablePrinter(1, 1)
	)
	// Long cells are truncated
	table.Set(0, 0, "123456")
	table.SetMaxWidth(3)
	table.Print(&out)
	//
	assert.Equal(t, " 123 |\n", out.String())
}
