// Package dsl 定义化验目录文件的语法，例如：
//
//	catalog Lab v1 {
//	  range Plus = "None / + / ++ / +++"
//	  test "RBS" "70-140 mg/dL"
//	  test "PUS" Plus
//	}
package dsl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[=;]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	catalogParser = participle.MustBuild[Catalog](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// Catalog is the root AST node of a catalog file.
type Catalog struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Name    string         `parser:"Newline* 'catalog' @Ident"`
	Version string         `parser:"@Ident"`
	Entries []*Entry       `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}' Newline*"`
}

// Entry is either a named range or a test definition.
type Entry struct {
	Range *RangeDef `parser:"  @@"`
	Test  *TestDef  `parser:"| @@"`
}

// RangeDef declares a reusable reference range: range Plus = "..."
type RangeDef struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  string         `parser:"'range' @Ident '='"`
	Value StringLiteral  `parser:"@String"`
}

// TestDef declares one test and its reference range, given literally or by name.
type TestDef struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  StringLiteral  `parser:"'test' @String"`
	Range RangeRef       `parser:"@@"`
}

// RangeRef is a literal range string or a reference to a RangeDef.
type RangeRef struct {
	Literal *StringLiteral `parser:"  @String"`
	Ref     *string        `parser:"| @Ident"`
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse parses catalog content from an io.Reader. filename is only used in error positions.
func Parse(filename string, r io.Reader) (*Catalog, error) {
	return catalogParser.Parse(filename, r)
}

// ParseString parses catalog content from a string.
func ParseString(input string) (*Catalog, error) {
	return catalogParser.ParseString("", input)
}
