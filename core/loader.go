package core

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mariocodesforfun/risc-v-to-machine/instr"
)

// ErrSyntax is returned when a source line cannot be split into a
// statement.
var ErrSyntax = errors.New("syntax error")

// ParseASM splits assembly text into statements. It drops # comments and
// blank lines, recognises "name:" labels (optionally followed by an
// instruction on the same line) and splits operands on commas and
// whitespace.
func ParseASM(r io.Reader) ([]instr.Statement, error) {
	var stmts []instr.Statement

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++

		code, _, _ := strings.Cut(scanner.Text(), "#")
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}

		if name, rest, ok := strings.Cut(code, ":"); ok {
			name = strings.TrimSpace(name)
			if !isIdentifier(name) {
				return nil, fmt.Errorf("line %d: %w: bad label %q", lineNum, ErrSyntax, name)
			}

			stmts = append(stmts, instr.NewLabel(name).AtLine(lineNum))

			code = strings.TrimSpace(rest)
			if code == "" {
				continue
			}
		}

		stmt, err := parseInstLine(code)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		stmts = append(stmts, stmt.AtLine(lineNum))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}

	return stmts, nil
}

func parseInstLine(code string) (instr.Statement, error) {
	end := strings.IndexAny(code, " \t,")
	if end < 0 {
		end = len(code)
	}

	mnemonic := code[:end]
	if mnemonic == "" {
		return instr.Statement{}, fmt.Errorf("%w: missing mnemonic in %q", ErrSyntax, code)
	}

	return instr.NewInst(mnemonic, splitOperandTokens(code[end:])...), nil
}

// splitOperandTokens splits on commas and whitespace. Whitespace inside
// parentheses or in front of "(" is dropped, so "8 (x2)" and "8( x2 )"
// both read as "8(x2)".
func splitOperandTokens(s string) []string {
	var (
		tokens []string
		cur    strings.Builder
		depth  int
	)

	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '(':
			depth++
			cur.WriteByte(c)
		case c == ')':
			if depth > 0 {
				depth--
			}
			cur.WriteByte(c)
		case depth > 0 && (c == ' ' || c == '\t'):
		case c == ',' && depth == 0:
			flush()
		case c == ' ' || c == '\t':
			if cur.Len() > 0 && strings.HasPrefix(strings.TrimLeft(s[i:], " \t"), "(") {
				continue
			}
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	flush()

	return tokens
}

type yamlStatement struct {
	Label    string   `yaml:"label"`
	Inst     string   `yaml:"inst"`
	Operands []string `yaml:"operands"`
}

// ParseYAML reads pre-tokenized statements:
//
//	statements:
//	  - label: loop
//	  - inst: addi
//	    operands: [x1, x1, 1]
func ParseYAML(r io.Reader) ([]instr.Statement, error) {
	var doc struct {
		Statements []yaml.Node `yaml:"statements"`
	}

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode statements: %w", err)
	}

	stmts := make([]instr.Statement, 0, len(doc.Statements))
	for i := range doc.Statements {
		s, err := yamlToStatement(&doc.Statements[i])
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}

	return stmts, nil
}

func yamlToStatement(n *yaml.Node) (instr.Statement, error) {
	if n.Kind != yaml.MappingNode {
		return instr.Statement{}, fmt.Errorf("line %d: %w: statement must be a mapping", n.Line, ErrSyntax)
	}

	for i := 0; i < len(n.Content); i += 2 {
		switch key := n.Content[i].Value; key {
		case "label", "inst", "operands":
		default:
			return instr.Statement{}, fmt.Errorf("line %d: %w: unknown key %q", n.Content[i].Line, ErrSyntax, key)
		}
	}

	var ys yamlStatement
	if err := n.Decode(&ys); err != nil {
		return instr.Statement{}, fmt.Errorf("line %d: %w", n.Line, err)
	}

	switch {
	case ys.Label != "" && ys.Inst == "" && len(ys.Operands) == 0:
		return instr.NewLabel(ys.Label).AtLine(n.Line), nil
	case ys.Inst != "" && ys.Label == "":
		return instr.NewInst(ys.Inst, ys.Operands...).AtLine(n.Line), nil
	default:
		return instr.Statement{}, fmt.Errorf("line %d: %w: need exactly one of label or inst", n.Line, ErrSyntax)
	}
}

// LoadProgramFileFromASM reads an assembly source file.
func LoadProgramFileFromASM(path string) ([]instr.Statement, error) {
	return loadFile(path, ParseASM)
}

// LoadProgramFileFromYAML reads a YAML statement file.
func LoadProgramFileFromYAML(path string) ([]instr.Statement, error) {
	return loadFile(path, ParseYAML)
}

// LoadProgramFile picks the reader by extension: .yaml and .yml are
// statement files, anything else is assembly source.
func LoadProgramFile(path string) ([]instr.Statement, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadProgramFileFromYAML(path)
	default:
		return LoadProgramFileFromASM(path)
	}
}

func loadFile(
	path string,
	parse func(io.Reader) ([]instr.Statement, error),
) ([]instr.Statement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stmts, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return stmts, nil
}
