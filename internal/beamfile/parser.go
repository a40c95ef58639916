package beamfile

import (
	"fmt"
	"strconv"
)

// Parse parses Beamfile source text into a semantic model. source is used
// only for error messages and attached to the returned Beamfile; it need
// not correspond to a real file.
func Parse(source string, text string) (*Beamfile, error) {
	p := &parser{lex: newLexer(text)}
	if err := p.advance(); err != nil {
		return nil, err
	}

	bf := &Beamfile{
		Source:    source,
		Variables: map[string]*Variable{},
		Beams:     map[string]*Beam{},
	}

	for p.cur.kind != tokEOF {
		if p.cur.kind != tokIdent {
			return nil, p.errorf("expected \"variable\", \"beam\" or \"default\", found %s", p.cur.kind)
		}
		switch p.cur.text {
		case "variable":
			v, err := p.parseVariableBlock()
			if err != nil {
				return nil, err
			}
			bf.Variables[v.Name] = v
		case "beam":
			start := p.cur
			b, err := p.parseBeamBlock()
			if err != nil {
				return nil, err
			}
			if _, dup := bf.Beams[b.Name]; dup {
				return nil, &ParseError{Message: fmt.Sprintf("duplicate beam %q", b.Name), Offset: start.offset, End: start.offset, Line: start.line, Column: start.col}
			}
			bf.Beams[b.Name] = b
		case "default":
			name, err := p.parseDefaultDecl()
			if err != nil {
				return nil, err
			}
			bf.Default = name
		default:
			return nil, p.errorf("unknown top-level item %q", p.cur.text)
		}
	}

	return bf, nil
}

type parser struct {
	lex *lexer
	cur token
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func (p *parser) errorf(format string, args ...any) error {
	return &ParseError{
		Message: fmt.Sprintf(format, args...),
		Offset:  p.cur.offset, End: p.cur.offset,
		Line: p.cur.line, Column: p.cur.col,
	}
}

func (p *parser) expect(kind tokenKind) (token, error) {
	if p.cur.kind != kind {
		return token{}, p.errorf("expected %s, found %s", kind, p.cur.kind)
	}
	tok := p.cur
	if err := p.advance(); err != nil {
		return token{}, err
	}
	return tok, nil
}

func (p *parser) expectIdentText(text string) error {
	if p.cur.kind != tokIdent || p.cur.text != text {
		return p.errorf("expected %q, found %s", text, p.cur.kind)
	}
	return p.advance()
}

// parseDefaultDecl parses `default = "STRING"`.
func (p *parser) parseDefaultDecl() (string, error) {
	if err := p.expectIdentText("default"); err != nil {
		return "", err
	}
	if _, err := p.expect(tokEquals); err != nil {
		return "", err
	}
	tok, err := p.expect(tokString)
	if err != nil {
		return "", err
	}
	return tok.text, nil
}

// parseVariableBlock parses `variable "NAME" { kv-pair* }`.
func (p *parser) parseVariableBlock() (*Variable, error) {
	if err := p.expectIdentText("variable"); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(tokString)
	if err != nil {
		return nil, err
	}
	fields, err := p.parseGenericBlock()
	if err != nil {
		return nil, err
	}

	v := &Variable{Name: nameTok.text}
	for key, val := range fields {
		switch key {
		case "default":
			s, err := asString(val, "variable default")
			if err != nil {
				return nil, err
			}
			v.Default = &s
		case "description":
			s, err := asString(val, "variable description")
			if err != nil {
				return nil, err
			}
			v.Description = s
		default:
			return nil, &ParseError{Message: fmt.Sprintf("unknown variable field %q", key), Offset: val.pos, End: val.pos}
		}
	}
	return v, nil
}

// parseBeamBlock parses `beam "NAME" { beam-item* }`. beam-item has mixed
// syntax (some keys use "key = value", others a direct nested block), so
// it is handled with its own dispatch rather than the generic kv-pair
// grammar used elsewhere.
func (p *parser) parseBeamBlock() (*Beam, error) {
	if err := p.expectIdentText("beam"); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(tokString)
	if err != nil {
		return nil, err
	}
	if nameTok.text == "" {
		return nil, &ParseError{Message: "beam name must not be empty", Offset: nameTok.offset, End: nameTok.offset}
	}
	if _, err := p.expect(tokLBrace); err != nil {
		return nil, err
	}

	beam := &Beam{Name: nameTok.text}

	for p.cur.kind != tokRBrace {
		if p.cur.kind != tokIdent {
			return nil, p.errorf("expected beam field, found %s", p.cur.kind)
		}
		key := p.cur.text
		if err := p.advance(); err != nil {
			return nil, err
		}

		switch key {
		case "description":
			if _, err := p.expect(tokEquals); err != nil {
				return nil, err
			}
			tok, err := p.expect(tokString)
			if err != nil {
				return nil, err
			}
			beam.Description = tok.text
		case "depends_on":
			if _, err := p.expect(tokEquals); err != nil {
				return nil, err
			}
			arr, err := p.parseStringArray()
			if err != nil {
				return nil, err
			}
			beam.DependsOn = arr
		case "inputs":
			if _, err := p.expect(tokEquals); err != nil {
				return nil, err
			}
			arr, err := p.parseStringArray()
			if err != nil {
				return nil, err
			}
			beam.Inputs = arr
		case "outputs":
			if _, err := p.expect(tokEquals); err != nil {
				return nil, err
			}
			arr, err := p.parseStringArray()
			if err != nil {
				return nil, err
			}
			beam.Outputs = arr
		case "env":
			fields, err := p.parseGenericBlock()
			if err != nil {
				return nil, err
			}
			env := map[string]string{}
			for k, v := range fields {
				s, err := asString(v, fmt.Sprintf("env.%s", k))
				if err != nil {
					return nil, err
				}
				env[k] = s
			}
			beam.Env = env
		case "condition":
			fields, err := p.parseGenericBlock()
			if err != nil {
				return nil, err
			}
			cond, err := buildCondition(fields)
			if err != nil {
				return nil, err
			}
			beam.Condition = cond
		case "pre_hook":
			fields, err := p.parseGenericBlock()
			if err != nil {
				return nil, err
			}
			beam.PreHooks = append(beam.PreHooks, buildHook(fields))
		case "post_hook":
			fields, err := p.parseGenericBlock()
			if err != nil {
				return nil, err
			}
			beam.PostHooks = append(beam.PostHooks, buildHook(fields))
		case "run":
			fields, err := p.parseGenericBlock()
			if err != nil {
				return nil, err
			}
			rb, err := buildRunBlock(fields)
			if err != nil {
				return nil, err
			}
			beam.Run = rb
		default:
			return nil, &ParseError{Message: fmt.Sprintf("unknown beam field %q", key), Offset: p.cur.offset, End: p.cur.offset}
		}
	}

	if _, err := p.expect(tokRBrace); err != nil {
		return nil, err
	}
	return beam, nil
}

// parseGenericBlock parses "{" kv-pair* "}" where kv-pair := IDENT "="
// value, or IDENT block with the "=" left out (`env_equals { ... }`,
// `not { ... }`). The opening "{" must be the current token.
func (p *parser) parseGenericBlock() (map[string]astValue, error) {
	if _, err := p.expect(tokLBrace); err != nil {
		return nil, err
	}
	fields := map[string]astValue{}
	for p.cur.kind != tokRBrace {
		if p.cur.kind != tokIdent {
			return nil, p.errorf("expected field name, found %s", p.cur.kind)
		}
		key := p.cur.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.kind != tokLBrace {
			if _, err := p.expect(tokEquals); err != nil {
				return nil, err
			}
		}
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		fields[key] = val
	}
	if _, err := p.expect(tokRBrace); err != nil {
		return nil, err
	}
	return fields, nil
}

// parseValue parses value := STRING | NUMBER | BOOL | array | block.
func (p *parser) parseValue() (astValue, error) {
	pos := p.cur.offset
	switch p.cur.kind {
	case tokString:
		tok, err := p.expect(tokString)
		if err != nil {
			return astValue{}, err
		}
		return astValue{kind: astString, str: tok.text, pos: pos}, nil
	case tokNumber:
		tok, err := p.expect(tokNumber)
		if err != nil {
			return astValue{}, err
		}
		n, err := strconv.ParseInt(tok.text, 10, 64)
		if err != nil {
			return astValue{}, &ParseError{Message: "malformed number", Offset: pos, End: pos}
		}
		return astValue{kind: astNumber, num: n, pos: pos}, nil
	case tokBool:
		tok, err := p.expect(tokBool)
		if err != nil {
			return astValue{}, err
		}
		return astValue{kind: astBool, boo: tok.text == "true", pos: pos}, nil
	case tokLBracket:
		return p.parseArrayValue()
	case tokLBrace:
		fields, err := p.parseGenericBlock()
		if err != nil {
			return astValue{}, err
		}
		return astValue{kind: astBlock, block: fields, pos: pos}, nil
	default:
		return astValue{}, p.errorf("expected value, found %s", p.cur.kind)
	}
}

// parseArrayValue parses array := "[" (value ("," value)* ","?)? "]",
// allowing a trailing comma.
func (p *parser) parseArrayValue() (astValue, error) {
	pos := p.cur.offset
	if _, err := p.expect(tokLBracket); err != nil {
		return astValue{}, err
	}
	var items []astValue
	for p.cur.kind != tokRBracket {
		val, err := p.parseValue()
		if err != nil {
			return astValue{}, err
		}
		items = append(items, val)
		if p.cur.kind == tokComma {
			if err := p.advance(); err != nil {
				return astValue{}, err
			}
			continue
		}
		break
	}
	if _, err := p.expect(tokRBracket); err != nil {
		return astValue{}, err
	}
	return astValue{kind: astArray, arr: items, pos: pos}, nil
}

// parseStringArray parses a string-array value, requiring every element to
// be a string (used by depends_on/inputs/outputs).
func (p *parser) parseStringArray() ([]string, error) {
	val, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	if val.kind != astArray {
		return nil, &ParseError{Message: "expected an array of strings", Offset: val.pos, End: val.pos}
	}
	out := make([]string, 0, len(val.arr))
	for _, item := range val.arr {
		s, err := asString(item, "array element")
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func asString(v astValue, what string) (string, error) {
	if v.kind != astString {
		return "", &ParseError{Message: fmt.Sprintf("%s must be a string", what), Offset: v.pos, End: v.pos}
	}
	return v.str, nil
}
