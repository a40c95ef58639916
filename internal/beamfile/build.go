package beamfile

import "fmt"

// buildHook interprets a generic hook-body block into a Hook. Unknown keys
// are silently ignored for forward compatibility, per spec.
func buildHook(fields map[string]astValue) *Hook {
	h := &Hook{FailOnError: true}
	if v, ok := fields["commands"]; ok && v.kind == astArray {
		h.Commands = stringsFromArray(v)
	}
	if v, ok := fields["shell"]; ok && v.kind == astString {
		h.Shell = v.str
	}
	if v, ok := fields["working_dir"]; ok && v.kind == astString {
		h.WorkingDir = v.str
	}
	if v, ok := fields["fail_on_error"]; ok && v.kind == astBool {
		h.FailOnError = v.boo
	} else if v, ok := fields["fail_fast"]; ok && v.kind == astBool {
		h.FailOnError = v.boo
	}
	return h
}

// buildRunBlock interprets a generic hook-body block into a RunBlock.
// The DSL has no surface syntax for per-command descriptions (spec.md §9
// notes comparable gaps elsewhere); Command.Description is always empty
// when built from source text.
func buildRunBlock(fields map[string]astValue) (*RunBlock, error) {
	rb := &RunBlock{FailFast: true}
	if v, ok := fields["commands"]; ok {
		if v.kind != astArray {
			return nil, &ParseError{Message: "run.commands must be an array of strings", Offset: v.pos, End: v.pos}
		}
		for _, item := range v.arr {
			s, err := asString(item, "run.commands element")
			if err != nil {
				return nil, err
			}
			rb.Commands = append(rb.Commands, Command{Run: s})
		}
	}
	if v, ok := fields["shell"]; ok && v.kind == astString {
		rb.Shell = v.str
	}
	if v, ok := fields["working_dir"]; ok && v.kind == astString {
		rb.WorkingDir = v.str
	}
	if v, ok := fields["fail_fast"]; ok && v.kind == astBool {
		rb.FailFast = v.boo
	} else if v, ok := fields["fail_on_error"]; ok && v.kind == astBool {
		rb.FailFast = v.boo
	}
	return rb, nil
}

func stringsFromArray(v astValue) []string {
	out := make([]string, 0, len(v.arr))
	for _, item := range v.arr {
		if item.kind == astString {
			out = append(out, item.str)
		}
	}
	return out
}

// buildCondition interprets a generic cond-body block into a Condition
// tree. Recognized shapes:
//
//	file_exists = "STRING"
//	env_set     = "STRING"
//	env_equals  { name = "STRING" value = "STRING" }
//	command     = "STRING" [expect_success = BOOL]   (defaults true)
//	and         = [ {..}, {..} ]
//	or          = [ {..}, {..} ]
//	not         { ..single condition body.. }
func buildCondition(fields map[string]astValue) (*Condition, error) {
	if v, ok := fields["file_exists"]; ok {
		s, err := asString(v, "file_exists")
		if err != nil {
			return nil, err
		}
		return &Condition{Kind: CondFileExists, Path: s}, nil
	}
	if v, ok := fields["env_set"]; ok {
		s, err := asString(v, "env_set")
		if err != nil {
			return nil, err
		}
		return &Condition{Kind: CondEnvSet, EnvName: s}, nil
	}
	if v, ok := fields["env_equals"]; ok {
		if v.kind != astBlock {
			return nil, &ParseError{Message: "env_equals must be a block", Offset: v.pos, End: v.pos}
		}
		name, err := asString(v.block["name"], "env_equals.name")
		if err != nil {
			return nil, err
		}
		value, err := asString(v.block["value"], "env_equals.value")
		if err != nil {
			return nil, err
		}
		return &Condition{Kind: CondEnvEquals, EnvName: name, EnvValue: value}, nil
	}
	if v, ok := fields["command"]; ok {
		s, err := asString(v, "command")
		if err != nil {
			return nil, err
		}
		expect := true
		if ev, ok := fields["expect_success"]; ok {
			if ev.kind != astBool {
				return nil, &ParseError{Message: "expect_success must be a boolean", Offset: ev.pos, End: ev.pos}
			}
			expect = ev.boo
		}
		return &Condition{Kind: CondCommand, Command: s, ExpectSuccess: expect}, nil
	}
	if v, ok := fields["and"]; ok {
		children, err := buildConditionList(v)
		if err != nil {
			return nil, err
		}
		return &Condition{Kind: CondAnd, Children: children}, nil
	}
	if v, ok := fields["or"]; ok {
		children, err := buildConditionList(v)
		if err != nil {
			return nil, err
		}
		return &Condition{Kind: CondOr, Children: children}, nil
	}
	if v, ok := fields["not"]; ok {
		if v.kind != astBlock {
			return nil, &ParseError{Message: "not must be a condition block", Offset: v.pos, End: v.pos}
		}
		child, err := buildCondition(v.block)
		if err != nil {
			return nil, err
		}
		return &Condition{Kind: CondNot, Child: child}, nil
	}
	return nil, fmt.Errorf("empty or unrecognized condition body")
}

func buildConditionList(v astValue) ([]*Condition, error) {
	if v.kind != astArray {
		return nil, &ParseError{Message: "expected an array of condition blocks", Offset: v.pos, End: v.pos}
	}
	out := make([]*Condition, 0, len(v.arr))
	for _, item := range v.arr {
		if item.kind != astBlock {
			return nil, &ParseError{Message: "condition list elements must be blocks", Offset: item.pos, End: item.pos}
		}
		cond, err := buildCondition(item.block)
		if err != nil {
			return nil, err
		}
		out = append(out, cond)
	}
	return out, nil
}
