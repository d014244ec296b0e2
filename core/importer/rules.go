package importer

import (
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/edutrack/edutrack/core"
)

// FieldPurpose is one of the semantic slots filled from arbitrary headers.
type FieldPurpose int

const (
	StudentIdentifier FieldPurpose = iota
	Subject
	ExamType
	Score
)

// Purposes lists every FieldPurpose in resolution order.
var Purposes = []FieldPurpose{StudentIdentifier, Subject, ExamType, Score}

var purposeNames = map[FieldPurpose]string{
	StudentIdentifier: "student_id",
	Subject:           "subject",
	ExamType:          "exam_type",
	Score:             "score",
}

func (p FieldPurpose) String() string {
	if name, ok := purposeNames[p]; ok {
		return name
	}
	return "unknown"
}

func ParseFieldPurpose(name string) (FieldPurpose, error) {
	name = core.CleanString(name, true /* lower */)
	for p, n := range purposeNames {
		if n == name {
			return p, nil
		}
	}
	return 0, errors.Errorf("unknown field purpose %q", name)
}

// MappingRule holds the lowercase keyword fragments of a FieldPurpose, by priority.
type MappingRule []string

// Rules maps each FieldPurpose to its MappingRule.
type Rules map[FieldPurpose]MappingRule

func DefaultRules() Rules {
	return Rules{
		StudentIdentifier: {"id", "reg", "roll", "student", "number", "uid"},
		Subject:           {"sub", "course", "paper", "subject name"},
		ExamType:          {"exam", "test", "assessment", "category"},
		Score:             {"mark", "score", "value", "attained", "total"},
	}
}

// WithOverrides returns a copy of rules where the purposes named in `overrides` use the given keywords.
func (rules Rules) WithOverrides(overrides map[string][]string) (Rules, error) {
	out := make(Rules, len(rules))
	for p, rule := range rules {
		out[p] = append(MappingRule(nil), rule...)
	}

	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		p, err := ParseFieldPurpose(name)
		if err != nil {
			return nil, err
		}
		rule := make(MappingRule, 0, len(overrides[name]))
		for _, kw := range overrides[name] {
			if kw = core.CleanString(kw, true /* lower */); kw != "" {
				rule = append(rule, kw)
			}
		}
		if len(rule) == 0 {
			return nil, errors.Errorf("no keywords given for %s", p)
		}
		out[p] = rule
	}
	return out, nil
}

func (rules Rules) String() string {
	var b strings.Builder
	for _, p := range Purposes {
		b.WriteString(p.String())
		b.WriteString(": ")
		b.WriteString(strings.Join(rules[p], ", "))
		b.WriteByte('\n')
	}
	return b.String()
}
