package listing

import (
	"fmt"

	"github.com/kartiknair/metac/pkg/emit"
	"github.com/kartiknair/metac/pkg/opcode"
)

type IssueKind int

const (
	IssueStructure IssueKind = iota
	IssueUndefinedLabel
	IssueDuplicateLabel
	IssueUndefinedRule
	IssueRuleCount
)

var issueKinds = [...]string{
	IssueStructure:      "STRUCT",
	IssueUndefinedLabel: "LABEL",
	IssueDuplicateLabel: "DUPLICATE",
	IssueUndefinedRule:  "RULE",
	IssueRuleCount:      "COUNT",
}

func (k IssueKind) String() string {
	return issueKinds[k]
}

// Issue is one defect. Line is the 1-based index into the checked lines,
// or 0 when the defect is not tied to a single line.
type Issue struct {
	Kind    IssueKind
	Line    int
	Message string
}

func (i Issue) String() string {
	if i.Line == 0 {
		return fmt.Sprintf("%s: %s", i.Kind, i.Message)
	}
	return fmt.Sprintf("%s: line %d: %s", i.Kind, i.Line, i.Message)
}

// Check validates a listing. It returns nil for a clean one.
func Check(lines []emit.Line) []Issue {
	var issues []Issue

	if len(lines) == 0 {
		return []Issue{{Kind: IssueStructure, Message: "empty listing"}}
	}

	defined := make(map[string]int)
	calls := make(map[string]bool)
	var adr, end, returns int

	for i, l := range lines {
		n := i + 1

		if l.IsLabel() {
			if prev, ok := defined[l.Label]; ok {
				issues = append(issues, Issue{
					Kind:    IssueDuplicateLabel,
					Line:    n,
					Message: fmt.Sprintf("label %s already defined on line %d", l.Label, prev),
				})
				continue
			}
			defined[l.Label] = n
			continue
		}

		switch l.Op {
		case opcode.ADR:
			adr++
			calls[l.Operand] = true
			if n != 1 {
				issues = append(issues, Issue{Kind: IssueStructure, Line: n, Message: "ADR must be the first line"})
			}
		case opcode.END:
			end++
			if n != len(lines) {
				issues = append(issues, Issue{Kind: IssueStructure, Line: n, Message: "END must be the last line"})
			}
		case opcode.CLL:
			calls[l.Operand] = true
		case opcode.R:
			returns++
		}
	}

	if adr == 0 {
		issues = append(issues, Issue{Kind: IssueStructure, Message: "missing ADR"})
	}
	if end == 0 {
		issues = append(issues, Issue{Kind: IssueStructure, Message: "missing END"})
	}

	for i, l := range lines {
		if l.IsLabel() {
			continue
		}

		_, ok := defined[l.Operand]
		switch {
		case l.Op.IsBranch() && !ok:
			issues = append(issues, Issue{
				Kind:    IssueUndefinedLabel,
				Line:    i + 1,
				Message: fmt.Sprintf("%s targets undefined label %s", l.Op, l.Operand),
			})
		case (l.Op == opcode.ADR || l.Op == opcode.CLL) && !ok:
			issues = append(issues, Issue{
				Kind:    IssueUndefinedRule,
				Line:    i + 1,
				Message: fmt.Sprintf("%s names undefined rule %s", l.Op, l.Operand),
			})
		}
	}

	if rules := countRules(lines, calls); rules != returns {
		issues = append(issues, Issue{
			Kind:    IssueRuleCount,
			Message: fmt.Sprintf("%d rule entry points but %d R instructions", rules, returns),
		})
	}

	return issues
}

// countRules counts the labels that start a rule: the ones that are
// called, and the ones that directly follow ADR or R.
func countRules(lines []emit.Line, calls map[string]bool) int {
	seen := make(map[string]bool)

	for i, l := range lines {
		if !l.IsLabel() || seen[l.Label] {
			continue
		}

		entry := calls[l.Label]
		if i > 0 && !lines[i-1].IsLabel() {
			switch lines[i-1].Op {
			case opcode.ADR, opcode.R:
				entry = true
			}
		}

		if entry {
			seen[l.Label] = true
		}
	}

	return len(seen)
}
