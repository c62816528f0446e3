// Package redos is a heuristic ReDoS (regular-expression denial-of-service)
// analyzer: a single AST walk reporting a severity in {safe, low, medium,
// high, critical} plus a list of human-readable reasons. It makes no claim
// of soundness or completeness — false positives are preferred over false
// negatives (spec §4.7).
package redos

import (
	"github.com/google/uuid"

	"github.com/0x4d5352/pcrestatic/internal/ast"
)

// Severity ranks a finding from least to most concerning.
type Severity int

const (
	Safe Severity = iota
	Low
	Medium
	High
	Critical
)

func (s Severity) String() string {
	switch s {
	case Safe:
		return "safe"
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	case Critical:
		return "critical"
	default:
		return "unknown"
	}
}

// Finding is one reported risk, tagged with a stable ID so a caller can
// suppress it across re-analyses of an edited pattern.
type Finding struct {
	ID       string
	Severity Severity
	Reason   string
	Position int
}

// Report is the aggregate result of Analyze: the overall severity is the
// maximum of all findings' severities (Safe if there are none).
type Report struct {
	Severity Severity
	Findings []Finding
}

// Options configures the analysis; an ignored pattern is always reported
// safe regardless of its structure (spec §4.7's ignore list).
type Options struct {
	IgnorePatterns map[string]bool
}

// Analyze walks re.Body looking for nested-unbounded-quantifier and
// overlapping-alternation-under-quantifier shapes.
func Analyze(re *ast.Regex, rendered string, opts Options) Report {
	if opts.IgnorePatterns != nil && opts.IgnorePatterns[rendered] {
		return Report{Severity: Safe}
	}
	a := &analyzer{}
	a.walk(re.Body, false, false)
	sev := Safe
	for _, f := range a.findings {
		if f.Severity > sev {
			sev = f.Severity
		}
	}
	return Report{Severity: sev, Findings: a.findings}
}

type analyzer struct {
	findings []Finding
}

func newID(seed string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(seed)).String()
}

// walk traverses the tree. insideUnbounded is true when an ancestor
// quantifier is unbounded ({n,} or +/*); guardedSafe is true when a
// (*COMMIT)/(*PRUNE)/(*SKIP) verb has been seen along the current path,
// which downgrades any finding below it to safe (spec §4.7).
func (a *analyzer) walk(n ast.Node, insideUnbounded, guardedSafe bool) bool {
	if n == nil {
		return false
	}
	switch node := n.(type) {
	case *ast.Sequence:
		// A backtracking-control verb (*COMMIT)/(*PRUNE)/(*SKIP) anywhere in
		// the same sequence guards the whole sequence: once reached it
		// prevents backtracking back into earlier siblings, so a vulnerable
		// quantifier elsewhere in this sequence is downgraded to safe.
		sawGuard := guardedSafe
		for _, c := range node.Children {
			if containsBacktrackGuard(c) {
				sawGuard = true
			}
		}
		for _, c := range node.Children {
			a.walk(c, insideUnbounded, sawGuard)
		}
		return sawGuard
	case *ast.Alternation:
		if insideUnbounded && !guardedSafe {
			a.checkOverlap(node)
		}
		for _, b := range node.Branches {
			a.walk(b, insideUnbounded, guardedSafe)
		}
		return guardedSafe
	case *ast.Group:
		return a.walk(node.Child, insideUnbounded, guardedSafe)
	case *ast.Quantifier:
		unbounded := node.Max == -1
		if unbounded && insideUnbounded && !guardedSafe {
			a.findings = append(a.findings, Finding{
				ID:       newID("nested-unbounded:" + positionKey(node)),
				Severity: Critical,
				Reason:   "nested unbounded quantifiers can backtrack catastrophically",
				Position: node.Span().Start,
			})
		}
		a.walk(node.Target, insideUnbounded || unbounded, guardedSafe)
		return guardedSafe
	case *ast.Conditional:
		a.walk(node.Condition, insideUnbounded, guardedSafe)
		a.walk(node.Then, insideUnbounded, guardedSafe)
		a.walk(node.Else, insideUnbounded, guardedSafe)
	}
	return guardedSafe
}

func containsBacktrackGuard(n ast.Node) bool {
	switch node := n.(type) {
	case *ast.Verb:
		switch node.VerbKind {
		case ast.VerbBacktrack:
			switch node.Name {
			case "COMMIT", "PRUNE", "SKIP":
				return true
			}
		}
	case *ast.Sequence:
		for _, c := range node.Children {
			if containsBacktrackGuard(c) {
				return true
			}
		}
	case *ast.Group:
		return containsBacktrackGuard(node.Child)
	}
	return false
}


// checkOverlap flags an alternation whose branches can match overlapping
// prefixes when repeated by an enclosing unbounded quantifier.
func (a *analyzer) checkOverlap(alt *ast.Alternation) {
	kinds := make([]branchKind, len(alt.Branches))
	for i, b := range alt.Branches {
		kinds[i] = classifyBranch(b)
	}
	for i := 0; i < len(kinds); i++ {
		for j := i + 1; j < len(kinds); j++ {
			sev, overlaps := kinds[i].overlapWith(kinds[j])
			if overlaps {
				a.findings = append(a.findings, Finding{
					ID:       newID("overlap:" + positionKey(alt)),
					Severity: sev,
					Reason:   "alternation branches under a quantifier overlap, risking catastrophic backtracking",
					Position: alt.Span().Start,
				})
				return
			}
		}
	}
}

type branchKind struct {
	isLiteral bool
	literal   string
	isClass   bool // char class, dot, char type, unicode prop, posix class
}

func classifyBranch(n ast.Node) branchKind {
	if seq, ok := n.(*ast.Sequence); ok && len(seq.Children) == 1 {
		n = seq.Children[0]
	}
	switch node := n.(type) {
	case *ast.Literal:
		return branchKind{isLiteral: true, literal: node.Text}
	case *ast.CharLiteral:
		return branchKind{isLiteral: true, literal: string(node.Codepoint)}
	case *ast.Dot, *ast.CharType, *ast.UnicodeProp, *ast.PosixClass, *ast.CharClass:
		return branchKind{isClass: true}
	}
	return branchKind{}
}

func (b branchKind) overlapWith(o branchKind) (Severity, bool) {
	if b.isLiteral && o.isLiteral {
		if b.literal == o.literal {
			return Critical, true
		}
		return Safe, false
	}
	if (b.isLiteral || b.isClass) && (o.isLiteral || o.isClass) && (b.isClass || o.isClass) {
		// A literal or class overlapping with a class/dot is assumed to
		// overlap (conservative: false positives preferred).
		return High, true
	}
	return Safe, false
}

func positionKey(n ast.Node) string {
	sp := n.Span()
	return itoa(sp.Start) + ":" + itoa(sp.End)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
