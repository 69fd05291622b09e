package filter

import (
	"sort"
	"strings"
)

// ErrorKind buckets a filter problem.
type ErrorKind string

const (
	// ErrorMalformedToken marks a token the tokenizer could not classify.
	ErrorMalformedToken ErrorKind = "malformed token"

	// ErrorParse marks a token that is illegal where it appears.
	ErrorParse ErrorKind = "parse error"

	// ErrorUnbalancedParen marks a parenthesis with no partner.
	ErrorUnbalancedParen ErrorKind = "unbalanced parenthesis"
)

// TokenError ties one offending token to its bucket.
type TokenError struct {
	Kind  ErrorKind
	Token Token
}

// Diagnostic collects every problem found in one expression and renders them
// with the offending tokens highlighted.
type Diagnostic struct {
	Expression string
	Problems   []TokenError
}

// Error renders the expression with a caret line underlining each offending
// token, followed by one line per problem bucket.
func (d *Diagnostic) Error() string {
	var b strings.Builder

	b.WriteString("invalid filter expression:\n")
	b.WriteString("  " + d.Expression + "\n")
	b.WriteString("  " + d.caretLine() + "\n")

	for _, kind := range []ErrorKind{ErrorMalformedToken, ErrorParse, ErrorUnbalancedParen} {
		values := d.valuesFor(kind)
		if len(values) == 0 {
			continue
		}
		b.WriteString("  " + string(kind) + ": " + strings.Join(values, ", ") + "\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func (d *Diagnostic) caretLine() string {
	line := make([]byte, len(d.Expression))
	for i := range line {
		line[i] = ' '
	}

	for _, p := range d.Problems {
		for i := p.Token.Start; i < p.Token.End && i < len(line); i++ {
			line[i] = '^'
		}
	}

	return strings.TrimRight(string(line), " ")
}

func (d *Diagnostic) valuesFor(kind ErrorKind) []string {
	var values []string
	seen := map[string]bool{}

	problems := make([]TokenError, len(d.Problems))
	copy(problems, d.Problems)
	sort.SliceStable(problems, func(i, j int) bool {
		return problems[i].Token.Start < problems[j].Token.Start
	})

	for _, p := range problems {
		if p.Kind != kind || seen[p.Token.Value] {
			continue
		}
		seen[p.Token.Value] = true
		values = append(values, p.Token.Value)
	}

	return values
}
