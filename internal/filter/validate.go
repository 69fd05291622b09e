package filter

// legalSuccessors encodes the grammar as the set of token kinds allowed to
// follow each kind. The zero Kind stands for the start of the expression.
var legalSuccessors = map[Kind]map[Kind]bool{
	"": {
		KindStatement:  true,
		KindFStatement: true,
		KindNot:        true,
		KindOpenParen:  true,
	},
	KindAnd: {
		KindNot:        true,
		KindStatement:  true,
		KindFStatement: true,
		KindOpenParen:  true,
	},
	KindOr: {
		KindNot:        true,
		KindStatement:  true,
		KindFStatement: true,
		KindOpenParen:  true,
	},
	KindNot: {
		KindStatement:  true,
		KindFStatement: true,
		KindOpenParen:  true,
		KindNot:        true,
	},
	KindStatement: {
		KindAnd:        true,
		KindOr:         true,
		KindCloseParen: true,
	},
	KindFStatement: {
		KindAnd:        true,
		KindOr:         true,
		KindCloseParen: true,
	},
	KindOpenParen: {
		KindStatement:  true,
		KindFStatement: true,
		KindNot:        true,
		KindOpenParen:  true,
	},
	KindCloseParen: {
		KindAnd: true,
		KindOr:  true,
	},
}

// legalFinal is the set of kinds an expression may end on.
var legalFinal = map[Kind]bool{
	KindStatement:  true,
	KindFStatement: true,
	KindCloseParen: true,
}

// validate runs the successor grammar over the token sequence, tracking
// parenthesis balance. It returns nil when the expression is legal.
func validate(expression string, tokens []Token) *Diagnostic {
	diag := &Diagnostic{Expression: expression}

	var previous Kind
	var openStack []Token

	for _, tok := range tokens {
		if tok.Kind == KindBadToken {
			diag.Problems = append(diag.Problems, TokenError{Kind: ErrorMalformedToken, Token: tok})
			continue
		}

		if !legalSuccessors[previous][tok.Kind] {
			diag.Problems = append(diag.Problems, TokenError{Kind: ErrorParse, Token: tok})
		}

		switch tok.Kind {
		case KindOpenParen:
			openStack = append(openStack, tok)
		case KindCloseParen:
			if len(openStack) == 0 {
				diag.Problems = append(diag.Problems, TokenError{Kind: ErrorUnbalancedParen, Token: tok})
			} else {
				openStack = openStack[:len(openStack)-1]
			}
		}

		previous = tok.Kind
	}

	if previous != "" && !legalFinal[previous] {
		diag.Problems = append(diag.Problems, TokenError{Kind: ErrorParse, Token: tokens[len(tokens)-1]})
	}

	for _, open := range openStack {
		diag.Problems = append(diag.Problems, TokenError{Kind: ErrorUnbalancedParen, Token: open})
	}

	if len(diag.Problems) == 0 {
		return nil
	}

	return diag
}
