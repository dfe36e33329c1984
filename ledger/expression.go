package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// EvaluateAmount reads a figure that may be a sum worked out by hand, such as
// "36.000,00 + 1.250,50" or "(120.000 - 2.500) * 0,18". Every literal is read with
// ParseAmount, so Turkish grouping works inside expressions. A plain amount,
// including the accounting negative "(1.234,50)", is returned as ParseAmount reads it.
// * and / bind tighter than + and -.
func EvaluateAmount(expr string) (decimal.Decimal, error) {
	if d, err := ParseAmount(expr); err == nil {
		return d, nil
	}

	s := strings.TrimSpace(expr)
	s = strings.TrimSuffix(s, "TL")
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, fmt.Errorf("empty expression")
	}

	lex := &exprLexer{input: s}
	result, err := lex.parseExpr(0)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount expression %q: %w", expr, err)
	}

	if !lex.isAtEnd() {
		return decimal.Zero, fmt.Errorf("invalid amount expression %q: unexpected %q at position %d", expr, lex.peek(), lex.pos)
	}

	return result, nil
}

type exprLexer struct {
	input string
	pos   int
}

func (l *exprLexer) skipWhitespace() {
	for l.pos < len(l.input) && (l.input[l.pos] == ' ' || l.input[l.pos] == '\t') {
		l.pos++
	}
}

func (l *exprLexer) isAtEnd() bool {
	l.skipWhitespace()
	return l.pos >= len(l.input)
}

func (l *exprLexer) peek() byte {
	l.skipWhitespace()
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *exprLexer) advance() byte {
	l.skipWhitespace()
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	return ch
}

// parseLiteral consumes digits and separators and reads them as one amount.
func (l *exprLexer) parseLiteral() (decimal.Decimal, error) {
	l.skipWhitespace()
	start := l.pos

	foundDigit := false
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch >= '0' && ch <= '9' {
			foundDigit = true
		} else if ch != '.' && ch != ',' {
			break
		}
		l.pos++
	}

	if !foundDigit {
		return decimal.Zero, fmt.Errorf("expected amount at position %d", start)
	}

	return ParseAmount(l.input[start:l.pos])
}

func (l *exprLexer) parsePrimary() (decimal.Decimal, error) {
	switch l.peek() {
	case '(':
		l.advance()
		result, err := l.parseExpr(0)
		if err != nil {
			return decimal.Zero, err
		}
		if l.peek() != ')' {
			return decimal.Zero, fmt.Errorf("expected ')' at position %d", l.pos)
		}
		l.advance()
		return result, nil

	case '-':
		l.advance()
		operand, err := l.parsePrimary()
		if err != nil {
			return decimal.Zero, err
		}
		return operand.Neg(), nil
	}

	return l.parseLiteral()
}

// parseExpr is a precedence-climbing parser.
func (l *exprLexer) parseExpr(minPrec int) (decimal.Decimal, error) {
	left, err := l.parsePrimary()
	if err != nil {
		return decimal.Zero, err
	}

	for {
		op := l.peek()
		prec := precedence(op)
		if prec == 0 || prec < minPrec {
			break
		}
		l.advance()

		right, err := l.parseExpr(prec + 1)
		if err != nil {
			return decimal.Zero, err
		}

		left, err = applyOp(left, op, right)
		if err != nil {
			return decimal.Zero, err
		}
	}

	return left, nil
}

func precedence(op byte) int {
	switch op {
	case '+', '-':
		return 1
	case '*', '/':
		return 2
	default:
		return 0
	}
}

func applyOp(left decimal.Decimal, op byte, right decimal.Decimal) (decimal.Decimal, error) {
	switch op {
	case '+':
		return left.Add(right), nil
	case '-':
		return left.Sub(right), nil
	case '*':
		return left.Mul(right), nil
	default:
		if right.IsZero() {
			return decimal.Zero, fmt.Errorf("division by zero")
		}
		return left.Div(right), nil
	}
}
