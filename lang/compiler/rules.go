package compiler

import "github.com/mna/ember/lang/token"

// precedence orders the binary/infix operators from loosest to
// tightest binding.
type precedence int

//nolint:revive
const (
	precNone       precedence = iota
	precAssignment            // =
	precOr                    // or
	precAnd                   // and
	precEquality              // == !=
	precComparison            // < > <= >=
	precTerm                  // + -
	precFactor                // * /
	precUnary                 // ! -
	precCall                  // . ()
	precPrimary
)

// parseFn is a prefix or infix parsing routine: canAssign tells it
// whether a trailing '=' may turn the expression being parsed into an
// assignment target (true only when the enclosing parsePrecedence call
// started at precAssignment or looser).
type parseFn func(c *Compiler, canAssign bool)

type rule struct {
	prefix     parseFn
	infix      parseFn
	precedence precedence
}

// rules is the Pratt parser's data-driven dispatch table, indexed by
// token kind. A zero-value rule (nil prefix, nil infix, precNone) means
// the token never begins or continues an expression.
var rules = map[token.Kind]rule{
	token.LPAREN:        {prefix: (*Compiler).grouping, infix: (*Compiler).call, precedence: precCall},
	token.MINUS:         {prefix: (*Compiler).unary, infix: (*Compiler).binary, precedence: precTerm},
	token.PLUS:          {infix: (*Compiler).binary, precedence: precTerm},
	token.SLASH:         {infix: (*Compiler).binary, precedence: precFactor},
	token.STAR:          {infix: (*Compiler).binary, precedence: precFactor},
	token.BANG:          {prefix: (*Compiler).unary},
	token.BANG_EQUAL:    {infix: (*Compiler).binary, precedence: precEquality},
	token.EQUAL_EQUAL:   {infix: (*Compiler).binary, precedence: precEquality},
	token.GREATER:       {infix: (*Compiler).binary, precedence: precComparison},
	token.GREATER_EQUAL: {infix: (*Compiler).binary, precedence: precComparison},
	token.LESS:          {infix: (*Compiler).binary, precedence: precComparison},
	token.LESS_EQUAL:    {infix: (*Compiler).binary, precedence: precComparison},
	token.IDENT:         {prefix: (*Compiler).variable},
	token.STRING:        {prefix: (*Compiler).stringLiteral},
	token.NUMBER:        {prefix: (*Compiler).number},
	token.AND:           {infix: (*Compiler).and_, precedence: precAnd},
	token.OR:            {infix: (*Compiler).or_, precedence: precOr},
	token.FALSE:         {prefix: (*Compiler).literal},
	token.NIL:           {prefix: (*Compiler).literal},
	token.TRUE:          {prefix: (*Compiler).literal},
}
