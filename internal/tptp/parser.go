package tptp

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/rhartert/saturn/internal/clause"
	"github.com/rhartert/saturn/internal/stats"
	"github.com/rhartert/saturn/internal/term"
)

// Parser reads TPTP problem files into units. Include directives are
// resolved against the include root (the TPTP library root).
type Parser struct {
	store *term.Store
	infs  *clause.Store
	stats *stats.Statistics

	// IncludeRoot is the directory against which include() paths are
	// resolved. When it is empty, ParseFile uses the directory of the parsed
	// file.
	IncludeRoot string
}

// NewParser returns a parser producing units through the given stores.
func NewParser(store *term.Store, infs *clause.Store, st *stats.Statistics) *Parser {
	return &Parser{store: store, infs: infs, stats: st}
}

// ParseFile reads a TPTP problem file, following includes.
func (p *Parser) ParseFile(path string) ([]clause.Unit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read problem %q", path)
	}
	root := p.IncludeRoot
	if root == "" {
		root = filepath.Dir(path)
	}
	return p.parse(string(data), root)
}

// Parse reads TPTP text. Includes are resolved against the include root.
func (p *Parser) Parse(src string) ([]clause.Unit, error) {
	return p.parse(src, p.IncludeRoot)
}

func (p *Parser) parse(src, includeRoot string) ([]clause.Unit, error) {
	u := &unitParser{
		Parser: p,
		lx:     newLexer(src),
		vars:   map[string]int{},
	}
	if err := u.advance(); err != nil {
		return nil, err
	}
	var units []clause.Unit
	for u.tok.kind != tokEOF {
		switch {
		case u.tok.kind == tokLower && u.tok.text == "include":
			path, err := u.parseInclude()
			if err != nil {
				return nil, err
			}
			sub, err := p.ParseFileAt(includeRoot, path)
			if err != nil {
				return nil, err
			}
			units = append(units, sub...)
		case u.tok.kind == tokLower && (u.tok.text == "cnf" || u.tok.text == "fof"):
			unit, err := u.parseAnnotated(u.tok.text)
			if err != nil {
				return nil, err
			}
			units = append(units, unit)
		default:
			return nil, errors.Errorf("line %d: unexpected token %q", u.tok.line, u.tok.text)
		}
	}
	return units, nil
}

// ParseFileAt resolves an include path against the root and parses it.
func (p *Parser) ParseFileAt(root, path string) ([]clause.Unit, error) {
	full := path
	if !filepath.IsAbs(path) {
		full = filepath.Join(root, path)
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, errors.Wrapf(err, "could not resolve include %q", path)
	}
	return p.parse(string(data), root)
}

type unitParser struct {
	*Parser
	lx      *lexer
	tok     token
	vars    map[string]int
	nextVar int
}

func (u *unitParser) advance() error {
	t, err := u.lx.next()
	if err != nil {
		return err
	}
	u.tok = t
	return nil
}

func (u *unitParser) expect(k tokenKind) (token, error) {
	if u.tok.kind != k {
		return token{}, errors.Errorf("line %d: unexpected token %q", u.tok.line, u.tok.text)
	}
	t := u.tok
	return t, u.advance()
}

// parseInclude reads include('<path>').
func (u *unitParser) parseInclude() (string, error) {
	if err := u.advance(); err != nil { // include
		return "", err
	}
	if _, err := u.expect(tokLParen); err != nil {
		return "", err
	}
	name, err := u.expect(tokLower)
	if err != nil {
		return "", err
	}
	if _, err := u.expect(tokRParen); err != nil {
		return "", err
	}
	if _, err := u.expect(tokDot); err != nil {
		return "", err
	}
	return name.text, nil
}

// parseAnnotated reads cnf(name, role, formula). or fof(name, role,
// formula).
func (u *unitParser) parseAnnotated(lang string) (clause.Unit, error) {
	u.vars = map[string]int{}
	u.nextVar = 0

	if err := u.advance(); err != nil { // cnf / fof
		return nil, err
	}
	if _, err := u.expect(tokLParen); err != nil {
		return nil, err
	}
	name := u.tok.text
	if u.tok.kind != tokLower && u.tok.kind != tokUpper && u.tok.kind != tokNumber {
		return nil, errors.Errorf("line %d: invalid unit name %q", u.tok.line, u.tok.text)
	}
	if err := u.advance(); err != nil {
		return nil, err
	}
	if _, err := u.expect(tokComma); err != nil {
		return nil, err
	}
	role, err := u.expect(tokLower)
	if err != nil {
		return nil, err
	}
	inputType, err := roleToType(role.text)
	if err != nil {
		return nil, errors.Wrapf(err, "line %d", role.line)
	}
	if _, err := u.expect(tokComma); err != nil {
		return nil, err
	}

	var unit clause.Unit
	if lang == "cnf" {
		lits, err := u.parseDisjunction()
		if err != nil {
			return nil, err
		}
		u.stats.InputClauses++
		c := u.infs.NewClause(lits, inputType, clause.NewInference(clause.Input))
		unit = c
	} else {
		f, err := u.parseFormula()
		if err != nil {
			return nil, err
		}
		u.stats.InputFormulas++
		unit = u.infs.NewFormulaUnit(f, name, inputType, clause.NewInference(clause.Input))
	}

	if _, err := u.expect(tokRParen); err != nil {
		return nil, err
	}
	if _, err := u.expect(tokDot); err != nil {
		return nil, err
	}
	return unit, nil
}

func roleToType(role string) (clause.InputType, error) {
	switch role {
	case "axiom", "definition", "lemma", "theorem", "plain":
		return clause.Axiom, nil
	case "hypothesis":
		return clause.Hypothesis, nil
	case "assumption":
		return clause.Assumption, nil
	case "conjecture":
		return clause.Conjecture, nil
	case "negated_conjecture":
		return clause.NegatedConjecture, nil
	}
	return 0, errors.Errorf("unknown role %q", role)
}

// parseDisjunction reads a CNF clause body: a disjunction of literals,
// optionally parenthesised.
func (u *unitParser) parseDisjunction() ([]*term.Term, error) {
	paren := false
	if u.tok.kind == tokLParen {
		paren = true
		if err := u.advance(); err != nil {
			return nil, err
		}
	}
	var lits []*term.Term
	for {
		lit, err := u.parseLiteral()
		if err != nil {
			return nil, err
		}
		lits = append(lits, lit)
		if u.tok.kind != tokOr {
			break
		}
		if err := u.advance(); err != nil {
			return nil, err
		}
	}
	if paren {
		if _, err := u.expect(tokRParen); err != nil {
			return nil, err
		}
	}
	return lits, nil
}

// parseLiteral reads an optionally negated atom, including equality and
// inequality written infix.
func (u *unitParser) parseLiteral() (*term.Term, error) {
	positive := true
	for u.tok.kind == tokNot {
		positive = !positive
		if err := u.advance(); err != nil {
			return nil, err
		}
	}
	return u.parseAtom(positive)
}

func (u *unitParser) parseAtom(positive bool) (*term.Term, error) {
	t, err := u.parseTerm()
	if err != nil {
		return nil, err
	}
	switch u.tok.kind {
	case tokEqual, tokNotEq:
		eqPositive := u.tok.kind == tokEqual
		if err := u.advance(); err != nil {
			return nil, err
		}
		rhs, err := u.parseTerm()
		if err != nil {
			return nil, err
		}
		if !eqPositive {
			positive = !positive
		}
		return u.store.CreateEquality(positive, t, rhs, 0), nil
	}

	// A plain term in literal position is a predicate application: rebuild
	// it under the predicate namespace.
	if t.IsVar() {
		return nil, errors.Errorf("a variable cannot be a literal")
	}
	name := u.store.Sig.Function(t.Functor()).Name
	pred := u.store.Sig.AddPredicate(name, t.Arity())
	return u.store.CreateLiteral(pred, positive, t.Args()), nil
}

// parseTerm reads a function term, constant, number, or variable.
func (u *unitParser) parseTerm() (*term.Term, error) {
	switch u.tok.kind {
	case tokUpper:
		name := u.tok.text
		if err := u.advance(); err != nil {
			return nil, err
		}
		v, ok := u.vars[name]
		if !ok {
			v = u.nextVar
			u.nextVar++
			u.vars[name] = v
		}
		return u.store.Variable(v), nil
	case tokLower, tokNumber:
		name := u.tok.text
		interpreted := u.tok.kind == tokNumber
		if err := u.advance(); err != nil {
			return nil, err
		}
		var args []*term.Term
		if u.tok.kind == tokLParen {
			if err := u.advance(); err != nil {
				return nil, err
			}
			for {
				a, err := u.parseTerm()
				if err != nil {
					return nil, err
				}
				args = append(args, a)
				if u.tok.kind != tokComma {
					break
				}
				if err := u.advance(); err != nil {
					return nil, err
				}
			}
			if _, err := u.expect(tokRParen); err != nil {
				return nil, err
			}
		}
		f := u.store.Sig.AddFunction(name, len(args))
		if interpreted {
			u.store.Sig.Function(f).Interpreted = true
		}
		return u.store.Create(f, args), nil
	}
	return nil, errors.Errorf("line %d: unexpected token %q in term", u.tok.line, u.tok.text)
}

// parseFormula reads a FOF formula. Binary connectives of different kinds
// must be parenthesised; & and | chains associate.
func (u *unitParser) parseFormula() (*term.Formula, error) {
	f, err := u.parseUnitary()
	if err != nil {
		return nil, err
	}
	switch u.tok.kind {
	case tokAnd, tokOr:
		conn := term.And
		kind := u.tok.kind
		if kind == tokOr {
			conn = term.Or
		}
		sub := []*term.Formula{f}
		for u.tok.kind == kind {
			if err := u.advance(); err != nil {
				return nil, err
			}
			g, err := u.parseUnitary()
			if err != nil {
				return nil, err
			}
			sub = append(sub, g)
		}
		return term.NewJunction(conn, sub), nil
	case tokImplies, tokRevImp, tokIff, tokXor:
		kind := u.tok.kind
		if err := u.advance(); err != nil {
			return nil, err
		}
		g, err := u.parseUnitary()
		if err != nil {
			return nil, err
		}
		switch kind {
		case tokImplies:
			return term.NewBinary(term.Implies, f, g), nil
		case tokRevImp:
			return term.NewBinary(term.Implies, g, f), nil
		case tokIff:
			return term.NewBinary(term.Iff, f, g), nil
		default:
			return term.NewBinary(term.Xor, f, g), nil
		}
	}
	return f, nil
}

// parseUnitary reads a quantified, negated, parenthesised, or atomic
// formula.
func (u *unitParser) parseUnitary() (*term.Formula, error) {
	switch u.tok.kind {
	case tokDollar:
		name := u.tok.text
		if err := u.advance(); err != nil {
			return nil, err
		}
		switch name {
		case "$true":
			return &term.Formula{Conn: term.TrueConst}, nil
		case "$false":
			return &term.Formula{Conn: term.FalseConst}, nil
		}
		return nil, errors.Errorf("unsupported defined symbol %q", name)
	case tokBang, tokQuest:
		conn := term.Forall
		if u.tok.kind == tokQuest {
			conn = term.Exists
		}
		if err := u.advance(); err != nil {
			return nil, err
		}
		if _, err := u.expect(tokLBracket); err != nil {
			return nil, err
		}
		var vars []int
		for {
			name, err := u.expect(tokUpper)
			if err != nil {
				return nil, err
			}
			v, ok := u.vars[name.text]
			if !ok {
				v = u.nextVar
				u.nextVar++
				u.vars[name.text] = v
			}
			vars = append(vars, v)
			if u.tok.kind != tokComma {
				break
			}
			if err := u.advance(); err != nil {
				return nil, err
			}
		}
		if _, err := u.expect(tokRBracket); err != nil {
			return nil, err
		}
		if _, err := u.expect(tokColon); err != nil {
			return nil, err
		}
		body, err := u.parseUnitary()
		if err != nil {
			return nil, err
		}
		return term.NewQuantified(conn, vars, body), nil
	case tokNot:
		if err := u.advance(); err != nil {
			return nil, err
		}
		f, err := u.parseUnitary()
		if err != nil {
			return nil, err
		}
		return term.NewNot(f), nil
	case tokLParen:
		if err := u.advance(); err != nil {
			return nil, err
		}
		f, err := u.parseFormula()
		if err != nil {
			return nil, err
		}
		if _, err := u.expect(tokRParen); err != nil {
			return nil, err
		}
		return f, nil
	default:
		lit, err := u.parseLiteral()
		if err != nil {
			return nil, err
		}
		return term.NewLit(lit), nil
	}
}
