// Package pep508 parses dependency specifications according to PEP 508.
// https://www.python.org/dev/peps/pep-0508/
package pep508

import (
	"fmt"
	"unicode"

	"github.com/nathanjmcdougall/uv/version"
)

// ErrURLNotSupported is returned when a URL is encountered while parsing a
// dependency specification that only allows a registry specifier, e.g. the
// dependants recorded inside a lockfile.
var ErrURLNotSupported = fmt.Errorf("url not supported")

// Dependency is a parsed PEP 508 dependency specification: a distribution
// name, optional extras, either version clauses or a URL, and an optional
// environment marker expression.
type Dependency struct {
	Name     string
	Versions []version.Requirement
	Extras   []string
	URL      string

	expr []Expr
}

// ParseDependency parses a dependency string according to PEP 508.
func ParseDependency(input string) (*Dependency, error) {
	p := &parser{s: input}
	d := &Dependency{}

	p.skipWhitespace()
	name := p.expectFunc(identifier)
	if name == "" {
		return nil, fmt.Errorf("expected distribution name")
	}
	d.Name = name

	p.skipWhitespace()
	if p.peekRune() == '[' {
		extras, err := parseExtras(p)
		if err != nil {
			return nil, err
		}
		d.Extras = extras
	}

	p.skipWhitespace()
	switch r := p.peekRune(); {
	case r == '(':
		p.next()

		var err error
		d.Versions, err = versionRequirements(p)
		if err != nil {
			return nil, err
		}

		if p.next() != ')' {
			return nil, fmt.Errorf("expected closing parenthesis")
		}
	case p.peek(comparisonOps...):
		var err error
		d.Versions, err = versionRequirements(p)
		if err != nil {
			return nil, err
		}
	case r == '@':
		p.next()
		p.skipWhitespace()
		d.URL = p.expectFunc(func(r rune, _ int) bool { return !unicode.IsSpace(r) })
		if d.URL == "" {
			return nil, fmt.Errorf("expected URL after '@'")
		}
	case r == eof:
		return d, nil
	}

	p.skipWhitespace()
	if r := p.peekRune(); r == ';' {
		expr, err := environmentMarkers(p)
		if err != nil {
			return nil, err
		}
		d.expr = expr
	}

	p.skipWhitespace()
	if r := p.peekRune(); r != eof {
		return nil, fmt.Errorf("expected end of string, remaining: '%s'", p.s[p.pos:])
	}

	return d, nil
}

// ParseDependencyNoURL parses a dependency string the same way as
// ParseDependency but rejects a URL specifier, matching the teacher's
// historical behavior for dependants recorded without network access
// (e.g. a lockfile entry that must resolve from the registry).
func ParseDependencyNoURL(input string) (*Dependency, error) {
	d, err := ParseDependency(input)
	if err != nil {
		return nil, err
	}
	if d.URL != "" {
		return nil, ErrURLNotSupported
	}
	return d, nil
}

var comparisonOps = []string{
	version.LessOrEqual,
	version.Less,
	version.Equal,
	version.NotEqual,
	version.GreaterOrEqual,
	version.Greater,
	version.CompatibleEqual,
	version.TripleEqual,
}

func isVersion(ch rune, _ int) bool {
	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '-' || ch == '_' || ch == '.' || ch == '*' || ch == '+' || ch == '!'
}

func versionRequirement(p *parser) (version.Requirement, error) {
	p.skipWhitespace()
	op := p.expect(comparisonOps...)
	if op == "" {
		return version.Requirement{}, fmt.Errorf("expected version comparison operator")
	}

	p.skipWhitespace()
	versionString := p.expectFunc(isVersion)
	if versionString == "" {
		return version.Requirement{}, fmt.Errorf("expected valid version after comparison operator")
	}

	v, valid := version.Parse(versionString)
	if !valid {
		return version.Requirement{}, fmt.Errorf("invalid version '%s'", versionString)
	}

	return version.Requirement{Operator: op, Version: v}, nil
}

func versionRequirements(p *parser) ([]version.Requirement, error) {
	reqs := make([]version.Requirement, 0)
	for {
		req, err := versionRequirement(p)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, req)

		p.skipWhitespace()
		if r := p.peekRune(); r == ',' {
			p.next()
		} else if p.peek(comparisonOps...) {
			continue
		} else {
			return reqs, nil
		}
	}
}

func parseExtras(p *parser) ([]string, error) {
	p.next() // consume '['

	extras := make([]string, 0)
	for {
		p.skipWhitespace()
		extra := p.expectFunc(identifier)
		if extra == "" {
			return nil, fmt.Errorf("expected extras")
		}
		extras = append(extras, extra)

		p.skipWhitespace()
		if r := p.peekRune(); r == ']' {
			p.next()
			return extras, nil
		} else if r == ',' {
			p.next()
		}
	}
}

func identifier(r rune, i int) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || i > 0 && (r == '-' || r == '_' || r == '.')
}
