package version

import (
	"fmt"
	"unicode"
)

var comparisonOps = []string{
	LessOrEqual,
	Less,
	Equal,
	NotEqual,
	GreaterOrEqual,
	Greater,
	CompatibleEqual,
	TripleEqual,
}

func isVersion(ch rune, _ int) bool {
	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '-' || ch == '_' || ch == '.' || ch == '*' || ch == '+' || ch == '!'
}

// ParseVersionRequirements parses a comma-separated list of PEP 440
// version clauses, e.g. ">=1.0,<2.0".
func ParseVersionRequirements(input string) ([]Requirement, error) {
	p := &parser{s: input}
	return versionRequirements(p)
}

func versionRequirement(p *parser) (Requirement, error) {
	p.skipWhitespace()
	op := p.expect(comparisonOps...)
	if op == "" {
		return Requirement{}, fmt.Errorf("expected version comparison operator")
	}

	p.skipWhitespace()
	versionString := p.expectFunc(isVersion)
	if versionString == "" {
		return Requirement{}, fmt.Errorf("expected valid version after comparison operator")
	}

	v, valid := Parse(versionString)
	if !valid {
		return Requirement{}, fmt.Errorf("invalid version '%s'", versionString)
	}

	return Requirement{
		Operator: op,
		Version:  v,
	}, nil
}

func versionRequirements(p *parser) ([]Requirement, error) {
	reqs := make([]Requirement, 0)
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
			// Multiple version specifiers should be separated by a comma, but
			// in some real-world requirement strings a new comparison
			// operator begins right away.
			continue
		} else {
			return reqs, nil
		}
	}
}
