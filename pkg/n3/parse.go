// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package n3

import (
	"fmt"
	"strings"

	"github.com/kraklabs/hwke/pkg/rdf"
)

// Rule is a compiled N3 implication: a graph pattern antecedent and a
// graph pattern consequent, both expressed as triple patterns possibly
// containing Variable terms.
type Rule struct {
	ID          string
	Antecedent  []rdf.Triple
	Consequent  []rdf.Triple
}

type parser struct {
	lex     *lexer
	tok     token
	prefixes map[string]string
	blanks   map[string]rdf.Term
	blankSeq int
}

func newParser(src string) (*parser, error) {
	p := &parser{lex: newLexer(src), prefixes: map[string]string{}, blanks: map[string]rdf.Term{}}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *parser) errf(format string, args ...interface{}) error {
	return &lexError{p.tok.line, p.tok.col, fmt.Sprintf(format, args...)}
}

// skipDirectives consumes any leading @prefix/@base directives, registering
// their bindings.
func (p *parser) skipDirectives() error {
	for p.tok.kind == tokPrefixDirective {
		directive := p.tok.text
		if err := p.advance(); err != nil {
			return err
		}
		if directive == "prefix" {
			if p.tok.kind != tokPrefixedName {
				return p.errf("expected prefix label after @prefix")
			}
			label := strings.TrimSuffix(p.tok.text, ":")
			if err := p.advance(); err != nil {
				return err
			}
			if p.tok.kind != tokIRI {
				return p.errf("expected IRI after prefix label")
			}
			p.prefixes[label] = p.tok.text
			if err := p.advance(); err != nil {
				return err
			}
		} else {
			// @base <iri> . — skipped (the IRI is not recorded): the engine never
			// resolves relative IRIs against a base, by design (every
			// ingested IRI must already be absolute).
			if err := p.advance(); err != nil {
				return err
			}
		}
		if p.tok.kind != tokDot {
			return p.errf("expected '.' after directive")
		}
		if err := p.advance(); err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) resolvePrefixed(name string) (rdf.Term, error) {
	idx := strings.IndexByte(name, ':')
	if idx < 0 {
		return rdf.Term{}, p.errf("malformed prefixed name %q", name)
	}
	label, local := name[:idx], name[idx+1:]
	base, ok := p.prefixes[label]
	if !ok {
		return rdf.Term{}, p.errf("unbound prefix %q", label)
	}
	return rdf.NewIRI(base + local), nil
}

func (p *parser) blankNode(label string) rdf.Term {
	if t, ok := p.blanks[label]; ok {
		return t
	}
	p.blankSeq++
	t := rdf.NewBlankNode(fmt.Sprintf("b%d", p.blankSeq))
	p.blanks[label] = t
	return t
}

// parseTerm parses one RDF term, accepting variables when allowVar is set
// (rule bodies) and rejecting them otherwise (plain Turtle data).
func (p *parser) parseTerm(allowVar bool) (rdf.Term, error) {
	switch p.tok.kind {
	case tokIRI:
		t := rdf.NewIRI(p.tok.text)
		return t, p.advance()
	case tokPrefixedName:
		t, err := p.resolvePrefixed(p.tok.text)
		if err != nil {
			return rdf.Term{}, err
		}
		return t, p.advance()
	case tokA:
		t := rdf.NewIRI("http://www.w3.org/1999/02/22-rdf-syntax-ns#type")
		return t, p.advance()
	case tokBlankNode:
		t := p.blankNode(p.tok.text)
		return t, p.advance()
	case tokLiteral:
		t := decodeLiteral(p.tok.text)
		return t, p.advance()
	case tokVariable:
		if !allowVar {
			return rdf.Term{}, p.errf("variables are not allowed outside rule bodies")
		}
		t := rdf.NewVariable(p.tok.text)
		return t, p.advance()
	default:
		return rdf.Term{}, p.errf("expected a term")
	}
}

func decodeLiteral(raw string) rdf.Term {
	if idx := strings.IndexByte(raw, 0); idx >= 0 {
		lexical := raw[:idx]
		tag := raw[idx+1:]
		switch {
		case strings.HasPrefix(tag, "@"):
			return rdf.NewLangLiteral(lexical, strings.TrimPrefix(tag, "@"))
		case strings.HasPrefix(tag, "^"):
			return rdf.NewLiteral(lexical, strings.TrimPrefix(tag, "^"))
		}
	}
	return rdf.NewLiteral(raw, "")
}

// parseTriples parses a standard Turtle statement (subject; predicateObjectList) .
// and appends the resulting triples to out. allowVar permits variable
// terms, used when parsing an N3 rule's { } block.
func (p *parser) parseTriples(out *[]rdf.Triple, allowVar bool) error {
	subject, err := p.parseTerm(allowVar)
	if err != nil {
		return err
	}
	return p.parsePredicateObjectList(subject, out, allowVar)
}

func (p *parser) parsePredicateObjectList(subject rdf.Term, out *[]rdf.Triple, allowVar bool) error {
	for {
		predicate, err := p.parseTerm(allowVar)
		if err != nil {
			return err
		}
		for {
			object, err := p.parseTerm(allowVar)
			if err != nil {
				return err
			}
			*out = append(*out, rdf.Triple{Subject: subject, Predicate: predicate, Object: object})
			if p.tok.kind == tokComma {
				if err := p.advance(); err != nil {
					return err
				}
				continue
			}
			break
		}
		if p.tok.kind == tokSemicolon {
			if err := p.advance(); err != nil {
				return err
			}
			continue
		}
		break
	}
	return nil
}

// LoadTurtle parses a Turtle 1.1 subset document into a flat triple list.
// It rejects variable terms and "=>" rule syntax — use CompileRules for N3
// implication documents.
func LoadTurtle(src string) ([]rdf.Triple, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	if err := p.skipDirectives(); err != nil {
		return nil, err
	}
	var triples []rdf.Triple
	for p.tok.kind != tokEOF {
		if err := p.parseTriples(&triples, false); err != nil {
			return nil, err
		}
		if p.tok.kind != tokDot {
			return nil, p.errf("expected '.' to end statement")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	return triples, nil
}

// CompileRules parses an N3 document consisting solely of
// "{ antecedent } => { consequent } ." implication statements and returns
// one Rule per statement, in source order. Plain (non-rule) triples in the
// same document are an error: ontology data and rules are loaded through
// separate entry points so the two can never be confused.
func CompileRules(src string) ([]Rule, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	if err := p.skipDirectives(); err != nil {
		return nil, err
	}
	var rules []Rule
	n := 0
	for p.tok.kind != tokEOF {
		if p.tok.kind != tokOpenBrace {
			return nil, p.errf("expected '{' to start a rule antecedent")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		var antecedent []rdf.Triple
		for p.tok.kind != tokCloseBrace {
			if err := p.parseTriples(&antecedent, true); err != nil {
				return nil, err
			}
			if p.tok.kind == tokDot {
				if err := p.advance(); err != nil {
					return nil, err
				}
			}
		}
		if err := p.advance(); err != nil { // consume '}'
			return nil, err
		}
		if p.tok.kind != tokImplies {
			return nil, p.errf("expected '=>' after rule antecedent")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.kind != tokOpenBrace {
			return nil, p.errf("expected '{' to start a rule consequent")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		var consequent []rdf.Triple
		for p.tok.kind != tokCloseBrace {
			if err := p.parseTriples(&consequent, true); err != nil {
				return nil, err
			}
			if p.tok.kind == tokDot {
				if err := p.advance(); err != nil {
					return nil, err
				}
			}
		}
		if err := p.advance(); err != nil { // consume '}'
			return nil, err
		}
		if p.tok.kind != tokDot {
			return nil, p.errf("expected '.' to end rule statement")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		n++
		rules = append(rules, Rule{
			ID:         fmt.Sprintf("rule-%d", n),
			Antecedent: antecedent,
			Consequent: consequent,
		})
	}
	return rules, nil
}
