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

package sparql

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/kraklabs/hwke/pkg/rdf"
)

type tok struct {
	text string
}

func tokenize(src string) []tok {
	var toks []tok
	r := []rune(src)
	i := 0
	for i < len(r) {
		c := r[i]
		switch {
		case unicode.IsSpace(c):
			i++
		case c == '<':
			j := i + 1
			for j < len(r) && r[j] != '>' {
				j++
			}
			toks = append(toks, tok{string(r[i : j+1])})
			i = j + 1
		case c == '"':
			j := i + 1
			for j < len(r) && r[j] != '"' {
				j++
			}
			toks = append(toks, tok{string(r[i : j+1])})
			i = j + 1
		case c == '?':
			j := i + 1
			for j < len(r) && (unicode.IsLetter(r[j]) || unicode.IsDigit(r[j]) || r[j] == '_') {
				j++
			}
			toks = append(toks, tok{string(r[i:j])})
			i = j
		case c == '{' || c == '}' || c == '.' || c == '(' || c == ')' || c == ',':
			toks = append(toks, tok{string(c)})
			i++
		default:
			j := i
			for j < len(r) && !unicode.IsSpace(r[j]) && r[j] != '{' && r[j] != '}' && r[j] != '.' && r[j] != ',' {
				j++
			}
			toks = append(toks, tok{string(r[i:j])})
			i = j
		}
	}
	return toks
}

type parser struct {
	toks []tok
	pos  int
}

func (p *parser) peek() string {
	if p.pos >= len(p.toks) {
		return ""
	}
	return p.toks[p.pos].text
}

func (p *parser) next() string {
	t := p.peek()
	p.pos++
	return t
}

func (p *parser) upperPeek() string { return strings.ToUpper(p.peek()) }

// Parse parses the narrow SELECT/ASK/CONSTRUCT subset described in the
// package doc. Grammar (informal):
//
//	query     := ("SELECT" varlist | "ASK" | "CONSTRUCT" "{" triple+ "}") "WHERE"? "{" triple+ filter? "}" limit?
//	triple    := term term term "."
//	filter    := "FILTER" "(" "regex" "(" "?var" "," "\"pattern\"" ")" ")"
//	limit     := "LIMIT" number
func Parse(src string) (*Query, error) {
	p := &parser{toks: tokenize(src)}
	q := &Query{}

	switch p.upperPeek() {
	case "SELECT":
		p.next()
		q.Form = Select
		for p.peek() != "" && strings.HasPrefix(p.peek(), "?") {
			q.Vars = append(q.Vars, strings.TrimPrefix(p.next(), "?"))
		}
		if len(q.Vars) == 0 {
			return nil, &QueryError{"SELECT requires at least one variable"}
		}
	case "ASK":
		p.next()
		q.Form = Ask
	case "CONSTRUCT":
		p.next()
		q.Form = Construct
		tmpl, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		q.Construct = tmpl
	default:
		return nil, &QueryError{"expected SELECT, ASK, or CONSTRUCT"}
	}

	if p.upperPeek() == "WHERE" {
		p.next()
	}

	where, err := p.parseBlockWithFilter(q)
	if err != nil {
		return nil, err
	}
	q.Where = where

	if p.upperPeek() == "LIMIT" {
		p.next()
		n, err := strconv.Atoi(p.next())
		if err != nil {
			return nil, &QueryError{"malformed LIMIT"}
		}
		q.Limit = n
	}
	if p.peek() != "" {
		return nil, &QueryError{"unexpected trailing token " + p.peek()}
	}
	return q, nil
}

func (p *parser) parseBlock() ([]rdf.Triple, error) {
	if p.next() != "{" {
		return nil, &QueryError{"expected '{'"}
	}
	var triples []rdf.Triple
	for p.peek() != "}" {
		if p.peek() == "" {
			return nil, &QueryError{"unterminated block"}
		}
		tr, err := p.parseTriple()
		if err != nil {
			return nil, err
		}
		triples = append(triples, tr)
		if p.peek() == "." {
			p.next()
		}
	}
	p.next() // consume '}'
	return triples, nil
}

func (p *parser) parseBlockWithFilter(q *Query) ([]rdf.Triple, error) {
	if p.next() != "{" {
		return nil, &QueryError{"expected '{'"}
	}
	var triples []rdf.Triple
	for p.peek() != "}" {
		if p.peek() == "" {
			return nil, &QueryError{"unterminated block"}
		}
		if strings.ToUpper(p.peek()) == "FILTER" {
			p.next()
			f, err := p.parseFilter()
			if err != nil {
				return nil, err
			}
			q.Filter = f
			continue
		}
		tr, err := p.parseTriple()
		if err != nil {
			return nil, err
		}
		triples = append(triples, tr)
		if p.peek() == "." {
			p.next()
		}
	}
	p.next() // consume '}'
	return triples, nil
}

func (p *parser) parseFilter() (*Filter, error) {
	if p.next() != "(" {
		return nil, &QueryError{"expected '(' after FILTER"}
	}
	if strings.ToLower(p.next()) != "regex" {
		return nil, &QueryError{"only regex(...) filters are supported"}
	}
	if p.next() != "(" {
		return nil, &QueryError{"expected '(' after regex"}
	}
	v := p.next()
	if !strings.HasPrefix(v, "?") {
		return nil, &QueryError{"regex's first argument must be a variable"}
	}
	if p.peek() == "," {
		p.next()
	}
	pat := strings.Trim(p.next(), "\"")
	if p.peek() == ")" {
		p.next()
	}
	if p.peek() == ")" {
		p.next()
	}
	return &Filter{Var: strings.TrimPrefix(v, "?"), Pattern: pat}, nil
}

func (p *parser) parseTriple() (rdf.Triple, error) {
	s, err := p.parseTerm()
	if err != nil {
		return rdf.Triple{}, err
	}
	pr, err := p.parseTerm()
	if err != nil {
		return rdf.Triple{}, err
	}
	o, err := p.parseTerm()
	if err != nil {
		return rdf.Triple{}, err
	}
	return rdf.Triple{Subject: s, Predicate: pr, Object: o}, nil
}

func (p *parser) parseTerm() (rdf.Term, error) {
	t := p.next()
	switch {
	case t == "":
		return rdf.Term{}, &QueryError{"unexpected end of query"}
	case strings.HasPrefix(t, "?"):
		return rdf.NewVariable(strings.TrimPrefix(t, "?")), nil
	case strings.HasPrefix(t, "<") && strings.HasSuffix(t, ">"):
		return rdf.NewIRI(t[1 : len(t)-1]), nil
	case strings.HasPrefix(t, "\""):
		lit := strings.Trim(t, "\"")
		if strings.HasPrefix(p.peek(), "@") {
			lang := strings.TrimPrefix(p.next(), "@")
			return rdf.NewLangLiteral(lit, lang), nil
		}
		return rdf.NewLiteral(lit, ""), nil
	case t == "a":
		return rdf.NewIRI("http://www.w3.org/1999/02/22-rdf-syntax-ns#type"), nil
	default:
		return rdf.Term{}, &QueryError{"unrecognized term " + t}
	}
}
