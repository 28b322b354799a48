/*
Voltgen generates the glue between Go struct types and the volt rule runtime.

A rule module is a struct whose fields hold the rules of a grammar:

	//go:generate voltgen gen
	//volt:module
	type Arith struct {
		expr, term volt.Element
	}

For every field voltgen writes an accessor returning a handle to the rule,
and for the type an IntoRuleVec method that registers each rule under
"<Type>::<field>" with left-recursion detection applied:

	func ArithExpr() volt.Element {
		return volt.RuleRef(volt.RuleID("Arith::expr"))
	}

	func (a Arith) IntoRuleVec() volt.RuleVec {
		rules := make([]volt.Rule, 0, 2)
		rules = append(rules, volt.NewRule(volt.RuleID("Arith::expr"), a.expr).DetectLeftRecursion())
		rules = append(rules, volt.NewRule(volt.RuleID("Arith::term"), a.term).DetectLeftRecursion())
		return volt.RuleVec(rules)
	}

Usage:

	voltgen gen [-dir .] [-type T,...] [-output volt_gen.go|-] [-runtime path] [-config voltgen.yaml] [-check] [-v]
	voltgen list [-dir .] [-type T,...]

Runtime symbol names, the output file and the directive can be set in
voltgen.yaml.
*/
package main
