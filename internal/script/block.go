package script

import "github.com/nerrad567/gray-logic-core/internal/devicetree"

// Statement is one entry in a block body: either a leaf action or a
// nested if/elseif/else chain.
type Statement struct {
	action *Action
	ifStmt *IfBlock
}

// Branch is one `if`/`elseif` arm: a condition tree and its body.
type Branch struct {
	cond *LogicNode
	body []Statement
}

// IfBlock models `if <cond> then … [elseif <cond> then …]* [else …]
// endif`, evaluated at the point of execution (spec.md §4.8).
type IfBlock struct {
	branches []Branch
	elseBody []Statement // nil if no else clause
}

// Run evaluates branches in order and runs the first matching body,
// or the else body if none match.
func (b *IfBlock) Run() error {
	for _, br := range b.branches {
		v, err := Eval(br.cond)
		if err != nil {
			return err
		}
		if v.Truthy() {
			return runStatements(br.body)
		}
	}
	if b.elseBody != nil {
		return runStatements(b.elseBody)
	}
	return nil
}

func runStatements(stmts []Statement) error {
	for _, s := range stmts {
		var err error
		if s.ifStmt != nil {
			err = s.ifStmt.Run()
		} else {
			err = s.action.Run()
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// OnBlock models `on <cond> do … endon`: re-evaluated every tick, the
// body runs once on the false→true transition (spec.md §4.8, §9
// "explicit state machine" redesign note).
type OnBlock struct {
	cond     *LogicNode
	body     []Statement
	wasTrue  bool
}

// Tick re-evaluates the condition and runs the body on a rising edge.
func (o *OnBlock) Tick() error {
	v, err := Eval(o.cond)
	if err != nil {
		return err
	}
	now := v.Truthy()
	fired := now && !o.wasTrue
	o.wasTrue = now
	if !fired {
		return nil
	}
	return runStatements(o.body)
}

// Script is a compiled set of on-blocks ready to be ticked by the
// dispatch loop.
type Script struct {
	root     *devicetree.Device
	OnBlocks []*OnBlock
}

// Tick advances every on-block one step. A runtime error stops that
// on-block's condition or body at the failing point (later statements
// of the body do not run); the remaining on-blocks still run this tick
// (spec.md §7 propagation rule). onErr, if non-nil,
// receives each error as it occurs.
func (s *Script) Tick(onErr func(error)) {
	for _, ob := range s.OnBlocks {
		if err := ob.Tick(); err != nil && onErr != nil {
			onErr(err)
		}
	}
}
