// Package harness runs reduction scenarios as executable contract tests.
//
// # Scenario Format
//
// Scenarios are YAML files. Trees are CUE (or JSON) sources, inline or in a
// file next to the scenario:
//
//	name: fold_after_substitution
//	description: "Substituting a constant folds the addition"
//	input: |
//	  _x: {kind: "Ident", name: "x", type: {kind: "Value"}}
//	  tree: {kind: "BinaryOp", a: _x, op: "+", b: {kind: "ConstInt", value: 1}}
//	  substitutions: [{from: _x, to: {kind: "ConstInt", value: 2}}]
//	options:
//	  type_behavior: substitute_subtypes
//	  empty_product: fail
//	expect:
//	  tree: '{kind: "ConstInt", value: 3}'
//	  canonical: true
//	assertions:
//	  - type: absent_kind
//	    kind: BinaryOp
//
// Input_file may replace input; it is resolved relative to the scenario.
// Select clauses in the input are lowered before reduction.
//
// # Expectations
//
//   - tree: the reduced tree must equal it (source locations ignored)
//   - error: the reduction must fail with this error code
//   - canonical: the reduced tree must pass canonical validation
//
// # Assertion Types
//
//   - contains_kind: Some node of the given kind remains
//   - absent_kind: No node of the given kind remains
//   - count_kind: Exactly count nodes of the given kind remain
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/fold.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if !result.Pass {
//	    for _, e := range result.Errors {
//	        log.Println(e)
//	    }
//	}
//
// Reduction logs are discarded.
package harness
