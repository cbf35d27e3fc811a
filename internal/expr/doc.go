// Package expr compiles and evaluates CEL (Common Expression Language)
// predicates for rule documents.
//
// Expressions see the caller's facts as the `facts` map, e.g.
// `facts.age >= 18 && facts.country in ["NZ", "AU"]`, and must return a
// boolean.
package expr
