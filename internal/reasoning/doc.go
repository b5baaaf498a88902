// Package reasoning relates confirmed objects spatially, applies the
// category-pair risk rules and renders explanations.
package reasoning
