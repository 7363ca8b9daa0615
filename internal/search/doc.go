// Package search filters a property catalog by user criteria and checks
// criteria for contradictions.
//
// Criteria fields hold raw strings as a form supplies them. An empty
// string means the dimension is unconstrained. Filter and Validate are
// pure; Searcher adds memoization over a single catalog.
//
// Typical flow:
//
//	res := search.Validate(c)
//	if !res.IsValid {
//	    // show res.Errors
//	}
//	matches := search.Filter(cat.Properties(), c)
package search
