// Package decompose splits an order's aggregate price into per-tax-rate
// monetary buckets.
//
// Three algorithms exist. Standard trusts the stored tax lines. The two
// Shopify algorithms reconstruct gross prices from tax amounts to compensate
// for historically buggy upstream tax computations, then reconcile the
// cent-exact difference against the order's authoritative total. Which
// algorithm applies is an explicit dispatch on (Shopify order, pre-discount
// fix); see ForOrder.
//
// Every algorithm guarantees that the decomposed items sum cent-exact to the
// order total before the final contribution filter drops sub-cent buckets.
package decompose
