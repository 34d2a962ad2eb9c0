// Package git reads pipeline definitions and branch trees with go-git.
//
// It provides:
//   - Checkout, which clones one branch of a remote into memory and reads
//     the definition file from it
//   - BranchSource and TreeProbe, which list local branches and stat paths
//     in their trees for criteria matching
//   - ClassifyError, which maps go-git failures onto CheckoutError kinds
package git
