//go:build mage

package main

// Extract infers the outline of every document in input/ and writes structured/.
func Extract() error {
	return run("extract")
}
