//go:build mage

package main

// Index stores the sections of structured/ in the SQLite section index.
func Index() error {
	return run("index", "store")
}
