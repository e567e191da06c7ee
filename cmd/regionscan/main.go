// Command regionscan inspects Hytale region files and reports how much of
// each one could be decoded or recovered.
package main

func main() {
	execute()
}
