// Package main is the entry point for tiger.
package main

func main() {
	Execute()
}
