package main

import (
	"flag"
	"fmt"
	"os"

	dlqinspect "profileupdater/tools/dlq-inspect"
)

var commands = map[string]func(){
	"dlq-inspect": dlqinspect.InspectDeadLetters,
}

func main() {
	flag.Parse()

	if flag.NArg() == 0 {
		printUsage(commands)
		os.Exit(1)
	}

	cmd := flag.Arg(0)
	fn, exists := commands[cmd]
	if !exists {
		fmt.Printf("Unknown command: %s\n", cmd)
		printUsage(commands)
		os.Exit(1)
	}

	fn()
}

func printUsage(commands map[string]func()) {
	fmt.Println("Usage: ./bin/tools <command>")
	fmt.Println("\nAvailable commands:")
	for name := range commands {
		fmt.Printf("  - %s\n", name)
	}
}
