package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/simonhull/metaclean"
)

// Small inspection tool: prints the metadata metaclean sees in each
// file, the way a cleaning pass would enumerate it.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: meta-dump [--version] <file>...")
		os.Exit(1)
	}
	if os.Args[1] == "--version" {
		info := metaclean.GetVersionInfo()
		fmt.Printf("meta-dump %s (commit %s, built %s, %s)\n",
			info.Version, info.GitCommit, info.BuildTime, info.GoVersion)
		return
	}

	exit := 0
	for _, path := range os.Args[1:] {
		if err := dump(path); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			exit = 1
		}
	}
	os.Exit(exit)
}

func dump(path string) error {
	p, err := metaclean.New(path)
	if err != nil {
		return err
	}
	defer p.Finalize()

	meta, err := p.Meta()
	if err != nil {
		return err
	}

	fmt.Printf("%s:\n", path)
	if len(meta) == 0 {
		fmt.Println("  no recognized metadata")
		return nil
	}
	printMeta(meta, "  ")
	return nil
}

func printMeta(meta metaclean.Metadata, indent string) {
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		switch v := meta[k].(type) {
		case metaclean.Metadata:
			fmt.Printf("%s%s:\n", indent, k)
			printMeta(v, indent+"  ")
		default:
			fmt.Printf("%s%s: %v\n", indent, k, v)
		}
	}
}
