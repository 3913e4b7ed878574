// cmd/tensorgraph/main.go
package main

import (
	"fmt"
	"log"
	"os"

	"tensorgraph"
	"tensorgraph/internal/descriptor"
	"tensorgraph/internal/kernels"
)

const VERSION = "0.1.0"

// Command aliases, same convention cmd/sentra uses for its subcommands.
var commandAliases = map[string]string{
	"r": "run",
	"g": "gemm",
	"i": "ir",
	"v": "version",
	"h": "help",
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		showUsage()
		return
	}

	cmd := args[0]
	if alias, ok := commandAliases[cmd]; ok {
		cmd = alias
	}

	switch cmd {
	case "--help", "-h", "help":
		showUsage()
	case "--version", "-v", "version":
		fmt.Println("tensorgraph", VERSION)
	case "run":
		if err := runDemo(); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "gemm":
		if err := runGemmDemo(); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "ir":
		if err := runIRDemo(); err != nil {
			log.Fatalf("Error: %v", err)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		showUsage()
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Println(`tensorgraph - a small typed tensor expression graph compiler frontend

Usage:
  tensorgraph <command> [arguments]

Commands:
  run, r      build and evaluate a small vector-add graph
  gemm, g     build and evaluate a fused z <- b*z + a*(x*y) graph
  ir, i       emit the native codegen declare/extract/cleanup stubs for a vector
  version, v  print the version
  help, h     show this message`)
}

// runDemo builds x+y over two concrete vectors and prints the result,
// exercising the broadcast-lift Add path end to end.
func runDemo() error {
	x, err := descriptor.Astensor([]float64{1, 2, 3}, nil, "x")
	if err != nil {
		return err
	}
	y, err := descriptor.Astensor([]float64{10, 20, 30}, nil, "y")
	if err != nil {
		return err
	}

	z, err := tensorgraph.Add(x, y)
	if err != nil {
		return err
	}
	if err := tensorgraph.Eval(z); err != nil {
		return err
	}

	buf := z.Data()
	fmt.Print("x + y = [")
	for i := 0; i < buf.Size(); i++ {
		if i > 0 {
			fmt.Print(", ")
		}
		fmt.Print(buf.At(i))
	}
	fmt.Println("]")
	return nil
}

// runGemmDemo builds a 2x2 Gemm in place and prints the mutated z.
func runGemmDemo() error {
	z, err := descriptor.Astensor([][]float64{{1, 0}, {0, 1}}, nil, "z")
	if err != nil {
		return err
	}
	x, err := descriptor.Astensor([][]float64{{1, 2}, {3, 4}}, nil, "x")
	if err != nil {
		return err
	}
	y, err := descriptor.Astensor([][]float64{{5, 6}, {7, 8}}, nil, "y")
	if err != nil {
		return err
	}
	a, err := descriptor.Astensor(1.0, descriptor.Pattern{}, "a")
	if err != nil {
		return err
	}
	b, err := descriptor.Astensor(1.0, descriptor.Pattern{}, "b")
	if err != nil {
		return err
	}

	g, err := kernels.NewGemm(z, a, x, y, b)
	if err != nil {
		return err
	}
	if err := g.Perform(); err != nil {
		return err
	}

	buf := z.Data()
	shape := buf.Shape()
	fmt.Println("z <- b*z + a*(x*y) =")
	for i := 0; i < shape[0]; i++ {
		fmt.Print("  [")
		for j := 0; j < shape[1]; j++ {
			if j > 0 {
				fmt.Print(", ")
			}
			fmt.Print(buf.At(i*shape[1] + j))
		}
		fmt.Println("]")
	}
	return nil
}

// runIRDemo prints the native codegen stubs for a float64 vector named "v".
func runIRDemo() error {
	v := descriptor.FVector("v")
	stubs := v.Codegen()
	decl, err := stubs.Declare("v", nil)
	if err != nil {
		return err
	}
	fmt.Print(decl)
	return nil
}
