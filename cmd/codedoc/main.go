package main

import "github.com/mvp-joe/codedoc/internal/cli"

func main() {
	cli.Execute()
}
