package main

import "gastank-alerts/internal/cli"

func main() {
	cli.Execute()
}
