package main

import "github.com/devicelab-dev/suite-reporter/pkg/cli"

func main() {
	cli.Execute()
}
