package main

import (
	"github.com/bujinwang/BadmintonGroup-sub005/internal/cli"
)

func main() {
	cli.Execute()
}
