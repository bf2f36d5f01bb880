package main

import "github.com/jameskyle/email-summarizer/internal/cli"

func main() {
	cli.Execute()
}
