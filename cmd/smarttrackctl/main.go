package main

import "github.com/smarttrack/smarttrack-backend-go/cmd/smarttrackctl/arg"

func main() {
	arg.Execute()
}
