package main

import "github.com/darmiel/checkin/cmd"

func main() {
	cmd.Execute()
}
