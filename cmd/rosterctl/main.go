package main

import "kpolitics-backend/cmd/rosterctl/cmd"

func main() {
	cmd.Execute()
}
