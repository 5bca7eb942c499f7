package main

import "inv_hub_v1/cmd"

func main() {
	cmd.Execute()
}
