// billing-api/main.go
package main

import "billing-api/cmd"

func main() {
	cmd.Execute()
}
