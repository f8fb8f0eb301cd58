package main

import (
	"fmt"
	"os"
	"tradedesk/cmd/tradedesk"
)

func main() {
	if err := tradedesk.Command.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
