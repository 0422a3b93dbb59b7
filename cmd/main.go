package main

import "github.com/yungbote/yamdb-backend/internal/cli"

func main() {
	cli.Execute()
}
