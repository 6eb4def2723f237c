package main

import (
	"pluginforge.dev/cli/internal/interfaces/cli"
	"pluginforge.dev/cli/internal/interfaces/di"
)

func main() {
	container := di.NewContainer()
	cli.Execute(container)
}
