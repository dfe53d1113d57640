package main

import (
	"context"

	"github.com/goliatone/go-places-export/cmd/places-export/commands"
)

func main() {
	commands.ExecuteContext(context.Background())
}
